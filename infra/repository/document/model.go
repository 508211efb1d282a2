package document

import (
	"encoding/json"
	"time"

	domaindoc "github.com/casevault/casevault/pkg/domain/document"
)

// Document is the documents table row, keyed by (collection, id).
type Document struct {
	Collection string `gorm:"primaryKey;size:128"`
	ID         string `gorm:"primaryKey;size:128"`
	Data       []byte `gorm:"type:jsonb"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (Document) TableName() string {
	return "documents"
}

func (m *Document) toDomain() *domaindoc.Document {
	return &domaindoc.Document{
		ID:         m.ID,
		Collection: m.Collection,
		Data:       json.RawMessage(m.Data),
		CreatedAt:  m.CreatedAt,
		UpdatedAt:  m.UpdatedAt,
	}
}
