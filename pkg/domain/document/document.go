package document

import (
	"encoding/json"
	"time"
)

// Document is a stored case document addressed by collection and id.
type Document struct {
	ID         string          `json:"id"`
	Collection string          `json:"collection"`
	Data       json.RawMessage `json:"data"`
	CreatedAt  time.Time       `json:"created"`
	UpdatedAt  time.Time       `json:"updated"`
}

// Key is the cache key of a document.
func Key(collection, id string) string {
	return collection + "/" + id
}
