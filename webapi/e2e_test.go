package webapi_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/casevault/casevault/pkg/domain"
	authsvc "github.com/casevault/casevault/pkg/service/auth"
	"github.com/casevault/casevault/webapi/common"
	"github.com/casevault/casevault/webapi/testutils"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/suite"
)

type E2ETestSuite struct {
	testutils.E2ETestSuite
	token string
}

func (s *E2ETestSuite) SetupTest() {
	raw, err := authsvc.NewHMACStrategy(s.Cfg.Auth.Hmac).Sign("uid-e2e", "e2e@example.com", time.Minute)
	s.Require().NoError(err)
	s.token = raw
}

func (s *E2ETestSuite) TestLoginRecordsUser() {
	resp := s.MakeRequest(fiber.MethodPost, "/login", `{"idToken":"`+s.token+`"}`, "")
	defer resp.Body.Close() //nolint:errcheck
	s.Equal(fiber.StatusOK, resp.StatusCode)

	var count int64
	s.Require().NoError(s.DB.Table("users").Where("uid = ?", "uid-e2e").Count(&count).Error)
	s.Equal(int64(1), count)

	again := s.MakeRequest(fiber.MethodPost, "/login", `{"idToken":"`+s.token+`"}`, "")
	defer again.Body.Close() //nolint:errcheck
	s.Equal(fiber.StatusOK, again.StatusCode, "repeat logins upsert")
}

func (s *E2ETestSuite) TestDocumentLookup() {
	s.Require().NoError(s.DB.Exec(
		`INSERT INTO documents (collection, id, data) VALUES (?, ?, ?::jsonb) ON CONFLICT DO NOTHING`,
		"cases", "c-e2e", `{"title":"Smith v. Jones"}`,
	).Error)

	resp := s.MakeRequest(fiber.MethodGet, "/documents/cases/c-e2e", "", s.token)
	defer resp.Body.Close() //nolint:errcheck
	s.Equal(fiber.StatusOK, resp.StatusCode)

	missing := s.MakeRequest(fiber.MethodGet, "/documents/cases/absent", "", s.token)
	defer missing.Body.Close() //nolint:errcheck
	s.Equal(fiber.StatusNotFound, missing.StatusCode)
	var pd common.ProblemDetails
	s.Require().NoError(json.NewDecoder(missing.Body).Decode(&pd))
	s.Equal(domain.ErrNotFound.Error(), pd.Detail)
}

func TestE2ETestSuite(t *testing.T) {
	suite.Run(t, new(E2ETestSuite))
}
