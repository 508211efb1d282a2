package auth_test

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/casevault/casevault/internal/fixtures"
	"github.com/casevault/casevault/pkg/config"
	authsvc "github.com/casevault/casevault/pkg/service/auth"
	"github.com/casevault/casevault/webapi/auth"
	"github.com/casevault/casevault/webapi/common"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

var hmacCfg = &config.Hmac{Secret: "web-secret", Issuer: "casevault-dev"}

type LoginTestSuite struct {
	suite.Suite
	users *fixtures.MockUserRepository
	app   *fiber.App
}

func (s *LoginTestSuite) SetupTest() {
	s.users = fixtures.NewMockUserRepository(s.T())
	s.app = fiber.New()
	auth.Routes(s.app, authsvc.NewWithHMAC(hmacCfg, s.users, slog.Default()))
}

func (s *LoginTestSuite) post(body string) *http.Response {
	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(body))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	resp, err := s.app.Test(req)
	s.Require().NoError(err)
	s.T().Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func (s *LoginTestSuite) sign() string {
	raw, err := authsvc.NewHMACStrategy(hmacCfg).Sign("uid-1", "user@example.com", time.Minute)
	s.Require().NoError(err)
	return raw
}

func (s *LoginTestSuite) TestBadRequest() {
	s.Equal(fiber.StatusBadRequest, s.post(`{"idToken":123}`).StatusCode)
	s.Equal(fiber.StatusBadRequest, s.post(`{}`).StatusCode)
}

func (s *LoginTestSuite) TestUnauthorized() {
	resp := s.post(`{"idToken":"forged.token.value"}`)
	s.Equal(fiber.StatusUnauthorized, resp.StatusCode)

	var pd common.ProblemDetails
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&pd))
	s.Equal("Invalid identity token", pd.Title)
}

func (s *LoginTestSuite) TestSuccess() {
	s.users.On("Upsert", mock.Anything, mock.Anything).Return(nil).Once()

	resp := s.post(`{"idToken":"` + s.sign() + `"}`)
	s.Equal(fiber.StatusOK, resp.StatusCode)

	var response common.Response
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&response))
	data := response.Data.(map[string]any)
	s.Equal("uid-1", data["uid"])
	s.Equal("user@example.com", data["email"])
}

func (s *LoginTestSuite) TestRepositoryFailure() {
	s.users.On("Upsert", mock.Anything, mock.Anything).Return(errors.New("db down")).Once()

	resp := s.post(`{"idToken":"` + s.sign() + `"}`)
	s.Equal(fiber.StatusInternalServerError, resp.StatusCode)
}

func TestLoginTestSuite(t *testing.T) {
	suite.Run(t, new(LoginTestSuite))
}
