package middleware

import (
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/casevault/casevault/pkg/config"
	authsvc "github.com/casevault/casevault/pkg/service/auth"
	jwtware "github.com/gofiber/contrib/jwt"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var hmacCfg = &config.Hmac{Secret: "middleware-secret", Issuer: "casevault-dev"}

func newProtectedApp() *fiber.App {
	svc := authsvc.NewWithHMAC(hmacCfg, nil, slog.Default())
	app := fiber.New()
	app.Use(Protected(svc))
	app.Get("/", func(c *fiber.Ctx) error {
		claims := ClaimsFrom(c)
		if claims == nil {
			return c.SendStatus(fiber.StatusInternalServerError)
		}
		return c.SendString(claims.UID)
	})
	return app
}

func request(t *testing.T, app *fiber.App, bearer string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if bearer != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+bearer)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func TestProtected_MissingToken(t *testing.T) {
	resp := request(t, newProtectedApp(), "")
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestProtected_InvalidToken(t *testing.T) {
	resp := request(t, newProtectedApp(), "not.a.jwt")
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestProtected_WrongIssuer(t *testing.T) {
	other := authsvc.NewHMACStrategy(&config.Hmac{Secret: hmacCfg.Secret, Issuer: "elsewhere"})
	raw, err := other.Sign("uid-1", "user@example.com", time.Minute)
	require.NoError(t, err)

	resp := request(t, newProtectedApp(), raw)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestProtected_ValidToken(t *testing.T) {
	raw, err := authsvc.NewHMACStrategy(hmacCfg).Sign("uid-1", "user@example.com", time.Minute)
	require.NoError(t, err)

	resp := request(t, newProtectedApp(), raw)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestJwtError_Malformed(t *testing.T) {
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		return jwtError(c, jwtware.ErrJWTMissingOrMalformed)
	})
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestJwtError_Invalid(t *testing.T) {
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		return jwtError(c, errors.New("any other error"))
	})
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}
