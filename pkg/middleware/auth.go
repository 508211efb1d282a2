package middleware

import (
	"errors"

	domainauth "github.com/casevault/casevault/pkg/domain/auth"
	authsvc "github.com/casevault/casevault/pkg/service/auth"
	"github.com/casevault/casevault/webapi/common"
	jwtware "github.com/gofiber/contrib/jwt"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

const (
	tokenKey  = "user"
	claimsKey = "claims"
)

// Protected requires a bearer identity token accepted by svc. The verified
// claims are stored for ClaimsFrom.
func Protected(svc *authsvc.Service) fiber.Handler {
	return jwtware.New(jwtware.Config{
		KeyFunc:     svc.Keyfunc(),
		Claims:      &authsvc.TokenClaims{},
		ContextKey:  tokenKey,
		TokenLookup: "header:Authorization",
		AuthScheme:  "Bearer",
		SuccessHandler: func(c *fiber.Ctx) error {
			token, _ := c.Locals(tokenKey).(*jwt.Token)
			if token == nil {
				return jwtError(c, errors.New("token missing from context"))
			}
			claims, err := svc.ValidateClaims(token)
			if err != nil {
				return jwtError(c, err)
			}
			c.Locals(claimsKey, claims)
			return c.Next()
		},
		ErrorHandler: jwtError,
	})
}

// ClaimsFrom returns the claims stored by Protected, or nil.
func ClaimsFrom(c *fiber.Ctx) *domainauth.Claims {
	claims, _ := c.Locals(claimsKey).(*domainauth.Claims)
	return claims
}

func jwtError(c *fiber.Ctx, err error) error {
	if errors.Is(err, jwtware.ErrJWTMissingOrMalformed) {
		return common.ProblemDetailsJSON(c, "Bad Request", err, "Missing or malformed JWT", fiber.StatusBadRequest)
	}
	return common.ProblemDetailsJSON(c, "Unauthorized", err, "Invalid or expired JWT", fiber.StatusUnauthorized)
}
