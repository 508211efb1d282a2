package auth

import (
	"errors"

	"github.com/casevault/casevault/pkg/domain"
	authsvc "github.com/casevault/casevault/pkg/service/auth"
	"github.com/casevault/casevault/webapi/common"
	"github.com/gofiber/fiber/v2"
)

func Routes(app *fiber.App, authSvc *authsvc.Service) {
	app.Post("/login", Login(authSvc))
}

// Login verifies an identity token relayed by the client.
// @Summary Verify identity token
// @Description Verify an identity token issued by the identity provider and record the login
// @Tags auth
// @Accept json
// @Produce json
// @Param request body LoginInput true "Identity token"
// @Success 200 {object} common.Response{data=LoginOutput}
// @Failure 400 {object} common.ProblemDetails
// @Failure 401 {object} common.ProblemDetails
// @Failure 429 {object} common.ProblemDetails
// @Failure 500 {object} common.ProblemDetails
// @Router /login [post]
func Login(authSvc *authsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		input, err := common.BindAndValidate[LoginInput](c)
		if input == nil {
			return err // Error already written by BindAndValidate
		}
		u, err := authSvc.Login(c.UserContext(), input.IDToken)
		if err != nil {
			if errors.Is(err, domain.ErrUnauthorized) {
				return common.ProblemDetailsJSON(c, "Invalid identity token", err, "Identity token could not be verified", fiber.StatusUnauthorized)
			}
			return common.ProblemDetailsJSON(c, "Internal Server Error", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Login verified", LoginOutput{
			UID:           u.UID,
			Email:         u.Email,
			EmailVerified: u.EmailVerified,
		})
	}
}
