package document

import (
	"errors"

	"github.com/casevault/casevault/pkg/domain"
	"github.com/casevault/casevault/pkg/middleware"
	authsvc "github.com/casevault/casevault/pkg/service/auth"
	docsvc "github.com/casevault/casevault/pkg/service/document"
	"github.com/casevault/casevault/webapi/common"
	"github.com/gofiber/fiber/v2"
)

func Routes(app *fiber.App, docSvc *docsvc.Service, authSvc *authsvc.Service) {
	app.Get("/documents/:collection/:id", middleware.Protected(authSvc), GetDocument(docSvc))
}

// GetDocument returns one case document.
// @Summary Get document by id
// @Description Fetch a document from a collection by its id
// @Tags documents
// @Produce json
// @Param collection path string true "Collection name"
// @Param id path string true "Document id"
// @Success 200 {object} common.Response
// @Failure 400 {object} common.ProblemDetails
// @Failure 401 {object} common.ProblemDetails
// @Failure 404 {object} common.ProblemDetails
// @Failure 500 {object} common.ProblemDetails
// @Security Bearer
// @Router /documents/{collection}/{id} [get]
func GetDocument(docSvc *docsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		doc, err := docSvc.GetByID(c.UserContext(), c.Params("collection"), c.Params("id"))
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return common.ProblemDetailsJSON(c, "Document not found", err)
			}
			return common.ProblemDetailsJSON(c, "Internal Server Error", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Document found", doc)
	}
}
