package handler

import (
	_ "embed"
	"net/http"

	"github.com/deppfellow/basket-guard/internal/server"
	"github.com/labstack/echo/v4"
)

//go:embed openapi.json
var openAPIDocument []byte

// OpenAPIHandler serves the OpenAPI document describing the basket routes.
//
// The document is embedded in the binary, so no static directory is needed
// at runtime.
type OpenAPIHandler struct {
	Handler
}

func NewOpenAPIHandler(s *server.Server) *OpenAPIHandler {
	return &OpenAPIHandler{
		Handler: NewHandler(s),
	}
}

// ServeOpenAPI writes the embedded document as JSON.
//
// Cache-Control is "no-cache" so clients pick up a new document after a deploy.
func (h *OpenAPIHandler) ServeOpenAPI(c echo.Context) error {
	c.Response().Header().Set("Cache-Control", "no-cache")
	return c.Blob(http.StatusOK, echo.MIMEApplicationJSON, openAPIDocument)
}
