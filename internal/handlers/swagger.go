package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/swaggo/swag"
)

// SwaggerHandler serves the generated OpenAPI document.
type SwaggerHandler struct{}

// NewSwaggerHandler creates a SwaggerHandler.
func NewSwaggerHandler() *SwaggerHandler {
	return &SwaggerHandler{}
}

// Register registers the swagger route.
func (h *SwaggerHandler) Register(e *echo.Echo) {
	e.GET("/api/swagger.json", h.SwaggerJSON)
}

// SwaggerJSON returns the OpenAPI spec registered by the docs package.
func (h *SwaggerHandler) SwaggerJSON(c echo.Context) error {
	doc, err := swag.ReadDoc()
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "swagger document not registered")
	}
	return c.Blob(http.StatusOK, echo.MIMEApplicationJSON, []byte(doc))
}
