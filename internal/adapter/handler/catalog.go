package handler

import (
	"net/http"
	"strconv"

	"placements-hub/internal/mockdata"

	"github.com/labstack/echo/v4"
)

// CatalogHandler serves the static placement sample data.
type CatalogHandler struct{}

// NewCatalogHandler creates the catalog handler.
func NewCatalogHandler() *CatalogHandler {
	return &CatalogHandler{}
}

// Mount registers the catalog under its canonical placements prefix and the
// short trailing-slash aliases portal clients also use.
func (h *CatalogHandler) Mount(e *echo.Echo, mw ...echo.MiddlewareFunc) {
	v1 := e.Group("/api/v1/placements/api", mw...)
	v1.GET("/companies", h.Companies)
	v1.GET("/companies/:id", h.Company)
	v1.GET("/jobs", h.Jobs)
	v1.GET("/internships", h.Internships)
	v1.GET("/applications", h.Applications)
	v1.GET("/offers", h.Offers)
	v1.GET("/stats", h.Stats)

	alias := e.Group("/api", mw...)
	alias.GET("/companies/", h.Companies)
	alias.GET("/companies/:id/", h.Company)
	alias.GET("/jobs/", h.Jobs)
	alias.GET("/internships/", h.Internships)
	alias.GET("/applications/", h.Applications)
	alias.GET("/offers/", h.Offers)
	alias.GET("/stats/", h.Stats)
}

// Companies handles GET /api/companies/.
func (h *CatalogHandler) Companies(c echo.Context) error {
	return list(c, mockdata.Companies())
}

// Company handles GET /api/companies/:id/.
func (h *CatalogHandler) Company(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return detail(c, http.StatusBadRequest, "invalid company id")
	}
	for _, company := range mockdata.Companies() {
		if company.ID == id {
			return c.JSON(http.StatusOK, company)
		}
	}
	return detail(c, http.StatusNotFound, "company not found")
}

// Jobs handles GET /api/jobs/.
func (h *CatalogHandler) Jobs(c echo.Context) error {
	return list(c, mockdata.Jobs())
}

// Internships handles GET /api/internships/.
func (h *CatalogHandler) Internships(c echo.Context) error {
	return list(c, mockdata.Internships())
}

// Applications handles GET /api/applications/.
func (h *CatalogHandler) Applications(c echo.Context) error {
	return list(c, mockdata.Applications())
}

// Offers handles GET /api/offers/.
func (h *CatalogHandler) Offers(c echo.Context) error {
	return list(c, mockdata.Offers())
}

// Stats handles GET /api/stats/.
func (h *CatalogHandler) Stats(c echo.Context) error {
	return c.JSON(http.StatusOK, mockdata.Aggregate())
}

// list writes the backend's collection envelope.
func list[T any](c echo.Context, items []T) error {
	return c.JSON(http.StatusOK, map[string]any{
		"count":   len(items),
		"results": items,
	})
}
