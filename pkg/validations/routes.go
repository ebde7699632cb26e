package validations

import (
	"github.com/labstack/echo/v4"
	"github.com/uptrace/bun"
)

// RegisterRoutesWithGroup registers the validation list routes on the API
// group.
func RegisterRoutesWithGroup(g *echo.Group, db *bun.DB) {
	h := &handler{
		validationService: NewService(db),
	}

	g.GET("/getLocations", h.getLocations)
}
