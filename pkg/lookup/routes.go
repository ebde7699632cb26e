package lookup

import (
	"github.com/labstack/echo/v4"
)

// RegisterRoutesWithGroup registers the ISBN lookup route on the API group.
func RegisterRoutesWithGroup(g *echo.Group, client Client) {
	h := &handler{client}

	g.GET("/lookupBook", h.lookupBook)
}
