package members

import (
	"github.com/labstack/echo/v4"
	"github.com/uptrace/bun"
)

// RegisterRoutesWithGroup registers the member routes on the API group.
// addLocation keeps its historical name: members double as book locations.
func RegisterRoutesWithGroup(g *echo.Group, db *bun.DB, journals JournalProvisioner) {
	h := &handler{
		memberService: NewService(db, journals),
	}

	g.GET("/getMembers", h.getMembers)
	g.POST("/addLocation", h.addLocation)
}
