package books

import (
	"github.com/labstack/echo/v4"
	"github.com/uptrace/bun"
)

// RegisterRoutesWithGroup registers the inventory routes on the API group.
func RegisterRoutesWithGroup(g *echo.Group, db *bun.DB, journals JournalRecorder) {
	h := &handler{
		bookService: NewService(db, journals),
	}

	g.GET("/getBooks", h.getBooks)
	g.POST("/addBook", h.addBook)
	g.POST("/checkoutBook", h.checkoutBook)
	g.POST("/requestBook", h.requestBook)
}
