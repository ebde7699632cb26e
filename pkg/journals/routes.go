package journals

import (
	"github.com/labstack/echo/v4"
	"github.com/uptrace/bun"
)

// RegisterRoutesWithGroup registers the reading journal routes on the API
// group.
func RegisterRoutesWithGroup(g *echo.Group, db *bun.DB) {
	h := &handler{
		journalService: NewService(db),
	}

	g.GET("/getReadingJournal", h.getReadingJournal)
	g.POST("/updateJournalEntry", h.updateJournalEntry)
	g.POST("/updateJournalFinished", h.updateJournalFinished)
	g.POST("/reorderJournal", h.reorderJournal)
}
