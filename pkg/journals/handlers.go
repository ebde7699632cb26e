package journals

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/littleshelf/littleshelf/pkg/errcodes"
	"github.com/pkg/errors"
)

type handler struct {
	journalService *Service
}

func (h *handler) getReadingJournal(c echo.Context) error {
	ctx := c.Request().Context()

	params := GetJournalQuery{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	entries, err := h.journalService.GetJournal(ctx, params.CardNumber)
	if err != nil {
		return errcodes.OperationFailed("Failed to fetch reading journal", err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, entries))
}

func (h *handler) updateJournalEntry(c echo.Context) error {
	ctx := c.Request().Context()

	params := UpdateEntryPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	err := h.journalService.UpdateNotes(ctx, int(params.CardNumber), params.ISBN, params.Notes)
	if err != nil {
		return errcodes.OperationFailed("Failed to update journal entry", err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, map[string]any{"success": true}))
}

func (h *handler) updateJournalFinished(c echo.Context) error {
	ctx := c.Request().Context()

	params := UpdateFinishedPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	err := h.journalService.SetFinished(ctx, int(params.CardNumber), params.ISBN, *params.Finished)
	if err != nil {
		return errcodes.OperationFailed("Failed to update finished status", err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, map[string]any{"success": true}))
}

func (h *handler) reorderJournal(c echo.Context) error {
	ctx := c.Request().Context()

	params := ReorderPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	err := h.journalService.Reorder(ctx, int(params.CardNumber), params.OrderUpdates)
	if err != nil {
		return errcodes.OperationFailed("Failed to reorder journal", err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, map[string]any{"success": true}))
}
