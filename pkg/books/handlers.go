package books

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/littleshelf/littleshelf/pkg/errcodes"
	"github.com/littleshelf/littleshelf/pkg/models"
	"github.com/pkg/errors"
)

type handler struct {
	bookService *Service
}

type writeResponse struct {
	Success  bool              `json:"success"`
	Warnings []models.Advisory `json:"warnings,omitempty"`
}

func (h *handler) getBooks(c echo.Context) error {
	ctx := c.Request().Context()

	books, err := h.bookService.ListBooks(ctx)
	if err != nil {
		return errcodes.OperationFailed("Failed to fetch books", err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, books))
}

func (h *handler) addBook(c echo.Context) error {
	ctx := c.Request().Context()

	params := AddBookPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	// The client still sends finished from the add form; a new book has no
	// journal state of its own to apply it to.
	result, err := h.bookService.AddBook(ctx, AddBookOptions{
		ISBN:         params.ISBN,
		Cover:        params.Cover,
		Title:        params.Title,
		Authors:      params.Authors,
		ReadingLevel: params.ReadingLevel,
		Location:     params.Location,
		Publishers:   params.Publishers,
		Pages:        params.Pages,
		Genres:       params.Genres,
		Language:     params.Language,
		Notes:        params.Notes,
		Description:  params.Description,
	})
	if err != nil {
		return errcodes.OperationFailed("Failed to add book", err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, writeResponse{Success: true, Warnings: result.Advisories}))
}

func (h *handler) checkoutBook(c echo.Context) error {
	ctx := c.Request().Context()

	params := CheckoutBookPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	result, err := h.bookService.MoveBook(ctx, params.ISBN, params.NewLocation)
	if err != nil {
		return errcodes.OperationFailed("Failed to update book location", err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, writeResponse{Success: true, Warnings: result.Advisories}))
}

func (h *handler) requestBook(c echo.Context) error {
	ctx := c.Request().Context()

	params := RequestBookPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	err := h.bookService.RequestBook(ctx, params.ISBN, params.RequestedBy)
	if err != nil {
		return errcodes.OperationFailed("Failed to request book", err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, map[string]string{"message": "Book requested successfully"}))
}
