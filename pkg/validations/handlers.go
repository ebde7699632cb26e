package validations

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/littleshelf/littleshelf/pkg/errcodes"
	"github.com/pkg/errors"
)

type handler struct {
	validationService *Service
}

// getLocations lists the names a book's location may take.
func (h *handler) getLocations(c echo.Context) error {
	ctx := c.Request().Context()

	locations, err := h.validationService.GetValidationList(ctx, "books", "location")
	if err != nil {
		return errcodes.OperationFailed("Failed to fetch locations", err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, locations))
}
