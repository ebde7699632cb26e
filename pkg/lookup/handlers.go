package lookup

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/littleshelf/littleshelf/pkg/errcodes"
	"github.com/pkg/errors"
)

type handler struct {
	client Client
}

func (h *handler) lookupBook(c echo.Context) error {
	ctx := c.Request().Context()

	params := ISBNQuery{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	md, err := h.client.Lookup(ctx, params.ISBN)
	if err != nil {
		if errcodes.IsCode(err, "not_found") {
			return err
		}
		return errcodes.OperationFailed("Failed to lookup book", err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, md))
}
