package members

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/littleshelf/littleshelf/pkg/errcodes"
	"github.com/littleshelf/littleshelf/pkg/models"
	"github.com/pkg/errors"
)

type handler struct {
	memberService *Service
}

func (h *handler) getMembers(c echo.Context) error {
	ctx := c.Request().Context()

	members, err := h.memberService.ListMembers(ctx)
	if err != nil {
		return errcodes.OperationFailed("Failed to fetch members", err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, members))
}

func (h *handler) addLocation(c echo.Context) error {
	ctx := c.Request().Context()

	params := RegisterMemberPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	result, err := h.memberService.RegisterMember(ctx, RegisterMemberOptions{
		FirstName:    params.FirstName,
		LastName:     params.LastName,
		City:         params.City,
		Neighborhood: params.Neighborhood,
	})
	if err != nil {
		return errcodes.OperationFailed("Failed to register member", err)
	}

	response := struct {
		Success  bool              `json:"success"`
		Member   *models.Member    `json:"member"`
		Message  string            `json:"message"`
		Warnings []models.Advisory `json:"warnings,omitempty"`
	}{
		Success:  true,
		Member:   result.Member,
		Message:  fmt.Sprintf("Welcome %s! Your library card number is #%d.", result.Member.FirstName, result.Member.CardNumber),
		Warnings: result.Advisories,
	}

	return errors.WithStack(c.JSON(http.StatusOK, response))
}
