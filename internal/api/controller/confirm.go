package controller

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/ougirez/aquagas/internal/domain"
)

func (c *Controller) Confirm(ctx echo.Context) error {
	req := new(domain.ConfirmRequest)
	if err := ctx.Bind(req); err != nil {
		return err
	}
	if err := ctx.Validate(req); err != nil {
		return err
	}

	if err := c.service.Confirm(ctx.Request().Context(), req); err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, domain.ConfirmResponse{Success: true})
}
