package controller

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/ougirez/aquagas/internal/domain"
)

func (c *Controller) Upload(ctx echo.Context) error {
	req := new(domain.UploadRequest)
	if err := ctx.Bind(req); err != nil {
		return err
	}
	if err := ctx.Validate(req); err != nil {
		return err
	}

	resp, err := c.service.Upload(ctx.Request().Context(), req)
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, resp)
}
