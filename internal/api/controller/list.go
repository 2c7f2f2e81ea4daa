package controller

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

func (c *Controller) ListByCustomer(ctx echo.Context) error {
	customerCode := ctx.Param("customer_code")
	measureType := ctx.QueryParams().Get("measure_type")

	resp, err := c.service.ListByCustomer(ctx.Request().Context(), customerCode, measureType)
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, resp)
}
