package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/ougirez/aquagas/internal/domain"
	"github.com/ougirez/aquagas/internal/pkg/constants"
)

func httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code := http.StatusInternalServerError
	errorCode := constants.ErrInternal.ErrorCode()
	msg := constants.ErrInternal.Error()

	wrapped := err
	for wrapped != nil {
		if ce, ok := wrapped.(*constants.CodedError); ok {
			code = ce.Code()
			errorCode = ce.ErrorCode()
			msg = ce.Error()
			break
		}
		wrapped = errors.Unwrap(wrapped)
	}

	// Errors raised by echo itself (unknown route, oversized body).
	var he *echo.HTTPError
	if wrapped == nil && errors.As(err, &he) {
		code = he.Code
		errorCode = httpErrorCode(he.Code)
		msg = fmt.Sprintf("%v", he.Message)
	}

	_ = c.JSON(code, domain.ErrorResponse{
		ErrorCode:        errorCode,
		ErrorDescription: msg,
	})
}

func httpErrorCode(status int) string {
	switch status {
	case http.StatusNotFound:
		return "NOT_FOUND"
	case http.StatusMethodNotAllowed:
		return "METHOD_NOT_ALLOWED"
	case http.StatusRequestEntityTooLarge:
		return "INVALID_DATA"
	default:
		return constants.ErrInternal.ErrorCode()
	}
}
