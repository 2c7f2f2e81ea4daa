package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"reflect"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/ougirez/aquagas/internal/pkg/constants"
)

// Binder decodes JSON request bodies. It deliberately uses encoding/json
// rather than the response serializer: *json.UnmarshalTypeError carries the
// offending field and JSON value kind, which the INVALID_DATA descriptions
// are built from.
type Binder struct{}

func NewBinder() *Binder {
	return &Binder{}
}

func (b *Binder) Bind(i interface{}, c echo.Context) error {
	body := c.Request().Body
	if body == nil {
		return constants.ErrInvalidData.WithDescription("empty request body")
	}

	err := json.NewDecoder(body).Decode(i)
	if err == nil {
		return nil
	}
	if errors.Is(err, io.EOF) {
		return constants.ErrInvalidData.WithDescription("empty request body")
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		return constants.ErrInvalidData.WithDescription(fmt.Sprintf(
			"Invalid %s, expected %s, got %s",
			fieldLabel(typeErr.Field), expectedPhrase(typeErr.Field, typeErr.Type), typeErr.Value))
	}

	return constants.ErrInvalidData.WithDescription("malformed json body")
}

// fieldLabel turns a json field name into the display form used in error
// descriptions: customer_code -> Customer Code, measure_uuid -> Measure UUID.
func fieldLabel(field string) string {
	parts := strings.Split(field, "_")
	for i, p := range parts {
		if p == "uuid" {
			parts[i] = "UUID"
			continue
		}
		if len(p) > 0 {
			parts[i] = strings.ToUpper(p[:1]) + p[1:]
		}
	}
	return strings.Join(parts, " ")
}

// expectedPhrase is the "expected ..." part of an INVALID_DATA description.
// measure_uuid keeps its historical wording.
func expectedPhrase(field string, t reflect.Type) string {
	if field == "measure_uuid" {
		return "to be string"
	}
	return expectedKind(t)
}

func expectedKind(t reflect.Type) string {
	if t == nil {
		return "string"
	}
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	switch t.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return "an Integer"
	case reflect.Float32, reflect.Float64:
		return "a number"
	case reflect.Bool:
		return "a boolean"
	default:
		return "string"
	}
}
