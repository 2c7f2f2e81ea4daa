package api

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/ougirez/aquagas/internal/pkg/constants"
)

// Validator checks bound request structs and reports only the first
// failing field, in struct declaration order: image, customer_code,
// measure_datetime, measure_type.
type Validator struct {
	validate *validator.Validate
}

func NewValidator() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Error descriptions name fields by their json tag.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return &Validator{validate: v}
}

func (v *Validator) Validate(i interface{}) error {
	err := v.validate.Struct(i)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return constants.ErrInvalidData
	}

	fe := verrs[0]
	label := fieldLabel(fe.Field())

	switch fe.Tag() {
	case "oneof":
		return constants.ErrInvalidData.WithDescription(fmt.Sprintf(
			`Invalid %s, expected "WATER" | "GAS", got %q`, label, fe.Value()))
	default:
		return constants.ErrInvalidData.WithDescription(fmt.Sprintf(
			"Invalid %s, expected %s, got nothing", label, expectedPhrase(fe.Field(), fe.Type())))
	}
}
