package measure

import "github.com/ougirez/aquagas/internal/domain"

const (
	promptWater = "This is a water meter. Return the current consumption reading as a JSON object with a single numeric field named 'value'."
	promptGas   = "This is a gas meter. Return the current consumption reading as a JSON object with a single numeric field named 'value'."
	promptBill  = "This is a utility bill. Return the billed consumption as a JSON object with a single numeric field named 'value'."
)

func promptFor(measureType domain.MeasureType) string {
	switch measureType {
	case domain.MeasureTypeWater:
		return promptWater
	case domain.MeasureTypeGas:
		return promptGas
	default:
		return promptBill
	}
}
