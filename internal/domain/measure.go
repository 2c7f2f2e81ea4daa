package domain

import "time"

type MeasureType string

const (
	MeasureTypeWater MeasureType = "WATER"
	MeasureTypeGas   MeasureType = "GAS"
)

// Valid reports whether t is one of the two allowed categories,
// case-sensitive.
func (t MeasureType) Valid() bool {
	return t == MeasureTypeWater || t == MeasureTypeGas
}

type Measure struct {
	ID              int64       `db:"id"`
	CustomerID      int64       `db:"customer_id"`
	UploadName      string      `db:"upload_name"`
	ImageURL        string      `db:"image_url"`
	HasConfirmed    bool        `db:"has_confirmed"`
	MeasureValue    int64       `db:"measure_value"`
	MeasureType     MeasureType `db:"measure_type"`
	MeasureDatetime time.Time   `db:"measure_datetime"`
	MeasureUUID     string      `db:"measure_uuid"`
}

// MeasureSummary is the projection returned by the list endpoint.
type MeasureSummary struct {
	ImageURL        string      `db:"image_url" json:"image_url"`
	MeasureDatetime time.Time   `db:"measure_datetime" json:"measure_datetime"`
	HasConfirmed    bool        `db:"has_confirmed" json:"has_confirmed"`
	MeasureType     MeasureType `db:"measure_type" json:"measure_type"`
	MeasureUUID     string      `db:"measure_uuid" json:"measure_uuid"`
}

type Customer struct {
	ID           int64  `db:"id"`
	CustomerCode string `db:"customer_code"`
}
