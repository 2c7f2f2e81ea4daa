package domain

// ErrorResponse is the error body shape shared by every endpoint.
type ErrorResponse struct {
	ErrorCode        string `json:"error_code"`
	ErrorDescription string `json:"error_description"`
}

type UploadRequest struct {
	Image           string `json:"image" validate:"required"`
	CustomerCode    string `json:"customer_code" validate:"required"`
	MeasureDatetime string `json:"measure_datetime" validate:"required"`
	MeasureType     string `json:"measure_type" validate:"required,oneof=WATER GAS"`
}

type UploadResponse struct {
	ImageURL     string `json:"image_url"`
	MeasureValue int64  `json:"measure_value"`
	MeasureUUID  string `json:"measure_uuid"`
}

type ConfirmRequest struct {
	MeasureUUID string `json:"measure_uuid" validate:"required"`
	// Pointer so that a confirmed value of 0 still counts as present.
	ConfirmedValue *int64 `json:"confirmed_value" validate:"required"`
}

type ConfirmResponse struct {
	Success bool `json:"success"`
}

type ListResponse struct {
	CustomerCode string           `json:"customer_code"`
	Measures     []MeasureSummary `json:"measures"`
}
