package constants

import "net/http"

// CodedError is an error that knows the HTTP status and API error code it
// should be rendered with. The api error handler walks the Unwrap chain
// looking for one of these.
type CodedError struct {
	httpCode    int
	errorCode   string
	description string
}

func NewCodedError(httpCode int, errorCode, description string) *CodedError {
	return &CodedError{httpCode: httpCode, errorCode: errorCode, description: description}
}

func (e *CodedError) Error() string {
	return e.description
}

func (e *CodedError) Code() int {
	return e.httpCode
}

func (e *CodedError) ErrorCode() string {
	return e.errorCode
}

// WithDescription returns a copy of the error carrying a request-specific
// description, keeping the status and error code of the original.
func (e *CodedError) WithDescription(description string) *CodedError {
	return &CodedError{httpCode: e.httpCode, errorCode: e.errorCode, description: description}
}

// Is makes errors.Is match any two CodedErrors with the same error code,
// so WithDescription copies still compare equal to their sentinel.
func (e *CodedError) Is(target error) bool {
	ce, ok := target.(*CodedError)
	return ok && ce.errorCode == e.errorCode
}

var (
	ErrInvalidData       = NewCodedError(http.StatusBadRequest, "INVALID_DATA", "invalid request data")
	ErrDoubleReport      = NewCodedError(http.StatusConflict, "DOUBLE_REPORT", "reading for this month already recorded")
	ErrMeasureNotFound   = NewCodedError(http.StatusNotFound, "MEASURE_NOT_FOUND", "reading not found")
	ErrConfirmationDup   = NewCodedError(http.StatusConflict, "CONFIRMATION_DUPLICATE", "reading value already confirmed")
	ErrInvalidType       = NewCodedError(http.StatusBadRequest, "INVALID_TYPE", "measure type not allowed")
	ErrMeasuresNotFound  = NewCodedError(http.StatusNotFound, "MEASURES_NOT_FOUND", "no readings found")
	ErrRecognitionFailed = NewCodedError(http.StatusBadGateway, "RECOGNITION_FAILED", "image recognition failed")
	ErrInternal          = NewCodedError(http.StatusInternalServerError, "INTERNAL_ERROR", "internal error")

	// ErrDBNotFound is what the store maps pgx.ErrNoRows to.
	ErrDBNotFound = NewCodedError(http.StatusNotFound, "MEASURE_NOT_FOUND", "record not found")
)
