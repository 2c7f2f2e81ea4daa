package recognition

import "context"

// Result is what the external image-understanding call produced: the
// extracted integer reading plus the hosted copy of the image.
type Result struct {
	Value    int64
	FileURI  string
	MimeType string
}

// Recognizer turns an uploaded meter photo into a numeric reading.
type Recognizer interface {
	Recognize(ctx context.Context, imagePath, prompt string) (*Result, error)
}
