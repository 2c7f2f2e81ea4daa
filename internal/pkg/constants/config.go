package constants

// Viper configuration keys, bound to environment variables of the same name.
const (
	ViperKeyHTTPAddr           = "HTTP_ADDR"
	ViperKeyDatabaseURL        = "DATABASE_URL"
	ViperKeyGeminiAPIKey       = "GEMINI_API_KEY"
	ViperKeyGeminiBaseURL      = "GEMINI_BASE_URL"
	ViperKeyGeminiModel        = "GEMINI_MODEL"
	ViperKeyRecognitionTimeout = "RECOGNITION_TIMEOUT"
	ViperKeyImageFetchTimeout  = "IMAGE_FETCH_TIMEOUT"
)

const (
	DefaultHTTPAddr      = ":8080"
	DefaultGeminiBaseURL = "https://generativelanguage.googleapis.com"
	DefaultGeminiModel   = "gemini-1.5-pro"
)

// MaxRequestBodySize caps inbound request bodies; meter photos come in as
// base64 payloads and must fit within 10MB.
const MaxRequestBodySize = "10M"
