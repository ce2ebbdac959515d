package errors

// Error codes for standardized error responses.
const (
	// Auth
	ErrCodeUnauthorized = "unauthorized"
	ErrCodeInvalidToken = "invalid_token"

	// Validation
	ErrCodeInvalidRequest = "invalid_request"
	ErrCodeInvalidPayload = "invalid_payload"
	ErrCodeMissingField   = "missing_field"

	// Gameplay
	ErrCodeNoQuestions   = "no_questions_available"
	ErrCodeSessionLost   = "session_lost"
	ErrCodeUnknownIntent = "unknown_intent"

	// Server
	ErrCodeInternalError      = "internal_error"
	ErrCodeServiceUnavailable = "service_unavailable"
)
