package errors

// Error codes for standardized error responses
const (
	// Session errors
	ErrCodeInvalidToken    = "invalid_token"
	ErrCodeTokenExpired    = "token_expired"
	ErrCodeSessionNotFound = "session_not_found"
	ErrCodeSessionCreation = "session_creation_failed"

	// Validation errors
	ErrCodeInvalidRequest = "invalid_request"
	ErrCodeInvalidPayload = "invalid_payload"
	ErrCodeMissingField   = "missing_field"

	// Game errors
	ErrCodeCatalogTooSmall  = "catalog_too_small"
	ErrCodeCatalogExhausted = "catalog_exhausted"
	ErrCodeNotInProgress    = "game_not_in_progress"
	ErrCodeInvalidSlot      = "invalid_slot"
	ErrCodeNoRound          = "no_round"

	// WebSocket errors
	ErrCodeUnknownMessageType = "unknown_message_type"

	// Server errors
	ErrCodeInternalError      = "internal_error"
	ErrCodeMethodNotAllowed   = "method_not_allowed"
	ErrCodeServiceUnavailable = "service_unavailable"
	ErrCodeUpstreamError      = "upstream_error"
)
