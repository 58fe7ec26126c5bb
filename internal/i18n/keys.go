package i18n

// Keys shared by every endpoint.
const (
	ErrKeyInvalidRequest      = "error.invalid_request"
	ErrKeyInvalidRequestBody  = "error.invalid_request_body"
	ErrKeyInternalError       = "error.internal_error"
	ErrKeyNotFound            = "error.not_found"
	ErrKeyTimeout             = "error.timeout"
	ErrKeyRateLimitExceeded   = "error.rate_limit_exceeded"
	ErrKeyIdempotencyInFlight = "error.idempotency_in_flight"
	ErrKeyIdempotencyReused   = "error.idempotency_reused"
	ErrKeyIdempotencyKeyLong  = "error.idempotency_key_too_long"
	ErrKeyServiceUnavailable  = "error.service_unavailable"
)

// Authentication keys, used by the JWT and API key middleware.
const (
	ErrKeyUnauthorized   = "error.unauthorized"
	ErrKeyForbidden      = "error.forbidden"
	ErrKeyTokenRequired  = "error.token_required"
	ErrKeyInvalidToken   = "error.invalid_token"
	ErrKeyAPIKeyRequired = "error.api_key_required"
	ErrKeyInvalidAPIKey  = "error.invalid_api_key"
)

// Packing keys. Each one maps to a service error code.
const (
	ErrKeyInvalidCapacity   = "error.packing.invalid_capacity"
	ErrKeyInvalidAllocation = "error.packing.invalid_allocation"
	ErrKeyInvalidState      = "error.packing.invalid_state"
	ErrKeyGenerationBusy    = "error.packing.conflict"
	ErrKeyIntegrity         = "error.packing.integrity"
	ErrKeyStorageFailure    = "error.packing.storage_failure"
	ErrKeyPackingNotFound   = "error.packing.not_found"
)
