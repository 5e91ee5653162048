package dto

import "net/http"

// Error code constants, format: ERR_<CATEGORY>_<DESCRIPTION>
const (
	ErrCodeUnknown  = "ERR_UNKNOWN"
	ErrCodeInternal = "ERR_INTERNAL"

	ErrCodeBadRequest   = "ERR_BAD_REQUEST"
	ErrCodeInvalidInput = "ERR_INVALID_INPUT"
	ErrCodeInvalidJSON  = "ERR_INVALID_JSON"
	ErrCodeValidation   = "ERR_VALIDATION"

	ErrCodeUnauthorized = "ERR_UNAUTHORIZED"
	ErrCodeForbidden    = "ERR_FORBIDDEN"
	ErrCodeTokenExpired = "ERR_TOKEN_EXPIRED"
	ErrCodeTokenInvalid = "ERR_TOKEN_INVALID"
	ErrCodeBadSignature = "ERR_BAD_SIGNATURE"

	ErrCodeNotFound      = "ERR_NOT_FOUND"
	ErrCodeAlreadyExists = "ERR_ALREADY_EXISTS"
	ErrCodeConflict      = "ERR_CONFLICT"

	ErrCodeInvalidState   = "ERR_INVALID_STATE"
	ErrCodeRunInFlight    = "ERR_RUN_IN_FLIGHT"
	ErrCodeNotSyncable    = "ERR_NOT_SYNCABLE"
	ErrCodeUpstreamAuth   = "ERR_UPSTREAM_AUTH"
	ErrCodeUpstreamHiccup = "ERR_UPSTREAM_UNAVAILABLE"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeUnknown:  http.StatusInternalServerError,
	ErrCodeInternal: http.StatusInternalServerError,

	ErrCodeBadRequest:   http.StatusBadRequest,
	ErrCodeInvalidInput: http.StatusBadRequest,
	ErrCodeInvalidJSON:  http.StatusBadRequest,
	ErrCodeValidation:   http.StatusBadRequest,

	ErrCodeUnauthorized: http.StatusUnauthorized,
	ErrCodeForbidden:    http.StatusForbidden,
	ErrCodeTokenExpired: http.StatusUnauthorized,
	ErrCodeTokenInvalid: http.StatusUnauthorized,
	ErrCodeBadSignature: http.StatusUnauthorized,

	ErrCodeNotFound:      http.StatusNotFound,
	ErrCodeAlreadyExists: http.StatusConflict,
	ErrCodeConflict:      http.StatusConflict,

	ErrCodeInvalidState:   http.StatusUnprocessableEntity,
	ErrCodeRunInFlight:    http.StatusConflict,
	ErrCodeNotSyncable:    http.StatusUnprocessableEntity,
	ErrCodeUpstreamAuth:   http.StatusBadGateway,
	ErrCodeUpstreamHiccup: http.StatusBadGateway,
}

// GetHTTPStatus returns the HTTP status for an error code
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// NormalizeErrorCode maps bare domain error codes onto API codes
func NormalizeErrorCode(code string) string {
	switch code {
	case "NOT_FOUND":
		return ErrCodeNotFound
	case "ALREADY_EXISTS":
		return ErrCodeAlreadyExists
	case "INVALID_INPUT":
		return ErrCodeInvalidInput
	case "UNAUTHORIZED":
		return ErrCodeUnauthorized
	case "FORBIDDEN":
		return ErrCodeForbidden
	case "INVALID_STATE":
		return ErrCodeInvalidState
	case "CONCURRENCY_CONFLICT":
		return ErrCodeConflict
	default:
		return "ERR_" + code
	}
}
