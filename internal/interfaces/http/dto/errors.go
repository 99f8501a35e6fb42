package dto

import "net/http"

// General error codes
const (
	ErrCodeUnknown  = "ERR_UNKNOWN"
	ErrCodeInternal = "ERR_INTERNAL"
)

// Validation error codes
const (
	ErrCodeValidation = "ERR_VALIDATION"
)

// Authentication error codes
const (
	ErrCodeUnauthorized       = "ERR_UNAUTHORIZED"
	ErrCodeForbidden          = "ERR_FORBIDDEN"
	ErrCodeTokenExpired       = "ERR_TOKEN_EXPIRED"
	ErrCodeTokenInvalid       = "ERR_TOKEN_INVALID"
	ErrCodeTokenRevoked       = "ERR_TOKEN_REVOKED"
	ErrCodeInvalidCredentials = "ERR_INVALID_CREDENTIALS"
)

// Resource error codes
const (
	ErrCodeNotFound      = "ERR_NOT_FOUND"
	ErrCodeAlreadyExists = "ERR_ALREADY_EXISTS"
	ErrCodeConflict      = "ERR_CONFLICT"
)

// Business rule error codes
const (
	ErrCodeInvalidState = "ERR_INVALID_STATE"
	ErrCodeBusinessRule = "ERR_BUSINESS_RULE"
)

// Input error codes
const (
	ErrCodeBadRequest   = "ERR_BAD_REQUEST"
	ErrCodeInvalidInput = "ERR_INVALID_INPUT"
)

// Upstream error codes
const (
	// ErrCodeReportFailed is used when report generation fails on a data
	// source error
	ErrCodeReportFailed = "ERR_REPORT_FAILED"
	// ErrCodeMarketUnavailable is used when the marketplace API cannot be
	// reached
	ErrCodeMarketUnavailable = "ERR_MARKET_UNAVAILABLE"
)

// Rate limiting error codes
const (
	ErrCodeRateLimited = "ERR_RATE_LIMITED"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeUnknown:  http.StatusInternalServerError,
	ErrCodeInternal: http.StatusInternalServerError,

	ErrCodeValidation: http.StatusBadRequest,

	ErrCodeUnauthorized:       http.StatusUnauthorized,
	ErrCodeForbidden:          http.StatusForbidden,
	ErrCodeTokenExpired:       http.StatusUnauthorized,
	ErrCodeTokenInvalid:       http.StatusUnauthorized,
	ErrCodeTokenRevoked:       http.StatusUnauthorized,
	ErrCodeInvalidCredentials: http.StatusUnauthorized,

	ErrCodeNotFound:      http.StatusNotFound,
	ErrCodeAlreadyExists: http.StatusConflict,
	ErrCodeConflict:      http.StatusConflict,

	ErrCodeInvalidState: http.StatusUnprocessableEntity,
	ErrCodeBusinessRule: http.StatusUnprocessableEntity,

	ErrCodeBadRequest:   http.StatusBadRequest,
	ErrCodeInvalidInput: http.StatusBadRequest,

	ErrCodeReportFailed:      http.StatusBadGateway,
	ErrCodeMarketUnavailable: http.StatusBadGateway,

	ErrCodeRateLimited: http.StatusTooManyRequests,
}

// GetHTTPStatus returns the HTTP status for an error code, 500 when the
// code is unknown
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// domainErrorCodeMapping maps domain error codes to the wire format
var domainErrorCodeMapping = map[string]string{
	"NOT_FOUND":      ErrCodeNotFound,
	"ALREADY_EXISTS": ErrCodeAlreadyExists,
	"UNAUTHORIZED":   ErrCodeUnauthorized,
	"FORBIDDEN":      ErrCodeForbidden,
	"INTERNAL_ERROR": ErrCodeInternal,

	"INVALID_CREDENTIALS": ErrCodeInvalidCredentials,
	"ACCOUNT_LOCKED":      ErrCodeForbidden,
	"ACCOUNT_DEACTIVATED": ErrCodeForbidden,
	"PASSWORD_HASH_ERROR": ErrCodeInternal,

	"REPORT_FAILED":      ErrCodeReportFailed,
	"MARKET_UNAVAILABLE": ErrCodeMarketUnavailable,

	"INVALID_STATE":      ErrCodeInvalidState,
	"ITEM_ALREADY_SOLD":  ErrCodeInvalidState,
	"ITEM_NOT_SOLD":      ErrCodeInvalidState,
	"SHIPMENT_NOT_EMPTY": ErrCodeInvalidState,

	"VALIDATION_ERROR": ErrCodeValidation,
	"BAD_REQUEST":      ErrCodeBadRequest,

	"INVALID_INPUT":         ErrCodeInvalidInput,
	"INVALID_OWNER":         ErrCodeInvalidInput,
	"INVALID_GROUP_BY":      ErrCodeInvalidInput,
	"INVALID_NAME":          ErrCodeInvalidInput,
	"INVALID_PRICE":         ErrCodeInvalidInput,
	"INVALID_WEIGHT":        ErrCodeInvalidInput,
	"INVALID_SHIPPING_COST": ErrCodeInvalidInput,
	"INVALID_SHIPMENT":      ErrCodeInvalidInput,
	"INVALID_DATE":          ErrCodeInvalidInput,
	"INVALID_STATUS":        ErrCodeInvalidInput,
	"INVALID_EMAIL":         ErrCodeInvalidInput,
	"INVALID_PASSWORD":      ErrCodeInvalidInput,
	"INVALID_DISPLAY_NAME":  ErrCodeInvalidInput,
	"INVALID_SEARCH":        ErrCodeInvalidInput,
}

// NormalizeErrorCode converts a domain error code to the wire format,
// unknown codes pass through unchanged
func NormalizeErrorCode(code string) string {
	if wireCode, ok := domainErrorCodeMapping[code]; ok {
		return wireCode
	}
	return code
}
