package dto

import "net/http"

// Error code constants organized by category
// Format: ERR_<CATEGORY>_<DESCRIPTION>

// General error codes
const (
	// ErrCodeUnknown is used when the error type is unknown
	ErrCodeUnknown = "ERR_UNKNOWN"
	// ErrCodeInternal is used for internal server errors
	ErrCodeInternal = "ERR_INTERNAL"
	// ErrCodeUnavailable is used when a dependency is down or a queue is full
	ErrCodeUnavailable = "ERR_UNAVAILABLE"
)

// Validation error codes
const (
	// ErrCodeValidation is the base code for validation errors
	ErrCodeValidation = "ERR_VALIDATION"
	// ErrCodeBadRequest is used for malformed requests
	ErrCodeBadRequest = "ERR_BAD_REQUEST"
	// ErrCodeInvalidInput is used for invalid input data
	ErrCodeInvalidInput = "ERR_INVALID_INPUT"
)

// Authentication error codes
const (
	ErrCodeUnauthorized = "ERR_UNAUTHORIZED"
	ErrCodeTokenExpired = "ERR_TOKEN_EXPIRED"
	ErrCodeTokenInvalid = "ERR_TOKEN_INVALID"
)

// Resource error codes
const (
	// ErrCodeNotFound is used when a resource is not found
	ErrCodeNotFound = "ERR_NOT_FOUND"
	// ErrCodeAlreadyExists is used when trying to create a duplicate resource
	ErrCodeAlreadyExists = "ERR_ALREADY_EXISTS"
	// ErrCodeDataInUse is used when dependent records block a delete
	ErrCodeDataInUse = "ERR_DATA_IN_USE"
)

// HP entry rule error codes
const (
	ErrCodePDRLimitExceeded        = "ERR_PDR_LIMIT_EXCEEDED"
	ErrCodeFundingLimitExceeded    = "ERR_FUNDING_LIMIT_EXCEEDED"
	ErrCodeAdjustDateOutOfRange    = "ERR_ADJUST_DATE_OUT_OF_RANGE"
	ErrCodeInsufficientBalance     = "ERR_INSUFFICIENT_BALANCE"
	ErrCodePartyDebitBelowReceipts = "ERR_PARTY_DEBIT_BELOW_RECEIPTS"
	ErrCodeFinanceBelowCollected   = "ERR_FINANCE_BELOW_COLLECTED"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	// General errors
	ErrCodeUnknown:     http.StatusInternalServerError,
	ErrCodeInternal:    http.StatusInternalServerError,
	ErrCodeUnavailable: http.StatusServiceUnavailable,

	// Validation errors -> 400 Bad Request
	ErrCodeValidation:   http.StatusBadRequest,
	ErrCodeBadRequest:   http.StatusBadRequest,
	ErrCodeInvalidInput: http.StatusBadRequest,

	// Auth errors
	ErrCodeUnauthorized: http.StatusUnauthorized,
	ErrCodeTokenExpired: http.StatusUnauthorized,
	ErrCodeTokenInvalid: http.StatusUnauthorized,

	// Resource errors
	ErrCodeNotFound:      http.StatusNotFound,
	ErrCodeAlreadyExists: http.StatusConflict,
	ErrCodeDataInUse:     http.StatusConflict,

	// Rule rejections are user-correctable -> 400 Bad Request
	ErrCodePDRLimitExceeded:        http.StatusBadRequest,
	ErrCodeFundingLimitExceeded:    http.StatusBadRequest,
	ErrCodeAdjustDateOutOfRange:    http.StatusBadRequest,
	ErrCodeInsufficientBalance:     http.StatusBadRequest,
	ErrCodePartyDebitBelowReceipts: http.StatusBadRequest,
	ErrCodeFinanceBelowCollected:   http.StatusBadRequest,
}

// GetHTTPStatus returns the HTTP status code for an error code
// Returns 500 Internal Server Error if the error code is not found
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// DomainErrorCodeMapping maps the bare codes carried by domain errors to API codes
var DomainErrorCodeMapping = map[string]string{
	"NOT_FOUND":                  ErrCodeNotFound,
	"ALREADY_EXISTS":             ErrCodeAlreadyExists,
	"INVALID_INPUT":              ErrCodeInvalidInput,
	"VALIDATION_ERROR":           ErrCodeValidation,
	"DATA_IN_USE":                ErrCodeDataInUse,
	"PDR_LIMIT_EXCEEDED":         ErrCodePDRLimitExceeded,
	"FUNDING_LIMIT_EXCEEDED":     ErrCodeFundingLimitExceeded,
	"ADJUST_DATE_OUT_OF_RANGE":   ErrCodeAdjustDateOutOfRange,
	"INSUFFICIENT_BALANCE":       ErrCodeInsufficientBalance,
	"PARTY_DEBIT_BELOW_RECEIPTS": ErrCodePartyDebitBelowReceipts,
	"FINANCE_BELOW_COLLECTED":    ErrCodeFinanceBelowCollected,

	// Structural entry checks
	"INVALID_COMPANY":     ErrCodeValidation,
	"INVALID_BRANCH":      ErrCodeValidation,
	"INVALID_CUSTOMER":    ErrCodeValidation,
	"INVALID_DATE":        ErrCodeValidation,
	"INVALID_ADJUST_DATE": ErrCodeValidation,
	"INVALID_AMOUNT":      ErrCodeValidation,
}

// NormalizeErrorCode converts a domain error code to the API format
// If the code is already in the API format or unknown, returns it as-is
func NormalizeErrorCode(code string) string {
	if apiCode, ok := DomainErrorCodeMapping[code]; ok {
		return apiCode
	}
	return code
}
