package shared

// DomainError represents a domain-level error
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// Is reports whether target carries the same code, so wrapped errors
// created with NewDomainError compare equal to the sentinels below.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Error codes for business rule rejections. Each maps to a user-correctable
// condition and is rendered as a 400 by the HTTP layer.
const (
	CodePDRLimitExceeded       = "PDR_LIMIT_EXCEEDED"
	CodeFundingLimitExceeded   = "FUNDING_LIMIT_EXCEEDED"
	CodeAdjustDateOutOfRange   = "ADJUST_DATE_OUT_OF_RANGE"
	CodeInsufficientBalance    = "INSUFFICIENT_BALANCE"
	CodePartyDebitBelowReceipt = "PARTY_DEBIT_BELOW_RECEIPTS"
	CodeFinanceBelowCollected  = "FINANCE_BELOW_COLLECTED"
	CodeDataInUse              = "DATA_IN_USE"
)

// Common domain errors
var (
	ErrNotFound      = NewDomainError("NOT_FOUND", "Resource not found")
	ErrAlreadyExists = NewDomainError("ALREADY_EXISTS", "Resource already exists")
	ErrInvalidInput  = NewDomainError("INVALID_INPUT", "Invalid input provided")
	ErrDataInUse     = NewDomainError(CodeDataInUse, "Data is in use, cannot delete")
)
