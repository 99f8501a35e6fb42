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

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Common domain errors
var (
	ErrNotFound           = NewDomainError("NOT_FOUND", "Resource not found")
	ErrAlreadyExists      = NewDomainError("ALREADY_EXISTS", "Resource already exists")
	ErrInvalidInput       = NewDomainError("INVALID_INPUT", "Invalid input provided")
	ErrUnauthorized       = NewDomainError("UNAUTHORIZED", "Not authorized to perform this action")
	ErrForbidden          = NewDomainError("FORBIDDEN", "Access to this resource is forbidden")
	ErrInvalidState       = NewDomainError("INVALID_STATE", "Operation not allowed in current state")
	ErrInvalidCredentials = NewDomainError("INVALID_CREDENTIALS", "Invalid username or password")
	ErrReportFailed       = NewDomainError("REPORT_FAILED", "Could not compute statistics")
	ErrMarketUnavailable  = NewDomainError("MARKET_UNAVAILABLE", "Market data source is unavailable")
	ErrItemAlreadySold    = NewDomainError("ITEM_ALREADY_SOLD", "Item has already been marked as sold")
	ErrItemNotSold        = NewDomainError("ITEM_NOT_SOLD", "Item has not been sold")
)
