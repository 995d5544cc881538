package delivery

import "fmt"

// These constants mirror domain error codes so handlers map them to HTTP statuses.
const (
	codeInvalid = "invalid"
)

// DeliveryError represents a delivery-selection error with a code and message.
type DeliveryError struct {
	Code    string
	Message string
}

func (e *DeliveryError) Error() string {
	return e.Message
}

// ErrorCode returns the error code for HTTP status mapping.
func (e *DeliveryError) ErrorCode() string {
	return e.Code
}

// ErrorMessage returns the user-facing message.
func (e *DeliveryError) ErrorMessage() string {
	return e.Message
}

var (
	// ErrSelectionRequired is returned when no option ID is given.
	ErrSelectionRequired = &DeliveryError{Code: codeInvalid, Message: "A delivery option is required"}
)

// ErrUnknownOption creates an error for an option ID the bakery does not offer.
func ErrUnknownOption(id string) error {
	return &DeliveryError{
		Code:    codeInvalid,
		Message: fmt.Sprintf("Unknown delivery option %q", id),
	}
}
