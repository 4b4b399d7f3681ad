package errors

import (
	"errors"
	"fmt"
	"strings"
)

// DeliveryCode classifies a failure at the mail transport boundary.
// Transport-specific error shapes never travel past the delivery gateway;
// they are mapped to one of these codes instead.
type DeliveryCode string

const (
	CodeAuth        DeliveryCode = "AUTH"
	CodeConnection  DeliveryCode = "CONNECTION"
	CodeConfig      DeliveryCode = "CONFIG"
	CodeUnavailable DeliveryCode = "UNAVAILABLE"
	CodeGeneric     DeliveryCode = "GENERIC"
)

// DeliveryError represents a failed or impossible email delivery attempt.
type DeliveryError struct {
	Code    DeliveryCode
	Message string
	Err     error
}

func (e *DeliveryError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *DeliveryError) Unwrap() error {
	return e.Err
}

// NewDelivery creates a new DeliveryError.
func NewDelivery(code DeliveryCode, message string, err error) *DeliveryError {
	return &DeliveryError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// DeliveryCodeOf extracts the delivery code from an error chain.
// Returns CodeGeneric for errors that are not delivery errors.
func DeliveryCodeOf(err error) DeliveryCode {
	var derr *DeliveryError
	if errors.As(err, &derr) {
		return derr.Code
	}
	return CodeGeneric
}

// IsAuth checks whether the error is an authentication-class delivery failure.
func IsAuth(err error) bool {
	return DeliveryCodeOf(err) == CodeAuth
}

// IsConnection checks whether the error is a connection-class delivery failure.
func IsConnection(err error) bool {
	return DeliveryCodeOf(err) == CodeConnection
}

// IsUnavailable checks whether the error means the transport could not be
// verified or configured at all (the caller should answer 503, not 500).
func IsUnavailable(err error) bool {
	code := DeliveryCodeOf(err)
	return code == CodeUnavailable || code == CodeConfig
}

// ValidationError is a user-input defect. It is always recoverable by
// resubmission and is never treated as a system fault.
type ValidationError struct {
	MissingFields []string
	Message       string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// NewValidation creates a validation error with a caller-facing message.
func NewValidation(message string) *ValidationError {
	return &ValidationError{Message: message}
}

// NewMissingFields creates a validation error listing the absent required
// fields, e.g. "The following fields are required: Name, Email, Message".
func NewMissingFields(fields []string) *ValidationError {
	return &ValidationError{
		MissingFields: fields,
		Message:       fmt.Sprintf("The following fields are required: %s", strings.Join(fields, ", ")),
	}
}

// ErrQuotaExceeded is returned when a starter-plan user has already consumed
// their single agent submission. The message is shown to the caller verbatim.
var ErrQuotaExceeded = errors.New("Starter plan users can only submit one form. Please upgrade to Business plan for multiple agent submissions.")
