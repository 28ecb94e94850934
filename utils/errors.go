package utils

import (
	"errors"
	"net/http"
)

// ErrorKind classifies failures so transports can decide how to surface them.
type ErrorKind string

const (
	KindValidation     ErrorKind = "validation"
	KindNotFound       ErrorKind = "not_found"
	KindConflict       ErrorKind = "conflict"
	KindBusinessRule   ErrorKind = "business_rule"
	KindInfrastructure ErrorKind = "infrastructure"
)

// AppError is a classified domain error. Callers wrap the package-level
// values with fmt.Errorf("%w: ...") and match them with errors.Is.
type AppError struct {
	Kind    ErrorKind
	Code    string
	Message string
}

func (e *AppError) Error() string {
	return e.Message
}

func NewAppError(kind ErrorKind, code, message string) *AppError {
	return &AppError{Kind: kind, Code: code, Message: message}
}

var (
	ErrInvalidRange         = NewAppError(KindValidation, "INVALID_RANGE", "window start must be before window end")
	ErrInvalidInput         = NewAppError(KindValidation, "INVALID_INPUT", "invalid input")
	ErrInvalidPaymentMethod = NewAppError(KindValidation, "INVALID_PAYMENT_METHOD", "unsupported payment method")
	ErrTechnicianNotFound   = NewAppError(KindNotFound, "TECHNICIAN_NOT_FOUND", "technician not found")
	ErrPackageUnavailable   = NewAppError(KindNotFound, "PACKAGE_UNAVAILABLE", "commission package does not exist or is inactive")
	ErrNoActiveSubscription = NewAppError(KindNotFound, "NO_ACTIVE_SUBSCRIPTION", "technician has no active subscription")
	ErrAlreadySubscribed    = NewAppError(KindConflict, "ALREADY_SUBSCRIBED", "technician already has an active subscription")
	ErrInvalidTransition    = NewAppError(KindConflict, "INVALID_TRANSITION", "state transition not allowed")
	ErrConcurrentUpdate     = NewAppError(KindConflict, "CONCURRENT_UPDATE", "record was changed by a concurrent request, retry")
	ErrInsufficientBalance  = NewAppError(KindBusinessRule, "INSUFFICIENT_BALANCE", "balance is lower than the package price")
	ErrPaymentDeclined      = NewAppError(KindBusinessRule, "PAYMENT_DECLINED", "card payment was declined")
)

// KindOf returns the kind of the first AppError in err's chain. Anything
// unclassified is treated as an infrastructure failure.
func KindOf(err error) ErrorKind {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInfrastructure
}

// CodeOf returns the machine readable code of err, or "INTERNAL".
func CodeOf(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return "INTERNAL"
}

// HTTPStatus maps an error to the response status used by the handlers.
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindValidation:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	case KindBusinessRule:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusServiceUnavailable
	}
}
