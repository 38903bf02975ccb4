package errors

import "errors"

// Error types used across the application. Controllers never inspect these
// directly; the ErrorHandler middleware translates them to HTTP statuses.
const (
	NotFound          = "NotFound"
	ValidationError   = "ValidationError"
	NotAuthorized     = "NotAuthorized"
	NotAuthenticated  = "NotAuthenticated"
	InsufficientFunds = "InsufficientFunds"
	InvalidState      = "InvalidState"
	TransferFailed    = "TransferFailed"
	RepositoryError   = "RepositoryError"
	UnknownError      = "UnknownError"
)

const (
	notFoundMessage          = "record not found"
	validationErrorMessage   = "validation error"
	notAuthorizedMessage     = "not authorized to perform this operation"
	notAuthenticatedMessage  = "not authenticated"
	insufficientFundsMessage = "insufficient funds"
	invalidStateMessage      = "operation not allowed in the current state"
	transferFailedMessage    = "fund transfer failed"
	repositoryErrorMessage   = "error in repository operation"
	unknownErrorMessage      = "internal error"
)

// AppError carries the failure reason together with one of the error type
// constants above.
type AppError struct {
	Err  error
	Type string
}

func NewAppError(err error, errType string) *AppError {
	return &AppError{
		Err:  err,
		Type: errType,
	}
}

func NewAppErrorWithType(errType string) *AppError {
	var err error

	switch errType {
	case NotFound:
		err = errors.New(notFoundMessage)
	case ValidationError:
		err = errors.New(validationErrorMessage)
	case NotAuthorized:
		err = errors.New(notAuthorizedMessage)
	case NotAuthenticated:
		err = errors.New(notAuthenticatedMessage)
	case InsufficientFunds:
		err = errors.New(insufficientFundsMessage)
	case InvalidState:
		err = errors.New(invalidStateMessage)
	case TransferFailed:
		err = errors.New(transferFailedMessage)
	case RepositoryError:
		err = errors.New(repositoryErrorMessage)
	default:
		err = errors.New(unknownErrorMessage)
	}

	return &AppError{
		Err:  err,
		Type: errType,
	}
}

func (appErr *AppError) Error() string {
	return appErr.Err.Error()
}
