package helper

import (
	"fmt"

	logger "dispatch-ledger-api/src/infrastructure/logger"

	"github.com/go-playground/validator/v10"
)

// Validator turns go-playground field errors into user facing messages.
type Validator interface {
	GetErrorMsg(fe validator.FieldError) string
}

type validatorHelper struct {
	Logger *logger.Logger
}

func NewValidator(loggerInstance *logger.Logger) Validator {
	return &validatorHelper{Logger: loggerInstance}
}

func (v *validatorHelper) GetErrorMsg(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required"
	case "min":
		return fmt.Sprintf("Should be at least %s in length or value", fe.Param())
	case "max":
		return fmt.Sprintf("Should be at most %s in length or value", fe.Param())
	case "gt":
		return fmt.Sprintf("Should be greater than %s", fe.Param())
	default:
		return "Unknown validation error"
	}
}
