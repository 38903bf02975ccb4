package middlewares

import (
	"errors"
	"net/http"

	domainErrors "dispatch-ledger-api/src/domain/errors"
	"dispatch-ledger-api/src/infrastructure/rest/controllers"

	"github.com/gin-gonic/gin"
)

// ErrorHandler translates AppError types pushed onto the gin context into
// HTTP responses. Every operation aborts with a specific error kind and a
// human readable reason; nothing succeeds with degraded results.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}
		err := c.Errors[0].Err

		var appErr *domainErrors.AppError
		if errors.As(err, &appErr) {
			c.JSON(statusForType(appErr.Type), controllers.MessageResponse{Message: appErr.Error()})
			return
		}

		c.JSON(http.StatusInternalServerError, controllers.MessageResponse{Message: "Internal Server Error"})
	}
}

func statusForType(errType string) int {
	switch errType {
	case domainErrors.ValidationError:
		return http.StatusBadRequest
	case domainErrors.NotAuthenticated:
		return http.StatusUnauthorized
	case domainErrors.InsufficientFunds:
		return http.StatusPaymentRequired
	case domainErrors.NotAuthorized:
		return http.StatusForbidden
	case domainErrors.NotFound:
		return http.StatusNotFound
	case domainErrors.InvalidState:
		return http.StatusConflict
	case domainErrors.TransferFailed:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
