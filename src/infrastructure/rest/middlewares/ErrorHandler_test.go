package middlewares

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	domainErrors "dispatch-ledger-api/src/domain/errors"

	"github.com/gin-gonic/gin"
)

func TestErrorHandler_StatusMapping(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		errType    string
		wantStatus int
	}{
		{domainErrors.ValidationError, http.StatusBadRequest},
		{domainErrors.NotAuthenticated, http.StatusUnauthorized},
		{domainErrors.InsufficientFunds, http.StatusPaymentRequired},
		{domainErrors.NotAuthorized, http.StatusForbidden},
		{domainErrors.NotFound, http.StatusNotFound},
		{domainErrors.InvalidState, http.StatusConflict},
		{domainErrors.TransferFailed, http.StatusBadGateway},
		{domainErrors.RepositoryError, http.StatusInternalServerError},
		{domainErrors.UnknownError, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.errType, func(t *testing.T) {
			router := gin.New()
			router.Use(ErrorHandler())
			router.GET("/boom", func(c *gin.Context) {
				_ = c.Error(domainErrors.NewAppErrorWithType(tt.errType))
			})

			w := httptest.NewRecorder()
			req, _ := http.NewRequest("GET", "/boom", nil)
			router.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("%s mapped to %d, want %d", tt.errType, w.Code, tt.wantStatus)
			}
		})
	}
}

func TestErrorHandler_PlainErrorIsInternal(t *testing.T) {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.Use(ErrorHandler())
	router.GET("/boom", func(c *gin.Context) {
		_ = c.Error(errors.New("something unexpected"))
	})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/boom", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want %d", w.Code, http.StatusInternalServerError)
	}
}

func TestErrorHandler_NoErrorPassesThrough(t *testing.T) {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.Use(ErrorHandler())
	router.GET("/ok", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/ok", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", w.Code, http.StatusOK)
	}
}
