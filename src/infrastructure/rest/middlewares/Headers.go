package middlewares

import (
	"bytes"

	"github.com/gin-gonic/gin"
	"github.com/gofrs/uuid"
)

// CommonHeaders sets the headers shared by every response and tags each
// request with a correlation id, reusing the caller's X-Request-ID if given.
func CommonHeaders(c *gin.Context) {
	requestID := c.GetHeader("X-Request-ID")
	if requestID == "" {
		if generated, err := uuid.NewV4(); err == nil {
			requestID = generated.String()
		}
	}
	c.Set("requestID", requestID)
	c.Header("X-Request-ID", requestID)
	c.Header("Cache-Control", "no-store")
	c.Header("X-Content-Type-Options", "nosniff")
	c.Next()
}

type bodyLogWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (w bodyLogWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

// GinBodyLogMiddleware captures the response body so the error handler and
// request logger can inspect it.
func GinBodyLogMiddleware(c *gin.Context) {
	blw := &bodyLogWriter{body: bytes.NewBufferString(""), ResponseWriter: c.Writer}
	c.Writer = blw
	c.Next()
}
