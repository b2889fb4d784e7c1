package httpapi

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const internalErrorMessage = "Internal server error"

// httpStatus maps a status code from the service layer to an HTTP status.
func httpStatus(c codes.Code) int {
	switch c {
	case codes.InvalidArgument, codes.AlreadyExists, codes.FailedPrecondition, codes.OutOfRange:
		return http.StatusBadRequest
	case codes.Unauthenticated:
		return http.StatusUnauthorized
	case codes.PermissionDenied:
		return http.StatusForbidden
	case codes.NotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// writeError aborts the request with {"error": msg}. Internal failures are
// logged and replaced by a generic message.
func writeError(c *gin.Context, err error) {
	st := status.Convert(err)
	code := httpStatus(st.Code())
	msg := st.Message()
	if code == http.StatusInternalServerError {
		slog.ErrorContext(c.Request.Context(), "request failed",
			"request_id", c.GetString(requestIDKey),
			"route", c.FullPath(),
			"code", st.Code().String(),
			"error", msg)
		msg = internalErrorMessage
	}
	c.AbortWithStatusJSON(code, gin.H{"error": msg})
}

func badRequest(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": msg})
}
