package httpapi

import (
	"log/slog"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"volunteerManagement/internal/auth"
	"volunteerManagement/internal/metrics"
)

const (
	requestIDKey    = "request_id"
	requestIDHeader = "X-Request-ID"
)

// requestLogger tags each request with an id and writes one structured line
// when it completes. A well-formed incoming X-Request-ID is reused.
func requestLogger(log *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		id := c.GetHeader(requestIDHeader)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Header(requestIDHeader, id)

		c.Next()

		level := slog.LevelInfo
		if c.Writer.Status() >= 500 {
			level = slog.LevelError
		}
		log.LogAttrs(c.Request.Context(), level, "http request",
			slog.String("request_id", id),
			slog.String("method", c.Request.Method),
			slog.String("path", c.Request.URL.Path),
			slog.Int("status", c.Writer.Status()),
			slog.Duration("duration", time.Since(start)),
			slog.String("client_ip", c.ClientIP()),
		)
	}
}

// recordMetrics counts requests and observes latency per matched route.
func recordMetrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		metrics.HTTPRequests.WithLabelValues(route, c.Request.Method, strconv.Itoa(c.Writer.Status())).Inc()
		metrics.HTTPDuration.WithLabelValues(route, c.Request.Method).Observe(time.Since(start).Seconds())
	}
}

func recovery(log *slog.Logger) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		log.Error("panic in handler", "request_id", c.GetString(requestIDKey), "panic", recovered)
		writeError(c, status.Error(codes.Internal, "panic"))
	})
}

// authenticate requires a valid token and stores its principal in the
// request context.
func (s *Server) authenticate(c *gin.Context) {
	header := c.GetHeader("Authorization")
	if header == "" {
		writeError(c, status.Error(codes.Unauthenticated, "Authentication credentials were not provided."))
		return
	}
	p, err := auth.ParseHeader(header, s.secret)
	if err != nil {
		writeError(c, status.Error(codes.Unauthenticated, "Invalid token."))
		return
	}
	c.Request = c.Request.WithContext(auth.WithPrincipal(c.Request.Context(), p))
	c.Next()
}

// adminOnly rejects non-administrators before the request body is read.
func (s *Server) adminOnly(c *gin.Context) {
	if _, err := auth.RequireAdmin(c.Request.Context(), s.svc.Store().Users); err != nil {
		writeError(c, err)
		return
	}
	c.Next()
}
