package httpapi

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"volunteerManagement/internal/db"
	"volunteerManagement/internal/service"
)

// Server holds the HTTP handlers.
type Server struct {
	svc    *service.Service
	secret string
	log    *slog.Logger
}

// NewRouter builds the gin engine with every route registered.
func NewRouter(svc *service.Service, secret string, log *slog.Logger) *gin.Engine {
	if log == nil {
		log = slog.Default()
	}
	s := &Server{svc: svc, secret: secret, log: log}

	r := gin.New()
	r.Use(requestLogger(log), recovery(log), recordMetrics())

	r.GET("/healthz", s.healthz)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	r.POST("/register/", s.register)
	r.POST("/token/", s.obtainToken)

	authed := r.Group("/", s.authenticate)
	authed.GET("/user/", s.adminOnly, s.lookupUser)

	api := authed.Group("/api")
	{
		api.GET("/events/", s.adminOnly, s.listEvents)
		api.POST("/events/", s.adminOnly, s.createEvent)
		api.GET("/events/list/", s.searchEvents)
		api.DELETE("/events/delete_event/", s.adminOnly, s.deleteEventsByTitle)
		api.GET("/events/:id/", s.getEvent)
		api.PUT("/events/:id/", s.adminOnly, s.updateEvent)
		api.PATCH("/events/:id/", s.adminOnly, s.updateEvent)
		api.DELETE("/events/:id/", s.adminOnly, s.deleteEvent)

		api.POST("/assign_hours/", s.adminOnly, s.assignHours)

		api.GET("/admin/volunteers/", s.adminOnly, s.listVolunteers)
		api.GET("/admin/hours/summary/", s.adminOnly, s.hoursSummary)
		api.POST("/admin/attendance/mark/", s.adminOnly, s.markAttendance)
		api.POST("/admin/reset-password/", s.adminOnly, s.resetPassword)

		api.GET("/volunteer/attendance/", s.myAttendance)
		api.GET("/volunteer/profile/", s.myProfile)
	}
	return r
}

func (s *Server) healthz(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()
	if err := db.Ping(ctx, s.svc.Store().DB()); err != nil {
		s.log.Warn("health check failed", "error", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// StartHTTP serves h on addr and returns a shutdown function.
func StartHTTP(addr string, h http.Handler) (func(context.Context) error, error) {
	if addr == "" {
		addr = ":8080"
	}
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}
	srv := &http.Server{
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		if err := srv.Serve(lis); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("http server stopped", "error", err)
		}
	}()
	return srv.Shutdown, nil
}
