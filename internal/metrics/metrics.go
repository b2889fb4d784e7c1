package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "volunteer_http_requests_total",
		Help: "HTTP requests by route, method and status code",
	}, []string{"route", "method", "status"})

	HTTPDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "volunteer_http_request_duration_seconds",
		Help:    "HTTP request latency by route and method",
		Buckets: prometheus.DefBuckets,
	}, []string{"route", "method"})

	HoursAssigned = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "volunteer_hours_assigned_total",
		Help: "Hour grants written, split by whether a new grant was created",
	}, []string{"result"})

	AttendanceRecorded = promauto.NewCounter(prometheus.CounterOpts{
		Name: "volunteer_attendance_records_created_total",
		Help: "Attendance records appended",
	})

	EventsDeleted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "volunteer_events_deleted_total",
		Help: "Events removed through any delete operation",
	})

	DatabasePing = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "volunteer_database_ping_microsec",
		Help: "Latency of the last database ping in microseconds",
	})
)
