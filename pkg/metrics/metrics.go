package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP metrics
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint", "status_code"},
	)

	// Business metrics
	formSubmissionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "form_submissions_total",
			Help: "Total number of form submissions by form type and outcome",
		},
		[]string{"form", "status"}, // success, validation_error, quota_exceeded, delivery_error, unavailable
	)

	emailsSentTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "emails_sent_total",
			Help: "Total number of email delivery attempts",
		},
		[]string{"form", "kind", "status"}, // kind: admin, user; status: success, failure
	)

	quotaRejectionsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "quota_rejections_total",
			Help: "Total number of submissions rejected by the plan quota",
		},
	)
)

// Middleware records request counts and latencies for every route
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.FullPath() == "/metrics" {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()

		endpoint := c.FullPath()
		if endpoint == "" {
			endpoint = "unmatched"
		}
		status := strconv.Itoa(c.Writer.Status())

		httpRequestsTotal.WithLabelValues(c.Request.Method, endpoint, status).Inc()
		httpRequestDuration.WithLabelValues(c.Request.Method, endpoint, status).Observe(time.Since(start).Seconds())
	}
}

// RecordSubmission records the outcome of one form submission
func RecordSubmission(form, status string) {
	formSubmissionsTotal.WithLabelValues(form, status).Inc()
}

// RecordEmail records one email delivery attempt. Failed best-effort sends
// land here too, which is what makes silent degradation operator-visible.
func RecordEmail(form, kind string, err error) {
	status := "success"
	if err != nil {
		status = "failure"
	}
	emailsSentTotal.WithLabelValues(form, kind, status).Inc()
}

// RecordQuotaRejection records a submission denied by the plan quota
func RecordQuotaRejection() {
	quotaRejectionsTotal.Inc()
}
