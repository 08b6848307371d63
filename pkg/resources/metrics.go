package resources

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

type HTTPMetrics struct {
	loginPath      string
	reqs           metric.Int64Counter
	latency        metric.Float64Histogram
	loginRedirects metric.Int64Counter
}

// NewHTTPMetrics builds the request instruments. Redirects whose Location starts with
// loginPath are also counted as login redirects.
func NewHTTPMetrics(name string, loginPath string) *HTTPMetrics {
	meter := otel.Meter(name)

	reqs, _ := meter.Int64Counter(
		"http.server.requests",
		metric.WithDescription("HTTP requests"),
	)
	latency, _ := meter.Float64Histogram(
		"http.server.duration.ms",
		metric.WithDescription("HTTP request duration in milliseconds"),
	)
	loginRedirects, _ := meter.Int64Counter(
		"calendar.login.redirects",
		metric.WithDescription("Anonymous requests sent to the login page"),
	)

	return &HTTPMetrics{loginPath: loginPath, reqs: reqs, latency: latency, loginRedirects: loginRedirects}
}

// Middleware records one request count and latency sample per route, method and status.
func (m *HTTPMetrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}

		status := c.Writer.Status()
		ctx := c.Request.Context()

		attrs := metric.WithAttributes(
			attribute.String("http.route", route),
			attribute.String("http.method", c.Request.Method),
			attribute.Int("http.status_code", status),
			attribute.String("http.status_class", strconv.Itoa(status/100)+"xx"),
		)

		m.reqs.Add(ctx, 1, attrs)
		m.latency.Record(ctx, float64(time.Since(start).Microseconds())/1000, attrs)

		if status == http.StatusFound && m.loginPath != "" && strings.HasPrefix(c.Writer.Header().Get("Location"), m.loginPath) {
			m.loginRedirects.Add(ctx, 1, metric.WithAttributes(attribute.String("http.route", route)))
		}
	}
}
