package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/okian/riskboard/pkg/metrics"
)

// Error kinds recorded per endpoint. A rejected request is one the dashboard
// could correct (an unknown statistics attribute); a failed one is a backend
// answer such as "Prediction failed".
const (
	errKindRejected         = "rejected"
	errKindNotFound         = "not_found"
	errKindMethodNotAllowed = "method_not_allowed"
	errKindFailed           = "failed"
)

// MetricsMiddleware records request count, duration and error kind for one
// backend endpoint.
func MetricsMiddleware(next http.HandlerFunc, endpoint string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		status := strconv.Itoa(rec.status)
		metrics.RecordHTTPRequest(endpoint, r.Method, status)
		metrics.RecordHTTPRequestDuration(endpoint, r.Method, status, float64(time.Since(start).Milliseconds()))
		if kind, ok := errorKind(rec.status); ok {
			metrics.RecordErrorByEndpoint(endpoint, r.Method, kind)
		}
	}
}

func errorKind(status int) (string, bool) {
	switch {
	case status < http.StatusBadRequest:
		return "", false
	case status == http.StatusNotFound:
		return errKindNotFound, true
	case status == http.StatusMethodNotAllowed:
		return errKindMethodNotAllowed, true
	case status < http.StatusInternalServerError:
		return errKindRejected, true
	default:
		return errKindFailed, true
	}
}

// statusRecorder remembers the status a handler wrote.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}
