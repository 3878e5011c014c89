package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/bayanihan-edu/tosforge/internal/metrics"
)

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

// Timed records request duration and status under the given route label.
func Timed(route string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(sw, r)
		metrics.RecordRequest(route, r.Method, strconv.Itoa(sw.status), time.Since(start).Seconds())
	}
}
