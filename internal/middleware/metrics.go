package middleware

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/mcoot/openplay-go/internal/metrics"
)

// unmatchedRoute labels requests that matched no route, keeping label
// cardinality bounded
const unmatchedRoute = "unmatched"

// Metrics creates middleware that records request counts and latencies
// by route template
func Metrics(recorder *metrics.Recorder) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			wrapped := &ResponseWriter{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(wrapped, r)

			recorder.RecordHTTPRequest(r.Method, RouteTemplate(r), wrapped.status, time.Since(start))
		})
	}
}

// RouteTemplate returns the mux path template of the matched route
func RouteTemplate(r *http.Request) string {
	route := mux.CurrentRoute(r)
	if route == nil {
		return unmatchedRoute
	}
	tmpl, err := route.GetPathTemplate()
	if err != nil {
		return unmatchedRoute
	}
	return tmpl
}
