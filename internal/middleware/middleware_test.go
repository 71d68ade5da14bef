package middleware

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/openplay-go/internal/metrics"
)

func newTestRouter(logger *slog.Logger, recorder *metrics.Recorder) *mux.Router {
	r := mux.NewRouter()
	r.Use(Recovery(logger, func(w http.ResponseWriter, _ *http.Request, _ any) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	r.Use(Logging(logger))
	r.Use(Metrics(recorder))
	r.HandleFunc("/sessions/{code}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}).Methods(http.MethodGet)
	r.HandleFunc("/panic", func(http.ResponseWriter, *http.Request) {
		panic("kaboom")
	}).Methods(http.MethodGet)
	return r
}

func TestLogging_IncludesRouteTemplate(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))
	router := newTestRouter(logger, metrics.NewRecorder())

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/sessions/ABC123", nil))

	assert.Equal(t, http.StatusTeapot, rec.Code)
	assert.Contains(t, buf.String(), `"route":"/sessions/{code}"`)
	assert.Contains(t, buf.String(), `"path":"/sessions/ABC123"`)
	assert.Contains(t, buf.String(), `"status":418`)
}

func TestMetrics_RecordsByRouteTemplate(t *testing.T) {
	recorder := metrics.NewRecorder()
	router := newTestRouter(slog.New(slog.DiscardHandler), recorder)

	for _, code := range []string{"AAAAAA", "BBBBBB"} {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/sessions/"+code, nil))
	}

	expected := `
# HELP openplay_http_requests_total HTTP requests by method, route and status.
# TYPE openplay_http_requests_total counter
openplay_http_requests_total{method="GET",route="/sessions/{code}",status="418"} 2
`
	err := testutil.GatherAndCompare(recorder.Registry(), strings.NewReader(expected), "openplay_http_requests_total")
	require.NoError(t, err)
}

func TestRecovery_WritesPanicResponse(t *testing.T) {
	router := newTestRouter(slog.New(slog.DiscardHandler), metrics.NewRecorder())

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/panic", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "boom")
}

func TestRouteTemplate_Unmatched(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/nowhere", nil)
	assert.Equal(t, unmatchedRoute, RouteTemplate(req))
}
