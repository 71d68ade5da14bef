package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorderCountsOperations(t *testing.T) {
	rec := NewRecorder()

	rec.RecordOperation("resolve_result", OutcomeOK)
	rec.RecordOperation("resolve_result", OutcomeOK)
	rec.RecordOperation("resolve_result", OutcomeRejected)

	assert.Equal(t, 2.0, testutil.ToFloat64(rec.operations.WithLabelValues("resolve_result", OutcomeOK)))
	assert.Equal(t, 1.0, testutil.ToFloat64(rec.operations.WithLabelValues("resolve_result", OutcomeRejected)))
}

func TestRecorderCountsMatches(t *testing.T) {
	rec := NewRecorder()

	rec.RecordMatches(2)
	rec.RecordMatches(0)
	rec.RecordMatches(1)

	assert.Equal(t, 3.0, testutil.ToFloat64(rec.matches))
}

func TestRecorderTracksGauges(t *testing.T) {
	rec := NewRecorder()

	rec.SSEClientConnected()
	rec.SSEClientConnected()
	rec.SSEClientDisconnected()
	rec.SessionCreated()

	assert.Equal(t, 1.0, testutil.ToFloat64(rec.sseClients))
	assert.Equal(t, 1.0, testutil.ToFloat64(rec.sessionsActive))
}

func TestRecorderHTTPRequests(t *testing.T) {
	rec := NewRecorder()

	rec.RecordHTTPRequest(http.MethodGet, "/api/v1/sessions/{code}", http.StatusOK, 5*time.Millisecond)

	assert.Equal(t, 1.0, testutil.ToFloat64(rec.httpRequests.WithLabelValues("GET", "/api/v1/sessions/{code}", "200")))
}

func TestHandlerExposesMetrics(t *testing.T) {
	rec := NewRecorder()
	rec.RecordMatches(1)

	w := httptest.NewRecorder()
	rec.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, w.Code)
	body, _ := io.ReadAll(w.Body)
	assert.Contains(t, string(body), "openplay_matches_recorded_total 1")
}

func TestNilRecorderIsSafe(t *testing.T) {
	var rec *Recorder

	assert.NotPanics(t, func() {
		rec.RecordOperation("x", OutcomeOK)
		rec.RecordMatches(1)
		rec.ObserveQueueLength(3)
		rec.RecordHTTPRequest("GET", "/", 200, time.Millisecond)
		rec.SSEClientConnected()
		rec.SSEClientDisconnected()
		rec.SessionCreated()
		rec.SessionDeleted()
	})
	assert.Nil(t, rec.Registry())

	w := httptest.NewRecorder()
	rec.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}
