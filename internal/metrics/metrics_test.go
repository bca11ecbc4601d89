package metrics

import (
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveDispatch(t *testing.T) {
	r := New()
	r.ObserveDispatch("csv", "ok", 10*time.Millisecond, 4)
	r.ObserveDispatch("csv", "ok", 10*time.Millisecond, 2)
	r.ObserveDispatch("pdf", "conversion_error", time.Second, 0)

	assert.Equal(t, 2.0, testutil.ToFloat64(r.dispatches.WithLabelValues("csv", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.dispatches.WithLabelValues("pdf", "conversion_error")))
}

func TestObservePasteAndSessions(t *testing.T) {
	r := New()
	r.ObservePaste("ok", 3)
	r.ObservePaste("malformed_csv", 0)
	r.SetSessions(7)

	assert.Equal(t, 1.0, testutil.ToFloat64(r.pastes.WithLabelValues("ok")))
	assert.Equal(t, 7.0, testutil.ToFloat64(r.sessions))
}

func TestNilRecorderIsSafe(t *testing.T) {
	var r *Recorder
	r.ObserveDispatch("csv", "ok", 0, 1)
	r.ObservePaste("ok", 1)
	r.SetSessions(1)
}

func TestHandler(t *testing.T) {
	r := New()
	r.ObserveDispatch("xlsx", "ok", time.Millisecond, 1)

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `sheetview_dispatch_total{format="xlsx",outcome="ok"} 1`)
}
