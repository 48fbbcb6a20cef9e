package metrics

import (
	"errors"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveRequest(t *testing.T) {
	m := New()

	m.ObserveRequest("GET /api/companies", 200, 10*time.Millisecond)
	m.ObserveRequest("GET /api/companies", 200, 20*time.Millisecond)
	m.ObserveRequest("", 404, time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.requests.WithLabelValues("GET /api/companies", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.requests.WithLabelValues("unmatched", "404")))
	assert.Equal(t, 2, testutil.CollectAndCount(m.requestDuration))
}

func TestObserveDocumentOpAndAuth(t *testing.T) {
	m := New()

	m.ObserveDocumentOp("contacts", "add", nil)
	m.ObserveDocumentOp("contacts", "update", errors.New("not found"))
	m.ObserveAuth("signin", nil)
	m.ObserveAuth("signin", errors.New("bad password"))
	m.ObserveAuth("signin", errors.New("bad password"))

	assert.Equal(t, 1.0, testutil.ToFloat64(m.documentOps.WithLabelValues("contacts", "add", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.documentOps.WithLabelValues("contacts", "update", "error")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.authEvents.WithLabelValues("signin", "error")))
}

func TestHandlerExposesMetrics(t *testing.T) {
	m := New()
	m.ObserveAuth("signup", nil)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	require.Equal(t, 200, rec.Code)
	body, _ := io.ReadAll(rec.Body)
	assert.Contains(t, string(body), `imenik_auth_events_total{event="signup",result="ok"} 1`)
	assert.Contains(t, string(body), "go_goroutines")
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveRequest("GET /healthz", 200, time.Millisecond)
		m.ObserveDocumentOp("companies", "list", nil)
		m.ObserveAuth("signout", nil)
	})
}
