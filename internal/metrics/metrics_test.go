package metrics

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Counters(t *testing.T) {
	m := New()

	m.ObserveFallback("risk_assessment", "transport")
	m.ObserveFallback("risk_assessment", "transport")
	m.ObserveRemote("risk_assessment", false, 20*time.Millisecond)
	m.ObserveGateRejection("3")
	m.ObserveExport("pdf", errors.New("boom"))
	m.SetActiveSessions(4)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Fallbacks.WithLabelValues("risk_assessment", "transport")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RemoteCalls.WithLabelValues("risk_assessment", "failure")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.GateRejections.WithLabelValues("3")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ProposalsExported.WithLabelValues("pdf", "failure")))
	assert.Equal(t, 4.0, testutil.ToFloat64(m.ActiveSessions))
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics
	m.ObserveFallback("x", "y")
	m.ObserveRemote("x", true, time.Second)
	m.ObserveGateRejection("2")
	m.ObserveExport("json", nil)
	m.SetActiveSessions(1)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestMetrics_Handler(t *testing.T) {
	m := New()
	m.ObserveFallback("asset_allocation", "status")

	srv := httptest.NewServer(m.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.True(t, strings.Contains(string(body), `intake_fallback_total{operation="asset_allocation",reason="status"} 1`))
}
