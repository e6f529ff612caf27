package observability

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsCounters(t *testing.T) {
	m := NewMetrics()

	m.RecordRequest("/api/users/me", "GET", 200, 10*time.Millisecond)
	m.RecordRequest("/api/users/me", "GET", 200, 20*time.Millisecond)
	m.RecordError("/api/users", "GET", "FORBIDDEN")
	m.RecordAuthDecision("authenticated")
	m.RecordAuthDecision("invalid_token")
	m.RecordAuthDecision("invalid_token")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.requestCount.WithLabelValues("GET", "/api/users/me", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.errorCount.WithLabelValues("GET", "/api/users", "FORBIDDEN")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.authDecisions.WithLabelValues("invalid_token")))
}

func TestMetricsNilReceiver(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.RecordRequest("/", "GET", 200, time.Millisecond)
		m.RecordError("/", "GET", "X")
		m.RecordAuthDecision("authenticated")
	})
}

func TestMetricsHandler(t *testing.T) {
	m := NewMetrics()
	m.RecordAuthDecision("authenticated")

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(body), `auth_decisions_total{outcome="authenticated"} 1`))
}
