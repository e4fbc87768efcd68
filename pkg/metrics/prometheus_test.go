package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorder_RecordRun(t *testing.T) {
	r := New()
	r.RecordRun("weekly", "completed", 1.5)
	r.RecordRun("weekly", "completed", 0.5)
	r.RecordRun("hourly", "failed", 0.1)

	assert.Equal(t, 2.0, testutil.ToFloat64(r.runsTotal.WithLabelValues("weekly", "completed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.runsTotal.WithLabelValues("hourly", "failed")))
}

func TestRecorder_NilSafe(t *testing.T) {
	var r *Recorder
	assert.NotPanics(t, func() {
		r.RecordRun("weekly", "completed", 1)
		r.RecordProviderError("polygon")
		r.RecordEventIngested("high")
		r.RecordProvenance("none")
	})
	assert.NoError(t, r.Push("http://localhost:9091", "bias"))
}

func TestRecorder_Handler(t *testing.T) {
	r := New()
	r.RecordProviderError("polygon")

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), `bias_provider_errors_total{provider="polygon"} 1`))
}
