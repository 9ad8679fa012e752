package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/OliveiraNt/offset-scout/internal/domain"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestObserveRequest(t *testing.T) {
	t.Parallel()
	r := NewRegistry(Options{})

	r.ObserveRequest("topics", "", 120*time.Millisecond)
	r.ObserveRequest("topics", domain.KindTimeout, 15*time.Second)
	r.ObserveRequest("partition", domain.KindNotFound, 5*time.Millisecond)

	require.Equal(t, 1.0, testutil.ToFloat64(r.RequestsTotal.WithLabelValues("topics", OutcomeSuccess, "")))
	require.Equal(t, 1.0, testutil.ToFloat64(r.RequestsTotal.WithLabelValues("topics", OutcomeError, string(domain.KindTimeout))))
	require.Equal(t, 1.0, testutil.ToFloat64(r.TimeoutsTotal.WithLabelValues("topics")))
	require.Equal(t, 0.0, testutil.ToFloat64(r.TimeoutsTotal.WithLabelValues("partition")))
	require.Equal(t, 2, testutil.CollectAndCount(r.RequestDuration))
}

func TestObserveRequestNilRegistry(t *testing.T) {
	t.Parallel()
	var r *Registry
	require.NotPanics(t, func() { r.ObserveRequest("topics", "", time.Second) })
}

func TestHandler(t *testing.T) {
	t.Parallel()
	r := NewRegistry(Options{})
	r.ObserveRequest("topic", "", time.Millisecond)

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	require.True(t, strings.Contains(rec.Body.String(), "offset_scout_bridge_requests_total"))
}
