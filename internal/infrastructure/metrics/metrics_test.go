package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMetricsRegisterAndCount(t *testing.T) {
	m := New()

	m.TransfersCompleted.Inc()
	m.TransfersCompleted.Inc()
	if got := testutil.ToFloat64(m.TransfersCompleted); got != 2 {
		t.Errorf("expected 2 completed transfers, got %v", got)
	}

	m.TransferErrors.WithLabelValues("insufficient_funds").Inc()
	if got := testutil.ToFloat64(m.TransferErrors.WithLabelValues("insufficient_funds")); got != 1 {
		t.Errorf("expected 1 transfer error, got %v", got)
	}

	m.HTTPRequests.WithLabelValues("POST", "/api/v1/transfers", "201").Inc()
	if got := testutil.ToFloat64(m.HTTPRequests.WithLabelValues("POST", "/api/v1/transfers", "201")); got != 1 {
		t.Errorf("expected 1 http request, got %v", got)
	}
}
