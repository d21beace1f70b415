package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	promtestutil "github.com/prometheus/client_golang/prometheus/testutil"
)

// Service names carry a hyphen ("order-service"); registration must not
// reject the derived metric names.
func TestNewServerMetrics_HyphenatedServiceName(t *testing.T) {
	m := NewServerMetrics(prometheus.NewRegistry(), "order-service")

	m.Requests.WithLabelValues("/orders", "201").Inc()
	if got := promtestutil.CollectAndCount(m.Requests); got != 1 {
		t.Errorf("collected %d request series, want 1", got)
	}
}

func TestNewBusMetrics_HyphenatedServiceName(t *testing.T) {
	m := NewBusMetrics(prometheus.NewRegistry(), "payment-service")

	m.Published.WithLabelValues("order.paid").Inc()
	if got := promtestutil.CollectAndCount(m.Published); got != 1 {
		t.Errorf("collected %d published series, want 1", got)
	}
}

func TestSubsystem(t *testing.T) {
	if got := subsystem("order-service"); got != "order_service" {
		t.Errorf("subsystem(order-service) = %s, want order_service", got)
	}
	if got := subsystem("cart"); got != "cart" {
		t.Errorf("subsystem(cart) = %s, want cart", got)
	}
}
