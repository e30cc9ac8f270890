package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestNewWithRegistryRegistersMetrics(t *testing.T) {
	registry := prometheus.NewRegistry()

	m := NewWithRegistry(registry)

	if m.TransactionsCreated == nil || m.HTTPRequests == nil || m.OperationErrors == nil {
		t.Fatalf("expected key metrics to be initialized: %+v", m)
	}

	m.TransactionsCreated.WithLabelValues("buy-cash").Inc()
	m.AdjustmentsApplied.WithLabelValues("company", "cash", "add").Inc()

	metricFamilies, err := registry.Gather()
	if err != nil {
		t.Fatalf("failed to gather metrics: %v", err)
	}

	found := false
	for _, mf := range metricFamilies {
		if mf.GetName() == "exchangeledger_transactions_created_total" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected exchangeledger_transactions_created_total to be registered")
	}

	if got := testutil.ToFloat64(m.AdjustmentsApplied.WithLabelValues("company", "cash", "add")); got != 1 {
		t.Fatalf("expected adjustment counter 1, got %v", got)
	}
}

func TestNewWithRegistryIsolated(t *testing.T) {
	a := NewWithRegistry(prometheus.NewRegistry())
	b := NewWithRegistry(prometheus.NewRegistry())

	a.TransactionsDeleted.Inc()

	if got := testutil.ToFloat64(b.TransactionsDeleted); got != 0 {
		t.Fatalf("expected separate registries to be independent, got %v", got)
	}
}
