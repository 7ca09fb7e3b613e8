package checkout

import (
	"errors"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/noah-isme/toko-cart/cart"
)

// Metrics groups Prometheus collectors for session activity. A nil
// *Metrics on a Session disables collection entirely.
type Metrics struct {
	// OpsTotal counts cart operations by op and outcome.
	OpsTotal *prometheus.CounterVec
	// PromoTotal counts promo submissions by outcome.
	PromoTotal *prometheus.CounterVec
	// CheckoutTotals records the distribution of checkout totals.
	CheckoutTotals prometheus.Histogram
}

// NewMetrics registers and returns the session collectors. Collectors
// already present on the registry are reused, so any number of sessions
// and callers can share one registry and namespace.
func NewMetrics(namespace string, reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	m := &Metrics{
		OpsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cart_ops_total",
			Help:      "Count of cart operations by outcome.",
		}, []string{"op", "result"}),
		PromoTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "promo_apply_total",
			Help:      "Count of promo code submissions by outcome.",
		}, []string{"result"}),
		CheckoutTotals: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "checkout_total",
			Help:      "Distribution of checkout totals in currency units.",
			Buckets:   []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000},
		}),
	}
	registerCollector(reg, m.OpsTotal, func(existing prometheus.Collector) {
		if v, ok := existing.(*prometheus.CounterVec); ok {
			m.OpsTotal = v
		}
	})
	registerCollector(reg, m.PromoTotal, func(existing prometheus.Collector) {
		if v, ok := existing.(*prometheus.CounterVec); ok {
			m.PromoTotal = v
		}
	})
	registerCollector(reg, m.CheckoutTotals, func(existing prometheus.Collector) {
		if v, ok := existing.(prometheus.Histogram); ok {
			m.CheckoutTotals = v
		}
	})
	return m
}

func registerCollector(reg prometheus.Registerer, collector prometheus.Collector, reuse func(prometheus.Collector)) {
	if err := reg.Register(collector); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if reuse != nil {
				reuse(are.ExistingCollector)
			}
			return
		}
		panic(fmt.Errorf("register session metric: %w", err))
	}
}

func (m *Metrics) countOp(op string, err error) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.OpsTotal.WithLabelValues(op, result).Inc()
}

func (m *Metrics) countPromo(err error) {
	if m == nil {
		return
	}
	m.PromoTotal.WithLabelValues(promoResult(err)).Inc()
}

func (m *Metrics) observeTotal(total float64) {
	if m == nil {
		return
	}
	m.CheckoutTotals.Observe(total)
}

func promoResult(err error) string {
	switch {
	case err == nil:
		return "applied"
	case errors.Is(err, cart.ErrInvalidPromoCode):
		return "invalid"
	case errors.Is(err, cart.ErrPromoOutOfRange):
		return "out_of_range"
	default:
		return "rejected"
	}
}
