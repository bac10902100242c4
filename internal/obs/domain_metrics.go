package obs

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

// CheckoutMetrics groups collectors describing checkout quotes.
type CheckoutMetrics struct {
	// QuotesTotal counts quote outcomes by result.
	QuotesTotal *prometheus.CounterVec
	// UnitsScanned counts every scanned unit, priced or not.
	UnitsScanned prometheus.Counter
	// UnitsUnpriced counts scanned units whose code is missing from the catalog.
	UnitsUnpriced prometheus.Counter
	// QuoteTotal records the amount due per successful quote.
	QuoteTotal prometheus.Histogram
	// QuoteDiscount records the bundle discount granted per successful quote.
	QuoteDiscount prometheus.Histogram
}

// MustRegisterCheckoutMetrics initialises checkout collectors and registers them, reusing
// collectors that are already registered under the same name.
func MustRegisterCheckoutMetrics(namespace string, reg prometheus.Registerer) *CheckoutMetrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	amountBuckets := []float64{10, 25, 50, 100, 250, 500, 1000, 5000}
	m := &CheckoutMetrics{
		QuotesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "checkout_quotes_total",
			Help:      "Count of checkout quote outcomes.",
		}, []string{"result"}),
		UnitsScanned: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "checkout_units_scanned_total",
			Help:      "Total number of units scanned into checkouts.",
		}),
		UnitsUnpriced: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "checkout_units_unpriced_total",
			Help:      "Scanned units whose service code is not in the catalog.",
		}),
		QuoteTotal: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "checkout_quote_total",
			Help:      "Distribution of quoted totals in minor units.",
			Buckets:   amountBuckets,
		}),
		QuoteDiscount: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "checkout_quote_discount",
			Help:      "Distribution of bundle discounts per quote in minor units.",
			Buckets:   amountBuckets,
		}),
	}

	mustRegisterCollector(reg, m.QuotesTotal, func(existing prometheus.Collector) {
		if v, ok := existing.(*prometheus.CounterVec); ok {
			m.QuotesTotal = v
		}
	})
	mustRegisterCollector(reg, m.UnitsScanned, func(existing prometheus.Collector) {
		if v, ok := existing.(prometheus.Counter); ok {
			m.UnitsScanned = v
		}
	})
	mustRegisterCollector(reg, m.UnitsUnpriced, func(existing prometheus.Collector) {
		if v, ok := existing.(prometheus.Counter); ok {
			m.UnitsUnpriced = v
		}
	})
	mustRegisterCollector(reg, m.QuoteTotal, func(existing prometheus.Collector) {
		if v, ok := existing.(prometheus.Histogram); ok {
			m.QuoteTotal = v
		}
	})
	mustRegisterCollector(reg, m.QuoteDiscount, func(existing prometheus.Collector) {
		if v, ok := existing.(prometheus.Histogram); ok {
			m.QuoteDiscount = v
		}
	})
	return m
}

func mustRegisterCollector(reg prometheus.Registerer, collector prometheus.Collector, reuse func(prometheus.Collector)) {
	if err := reg.Register(collector); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if reuse != nil {
				reuse(are.ExistingCollector)
			}
			return
		}
		panic(fmt.Errorf("register metric: %w", err))
	}
}
