package checkout

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/noah-isme/checkout-pricing/internal/catalog"
	"github.com/noah-isme/checkout-pricing/internal/obs"
	"github.com/noah-isme/checkout-pricing/internal/pricing"
)

// ErrUnknownService is returned by strict services when a cart holds codes outside the catalog.
var ErrUnknownService = errors.New("unknown service code")

// UnknownServiceError lists the codes that could not be priced.
type UnknownServiceError struct {
	Codes []string
}

func (e *UnknownServiceError) Error() string {
	return fmt.Sprintf("%s: %s", ErrUnknownService, strings.Join(e.Codes, ", "))
}

// Unwrap lets errors.Is match ErrUnknownService.
func (e *UnknownServiceError) Unwrap() error { return ErrUnknownService }

// Quote is the priced result of one checkout session.
type Quote struct {
	ID string `json:"id"`
	pricing.Summary
}

// Service prices carts against a shared catalog. Each call runs its own Checkout, so a
// Service may be used from many goroutines.
type Service struct {
	Catalog catalog.Catalog
	// Strict rejects carts containing codes that are not in the catalog.
	Strict  bool
	Logger  zerolog.Logger
	Metrics *obs.CheckoutMetrics
}

// Quote scans items into a fresh checkout and prices the result.
func (s *Service) Quote(ctx context.Context, items []string) (Quote, error) {
	if s == nil {
		return Quote{}, errors.New("checkout service not configured")
	}
	_, span := otel.Tracer("checkout").Start(ctx, "checkout.quote")
	defer span.End()

	co := New(s.Catalog, WithLogger(s.Logger))
	for _, code := range items {
		co.Scan(code)
	}
	summary := co.Breakdown()
	unpricedUnits := 0
	if len(summary.Unpriced) > 0 {
		qty := co.Quantities()
		for _, code := range summary.Unpriced {
			unpricedUnits += qty[code]
		}
	}

	span.SetAttributes(
		attribute.String("checkout.id", co.ID().String()),
		attribute.Int("checkout.units", co.Len()),
		attribute.Int("checkout.unpriced_units", unpricedUnits),
		attribute.Int64("checkout.total", summary.Total),
	)
	if s.Metrics != nil {
		s.Metrics.UnitsScanned.Add(float64(co.Len()))
		s.Metrics.UnitsUnpriced.Add(float64(unpricedUnits))
	}

	if s.Strict && len(summary.Unpriced) > 0 {
		err := &UnknownServiceError{Codes: summary.Unpriced}
		span.SetStatus(codes.Error, err.Error())
		s.observe("rejected", pricing.Summary{})
		s.Logger.Info().
			Str("checkout_id", co.ID().String()).
			Strs("unknown", summary.Unpriced).
			Msg("quote rejected")
		return Quote{}, err
	}

	s.observe("ok", summary)
	s.Logger.Info().
		Str("checkout_id", co.ID().String()).
		Int("units", co.Len()).
		Int64("total", summary.Total).
		Int64("discount", summary.Discount).
		Msg("quote priced")
	return Quote{ID: co.ID().String(), Summary: summary}, nil
}

func (s *Service) observe(result string, summary pricing.Summary) {
	if s.Metrics == nil {
		return
	}
	s.Metrics.QuotesTotal.WithLabelValues(result).Inc()
	if result != "ok" {
		return
	}
	s.Metrics.QuoteTotal.Observe(float64(summary.Total))
	s.Metrics.QuoteDiscount.Observe(float64(summary.Discount))
}
