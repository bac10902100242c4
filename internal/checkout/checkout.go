package checkout

import (
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/noah-isme/checkout-pricing/internal/catalog"
	"github.com/noah-isme/checkout-pricing/internal/pricing"
)

// Checkout accumulates scanned service codes for one session and prices them on demand.
// A Checkout is not safe for concurrent use; the catalog it references may be shared.
type Checkout struct {
	id      uuid.UUID
	catalog catalog.Catalog
	cart    []string
	logger  zerolog.Logger
}

// Option customises a Checkout.
type Option func(*Checkout)

// WithLogger attaches a logger used for debug events.
func WithLogger(l zerolog.Logger) Option {
	return func(c *Checkout) { c.logger = l }
}

// WithID overrides the generated session id.
func WithID(id uuid.UUID) Option {
	return func(c *Checkout) { c.id = id }
}

// New starts an empty checkout session priced against cat.
func New(cat catalog.Catalog, opts ...Option) *Checkout {
	c := &Checkout{
		id:      uuid.New(),
		catalog: cat,
		logger:  zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.With().Str("checkout_id", c.id.String()).Logger()
	return c
}

// ID returns the session identifier.
func (c *Checkout) ID() uuid.UUID { return c.id }

// Scan adds one unit of code to the cart. Codes that are not in the catalog are accepted
// and never priced.
func (c *Checkout) Scan(code string) {
	c.cart = append(c.cart, code)
	c.logger.Debug().Str("code", code).Int("cart_size", len(c.cart)).Msg("scan")
}

// Len returns the number of scanned units.
func (c *Checkout) Len() int { return len(c.cart) }

// Items returns a copy of the scanned codes in scan order.
func (c *Checkout) Items() []string {
	out := make([]string, len(c.cart))
	copy(out, c.cart)
	return out
}

// Quantities counts scanned units per distinct code.
func (c *Checkout) Quantities() map[string]int {
	counts := make(map[string]int)
	for _, code := range c.cart {
		counts[code]++
	}
	return counts
}

// TotalPrice returns the amount due for the current cart.
func (c *Checkout) TotalPrice() int64 {
	return c.Breakdown().Total
}

// Breakdown prices the current cart line by line.
func (c *Checkout) Breakdown() pricing.Summary {
	summary := pricing.Compute(c.Quantities(), c.catalog)
	evt := c.logger.Debug().
		Int("units", len(c.cart)).
		Int64("total", summary.Total).
		Int64("discount", summary.Discount)
	if len(summary.Unpriced) > 0 {
		evt = evt.Strs("unpriced", summary.Unpriced)
	}
	evt.Msg("total")
	return summary
}
