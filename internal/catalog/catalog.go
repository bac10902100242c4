package catalog

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	validator "github.com/go-playground/validator/v10"
)

// ErrInvalidConfiguration is returned when a catalog entry or offer breaks its pricing constraints.
var ErrInvalidConfiguration = errors.New("invalid catalog configuration")

// MaxPrice bounds standard and bundle prices so that line totals stay exact in int64 for
// carts of up to nine million units of one service.
const MaxPrice int64 = 1_000_000_000_000

var validate = validator.New(validator.WithRequiredStructEnabled())

// Offer prices every BundleQuantity units of a service at BundlePrice in total.
type Offer struct {
	BundleQuantity int   `json:"bundleQuantity" validate:"gte=1"`
	BundlePrice    int64 `json:"bundlePrice" validate:"gte=0,lte=1000000000000"`
}

// Entry is the pricing rule for a single service code.
type Entry struct {
	StandardPrice int64  `json:"standardPrice" validate:"gte=0,lte=1000000000000"`
	Offer         *Offer `json:"offer,omitempty"`
}

// HasOffer reports whether the entry carries a bundle offer.
func (e Entry) HasOffer() bool { return e.Offer != nil }

// NewOffer validates and returns a bundle offer.
func NewOffer(quantity int, price int64) (Offer, error) {
	o := Offer{BundleQuantity: quantity, BundlePrice: price}
	if err := validate.Struct(o); err != nil {
		return Offer{}, configError("offer", err)
	}
	return o, nil
}

// NewEntry validates and returns an entry. A nil offer means the service is always sold at
// its standard price.
func NewEntry(standardPrice int64, offer *Offer) (Entry, error) {
	e := Entry{StandardPrice: standardPrice}
	if offer != nil {
		o := *offer
		e.Offer = &o
	}
	if err := validate.Struct(e); err != nil {
		return Entry{}, configError("entry", err)
	}
	return e, nil
}

// Catalog maps service codes to their pricing rules. It is immutable once built and may be
// shared by any number of checkouts.
type Catalog struct {
	entries map[string]Entry
}

// New validates every entry and builds a catalog. The input map is copied.
func New(entries map[string]Entry) (Catalog, error) {
	out := make(map[string]Entry, len(entries))
	for code, e := range entries {
		if strings.TrimSpace(code) == "" {
			return Catalog{}, fmt.Errorf("%w: service code must not be blank", ErrInvalidConfiguration)
		}
		checked, err := NewEntry(e.StandardPrice, e.Offer)
		if err != nil {
			return Catalog{}, fmt.Errorf("service %q: %w", code, err)
		}
		out[code] = checked
	}
	return Catalog{entries: out}, nil
}

// MustNew behaves like New but panics on error. Intended for seed data.
func MustNew(entries map[string]Entry) Catalog {
	c, err := New(entries)
	if err != nil {
		panic(err)
	}
	return c
}

// Lookup returns a copy of the entry registered for code. Changing the returned offer does
// not affect the catalog.
func (c Catalog) Lookup(code string) (Entry, bool) {
	e, ok := c.entries[code]
	if ok && e.Offer != nil {
		o := *e.Offer
		e.Offer = &o
	}
	return e, ok
}

// Len returns the number of services in the catalog.
func (c Catalog) Len() int { return len(c.entries) }

// Codes returns all service codes in ascending order.
func (c Catalog) Codes() []string {
	codes := make([]string, 0, len(c.entries))
	for code := range c.entries {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// Default returns the reference service catalog.
func Default() Catalog {
	return MustNew(map[string]Entry{
		"A": {StandardPrice: 10, Offer: &Offer{BundleQuantity: 3, BundlePrice: 25}},
		"B": {StandardPrice: 12, Offer: &Offer{BundleQuantity: 2, BundlePrice: 20}},
		"C": {StandardPrice: 15},
		"D": {StandardPrice: 25},
		"F": {StandardPrice: 8, Offer: &Offer{BundleQuantity: 2, BundlePrice: 15}},
	})
}

func configError(kind string, err error) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return fmt.Errorf("%w: %s %s must satisfy %s=%s (got %v)", ErrInvalidConfiguration, kind, fe.Field(), fe.Tag(), fe.Param(), fe.Value())
	}
	return fmt.Errorf("%w: %s: %v", ErrInvalidConfiguration, kind, err)
}
