package pricing

import (
	"sort"

	"github.com/noah-isme/checkout-pricing/internal/catalog"
)

// Money represents a monetary value stored in minor units.
type Money = int64

// Line is the priced result for one service code.
type Line struct {
	Code         string `json:"code"`
	Quantity     int    `json:"quantity"`
	UnitPrice    Money  `json:"unitPrice"`
	Bundles      int    `json:"bundles"`
	Remainder    int    `json:"remainder"`
	Undiscounted Money  `json:"undiscounted"`
	Discount     Money  `json:"discount"`
	Amount       Money  `json:"amount"`
}

// Summary aggregates computed pricing components.
type Summary struct {
	Lines    []Line   `json:"lines"`
	Unpriced []string `json:"unpriced"`
	Subtotal Money    `json:"subtotal"`
	Discount Money    `json:"discount"`
	Total    Money    `json:"total"`
}

// LinePrice prices qty units of a single service. Full bundles are charged at the bundle
// price and any remainder at the standard price.
func LinePrice(qty int, e catalog.Entry) Line {
	line := Line{UnitPrice: e.StandardPrice}
	if qty <= 0 {
		return line
	}
	line.Quantity = qty
	line.Undiscounted = Money(qty) * e.StandardPrice
	if e.Offer == nil {
		line.Remainder = qty
		line.Amount = line.Undiscounted
		return line
	}
	line.Bundles = qty / e.Offer.BundleQuantity
	line.Remainder = qty - line.Bundles*e.Offer.BundleQuantity
	line.Amount = Money(line.Bundles)*e.Offer.BundlePrice + Money(line.Remainder)*e.StandardPrice
	line.Discount = line.Undiscounted - line.Amount
	return line
}

// Compute prices the given per-code quantities against the catalog. Codes missing from the
// catalog contribute nothing and are reported in Unpriced.
func Compute(quantities map[string]int, cat catalog.Catalog) Summary {
	summary := Summary{Lines: []Line{}, Unpriced: []string{}}
	for code, qty := range quantities {
		if qty <= 0 {
			continue
		}
		entry, ok := cat.Lookup(code)
		if !ok {
			summary.Unpriced = append(summary.Unpriced, code)
			continue
		}
		line := LinePrice(qty, entry)
		line.Code = code
		summary.Lines = append(summary.Lines, line)
		summary.Subtotal += line.Undiscounted
		summary.Discount += line.Discount
		summary.Total += line.Amount
	}
	sort.Slice(summary.Lines, func(i, j int) bool { return summary.Lines[i].Code < summary.Lines[j].Code })
	sort.Strings(summary.Unpriced)
	return summary
}
