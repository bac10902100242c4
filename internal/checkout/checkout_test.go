package checkout

import (
	"bytes"
	"math"
	"math/rand"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/checkout-pricing/internal/catalog"
)

func TestTotalPriceScenarios(t *testing.T) {
	cases := []struct {
		name string
		cart []string
		want int64
	}{
		{name: "multipurchase discount advantage", cart: []string{"B", "B"}, want: 20},
		{name: "no multipurchase discount", cart: []string{"F", "C"}, want: 23},
		{name: "mix of discounts and no discount", cart: []string{"F", "F", "B"}, want: 27},
		{name: "1 x A", cart: []string{"A"}, want: 10},
		{name: "2 x A", cart: []string{"A", "A"}, want: 20},
		{name: "3 x A", cart: []string{"A", "A", "A"}, want: 25},
		{name: "4 x A", cart: []string{"A", "A", "A", "A"}, want: 35},
		{name: "1 x C", cart: []string{"C"}, want: 15},
		{name: "2 x C", cart: []string{"C", "C"}, want: 30},
		{name: "interleaved bundles", cart: []string{"A", "B", "A", "D", "B", "A", "F"}, want: 25 + 20 + 25 + 8},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			co := New(catalog.Default())
			for _, code := range tc.cart {
				co.Scan(code)
			}
			require.Equal(t, tc.want, co.TotalPrice())
		})
	}
}

func TestEmptyCartTotalsZero(t *testing.T) {
	co := New(catalog.Default())
	require.Zero(t, co.TotalPrice())
	require.Zero(t, co.Len())
}

func TestUnknownCodesAreIgnored(t *testing.T) {
	co := New(catalog.Default())
	co.Scan("C")
	before := co.TotalPrice()

	for i := 0; i < 5; i++ {
		co.Scan("Z")
		co.Scan("")
		require.Equal(t, before, co.TotalPrice())
	}
	require.Equal(t, 11, co.Len())
	require.Equal(t, []string{"", "Z"}, co.Breakdown().Unpriced)
}

func TestTotalPriceIsPermutationInvariant(t *testing.T) {
	cart := []string{"A", "A", "A", "A", "B", "B", "B", "C", "D", "F", "F", "F", "X"}
	reference := New(catalog.Default())
	for _, code := range cart {
		reference.Scan(code)
	}
	want := reference.TotalPrice()

	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 25; i++ {
		shuffled := append([]string(nil), cart...)
		rng.Shuffle(len(shuffled), func(a, b int) { shuffled[a], shuffled[b] = shuffled[b], shuffled[a] })
		co := New(catalog.Default())
		for _, code := range shuffled {
			co.Scan(code)
		}
		require.Equal(t, want, co.TotalPrice(), "order %v", shuffled)
	}
}

func TestTotalPriceIsRepeatable(t *testing.T) {
	co := New(catalog.Default())
	for _, code := range []string{"A", "A", "A", "B"} {
		co.Scan(code)
	}
	first := co.TotalPrice()
	require.Equal(t, first, co.TotalPrice())
	require.Equal(t, first, co.TotalPrice())
	require.Equal(t, 4, co.Len())

	co.Scan("B")
	require.Equal(t, first-12+20, co.TotalPrice())
}

func TestBundleFormulaForAnyQuantity(t *testing.T) {
	cat := catalog.MustNew(map[string]catalog.Entry{
		"S": {StandardPrice: 7, Offer: &catalog.Offer{BundleQuantity: 4, BundlePrice: 20}},
	})
	co := New(cat)
	for q := 1; q <= 17; q++ {
		co.Scan("S")
		want := int64(q/4)*20 + int64(q%4)*7
		require.Equal(t, want, co.TotalPrice(), "q=%d", q)
	}
}

func TestItemsAndQuantitiesAreCopies(t *testing.T) {
	co := New(catalog.Default())
	co.Scan("A")
	co.Scan("B")
	co.Scan("A")

	items := co.Items()
	require.Equal(t, []string{"A", "B", "A"}, items)
	items[0] = "D"
	require.Equal(t, []string{"A", "B", "A"}, co.Items())

	require.Equal(t, map[string]int{"A": 2, "B": 1}, co.Quantities())
}

func TestWithIDAndLogger(t *testing.T) {
	var buf bytes.Buffer
	id := uuid.MustParse("11111111-1111-1111-1111-111111111111")
	co := New(catalog.Default(), WithID(id), WithLogger(zerolog.New(&buf).Level(zerolog.DebugLevel)))
	co.Scan("A")
	_ = co.TotalPrice()

	require.Equal(t, id, co.ID())
	require.Contains(t, buf.String(), id.String())
	require.Contains(t, buf.String(), `"message":"scan"`)
	require.Contains(t, buf.String(), `"message":"total"`)
}

func TestSharedCatalogIsNotMutated(t *testing.T) {
	cat := catalog.Default()
	first := New(cat)
	second := New(cat)
	first.Scan("A")
	first.Scan("Z")
	second.Scan("B")

	require.Equal(t, int64(10), first.TotalPrice())
	require.Equal(t, int64(12), second.TotalPrice())
	require.Equal(t, 5, cat.Len())
	_, ok := cat.Lookup("Z")
	require.False(t, ok)
}

func TestLookupResultCannotRepriceSharedCatalog(t *testing.T) {
	cat := catalog.Default()
	entry, ok := cat.Lookup("A")
	require.True(t, ok)
	entry.Offer.BundlePrice = 1

	co := New(cat)
	for i := 0; i < 3; i++ {
		co.Scan("A")
	}
	require.Equal(t, int64(25), co.TotalPrice())
}

func TestOverflowingPriceIsRejectedAtConstruction(t *testing.T) {
	_, err := catalog.New(map[string]catalog.Entry{
		"H": {StandardPrice: math.MaxInt64/2 + 1},
	})
	require.ErrorIs(t, err, catalog.ErrInvalidConfiguration)

	cat := catalog.MustNew(map[string]catalog.Entry{"H": {StandardPrice: catalog.MaxPrice}})
	co := New(cat)
	for i := 0; i < 1000; i++ {
		co.Scan("H")
	}
	require.Equal(t, 1000*catalog.MaxPrice, co.TotalPrice())
}
