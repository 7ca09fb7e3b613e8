package cart_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/toko-cart/cart"
)

func mustItem(t *testing.T, sku, name string, unitPrice float64, qty int) cart.Item {
	t.Helper()
	item, err := cart.NewItemWithQty(sku, name, unitPrice, qty)
	require.NoError(t, err)
	return item
}

func TestAddItemMergesBySKU(t *testing.T) {
	c := cart.New(cart.Config{})
	require.NoError(t, c.AddItem(mustItem(t, "SKU1", "Keyboard", 10, 1)))
	require.NoError(t, c.AddItem(mustItem(t, "SKU1", "Renamed", 99, 2)))

	require.Equal(t, 1, c.Len())
	got := c.Items()[0]
	require.Equal(t, 3, got.Qty())
	// The first-seen entry keeps its own name and price.
	require.Equal(t, "Keyboard", got.Name())
	require.Equal(t, 10.0, got.UnitPrice())
	require.Equal(t, 30.0, got.LineTotal())
}

func TestAddItemPreservesInsertionOrder(t *testing.T) {
	c := cart.New(cart.Config{})
	require.NoError(t, c.AddItem(mustItem(t, "B", "Second letter", 1, 1)))
	require.NoError(t, c.AddItem(mustItem(t, "A", "First letter", 1, 1)))
	require.NoError(t, c.AddItem(mustItem(t, "C", "Third letter", 1, 1)))
	require.NoError(t, c.AddItem(mustItem(t, "A", "First letter", 1, 5)))

	var skus []string
	for _, it := range c.Items() {
		skus = append(skus, it.SKU())
	}
	require.Equal(t, []string{"B", "A", "C"}, skus)
}

func TestAddItemRejectsUnconstructedValues(t *testing.T) {
	c := cart.New(cart.Config{})

	err := c.AddItem(cart.Item{})
	require.ErrorIs(t, err, cart.ErrNotCartItem)
	require.EqualError(t, err, "item must be CartItem")
	require.True(t, cart.IsValidation(err))
	require.Equal(t, 0, c.Len())
}

func TestUpdateQtySetsAbsoluteValue(t *testing.T) {
	c := cart.New(cart.Config{})
	require.NoError(t, c.AddItem(mustItem(t, "SKU1", "Keyboard", 10, 2)))

	require.NoError(t, c.UpdateQty("SKU1", 5))
	require.Equal(t, 5, c.Items()[0].Qty())
	require.Equal(t, 50.0, c.Subtotal())
}

func TestUpdateQtyChecksQuantityBeforeExistence(t *testing.T) {
	c := cart.New(cart.Config{})

	// An invalid quantity wins even when the SKU is unknown.
	err := c.UpdateQty("MISSING", 0)
	require.ErrorIs(t, err, cart.ErrNewQtyInvalid)
	require.EqualError(t, err, "newQty must be positive integer")

	err = c.UpdateQty("MISSING", 3)
	require.ErrorIs(t, err, cart.ErrItemNotFound)
	require.EqualError(t, err, "Item not found")
}

func TestRemoveItem(t *testing.T) {
	c := cart.New(cart.Config{})
	require.NoError(t, c.AddItem(mustItem(t, "A", "First", 1, 1)))
	require.NoError(t, c.AddItem(mustItem(t, "B", "Second", 1, 1)))
	require.NoError(t, c.AddItem(mustItem(t, "C", "Third", 1, 1)))

	require.NoError(t, c.RemoveItem("B"))

	var skus []string
	for _, it := range c.Items() {
		skus = append(skus, it.SKU())
	}
	require.Equal(t, []string{"A", "C"}, skus)

	err := c.RemoveItem("B")
	require.ErrorIs(t, err, cart.ErrItemNotFound)
}

func TestSubtotal(t *testing.T) {
	c := cart.New(cart.Config{})
	require.Equal(t, 0.0, c.Subtotal())

	require.NoError(t, c.AddItem(mustItem(t, "A", "First", 10, 2)))
	require.NoError(t, c.AddItem(mustItem(t, "B", "Second", 20, 3)))
	require.NoError(t, c.AddItem(mustItem(t, "C", "Third", 5, 1)))
	require.Equal(t, 85.0, c.Subtotal())

	c = cart.New(cart.Config{})
	require.NoError(t, c.AddItem(mustItem(t, "A", "First", 10.99, 2)))
	require.NoError(t, c.AddItem(mustItem(t, "B", "Second", 5.5, 1)))
	require.Equal(t, 27.48, c.Subtotal())
}

func TestApplyPromoNormalizesCode(t *testing.T) {
	for _, code := range []string{"sale10", "  SALE10  ", "Sale10"} {
		c := cart.New(cart.Config{})
		require.NoError(t, c.ApplyPromo(code), "code %q", code)

		promo, ok := c.AppliedPromo()
		require.True(t, ok)
		require.Equal(t, "SALE10", promo.Code)
		require.Equal(t, 10.0, promo.Percent)
	}
}

func TestApplyPromoRejectsBadCodes(t *testing.T) {
	c := cart.New(cart.Config{})

	err := c.ApplyPromo("")
	require.ErrorIs(t, err, cart.ErrPromoCodeRequired)
	require.EqualError(t, err, "Promo code must be non-empty string")

	err = c.ApplyPromo("NOSUCH")
	require.ErrorIs(t, err, cart.ErrInvalidPromoCode)
	require.EqualError(t, err, "Invalid promo code")

	// Whitespace-only input is non-empty, so it reaches the lookup and
	// fails there once normalized away.
	err = c.ApplyPromo("   ")
	require.ErrorIs(t, err, cart.ErrInvalidPromoCode)

	_, ok := c.AppliedPromo()
	require.False(t, ok)
}

func TestApplyPromoValidatesRangeAtUseTime(t *testing.T) {
	// Construction accepts any percent; the range check runs on apply.
	c := cart.New(cart.Config{PromoCodes: map[string]float64{
		"TOOBIG":   150,
		"NEGATIVE": -5,
	}})

	err := c.ApplyPromo("TOOBIG")
	require.ErrorIs(t, err, cart.ErrPromoOutOfRange)
	require.EqualError(t, err, "Configured promo is out of range 0..100")

	err = c.ApplyPromo("NEGATIVE")
	require.ErrorIs(t, err, cart.ErrPromoOutOfRange)

	// Boundary values are in range.
	c = cart.New(cart.Config{PromoCodes: map[string]float64{"ZERO": 0, "ALL": 100}})
	require.NoError(t, c.ApplyPromo("ZERO"))
	require.NoError(t, c.ApplyPromo("ALL"))
}

func TestApplyPromoOverwritesPrevious(t *testing.T) {
	c := cart.New(cart.Config{})
	require.NoError(t, c.AddItem(mustItem(t, "A", "First", 100, 1)))

	require.NoError(t, c.ApplyPromo("SALE10"))
	require.NoError(t, c.ApplyPromo("SPRING5"))

	promo, ok := c.AppliedPromo()
	require.True(t, ok)
	require.Equal(t, "SPRING5", promo.Code)
	require.Equal(t, 95.0, c.Total())
}

func TestRemovePromo(t *testing.T) {
	c := cart.New(cart.Config{})
	require.NoError(t, c.AddItem(mustItem(t, "A", "First", 100, 1)))
	require.NoError(t, c.ApplyPromo("SALE10"))
	require.Equal(t, 90.0, c.Total())

	c.RemovePromo()
	_, ok := c.AppliedPromo()
	require.False(t, ok)
	require.Equal(t, 100.0, c.Total())

	c.RemovePromo() // clearing twice stays a no-op
	require.Equal(t, 100.0, c.Total())
}

func TestPreviewPromoDoesNotMutate(t *testing.T) {
	c := cart.New(cart.Config{})
	require.NoError(t, c.AddItem(mustItem(t, "A", "First", 100, 1)))

	summary, err := c.PreviewPromo("sale10")
	require.NoError(t, err)
	require.Equal(t, 100.0, summary.Subtotal)
	require.Equal(t, 10.0, summary.Discount)
	require.Equal(t, 90.0, summary.Total)

	_, ok := c.AppliedPromo()
	require.False(t, ok)
	require.Equal(t, 100.0, c.Total())

	_, err = c.PreviewPromo("NOSUCH")
	require.ErrorIs(t, err, cart.ErrInvalidPromoCode)
}

func TestPromoTableMerge(t *testing.T) {
	t.Run("caller entry overrides a default", func(t *testing.T) {
		c := cart.New(cart.Config{PromoCodes: map[string]float64{"SALE10": 50}})
		require.NoError(t, c.AddItem(mustItem(t, "A", "First", 100, 1)))
		require.NoError(t, c.ApplyPromo("SALE10"))
		require.Equal(t, 50.0, c.Total())
	})

	t.Run("caller entries extend the defaults", func(t *testing.T) {
		c := cart.New(cart.Config{PromoCodes: map[string]float64{"HOLIDAY15": 15}})
		require.NoError(t, c.ApplyPromo("HOLIDAY15"))
		require.NoError(t, c.ApplyPromo("SALE10"))
	})

	t.Run("nil table keeps defaults", func(t *testing.T) {
		c := cart.New(cart.Config{})
		for _, code := range []string{"SALE10", "FREE100", "SPRING5"} {
			require.NoError(t, c.ApplyPromo(code), "default %s should exist", code)
		}
	})

	t.Run("carts do not share table state", func(t *testing.T) {
		overridden := cart.New(cart.Config{PromoCodes: map[string]float64{"SALE10": 50}})
		plain := cart.New(cart.Config{})
		require.NoError(t, overridden.AddItem(mustItem(t, "A", "First", 100, 1)))
		require.NoError(t, plain.AddItem(mustItem(t, "A", "First", 100, 1)))
		require.NoError(t, overridden.ApplyPromo("SALE10"))
		require.NoError(t, plain.ApplyPromo("SALE10"))
		require.Equal(t, 50.0, overridden.Total())
		require.Equal(t, 90.0, plain.Total())
	})

	t.Run("cart owns a copy of the caller map", func(t *testing.T) {
		codes := map[string]float64{"HOLIDAY15": 15}
		c := cart.New(cart.Config{PromoCodes: codes})
		codes["HOLIDAY15"] = 99
		delete(codes, "HOLIDAY15")

		require.NoError(t, c.ApplyPromo("HOLIDAY15"))
		promo, _ := c.AppliedPromo()
		require.Equal(t, 15.0, promo.Percent)
	})
}

func TestTotalVectors(t *testing.T) {
	cases := []struct {
		name      string
		unitPrice float64
		qty       int
		promo     string
		want      float64
	}{
		{"ten percent off ten", 10, 1, "SALE10", 9},
		{"full discount clamps at zero", 100, 1, "FREE100", 0},
		{"five percent off hundred", 100, 1, "SPRING5", 95},
		{"no promo rounds down", 10.333, 1, "", 10.33},
		{"discounted repeating fraction", 33.333, 1, "SALE10", 30},
		{"half up at the boundary", 10.995, 1, "", 11},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := cart.New(cart.Config{})
			require.NoError(t, c.AddItem(mustItem(t, "SKU1", "Thing", tc.unitPrice, tc.qty)))
			if tc.promo != "" {
				require.NoError(t, c.ApplyPromo(tc.promo))
			}
			require.Equal(t, tc.want, c.Total())
		})
	}
}

func TestSummaryBreakdown(t *testing.T) {
	c := cart.New(cart.Config{})
	require.NoError(t, c.AddItem(mustItem(t, "A", "First", 100, 1)))
	require.NoError(t, c.ApplyPromo("SALE10"))

	s := c.Summary()
	require.Equal(t, 100.0, s.Subtotal)
	require.Equal(t, 10.0, s.Discount)
	require.Equal(t, 90.0, s.Total)
	require.Equal(t, c.Total(), s.Total)
}

func TestCartEndToEnd(t *testing.T) {
	c := cart.New(cart.Config{})

	require.NoError(t, c.AddItem(mustItem(t, "SKU1", "Keyboard", 10, 2)))
	require.NoError(t, c.AddItem(mustItem(t, "SKU2", "Monitor", 20, 1)))
	require.Equal(t, 40.0, c.Subtotal())

	require.NoError(t, c.UpdateQty("SKU1", 3))
	require.Equal(t, 50.0, c.Subtotal())

	require.NoError(t, c.RemoveItem("SKU2"))
	require.Equal(t, 30.0, c.Subtotal())

	require.NoError(t, c.ApplyPromo("SALE10"))
	require.Equal(t, 27.0, c.Total())
}
