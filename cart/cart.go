// Package cart models an in-memory shopping cart: ordered line items
// merged by SKU, with at most one percentage promo applied from a
// configurable code table.
package cart

import (
	"math"
	"strings"

	"github.com/noah-isme/toko-cart/pricing"
)

// defaultPromoCodes is the built-in table. It is never handed out; New
// copies it, so no cart can mutate the defaults or another cart's table.
var defaultPromoCodes = map[string]float64{
	"SALE10":  10,
	"FREE100": 100,
	"SPRING5": 5,
}

// Config seeds a cart at construction time.
type Config struct {
	// PromoCodes extends or overrides the built-in table key by key. A nil
	// map keeps the defaults unchanged. Submitted codes are trimmed and
	// upper-cased before lookup while keys are matched as stored, so
	// configure keys in upper case. Percent values are validated at apply
	// time, not here.
	PromoCodes map[string]float64
}

// Promo is a discount applied to a cart: the normalized code and the
// percent configured for it.
type Promo struct {
	Code    string
	Percent float64
}

// Cart holds an ordered collection of items, unique by SKU with
// first-seen order preserved, plus at most one applied promo. A cart
// belongs to a single logical owner and is not safe for concurrent use;
// hosts that share one must serialize access (checkout.Session does).
type Cart struct {
	items   []Item
	promos  map[string]float64
	applied *Promo
}

// New builds an empty cart whose promo table is cfg.PromoCodes merged
// over the built-in defaults, caller entries winning key by key.
func New(cfg Config) *Cart {
	promos := make(map[string]float64, len(defaultPromoCodes)+len(cfg.PromoCodes))
	for code, percent := range defaultPromoCodes {
		promos[code] = percent
	}
	for code, percent := range cfg.PromoCodes {
		promos[code] = percent
	}
	return &Cart{promos: promos}
}

// AddItem appends the item, or, when an entry with the same SKU already
// exists, adds the incoming quantity to it. The existing entry keeps its
// own name and unit price. Only items built by this package's
// constructors are accepted.
func (c *Cart) AddItem(item Item) error {
	if !item.valid {
		return ErrNotCartItem
	}
	for i := range c.items {
		if c.items[i].sku == item.sku {
			c.items[i].qty += item.qty
			return nil
		}
	}
	c.items = append(c.items, item)
	return nil
}

// UpdateQty sets the quantity of the item with the given SKU to newQty,
// replacing the old value rather than adding to it.
func (c *Cart) UpdateQty(sku string, newQty int) error {
	if newQty <= 0 {
		return ErrNewQtyInvalid
	}
	for i := range c.items {
		if c.items[i].sku == sku {
			c.items[i].qty = newQty
			return nil
		}
	}
	return ErrItemNotFound
}

// RemoveItem deletes the item with the given SKU. The relative order of
// the remaining items is preserved.
func (c *Cart) RemoveItem(sku string) error {
	for i := range c.items {
		if c.items[i].sku == sku {
			c.items = append(c.items[:i], c.items[i+1:]...)
			return nil
		}
	}
	return ErrItemNotFound
}

// Items returns a copy of the line items in insertion order.
func (c *Cart) Items() []Item {
	out := make([]Item, len(c.items))
	copy(out, c.items)
	return out
}

// Len is the number of distinct line items.
func (c *Cart) Len() int { return len(c.items) }

// Subtotal sums the line totals at full precision; an empty cart totals
// zero. No rounding happens here.
func (c *Cart) Subtotal() float64 {
	var sum float64
	for _, it := range c.items {
		sum += it.LineTotal()
	}
	return sum
}

// ApplyPromo validates the code and applies it to the cart, replacing any
// promo applied earlier. The code is trimmed and upper-cased, then looked
// up in the cart's table; the configured percent must lie within 0..100.
func (c *Cart) ApplyPromo(code string) error {
	promo, err := c.resolvePromo(code)
	if err != nil {
		return err
	}
	c.applied = &promo
	return nil
}

// PreviewPromo prices the cart as if code were applied, validating it the
// same way ApplyPromo does, without mutating the cart.
func (c *Cart) PreviewPromo(code string) (pricing.Summary, error) {
	promo, err := c.resolvePromo(code)
	if err != nil {
		return pricing.Summary{}, err
	}
	return pricing.Compute(c.Subtotal(), promo.Percent), nil
}

func (c *Cart) resolvePromo(code string) (Promo, error) {
	if code == "" {
		return Promo{}, ErrPromoCodeRequired
	}
	normalized := strings.ToUpper(strings.TrimSpace(code))
	percent, ok := c.promos[normalized]
	if !ok {
		return Promo{}, ErrInvalidPromoCode
	}
	if percent < 0 || percent > 100 || math.IsNaN(percent) {
		return Promo{}, ErrPromoOutOfRange
	}
	return Promo{Code: normalized, Percent: percent}, nil
}

// RemovePromo clears the applied promo. Clearing an empty slot is a no-op.
func (c *Cart) RemovePromo() {
	c.applied = nil
}

// AppliedPromo returns the promo currently in effect, if any.
func (c *Cart) AppliedPromo() (Promo, bool) {
	if c.applied == nil {
		return Promo{}, false
	}
	return *c.applied, true
}

// Summary prices the cart with the applied promo, or with no discount
// when none is applied.
func (c *Cart) Summary() pricing.Summary {
	var percent float64
	if c.applied != nil {
		percent = c.applied.Percent
	}
	return pricing.Compute(c.Subtotal(), percent)
}

// Total is the amount due: subtotal minus discount, clamped at zero,
// rounded to two decimals.
func (c *Cart) Total() float64 {
	return c.Summary().Total
}
