package cart

import "math"

// Item is one line in a cart: a SKU, a display name, a unit price above
// zero, and a quantity of at least one. Items come from NewItem or
// NewItemWithQty; Cart.AddItem rejects anything else, so a zero or
// hand-assembled Item value never enters a cart.
type Item struct {
	sku       string
	name      string
	unitPrice float64
	qty       int
	valid     bool
}

// NewItem builds a line item with a quantity of one.
func NewItem(sku, name string, unitPrice float64) (Item, error) {
	return NewItemWithQty(sku, name, unitPrice, 1)
}

// NewItemWithQty builds a line item with an explicit quantity. Fields are
// checked in order (sku, name, unitPrice, qty) and the first violation
// wins. SKU and name are taken as given, without trimming.
func NewItemWithQty(sku, name string, unitPrice float64, qty int) (Item, error) {
	if sku == "" {
		return Item{}, ErrSKURequired
	}
	if name == "" {
		return Item{}, ErrNameRequired
	}
	if unitPrice <= 0 || math.IsNaN(unitPrice) {
		return Item{}, ErrUnitPriceInvalid
	}
	if qty <= 0 {
		return Item{}, ErrQtyInvalid
	}
	return Item{sku: sku, name: name, unitPrice: unitPrice, qty: qty, valid: true}, nil
}

// SKU identifies the item within its cart.
func (i Item) SKU() string { return i.sku }

// Name is the display label.
func (i Item) Name() string { return i.name }

// UnitPrice is the price of a single unit.
func (i Item) UnitPrice() float64 { return i.unitPrice }

// Qty is the current quantity.
func (i Item) Qty() int { return i.qty }

// LineTotal is unitPrice times qty, recomputed on every call.
func (i Item) LineTotal() float64 {
	return i.unitPrice * float64(i.qty)
}
