// Package checkout hosts a cart for a calling application: a Session
// serializes concurrent access and surrounds each cart operation with
// logs, metrics, and spans tied to a session ID.
package checkout

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/noah-isme/toko-cart/cart"
	"github.com/noah-isme/toko-cart/pricing"
)

// ErrEmptyCart is returned by Checkout when the session holds no items.
var ErrEmptyCart = errors.New("cart is empty")

var tracer = otel.Tracer("checkout.Session")

// Options configures a session. The zero value is usable: a silent
// logger and the default promo table, with metrics disabled.
type Options struct {
	// PromoCodes is handed to cart.New and merged over the built-in table.
	PromoCodes map[string]float64
	// Logger receives structured operation logs. The zero value logs
	// nothing.
	Logger zerolog.Logger
	// Metrics enables Prometheus collection when non-nil.
	Metrics *Metrics
}

// Session wraps one shopper's cart behind a mutex so a host can expose it
// across goroutines. The cart itself stays single-owner; every access
// goes through the session.
type Session struct {
	mu      sync.Mutex
	id      string
	cart    *cart.Cart
	log     zerolog.Logger
	metrics *Metrics
}

// NewSession builds a session around a fresh cart with a generated ID.
func NewSession(opts Options) *Session {
	id := uuid.NewString()
	return &Session{
		id:      id,
		cart:    cart.New(cart.Config{PromoCodes: opts.PromoCodes}),
		log:     opts.Logger.With().Str("session_id", id).Logger(),
		metrics: opts.Metrics,
	}
}

// ID returns the generated session identifier.
func (s *Session) ID() string { return s.id }

// AddItem validates the fields, builds the line item, and adds it to the
// cart, merging quantities when the SKU is already present.
func (s *Session) AddItem(ctx context.Context, sku, name string, unitPrice float64, qty int) error {
	_, span := tracer.Start(ctx, "Session.AddItem")
	defer span.End()
	span.SetAttributes(attribute.String("cart.sku", sku), attribute.Int("cart.qty", qty))

	item, err := cart.NewItemWithQty(sku, name, unitPrice, qty)
	if err == nil {
		s.mu.Lock()
		err = s.cart.AddItem(item)
		s.mu.Unlock()
	}
	s.metrics.countOp("add_item", err)
	if err != nil {
		span.RecordError(err)
		s.log.Warn().Err(err).Str("sku", sku).Msg("add item rejected")
		return err
	}
	s.log.Debug().Str("sku", sku).Int("qty", qty).Msg("item added")
	return nil
}

// UpdateQty sets the absolute quantity for the item with the given SKU.
func (s *Session) UpdateQty(ctx context.Context, sku string, newQty int) error {
	_, span := tracer.Start(ctx, "Session.UpdateQty")
	defer span.End()
	span.SetAttributes(attribute.String("cart.sku", sku), attribute.Int("cart.qty", newQty))

	s.mu.Lock()
	err := s.cart.UpdateQty(sku, newQty)
	s.mu.Unlock()
	s.metrics.countOp("update_qty", err)
	if err != nil {
		span.RecordError(err)
		s.log.Warn().Err(err).Str("sku", sku).Msg("quantity update rejected")
		return err
	}
	s.log.Debug().Str("sku", sku).Int("qty", newQty).Msg("quantity updated")
	return nil
}

// RemoveItem deletes the item with the given SKU from the cart.
func (s *Session) RemoveItem(ctx context.Context, sku string) error {
	_, span := tracer.Start(ctx, "Session.RemoveItem")
	defer span.End()
	span.SetAttributes(attribute.String("cart.sku", sku))

	s.mu.Lock()
	err := s.cart.RemoveItem(sku)
	s.mu.Unlock()
	s.metrics.countOp("remove_item", err)
	if err != nil {
		span.RecordError(err)
		s.log.Warn().Err(err).Str("sku", sku).Msg("remove rejected")
		return err
	}
	s.log.Debug().Str("sku", sku).Msg("item removed")
	return nil
}

// ApplyPromo validates and applies a promo code, replacing any applied
// earlier.
func (s *Session) ApplyPromo(ctx context.Context, code string) error {
	_, span := tracer.Start(ctx, "Session.ApplyPromo")
	defer span.End()

	s.mu.Lock()
	err := s.cart.ApplyPromo(code)
	var promo cart.Promo
	if err == nil {
		promo, _ = s.cart.AppliedPromo()
	}
	s.mu.Unlock()
	s.metrics.countPromo(err)
	if err != nil {
		span.RecordError(err)
		s.log.Warn().Err(err).Str("code", code).Msg("promo rejected")
		return err
	}
	span.SetAttributes(attribute.String("promo.code", promo.Code))
	s.log.Info().Str("code", promo.Code).Float64("percent", promo.Percent).Msg("promo applied")
	return nil
}

// RemovePromo clears the applied promo, if any.
func (s *Session) RemovePromo(ctx context.Context) {
	_, span := tracer.Start(ctx, "Session.RemovePromo")
	defer span.End()

	s.mu.Lock()
	s.cart.RemovePromo()
	s.mu.Unlock()
	s.metrics.countOp("remove_promo", nil)
	s.log.Debug().Msg("promo removed")
}

// PreviewPromo prices the cart as if the code were applied, without
// changing session state.
func (s *Session) PreviewPromo(ctx context.Context, code string) (pricing.Summary, error) {
	_, span := tracer.Start(ctx, "Session.PreviewPromo")
	defer span.End()

	s.mu.Lock()
	summary, err := s.cart.PreviewPromo(code)
	s.mu.Unlock()
	if err != nil {
		span.RecordError(err)
		return pricing.Summary{}, err
	}
	return summary, nil
}

// Items returns the cart's line items in insertion order.
func (s *Session) Items() []cart.Item {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.Items()
}

// AppliedPromo returns the promo currently in effect, if any.
func (s *Session) AppliedPromo() (cart.Promo, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.AppliedPromo()
}

// Subtotal is the full-precision sum of the cart's line totals.
func (s *Session) Subtotal() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.Subtotal()
}

// Summary prices the cart with the applied promo, if any.
func (s *Session) Summary() pricing.Summary {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.Summary()
}

// Total is the amount due after discount, clamping, and rounding.
func (s *Session) Total() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.Total()
}

// Checkout prices the cart and emits the receipt telemetry. The cart
// keeps its state; persisting or clearing it afterwards is the caller's
// concern.
func (s *Session) Checkout(ctx context.Context) (pricing.Summary, error) {
	_, span := tracer.Start(ctx, "Session.Checkout")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cart.Len() == 0 {
		span.RecordError(ErrEmptyCart)
		s.metrics.countOp("checkout", ErrEmptyCart)
		s.log.Warn().Msg("checkout rejected: cart is empty")
		return pricing.Summary{}, ErrEmptyCart
	}

	summary := s.cart.Summary()
	s.metrics.countOp("checkout", nil)
	s.metrics.observeTotal(summary.Total)
	span.SetAttributes(
		attribute.Int("cart.items", s.cart.Len()),
		attribute.Float64("cart.subtotal", summary.Subtotal),
		attribute.Float64("cart.total", summary.Total),
	)

	evt := s.log.Info().
		Int("items", s.cart.Len()).
		Float64("subtotal", summary.Subtotal).
		Float64("discount", summary.Discount).
		Float64("total", summary.Total)
	if promo, ok := s.cart.AppliedPromo(); ok {
		evt = evt.Str("promo", promo.Code)
	}
	evt.Msg("checkout completed")
	return summary, nil
}
