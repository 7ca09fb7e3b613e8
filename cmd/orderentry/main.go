// Command orderentry drives a checkout session through a scripted
// order-entry flow: add items, adjust quantities, apply a promo code, and
// check out, printing the receipt along the way.
package main

import (
	"context"
	"flag"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/noah-isme/toko-cart/checkout"
	"github.com/noah-isme/toko-cart/internal/config"
	"github.com/noah-isme/toko-cart/internal/obs"
)

// catalog holds the demo products added to the session.
var catalog = []struct {
	sku   string
	name  string
	price float64
	qty   int
}{
	{"SKU1", "Mechanical Keyboard", 10, 2},
	{"SKU2", "27in Monitor", 20, 1},
	{"SKU3", "USB-C Cable", 5.5, 3},
}

func main() {
	promoFlag := flag.String("promo", "SALE10", "promo code to apply before checkout; empty skips the promo")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := obs.NewLogger(cfg.LogFormat, cfg.LogLevel).With().Str("env", cfg.AppEnv).Logger()

	registry := prometheus.NewRegistry()
	metrics := checkout.NewMetrics(cfg.MetricsNamespace, registry)

	if cfg.EnableTracing {
		shutdown, err := obs.InitTracer(context.Background(), obs.TracingConfig{
			ServiceName:   cfg.ServiceName,
			Environment:   cfg.AppEnv,
			SamplingRatio: cfg.TraceSampleRatio,
			Pretty:        cfg.LogFormat != "json",
		})
		if err != nil {
			logger.Error().Err(err).Msg("initialise tracing")
		} else {
			defer func() {
				if err := shutdown(context.Background()); err != nil {
					logger.Error().Err(err).Msg("shutdown tracer")
				}
			}()
		}
	}

	session := checkout.NewSession(checkout.Options{
		PromoCodes: cfg.PromoCodes,
		Logger:     logger,
		Metrics:    metrics,
	})
	logger.Info().Str("session_id", session.ID()).Msg("order entry started")

	ctx := context.Background()
	for _, entry := range catalog {
		if err := session.AddItem(ctx, entry.sku, entry.name, entry.price, entry.qty); err != nil {
			logger.Fatal().Err(err).Str("sku", entry.sku).Msg("add item")
		}
	}

	// Shopper edits: one more keyboard, drop the cable.
	if err := session.UpdateQty(ctx, "SKU1", 3); err != nil {
		logger.Fatal().Err(err).Msg("update quantity")
	}
	if err := session.RemoveItem(ctx, "SKU3"); err != nil {
		logger.Fatal().Err(err).Msg("remove item")
	}

	if code := *promoFlag; code != "" {
		if err := session.ApplyPromo(ctx, code); err != nil {
			logger.Warn().Err(err).Str("code", code).Msg("promo not applied")
		}
	}

	printReceipt(session, cfg.Currency)

	summary, err := session.Checkout(ctx)
	if err != nil {
		logger.Fatal().Err(err).Msg("checkout")
	}

	families, err := registry.Gather()
	if err != nil {
		logger.Error().Err(err).Msg("gather metrics")
	} else {
		logger.Debug().Int("metric_families", len(families)).Msg("metrics collected")
	}

	logger.Info().
		Float64("total", summary.Total).
		Str("currency", cfg.Currency).
		Msg("order entry finished")
}

func printReceipt(s *checkout.Session, currency string) {
	fmt.Println()
	for _, item := range s.Items() {
		fmt.Printf("  %-24s %3d x %7.2f   %9.2f %s\n",
			item.Name(), item.Qty(), item.UnitPrice(), item.LineTotal(), currency)
	}
	summary := s.Summary()
	fmt.Printf("  %-37s %9.2f %s\n", "subtotal", summary.Subtotal, currency)
	if promo, ok := s.AppliedPromo(); ok {
		label := fmt.Sprintf("promo %s (-%g%%)", promo.Code, promo.Percent)
		fmt.Printf("  %-37s %9.2f %s\n", label, -summary.Discount, currency)
	}
	fmt.Printf("  %-37s %9.2f %s\n", "total", summary.Total, currency)
	fmt.Println()
}
