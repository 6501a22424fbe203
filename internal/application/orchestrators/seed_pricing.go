package orchestrators

import (
	"context"
	"fmt"
	"log/slog"

	"memberdesk/internal/domain/pricing"
)

// PricingStore defines the pricing persistence the seeder needs.
type PricingStore interface {
	Upsert(ctx context.Context, prices []pricing.Price) error
	Count(ctx context.Context) (int, error)
}

// SeedPricingDeps holds dependencies for SeedPricing.
type SeedPricingDeps struct {
	PricingStore PricingStore
}

// ExecuteSeedPricing loads the price list.
// An empty table is filled from prices; when override is set the list is
// written even over existing rows.
// PRE: prices have been validated
func ExecuteSeedPricing(ctx context.Context, prices []pricing.Price, override bool, deps SeedPricingDeps) error {
	if !override {
		n, err := deps.PricingStore.Count(ctx)
		if err != nil {
			return err
		}
		if n > 0 {
			return nil
		}
	}
	if err := deps.PricingStore.Upsert(ctx, prices); err != nil {
		return fmt.Errorf("seed pricing: %w", err)
	}
	slog.Info("pricing_event", "event", "pricing_seeded", "rows", len(prices), "override", override)
	return nil
}
