package domain

import "github.com/shopspring/decimal"

// Tier bounds of the bill-of-materials hierarchy. Tier 0 is a finished
// good, tier 4 a raw material; every material sits at exactly one tier.
const (
	TierFinishedGood = 0
	TierRawMaterial  = 4
	TierCount        = 5
)

// Material aggregates the canonical material entity data. Tier and
// CostEstimate are generation-internal attributes; they never appear in
// the public record.
type Material struct {
	ID           string
	Description  string
	Tier         int
	BaseUnit     string
	CostEstimate decimal.Decimal
}
