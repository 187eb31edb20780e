package generator

import (
	"fmt"
	"math"
	"time"

	"github.com/clemensrosenow/chainsynth/internal/domain"
)

// CountryWeight pairs a country code with its selection weight. Weights are
// kept as an ordered slice, not a map, so the categorical draw consumes the
// stream in a stable order.
type CountryWeight struct {
	Code   string  `yaml:"code"`
	Weight float64 `yaml:"weight"`
}

// TierProfile collects every tier-keyed generation parameter in one place:
// description vocabulary, unit of measure, cost scaling, BOM fan-out, and
// the quantity range for edges whose parent sits at this tier.
type TierProfile struct {
	Vocabulary            []string
	BaseUnit              string
	CostScale             float64
	FanOutMean            float64
	EdgeQuantityMin       float64
	EdgeQuantityMax       float64
	EdgeQuantityPrecision int32
}

// CapacityConfig shapes the supplier capacity distribution.
type CapacityConfig struct {
	ZipfShape float64
	Max       int
}

// CostConfig parameterizes the log-normal material cost draw.
type CostConfig struct {
	Mu    float64
	Sigma float64
}

// NexusConfig tunes the bottleneck bias of the deepest BOM transition:
// Fraction of the tier-4 pool forms the nexus subset, and Bias is the
// probability any single child draw lands inside it.
type NexusConfig struct {
	Fraction float64
	Bias     float64
}

// SourcingConfig bounds the approved-supplier-list size per material.
type SourcingConfig struct {
	MinCandidates int
	MaxCandidates int
}

// SimulationConfig drives the purchase-order simulator.
type SimulationConfig struct {
	WindowStart time.Time
	WindowEnd   time.Time
	Horizon     time.Time

	LeadTimeMinDays int
	LeadTimeMaxDays int

	BulkProbability    float64
	BulkParetoShape    float64
	BulkParetoScale    float64
	UniformQuantityMax int

	StatusFull    float64
	StatusPartial float64
	StatusMissing float64

	FullReceiptOffsetMinDays    int
	FullReceiptOffsetMaxDays    int
	PartialReceiptOffsetMinDays int
	PartialReceiptOffsetMaxDays int
	PartialFractionMin          float64
	PartialFractionMax          float64

	PriceNoiseMin float64
	PriceNoiseMax float64

	NumberBase int
}

// Config drives the synthetic supply-chain generator. Zero-valued sections
// are filled from DefaultConfig by New; counts are taken literally, so zero
// entities is a valid (empty) request.
type Config struct {
	Seed         int64
	NumSuppliers int
	NumMaterials int
	NumOrders    int

	Capacity          CapacityConfig
	CountryWeights    []CountryWeight
	TierProbabilities []float64
	Tiers             [domain.TierCount]TierProfile
	Cost              CostConfig
	Nexus             NexusConfig
	Sourcing          SourcingConfig
	Simulation        SimulationConfig
}

// DefaultConfig returns the canonical production scenario: an EV battery
// supply chain with 3000 suppliers, 7000 materials across five tiers, and
// 80000 order lines against a late-2025 horizon.
func DefaultConfig() Config {
	return Config{
		Seed:         42,
		NumSuppliers: 3000,
		NumMaterials: 7000,
		NumOrders:    80000,
		Capacity: CapacityConfig{
			ZipfShape: 1.5,
			Max:       50,
		},
		CountryWeights: []CountryWeight{
			{Code: "CN", Weight: 0.45},
			{Code: "KR", Weight: 0.15},
			{Code: "JP", Weight: 0.10},
			{Code: "DE", Weight: 0.10},
			{Code: "US", Weight: 0.10},
			{Code: "XX", Weight: 0.10},
		},
		TierProbabilities: []float64{0.05, 0.10, 0.20, 0.30, 0.35},
		Tiers:             defaultTierProfiles(),
		Cost: CostConfig{
			Mu:    3,
			Sigma: 1,
		},
		Nexus: NexusConfig{
			Fraction: 0.25,
			Bias:     0.80,
		},
		Sourcing: SourcingConfig{
			MinCandidates: 1,
			MaxCandidates: 3,
		},
		Simulation: SimulationConfig{
			WindowStart:                 time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
			WindowEnd:                   time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC),
			Horizon:                     time.Date(2025, 10, 31, 0, 0, 0, 0, time.UTC),
			LeadTimeMinDays:             14,
			LeadTimeMaxDays:             90,
			BulkProbability:             0.20,
			BulkParetoShape:             1.16,
			BulkParetoScale:             50,
			UniformQuantityMax:          100,
			StatusFull:                  0.85,
			StatusPartial:               0.10,
			StatusMissing:               0.05,
			FullReceiptOffsetMinDays:    -2,
			FullReceiptOffsetMaxDays:    10,
			PartialReceiptOffsetMinDays: 1,
			PartialReceiptOffsetMaxDays: 15,
			PartialFractionMin:          0.1,
			PartialFractionMax:          0.9,
			PriceNoiseMin:               0.95,
			PriceNoiseMax:               1.05,
			NumberBase:                  100000,
		},
	}
}

// defaultTierProfiles models an EV battery value chain: finished vehicles
// at tier 0 down to mined or refined raw materials at tier 4. Cost scale
// shrinks and fan-out narrows as tier depth grows; tier-3 parents consume
// mass-based tier-4 materials in small fractional quantities.
func defaultTierProfiles() [domain.TierCount]TierProfile {
	return [domain.TierCount]TierProfile{
		{
			Vocabulary:            []string{"EV_Sedan", "EV_SUV", "EV_Truck"},
			BaseUnit:              "EA",
			CostScale:             5,
			FanOutMean:            4.0,
			EdgeQuantityMin:       1,
			EdgeQuantityMax:       20,
			EdgeQuantityPrecision: 2,
		},
		{
			Vocabulary:            []string{"Battery_Pack_HighRange", "Battery_Pack_Std", "Inverter_Assy", "Drive_Unit"},
			BaseUnit:              "EA",
			CostScale:             4,
			FanOutMean:            3.5,
			EdgeQuantityMin:       1,
			EdgeQuantityMax:       20,
			EdgeQuantityPrecision: 2,
		},
		{
			Vocabulary:            []string{"Module_LFP", "Module_NMC", "BMS_Circuit", "Cooling_Plate"},
			BaseUnit:              "EA",
			CostScale:             3,
			FanOutMean:            3.0,
			EdgeQuantityMin:       1,
			EdgeQuantityMax:       20,
			EdgeQuantityPrecision: 2,
		},
		{
			Vocabulary:            []string{"Cell_Prismatic", "Cell_Cylindrical_4680", "Cell_Pouch", "Anode_Sheet"},
			BaseUnit:              "EA",
			CostScale:             2,
			FanOutMean:            2.5,
			EdgeQuantityMin:       0.5,
			EdgeQuantityMax:       5,
			EdgeQuantityPrecision: 3,
		},
		{
			Vocabulary:            []string{"Lithium_Hydroxide", "Cobalt_Sulfate", "Nickel_Class1", "Graphite_Synth", "Copper_Foil"},
			BaseUnit:              "KG",
			CostScale:             1,
			FanOutMean:            0,
			EdgeQuantityMin:       0,
			EdgeQuantityMax:       0,
			EdgeQuantityPrecision: 0,
		},
	}
}

const probabilitySumTolerance = 1e-9

// Validate checks every configuration invariant before any draw happens.
// Violations are fatal: generation must not start from a bad config.
func (c Config) Validate() error {
	if c.NumSuppliers < 0 {
		return fmt.Errorf("supplier count must not be negative, got %d", c.NumSuppliers)
	}
	if c.NumMaterials < 0 {
		return fmt.Errorf("material count must not be negative, got %d", c.NumMaterials)
	}
	if c.NumOrders < 0 {
		return fmt.Errorf("order count must not be negative, got %d", c.NumOrders)
	}
	if c.NumMaterials > 0 && c.NumSuppliers == 0 {
		return fmt.Errorf("supplier assignment requires at least one supplier for %d materials", c.NumMaterials)
	}
	if c.NumOrders > 0 && c.NumMaterials == 0 {
		return fmt.Errorf("order simulation requires at least one material for %d orders", c.NumOrders)
	}

	if c.Capacity.ZipfShape <= 1 {
		return fmt.Errorf("capacity zipf shape must be > 1, got %v", c.Capacity.ZipfShape)
	}
	if c.Capacity.Max < 1 {
		return fmt.Errorf("capacity max must be >= 1, got %d", c.Capacity.Max)
	}

	if len(c.CountryWeights) == 0 {
		return fmt.Errorf("country weight table must not be empty")
	}
	totalWeight := 0.0
	for _, cw := range c.CountryWeights {
		if cw.Code == "" {
			return fmt.Errorf("country weight entry is missing its code")
		}
		if cw.Weight < 0 || math.IsNaN(cw.Weight) {
			return fmt.Errorf("country %s has negative weight %v", cw.Code, cw.Weight)
		}
		totalWeight += cw.Weight
	}
	if totalWeight <= 0 {
		return fmt.Errorf("country weights must sum to a positive value")
	}

	if len(c.TierProbabilities) != domain.TierCount {
		return fmt.Errorf("tier probability vector must have %d entries, got %d", domain.TierCount, len(c.TierProbabilities))
	}
	tierSum := 0.0
	for tier, p := range c.TierProbabilities {
		if p < 0 || math.IsNaN(p) {
			return fmt.Errorf("tier %d probability %v is negative", tier, p)
		}
		tierSum += p
	}
	if math.Abs(tierSum-1) > probabilitySumTolerance {
		return fmt.Errorf("tier probabilities must sum to 1, got %v", tierSum)
	}

	for tier, profile := range c.Tiers {
		if len(profile.Vocabulary) == 0 {
			return fmt.Errorf("tier %d has an empty description vocabulary", tier)
		}
		if profile.BaseUnit == "" {
			return fmt.Errorf("tier %d has no base unit", tier)
		}
		if profile.CostScale <= 0 {
			return fmt.Errorf("tier %d cost scale must be positive, got %v", tier, profile.CostScale)
		}
		if tier < domain.TierRawMaterial {
			if profile.FanOutMean < 0 {
				return fmt.Errorf("tier %d fan-out mean must not be negative, got %v", tier, profile.FanOutMean)
			}
			if profile.EdgeQuantityMin <= 0 || profile.EdgeQuantityMax < profile.EdgeQuantityMin {
				return fmt.Errorf("tier %d edge quantity range [%v, %v] is invalid", tier, profile.EdgeQuantityMin, profile.EdgeQuantityMax)
			}
		}
	}

	if c.Cost.Sigma < 0 {
		return fmt.Errorf("cost sigma must not be negative, got %v", c.Cost.Sigma)
	}

	if c.Nexus.Fraction <= 0 || c.Nexus.Fraction > 1 {
		return fmt.Errorf("nexus fraction must be in (0, 1], got %v", c.Nexus.Fraction)
	}
	if c.Nexus.Bias < 0 || c.Nexus.Bias > 1 {
		return fmt.Errorf("nexus bias must be in [0, 1], got %v", c.Nexus.Bias)
	}

	if c.Sourcing.MinCandidates < 1 {
		return fmt.Errorf("sourcing must assign at least one candidate, got min %d", c.Sourcing.MinCandidates)
	}
	if c.Sourcing.MaxCandidates < c.Sourcing.MinCandidates {
		return fmt.Errorf("sourcing candidate range [%d, %d] is invalid", c.Sourcing.MinCandidates, c.Sourcing.MaxCandidates)
	}

	return c.Simulation.validate()
}

func (s SimulationConfig) validate() error {
	if s.WindowStart.IsZero() || s.WindowEnd.IsZero() {
		return fmt.Errorf("order window is not configured")
	}
	if s.WindowEnd.Before(s.WindowStart) {
		return fmt.Errorf("order window end %s precedes start %s", s.WindowEnd.Format(time.DateOnly), s.WindowStart.Format(time.DateOnly))
	}
	if s.Horizon.IsZero() {
		return fmt.Errorf("simulation horizon is not configured")
	}
	if s.LeadTimeMinDays < 0 || s.LeadTimeMaxDays < s.LeadTimeMinDays {
		return fmt.Errorf("lead time range [%d, %d] is invalid", s.LeadTimeMinDays, s.LeadTimeMaxDays)
	}
	if s.BulkProbability < 0 || s.BulkProbability > 1 {
		return fmt.Errorf("bulk probability must be in [0, 1], got %v", s.BulkProbability)
	}
	if s.BulkParetoShape <= 0 {
		return fmt.Errorf("bulk pareto shape must be positive, got %v", s.BulkParetoShape)
	}
	if s.BulkParetoScale <= 0 {
		return fmt.Errorf("bulk pareto scale must be positive, got %v", s.BulkParetoScale)
	}
	if s.UniformQuantityMax < 1 {
		return fmt.Errorf("uniform quantity max must be >= 1, got %d", s.UniformQuantityMax)
	}

	for _, p := range []float64{s.StatusFull, s.StatusPartial, s.StatusMissing} {
		if p < 0 || math.IsNaN(p) {
			return fmt.Errorf("fulfillment probabilities must not be negative, got %v", p)
		}
	}
	statusSum := s.StatusFull + s.StatusPartial + s.StatusMissing
	if math.Abs(statusSum-1) > probabilitySumTolerance {
		return fmt.Errorf("fulfillment probabilities must sum to 1, got %v", statusSum)
	}

	if s.FullReceiptOffsetMaxDays < s.FullReceiptOffsetMinDays {
		return fmt.Errorf("full receipt offset range [%d, %d] is invalid", s.FullReceiptOffsetMinDays, s.FullReceiptOffsetMaxDays)
	}
	if s.PartialReceiptOffsetMaxDays < s.PartialReceiptOffsetMinDays {
		return fmt.Errorf("partial receipt offset range [%d, %d] is invalid", s.PartialReceiptOffsetMinDays, s.PartialReceiptOffsetMaxDays)
	}
	if s.PartialFractionMin <= 0 || s.PartialFractionMax <= s.PartialFractionMin || s.PartialFractionMax >= 1 {
		return fmt.Errorf("partial fraction range (%v, %v) must sit strictly inside (0, 1)", s.PartialFractionMin, s.PartialFractionMax)
	}
	if s.PriceNoiseMin <= 0 || s.PriceNoiseMax < s.PriceNoiseMin {
		return fmt.Errorf("price noise range [%v, %v] is invalid", s.PriceNoiseMin, s.PriceNoiseMax)
	}
	if s.NumberBase < 0 {
		return fmt.Errorf("order number base must not be negative, got %d", s.NumberBase)
	}
	return nil
}

// withDefaults fills unset structural sections from DefaultConfig so a
// caller may specify only the fields it cares about. Counts and seed are
// always taken literally.
func (c Config) withDefaults() Config {
	def := DefaultConfig()
	if c.Capacity == (CapacityConfig{}) {
		c.Capacity = def.Capacity
	}
	if len(c.CountryWeights) == 0 {
		c.CountryWeights = def.CountryWeights
	}
	if len(c.TierProbabilities) == 0 {
		c.TierProbabilities = def.TierProbabilities
	}
	empty := true
	for _, profile := range c.Tiers {
		if len(profile.Vocabulary) > 0 || profile.BaseUnit != "" {
			empty = false
			break
		}
	}
	if empty {
		c.Tiers = def.Tiers
	}
	if c.Cost == (CostConfig{}) {
		c.Cost = def.Cost
	}
	if c.Nexus == (NexusConfig{}) {
		c.Nexus = def.Nexus
	}
	if c.Sourcing == (SourcingConfig{}) {
		c.Sourcing = def.Sourcing
	}
	if c.Simulation.WindowStart.IsZero() && c.Simulation.WindowEnd.IsZero() {
		c.Simulation = def.Simulation
	}
	return c
}
