package generator

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"testing"

	"github.com/clemensrosenow/chainsynth/internal/domain"
)

func TestNew_RejectsInvalidConfig(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"negative suppliers", func(c *Config) { c.NumSuppliers = -1 }},
		{"negative materials", func(c *Config) { c.NumMaterials = -5 }},
		{"negative orders", func(c *Config) { c.NumOrders = -1 }},
		{"materials without suppliers", func(c *Config) { c.NumSuppliers = 0 }},
		{"orders without materials", func(c *Config) { c.NumSuppliers, c.NumMaterials = 0, 0 }},
		{"zipf shape at one", func(c *Config) { c.Capacity.ZipfShape = 1 }},
		{"capacity max zero", func(c *Config) { c.Capacity.Max = 0 }},
		{"negative country weight", func(c *Config) { c.CountryWeights[0].Weight = -0.1 }},
		{"country weights sum to zero", func(c *Config) {
			for i := range c.CountryWeights {
				c.CountryWeights[i].Weight = 0
			}
		}},
		{"tier vector too short", func(c *Config) { c.TierProbabilities = []float64{0.5, 0.5} }},
		{"tier probabilities off unity", func(c *Config) { c.TierProbabilities = []float64{0.1, 0.1, 0.1, 0.1, 0.1} }},
		{"negative tier probability", func(c *Config) { c.TierProbabilities = []float64{-0.1, 0.3, 0.3, 0.3, 0.2} }},
		{"empty tier vocabulary", func(c *Config) { c.Tiers[2].Vocabulary = nil }},
		{"zero cost scale", func(c *Config) { c.Tiers[1].CostScale = 0 }},
		{"inverted edge quantity range", func(c *Config) { c.Tiers[0].EdgeQuantityMin, c.Tiers[0].EdgeQuantityMax = 10, 2 }},
		{"nexus fraction above one", func(c *Config) { c.Nexus.Fraction = 1.5 }},
		{"nexus bias above one", func(c *Config) { c.Nexus.Bias = 1.2 }},
		{"sourcing min below one", func(c *Config) { c.Sourcing.MinCandidates = 0 }},
		{"sourcing max below min", func(c *Config) { c.Sourcing.MaxCandidates = 0 }},
		{"window end before start", func(c *Config) {
			c.Simulation.WindowEnd = c.Simulation.WindowStart.AddDate(0, 0, -1)
		}},
		{"inverted lead time range", func(c *Config) { c.Simulation.LeadTimeMinDays, c.Simulation.LeadTimeMaxDays = 90, 14 }},
		{"bulk probability above one", func(c *Config) { c.Simulation.BulkProbability = 1.01 }},
		{"zero pareto shape", func(c *Config) { c.Simulation.BulkParetoShape = 0 }},
		{"status probabilities off unity", func(c *Config) { c.Simulation.StatusFull = 0.5 }},
		{"partial fraction at one", func(c *Config) { c.Simulation.PartialFractionMax = 1 }},
		{"zero price noise floor", func(c *Config) { c.Simulation.PriceNoiseMin = 0 }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.mutate(&cfg)
			if _, err := New(cfg, nil); err == nil {
				t.Fatal("expected config validation error, got nil")
			}
		})
	}
}

func TestNew_FillsDefaults(t *testing.T) {
	g, err := New(Config{Seed: 7, NumSuppliers: 5, NumMaterials: 5}, nil)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	cfg := g.Config()
	def := DefaultConfig()
	if cfg.Seed != 7 || cfg.NumSuppliers != 5 || cfg.NumMaterials != 5 || cfg.NumOrders != 0 {
		t.Fatalf("counts and seed must be taken literally, got %+v", cfg)
	}
	if cfg.Capacity != def.Capacity {
		t.Errorf("capacity section not defaulted: %+v", cfg.Capacity)
	}
	if !reflect.DeepEqual(cfg.CountryWeights, def.CountryWeights) {
		t.Errorf("country weights not defaulted: %+v", cfg.CountryWeights)
	}
	if !reflect.DeepEqual(cfg.TierProbabilities, def.TierProbabilities) {
		t.Errorf("tier probabilities not defaulted: %+v", cfg.TierProbabilities)
	}
	if cfg.Simulation.NumberBase != def.Simulation.NumberBase {
		t.Errorf("simulation section not defaulted: %+v", cfg.Simulation)
	}
}

func TestGenerator_EndToEnd(t *testing.T) {
	cfg := testConfig(10, 20, 50)
	cfg.TierProbabilities = []float64{0.1, 0.1, 0.2, 0.3, 0.3}

	g := newTestGenerator(t, cfg)
	ds, err := g.Generate(context.Background())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if len(ds.Suppliers) != 10 || len(ds.Materials) != 20 || len(ds.PurchaseOrders) != 50 {
		t.Fatalf("dataset sized %d/%d/%d, want 10/20/50", len(ds.Suppliers), len(ds.Materials), len(ds.PurchaseOrders))
	}

	supplierIDs := map[string]bool{}
	for _, s := range ds.Suppliers {
		if supplierIDs[s.ID] {
			t.Fatalf("duplicate supplier ID %s", s.ID)
		}
		supplierIDs[s.ID] = true
		if s.CapacityScore < 1 || s.CapacityScore > cfg.Capacity.Max {
			t.Fatalf("supplier %s capacity %d out of range", s.ID, s.CapacityScore)
		}
	}

	tierOf := map[string]int{}
	poolSize := [domain.TierCount]int{}
	for _, m := range ds.Materials {
		if _, dup := tierOf[m.ID]; dup {
			t.Fatalf("duplicate material ID %s", m.ID)
		}
		tierOf[m.ID] = m.Tier
		if m.Tier < domain.TierFinishedGood || m.Tier > domain.TierRawMaterial {
			t.Fatalf("material %s has tier %d", m.ID, m.Tier)
		}
		poolSize[m.Tier]++
	}

	edgeKeys := map[string]bool{}
	childCount := map[string]int{}
	for _, e := range ds.BOMEdges {
		parentTier, ok := tierOf[e.ParentMaterialID]
		if !ok {
			t.Fatalf("edge parent %q is not a generated material", e.ParentMaterialID)
		}
		childTier, ok := tierOf[e.ChildMaterialID]
		if !ok {
			t.Fatalf("edge child %q is not a generated material", e.ChildMaterialID)
		}
		if childTier != parentTier+1 {
			t.Fatalf("edge %s -> %s spans tiers %d -> %d", e.ParentMaterialID, e.ChildMaterialID, parentTier, childTier)
		}
		if !e.Quantity.IsPositive() {
			t.Fatalf("edge %s -> %s has quantity %s", e.ParentMaterialID, e.ChildMaterialID, e.Quantity)
		}
		key := e.ParentMaterialID + "|" + e.ChildMaterialID
		if edgeKeys[key] {
			t.Fatalf("duplicate edge %s", key)
		}
		edgeKeys[key] = true
		childCount[e.ParentMaterialID]++
	}
	for _, m := range ds.Materials {
		if m.Tier == domain.TierRawMaterial {
			if childCount[m.ID] != 0 {
				t.Fatalf("raw material %s has children", m.ID)
			}
			continue
		}
		if poolSize[m.Tier+1] > 0 && childCount[m.ID] == 0 {
			t.Fatalf("material %s at tier %d has no children despite a populated tier %d", m.ID, m.Tier, m.Tier+1)
		}
	}

	if len(ds.ASL) != len(ds.Materials) {
		t.Fatalf("ASL covers %d materials, want %d", len(ds.ASL), len(ds.Materials))
	}
	for _, m := range ds.Materials {
		candidates := ds.ASL.Candidates(m.ID)
		if len(candidates) < 1 || len(candidates) > 3 {
			t.Fatalf("material %s has %d approved suppliers", m.ID, len(candidates))
		}
		for _, id := range candidates {
			if !supplierIDs[id] {
				t.Fatalf("material %s approves unknown supplier %q", m.ID, id)
			}
		}
	}

	for i, po := range ds.PurchaseOrders {
		if want := fmt.Sprintf("PO-%d", cfg.Simulation.NumberBase+i); po.ID != want {
			t.Fatalf("order %d has ID %q, want %q", i, po.ID, want)
		}
		if _, ok := tierOf[po.MaterialID]; !ok {
			t.Fatalf("order %s references unknown material %q", po.ID, po.MaterialID)
		}
		if !ds.ASL.Contains(po.MaterialID, po.SupplierID) {
			t.Fatalf("order %s placed with unapproved supplier %s", po.ID, po.SupplierID)
		}
	}
}

func TestGenerator_Deterministic(t *testing.T) {
	cfg := testConfig(50, 120, 400)

	first, err := newTestGenerator(t, cfg).Generate(context.Background())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	second, err := newTestGenerator(t, cfg).Generate(context.Background())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if !reflect.DeepEqual(first, second) {
		t.Fatal("two runs with the same config produced different datasets")
	}
}

func TestGenerator_SeedChangesDataset(t *testing.T) {
	cfg := testConfig(50, 120, 400)
	first, err := newTestGenerator(t, cfg).Generate(context.Background())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	cfg.Seed = 43
	second, err := newTestGenerator(t, cfg).Generate(context.Background())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if reflect.DeepEqual(first, second) {
		t.Fatal("changing the seed left the dataset unchanged")
	}
}

func TestGenerator_Cancellation(t *testing.T) {
	g := newTestGenerator(t, testConfig(100, 100, 100))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := g.Generate(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestGenerator_EmptyDataset(t *testing.T) {
	g := newTestGenerator(t, testConfig(0, 0, 0))

	ds, err := g.Generate(context.Background())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(ds.Suppliers) != 0 || len(ds.Materials) != 0 || len(ds.BOMEdges) != 0 || len(ds.PurchaseOrders) != 0 {
		t.Fatalf("expected an empty dataset, got %d/%d/%d/%d", len(ds.Suppliers), len(ds.Materials), len(ds.BOMEdges), len(ds.PurchaseOrders))
	}
}
