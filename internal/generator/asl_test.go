package generator

import (
	"context"
	"fmt"
	"testing"

	"github.com/clemensrosenow/chainsynth/internal/domain"
)

func TestGenerator_ASLCoverage(t *testing.T) {
	cfg := testConfig(200, 800, 0)
	g := newTestGenerator(t, cfg)

	suppliers, err := g.generateSuppliers(context.Background())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	materials, err := g.generateMaterials(context.Background())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	asl, err := g.assignSources(context.Background(), materials, suppliers)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(asl) != len(materials) {
		t.Fatalf("expected %d ASL entries, got %d", len(materials), len(asl))
	}

	supplierIDs := map[string]bool{}
	for _, s := range suppliers {
		supplierIDs[s.ID] = true
	}

	for _, m := range materials {
		candidates := asl.Candidates(m.ID)
		if len(candidates) < cfg.Sourcing.MinCandidates || len(candidates) > cfg.Sourcing.MaxCandidates {
			t.Fatalf("material %s has %d candidates, want between %d and %d", m.ID, len(candidates), cfg.Sourcing.MinCandidates, cfg.Sourcing.MaxCandidates)
		}
		for _, id := range candidates {
			if !supplierIDs[id] {
				t.Fatalf("material %s lists unknown supplier %q", m.ID, id)
			}
		}
	}
}

func TestGenerator_ASLPrefersHighCapacity(t *testing.T) {
	g := newTestGenerator(t, testConfig(10, 0, 0))

	suppliers := []domain.Supplier{
		{ID: "SUP_CN_00001", CapacityScore: 50},
		{ID: "SUP_DE_00002", CapacityScore: 1},
		{ID: "SUP_US_00003", CapacityScore: 1},
	}
	materials := make([]domain.Material, 600)
	for i := range materials {
		materials[i] = domain.Material{ID: fmt.Sprintf("MAT_T4_%05d", i+1), Tier: 4}
	}

	asl, err := g.assignSources(context.Background(), materials, suppliers)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	hubPicks, totalPicks := 0, 0
	for _, candidates := range asl {
		for _, id := range candidates {
			totalPicks++
			if id == "SUP_CN_00001" {
				hubPicks++
			}
		}
	}

	// The hub holds 50 of 52 capacity points, so it should dominate the
	// candidate draws.
	share := float64(hubPicks) / float64(totalPicks)
	if share < 0.85 {
		t.Errorf("hub supplier drew %.3f of candidate slots, expected capacity weighting near 0.96", share)
	}
}

func TestGenerator_ASLEmptyMaterials(t *testing.T) {
	g := newTestGenerator(t, testConfig(10, 0, 0))

	asl, err := g.assignSources(context.Background(), nil, nil)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(asl) != 0 {
		t.Fatalf("expected empty ASL, got %d entries", len(asl))
	}
}
