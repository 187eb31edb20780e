package generator

import (
	"context"

	"github.com/clemensrosenow/chainsynth/internal/domain"
)

// assignSources builds the approved-supplier list: per material, a uniform
// candidate-count draw in the configured range, then that many
// capacity-weighted supplier draws with replacement. Hub suppliers land on
// many lists; duplicates within one list are tolerated. Every material
// receives at least one candidate, since config validation guarantees a
// non-empty supplier set whenever materials exist.
func (g *Generator) assignSources(ctx context.Context, materials []domain.Material, suppliers []domain.Supplier) (domain.ApprovedSupplierList, error) {
	asl := make(domain.ApprovedSupplierList, len(materials))
	if len(materials) == 0 {
		return asl, nil
	}

	weights := make([]float64, len(suppliers))
	for i, s := range suppliers {
		weights[i] = float64(s.CapacityScore)
	}

	for _, material := range materials {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		count := g.rs.IntBetween(g.cfg.Sourcing.MinCandidates, g.cfg.Sourcing.MaxCandidates)
		candidates := make([]string, count)
		for i := range candidates {
			candidates[i] = suppliers[g.rs.WeightedIndex(weights)].ID
		}
		asl[material.ID] = candidates
	}

	return asl, nil
}
