package generator

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/clemensrosenow/chainsynth/internal/domain"
)

// generateMaterials produces the material set. Per material: a categorical
// tier draw, a uniform vocabulary draw, then a log-normal cost draw scaled
// by the tier profile (upstream tiers cost more per the generation model).
func (g *Generator) generateMaterials(ctx context.Context) ([]domain.Material, error) {
	materials := make([]domain.Material, g.cfg.NumMaterials)

	for i := range materials {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		tier := g.rs.WeightedIndex(g.cfg.TierProbabilities)
		profile := g.cfg.Tiers[tier]

		description := profile.Vocabulary[g.rs.Intn(len(profile.Vocabulary))]
		cost := g.rs.LogNormal(g.cfg.Cost.Mu, g.cfg.Cost.Sigma) * profile.CostScale

		materials[i] = domain.Material{
			ID:           fmt.Sprintf("MAT_T%d_%05d", tier, i+1),
			Description:  description,
			Tier:         tier,
			BaseUnit:     profile.BaseUnit,
			CostEstimate: decimal.NewFromFloat(cost).Round(2),
		}
	}

	return materials, nil
}

// materialsByTier partitions materials into per-tier pools, preserving
// generation order within each pool.
func materialsByTier(materials []domain.Material) [domain.TierCount][]domain.Material {
	var byTier [domain.TierCount][]domain.Material
	for _, m := range materials {
		byTier[m.Tier] = append(byTier[m.Tier], m)
	}
	return byTier
}
