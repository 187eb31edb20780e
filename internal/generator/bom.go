package generator

import (
	"context"
	"math"

	"github.com/shopspring/decimal"

	"github.com/clemensrosenow/chainsynth/internal/domain"
)

// buildBOM constructs parent-to-child edges between adjacent tiers only.
// Transitions walk top-down; an empty parent or child pool skips the
// transition rather than failing the run. Fan-out per parent is Poisson
// with the parent tier's mean, floored at one child so every non-leaf
// material stays connected downward.
//
// Child selection differs by depth: the transitions out of tiers 0, 1 and
// 2 pick distinct children uniformly (clamped to the pool size); the
// deepest transition into tier 4 uses the nexus policy below.
func (g *Generator) buildBOM(ctx context.Context, materials []domain.Material) ([]domain.BOMEdge, error) {
	byTier := materialsByTier(materials)

	var edges []domain.BOMEdge
	for tier := domain.TierFinishedGood; tier < domain.TierRawMaterial; tier++ {
		parents := byTier[tier]
		children := byTier[tier+1]
		if len(parents) == 0 || len(children) == 0 {
			continue
		}

		profile := g.cfg.Tiers[tier]
		nexusSize := 0
		if tier == domain.TierRawMaterial-1 {
			nexusSize = g.nexusPoolSize(len(children))
		}

		for _, parent := range parents {
			if err := ctx.Err(); err != nil {
				return nil, err
			}

			fanOut := g.rs.Poisson(profile.FanOutMean)
			if fanOut < 1 {
				fanOut = 1
			}

			var childIdx []int
			if nexusSize > 0 {
				childIdx = g.sampleNexus(len(children), nexusSize, fanOut)
			} else {
				childIdx = g.sampleDistinct(len(children), fanOut)
			}

			for _, ci := range childIdx {
				quantity := g.rs.Uniform(profile.EdgeQuantityMin, profile.EdgeQuantityMax)
				edges = append(edges, domain.BOMEdge{
					ParentMaterialID: parent.ID,
					ChildMaterialID:  children[ci].ID,
					Quantity:         decimal.NewFromFloat(quantity).Round(profile.EdgeQuantityPrecision),
				})
			}
		}
	}

	return edges, nil
}

// sampleDistinct draws k distinct indices from [0, poolSize) uniformly via
// partial Fisher-Yates, clamping k to the pool size. Consumes exactly k
// draws after clamping.
func (g *Generator) sampleDistinct(poolSize, k int) []int {
	if k > poolSize {
		k = poolSize
	}
	idx := make([]int, poolSize)
	for i := range idx {
		idx[i] = i
	}
	for i := 0; i < k; i++ {
		j := i + g.rs.Intn(poolSize-i)
		idx[i], idx[j] = idx[j], idx[i]
	}
	return idx[:k]
}

// nexusPoolSize returns the size of the biased subset at the deepest
// transition. Tier assignment is itself random, so taking a prefix of the
// pool in generation order yields a uniform subset without extra draws.
func (g *Generator) nexusPoolSize(poolSize int) int {
	size := int(math.Ceil(g.cfg.Nexus.Fraction * float64(poolSize)))
	if size < 1 {
		size = 1
	}
	if size > poolSize {
		size = poolSize
	}
	return size
}

// sampleNexus draws k child indices with replacement: each draw lands
// uniformly inside the nexus subset with probability bias, else uniformly
// across the whole pool. Duplicates collapse, so a parent may end up with
// fewer than k children but never zero. Two draws per child: the bias coin,
// then the index.
func (g *Generator) sampleNexus(poolSize, nexusSize, k int) []int {
	seen := make(map[int]bool, k)
	out := make([]int, 0, k)
	for i := 0; i < k; i++ {
		var ci int
		if g.rs.Float64() < g.cfg.Nexus.Bias {
			ci = g.rs.Intn(nexusSize)
		} else {
			ci = g.rs.Intn(poolSize)
		}
		if !seen[ci] {
			seen[ci] = true
			out = append(out, ci)
		}
	}
	return out
}
