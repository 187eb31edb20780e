package generator

import (
	"context"
	"fmt"

	"github.com/clemensrosenow/chainsynth/internal/domain"
)

// generateSuppliers produces the supplier set. The raw power-law draws are
// batched first because capacity normalizes against the largest observed
// draw; country and name draws then interleave per supplier.
func (g *Generator) generateSuppliers(ctx context.Context) ([]domain.Supplier, error) {
	n := g.cfg.NumSuppliers
	suppliers := make([]domain.Supplier, n)
	if n == 0 {
		return suppliers, nil
	}

	raws := make([]uint64, n)
	var maxRaw uint64
	for i := range raws {
		raws[i] = g.rs.Zipf(g.cfg.Capacity.ZipfShape)
		if raws[i] > maxRaw {
			maxRaw = raws[i]
		}
	}

	codes := make([]string, len(g.cfg.CountryWeights))
	weights := make([]float64, len(g.cfg.CountryWeights))
	for i, cw := range g.cfg.CountryWeights {
		codes[i] = cw.Code
		weights[i] = cw.Weight
	}

	for i := 0; i < n; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		capacity := int(float64(raws[i]) / float64(maxRaw) * float64(g.cfg.Capacity.Max))
		if capacity < 1 {
			capacity = 1
		}

		country := codes[g.rs.WeightedIndex(weights)]
		suppliers[i] = domain.Supplier{
			ID:            fmt.Sprintf("SUP_%s_%05d", country, i+1),
			Name:          g.namer.CompanyName(g.rs),
			Country:       country,
			CapacityScore: capacity,
		}
	}

	return suppliers, nil
}
