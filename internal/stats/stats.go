// Package stats derives descriptive statistics from a generated dataset.
// The numbers it reports are the same ones the generation parameters are
// tuned against, so a run's completion report doubles as a sanity check.
package stats

import (
	"sort"

	"github.com/clemensrosenow/chainsynth/internal/domain"
	"github.com/clemensrosenow/chainsynth/internal/generator"
)

// bulkQuantityThreshold is the upper bound of the standard order-quantity
// draw. Quantities above it can only come from the heavy-tailed bulk path.
const bulkQuantityThreshold = 100

// Summary aggregates the shape of one dataset.
type Summary struct {
	Suppliers      int
	Materials      int
	BOMEdges       int
	PurchaseOrders int

	// MaterialsByTier counts materials per tier, finished goods first.
	MaterialsByTier [domain.TierCount]int

	// TierViolations counts edges that do not connect a known parent to a
	// known child exactly one tier below it. Always zero for generated data.
	TierViolations int

	// TopDecileDemandShare is the fraction of edges into tier-4 materials
	// that land on the top decile of tier-4 materials by parent count.
	// Uniform child selection would put it near 0.1; the nexus bias pushes
	// it well above. Zero when fewer than ten tier-4 materials exist.
	TopDecileDemandShare float64

	// ASLSizes is a histogram of distinct approved-supplier counts per
	// material. ASLSizes[1] is the number of single-sourced materials.
	ASLSizes map[int]int

	StatusCounts map[domain.FulfillmentStatus]int

	// BulkOrderShare is the fraction of orders larger than 100 units.
	BulkOrderShare float64

	TotalQuantityOrdered int64
}

// Summarize computes a Summary over the dataset in one pass per collection.
func Summarize(ds generator.Dataset) Summary {
	s := Summary{
		Suppliers:      len(ds.Suppliers),
		Materials:      len(ds.Materials),
		BOMEdges:       len(ds.BOMEdges),
		PurchaseOrders: len(ds.PurchaseOrders),
		ASLSizes:       make(map[int]int),
		StatusCounts:   make(map[domain.FulfillmentStatus]int),
	}

	tierOf := make(map[string]int, len(ds.Materials))
	var tier4 []string
	for _, m := range ds.Materials {
		tierOf[m.ID] = m.Tier
		if m.Tier >= 0 && m.Tier < domain.TierCount {
			s.MaterialsByTier[m.Tier]++
		}
		if m.Tier == domain.TierRawMaterial {
			tier4 = append(tier4, m.ID)
		}
	}

	inDegree := make(map[string]int)
	edgesIntoTier4 := 0
	for _, e := range ds.BOMEdges {
		parentTier, parentKnown := tierOf[e.ParentMaterialID]
		childTier, childKnown := tierOf[e.ChildMaterialID]
		if !parentKnown || !childKnown || childTier != parentTier+1 {
			s.TierViolations++
		}
		if childKnown && childTier == domain.TierRawMaterial {
			inDegree[e.ChildMaterialID]++
			edgesIntoTier4++
		}
	}
	s.TopDecileDemandShare = topDecileShare(tier4, inDegree, edgesIntoTier4)

	for _, candidates := range ds.ASL {
		distinct := make(map[string]struct{}, len(candidates))
		for _, id := range candidates {
			distinct[id] = struct{}{}
		}
		s.ASLSizes[len(distinct)]++
	}

	bulk := 0
	for _, po := range ds.PurchaseOrders {
		s.StatusCounts[po.Status]++
		s.TotalQuantityOrdered += int64(po.QuantityOrdered)
		if po.QuantityOrdered > bulkQuantityThreshold {
			bulk++
		}
	}
	if len(ds.PurchaseOrders) > 0 {
		s.BulkOrderShare = float64(bulk) / float64(len(ds.PurchaseOrders))
	}

	return s
}

func topDecileShare(tier4 []string, inDegree map[string]int, totalEdges int) float64 {
	decile := len(tier4) / 10
	if decile == 0 || totalEdges == 0 {
		return 0
	}
	degrees := make([]int, 0, len(tier4))
	for _, id := range tier4 {
		degrees = append(degrees, inDegree[id])
	}
	sort.Sort(sort.Reverse(sort.IntSlice(degrees)))

	top := 0
	for _, d := range degrees[:decile] {
		top += d
	}
	return float64(top) / float64(totalEdges)
}
