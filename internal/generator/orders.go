package generator

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/clemensrosenow/chainsynth/internal/domain"
)

// simulateOrders produces exactly the configured number of order lines.
// Per-iteration draw order is fixed: material, supplier, order date, lead
// time, bulk coin, quantity, then the fulfillment branch draws, then the
// price multiplier. Each iteration emits one record; no retries.
func (g *Generator) simulateOrders(ctx context.Context, materials []domain.Material, asl domain.ApprovedSupplierList) ([]domain.PurchaseOrder, error) {
	orders := make([]domain.PurchaseOrder, g.cfg.NumOrders)
	if g.cfg.NumOrders == 0 {
		return orders, nil
	}

	sim := g.cfg.Simulation
	statusWeights := []float64{sim.StatusFull, sim.StatusPartial, sim.StatusMissing}

	for i := range orders {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		material := materials[g.rs.Intn(len(materials))]
		candidates := asl.Candidates(material.ID)
		if len(candidates) == 0 {
			return nil, fmt.Errorf("material %s has no approved suppliers", material.ID)
		}
		supplierID := candidates[g.rs.Intn(len(candidates))]

		orderDate := g.rs.DateBetween(sim.WindowStart, sim.WindowEnd)
		lead := g.rs.IntBetween(sim.LeadTimeMinDays, sim.LeadTimeMaxDays)
		dueDate := orderDate.AddDate(0, 0, lead)

		quantity := g.drawQuantity(sim)
		status, received, receiptDate := g.resolveFulfillment(sim, dueDate, quantity, statusWeights)

		noise := decimal.NewFromFloat(g.rs.Uniform(sim.PriceNoiseMin, sim.PriceNoiseMax))
		unitPrice := material.CostEstimate.Mul(noise).Round(2)

		orders[i] = domain.PurchaseOrder{
			ID:               fmt.Sprintf("PO-%d", sim.NumberBase+i),
			SupplierID:       supplierID,
			MaterialID:       material.ID,
			OrderDate:        orderDate,
			DueDate:          dueDate,
			ReceiptDate:      receiptDate,
			QuantityOrdered:  quantity,
			QuantityReceived: received,
			UnitPrice:        unitPrice,
			Status:           status,
		}
	}

	return orders, nil
}

// drawQuantity reproduces the order-volume concentration: a small share of
// bulk orders draw a heavy-tailed Pareto quantity; the rest draw a bounded
// uniform integer. Always >= 1.
func (g *Generator) drawQuantity(sim SimulationConfig) int {
	if g.rs.Float64() < sim.BulkProbability {
		return int(g.rs.Pareto(sim.BulkParetoShape)*sim.BulkParetoScale) + 1
	}
	return g.rs.IntBetween(1, sim.UniformQuantityMax)
}

// resolveFulfillment applies the two-state machine. A due date strictly
// after the horizon leaves the order open; otherwise the resolved
// sub-outcome is drawn categorically. A partial draw against a single-unit
// order has no valid received quantity (0 < received < 1), so it clamps to
// a full receipt.
func (g *Generator) resolveFulfillment(sim SimulationConfig, dueDate time.Time, quantity int, statusWeights []float64) (domain.FulfillmentStatus, int, *time.Time) {
	if dueDate.After(sim.Horizon) {
		return domain.StatusOpen, 0, nil
	}

	switch g.rs.WeightedIndex(statusWeights) {
	case 0:
		receipt := dueDate.AddDate(0, 0, g.rs.IntBetween(sim.FullReceiptOffsetMinDays, sim.FullReceiptOffsetMaxDays))
		return domain.StatusFull, quantity, &receipt

	case 1:
		if quantity < 2 {
			receipt := dueDate.AddDate(0, 0, g.rs.IntBetween(sim.FullReceiptOffsetMinDays, sim.FullReceiptOffsetMaxDays))
			return domain.StatusFull, quantity, &receipt
		}
		fraction := g.rs.Uniform(sim.PartialFractionMin, sim.PartialFractionMax)
		received := int(float64(quantity) * fraction)
		if received < 1 {
			received = 1
		}
		if received >= quantity {
			received = quantity - 1
		}
		receipt := dueDate.AddDate(0, 0, g.rs.IntBetween(sim.PartialReceiptOffsetMinDays, sim.PartialReceiptOffsetMaxDays))
		return domain.StatusPartial, received, &receipt

	default:
		return domain.StatusMissing, 0, nil
	}
}
