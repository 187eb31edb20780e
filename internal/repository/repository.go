// Package repository persists the generated supply chain into the graph
// database and answers the verification queries the loader runs afterwards.
package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/clemensrosenow/chainsynth/internal/domain"
	"github.com/clemensrosenow/chainsynth/internal/graph"
)

const defaultQueryLimit = 25

// Repository encapsulates graph persistence operations.
type Repository struct {
	client graph.Client
}

// New instantiates a Repository backed by the supplied graph client.
func New(client graph.Client) *Repository {
	return &Repository{client: client}
}

// UpsertSupplier ensures a supplier node exists with current properties.
func (r *Repository) UpsertSupplier(ctx context.Context, supplier domain.Supplier) error {
	if supplier.ID == "" {
		return errors.New("supplier id is required")
	}

	params := map[string]any{
		"supplierId": supplier.ID,
		"props":      supplierProperties(supplier),
	}
	if _, err := r.client.ExecuteWrite(ctx, upsertSupplierCypher, params); err != nil {
		return fmt.Errorf("upsert supplier %s: %w", supplier.ID, err)
	}
	return nil
}

// UpsertMaterial ensures a material node exists with current properties.
func (r *Repository) UpsertMaterial(ctx context.Context, material domain.Material) error {
	if material.ID == "" {
		return errors.New("material id is required")
	}

	params := map[string]any{
		"materialId": material.ID,
		"props":      materialProperties(material),
	}
	if _, err := r.client.ExecuteWrite(ctx, upsertMaterialCypher, params); err != nil {
		return fmt.Errorf("upsert material %s: %w", material.ID, err)
	}
	return nil
}

// UpsertBOMEdge records that the parent material consumes the child. Both
// material nodes must already exist; the statement matches rather than
// creates them so a mistyped reference cannot invent a node.
func (r *Repository) UpsertBOMEdge(ctx context.Context, edge domain.BOMEdge) error {
	if edge.ParentMaterialID == "" || edge.ChildMaterialID == "" {
		return errors.New("both parent and child material IDs are required")
	}

	params := map[string]any{
		"parentId": edge.ParentMaterialID,
		"childId":  edge.ChildMaterialID,
		"quantity": edge.Quantity.String(),
	}
	if _, err := r.client.ExecuteWrite(ctx, upsertBOMEdgeCypher, params); err != nil {
		return fmt.Errorf("upsert bom edge %s -> %s: %w", edge.ParentMaterialID, edge.ChildMaterialID, err)
	}
	return nil
}

// UpsertApprovedSuppliers links every listed supplier to the material with
// a CAN_SUPPLY edge. Duplicate candidates collapse into one edge.
func (r *Repository) UpsertApprovedSuppliers(ctx context.Context, materialID string, supplierIDs []string) error {
	if materialID == "" {
		return errors.New("material id is required")
	}
	if len(supplierIDs) == 0 {
		return nil
	}

	params := map[string]any{
		"materialId":  materialID,
		"supplierIds": supplierIDs,
	}
	if _, err := r.client.ExecuteWrite(ctx, upsertApprovedSuppliersCypher, params); err != nil {
		return fmt.Errorf("upsert approved suppliers for %s: %w", materialID, err)
	}
	return nil
}

// UpsertPurchaseOrder stores an order node, its PLACED_WITH and ORDERS
// edges, and rolls the order into the supplier-material SUPPLIES edge.
func (r *Repository) UpsertPurchaseOrder(ctx context.Context, po domain.PurchaseOrder) error {
	if po.ID == "" {
		return errors.New("purchase order id is required")
	}
	if po.SupplierID == "" || po.MaterialID == "" {
		return errors.New("both supplier and material IDs are required")
	}

	params := map[string]any{
		"poId":       po.ID,
		"supplierId": po.SupplierID,
		"materialId": po.MaterialID,
		"orderDate":  formatDate(po.OrderDate),
		"props":      orderProperties(po),
	}
	if _, err := r.client.ExecuteWrite(ctx, upsertPurchaseOrderCypher, params); err != nil {
		return fmt.Errorf("upsert purchase order %s: %w", po.ID, err)
	}
	return nil
}

// CountLoaded reports node and relationship totals for post-load
// verification.
func (r *Repository) CountLoaded(ctx context.Context) (domain.LoadCounts, error) {
	counts := domain.LoadCounts{}
	targets := []struct {
		cypher string
		dest   *int64
	}{
		{countSuppliersCypher, &counts.Suppliers},
		{countMaterialsCypher, &counts.Materials},
		{countPurchaseOrdersCypher, &counts.PurchaseOrders},
		{countConsumesCypher, &counts.ConsumesEdges},
		{countCanSupplyCypher, &counts.CanSupplyEdges},
	}

	for _, target := range targets {
		res, err := r.client.ExecuteRead(ctx, target.cypher, nil)
		if err != nil {
			return domain.LoadCounts{}, fmt.Errorf("count query: %w", err)
		}
		record, ok := res.Single()
		if !ok {
			return domain.LoadCounts{}, errors.New("count query returned no rows")
		}
		*target.dest = toInt64(record["total"])
	}
	return counts, nil
}

// SingleSourcedMaterials returns materials with exactly one approved
// supplier, ordered by material ID.
func (r *Repository) SingleSourcedMaterials(ctx context.Context, limit int) ([]domain.SingleSourcedMaterial, error) {
	if limit <= 0 {
		limit = defaultQueryLimit
	}

	res, err := r.client.ExecuteRead(ctx, singleSourcedCypher, map[string]any{"limit": limit})
	if err != nil {
		return nil, fmt.Errorf("single-sourced materials query: %w", err)
	}

	items := make([]domain.SingleSourcedMaterial, 0, len(res.Records))
	for _, record := range res.Records {
		items = append(items, domain.SingleSourcedMaterial{
			MaterialID:  toString(record["materialId"]),
			Description: toString(record["description"]),
			Tier:        int(toInt64(record["tier"])),
			SupplierID:  toString(record["supplierId"]),
		})
	}
	return items, nil
}

// MostConsumedMaterials ranks materials by the number of distinct parents
// consuming them. A negative tier matches all tiers.
func (r *Repository) MostConsumedMaterials(ctx context.Context, tier, limit int) ([]domain.MaterialDemand, error) {
	if limit <= 0 {
		limit = defaultQueryLimit
	}

	params := map[string]any{
		"tier":  tier,
		"limit": limit,
	}
	res, err := r.client.ExecuteRead(ctx, mostConsumedCypher, params)
	if err != nil {
		return nil, fmt.Errorf("most-consumed materials query: %w", err)
	}

	items := make([]domain.MaterialDemand, 0, len(res.Records))
	for _, record := range res.Records {
		items = append(items, domain.MaterialDemand{
			MaterialID:  toString(record["materialId"]),
			Description: toString(record["description"]),
			Tier:        int(toInt64(record["tier"])),
			ParentCount: toInt64(record["parentCount"]),
		})
	}
	return items, nil
}

func supplierProperties(s domain.Supplier) map[string]any {
	return map[string]any{
		"name":          s.Name,
		"country":       s.Country,
		"capacityScore": s.CapacityScore,
	}
}

func materialProperties(m domain.Material) map[string]any {
	return map[string]any{
		"description":  m.Description,
		"tier":         m.Tier,
		"baseUnit":     m.BaseUnit,
		"costEstimate": m.CostEstimate.String(),
	}
}

func orderProperties(po domain.PurchaseOrder) map[string]any {
	return map[string]any{
		"orderDate":        formatDate(po.OrderDate),
		"dueDate":          formatDate(po.DueDate),
		"receiptDate":      formatDatePtr(po.ReceiptDate),
		"quantityOrdered":  po.QuantityOrdered,
		"quantityReceived": po.QuantityReceived,
		"unitPrice":        po.UnitPrice.StringFixed(2),
		"status":           string(po.Status),
	}
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.DateOnly)
}

func formatDatePtr(t *time.Time) string {
	if t == nil {
		return ""
	}
	return formatDate(*t)
}

func toString(val any) string {
	switch v := val.(type) {
	case string:
		return v
	case fmt.Stringer:
		return v.String()
	case []byte:
		return string(v)
	default:
		return ""
	}
}

func toInt64(val any) int64 {
	switch v := val.(type) {
	case int64:
		return v
	case int:
		return int64(v)
	case float64:
		return int64(v)
	default:
		return 0
	}
}

const upsertSupplierCypher = `
MERGE (s:Supplier {supplierId: $supplierId})
SET s += $props
RETURN s.supplierId AS supplierId
`

const upsertMaterialCypher = `
MERGE (m:Material {materialId: $materialId})
SET m += $props
RETURN m.materialId AS materialId
`

const upsertBOMEdgeCypher = `
MATCH (parent:Material {materialId: $parentId})
MATCH (child:Material {materialId: $childId})
MERGE (parent)-[c:CONSUMES]->(child)
SET c.quantity = $quantity
RETURN parent.materialId AS parentId
`

const upsertApprovedSuppliersCypher = `
MATCH (m:Material {materialId: $materialId})
UNWIND $supplierIds AS candidateId
MATCH (s:Supplier {supplierId: candidateId})
MERGE (s)-[:CAN_SUPPLY]->(m)
RETURN count(*) AS linked
`

const upsertPurchaseOrderCypher = `
MATCH (s:Supplier {supplierId: $supplierId})
MATCH (m:Material {materialId: $materialId})
MERGE (po:PurchaseOrder {poId: $poId})
SET po += $props
MERGE (po)-[:PLACED_WITH]->(s)
MERGE (po)-[:ORDERS]->(m)
MERGE (s)-[sup:SUPPLIES]->(m)
ON CREATE SET sup.orderCount = 0
SET sup.orderCount = sup.orderCount + 1
SET sup.lastOrderDate = CASE
	WHEN sup.lastOrderDate IS NULL OR sup.lastOrderDate < $orderDate THEN $orderDate
	ELSE sup.lastOrderDate
END
RETURN po.poId AS poId
`

const countSuppliersCypher = `
MATCH (s:Supplier)
RETURN count(s) AS total
`

const countMaterialsCypher = `
MATCH (m:Material)
RETURN count(m) AS total
`

const countPurchaseOrdersCypher = `
MATCH (po:PurchaseOrder)
RETURN count(po) AS total
`

const countConsumesCypher = `
MATCH (:Material)-[c:CONSUMES]->(:Material)
RETURN count(c) AS total
`

const countCanSupplyCypher = `
MATCH (:Supplier)-[cs:CAN_SUPPLY]->(:Material)
RETURN count(cs) AS total
`

const singleSourcedCypher = `
MATCH (s:Supplier)-[:CAN_SUPPLY]->(m:Material)
WITH m, collect(DISTINCT s.supplierId) AS supplierIds
WHERE size(supplierIds) = 1
RETURN m.materialId AS materialId,
       m.description AS description,
       m.tier AS tier,
       supplierIds[0] AS supplierId
ORDER BY m.materialId
LIMIT $limit
`

const mostConsumedCypher = `
MATCH (parent:Material)-[:CONSUMES]->(m:Material)
WHERE $tier < 0 OR m.tier = $tier
WITH m, count(DISTINCT parent) AS parentCount
RETURN m.materialId AS materialId,
       m.description AS description,
       m.tier AS tier,
       parentCount AS parentCount
ORDER BY parentCount DESC, m.materialId
LIMIT $limit
`
