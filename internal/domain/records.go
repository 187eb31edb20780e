package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Public output records. Each is a strict subset of its generation record:
// derived attributes (capacity score, tier, cost estimate, fulfillment
// status) stay internal and are stripped here, at the export boundary.

// SupplierRecord is the exported view of a supplier.
type SupplierRecord struct {
	SupplierID string
	Name       string
	Country    string
}

// MaterialRecord is the exported view of a material.
type MaterialRecord struct {
	MaterialID  string
	Description string
	BaseUnit    string
}

// BOMEdgeRecord is the exported view of a bill-of-materials edge.
type BOMEdgeRecord struct {
	ParentMaterialID string
	ChildMaterialID  string
	Quantity         decimal.Decimal
}

// PurchaseOrderRecord is the exported view of an order line.
type PurchaseOrderRecord struct {
	POID             string
	SupplierID       string
	MaterialID       string
	OrderDate        time.Time
	DueDate          time.Time
	ReceiptDate      *time.Time
	QuantityOrdered  int
	QuantityReceived int
	UnitPrice        decimal.Decimal
}

// Record derives the public view of the supplier.
func (s Supplier) Record() SupplierRecord {
	return SupplierRecord{SupplierID: s.ID, Name: s.Name, Country: s.Country}
}

// Record derives the public view of the material.
func (m Material) Record() MaterialRecord {
	return MaterialRecord{MaterialID: m.ID, Description: m.Description, BaseUnit: m.BaseUnit}
}

// Record derives the public view of the edge.
func (e BOMEdge) Record() BOMEdgeRecord {
	return BOMEdgeRecord{
		ParentMaterialID: e.ParentMaterialID,
		ChildMaterialID:  e.ChildMaterialID,
		Quantity:         e.Quantity,
	}
}

// Record derives the public view of the order line.
func (po PurchaseOrder) Record() PurchaseOrderRecord {
	return PurchaseOrderRecord{
		POID:             po.ID,
		SupplierID:       po.SupplierID,
		MaterialID:       po.MaterialID,
		OrderDate:        po.OrderDate,
		DueDate:          po.DueDate,
		ReceiptDate:      po.ReceiptDate,
		QuantityOrdered:  po.QuantityOrdered,
		QuantityReceived: po.QuantityReceived,
		UnitPrice:        po.UnitPrice,
	}
}
