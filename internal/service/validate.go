package service

import (
	"fmt"
	"regexp"

	"github.com/clemensrosenow/chainsynth/internal/domain"
)

var (
	supplierIDPattern = regexp.MustCompile(`^SUP_[A-Z]{2}_\d{5}$`)
	materialIDPattern = regexp.MustCompile(`^MAT_T[0-4]_\d{5}$`)
	orderIDPattern    = regexp.MustCompile(`^PO-\d+$`)
)

func validateSupplier(s domain.Supplier) error {
	if !supplierIDPattern.MatchString(s.ID) {
		return fmt.Errorf("supplier %q: malformed ID", s.ID)
	}
	if s.Name == "" {
		return fmt.Errorf("supplier %s: name is required", s.ID)
	}
	if s.CapacityScore < 1 {
		return fmt.Errorf("supplier %s: capacity score %d must be >= 1", s.ID, s.CapacityScore)
	}
	return nil
}

func validateMaterial(m domain.Material) error {
	if !materialIDPattern.MatchString(m.ID) {
		return fmt.Errorf("material %q: malformed ID", m.ID)
	}
	if m.Tier < domain.TierFinishedGood || m.Tier > domain.TierRawMaterial {
		return fmt.Errorf("material %s: tier %d out of range", m.ID, m.Tier)
	}
	if m.BaseUnit == "" {
		return fmt.Errorf("material %s: base unit is required", m.ID)
	}
	if m.CostEstimate.IsNegative() {
		return fmt.Errorf("material %s: negative cost estimate %s", m.ID, m.CostEstimate)
	}
	return nil
}

func validateBOMEdge(e domain.BOMEdge) error {
	if !materialIDPattern.MatchString(e.ParentMaterialID) {
		return fmt.Errorf("bom edge: malformed parent ID %q", e.ParentMaterialID)
	}
	if !materialIDPattern.MatchString(e.ChildMaterialID) {
		return fmt.Errorf("bom edge: malformed child ID %q", e.ChildMaterialID)
	}
	if e.ParentMaterialID == e.ChildMaterialID {
		return fmt.Errorf("bom edge: %s consumes itself", e.ParentMaterialID)
	}
	if !e.Quantity.IsPositive() {
		return fmt.Errorf("bom edge %s -> %s: quantity %s must be positive", e.ParentMaterialID, e.ChildMaterialID, e.Quantity)
	}
	return nil
}

func validateApprovedSuppliers(materialID string, supplierIDs []string) error {
	if !materialIDPattern.MatchString(materialID) {
		return fmt.Errorf("approved suppliers: malformed material ID %q", materialID)
	}
	if len(supplierIDs) == 0 {
		return fmt.Errorf("material %s: approved supplier list is empty", materialID)
	}
	for _, id := range supplierIDs {
		if !supplierIDPattern.MatchString(id) {
			return fmt.Errorf("material %s: malformed supplier ID %q", materialID, id)
		}
	}
	return nil
}

func validatePurchaseOrder(po domain.PurchaseOrder) error {
	if !orderIDPattern.MatchString(po.ID) {
		return fmt.Errorf("purchase order %q: malformed ID", po.ID)
	}
	if !supplierIDPattern.MatchString(po.SupplierID) {
		return fmt.Errorf("purchase order %s: malformed supplier ID %q", po.ID, po.SupplierID)
	}
	if !materialIDPattern.MatchString(po.MaterialID) {
		return fmt.Errorf("purchase order %s: malformed material ID %q", po.ID, po.MaterialID)
	}
	if po.OrderDate.IsZero() || po.DueDate.IsZero() {
		return fmt.Errorf("purchase order %s: order and due dates are required", po.ID)
	}
	if po.DueDate.Before(po.OrderDate) {
		return fmt.Errorf("purchase order %s: due date precedes order date", po.ID)
	}
	if po.QuantityOrdered < 1 {
		return fmt.Errorf("purchase order %s: ordered quantity %d must be >= 1", po.ID, po.QuantityOrdered)
	}
	if po.UnitPrice.IsNegative() {
		return fmt.Errorf("purchase order %s: negative unit price %s", po.ID, po.UnitPrice)
	}

	switch po.Status {
	case domain.StatusOpen, domain.StatusMissing:
		if po.QuantityReceived != 0 {
			return fmt.Errorf("purchase order %s: status %s with received quantity %d", po.ID, po.Status, po.QuantityReceived)
		}
		if po.ReceiptDate != nil {
			return fmt.Errorf("purchase order %s: status %s with a receipt date", po.ID, po.Status)
		}
	case domain.StatusFull:
		if po.QuantityReceived != po.QuantityOrdered {
			return fmt.Errorf("purchase order %s: FULL with received %d of %d", po.ID, po.QuantityReceived, po.QuantityOrdered)
		}
		if po.ReceiptDate == nil {
			return fmt.Errorf("purchase order %s: FULL without a receipt date", po.ID)
		}
	case domain.StatusPartial:
		if po.QuantityReceived < 1 || po.QuantityReceived >= po.QuantityOrdered {
			return fmt.Errorf("purchase order %s: PARTIAL with received %d of %d", po.ID, po.QuantityReceived, po.QuantityOrdered)
		}
		if po.ReceiptDate == nil {
			return fmt.Errorf("purchase order %s: PARTIAL without a receipt date", po.ID)
		}
	default:
		return fmt.Errorf("purchase order %s: unknown status %q", po.ID, po.Status)
	}
	return nil
}
