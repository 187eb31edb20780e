package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// FulfillmentStatus is the lifecycle outcome of a purchase order at the
// simulation horizon.
type FulfillmentStatus string

const (
	// StatusOpen marks an order whose due date lies beyond the horizon.
	StatusOpen FulfillmentStatus = "OPEN"
	// StatusFull marks a resolved order received in full.
	StatusFull FulfillmentStatus = "FULL"
	// StatusPartial marks a resolved order received short.
	StatusPartial FulfillmentStatus = "PARTIAL"
	// StatusMissing marks a resolved order never received.
	StatusMissing FulfillmentStatus = "MISSING"
)

// PurchaseOrder models one immutable order line. ReceiptDate is nil for
// open and missing orders. Status is a generation-internal attribute; the
// public record omits it because the category is derivable from quantities
// and dates.
type PurchaseOrder struct {
	ID               string
	SupplierID       string
	MaterialID       string
	OrderDate        time.Time
	DueDate          time.Time
	ReceiptDate      *time.Time
	QuantityOrdered  int
	QuantityReceived int
	UnitPrice        decimal.Decimal
	Status           FulfillmentStatus
}
