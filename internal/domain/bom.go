package domain

import "github.com/shopspring/decimal"

// BOMEdge models a directed parent-consumes-child dependency between two
// materials of adjacent tiers. Quantity is the unit multiplier: how much of
// the child one unit of the parent consumes.
type BOMEdge struct {
	ParentMaterialID string
	ChildMaterialID  string
	Quantity         decimal.Decimal
}
