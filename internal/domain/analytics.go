package domain

// LoadCounts reports what the graph holds after a bulk load, keyed the same
// way the loader keys its input collections.
type LoadCounts struct {
	Suppliers      int64
	Materials      int64
	PurchaseOrders int64
	ConsumesEdges  int64
	CanSupplyEdges int64
}

// SingleSourcedMaterial is a material with exactly one approved supplier,
// the primary risk signal this dataset exists to surface.
type SingleSourcedMaterial struct {
	MaterialID  string
	Description string
	Tier        int
	SupplierID  string
}

// MaterialDemand ranks a material by how many parents consume it.
type MaterialDemand struct {
	MaterialID  string
	Description string
	Tier        int
	ParentCount int64
}
