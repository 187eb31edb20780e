package domain

// Supplier aggregates the canonical supplier entity data.
type Supplier struct {
	ID            string
	Name          string
	Country       string
	CapacityScore int
}
