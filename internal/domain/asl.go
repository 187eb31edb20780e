package domain

// ApprovedSupplierList maps a material identifier to its 1-3 candidate
// supplier identifiers. Built once before order simulation and read-only
// afterwards; an order for a material may only name a supplier from that
// material's list. Duplicate candidates within one list are tolerated.
type ApprovedSupplierList map[string][]string

// Candidates returns the approved suppliers for a material, or nil when the
// material is unknown.
func (asl ApprovedSupplierList) Candidates(materialID string) []string {
	return asl[materialID]
}

// Contains reports whether supplierID is an approved source for materialID.
func (asl ApprovedSupplierList) Contains(materialID, supplierID string) bool {
	for _, id := range asl[materialID] {
		if id == supplierID {
			return true
		}
	}
	return false
}
