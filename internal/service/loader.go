// Package service validates generated supply-chain records and drives
// their ingestion into the graph repository.
package service

import (
	"context"
	"fmt"

	"github.com/clemensrosenow/chainsynth/internal/domain"
	"github.com/clemensrosenow/chainsynth/internal/generator"
)

// GraphRepository is the storage contract required by the loader.
type GraphRepository interface {
	UpsertSupplier(ctx context.Context, supplier domain.Supplier) error
	UpsertMaterial(ctx context.Context, material domain.Material) error
	UpsertBOMEdge(ctx context.Context, edge domain.BOMEdge) error
	UpsertApprovedSuppliers(ctx context.Context, materialID string, supplierIDs []string) error
	UpsertPurchaseOrder(ctx context.Context, po domain.PurchaseOrder) error
	CountLoaded(ctx context.Context) (domain.LoadCounts, error)
}

// Loader checks each record against the dataset contract before handing it
// to the repository. Generated data always passes; the checks guard against
// hand-edited or truncated dataset files.
type Loader struct {
	repo GraphRepository
}

// NewLoader constructs a Loader over the given repository.
func NewLoader(repo GraphRepository) *Loader {
	return &Loader{repo: repo}
}

// LoadSupplier validates and persists one supplier.
func (l *Loader) LoadSupplier(ctx context.Context, supplier domain.Supplier) error {
	if err := validateSupplier(supplier); err != nil {
		return err
	}
	return l.repo.UpsertSupplier(ctx, supplier)
}

// LoadMaterial validates and persists one material.
func (l *Loader) LoadMaterial(ctx context.Context, material domain.Material) error {
	if err := validateMaterial(material); err != nil {
		return err
	}
	return l.repo.UpsertMaterial(ctx, material)
}

// LoadBOMEdge validates and persists one bill-of-materials edge.
func (l *Loader) LoadBOMEdge(ctx context.Context, edge domain.BOMEdge) error {
	if err := validateBOMEdge(edge); err != nil {
		return err
	}
	return l.repo.UpsertBOMEdge(ctx, edge)
}

// LoadApprovedSuppliers validates and persists one approved-supplier entry.
func (l *Loader) LoadApprovedSuppliers(ctx context.Context, materialID string, supplierIDs []string) error {
	if err := validateApprovedSuppliers(materialID, supplierIDs); err != nil {
		return err
	}
	return l.repo.UpsertApprovedSuppliers(ctx, materialID, supplierIDs)
}

// LoadPurchaseOrder validates and persists one purchase order.
func (l *Loader) LoadPurchaseOrder(ctx context.Context, po domain.PurchaseOrder) error {
	if err := validatePurchaseOrder(po); err != nil {
		return err
	}
	return l.repo.UpsertPurchaseOrder(ctx, po)
}

// VerifyCounts reads back graph totals and compares them with want,
// returning the observed counts either way.
func (l *Loader) VerifyCounts(ctx context.Context, want domain.LoadCounts) (domain.LoadCounts, error) {
	got, err := l.repo.CountLoaded(ctx)
	if err != nil {
		return domain.LoadCounts{}, fmt.Errorf("read back graph counts: %w", err)
	}

	if got.Suppliers != want.Suppliers {
		return got, fmt.Errorf("supplier count mismatch: graph has %d, dataset has %d", got.Suppliers, want.Suppliers)
	}
	if got.Materials != want.Materials {
		return got, fmt.Errorf("material count mismatch: graph has %d, dataset has %d", got.Materials, want.Materials)
	}
	if got.PurchaseOrders != want.PurchaseOrders {
		return got, fmt.Errorf("purchase order count mismatch: graph has %d, dataset has %d", got.PurchaseOrders, want.PurchaseOrders)
	}
	if got.ConsumesEdges != want.ConsumesEdges {
		return got, fmt.Errorf("CONSUMES edge count mismatch: graph has %d, dataset has %d", got.ConsumesEdges, want.ConsumesEdges)
	}
	if got.CanSupplyEdges != want.CanSupplyEdges {
		return got, fmt.Errorf("CAN_SUPPLY edge count mismatch: graph has %d, dataset has %d", got.CanSupplyEdges, want.CanSupplyEdges)
	}
	return got, nil
}

// ExpectedCounts derives the graph totals a dataset should produce once
// loaded. Duplicate approved-supplier candidates collapse into a single
// CAN_SUPPLY edge, so pairs are counted distinctly.
func ExpectedCounts(ds generator.Dataset) domain.LoadCounts {
	pairs := map[string]struct{}{}
	for materialID, supplierIDs := range ds.ASL {
		for _, supplierID := range supplierIDs {
			pairs[supplierID+"|"+materialID] = struct{}{}
		}
	}
	return domain.LoadCounts{
		Suppliers:      int64(len(ds.Suppliers)),
		Materials:      int64(len(ds.Materials)),
		PurchaseOrders: int64(len(ds.PurchaseOrders)),
		ConsumesEdges:  int64(len(ds.BOMEdges)),
		CanSupplyEdges: int64(len(pairs)),
	}
}
