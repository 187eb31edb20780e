package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/clemensrosenow/chainsynth/internal/domain"
	"github.com/clemensrosenow/chainsynth/internal/generator"
)

// TaskError accumulates the record-level errors of one bulk-load phase.
type TaskError struct {
	Errors []error
}

func (e *TaskError) Error() string {
	if len(e.Errors) == 0 {
		return "no errors"
	}
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	msg := "multiple errors:"
	for _, err := range e.Errors {
		msg += " " + err.Error() + ";"
	}
	return msg
}

func (e *TaskError) append(err error) {
	if err == nil {
		return
	}
	e.Errors = append(e.Errors, err)
}

func (e *TaskError) asError() error {
	if len(e.Errors) == 0 {
		return nil
	}
	return e
}

// BulkLoader fans one collection at a time across a worker pool. Phases run
// strictly in sequence so relationship statements always find their
// endpoint nodes already present.
type BulkLoader struct {
	loader  *Loader
	workers int
}

// NewBulkLoader creates a BulkLoader with the provided concurrency.
func NewBulkLoader(loader *Loader, workers int) *BulkLoader {
	if workers <= 0 {
		workers = 4
	}
	return &BulkLoader{
		loader:  loader,
		workers: workers,
	}
}

// LoadSuppliers persists all suppliers concurrently.
func (b *BulkLoader) LoadSuppliers(ctx context.Context, suppliers []domain.Supplier) error {
	return b.run(ctx, len(suppliers), func(idx int) error {
		return b.loader.LoadSupplier(ctx, suppliers[idx])
	})
}

// LoadMaterials persists all materials concurrently.
func (b *BulkLoader) LoadMaterials(ctx context.Context, materials []domain.Material) error {
	return b.run(ctx, len(materials), func(idx int) error {
		return b.loader.LoadMaterial(ctx, materials[idx])
	})
}

// LoadBOMEdges persists all bill-of-materials edges concurrently.
func (b *BulkLoader) LoadBOMEdges(ctx context.Context, edges []domain.BOMEdge) error {
	return b.run(ctx, len(edges), func(idx int) error {
		return b.loader.LoadBOMEdge(ctx, edges[idx])
	})
}

// LoadApprovedSuppliers persists the approved-supplier list concurrently,
// one material per task. Materials are walked in sorted order so error
// output is stable.
func (b *BulkLoader) LoadApprovedSuppliers(ctx context.Context, asl domain.ApprovedSupplierList) error {
	materialIDs := make([]string, 0, len(asl))
	for materialID := range asl {
		materialIDs = append(materialIDs, materialID)
	}
	sort.Strings(materialIDs)

	return b.run(ctx, len(materialIDs), func(idx int) error {
		materialID := materialIDs[idx]
		return b.loader.LoadApprovedSuppliers(ctx, materialID, asl[materialID])
	})
}

// LoadPurchaseOrders persists all purchase orders concurrently.
func (b *BulkLoader) LoadPurchaseOrders(ctx context.Context, orders []domain.PurchaseOrder) error {
	return b.run(ctx, len(orders), func(idx int) error {
		return b.loader.LoadPurchaseOrder(ctx, orders[idx])
	})
}

// LoadDataset loads a full dataset in dependency order: nodes first, then
// the edges between them, then the orders that reference both.
func (b *BulkLoader) LoadDataset(ctx context.Context, ds generator.Dataset) error {
	if err := b.LoadSuppliers(ctx, ds.Suppliers); err != nil {
		return fmtPhaseError("suppliers", err)
	}
	if err := b.LoadMaterials(ctx, ds.Materials); err != nil {
		return fmtPhaseError("materials", err)
	}
	if err := b.LoadBOMEdges(ctx, ds.BOMEdges); err != nil {
		return fmtPhaseError("bom edges", err)
	}
	if err := b.LoadApprovedSuppliers(ctx, ds.ASL); err != nil {
		return fmtPhaseError("approved suppliers", err)
	}
	if err := b.LoadPurchaseOrders(ctx, ds.PurchaseOrders); err != nil {
		return fmtPhaseError("purchase orders", err)
	}
	return nil
}

func fmtPhaseError(phase string, err error) error {
	return fmt.Errorf("load %s: %w", phase, err)
}

func (b *BulkLoader) run(ctx context.Context, total int, taskFn func(idx int) error) error {
	if total == 0 {
		return nil
	}
	indexCh := make(chan int)
	errCh := make(chan error, total)
	var wg sync.WaitGroup

	worker := func() {
		defer wg.Done()
		for idx := range indexCh {
			if err := taskFn(idx); err != nil {
				select {
				case errCh <- err:
				case <-ctx.Done():
					return
				}
			}
		}
	}

	for i := 0; i < b.workers; i++ {
		wg.Add(1)
		go worker()
	}

Loop:
	for i := 0; i < total; i++ {
		select {
		case indexCh <- i:
		case <-ctx.Done():
			break Loop
		}
	}
	close(indexCh)
	wg.Wait()
	close(errCh)

	var taskErr TaskError
	for err := range errCh {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return err
		}
		taskErr.append(err)
	}
	// A worker that observed cancellation may have exited without reporting,
	// so the context is consulted after the drain as well.
	if err := ctx.Err(); err != nil {
		return err
	}
	return taskErr.asError()
}
