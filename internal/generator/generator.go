package generator

import (
	"context"
	"fmt"

	"github.com/clemensrosenow/chainsynth/internal/domain"
	"github.com/clemensrosenow/chainsynth/internal/randx"
)

// Dataset contains the generated supply-chain collections. Suppliers,
// materials, BOM edges and purchase orders are the exported record sets;
// the approved-supplier list is carried for graph ingestion and testing.
type Dataset struct {
	Suppliers      []domain.Supplier           `json:"suppliers"`
	Materials      []domain.Material           `json:"materials"`
	BOMEdges       []domain.BOMEdge            `json:"bomEdges"`
	ASL            domain.ApprovedSupplierList `json:"approvedSupplierList"`
	PurchaseOrders []domain.PurchaseOrder      `json:"purchaseOrders"`
}

// Generator produces a deterministic synthetic supply chain. All draws go
// through a single seeded stream, so stage order and per-stage draw order
// are fixed; rearranging either changes output under the same seed.
type Generator struct {
	cfg   Config
	rs    *randx.Stream
	namer CompanyNamer
}

// New returns a configured Generator. Zero-valued config sections fall back
// to DefaultConfig; the merged config is validated before any generation
// state exists. A nil namer selects the built-in fragment namer.
func New(cfg Config, namer CompanyNamer) (*Generator, error) {
	cfg = cfg.withDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid generator config: %w", err)
	}
	if namer == nil {
		namer = defaultCompanyNamer()
	}
	return &Generator{
		cfg:   cfg,
		rs:    randx.New(cfg.Seed),
		namer: namer,
	}, nil
}

// Config returns the effective configuration after defaulting.
func (g *Generator) Config() Config {
	return g.cfg
}

// Generate runs the pipeline leaf-first: suppliers, materials, BOM edges,
// approved-supplier list, purchase orders. Each stage consumes the full
// output of its predecessors; a cancelled context aborts between records.
func (g *Generator) Generate(ctx context.Context) (Dataset, error) {
	suppliers, err := g.generateSuppliers(ctx)
	if err != nil {
		return Dataset{}, fmt.Errorf("generate suppliers: %w", err)
	}

	materials, err := g.generateMaterials(ctx)
	if err != nil {
		return Dataset{}, fmt.Errorf("generate materials: %w", err)
	}

	edges, err := g.buildBOM(ctx, materials)
	if err != nil {
		return Dataset{}, fmt.Errorf("build bom graph: %w", err)
	}

	asl, err := g.assignSources(ctx, materials, suppliers)
	if err != nil {
		return Dataset{}, fmt.Errorf("assign approved suppliers: %w", err)
	}

	orders, err := g.simulateOrders(ctx, materials, asl)
	if err != nil {
		return Dataset{}, fmt.Errorf("simulate purchase orders: %w", err)
	}

	return Dataset{
		Suppliers:      suppliers,
		Materials:      materials,
		BOMEdges:       edges,
		ASL:            asl,
		PurchaseOrders: orders,
	}, nil
}
