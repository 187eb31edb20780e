package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/clemensrosenow/chainsynth/internal/domain"
	"github.com/clemensrosenow/chainsynth/internal/generator"
)

type stubRepository struct {
	mu        sync.Mutex
	phases    []string
	suppliers []domain.Supplier
	materials []domain.Material
	edges     []domain.BOMEdge
	approved  map[string][]string
	orders    []domain.PurchaseOrder

	supplierErr error
	materialErr error
	edgeErr     error
	approvedErr error
	orderErr    error

	counts    domain.LoadCounts
	countsErr error
}

func (s *stubRepository) UpsertSupplier(ctx context.Context, supplier domain.Supplier) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.supplierErr != nil {
		return s.supplierErr
	}
	s.phases = append(s.phases, "suppliers")
	s.suppliers = append(s.suppliers, supplier)
	return nil
}

func (s *stubRepository) UpsertMaterial(ctx context.Context, material domain.Material) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.materialErr != nil {
		return s.materialErr
	}
	s.phases = append(s.phases, "materials")
	s.materials = append(s.materials, material)
	return nil
}

func (s *stubRepository) UpsertBOMEdge(ctx context.Context, edge domain.BOMEdge) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.edgeErr != nil {
		return s.edgeErr
	}
	s.phases = append(s.phases, "bom")
	s.edges = append(s.edges, edge)
	return nil
}

func (s *stubRepository) UpsertApprovedSuppliers(ctx context.Context, materialID string, supplierIDs []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.approvedErr != nil {
		return s.approvedErr
	}
	if s.approved == nil {
		s.approved = make(map[string][]string)
	}
	s.phases = append(s.phases, "asl")
	s.approved[materialID] = supplierIDs
	return nil
}

func (s *stubRepository) UpsertPurchaseOrder(ctx context.Context, po domain.PurchaseOrder) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.orderErr != nil {
		return s.orderErr
	}
	s.phases = append(s.phases, "orders")
	s.orders = append(s.orders, po)
	return nil
}

func (s *stubRepository) CountLoaded(ctx context.Context) (domain.LoadCounts, error) {
	if s.countsErr != nil {
		return domain.LoadCounts{}, s.countsErr
	}
	return s.counts, nil
}

func testDate(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func testSupplier(n int) domain.Supplier {
	return domain.Supplier{
		ID:            fmt.Sprintf("SUP_DE_%05d", n),
		Name:          fmt.Sprintf("Nordwerk Components %d", n),
		Country:       "DE",
		CapacityScore: 12,
	}
}

func testMaterial(tier, n int) domain.Material {
	return domain.Material{
		ID:           fmt.Sprintf("MAT_T%d_%05d", tier, n),
		Description:  fmt.Sprintf("forged housing variant %d", n),
		Tier:         tier,
		BaseUnit:     "EA",
		CostEstimate: decimal.NewFromFloat(14.2),
	}
}

func testEdge() domain.BOMEdge {
	return domain.BOMEdge{
		ParentMaterialID: "MAT_T2_00001",
		ChildMaterialID:  "MAT_T3_00004",
		Quantity:         decimal.NewFromFloat(3.25),
	}
}

func testOrder() domain.PurchaseOrder {
	receipt := testDate(2024, time.March, 12)
	return domain.PurchaseOrder{
		ID:               "PO-100000",
		SupplierID:       "SUP_CN_00001",
		MaterialID:       "MAT_T4_00002",
		OrderDate:        testDate(2024, time.February, 1),
		DueDate:          testDate(2024, time.March, 10),
		ReceiptDate:      &receipt,
		QuantityOrdered:  40,
		QuantityReceived: 40,
		UnitPrice:        decimal.NewFromFloat(3.85),
		Status:           domain.StatusFull,
	}
}

func TestLoader_LoadSupplier(t *testing.T) {
	repo := &stubRepository{}
	loader := NewLoader(repo)

	if err := loader.LoadSupplier(context.Background(), testSupplier(1)); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(repo.suppliers) != 1 {
		t.Fatalf("expected 1 supplier persisted, got %d", len(repo.suppliers))
	}
	if repo.suppliers[0].ID != "SUP_DE_00001" {
		t.Errorf("expected SUP_DE_00001 persisted, got %s", repo.suppliers[0].ID)
	}
}

func TestLoader_RejectsBadSupplier(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(s *domain.Supplier)
	}{
		{"lowercase country code", func(s *domain.Supplier) { s.ID = "SUP_de_00001" }},
		{"three letter country code", func(s *domain.Supplier) { s.ID = "SUP_DEU_00001" }},
		{"short sequence", func(s *domain.Supplier) { s.ID = "SUP_DE_001" }},
		{"empty id", func(s *domain.Supplier) { s.ID = "" }},
		{"missing name", func(s *domain.Supplier) { s.Name = "" }},
		{"zero capacity", func(s *domain.Supplier) { s.CapacityScore = 0 }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			repo := &stubRepository{}
			loader := NewLoader(repo)

			supplier := testSupplier(1)
			tc.mutate(&supplier)

			if err := loader.LoadSupplier(context.Background(), supplier); err == nil {
				t.Fatalf("expected validation error, got nil")
			}
			if len(repo.suppliers) != 0 {
				t.Errorf("expected rejected supplier not to reach the repository")
			}
		})
	}
}

func TestLoader_RejectsBadMaterial(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(m *domain.Material)
	}{
		{"tier digit out of range", func(m *domain.Material) { m.ID = "MAT_T5_00001" }},
		{"missing tier marker", func(m *domain.Material) { m.ID = "MAT_00001" }},
		{"tier below range", func(m *domain.Material) { m.Tier = -1 }},
		{"tier above range", func(m *domain.Material) { m.Tier = 7 }},
		{"missing base unit", func(m *domain.Material) { m.BaseUnit = "" }},
		{"negative cost", func(m *domain.Material) { m.CostEstimate = decimal.NewFromFloat(-0.01) }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			repo := &stubRepository{}
			loader := NewLoader(repo)

			material := testMaterial(2, 1)
			tc.mutate(&material)

			if err := loader.LoadMaterial(context.Background(), material); err == nil {
				t.Fatalf("expected validation error, got nil")
			}
			if len(repo.materials) != 0 {
				t.Errorf("expected rejected material not to reach the repository")
			}
		})
	}
}

func TestLoader_RejectsBadBOMEdge(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(e *domain.BOMEdge)
	}{
		{"malformed parent", func(e *domain.BOMEdge) { e.ParentMaterialID = "MAT-T2-00001" }},
		{"malformed child", func(e *domain.BOMEdge) { e.ChildMaterialID = "housing" }},
		{"self loop", func(e *domain.BOMEdge) { e.ChildMaterialID = e.ParentMaterialID }},
		{"zero quantity", func(e *domain.BOMEdge) { e.Quantity = decimal.Zero }},
		{"negative quantity", func(e *domain.BOMEdge) { e.Quantity = decimal.NewFromFloat(-1.5) }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			repo := &stubRepository{}
			loader := NewLoader(repo)

			edge := testEdge()
			tc.mutate(&edge)

			if err := loader.LoadBOMEdge(context.Background(), edge); err == nil {
				t.Fatalf("expected validation error, got nil")
			}
			if len(repo.edges) != 0 {
				t.Errorf("expected rejected edge not to reach the repository")
			}
		})
	}
}

func TestLoader_LoadApprovedSuppliers(t *testing.T) {
	repo := &stubRepository{}
	loader := NewLoader(repo)

	err := loader.LoadApprovedSuppliers(context.Background(), "MAT_T4_00002", []string{"SUP_CN_00001", "SUP_DE_00002"})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if got := repo.approved["MAT_T4_00002"]; len(got) != 2 {
		t.Fatalf("expected 2 candidates persisted, got %d", len(got))
	}
}

func TestLoader_RejectsBadApprovedSuppliers(t *testing.T) {
	cases := []struct {
		name       string
		materialID string
		candidates []string
	}{
		{"malformed material id", "MAT_X_00001", []string{"SUP_CN_00001"}},
		{"empty candidate list", "MAT_T4_00002", nil},
		{"malformed candidate", "MAT_T4_00002", []string{"SUP_CN_00001", "supplier-2"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			repo := &stubRepository{}
			loader := NewLoader(repo)

			if err := loader.LoadApprovedSuppliers(context.Background(), tc.materialID, tc.candidates); err == nil {
				t.Fatalf("expected validation error, got nil")
			}
			if len(repo.approved) != 0 {
				t.Errorf("expected rejected entry not to reach the repository")
			}
		})
	}
}

func TestLoader_LoadPurchaseOrder(t *testing.T) {
	repo := &stubRepository{}
	loader := NewLoader(repo)

	if err := loader.LoadPurchaseOrder(context.Background(), testOrder()); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(repo.orders) != 1 {
		t.Fatalf("expected 1 order persisted, got %d", len(repo.orders))
	}
}

func TestLoader_RejectsIncoherentPurchaseOrder(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(po *domain.PurchaseOrder)
	}{
		{"malformed id", func(po *domain.PurchaseOrder) { po.ID = "PO_100000" }},
		{"malformed supplier ref", func(po *domain.PurchaseOrder) { po.SupplierID = "ACME" }},
		{"malformed material ref", func(po *domain.PurchaseOrder) { po.MaterialID = "MAT_T9_00001" }},
		{"missing order date", func(po *domain.PurchaseOrder) { po.OrderDate = time.Time{} }},
		{"due before order", func(po *domain.PurchaseOrder) { po.DueDate = po.OrderDate.AddDate(0, 0, -1) }},
		{"zero quantity", func(po *domain.PurchaseOrder) {
			po.QuantityOrdered = 0
			po.QuantityReceived = 0
		}},
		{"negative price", func(po *domain.PurchaseOrder) { po.UnitPrice = decimal.NewFromFloat(-3.85) }},
		{"unknown status", func(po *domain.PurchaseOrder) { po.Status = "SHIPPED" }},
		{"open with receipt", func(po *domain.PurchaseOrder) {
			po.Status = domain.StatusOpen
			po.QuantityReceived = 0
		}},
		{"open with received quantity", func(po *domain.PurchaseOrder) {
			po.Status = domain.StatusOpen
			po.ReceiptDate = nil
		}},
		{"missing with received quantity", func(po *domain.PurchaseOrder) {
			po.Status = domain.StatusMissing
			po.ReceiptDate = nil
		}},
		{"full received short", func(po *domain.PurchaseOrder) { po.QuantityReceived = po.QuantityOrdered - 1 }},
		{"full without receipt", func(po *domain.PurchaseOrder) { po.ReceiptDate = nil }},
		{"partial received in full", func(po *domain.PurchaseOrder) { po.Status = domain.StatusPartial }},
		{"partial without receipt", func(po *domain.PurchaseOrder) {
			po.Status = domain.StatusPartial
			po.QuantityReceived = po.QuantityOrdered / 2
			po.ReceiptDate = nil
		}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			repo := &stubRepository{}
			loader := NewLoader(repo)

			po := testOrder()
			tc.mutate(&po)

			if err := loader.LoadPurchaseOrder(context.Background(), po); err == nil {
				t.Fatalf("expected validation error, got nil")
			}
			if len(repo.orders) != 0 {
				t.Errorf("expected rejected order not to reach the repository")
			}
		})
	}
}

func TestLoader_VerifyCounts(t *testing.T) {
	want := domain.LoadCounts{
		Suppliers:      3,
		Materials:      7,
		PurchaseOrders: 20,
		ConsumesEdges:  9,
		CanSupplyEdges: 11,
	}
	repo := &stubRepository{counts: want}
	loader := NewLoader(repo)

	got, err := loader.VerifyCounts(context.Background(), want)
	if err != nil {
		t.Fatalf("expected matching counts to verify, got %v", err)
	}
	if got != want {
		t.Errorf("expected observed counts %+v, got %+v", want, got)
	}
}

func TestLoader_VerifyCountsMismatch(t *testing.T) {
	want := domain.LoadCounts{
		Suppliers:      3,
		Materials:      7,
		PurchaseOrders: 20,
		ConsumesEdges:  9,
		CanSupplyEdges: 11,
	}
	cases := []struct {
		name    string
		mutate  func(c *domain.LoadCounts)
		keyword string
	}{
		{"suppliers", func(c *domain.LoadCounts) { c.Suppliers++ }, "supplier count"},
		{"materials", func(c *domain.LoadCounts) { c.Materials-- }, "material count"},
		{"orders", func(c *domain.LoadCounts) { c.PurchaseOrders++ }, "purchase order count"},
		{"consumes", func(c *domain.LoadCounts) { c.ConsumesEdges++ }, "CONSUMES"},
		{"can supply", func(c *domain.LoadCounts) { c.CanSupplyEdges-- }, "CAN_SUPPLY"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			counts := want
			tc.mutate(&counts)
			loader := NewLoader(&stubRepository{counts: counts})

			got, err := loader.VerifyCounts(context.Background(), want)
			if err == nil {
				t.Fatalf("expected mismatch error, got nil")
			}
			if !strings.Contains(err.Error(), tc.keyword) {
				t.Errorf("expected error to mention %q, got %q", tc.keyword, err)
			}
			if got != counts {
				t.Errorf("expected observed counts %+v returned alongside the error, got %+v", counts, got)
			}
		})
	}
}

func TestLoader_VerifyCountsPropagatesReadError(t *testing.T) {
	repo := &stubRepository{countsErr: fmt.Errorf("connection reset")}
	loader := NewLoader(repo)

	if _, err := loader.VerifyCounts(context.Background(), domain.LoadCounts{}); err == nil {
		t.Fatalf("expected read-back error, got nil")
	}
}

func TestExpectedCounts(t *testing.T) {
	ds := generator.Dataset{
		Suppliers: []domain.Supplier{testSupplier(1), testSupplier(2)},
		Materials: []domain.Material{testMaterial(3, 1), testMaterial(4, 2), testMaterial(4, 3)},
		BOMEdges: []domain.BOMEdge{
			{ParentMaterialID: "MAT_T3_00001", ChildMaterialID: "MAT_T4_00002", Quantity: decimal.NewFromInt(2)},
			{ParentMaterialID: "MAT_T3_00001", ChildMaterialID: "MAT_T4_00003", Quantity: decimal.NewFromInt(1)},
		},
		ASL: domain.ApprovedSupplierList{
			// The duplicate candidate must collapse into one CAN_SUPPLY edge.
			"MAT_T4_00002": {"SUP_DE_00001", "SUP_DE_00001", "SUP_DE_00002"},
			"MAT_T4_00003": {"SUP_DE_00001"},
		},
		PurchaseOrders: []domain.PurchaseOrder{testOrder()},
	}

	got := ExpectedCounts(ds)
	want := domain.LoadCounts{
		Suppliers:      2,
		Materials:      3,
		PurchaseOrders: 1,
		ConsumesEdges:  2,
		CanSupplyEdges: 3,
	}
	if got != want {
		t.Fatalf("expected counts %+v, got %+v", want, got)
	}
}
