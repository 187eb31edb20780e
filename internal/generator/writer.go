package generator

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/clemensrosenow/chainsynth/internal/domain"
)

// Output file names written under the dataset directory. The four CSV
// files carry the public record schemas; dataset.json carries the full
// internal records for graph ingestion.
const (
	SuppliersFile = "suppliers.csv"
	MaterialsFile = "materials.csv"
	BOMFile       = "bom_relationships.csv"
	OrdersFile    = "order_records.csv"
	DatasetFile   = "dataset.json"
	ManifestFile  = "manifest.json"
)

// WriteDataset serializes the dataset under dir: public CSV record sets,
// the internal JSON bundle, and a manifest of digests. Output bytes depend
// only on the dataset, so identical datasets produce identical files.
func WriteDataset(dataset Dataset, dir string) (Manifest, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return Manifest{}, fmt.Errorf("create output dir: %w", err)
	}

	manifest := Manifest{
		Suppliers:      len(dataset.Suppliers),
		Materials:      len(dataset.Materials),
		BOMEdges:       len(dataset.BOMEdges),
		PurchaseOrders: len(dataset.PurchaseOrders),
	}

	outputs := []struct {
		name   string
		rows   int
		encode func() ([]byte, error)
	}{
		{SuppliersFile, len(dataset.Suppliers), func() ([]byte, error) {
			return encodeCSV(supplierHeader, supplierRows(dataset.Suppliers))
		}},
		{MaterialsFile, len(dataset.Materials), func() ([]byte, error) {
			return encodeCSV(materialHeader, materialRows(dataset.Materials))
		}},
		{BOMFile, len(dataset.BOMEdges), func() ([]byte, error) {
			return encodeCSV(bomHeader, bomRows(dataset.BOMEdges))
		}},
		{OrdersFile, len(dataset.PurchaseOrders), func() ([]byte, error) {
			return encodeCSV(orderHeader, orderRows(dataset.PurchaseOrders))
		}},
		{DatasetFile, manifest.Suppliers + manifest.Materials + manifest.BOMEdges + manifest.PurchaseOrders, func() ([]byte, error) {
			return encodeJSON(dataset)
		}},
	}

	for _, out := range outputs {
		data, err := out.encode()
		if err != nil {
			return Manifest{}, fmt.Errorf("encode %s: %w", out.name, err)
		}
		path := filepath.Join(dir, out.name)
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return Manifest{}, fmt.Errorf("write %s: %w", path, err)
		}
		manifest.Files = append(manifest.Files, newFileDigest(out.name, out.rows, data))
	}

	manifestData, err := encodeJSON(manifest)
	if err != nil {
		return Manifest{}, fmt.Errorf("encode %s: %w", ManifestFile, err)
	}
	manifestPath := filepath.Join(dir, ManifestFile)
	if err := os.WriteFile(manifestPath, manifestData, 0o644); err != nil {
		return Manifest{}, fmt.Errorf("write %s: %w", manifestPath, err)
	}

	return manifest, nil
}

var (
	supplierHeader = []string{"supplier_id", "name", "country"}
	materialHeader = []string{"material_id", "description", "base_unit"}
	bomHeader      = []string{"parent_material_id", "child_material_id", "quantity"}
	orderHeader    = []string{"po_id", "supplier_id", "material_id", "order_date", "due_date", "receipt_date", "quantity_ordered", "quantity_received", "unit_price"}
)

func supplierRows(suppliers []domain.Supplier) [][]string {
	rows := make([][]string, 0, len(suppliers))
	for _, s := range suppliers {
		rec := s.Record()
		rows = append(rows, []string{rec.SupplierID, rec.Name, rec.Country})
	}
	return rows
}

func materialRows(materials []domain.Material) [][]string {
	rows := make([][]string, 0, len(materials))
	for _, m := range materials {
		rec := m.Record()
		rows = append(rows, []string{rec.MaterialID, rec.Description, rec.BaseUnit})
	}
	return rows
}

func bomRows(edges []domain.BOMEdge) [][]string {
	rows := make([][]string, 0, len(edges))
	for _, e := range edges {
		rec := e.Record()
		rows = append(rows, []string{rec.ParentMaterialID, rec.ChildMaterialID, rec.Quantity.String()})
	}
	return rows
}

func orderRows(orders []domain.PurchaseOrder) [][]string {
	rows := make([][]string, 0, len(orders))
	for _, po := range orders {
		rec := po.Record()
		receipt := ""
		if rec.ReceiptDate != nil {
			receipt = rec.ReceiptDate.Format(time.DateOnly)
		}
		rows = append(rows, []string{
			rec.POID,
			rec.SupplierID,
			rec.MaterialID,
			rec.OrderDate.Format(time.DateOnly),
			rec.DueDate.Format(time.DateOnly),
			receipt,
			strconv.Itoa(rec.QuantityOrdered),
			strconv.Itoa(rec.QuantityReceived),
			rec.UnitPrice.StringFixed(2),
		})
	}
	return rows
}

func encodeCSV(header []string, rows [][]string) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(header); err != nil {
		return nil, err
	}
	for _, row := range rows {
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func encodeJSON(v any) ([]byte, error) {
	var buf bytes.Buffer
	encoder := json.NewEncoder(&buf)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
