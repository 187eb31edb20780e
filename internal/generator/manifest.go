package generator

import (
	"crypto/sha256"
	"encoding/hex"
)

// Manifest describes one written dataset: record counts per collection and
// a SHA-256 digest per output file. Two runs of the same seed and config
// can be compared through their manifests without diffing full files. The
// manifest carries no timestamps, so it is itself deterministic.
type Manifest struct {
	Suppliers      int          `json:"suppliers"`
	Materials      int          `json:"materials"`
	BOMEdges       int          `json:"bomEdges"`
	PurchaseOrders int          `json:"purchaseOrders"`
	Files          []FileDigest `json:"files"`
}

// FileDigest identifies one output file by name, row count and content hash.
type FileDigest struct {
	Name   string `json:"name"`
	Rows   int    `json:"rows"`
	SHA256 string `json:"sha256"`
}

func newFileDigest(name string, rows int, data []byte) FileDigest {
	sum := sha256.Sum256(data)
	return FileDigest{Name: name, Rows: rows, SHA256: hex.EncodeToString(sum[:])}
}
