package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/clemensrosenow/chainsynth/internal/domain"
	"github.com/clemensrosenow/chainsynth/internal/generator"
	"github.com/clemensrosenow/chainsynth/internal/stats"
)

func main() {
	cfg := generator.DefaultConfig()
	var (
		suppliers   = flag.Int("suppliers", cfg.NumSuppliers, "number of suppliers to generate")
		materials   = flag.Int("materials", cfg.NumMaterials, "number of materials to generate")
		orders      = flag.Int("orders", cfg.NumOrders, "number of purchase orders to simulate")
		seed        = flag.Int64("seed", cfg.Seed, "random seed for deterministic generation")
		scenario    = flag.String("scenario", "", "path to a YAML scenario overriding the default configuration")
		outputDir   = flag.String("output-dir", "data", "directory to write the CSV files, dataset.json and manifest.json")
		writeStdout = flag.Bool("stdout", false, "write the dataset JSON to stdout instead of files")
	)
	flag.Parse()

	if *scenario != "" {
		merged, err := generator.LoadScenario(*scenario, cfg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to load scenario: %v\n", err)
			os.Exit(1)
		}
		cfg = merged
	}

	// Flags passed explicitly win over scenario values; untouched flags keep
	// whatever the scenario decided.
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "suppliers":
			cfg.NumSuppliers = *suppliers
		case "materials":
			cfg.NumMaterials = *materials
		case "orders":
			cfg.NumOrders = *orders
		case "seed":
			cfg.Seed = *seed
		}
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	gen, err := generator.New(cfg, nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid configuration: %v\n", err)
		os.Exit(1)
	}
	dataset, err := gen.Generate(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "generation failed: %v\n", err)
		os.Exit(1)
	}

	if *writeStdout {
		if err := json.NewEncoder(os.Stdout).Encode(dataset); err != nil {
			fmt.Fprintf(os.Stderr, "failed to write dataset to stdout: %v\n", err)
			os.Exit(1)
		}
		return
	}

	manifest, err := generator.WriteDataset(dataset, *outputDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to write dataset: %v\n", err)
		os.Exit(1)
	}

	printSummary(stats.Summarize(dataset), manifest, *outputDir)
}

func printSummary(s stats.Summary, manifest generator.Manifest, dir string) {
	fmt.Fprintf(os.Stdout, "Generated %d suppliers, %d materials, %d BOM edges and %d purchase orders into %s\n",
		s.Suppliers, s.Materials, s.BOMEdges, s.PurchaseOrders, dir)
	fmt.Fprintf(os.Stdout, "  materials by tier:   %v\n", s.MaterialsByTier)
	fmt.Fprintf(os.Stdout, "  order status:        OPEN=%d FULL=%d PARTIAL=%d MISSING=%d\n",
		s.StatusCounts[domain.StatusOpen], s.StatusCounts[domain.StatusFull],
		s.StatusCounts[domain.StatusPartial], s.StatusCounts[domain.StatusMissing])
	fmt.Fprintf(os.Stdout, "  bulk order share:    %.3f\n", s.BulkOrderShare)
	fmt.Fprintf(os.Stdout, "  single-sourced:      %d materials\n", s.ASLSizes[1])
	fmt.Fprintf(os.Stdout, "  tier-4 demand share: %.3f on the top decile\n", s.TopDecileDemandShare)
	fmt.Fprintf(os.Stdout, "  total ordered:       %d units\n", s.TotalQuantityOrdered)
	for _, file := range manifest.Files {
		fmt.Fprintf(os.Stdout, "  %-22s %d rows, sha256 %s\n", file.Name, file.Rows, file.SHA256)
	}
}
