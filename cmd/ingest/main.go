package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/clemensrosenow/chainsynth/internal/config"
	"github.com/clemensrosenow/chainsynth/internal/domain"
	"github.com/clemensrosenow/chainsynth/internal/generator"
	"github.com/clemensrosenow/chainsynth/internal/graph"
	"github.com/clemensrosenow/chainsynth/internal/logging"
	"github.com/clemensrosenow/chainsynth/internal/repository"
	"github.com/clemensrosenow/chainsynth/internal/service"
)

var errMissingDataset = errors.New("dataset not found")

func main() {
	var (
		datasetDir  = flag.String("dataset-dir", "data", "Directory containing dataset.json")
		datasetPath = flag.String("dataset", "", "Path to dataset.json (overrides dataset-dir)")
		workers     = flag.Int("workers", 0, "Concurrent load workers (0 uses CHAINSYNTH_LOAD_WORKERS)")
	)
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger := logging.New(cfg.Logging).With("component", "ingest")

	path, err := resolveDatasetPath(*datasetDir, *datasetPath)
	if err != nil {
		logger.Error("dataset resolution failed", "error", err)
		os.Exit(1)
	}

	dataset, err := loadDataset(path)
	if err != nil {
		logger.Error("failed to load dataset", "error", err, "path", path)
		os.Exit(1)
	}
	if len(dataset.Suppliers) == 0 && len(dataset.Materials) == 0 {
		logger.Error("dataset empty", "path", path)
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	loadCtx, cancelLoad := context.WithTimeout(ctx, cfg.Loader.Timeout)
	defer cancelLoad()

	graphClient, err := buildGraphClient(loadCtx, logger, cfg)
	if err != nil {
		logger.Error("failed to create graph client", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := graphClient.Close(context.Background()); err != nil {
			logger.Warn("closing graph client failed", "error", err)
		}
	}()

	poolSize := cfg.Loader.Workers
	if *workers > 0 {
		poolSize = *workers
	}

	repo := repository.New(graphClient)
	loader := service.NewLoader(repo)
	bulk := service.NewBulkLoader(loader, poolSize)

	start := time.Now()
	logger.Info("loading dataset",
		"path", path,
		"suppliers", len(dataset.Suppliers),
		"materials", len(dataset.Materials),
		"bomEdges", len(dataset.BOMEdges),
		"orders", len(dataset.PurchaseOrders),
		"workers", poolSize)
	if err := bulk.LoadDataset(loadCtx, dataset); err != nil {
		logger.Error("dataset load failed", "error", err)
		os.Exit(1)
	}

	counts, err := loader.VerifyCounts(loadCtx, service.ExpectedCounts(dataset))
	if err != nil {
		logger.Error("count verification failed", "error", err)
		os.Exit(1)
	}
	logger.Info("graph counts verified",
		"suppliers", counts.Suppliers,
		"materials", counts.Materials,
		"purchaseOrders", counts.PurchaseOrders,
		"consumesEdges", counts.ConsumesEdges,
		"canSupplyEdges", counts.CanSupplyEdges)

	reportRiskQueries(loadCtx, logger, repo)

	logger.Info("ingestion complete", "duration", time.Since(start).String())
}

// reportRiskQueries runs the two canned risk views so a load ends with a
// first look at the data. Failures here are worth a warning, not an abort.
func reportRiskQueries(ctx context.Context, logger *slog.Logger, repo *repository.Repository) {
	single, err := repo.SingleSourcedMaterials(ctx, 5)
	if err != nil {
		logger.Warn("single-sourced query failed", "error", err)
	} else {
		for _, m := range single {
			logger.Info("single-sourced material",
				"material", m.MaterialID, "tier", m.Tier, "supplier", m.SupplierID)
		}
	}

	demand, err := repo.MostConsumedMaterials(ctx, domain.TierRawMaterial, 5)
	if err != nil {
		logger.Warn("demand query failed", "error", err)
		return
	}
	for _, m := range demand {
		logger.Info("high-demand material",
			"material", m.MaterialID, "tier", m.Tier, "parents", m.ParentCount)
	}
}

func resolveDatasetPath(baseDir, explicitPath string) (string, error) {
	if explicitPath != "" {
		if _, err := os.Stat(explicitPath); err != nil {
			return "", fmt.Errorf("stat %s: %w", explicitPath, err)
		}
		return explicitPath, nil
	}
	path := filepath.Join(baseDir, generator.DatasetFile)
	if _, err := os.Stat(path); err != nil {
		return "", fmt.Errorf("%w: %s", errMissingDataset, path)
	}
	return path, nil
}

func loadDataset(path string) (generator.Dataset, error) {
	file, err := os.Open(path)
	if err != nil {
		return generator.Dataset{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer file.Close()

	var dataset generator.Dataset
	if err := json.NewDecoder(file).Decode(&dataset); err != nil {
		return generator.Dataset{}, fmt.Errorf("decode %s: %w", path, err)
	}
	return dataset, nil
}

func buildGraphClient(ctx context.Context, logger *slog.Logger, cfg config.Config) (graph.Client, error) {
	if cfg.Graph.URI == "" {
		return nil, fmt.Errorf("CHAINSYNTH_GRAPH_URI is required for ingestion")
	}
	opts := graph.Options{
		URI:            cfg.Graph.URI,
		Database:       cfg.Graph.Database,
		Username:       cfg.Graph.Username,
		Password:       cfg.Graph.Password,
		MaxConnections: cfg.Graph.MaxConnections,
	}
	client, err := graph.NewNeo4jClient(ctx, opts)
	if err != nil {
		return nil, err
	}
	logger.Info("connected to graph", "uri", cfg.Graph.URI, "database", cfg.Graph.Database)
	return client, nil
}
