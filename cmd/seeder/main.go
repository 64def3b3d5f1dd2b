package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/mealdash/seeder/internal/backend/appwrite"
	"github.com/mealdash/seeder/internal/config"
	"github.com/mealdash/seeder/internal/dataset"
	"github.com/mealdash/seeder/internal/images"
	"github.com/mealdash/seeder/internal/seeder"
	"github.com/mealdash/seeder/internal/telemetry"
	"github.com/mealdash/seeder/pkg/logging"
)

func main() {
	datasetPath := flag.String("dataset", "", "seed from an alternate dataset JSON file instead of the built-in data")
	dryRun := flag.Bool("dry-run", false, "validate the dataset and print the plan without touching the remote project")
	verbose := flag.Bool("v", false, "enable debug logging")
	flag.Parse()

	// Optional .env for local runs; real deployments set the environment.
	// Loaded before logging setup so LOG_LEVEL from the file applies.
	loadedEnv := godotenv.Load() == nil

	if *verbose {
		logging.SetupWithLevel(slog.LevelDebug)
	} else {
		logging.Setup()
	}
	if loadedEnv {
		slog.Debug("Loaded .env file")
	}

	ds, err := loadDataset(*datasetPath)
	if err != nil {
		slog.Error("Failed to load dataset", "error", err)
		os.Exit(1)
	}

	if *dryRun {
		printPlan(ds)
		return
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client := appwrite.New(appwrite.Settings{
		Endpoint:   cfg.Endpoint,
		ProjectID:  cfg.ProjectID,
		APIKey:     cfg.APIKey,
		DatabaseID: cfg.DatabaseID,
		BucketID:   cfg.BucketID,
		Timeout:    cfg.HTTPTimeout,
	})
	slog.Info("Seeding remote project", "endpoint", cfg.Endpoint, "project", cfg.ProjectID)

	s := seeder.New(client, images.New(client, nil), seeder.Options{
		Collections: seeder.Collections{
			Categories:         cfg.CategoriesCollection,
			Customizations:     cfg.CustomizationsCollection,
			Menu:               cfg.MenuCollection,
			MenuCustomizations: cfg.MenuCustomizationsCollection,
		},
		CreateDelay:       cfg.CreateDelay,
		LinkDelay:         cfg.LinkDelay,
		DeleteConcurrency: cfg.DeleteConcurrency,
	})

	start := time.Now()
	report := s.Run(ctx, ds)

	// Individual failures were already logged and never fail the process;
	// metrics give operators the aggregate view.
	if cfg.PushgatewayURL != "" {
		summary := telemetry.Summary{
			Deleted:  report.Deleted(),
			Created:  report.Created(),
			Uploaded: report.Uploaded(),
			Linked:   report.Linked(),
			Warnings: len(report.Warnings()),
			Failures: len(report.Failures()),
			Duration: time.Since(start),
		}
		if err := telemetry.Push(cfg.PushgatewayURL, summary); err != nil {
			slog.Warn("Failed to push metrics", "error", err)
		}
	}
}

func loadDataset(path string) (*dataset.Dataset, error) {
	if path != "" {
		return dataset.LoadFile(path)
	}
	return dataset.Load()
}

// printPlan reports what a real run would create, without any remote calls.
func printPlan(ds *dataset.Dataset) {
	links := 0
	for _, item := range ds.MenuItems {
		links += len(item.Customizations)
	}
	fmt.Printf("dataset ok: %d categories, %d customizations, %d menu items, %d links\n",
		len(ds.Categories), len(ds.Customizations), len(ds.MenuItems), links)
	for _, item := range ds.MenuItems {
		fmt.Printf("  %-24s %-10s %d customizations\n", item.Name, item.CategoryName, len(item.Customizations))
	}
}
