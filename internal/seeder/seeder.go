// Package seeder orchestrates the wipe-and-reload run: reset the remote
// collections and bucket, then recreate categories, customizations and menu
// items from the dataset, wiring relationships by remote ID.
package seeder

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/mealdash/seeder/internal/backend"
	"github.com/mealdash/seeder/internal/dataset"
)

// ImageImporter imports a source image into the bucket and returns its view
// URL. An error means the dependent menu item must be skipped.
type ImageImporter interface {
	Import(ctx context.Context, srcURL string) (string, error)
}

// Collections holds the remote collection IDs a run touches.
type Collections struct {
	Categories         string
	Customizations     string
	Menu               string
	MenuCustomizations string
}

// Options configure a run. Delays exist only to stay under the remote
// project's request-rate limits; zero disables them.
type Options struct {
	Collections       Collections
	CreateDelay       time.Duration
	LinkDelay         time.Duration
	DeleteConcurrency int
}

// Seeder drives wipe-and-reload runs against one remote project.
type Seeder struct {
	client   backend.Client
	importer ImageImporter
	opts     Options
}

// New creates a Seeder.
func New(client backend.Client, importer ImageImporter, opts Options) *Seeder {
	if opts.DeleteConcurrency < 1 {
		opts.DeleteConcurrency = 1
	}
	return &Seeder{client: client, importer: importer, opts: opts}
}

// Run executes one full run: resets in fixed order, then creation phases in
// dataset order. Individual failures are logged and recorded in the returned
// Report, never propagated; the only early exit is context cancellation.
func (s *Seeder) Run(ctx context.Context, ds *dataset.Dataset) *Report {
	report := &Report{}
	start := time.Now()

	slog.Info("Resetting collections and bucket")
	for _, collectionID := range []string{
		s.opts.Collections.Categories,
		s.opts.Collections.Customizations,
		s.opts.Collections.Menu,
		s.opts.Collections.MenuCustomizations,
	} {
		s.resetCollection(ctx, report, collectionID)
	}
	s.resetBucket(ctx, report)

	categoryIDs := s.createCategories(ctx, report, ds.Categories)
	customizationIDs := s.createCustomizations(ctx, report, ds.Customizations)
	s.createMenuItems(ctx, report, ds.MenuItems, categoryIDs, customizationIDs)

	if err := ctx.Err(); err != nil {
		slog.Warn("Seeding aborted", "error", err)
		return report
	}

	slog.Info("Seeding complete",
		"deleted", report.Deleted(),
		"created", report.Created(),
		"uploaded", report.Uploaded(),
		"linked", report.Linked(),
		"warnings", len(report.Warnings()),
		"failures", len(report.Failures()),
		"duration", time.Since(start).Round(time.Millisecond),
	)
	return report
}

// createCategories creates each category in dataset order and returns the
// name → remote ID map for the ones that succeeded.
func (s *Seeder) createCategories(ctx context.Context, report *Report, categories []dataset.Category) map[string]string {
	collectionID := s.opts.Collections.Categories
	ids := make(map[string]string, len(categories))

	for _, c := range categories {
		if ctx.Err() != nil {
			break
		}

		rec, err := s.client.CreateRecord(ctx, collectionID, uuid.New().String(), map[string]any{
			"name":        c.Name,
			"description": c.Description,
		})
		report.add(Outcome{Op: OpCreate, Collection: collectionID, Name: c.Name, Err: err})
		if err != nil {
			slog.Error("Failed to create category", "name", c.Name, "error", err)
		} else {
			ids[c.Name] = rec.ID
			slog.Info("Category created", "name", c.Name, "id", rec.ID)
		}
		s.pause(ctx, s.opts.CreateDelay)
	}
	return ids
}

// createCustomizations mirrors createCategories for the customization list.
func (s *Seeder) createCustomizations(ctx context.Context, report *Report, customizations []dataset.Customization) map[string]string {
	collectionID := s.opts.Collections.Customizations
	ids := make(map[string]string, len(customizations))

	for _, c := range customizations {
		if ctx.Err() != nil {
			break
		}

		rec, err := s.client.CreateRecord(ctx, collectionID, uuid.New().String(), map[string]any{
			"name":  c.Name,
			"price": c.Price,
			"type":  c.Type,
		})
		report.add(Outcome{Op: OpCreate, Collection: collectionID, Name: c.Name, Err: err})
		if err != nil {
			slog.Error("Failed to create customization", "name", c.Name, "error", err)
		} else {
			ids[c.Name] = rec.ID
			slog.Info("Customization created", "name", c.Name, "id", rec.ID)
		}
		s.pause(ctx, s.opts.CreateDelay)
	}
	return ids
}

// createMenuItems imports each item's image, creates the menu record with the
// bucket view URL and the category's remote ID, then creates one join record
// per customization name. An item whose image import fails is skipped
// entirely: no record, no links.
func (s *Seeder) createMenuItems(ctx context.Context, report *Report, items []dataset.MenuItem, categoryIDs, customizationIDs map[string]string) {
	menuID := s.opts.Collections.Menu
	linkID := s.opts.Collections.MenuCustomizations

	for _, item := range items {
		if ctx.Err() != nil {
			break
		}

		viewURL, err := s.importer.Import(ctx, item.ImageURL)
		report.add(Outcome{Op: OpImport, Collection: menuID, Name: item.Name, Err: err})
		if err != nil {
			slog.Warn("Skipping menu item, image import failed", "name", item.Name, "error", err)
			continue
		}

		fields := map[string]any{
			"name":        item.Name,
			"description": item.Description,
			"image_url":   viewURL,
			"price":       item.Price,
			"rating":      item.Rating,
			"calories":    item.Calories,
			"protein":     item.Protein,
		}
		if categoryID, ok := categoryIDs[item.CategoryName]; ok {
			fields["categories"] = categoryID
		} else {
			slog.Warn("No category for menu item", "name", item.Name, "category", item.CategoryName)
		}

		rec, err := s.client.CreateRecord(ctx, menuID, uuid.New().String(), fields)
		report.add(Outcome{Op: OpCreate, Collection: menuID, Name: item.Name, Err: err})
		if err != nil {
			slog.Error("Failed to create menu item", "name", item.Name, "error", err)
			s.pause(ctx, s.opts.CreateDelay)
			continue
		}
		slog.Info("Menu item created", "name", item.Name, "id", rec.ID)

		for _, custName := range item.Customizations {
			s.pause(ctx, s.opts.LinkDelay)

			outcomeName := item.Name + "/" + custName
			customizationID, ok := customizationIDs[custName]
			if !ok {
				err := fmt.Errorf("customization %q has no remote ID", custName)
				slog.Warn("Failed to link customization", "item", item.Name, "customization", custName, "error", err)
				report.add(Outcome{Op: OpLink, Collection: linkID, Name: outcomeName, Err: err})
				continue
			}

			_, err := s.client.CreateRecord(ctx, linkID, uuid.New().String(), map[string]any{
				"menu":           rec.ID,
				"customizations": customizationID,
			})
			report.add(Outcome{Op: OpLink, Collection: linkID, Name: outcomeName, Err: err})
			if err != nil {
				slog.Warn("Failed to link customization", "item", item.Name, "customization", custName, "error", err)
			}
		}

		s.pause(ctx, s.opts.CreateDelay)
	}
}

// pause sleeps for d unless the context ends first.
func (s *Seeder) pause(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
	case <-ctx.Done():
	}
}
