package seeder

import (
	"context"
	"log/slog"
	"sync"
)

// bucketLabel marks bucket outcomes in the report; the real bucket ID is
// bound inside the backend client.
const bucketLabel = "bucket"

// resetCollection drains one collection: list a page, delete every record in
// it, repeat until a listing comes back empty. A pass that deletes nothing
// stops the loop so permanently failing deletes cannot spin it forever. A
// listing failure aborts this reset only; the run continues.
func (s *Seeder) resetCollection(ctx context.Context, report *Report, collectionID string) {
	for {
		records, err := s.client.ListRecords(ctx, collectionID)
		if err != nil {
			slog.Error("Failed to list collection", "collection", collectionID, "error", err)
			report.add(Outcome{Op: OpList, Collection: collectionID, Err: err})
			return
		}
		if len(records) == 0 {
			return
		}

		ids := make([]string, len(records))
		for i, rec := range records {
			ids[i] = rec.ID
		}
		deleted := s.deleteAll(ctx, report, collectionID, ids, func(ctx context.Context, id string) error {
			return s.client.DeleteRecord(ctx, collectionID, id)
		})
		if deleted == 0 {
			return
		}
	}
}

// resetBucket is resetCollection specialized to the storage bucket.
func (s *Seeder) resetBucket(ctx context.Context, report *Report) {
	for {
		files, err := s.client.ListFiles(ctx)
		if err != nil {
			slog.Error("Failed to list bucket", "error", err)
			report.add(Outcome{Op: OpList, Collection: bucketLabel, Err: err})
			return
		}
		if len(files) == 0 {
			return
		}

		ids := make([]string, len(files))
		for i, f := range files {
			ids[i] = f.ID
		}
		deleted := s.deleteAll(ctx, report, bucketLabel, ids, s.client.DeleteFile)
		if deleted == 0 {
			return
		}
	}
}

// deleteAll issues one delete per ID with at most DeleteConcurrency in
// flight, waits for all of them, and returns how many succeeded. Individual
// failures are warnings; they never abort sibling deletes.
func (s *Seeder) deleteAll(ctx context.Context, report *Report, collection string, ids []string, del func(context.Context, string) error) int {
	var wg sync.WaitGroup
	sem := make(chan struct{}, s.opts.DeleteConcurrency)
	errs := make([]error, len(ids))

	for i, id := range ids {
		wg.Add(1)
		sem <- struct{}{}
		i, id := i, id // per-iteration copies; loop variables are shared pre-Go 1.22
		go func() {
			defer wg.Done()
			defer func() { <-sem }()
			errs[i] = del(ctx, id)
		}()
	}
	wg.Wait()

	deleted := 0
	for i, id := range ids {
		if errs[i] != nil {
			slog.Warn("Failed to delete", "collection", collection, "id", id, "error", errs[i])
		} else {
			deleted++
		}
		report.add(Outcome{Op: OpDelete, Collection: collection, Name: id, Err: errs[i]})
	}
	return deleted
}
