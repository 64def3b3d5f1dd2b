// Package images fetches remote images and re-uploads them into the media
// bucket, producing stable view URLs for seeded records.
package images

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"path"
	"time"

	"github.com/google/uuid"

	"github.com/mealdash/seeder/internal/backend"
)

// Importer copies images from their source addresses into the bucket.
type Importer struct {
	client  backend.Client
	fetcher *http.Client
}

// New creates an Importer. A nil fetcher falls back to a client with a 30s
// timeout.
func New(client backend.Client, fetcher *http.Client) *Importer {
	if fetcher == nil {
		fetcher = &http.Client{Timeout: 30 * time.Second}
	}
	return &Importer{client: client, fetcher: fetcher}
}

// Import downloads the image at srcURL and stores it in the bucket under a
// fresh ID, returning the stored file's public view URL. Fetch and upload
// failures are logged here and returned as errors; callers treat an error as
// "skip the dependent work", never as fatal for the whole run.
func (i *Importer) Import(ctx context.Context, srcURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srcURL, nil)
	if err != nil {
		slog.Error("Image fetch failed", "url", srcURL, "error", err)
		return "", fmt.Errorf("failed to fetch image: %w", err)
	}

	resp, err := i.fetcher.Do(req)
	if err != nil {
		slog.Error("Image fetch failed", "url", srcURL, "error", err)
		return "", fmt.Errorf("failed to fetch image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		slog.Error("Image fetch failed", "url", srcURL, "status", resp.StatusCode)
		return "", fmt.Errorf("failed to fetch image: status %d", resp.StatusCode)
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	fileID := uuid.New().String()
	upload := backend.Upload{
		Name:        fileName(srcURL),
		ContentType: contentType,
		Size:        resp.ContentLength,
		Body:        resp.Body,
	}
	if _, err := i.client.CreateFile(ctx, fileID, upload); err != nil {
		slog.Error("Image upload failed", "url", srcURL, "error", err)
		return "", fmt.Errorf("failed to upload image: %w", err)
	}

	return i.client.FileViewURL(fileID), nil
}

// fileName derives the stored name from the source URL's last path segment,
// with a timestamped fallback when the URL has no usable segment.
func fileName(srcURL string) string {
	if u, err := url.Parse(srcURL); err == nil {
		if base := path.Base(u.Path); base != "" && base != "." && base != "/" {
			return base
		}
	}
	return fmt.Sprintf("upload-%d", time.Now().UnixNano())
}
