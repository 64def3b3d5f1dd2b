// Package backend defines the remote persistence operations the seeder
// drives. Implementations live in subpackages (currently Appwrite).
package backend

import (
	"context"
	"io"
)

// Record is a document in a remote collection. Fields holds the
// collection-specific attributes; ID is assigned by the caller on create and
// reported by the server on list.
type Record struct {
	ID     string
	Fields map[string]any
}

// File describes a stored object in the media bucket.
type File struct {
	ID   string
	Name string
}

// Upload carries the content for a file creation. Size is a buffer-sizing
// hint; it may be -1 when the source length is unknown.
type Upload struct {
	Name        string
	ContentType string
	Size        int64
	Body        io.Reader
}

// Client is the remote API surface the seeder needs. All calls are
// synchronous; implementations must be safe for concurrent use.
type Client interface {
	// ListRecords returns one page of records from a collection. An empty
	// slice means the collection is drained.
	ListRecords(ctx context.Context, collectionID string) ([]Record, error)

	// CreateRecord stores a new document under the given ID.
	CreateRecord(ctx context.Context, collectionID, recordID string, fields map[string]any) (Record, error)

	// DeleteRecord removes a document by ID.
	DeleteRecord(ctx context.Context, collectionID, recordID string) error

	// ListFiles returns one page of files from the media bucket.
	ListFiles(ctx context.Context) ([]File, error)

	// CreateFile uploads content to the media bucket under the given ID.
	CreateFile(ctx context.Context, fileID string, upload Upload) (File, error)

	// DeleteFile removes a file by ID.
	DeleteFile(ctx context.Context, fileID string) error

	// FileViewURL returns the public view URL for a stored file.
	FileViewURL(fileID string) string
}
