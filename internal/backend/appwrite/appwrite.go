// Package appwrite provides an Appwrite-backed implementation of the backend.Client interface.
package appwrite

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strings"
	"time"

	"github.com/mealdash/seeder/internal/backend"
)

// Ensure Client implements backend.Client
var _ backend.Client = (*Client)(nil)

// Client talks to a single Appwrite project over its REST API.
type Client struct {
	endpoint   string
	projectID  string
	databaseID string
	bucketID   string
	http       *http.Client
}

// Settings carries the connection parameters for New.
type Settings struct {
	Endpoint   string
	ProjectID  string
	APIKey     string
	DatabaseID string
	BucketID   string
	Timeout    time.Duration
}

// New creates a Client for the given project. Authentication headers are
// stamped on every request by the underlying transport.
func New(s Settings) *Client {
	timeout := s.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		endpoint:   strings.TrimRight(s.Endpoint, "/"),
		projectID:  s.ProjectID,
		databaseID: s.DatabaseID,
		bucketID:   s.BucketID,
		http: &http.Client{
			Timeout: timeout,
			Transport: &authTransport{
				projectID: s.ProjectID,
				apiKey:    s.APIKey,
				next:      http.DefaultTransport,
			},
		},
	}
}

// ListRecords returns one page of documents from a collection.
func (c *Client) ListRecords(ctx context.Context, collectionID string) ([]backend.Record, error) {
	var payload struct {
		Total     int              `json:"total"`
		Documents []map[string]any `json:"documents"`
	}
	if err := c.do(ctx, http.MethodGet, c.documentsURL(collectionID), "", nil, &payload); err != nil {
		return nil, fmt.Errorf("failed to list documents in %s: %w", collectionID, err)
	}

	records := make([]backend.Record, 0, len(payload.Documents))
	for _, doc := range payload.Documents {
		records = append(records, recordFromDocument(doc))
	}
	return records, nil
}

// CreateRecord stores a new document under the given ID.
func (c *Client) CreateRecord(ctx context.Context, collectionID, recordID string, fields map[string]any) (backend.Record, error) {
	body, err := json.Marshal(map[string]any{
		"documentId": recordID,
		"data":       fields,
	})
	if err != nil {
		return backend.Record{}, fmt.Errorf("failed to encode document: %w", err)
	}

	var doc map[string]any
	if err := c.do(ctx, http.MethodPost, c.documentsURL(collectionID), "application/json", bytes.NewReader(body), &doc); err != nil {
		return backend.Record{}, fmt.Errorf("failed to create document in %s: %w", collectionID, err)
	}
	return recordFromDocument(doc), nil
}

// DeleteRecord removes a document by ID.
func (c *Client) DeleteRecord(ctx context.Context, collectionID, recordID string) error {
	target := c.documentsURL(collectionID) + "/" + url.PathEscape(recordID)
	if err := c.do(ctx, http.MethodDelete, target, "", nil, nil); err != nil {
		return fmt.Errorf("failed to delete document %s in %s: %w", recordID, collectionID, err)
	}
	return nil
}

// ListFiles returns one page of files from the media bucket.
func (c *Client) ListFiles(ctx context.Context) ([]backend.File, error) {
	var payload struct {
		Total int    `json:"total"`
		Files []file `json:"files"`
	}
	if err := c.do(ctx, http.MethodGet, c.filesURL(), "", nil, &payload); err != nil {
		return nil, fmt.Errorf("failed to list files: %w", err)
	}

	files := make([]backend.File, 0, len(payload.Files))
	for _, f := range payload.Files {
		files = append(files, backend.File{ID: f.ID, Name: f.Name})
	}
	return files, nil
}

// CreateFile uploads content to the media bucket as multipart form data.
func (c *Client) CreateFile(ctx context.Context, fileID string, upload backend.Upload) (backend.File, error) {
	var buf bytes.Buffer
	if upload.Size > 0 {
		buf.Grow(int(upload.Size))
	}

	form := multipart.NewWriter(&buf)
	if err := form.WriteField("fileId", fileID); err != nil {
		return backend.File{}, fmt.Errorf("failed to encode upload form: %w", err)
	}

	contentType := upload.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, upload.Name))
	header.Set("Content-Type", contentType)

	part, err := form.CreatePart(header)
	if err != nil {
		return backend.File{}, fmt.Errorf("failed to encode upload form: %w", err)
	}
	if _, err := io.Copy(part, upload.Body); err != nil {
		return backend.File{}, fmt.Errorf("failed to read upload body: %w", err)
	}
	if err := form.Close(); err != nil {
		return backend.File{}, fmt.Errorf("failed to encode upload form: %w", err)
	}

	var created file
	if err := c.do(ctx, http.MethodPost, c.filesURL(), form.FormDataContentType(), &buf, &created); err != nil {
		return backend.File{}, fmt.Errorf("failed to create file %s: %w", upload.Name, err)
	}
	return backend.File{ID: created.ID, Name: created.Name}, nil
}

// DeleteFile removes a file by ID.
func (c *Client) DeleteFile(ctx context.Context, fileID string) error {
	target := c.filesURL() + "/" + url.PathEscape(fileID)
	if err := c.do(ctx, http.MethodDelete, target, "", nil, nil); err != nil {
		return fmt.Errorf("failed to delete file %s: %w", fileID, err)
	}
	return nil
}

// FileViewURL returns the public view URL for a stored file.
func (c *Client) FileViewURL(fileID string) string {
	return fmt.Sprintf("%s/storage/buckets/%s/files/%s/view?project=%s",
		c.endpoint, c.bucketID, url.PathEscape(fileID), url.QueryEscape(c.projectID))
}

// file is the wire shape of a bucket object.
type file struct {
	ID   string `json:"$id"`
	Name string `json:"name"`
}

func (c *Client) documentsURL(collectionID string) string {
	return fmt.Sprintf("%s/databases/%s/collections/%s/documents", c.endpoint, c.databaseID, collectionID)
}

func (c *Client) filesURL() string {
	return fmt.Sprintf("%s/storage/buckets/%s/files", c.endpoint, c.bucketID)
}

// do executes one API call and decodes the JSON response into out when out is
// non-nil. Non-2xx responses are turned into errors carrying the server's
// message.
func (c *Client) do(ctx context.Context, method, target, contentType string, body io.Reader, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return decodeError(resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// decodeError extracts the message from Appwrite's error envelope.
func decodeError(resp *http.Response) error {
	var payload struct {
		Message string `json:"message"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err == nil && payload.Message != "" {
		return fmt.Errorf("%s (status %d)", payload.Message, resp.StatusCode)
	}
	return fmt.Errorf("unexpected status %d", resp.StatusCode)
}

// recordFromDocument splits a raw document into its server-assigned ID and
// user attributes. Keys prefixed with $ are Appwrite metadata.
func recordFromDocument(doc map[string]any) backend.Record {
	rec := backend.Record{Fields: make(map[string]any)}
	for key, value := range doc {
		if key == "$id" {
			rec.ID, _ = value.(string)
			continue
		}
		if strings.HasPrefix(key, "$") {
			continue
		}
		rec.Fields[key] = value
	}
	return rec
}
