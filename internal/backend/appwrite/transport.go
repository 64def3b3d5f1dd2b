package appwrite

import (
	"log/slog"
	"net/http"
	"time"
)

// authTransport stamps the Appwrite authentication headers on every request
// and logs each round trip at debug level.
type authTransport struct {
	projectID string
	apiKey    string
	next      http.RoundTripper
}

func (t *authTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	// RoundTrippers must not modify the caller's request.
	req = req.Clone(req.Context())
	req.Header.Set("X-Appwrite-Project", t.projectID)
	req.Header.Set("X-Appwrite-Key", t.apiKey)

	start := time.Now()
	resp, err := t.next.RoundTrip(req)
	duration := time.Since(start).Milliseconds()

	if err != nil {
		slog.Debug("API call failed",
			"method", req.Method,
			"path", req.URL.Path,
			"error", err,
			"duration_ms", duration,
		)
		return nil, err
	}
	slog.Debug("API call",
		"method", req.Method,
		"path", req.URL.Path,
		"status", resp.StatusCode,
		"duration_ms", duration,
	)
	return resp, nil
}
