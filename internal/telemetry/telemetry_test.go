package telemetry

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestPush(t *testing.T) {
	var gotMethod, gotPath string
	var gotBody []byte
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		body, err := io.ReadAll(r.Body)
		if err != nil {
			t.Errorf("read push body: %v", err)
		}
		gotBody = body
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	err := Push(server.URL, Summary{
		Deleted:  7,
		Created:  3,
		Uploaded: 1,
		Linked:   1,
		Duration: 2 * time.Second,
	})
	if err != nil {
		t.Fatalf("Push failed: %v", err)
	}

	if gotMethod != http.MethodPut {
		t.Errorf("method = %s, want PUT", gotMethod)
	}
	if gotPath != "/metrics/job/mealdash_seeder" {
		t.Errorf("path = %s", gotPath)
	}
	for _, name := range []string{
		"mealdash_seeder_records_created",
		"mealdash_seeder_records_deleted",
		"mealdash_seeder_run_duration_seconds",
	} {
		if !strings.Contains(string(gotBody), name) {
			t.Errorf("push body missing metric %s", name)
		}
	}
}

func TestPushFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gateway exploded", http.StatusInternalServerError)
	}))
	defer server.Close()

	if err := Push(server.URL, Summary{}); err == nil {
		t.Fatal("expected error for failing gateway")
	}
}
