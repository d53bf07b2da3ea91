package downloader

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/bearbyt3z/bear-tunes/internal/logger"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x02\x00\x00\x00")

func newServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/cover.png", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("User-Agent") != "bear-tunes/1.0" {
			w.WriteHeader(http.StatusForbidden)
			return
		}
		w.Write(pngHeader)
	})
	mux.HandleFunc("/missing", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestDownloadDetectsExtension(t *testing.T) {
	srv := newServer(t)
	tmpDir := t.TempDir()
	d := New(logger.New(false), tmpDir)

	path, err := d.Download(context.Background(), srv.URL+"/cover.png")
	if err != nil {
		t.Fatalf("Download() error: %v", err)
	}
	if filepath.Dir(path) != tmpDir {
		t.Errorf("file saved outside staging dir: %s", path)
	}
	if !strings.HasSuffix(path, ".png") {
		t.Errorf("expected .png extension, got %s", path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != string(pngHeader) {
		t.Error("downloaded content differs")
	}
}

func TestDownloadHTTPError(t *testing.T) {
	srv := newServer(t)
	tmpDir := t.TempDir()
	d := New(logger.New(false), tmpDir)

	if _, err := d.Download(context.Background(), srv.URL+"/missing"); err == nil {
		t.Fatal("expected error for 404 response")
	}
	entries, _ := os.ReadDir(tmpDir)
	if len(entries) != 0 {
		t.Errorf("expected no staged files, got %d", len(entries))
	}
}

func TestDownloadAllKeepsOrder(t *testing.T) {
	srv := newServer(t)
	d := New(logger.New(false), t.TempDir())

	urls := []string{srv.URL + "/cover.png", "", srv.URL + "/missing", srv.URL + "/cover.png"}
	results := d.DownloadAll(context.Background(), urls)

	if len(results) != len(urls) {
		t.Fatalf("expected %d results, got %d", len(urls), len(results))
	}
	if results[0].Err != nil || results[0].Path == "" {
		t.Errorf("first download failed: %v", results[0].Err)
	}
	if results[1].Path != "" || results[1].Err != nil {
		t.Errorf("empty URL should yield empty result, got %+v", results[1])
	}
	if results[2].Err == nil {
		t.Error("expected error for missing file")
	}
	if results[3].Path == results[0].Path {
		t.Error("downloads of the same URL must not share a staged file")
	}
}

func TestDownloadAllCancelled(t *testing.T) {
	srv := newServer(t)
	d := New(logger.New(false), t.TempDir())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	for _, r := range d.DownloadAll(ctx, []string{srv.URL + "/cover.png"}) {
		if r.Err == nil {
			t.Error("expected cancellation error")
		}
	}
}
