// Package downloader fetches remote artwork into a staging directory.
package downloader

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/gabriel-vasile/mimetype"
	"github.com/thanhpk/randstr"

	"github.com/bearbyt3z/bear-tunes/internal/logger"
)

const defaultParallel = 3

// Downloader saves remote files under random names in a staging directory.
type Downloader struct {
	Client    *http.Client
	UserAgent string
	Logger    *logger.Logger
	TmpDir    string
	Parallel  int
}

// New creates a new Downloader instance
func New(log *logger.Logger, tmpDir string) *Downloader {
	return &Downloader{
		Client:    &http.Client{Timeout: 30 * time.Second},
		UserAgent: "bear-tunes/1.0",
		Logger:    log,
		TmpDir:    tmpDir,
		Parallel:  defaultParallel,
	}
}

// Download fetches url into the staging directory and returns the path of the
// saved file. The extension follows the detected content type.
func (d *Downloader) Download(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("invalid download URL %q: %w", url, err)
	}
	if d.UserAgent != "" {
		req.Header.Set("User-Agent", d.UserAgent)
	}

	resp, err := d.Client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return "", fmt.Errorf("download cancelled")
		}
		return "", fmt.Errorf("failed to download %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("failed to download %s: HTTP %d", url, resp.StatusCode)
	}

	tmp, err := os.CreateTemp(d.TmpDir, "download-*")
	if err != nil {
		return "", fmt.Errorf("failed to create staging file: %w", err)
	}
	size, err := io.Copy(tmp, resp.Body)
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("failed to save %s: %w", url, err)
	}

	ext := ""
	if mt, err := mimetype.DetectFile(tmp.Name()); err == nil {
		ext = mt.Extension()
	}
	dest := filepath.Join(d.TmpDir, randstr.Hex(20)+ext)
	if err := os.Rename(tmp.Name(), dest); err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("failed to stage %s: %w", url, err)
	}

	d.Logger.Debug("  Downloaded %s (%s)", url, humanize.Bytes(uint64(size)))
	return dest, nil
}

// Result is the outcome of one download in a batch.
type Result struct {
	URL  string
	Path string
	Err  error
}

// DownloadAll downloads every non-empty URL in parallel. Results are returned
// in the order of urls; empty URLs yield an empty Result.
func (d *Downloader) DownloadAll(ctx context.Context, urls []string) []Result {
	results := make([]Result, len(urls))
	parallel := d.Parallel
	if parallel <= 0 {
		parallel = defaultParallel
	}

	var wg sync.WaitGroup
	semaphore := make(chan struct{}, parallel)

	for i, url := range urls {
		results[i].URL = url
		if url == "" {
			continue
		}

		wg.Add(1)
		go func(idx int, u string) {
			defer wg.Done()

			semaphore <- struct{}{}
			defer func() { <-semaphore }()

			if ctx.Err() != nil {
				results[idx].Err = fmt.Errorf("download cancelled")
				return
			}
			results[idx].Path, results[idx].Err = d.Download(ctx, u)
		}(i, url)
	}

	wg.Wait()
	return results
}
