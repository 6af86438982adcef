package hpo

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	gh "github.com/google/go-github/v80/github"

	"github.com/custodia-labs/phenomap-cli/internal/logger"
)

const (
	// releaseOwner and releaseRepo identify the GitHub repository that
	// publishes the HPO annotation files as release assets.
	releaseOwner = "obophenotype"
	releaseRepo  = "human-phenotype-ontology"

	// DownloadTimeout bounds a single asset download.
	DownloadTimeout = 5 * time.Minute
)

// Downloader fetches HPO release assets from GitHub. The release
// endpoints are public, so no authentication is required.
type Downloader struct {
	gh   *gh.Client
	http *http.Client
}

// NewDownloader creates a downloader against the public GitHub API.
func NewDownloader() *Downloader {
	return &Downloader{
		gh:   gh.NewClient(nil),
		http: &http.Client{Timeout: DownloadTimeout},
	}
}

// DownloadLatest fetches the four distribution files from the most
// recent HPO release into destDir and returns the release tag.
func (d *Downloader) DownloadLatest(ctx context.Context, destDir string) (string, error) {
	release, _, err := d.gh.Repositories.GetLatestRelease(ctx, releaseOwner, releaseRepo)
	if err != nil {
		return "", fmt.Errorf("fetching latest HPO release: %w", err)
	}
	tag := release.GetTagName()
	logger.Info("Import: latest HPO release is %s", tag)

	assetURLs := make(map[string]string, len(release.Assets))
	for _, a := range release.Assets {
		assetURLs[a.GetName()] = a.GetBrowserDownloadURL()
	}

	if err := os.MkdirAll(destDir, 0700); err != nil {
		return "", fmt.Errorf("creating download directory: %w", err)
	}

	for _, name := range RequiredFiles {
		url, ok := assetURLs[name]
		if !ok {
			return "", fmt.Errorf("release %s has no asset %s", tag, name)
		}
		if err := d.downloadFile(ctx, url, filepath.Join(destDir, name)); err != nil {
			return "", err
		}
		logger.Debug("Import: downloaded %s", name)
	}

	return tag, nil
}

func (d *Downloader) downloadFile(ctx context.Context, url, dest string) error {
	name := filepath.Base(dest)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("building request for %s: %w", name, err)
	}

	resp, err := d.http.Do(req)
	if err != nil {
		return fmt.Errorf("downloading %s: %w", name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("downloading %s: unexpected status %d", name, resp.StatusCode)
	}

	f, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("creating %s: %w", name, err)
	}
	defer f.Close()

	if _, err := io.Copy(f, resp.Body); err != nil {
		return fmt.Errorf("writing %s: %w", name, err)
	}
	return nil
}
