package install

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"os"
	"path"

	"github.com/heroku/buildpacks-deb-packages/acquire"
	"github.com/heroku/buildpacks-deb-packages/control"
)

// download fetches p's .deb into destDir under a name derived from the
// last path segment of p.Filename, verifying it against p.SHA256 as it
// streams to disk.
func download(ctx context.Context, client *http.Client, p control.RepositoryPackage, destDir string) (string, error) {
	base := path.Base(p.Filename)
	if base == "" || base == "." || base == "/" {
		return "", &InvalidFilenameError{Name: p.Name, Filename: p.Filename}
	}

	url := p.RepositoryURI + "/" + p.Filename
	resp, err := acquire.DoWithRetry(ctx, client, func(reqCtx context.Context) (*http.Request, error) {
		return http.NewRequestWithContext(reqCtx, http.MethodGet, url, nil)
	})
	if err != nil {
		return "", fmt.Errorf("failed to request %s: %w", url, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status downloading %s: %s", url, resp.Status)
	}

	localPath := path.Join(destDir, base)
	f, err := os.Create(localPath)
	if err != nil {
		return "", fmt.Errorf("failed to create %s: %w", localPath, err)
	}
	defer f.Close()

	hasher := sha256.New()
	if _, err := io.Copy(f, io.TeeReader(resp.Body, hasher)); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", localPath, err)
	}

	actual := hex.EncodeToString(hasher.Sum(nil))
	if actual != p.SHA256 {
		return "", &ChecksumFailedError{URL: url, Expected: p.SHA256, Actual: actual}
	}
	return localPath, nil
}
