// Package acquire fetches, verifies, and decompresses the InRelease and
// Packages.gz files that make up a Source's package universe, and feeds
// the parsed stanzas into a control.PackageIndex.
package acquire

import (
	"compress/gzip"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"

	"github.com/heroku/buildpacks-deb-packages/debian"
	"github.com/heroku/buildpacks-deb-packages/pgp"
)

// Fetcher downloads and verifies release and index files for one or more
// Sources, reusing a single HTTP client across every request it issues.
type Fetcher struct {
	Client *http.Client
}

// NewFetcher returns a Fetcher using client, or http.DefaultClient if nil.
func NewFetcher(client *http.Client) *Fetcher {
	if client == nil {
		client = http.DefaultClient
	}
	return &Fetcher{Client: client}
}

// Release is the result of fetching one Source's InRelease file for one
// suite: the verified cleartext body, the response ETag (for the caller's
// layer cache), and the parsed release metadata.
type Release struct {
	Body    []byte
	ETag    string
	Parsed  ReleaseFile
	// NotModified is true when the server's ETag matched cachedETag and no
	// body was downloaded; Body and Parsed are unset in that case and the
	// caller should reuse its cached copy.
	NotModified bool
}

// FetchRelease requests "{source.URI}/dists/{suite}/InRelease", verifying
// it against source's pinned certificate. cachedETag, if non-empty, is
// sent as If-None-Match.
func (f *Fetcher) FetchRelease(ctx context.Context, source debian.Source, suite, cachedETag string) (Release, error) {
	url := fmt.Sprintf("%s/dists/%s/InRelease", source.URI, suite)

	resp, err := DoWithRetry(ctx, f.Client, func(reqCtx context.Context) (*http.Request, error) {
		req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, url, nil)
		if err != nil {
			return nil, err
		}
		if cachedETag != "" {
			req.Header.Set("If-None-Match", cachedETag)
		}
		return req, nil
	})
	if err != nil {
		return Release{}, fmt.Errorf("failed to request %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotModified {
		return Release{NotModified: true, ETag: cachedETag}, nil
	}
	if resp.StatusCode != http.StatusOK {
		return Release{}, fmt.Errorf("unexpected status fetching %s: %s", url, resp.Status)
	}

	signed, err := io.ReadAll(resp.Body)
	if err != nil {
		return Release{}, fmt.Errorf("failed to read %s: %w", url, err)
	}

	verifier, err := pgp.NewVerifier(source.SignedByCertificate)
	if err != nil {
		return Release{}, fmt.Errorf("failed to load pinned certificate for %s: %w", source.URI, err)
	}
	cleartext, err := verifier.Verify(signed)
	if err != nil {
		return Release{}, fmt.Errorf("failed to verify %s: %w", url, err)
	}

	parsed, err := ParseRelease(cleartext)
	if err != nil {
		return Release{}, err
	}

	return Release{
		Body:   cleartext,
		ETag:   resp.Header.Get("ETag"),
		Parsed: parsed,
	}, nil
}

// Index is the decompressed contents of a single component/arch
// Packages.gz, plus the expected hash it was checked against.
type Index struct {
	Body         []byte
	ExpectedHash string
}

// FetchIndex downloads and decompresses one component's Packages.gz for
// arch, using the by-hash path when release.AcquireByHash is set. The
// downloaded (compressed) bytes are hashed as they're decompressed; a
// mismatch against the release file's declared hash discards the result.
func (f *Fetcher) FetchIndex(ctx context.Context, source debian.Source, suite, component string, arch debian.ArchitectureName, release ReleaseFile) (Index, error) {
	indexPath := fmt.Sprintf("%s/binary-%s/Packages.gz", component, arch)
	entry, ok := release.Entry(indexPath)
	if !ok {
		return Index{}, &MissingPackageIndexReleaseHashError{URI: source.URI, Name: indexPath}
	}

	var url string
	if release.AcquireByHash {
		url = fmt.Sprintf("%s/dists/%s/%s/binary-%s/by-hash/SHA256/%s", source.URI, suite, component, arch, entry.Hash)
	} else {
		url = fmt.Sprintf("%s/dists/%s/%s", source.URI, suite, indexPath)
	}

	resp, err := DoWithRetry(ctx, f.Client, func(reqCtx context.Context) (*http.Request, error) {
		return http.NewRequestWithContext(reqCtx, http.MethodGet, url, nil)
	})
	if err != nil {
		return Index{}, fmt.Errorf("failed to request %s: %w", url, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return Index{}, fmt.Errorf("unexpected status fetching %s: %s", url, resp.Status)
	}

	hasher := sha256.New()
	tee := io.TeeReader(resp.Body, hasher)
	gz, err := gzip.NewReader(tee)
	if err != nil {
		return Index{}, fmt.Errorf("failed to open %s as gzip: %w", url, err)
	}
	gz.Multistream(true)
	decompressed, err := io.ReadAll(gz)
	if err != nil {
		return Index{}, fmt.Errorf("failed to decompress %s: %w", url, err)
	}
	// Drain any trailing bytes the gzip reader didn't need so the hash
	// covers the whole downloaded body, matching the hash the release file
	// declares over the compressed file.
	io.Copy(io.Discard, tee)

	actual := hex.EncodeToString(hasher.Sum(nil))
	if actual != entry.Hash {
		return Index{}, &ChecksumFailedError{URL: url, Expected: entry.Hash, Actual: actual}
	}

	return Index{Body: decompressed, ExpectedHash: entry.Hash}, nil
}
