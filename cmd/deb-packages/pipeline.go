package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"github.com/heroku/buildpacks-deb-packages/acquire"
	"github.com/heroku/buildpacks-deb-packages/control"
	"github.com/heroku/buildpacks-deb-packages/debian"
	"github.com/heroku/buildpacks-deb-packages/layer"
	"github.com/heroku/buildpacks-deb-packages/reporter"
)

// indexAcquireConcurrency bounds the number of simultaneous release/index
// network fetches, matching the installer's ioConcurrency discipline for
// the acquire phase's own I/O fan-out.
const indexAcquireConcurrency = 8

// acquirePackageIndex fetches and verifies every Source's InRelease and
// Packages.gz files, caching each under its own per-URL layer in
// layersDir, and feeds every parsed stanza into the returned PackageIndex.
func acquirePackageIndex(ctx context.Context, layersDir string, sources []debian.Source, client *http.Client, listener reporter.Listener) (*control.PackageIndex, error) {
	index := control.New()
	fetcher := acquire.NewFetcher(client)

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(indexAcquireConcurrency)

	for _, source := range sources {
		source := source
		for _, suite := range source.Suites {
			suite := suite
			group.Go(func() error {
				return acquireSuite(groupCtx, layersDir, fetcher, index, source, suite, listener)
			})
		}
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}
	return index, nil
}

func acquireSuite(ctx context.Context, layersDir string, fetcher *acquire.Fetcher, index *control.PackageIndex, source debian.Source, suite string, listener reporter.Listener) error {
	releaseURL := fmt.Sprintf("%s/dists/%s/InRelease", source.URI, suite)
	releaseLayer := sourceLayerName("release", releaseURL)

	var oldReleaseMeta layer.ReleaseMetadata
	oldJSON, _ := os.ReadFile(metadataJSONPath(layersDir, releaseLayer))
	_ = json.Unmarshal(oldJSON, &oldReleaseMeta)

	release, err := fetcher.FetchRelease(ctx, source, suite, oldReleaseMeta.ETag)
	if err != nil {
		return fmt.Errorf("failed to fetch %s: %w", releaseURL, err)
	}

	releaseDir := layerDir(layersDir, releaseLayer)
	var parsed acquire.ReleaseFile
	if release.NotModified {
		listener(&reporter.EventLayerRestored{Layer: releaseLayer})
		cached, err := os.ReadFile(filepath.Join(releaseDir, "release"))
		if err != nil {
			return fmt.Errorf("cached release for %s missing on disk: %w", releaseURL, err)
		}
		parsed, err = acquire.ParseRelease(cached)
		if err != nil {
			return err
		}
	} else {
		decision := layer.EvaluateRelease(oldJSON, layer.ReleaseMetadata{ETag: release.ETag})
		if decision.Keep {
			listener(&reporter.EventLayerRestored{Layer: releaseLayer})
		} else {
			listener(&reporter.EventLayerInvalidated{Layer: releaseLayer, Reason: decision.Reason})
		}
		if err := persistLayer(layersDir, releaseLayer, "release", releaseURL, release.Body, layer.ReleaseMetadata{ETag: release.ETag}); err != nil {
			return err
		}
		parsed = release.Parsed
	}

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(indexAcquireConcurrency)
	for _, component := range source.Components {
		component := component
		group.Go(func() error {
			return acquireIndex(groupCtx, layersDir, fetcher, index, source, suite, component, parsed, listener)
		})
	}
	return group.Wait()
}

func acquireIndex(ctx context.Context, layersDir string, fetcher *acquire.Fetcher, index *control.PackageIndex, source debian.Source, suite, component string, release acquire.ReleaseFile, listener reporter.Listener) error {
	indexedPath := fmt.Sprintf("%s/binary-%s/Packages.gz", component, source.Arch)
	entry, ok := release.Entry(indexedPath)
	if !ok {
		return &acquire.MissingPackageIndexReleaseHashError{URI: source.URI, Name: indexedPath}
	}

	indexLayer := sourceLayerName("index", source.URI+"/"+suite+"/"+indexedPath)
	indexDir := layerDir(layersDir, indexLayer)

	oldJSON, _ := os.ReadFile(metadataJSONPath(layersDir, indexLayer))
	var oldMeta layer.IndexMetadata
	_ = json.Unmarshal(oldJSON, &oldMeta)

	if oldMeta.Hash == entry.Hash {
		body, err := os.ReadFile(filepath.Join(indexDir, "package_index"))
		if err == nil {
			listener(&reporter.EventLayerRestored{Layer: indexLayer})
			return acquire.ParseIndex(ctx, source.URI, body, index)
		}
	}

	fetched, err := fetcher.FetchIndex(ctx, source, suite, component, source.Arch, release)
	if err != nil {
		return fmt.Errorf("failed to fetch index %s: %w", indexedPath, err)
	}

	decision := layer.EvaluateIndex(oldJSON, layer.IndexMetadata{Hash: fetched.ExpectedHash})
	if decision.Keep {
		listener(&reporter.EventLayerRestored{Layer: indexLayer})
	} else {
		listener(&reporter.EventLayerInvalidated{Layer: indexLayer, Reason: decision.Reason})
	}
	indexURL := fmt.Sprintf("%s/dists/%s/%s", source.URI, suite, indexedPath)
	if err := persistLayer(layersDir, indexLayer, "package_index", indexURL, fetched.Body, layer.IndexMetadata{Hash: fetched.ExpectedHash}); err != nil {
		return err
	}

	return acquire.ParseIndex(ctx, source.URI, fetched.Body, index)
}

// persistLayer writes one release or index layer: the verified body file,
// a sibling ".url" file recording (informationally) which upstream URL the
// body came from, the JSON cache-metadata sidecar, and the
// lifecycle-facing TOML.
func persistLayer(layersDir, name, filename, url string, body []byte, metadata any) error {
	dir := layerDir(layersDir, name)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(dir, filename), body, 0o644); err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(dir, filename+".url"), []byte(url), 0o644); err != nil {
		return err
	}
	metadataJSON, err := json.Marshal(metadata)
	if err != nil {
		return err
	}
	if err := os.WriteFile(metadataJSONPath(layersDir, name), metadataJSON, 0o644); err != nil {
		return err
	}
	return writeLayerTOML(layersDir, name, layerTypes{Cache: true}, metadata)
}

func metadataJSONPath(layersDir, name string) string {
	return layerDir(layersDir, name) + ".metadata.json"
}
