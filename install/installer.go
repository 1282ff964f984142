// Package install downloads, verifies, and unpacks the selected
// RepositoryPackages into the packages layer.
package install

import (
	"context"
	"net/http"
	"os"

	"golang.org/x/sync/errgroup"

	"github.com/heroku/buildpacks-deb-packages/control"
	"github.com/heroku/buildpacks-deb-packages/debian"
	"github.com/heroku/buildpacks-deb-packages/layer"
	"github.com/heroku/buildpacks-deb-packages/reporter"
)

// ioConcurrency bounds the number of simultaneous download-then-extract
// tasks, so an install of hundreds of packages doesn't open hundreds of
// connections at once.
const ioConcurrency = 8

// Installer downloads and extracts a resolved package set into a single
// packages layer, skipping the work entirely when the layer's cache
// metadata already matches.
type Installer struct {
	Client   *http.Client
	Listener reporter.Listener
}

// New returns an Installer. A nil client uses http.DefaultClient; a nil
// listener discards notifications.
func New(client *http.Client, listener reporter.Listener) *Installer {
	if client == nil {
		client = http.DefaultClient
	}
	if listener == nil {
		listener = reporter.Discard
	}
	return &Installer{Client: client, Listener: listener}
}

// Install computes this build's PackagesMetadata for distro and packages,
// compares it against oldMetadataJSON (the layer's previously stored
// metadata, nil if none), and either keeps the existing layerRoot
// untouched or downloads and extracts every package into it. tempDir is a
// scratch directory for downloaded .deb files; it's the caller's to clean
// up. Returns the metadata to persist for the next build.
func (inst *Installer) Install(ctx context.Context, distro debian.Distro, packages []control.RepositoryPackage, layerRoot, tempDir string) (layer.PackagesMetadata, error) {
	checksums := make(map[string]string, len(packages))
	for _, p := range packages {
		checksums[p.Name] = p.SHA256
	}
	current := layer.PackagesMetadata{Distro: distro, PackageChecksums: checksums}

	oldMetadataJSON, _ := os.ReadFile(metadataPath(layerRoot))
	decision := layer.EvaluatePackages(oldMetadataJSON, current)
	if decision.Keep {
		inst.Listener(&reporter.EventLayerRestored{Layer: "packages"})
		return current, nil
	}
	inst.Listener(&reporter.EventLayerInvalidated{Layer: "packages", Reason: decision.Reason})

	if err := os.RemoveAll(layerRoot); err != nil {
		return layer.PackagesMetadata{}, err
	}
	if err := os.MkdirAll(layerRoot, 0o755); err != nil {
		return layer.PackagesMetadata{}, err
	}
	if err := os.MkdirAll(tempDir, 0o755); err != nil {
		return layer.PackagesMetadata{}, err
	}

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(ioConcurrency)
	for _, p := range packages {
		p := p
		group.Go(func() error {
			localPath, err := download(groupCtx, inst.Client, p, tempDir)
			if err != nil {
				return err
			}
			inst.Listener(&reporter.EventPackageDownloaded{Name: p.Name, URL: p.RepositoryURI + "/" + p.Filename})

			if err := extract(localPath, layerRoot); err != nil {
				return err
			}
			inst.Listener(&reporter.EventPackageExtracted{Name: p.Name})
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return layer.PackagesMetadata{}, err
	}

	return current, nil
}

func metadataPath(layerRoot string) string {
	return layerRoot + ".metadata.json"
}
