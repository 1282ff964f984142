package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/heroku/buildpacks-deb-packages/config"
	"github.com/heroku/buildpacks-deb-packages/control"
	"github.com/heroku/buildpacks-deb-packages/debian"
	"github.com/heroku/buildpacks-deb-packages/environment"
	"github.com/heroku/buildpacks-deb-packages/install"
	"github.com/heroku/buildpacks-deb-packages/reporter"
	"github.com/heroku/buildpacks-deb-packages/resolve"
)

const systemPackagesPath = "/var/lib/dpkg/status"

// runBuild implements the build phase: read configuration, resolve the
// target distribution, acquire its package index, resolve the requested
// install set against it and the host's dpkg database, install the
// result into a packages layer, and synthesize its environment.
func runBuild(args []string, logger *zap.Logger) error {
	appDir, layersDir := buildDirsFrom(args)

	cfg, err := config.ParseBuildpackConfig(filepath.Join(appDir, "project.toml"))
	if err != nil {
		return fmt.Errorf("failed to read project.toml: %w", err)
	}
	if len(cfg.Install) == 0 {
		logger.Info("no packages configured for install in project.toml")
		fmt.Println(`No configured packages to install found in project.toml file. You may need to
add a list of packages to install in your project.toml like this:

[com.heroku.buildpacks.deb-packages]
install = [
  "package-name",
]`)
		return nil
	}

	distro, err := resolveTargetDistro()
	if err != nil {
		return err
	}
	logger.Info("target distribution",
		zap.String("os", distro.OS), zap.String("version", distro.Version),
		zap.String("codename", distro.Codename), zap.String("arch", distro.Architecture.String()))

	systemPackages, err := config.ReadSystemPackages(systemPackagesPath)
	if err != nil {
		return err
	}
	systemSet := make(map[debian.PackageName]struct{}, len(systemPackages))
	for _, p := range systemPackages {
		systemSet[p.Name] = struct{}{}
	}

	listener := reporter.ZapListener(logger)

	client := &http.Client{Timeout: 5 * time.Minute}

	ctx := context.Background()
	logger.Info("acquiring package index", zap.Int("sources", len(distro.Sources)))
	index, err := acquirePackageIndex(ctx, layersDir, distro.Sources, client, listener)
	if err != nil {
		return fmt.Errorf("failed to acquire package index: %w", err)
	}
	logger.Info("package index ready", zap.Int("packages", index.Count()))

	resolver := resolve.New(index, systemSet, listener)
	marked, err := resolver.Resolve(cfg.Install)
	if err != nil {
		return fmt.Errorf("failed to determine packages to install: %w", err)
	}

	packages := make([]control.RepositoryPackage, 0, len(marked))
	for _, m := range marked {
		packages = append(packages, m.Package)
	}

	packagesLayer := "packages"
	layerRoot := layerDir(layersDir, packagesLayer)
	tempDir := filepath.Join(layersDir, "tmp", packagesLayer)

	installer := install.New(client, listener)
	metadata, err := installer.Install(ctx, distro, packages, layerRoot, tempDir)
	if err != nil {
		return fmt.Errorf("failed to install packages: %w", err)
	}
	os.RemoveAll(tempDir)

	if err := writeMetadataJSON(layersDir, packagesLayer, metadata); err != nil {
		return fmt.Errorf("failed to persist layer metadata for %s: %w", packagesLayer, err)
	}
	if err := writeLayerTOML(layersDir, packagesLayer, layerTypes{Launch: true, Build: true, Cache: true}, metadata); err != nil {
		return fmt.Errorf("failed to write layer metadata for %s: %w", packagesLayer, err)
	}

	fragments, err := environment.Synthesize(layerRoot, distro.Architecture)
	if err != nil {
		return fmt.Errorf("failed to synthesize environment: %w", err)
	}
	if err := environment.RewritePkgConfigFiles(layerRoot); err != nil {
		return fmt.Errorf("failed to rewrite pkg-config prefixes: %w", err)
	}
	if err := writeLayerEnv(layerRoot, fragments); err != nil {
		return fmt.Errorf("failed to write layer environment: %w", err)
	}

	if os.Getenv("BP_LOG_LEVEL") == "debug" {
		listInstalledLayer(logger, layerRoot)
	}

	return nil
}

func buildDirsFrom(args []string) (appDir, layersDir string) {
	appDir = os.Getenv("CNB_APP_DIR")
	layersDir = os.Getenv("CNB_LAYERS_DIR")
	if len(args) > 0 {
		appDir = args[0]
	}
	if len(args) > 1 {
		layersDir = args[1]
	}
	if appDir == "" {
		appDir = "."
	}
	if layersDir == "" {
		layersDir = "layers"
	}
	return appDir, layersDir
}

// resolveTargetDistro reads the lifecycle's target-platform environment
// variables (CNB_TARGET_DISTRO_NAME/_VERSION/_ARCH), defaulting to
// ubuntu/22.04/amd64 when unset so the binary stays runnable outside a
// full lifecycle invocation.
func resolveTargetDistro() (debian.Distro, error) {
	osName := getenvDefault("CNB_TARGET_DISTRO_NAME", "ubuntu")
	version := getenvDefault("CNB_TARGET_DISTRO_VERSION", "22.04")
	archName := getenvDefault("CNB_TARGET_ARCH", "amd64")

	arch, err := debian.ParseArchitectureName(archName)
	if err != nil {
		return debian.Distro{}, fmt.Errorf("unsupported target architecture %q: %w", archName, err)
	}
	return debian.Resolve(osName, version, arch)
}

func getenvDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func listInstalledLayer(logger *zap.Logger, layerRoot string) {
	filepath.Walk(layerRoot, func(path string, info os.FileInfo, err error) error {
		if err != nil || info.IsDir() {
			return nil
		}
		logger.Debug("installed", zap.String("path", path))
		return nil
	})
}
