// Package config decodes the buildpack's declarative inputs: the
// `com.heroku.buildpacks.deb-packages` table inside project.toml, and the
// build image's dpkg status database used to skip already-installed
// packages during resolution.
package config

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"

	"github.com/heroku/buildpacks-deb-packages/debian"
)

// BuildpackConfig is the decoded contents of the
// `com.heroku.buildpacks.deb-packages` table. Zero value is the config for
// a project.toml that omits the table entirely: nothing to install.
type BuildpackConfig struct {
	Install []debian.RequestedPackage
}

// InvalidTOMLError wraps a project.toml document that failed to parse as
// TOML at all.
type InvalidTOMLError struct{ Err error }

func (e *InvalidTOMLError) Error() string {
	return fmt.Sprintf("project.toml is not valid TOML: %s", e.Err)
}
func (e *InvalidTOMLError) Unwrap() error { return e.Err }

// ReadConfigError wraps a project.toml that could not be read from disk.
type ReadConfigError struct {
	Path string
	Err  error
}

func (e *ReadConfigError) Error() string {
	return fmt.Sprintf("failed to read %s: %v", e.Path, e.Err)
}

func (e *ReadConfigError) Unwrap() error { return e.Err }

// WrongConfigTypeError reports that `com.heroku.buildpacks.deb-packages`
// exists but is not a table (for example, an array or a scalar).
type WrongConfigTypeError struct{}

func (e *WrongConfigTypeError) Error() string {
	return "com.heroku.buildpacks.deb-packages must be a table"
}

// ParseBuildpackConfig reads configFile and decodes its
// com.heroku.buildpacks.deb-packages table. A missing table (the key chain
// absent anywhere along the way) is not an error: it yields the zero
// BuildpackConfig, matching project.toml's "opt-in, not required" contract.
func ParseBuildpackConfig(configFile string) (BuildpackConfig, error) {
	contents, err := os.ReadFile(configFile)
	if err != nil {
		return BuildpackConfig{}, &ReadConfigError{Path: configFile, Err: err}
	}
	return parseBuildpackConfig(contents)
}

func parseBuildpackConfig(contents []byte) (BuildpackConfig, error) {
	var doc map[string]any
	if err := toml.Unmarshal(contents, &doc); err != nil {
		return BuildpackConfig{}, &InvalidTOMLError{Err: err}
	}

	rootItem, ok := descendTable(doc, "com", "heroku", "buildpacks", "deb-packages")
	if !ok {
		return BuildpackConfig{}, nil
	}

	rootTable, ok := rootItem.(map[string]any)
	if !ok {
		return BuildpackConfig{}, &WrongConfigTypeError{}
	}

	return decodeBuildpackConfig(rootTable)
}

// descendTable walks doc through a chain of table keys, stopping (ok=false)
// as soon as a key is absent or an intermediate value is not itself a
// table, mirroring project.toml's dotted-table-path lookup, where any
// missing segment means "not configured," not an error.
func descendTable(doc map[string]any, keys ...string) (any, bool) {
	var current any = doc
	for _, key := range keys {
		table, ok := current.(map[string]any)
		if !ok {
			return nil, false
		}
		current, ok = table[key]
		if !ok {
			return nil, false
		}
	}
	return current, true
}

func decodeBuildpackConfig(rootTable map[string]any) (BuildpackConfig, error) {
	installValues, _ := rootTable["install"].([]any)

	seen := make(map[debian.PackageName]struct{}, len(installValues))
	var install []debian.RequestedPackage
	for _, value := range installValues {
		pkg, err := decodeRequestedPackage(value)
		if err != nil {
			return BuildpackConfig{}, err
		}
		if _, ok := seen[pkg.Name]; ok {
			continue
		}
		seen[pkg.Name] = struct{}{}
		install = append(install, pkg)
	}

	return BuildpackConfig{Install: install}, nil
}
