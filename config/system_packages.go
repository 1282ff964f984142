package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/heroku/buildpacks-deb-packages/debian"
)

// ParseSystemPackageError names the dpkg status stanza that failed to
// yield a Package field.
type ParseSystemPackageError struct {
	Stanza string
}

func (e *ParseSystemPackageError) Error() string {
	return "a dpkg status stanza is missing the required Package field"
}

// StatusDatabaseError reports that the build image's dpkg status database
// could not be read at all. A build image without one is broken in a way
// the user can't fix from their application.
type StatusDatabaseError struct {
	Path string
	Err  error
}

func (e *StatusDatabaseError) Error() string {
	return fmt.Sprintf("failed to read the dpkg status database at %s: %v", e.Path, e.Err)
}

func (e *StatusDatabaseError) Unwrap() error { return e.Err }

// ReadSystemPackages reads and parses the dpkg status database at path.
func ReadSystemPackages(path string) ([]debian.SystemPackage, error) {
	body, err := os.ReadFile(path)
	if err != nil {
		return nil, &StatusDatabaseError{Path: path, Err: err}
	}
	return ParseSystemPackages(body)
}

// ParseSystemPackages parses the build image's dpkg status database
// (conventionally /var/lib/dpkg/status): stanzas separated by blank lines,
// each an RFC-822-style block of "Key: value" lines. Only Package and
// Version are read; Status and every other field are ignored, since the
// resolver only needs presence-by-name.
func ParseSystemPackages(body []byte) ([]debian.SystemPackage, error) {
	trimmed := strings.TrimSpace(strings.ReplaceAll(string(body), "\r\n", "\n"))
	if trimmed == "" {
		return nil, nil
	}

	var packages []debian.SystemPackage
	for _, stanza := range strings.Split(trimmed, "\n\n") {
		pkg, err := parseSystemPackageStanza(stanza)
		if err != nil {
			return nil, err
		}
		packages = append(packages, pkg)
	}
	return packages, nil
}

func parseSystemPackageStanza(stanza string) (debian.SystemPackage, error) {
	var rawName, version string
	for _, line := range strings.Split(stanza, "\n") {
		switch {
		case strings.HasPrefix(line, "Package:"):
			rawName = strings.TrimSpace(strings.TrimPrefix(line, "Package:"))
		case strings.HasPrefix(line, "Version:"):
			version = strings.TrimSpace(strings.TrimPrefix(line, "Version:"))
		}
	}

	if rawName == "" {
		return debian.SystemPackage{}, &ParseSystemPackageError{Stanza: stanza}
	}

	name, err := debian.ParsePackageName(rawName)
	if err != nil {
		return debian.SystemPackage{}, fmt.Errorf("invalid package name %q in dpkg status: %w", rawName, err)
	}

	return debian.SystemPackage{Name: name, Version: version}, nil
}
