package main

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/heroku/buildpacks-deb-packages/acquire"
	"github.com/heroku/buildpacks-deb-packages/config"
	"github.com/heroku/buildpacks-deb-packages/debian"
	"github.com/heroku/buildpacks-deb-packages/install"
	"github.com/heroku/buildpacks-deb-packages/reporter"
	"github.com/heroku/buildpacks-deb-packages/resolve"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		kind    reporter.Kind
		subject string
		retry   bool
	}{
		{
			name:    "invalid toml",
			err:     &config.InvalidTOMLError{Err: errors.New("bad")},
			kind:    reporter.UserFacing,
			subject: "project.toml",
			retry:   true,
		},
		{
			name:    "unreadable config",
			err:     &config.ReadConfigError{Path: "project.toml", Err: errors.New("permission denied")},
			kind:    reporter.UserFacing,
			subject: "project.toml",
			retry:   true,
		},
		{
			name:    "missing status database",
			err:     &config.StatusDatabaseError{Path: "/var/lib/dpkg/status", Err: errors.New("no such file")},
			kind:    reporter.Internal,
			subject: "dpkg status database",
		},
		{
			name:    "unsupported distro",
			err:     &debian.UnsupportedDistroError{OS: "debian", Version: "12", Arch: debian.AMD64},
			kind:    reporter.Internal,
			subject: "target distribution",
		},
		{
			name:    "missing index hash",
			err:     &acquire.MissingPackageIndexReleaseHashError{URI: "http://example.invalid", Name: "main/binary-amd64/Packages.gz"},
			kind:    reporter.UserFacing,
			subject: "release file",
			retry:   true,
		},
		{
			name:    "index checksum mismatch",
			err:     &acquire.ChecksumFailedError{URL: "http://example.invalid/Packages.gz", Expected: "aa", Actual: "bb"},
			kind:    reporter.UserFacing,
			subject: "package index",
			retry:   true,
		},
		{
			name:    "package not found",
			err:     &resolve.PackageNotFoundError{Name: "not-a-real-package-xyz"},
			kind:    reporter.UserFacing,
			subject: "requested package",
		},
		{
			name:    "download checksum mismatch",
			err:     &install.ChecksumFailedError{URL: "http://example.invalid/a.deb", Expected: "aa", Actual: "bb"},
			kind:    reporter.UserFacing,
			subject: "package download",
			retry:   true,
		},
		{
			name:    "unsupported compression",
			err:     &install.UnsupportedCompressionError{File: "data.tar.br", Extension: "br"},
			kind:    reporter.Internal,
			subject: "package archive",
		},
		{
			name: "unknown error is framework",
			err:  errors.New("lifecycle exploded"),
			kind: reporter.Framework,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fault := classify(fmt.Errorf("wrapped: %w", tt.err))
			if fault.Kind != tt.kind {
				t.Errorf("Kind = %v, want %v", fault.Kind, tt.kind)
			}
			if fault.Subject != tt.subject {
				t.Errorf("Subject = %q, want %q", fault.Subject, tt.subject)
			}
			if fault.SuggestRetry != tt.retry {
				t.Errorf("SuggestRetry = %v, want %v", fault.SuggestRetry, tt.retry)
			}
		})
	}
}

func TestClassifyPackageNotFoundPointsAtPackageSearch(t *testing.T) {
	fault := classify(&resolve.PackageNotFoundError{Name: "not-a-real-package-xyz"})
	rendered := fault.Render()
	if !strings.Contains(rendered, packageSearchURL) {
		t.Errorf("expected the rendered fault to direct the user to %s, got:\n%s", packageSearchURL, rendered)
	}
}
