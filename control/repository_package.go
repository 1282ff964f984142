// Package control parses Debian Packages-file stanzas into RepositoryPackage
// values and indexes them by name and by virtual-package Provides entry.
package control

import (
	"strings"
)

// RepositoryPackage is one parsed stanza from a Packages/Packages.gz index.
// Depends/PreDepends/Provides are kept as raw unparsed strings; splitting
// them into bare names is lazy, done only when a caller needs them.
type RepositoryPackage struct {
	RepositoryURI string
	Name          string
	Version       string
	Filename      string
	SHA256        string
	Depends       string
	PreDepends    string
	Provides      string
}

const (
	packageKey    = "Package"
	versionKey    = "Version"
	filenameKey   = "Filename"
	sha256Key     = "SHA256"
	dependsKey    = "Depends"
	preDependsKey = "Pre-Depends"
	providesKey   = "Provides"
)

var knownKeys = []string{packageKey, versionKey, filenameKey, sha256Key, dependsKey, preDependsKey, providesKey}

// MissingFieldError names the stanza field a parse failed to find and, when
// known, the package it belongs to.
type MissingFieldError struct {
	Field   string
	Package string // empty if the Package field itself was missing
}

func (e *MissingFieldError) Error() string {
	if e.Package == "" {
		return "a package stanza is missing the required " + e.Field + " field"
	}
	return "package " + e.Package + " is missing the required " + e.Field + " field"
}

// Parse parses one stanza of an RFC-822-style control file into a
// RepositoryPackage. Only the keys Package, Version, Filename, and SHA256
// are required; Depends, Pre-Depends, and Provides are optional.
//
// Parse policy: split on newlines, keep only lines whose first token
// matches one of the seven known keys, split each at the first ':', trim.
// A single stanza is scanned sequentially; the caller is responsible for
// farming stanzas out across a worker pool (see acquire).
func Parse(repositoryURI, stanza string) (RepositoryPackage, error) {
	values := make(map[string]string, len(knownKeys))
	for _, line := range strings.Split(stanza, "\n") {
		for _, key := range knownKeys {
			if strings.HasPrefix(line, key+":") {
				values[key] = strings.TrimSpace(line[len(key)+1:])
				break
			}
		}
	}

	name, ok := values[packageKey]
	if !ok {
		return RepositoryPackage{}, &MissingFieldError{Field: packageKey}
	}
	version, ok := values[versionKey]
	if !ok {
		return RepositoryPackage{}, &MissingFieldError{Field: versionKey, Package: name}
	}
	filename, ok := values[filenameKey]
	if !ok {
		return RepositoryPackage{}, &MissingFieldError{Field: filenameKey, Package: name}
	}
	sha256, ok := values[sha256Key]
	if !ok {
		return RepositoryPackage{}, &MissingFieldError{Field: sha256Key, Package: name}
	}

	return RepositoryPackage{
		RepositoryURI: repositoryURI,
		Name:          name,
		Version:       version,
		Filename:      filename,
		SHA256:        sha256,
		Depends:       values[dependsKey],
		PreDepends:    values[preDependsKey],
		Provides:      values[providesKey],
	}, nil
}

// Dependencies returns the unique set of bare package names extracted from
// the concatenation of PreDepends and Depends, in first-occurrence order.
// An ordered slice, not a map, so the resolver's dependency visit order is
// stable for a given index. Tokens are comma-separated; each is
// whitespace-trimmed and reduced to the substring before the first
// whitespace; a trailing ":any" architecture qualifier is stripped.
// Alternative branches separated by '|' are not honored: only the first
// token of an entry matters, everything after is ignored.
func (p RepositoryPackage) Dependencies() []string {
	seen := make(map[string]struct{})
	var results []string
	for _, field := range []string{p.PreDepends, p.Depends} {
		splitNames(field, seen, &results)
	}
	return results
}

// ProvidesDependencies is Dependencies' twin over the Provides field.
func (p RepositoryPackage) ProvidesDependencies() []string {
	seen := make(map[string]struct{})
	var results []string
	splitNames(p.Provides, seen, &results)
	return results
}

func splitNames(field string, seen map[string]struct{}, into *[]string) {
	if field == "" {
		return
	}
	for _, entry := range strings.Split(field, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		fields := strings.Fields(entry)
		if len(fields) == 0 {
			continue
		}
		name := fields[0]
		if i := strings.IndexByte(name, ':'); i >= 0 {
			name = name[:i]
		}
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		*into = append(*into, name)
	}
}
