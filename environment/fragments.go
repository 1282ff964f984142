// Package environment scans an extracted packages layer and derives the
// PATH/library/include/pkg-config environment fragments the framework
// applies to later build and launch steps, plus the *.pc prefix rewrite
// those fragments' pkg-config files need to stay self-consistent once
// moved into a layer.
package environment

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/heroku/buildpacks-deb-packages/debian"
)

// Fragment is one (name, value) environment variable contribution. Every
// fragment synthesized here uses the same behavior and delimiter: prepend,
// colon-delimited, applied at scope "all": the one combination real
// buildpack layer env APIs call a LayerEnv "Delimiter" write followed by a
// "Prepend" write.
type Fragment struct {
	Name      string
	Value     string
	Delimiter string
	Behavior  string
}

const (
	delimiter = ":"
	prepend   = "prepend"
)

// Synthesize scans layerRoot (the packages layer root) and returns the
// PATH, LD_LIBRARY_PATH, LIBRARY_PATH, INCLUDE_PATH, CPATH, CPPPATH, and
// PKG_CONFIG_PATH fragments it implies, in that order.
func Synthesize(layerRoot string, arch debian.ArchitectureName) ([]Fragment, error) {
	triple, err := arch.MultiarchTriple()
	if err != nil {
		return nil, fmt.Errorf("failed to derive multiarch triple: %w", err)
	}

	var fragments []Fragment

	if path := joinExisting(layerRoot, delimiter, "bin", "usr/bin", "usr/sbin"); path != "" {
		fragments = append(fragments, Fragment{Name: "PATH", Value: path, Delimiter: delimiter, Behavior: prepend})
	}

	libDirs := []string{
		filepath.Join("usr", "lib", string(triple)),
		filepath.Join("usr", "lib"),
		filepath.Join("lib", string(triple)),
		filepath.Join("lib"),
	}
	libPath, err := discoverPath(layerRoot, libDirs, isSharedLibrary)
	if err != nil {
		return nil, err
	}
	if libPath != "" {
		fragments = append(fragments,
			Fragment{Name: "LD_LIBRARY_PATH", Value: libPath, Delimiter: delimiter, Behavior: prepend},
			Fragment{Name: "LIBRARY_PATH", Value: libPath, Delimiter: delimiter, Behavior: prepend},
		)
	}

	includeDirs := []string{
		filepath.Join("usr", "include", string(triple)),
		filepath.Join("usr", "include"),
	}
	includePath, err := discoverPath(layerRoot, includeDirs, isHeader)
	if err != nil {
		return nil, err
	}
	if includePath != "" {
		fragments = append(fragments,
			Fragment{Name: "INCLUDE_PATH", Value: includePath, Delimiter: delimiter, Behavior: prepend},
			Fragment{Name: "CPATH", Value: includePath, Delimiter: delimiter, Behavior: prepend},
			Fragment{Name: "CPPPATH", Value: includePath, Delimiter: delimiter, Behavior: prepend},
		)
	}

	pkgConfigPath := joinExisting(layerRoot, delimiter,
		filepath.Join("usr", "lib", string(triple), "pkgconfig"),
		filepath.Join("usr", "lib", "pkgconfig"),
	)
	if pkgConfigPath != "" {
		fragments = append(fragments, Fragment{Name: "PKG_CONFIG_PATH", Value: pkgConfigPath, Delimiter: delimiter, Behavior: prepend})
	}

	return fragments, nil
}

// discoverPath applies the recursive-discovery rule shared by
// LD_LIBRARY_PATH/LIBRARY_PATH and INCLUDE_PATH/CPATH/CPPPATH: for each
// root in roots (in order), find every directory under it that directly or
// transitively contains at least one file matching (every ancestor between
// a match and the root, not just its immediate parent), ordered
// longest-path-first so a child directory precedes its parent, then append
// the root itself. Duplicates across roots are dropped, keeping the first
// occurrence.
func discoverPath(layerRoot string, roots []string, matches func(string) bool) (string, error) {
	seen := make(map[string]struct{})
	var dirs []string

	for _, rel := range roots {
		abs := filepath.Join(layerRoot, rel)
		info, err := os.Stat(abs)
		if err != nil || !info.IsDir() {
			continue
		}

		var hits []string
		err = filepath.Walk(abs, func(path string, fi os.FileInfo, err error) error {
			if err != nil {
				return err
			}
			if fi.IsDir() {
				return nil
			}
			if matches(fi.Name()) {
				for dir := filepath.Dir(path); dir != abs && len(dir) > len(abs); dir = filepath.Dir(dir) {
					hits = appendDirOnce(hits, dir)
				}
			}
			return nil
		})
		if err != nil {
			return "", fmt.Errorf("failed to scan %s: %w", abs, err)
		}

		sort.Slice(hits, func(i, j int) bool { return len(hits[i]) > len(hits[j]) })
		for _, d := range hits {
			if _, ok := seen[d]; ok {
				continue
			}
			seen[d] = struct{}{}
			dirs = append(dirs, d)
		}
		if _, ok := seen[abs]; !ok {
			seen[abs] = struct{}{}
			dirs = append(dirs, abs)
		}
	}
	return strings.Join(dirs, delimiter), nil
}

func appendDirOnce(dirs []string, dir string) []string {
	for _, d := range dirs {
		if d == dir {
			return dirs
		}
	}
	return append(dirs, dir)
}

// isSharedLibrary strips extensions right-to-left; if any intermediate
// extension equals "so", the file is a shared library. This matches both
// "libfoo.so" and "libfoo.so.1.2.3".
func isSharedLibrary(name string) bool {
	rest := name
	for {
		ext := filepath.Ext(rest)
		if ext == "" {
			return false
		}
		if ext == ".so" {
			return true
		}
		rest = strings.TrimSuffix(rest, ext)
	}
}

func isHeader(name string) bool {
	return filepath.Ext(name) == ".h"
}

func joinExisting(layerRoot, delim string, rels ...string) string {
	var existing []string
	for _, rel := range rels {
		abs := filepath.Join(layerRoot, rel)
		if info, err := os.Stat(abs); err == nil && info.IsDir() {
			existing = append(existing, abs)
		}
	}
	return strings.Join(existing, delim)
}
