// Package debian models the identifiers and registry data a Debian/Ubuntu
// archive client needs: package names, architectures, multiarch triples,
// version ordering, and the fixed set of supported distributions and their
// repository sources.
package debian

import (
	"fmt"
	"regexp"
)

var packageNamePattern = regexp.MustCompile(`^[a-z0-9][a-z0-9+.-]*$`)

// PackageName is a validated Debian package name. Once parsed it is treated
// as an opaque identifier; construct it via ParsePackageName.
type PackageName string

// ParsePackageName validates s against the Debian package name grammar
// (lower-case letters, digits, '+', '.', '-'; minimum length two; must not
// start with a non-alphanumeric character).
func ParsePackageName(s string) (PackageName, error) {
	if len(s) < 2 || !packageNamePattern.MatchString(s) {
		return "", fmt.Errorf("%q is not a valid Debian package name", s)
	}
	return PackageName(s), nil
}

func (n PackageName) String() string { return string(n) }
