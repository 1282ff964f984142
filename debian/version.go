package debian

import (
	"strconv"
	"strings"
)

// CompareVersions orders two Debian version strings per the dpkg algorithm:
// epoch, then upstream version, then debian revision, each of the latter two
// compared by alternating non-digit/digit runs where '~' sorts before
// everything, including the end of a run. It returns a negative number if
// v1 < v2, zero if equal, and a positive number if v1 > v2.
func CompareVersions(v1, v2 string) int {
	epoch1, upstream1, revision1 := splitVersion(v1)
	epoch2, upstream2, revision2 := splitVersion(v2)

	if epoch1 != epoch2 {
		if epoch1 < epoch2 {
			return -1
		}
		return 1
	}
	if c := compareVersionPart(upstream1, upstream2); c != 0 {
		return c
	}
	return compareVersionPart(revision1, revision2)
}

func splitVersion(v string) (epoch int, upstream, revision string) {
	rest := v
	if i := strings.IndexByte(v, ':'); i >= 0 {
		if n, err := strconv.Atoi(v[:i]); err == nil {
			epoch = n
		}
		rest = v[i+1:]
	}
	if i := strings.LastIndexByte(rest, '-'); i >= 0 {
		return epoch, rest[:i], rest[i+1:]
	}
	return epoch, rest, "0"
}

// compareVersionPart implements dpkg's verrevcmp: alternating non-digit and
// digit runs, with non-digit runs ordered by charOrder and digit runs
// ordered numerically (leading zeros ignored).
func compareVersionPart(a, b string) int {
	for len(a) > 0 || len(b) > 0 {
		var aNonDigit, bNonDigit strings.Builder
		for len(a) > 0 && !isDigit(a[0]) {
			aNonDigit.WriteByte(a[0])
			a = a[1:]
		}
		for len(b) > 0 && !isDigit(b[0]) {
			bNonDigit.WriteByte(b[0])
			b = b[1:]
		}
		if c := compareNonDigitRuns(aNonDigit.String(), bNonDigit.String()); c != 0 {
			return c
		}

		for len(a) > 0 && a[0] == '0' {
			a = a[1:]
		}
		for len(b) > 0 && b[0] == '0' {
			b = b[1:]
		}
		var aDigits, bDigits strings.Builder
		for len(a) > 0 && isDigit(a[0]) {
			aDigits.WriteByte(a[0])
			a = a[1:]
		}
		for len(b) > 0 && isDigit(b[0]) {
			bDigits.WriteByte(b[0])
			b = b[1:]
		}
		if aDigits.Len() != bDigits.Len() {
			if aDigits.Len() > bDigits.Len() {
				return 1
			}
			return -1
		}
		if c := strings.Compare(aDigits.String(), bDigits.String()); c != 0 {
			return c
		}
	}
	return 0
}

func compareNonDigitRuns(a, b string) int {
	n := len(a)
	if len(b) > n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		var ac, bc int
		if i < len(a) {
			ac = charOrder(a[i])
		}
		if i < len(b) {
			bc = charOrder(b[i])
		}
		if ac != bc {
			if ac < bc {
				return -1
			}
			return 1
		}
	}
	return 0
}

// charOrder mirrors dpkg's order(): '~' sorts before everything, the
// implicit end of a run (0) sorts next, letters keep their ASCII value, and
// every other character is pushed past all letters.
func charOrder(c byte) int {
	switch {
	case c == '~':
		return -1
	case isAlpha(c):
		return int(c)
	default:
		return int(c) + 256
	}
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }
func isAlpha(c byte) bool { return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') }
