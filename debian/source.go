package debian

// Source is one repository endpoint contributing to a Distro: a base URI,
// the suites and components to fetch from it, the architecture every fetch
// targets, and the armored OpenPGP certificate its InRelease file must
// verify against.
//
// Mirrors the Deb822 Source Format, trimmed to what a binary-only (deb, not
// deb-src) client needs: a single URI rather than a list, and only the
// Signed-By option.
type Source struct {
	URI                 string
	Suites              []string
	Components          []string
	Arch                ArchitectureName
	SignedByCertificate string
}
