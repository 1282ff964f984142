package debian

// RequestedPackage is one entry from the install configuration: a package
// name plus the two modifiers configuration can set on it. Callers collect
// these into a set (by Name) before resolving; insertion order is kept so
// reporting stays deterministic.
type RequestedPackage struct {
	Name             PackageName
	SkipDependencies bool
	Force            bool
}

// SystemPackage is one entry read from the build image's dpkg status file.
type SystemPackage struct {
	Name    PackageName
	Version string
}
