package debian

import (
	_ "embed"
	"fmt"
)

//go:embed keys/ubuntu-archive-keyring.asc
var ubuntuArchiveKeyring string

//go:embed keys/ubuntu-archive-keyring-2018.asc
var ubuntuArchiveKeyring2018 string

// Distro is an immutable description of one supported (os, version, arch)
// tuple: its codename and the repository Sources that together make up its
// package universe. Invariant: every Source.Arch equals Architecture.
type Distro struct {
	OS           string
	Version      string
	Codename     string
	Architecture ArchitectureName
	Sources      []Source
}

// UnsupportedDistroError is returned by Resolve for any (os, version, arch)
// tuple outside the hard-coded registry.
type UnsupportedDistroError struct {
	OS      string
	Version string
	Arch    ArchitectureName
}

func (e *UnsupportedDistroError) Error() string {
	return fmt.Sprintf("unsupported distribution %s %s (%s)", e.OS, e.Version, e.Arch)
}

// registryKey identifies one supported (os, version, arch) tuple.
type registryKey struct {
	os      string
	version string
	arch    ArchitectureName
}

// registryEntry is a constructor rather than a static Distro because Ubuntu
// splits its archive mirror by architecture (archive.ubuntu.com vs.
// ports.ubuntu.com) and 24.04 moves -security to a distinct host.
type registryEntry func() Distro

var registry = map[registryKey]registryEntry{
	{"ubuntu", "22.04", AMD64}: func() Distro { return ubuntu2204(AMD64) },
	{"ubuntu", "24.04", AMD64}: func() Distro { return ubuntu2404(AMD64) },
	{"ubuntu", "24.04", ARM64}: func() Distro { return ubuntu2404(ARM64) },
}

// Resolve maps an (os, version, arch) tuple to its Distro, or reports it as
// unsupported. Supported tuples: ubuntu/22.04/amd64, ubuntu/24.04/{amd64,arm64}.
func Resolve(os, version string, arch ArchitectureName) (Distro, error) {
	entry, ok := registry[registryKey{os, version, arch}]
	if !ok {
		return Distro{}, &UnsupportedDistroError{OS: os, Version: version, Arch: arch}
	}
	return entry(), nil
}

func archiveHost(arch ArchitectureName) string {
	if arch == AMD64 {
		return "http://archive.ubuntu.com/ubuntu"
	}
	return "http://ports.ubuntu.com/ubuntu-ports"
}

func ubuntu2204(arch ArchitectureName) Distro {
	primary := archiveHost(arch)
	components := []string{"main", "universe"}
	return Distro{
		OS:           "ubuntu",
		Version:      "22.04",
		Codename:     "jammy",
		Architecture: arch,
		Sources: []Source{
			{
				URI:                 primary,
				Suites:              []string{"jammy", "jammy-security", "jammy-updates"},
				Components:          components,
				Arch:                arch,
				SignedByCertificate: ubuntuArchiveKeyring,
			},
		},
	}
}

func ubuntu2404(arch ArchitectureName) Distro {
	primary := archiveHost(arch)
	components := []string{"main", "universe"}
	return Distro{
		OS:           "ubuntu",
		Version:      "24.04",
		Codename:     "noble",
		Architecture: arch,
		Sources: []Source{
			{
				URI:                 primary,
				Suites:              []string{"noble", "noble-updates"},
				Components:          components,
				Arch:                arch,
				SignedByCertificate: ubuntuArchiveKeyring,
			},
			{
				URI:                 "http://security.ubuntu.com/ubuntu",
				Suites:              []string{"noble-security"},
				Components:          components,
				Arch:                arch,
				SignedByCertificate: ubuntuArchiveKeyring2018,
			},
		},
	}
}
