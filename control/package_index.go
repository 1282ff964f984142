package control

import (
	"sync"

	"github.com/heroku/buildpacks-deb-packages/debian"
)

// PackageIndex is the in-memory map of every RepositoryPackage discovered
// across all fetched indices: a by-name map (every version kept, insertion
// order preserved) and a by-virtual-name map built from each package's
// Provides field. Safe for concurrent AddPackage calls: the index is the
// single accumulator the acquirer's parse workers feed into, and the
// mutex makes it the one synchronized entry point they share.
type PackageIndex struct {
	mu        sync.Mutex
	byName    map[string][]RepositoryPackage
	byVirtual map[string][]RepositoryPackage
	count     int
}

// New returns an empty PackageIndex.
func New() *PackageIndex {
	return &PackageIndex{
		byName:    make(map[string][]RepositoryPackage),
		byVirtual: make(map[string][]RepositoryPackage),
	}
}

// AddPackage appends p to its name bucket, and to every virtual-name bucket
// named in p's Provides field.
func (idx *PackageIndex) AddPackage(p RepositoryPackage) {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	idx.byName[p.Name] = append(idx.byName[p.Name], p)
	for _, v := range p.ProvidesDependencies() {
		idx.byVirtual[v] = append(idx.byVirtual[v], p)
	}
	idx.count++
}

// HighestVersion returns the candidate for name with the greatest Debian
// version, or ok=false if name has no candidates. Ties are broken purely by
// version order; insertion order never decides the outcome.
func (idx *PackageIndex) HighestVersion(name string) (RepositoryPackage, bool) {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	candidates := idx.byName[name]
	if len(candidates) == 0 {
		return RepositoryPackage{}, false
	}
	best := candidates[0]
	for _, c := range candidates[1:] {
		if debian.CompareVersions(c.Version, best.Version) > 0 {
			best = c
		}
	}
	return best, true
}

// Providers returns the set of package names that provide the virtual
// package name.
func (idx *PackageIndex) Providers(name string) []string {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	providers := idx.byVirtual[name]
	names := make([]string, 0, len(providers))
	seen := make(map[string]struct{}, len(providers))
	for _, p := range providers {
		if _, ok := seen[p.Name]; !ok {
			seen[p.Name] = struct{}{}
			names = append(names, p.Name)
		}
	}
	return names
}

// AllNames returns the union of every real and virtual package name known
// to the index.
func (idx *PackageIndex) AllNames() []string {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	seen := make(map[string]struct{}, len(idx.byName)+len(idx.byVirtual))
	for name := range idx.byName {
		seen[name] = struct{}{}
	}
	for name := range idx.byVirtual {
		seen[name] = struct{}{}
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	return names
}

// Count returns the number of AddPackage calls made so far.
func (idx *PackageIndex) Count() int {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	return idx.count
}
