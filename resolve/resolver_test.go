package resolve

import (
	"reflect"
	"testing"

	"github.com/heroku/buildpacks-deb-packages/control"
	"github.com/heroku/buildpacks-deb-packages/debian"
)

func newIndexWithPackages(pkgs ...control.RepositoryPackage) *control.PackageIndex {
	idx := control.New()
	for _, p := range pkgs {
		idx.AddPackage(p)
	}
	return idx
}

func TestResolveWalksDependencies(t *testing.T) {
	idx := newIndexWithPackages(
		control.RepositoryPackage{Name: "curl", Version: "1", Depends: "libcurl4"},
		control.RepositoryPackage{Name: "libcurl4", Version: "1"},
	)
	r := New(idx, nil, nil)
	marked, err := r.Resolve([]debian.RequestedPackage{{Name: "curl"}})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if len(marked) != 2 {
		t.Fatalf("len(marked) = %d, want 2", len(marked))
	}
	if marked[0].Package.Name != "curl" || marked[1].Package.Name != "libcurl4" {
		t.Errorf("unexpected order: %+v", marked)
	}
	if marked[1].RequestedBy != "curl" {
		t.Errorf("RequestedBy = %q, want curl", marked[1].RequestedBy)
	}
}

func TestResolveSkipsSystemPackages(t *testing.T) {
	idx := newIndexWithPackages(
		control.RepositoryPackage{Name: "curl", Version: "1", Depends: "libc6"},
	)
	system := map[debian.PackageName]struct{}{"libc6": {}}
	r := New(idx, system, nil)
	marked, err := r.Resolve([]debian.RequestedPackage{{Name: "curl"}})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if len(marked) != 1 {
		t.Fatalf("len(marked) = %d, want 1 (libc6 should be skipped)", len(marked))
	}
}

func TestResolveSkipDependencies(t *testing.T) {
	idx := newIndexWithPackages(
		control.RepositoryPackage{Name: "curl", Version: "1", Depends: "libcurl4"},
		control.RepositoryPackage{Name: "libcurl4", Version: "1"},
	)
	r := New(idx, nil, nil)
	marked, err := r.Resolve([]debian.RequestedPackage{{Name: "curl", SkipDependencies: true}})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if len(marked) != 1 {
		t.Fatalf("len(marked) = %d, want 1", len(marked))
	}
}

func TestResolveVirtualPackageSingleProvider(t *testing.T) {
	idx := newIndexWithPackages(
		control.RepositoryPackage{Name: "openssl-impl", Version: "1", Provides: "ssl-lib"},
	)
	r := New(idx, nil, nil)
	marked, err := r.Resolve([]debian.RequestedPackage{{Name: "ssl-lib"}})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if len(marked) != 1 || marked[0].Package.Name != "openssl-impl" {
		t.Errorf("unexpected result: %+v", marked)
	}
}

func TestResolveVirtualPackageAmbiguous(t *testing.T) {
	idx := newIndexWithPackages(
		control.RepositoryPackage{Name: "impl-a", Version: "1", Provides: "ssl-lib"},
		control.RepositoryPackage{Name: "impl-b", Version: "1", Provides: "ssl-lib"},
	)
	r := New(idx, nil, nil)
	_, err := r.Resolve([]debian.RequestedPackage{{Name: "ssl-lib"}})
	if _, ok := err.(*VirtualAmbiguousError); !ok {
		t.Fatalf("got %T (%v), want *VirtualAmbiguousError", err, err)
	}
}

func TestResolvePackageNotFound(t *testing.T) {
	r := New(control.New(), nil, nil)
	_, err := r.Resolve([]debian.RequestedPackage{{Name: "nonexistent"}})
	if _, ok := err.(*PackageNotFoundError); !ok {
		t.Fatalf("got %T (%v), want *PackageNotFoundError", err, err)
	}
}

func TestResolveCycleSafety(t *testing.T) {
	idx := newIndexWithPackages(
		control.RepositoryPackage{Name: "a", Version: "1", Depends: "b"},
		control.RepositoryPackage{Name: "b", Version: "1", Depends: "a"},
	)
	r := New(idx, nil, nil)
	marked, err := r.Resolve([]debian.RequestedPackage{{Name: "a"}})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if len(marked) != 2 {
		t.Fatalf("len(marked) = %d, want 2 (cycle should terminate)", len(marked))
	}
}

func TestResolveDuplicateRequestIsAlreadyMarked(t *testing.T) {
	idx := newIndexWithPackages(control.RepositoryPackage{Name: "curl", Version: "1"})
	r := New(idx, nil, nil)
	marked, err := r.Resolve([]debian.RequestedPackage{{Name: "curl"}, {Name: "curl"}})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if len(marked) != 1 {
		t.Errorf("len(marked) = %d, want 1", len(marked))
	}
}

func TestResolveIsIdempotent(t *testing.T) {
	idx := newIndexWithPackages(
		control.RepositoryPackage{Name: "a", Version: "1", Depends: "b, c"},
		control.RepositoryPackage{Name: "b", Version: "1", Depends: "c"},
		control.RepositoryPackage{Name: "c", Version: "1"},
	)
	system := map[debian.PackageName]struct{}{"libc6": {}}
	requested := []debian.RequestedPackage{{Name: "a"}}

	first, err := New(idx, system, nil).Resolve(requested)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	second, err := New(idx, system, nil).Resolve(requested)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("two runs over identical inputs diverged:\n%+v\n%+v", first, second)
	}
}
