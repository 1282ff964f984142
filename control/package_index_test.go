package control

import "testing"

func TestPackageIndexHighestVersion(t *testing.T) {
	idx := New()
	idx.AddPackage(RepositoryPackage{Name: "curl", Version: "7.81.0-1"})
	idx.AddPackage(RepositoryPackage{Name: "curl", Version: "7.85.0-1"})
	idx.AddPackage(RepositoryPackage{Name: "curl", Version: "7.80.0-1"})

	best, ok := idx.HighestVersion("curl")
	if !ok {
		t.Fatal("expected a result")
	}
	if best.Version != "7.85.0-1" {
		t.Errorf("HighestVersion = %s, want 7.85.0-1", best.Version)
	}
	if idx.Count() != 3 {
		t.Errorf("Count() = %d, want 3", idx.Count())
	}
}

func TestPackageIndexProviders(t *testing.T) {
	idx := New()
	idx.AddPackage(RepositoryPackage{Name: "libvips42", Version: "1", Provides: "libvips"})
	providers := idx.Providers("libvips")
	if len(providers) != 1 || providers[0] != "libvips42" {
		t.Errorf("Providers(libvips) = %v, want [libvips42]", providers)
	}
}

func TestPackageIndexMissingName(t *testing.T) {
	idx := New()
	if _, ok := idx.HighestVersion("nonexistent"); ok {
		t.Error("expected ok=false for a name with no candidates")
	}
}
