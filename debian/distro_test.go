package debian

import "testing"

func TestResolveSupported(t *testing.T) {
	d, err := Resolve("ubuntu", "22.04", AMD64)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if d.Codename != "jammy" {
		t.Errorf("Codename = %q, want jammy", d.Codename)
	}
	for _, s := range d.Sources {
		if s.Arch != d.Architecture {
			t.Errorf("source arch %s does not match distro arch %s", s.Arch, d.Architecture)
		}
	}
}

func TestResolveUnsupported(t *testing.T) {
	_, err := Resolve("ubuntu", "20.04", AMD64)
	if err == nil {
		t.Fatal("expected UnsupportedDistroError")
	}
	if _, ok := err.(*UnsupportedDistroError); !ok {
		t.Errorf("got %T, want *UnsupportedDistroError", err)
	}
}

func TestResolveArm64NobleHasSecurityMirror(t *testing.T) {
	d, err := Resolve("ubuntu", "24.04", ARM64)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if len(d.Sources) != 2 {
		t.Fatalf("expected 2 sources for noble, got %d", len(d.Sources))
	}
}
