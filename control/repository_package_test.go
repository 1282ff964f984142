package control

import (
	"reflect"
	"testing"
)

func TestParse(t *testing.T) {
	stanza := "Package: curl\nVersion: 7.81.0-1\nFilename: pool/main/c/curl/curl_7.81.0-1_amd64.deb\nSHA256: abcd\nDepends: libc6 (>= 2.34), libcurl4\n"
	p, err := Parse("http://archive.ubuntu.com/ubuntu", stanza)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if p.Name != "curl" || p.Version != "7.81.0-1" || p.SHA256 != "abcd" {
		t.Errorf("unexpected parse result: %+v", p)
	}
}

func TestParseMissingRequiredField(t *testing.T) {
	_, err := Parse("uri", "Package: curl\nVersion: 1\n")
	if err == nil {
		t.Fatal("expected an error for missing Filename/SHA256")
	}
	mfe, ok := err.(*MissingFieldError)
	if !ok {
		t.Fatalf("got %T, want *MissingFieldError", err)
	}
	if mfe.Field != filenameKey {
		t.Errorf("first missing field reported as %q, want %q", mfe.Field, filenameKey)
	}
}

func TestDependenciesVariations(t *testing.T) {
	p := RepositoryPackage{
		Depends:    "package1 | optional-package",
		PreDepends: "package2:any, package3 (>= 7:6.1), package4 (>= 2.34) [riscv64]",
	}
	got := p.Dependencies()
	want := []string{"package2", "package3", "package4", "package1"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Dependencies() = %v, want %v", got, want)
	}
}

func TestDependenciesEmpty(t *testing.T) {
	p := RepositoryPackage{}
	if got := p.Dependencies(); len(got) != 0 {
		t.Errorf("Dependencies() = %v, want empty", got)
	}
}

func TestProvidesDependencies(t *testing.T) {
	p := RepositoryPackage{Provides: "bar (= 1.0), foo"}
	got := p.ProvidesDependencies()
	want := []string{"bar", "foo"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ProvidesDependencies() = %v, want %v", got, want)
	}
}
