package config

import (
	"testing"

	"github.com/heroku/buildpacks-deb-packages/debian"
)

func mustName(t *testing.T, s string) debian.PackageName {
	t.Helper()
	name, err := debian.ParsePackageName(s)
	if err != nil {
		t.Fatalf("ParsePackageName(%q): %v", s, err)
	}
	return name
}

func TestParseBuildpackConfigDecodesMixedInstallEntries(t *testing.T) {
	toml := `
[_]
schema-version = "0.2"

[com.heroku.buildpacks.deb-packages]
install = [
    "package1",
    { name = "package2" },
    { name = "package3", skip_dependencies = true, force = true },
]
`
	cfg, err := parseBuildpackConfig([]byte(toml))
	if err != nil {
		t.Fatalf("parseBuildpackConfig: %v", err)
	}

	want := []debian.RequestedPackage{
		{Name: mustName(t, "package1")},
		{Name: mustName(t, "package2")},
		{Name: mustName(t, "package3"), SkipDependencies: true, Force: true},
	}
	if len(cfg.Install) != len(want) {
		t.Fatalf("got %d entries, want %d: %+v", len(cfg.Install), len(want), cfg.Install)
	}
	for i := range want {
		if cfg.Install[i] != want[i] {
			t.Errorf("entry %d: got %+v, want %+v", i, cfg.Install[i], want[i])
		}
	}
}

func TestParseBuildpackConfigDedupsByName(t *testing.T) {
	toml := `
[com.heroku.buildpacks.deb-packages]
install = [
    "package1",
    { name = "package1", force = true },
]
`
	cfg, err := parseBuildpackConfig([]byte(toml))
	if err != nil {
		t.Fatalf("parseBuildpackConfig: %v", err)
	}
	if len(cfg.Install) != 1 {
		t.Fatalf("expected duplicates to collapse, got %+v", cfg.Install)
	}
	if cfg.Install[0].Force {
		t.Error("expected the first occurrence to win, not the later duplicate")
	}
}

func TestParseBuildpackConfigMissingTableIsEmpty(t *testing.T) {
	toml := `
[_]
schema-version = "0.2"
`
	cfg, err := parseBuildpackConfig([]byte(toml))
	if err != nil {
		t.Fatalf("parseBuildpackConfig: %v", err)
	}
	if len(cfg.Install) != 0 {
		t.Errorf("expected empty config, got %+v", cfg.Install)
	}
}

func TestParseBuildpackConfigEmptyTableIsEmpty(t *testing.T) {
	toml := `
[com.heroku.buildpacks.deb-packages]
`
	cfg, err := parseBuildpackConfig([]byte(toml))
	if err != nil {
		t.Fatalf("parseBuildpackConfig: %v", err)
	}
	if len(cfg.Install) != 0 {
		t.Errorf("expected empty config, got %+v", cfg.Install)
	}
}

func TestParseBuildpackConfigInvalidPackageNameAsString(t *testing.T) {
	toml := `
[com.heroku.buildpacks.deb-packages]
install = ["not-a-package*"]
`
	_, err := parseBuildpackConfig([]byte(toml))
	if err == nil {
		t.Fatal("expected an error")
	}
	var target *ParseRequestedPackageError
	if !asType(err, &target) {
		t.Errorf("got %T, want *ParseRequestedPackageError", err)
	}
}

func TestParseBuildpackConfigInvalidPackageNameInTable(t *testing.T) {
	toml := `
[com.heroku.buildpacks.deb-packages]
install = [{ name = "not-a-package*" }]
`
	_, err := parseBuildpackConfig([]byte(toml))
	if err == nil {
		t.Fatal("expected an error")
	}
}

func TestParseBuildpackConfigWrongRootType(t *testing.T) {
	toml := `
[com.heroku.buildpacks]
deb-packages = ["wrong"]
`
	_, err := parseBuildpackConfig([]byte(toml))
	if err == nil {
		t.Fatal("expected an error")
	}
	if _, ok := err.(*WrongConfigTypeError); !ok {
		t.Errorf("got %T, want *WrongConfigTypeError", err)
	}
}

func TestParseBuildpackConfigInvalidTOML(t *testing.T) {
	_, err := parseBuildpackConfig([]byte("![not valid toml"))
	if err == nil {
		t.Fatal("expected an error")
	}
	if _, ok := err.(*InvalidTOMLError); !ok {
		t.Errorf("got %T, want *InvalidTOMLError", err)
	}
}

func asType(err error, target **ParseRequestedPackageError) bool {
	if v, ok := err.(*ParseRequestedPackageError); ok {
		*target = v
		return true
	}
	return false
}
