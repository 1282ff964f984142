package main

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"

	"github.com/heroku/buildpacks-deb-packages/environment"
)

// layerTypes mirrors the lifecycle's `[types]` table in a layer content
// metadata TOML file.
type layerTypes struct {
	Launch bool `toml:"launch"`
	Build  bool `toml:"build"`
	Cache  bool `toml:"cache"`
}

type layerTOML struct {
	Types    layerTypes `toml:"types"`
	Metadata any        `toml:"metadata"`
}

// writeLayerTOML persists the lifecycle-facing layer content metadata file
// for the layer named name under layersDir, using pelletier/go-toml/v2,
// the same library the rest of this module uses for decoding
// project.toml.
func writeLayerTOML(layersDir, name string, types layerTypes, metadata any) error {
	body, err := toml.Marshal(layerTOML{Types: types, Metadata: metadata})
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(layersDir, name+".toml"), body, 0o644)
}

// sourceLayerName derives a stable per-URL layer name: one release or
// index layer per upstream URL, keyed by the URL's SHA-256. prefix
// distinguishes a release layer from an index layer sharing the same
// URL-derived suffix.
func sourceLayerName(prefix, url string) string {
	sum := sha256.Sum256([]byte(url))
	return prefix + "-" + hex.EncodeToString(sum[:])[:16]
}

func layerDir(layersDir, name string) string {
	return filepath.Join(layersDir, name)
}

func writeMetadataJSON(layersDir, name string, metadata any) error {
	body, err := json.Marshal(metadata)
	if err != nil {
		return err
	}
	return os.WriteFile(metadataJSONPath(layersDir, name), body, 0o644)
}

// writeLayerEnv emits the lifecycle's layer environment directory
// convention: one file per (variable, operation) pair under
// "<layer>.env/", containing the raw value to apply. Every fragment this
// module synthesizes prepends with a ":" delimiter, so each variable gets
// a ".delim" file recording the delimiter alongside its ".prepend" file.
func writeLayerEnv(layerRoot string, fragments []environment.Fragment) error {
	if len(fragments) == 0 {
		return nil
	}
	envDir := layerRoot + ".env"
	if err := os.MkdirAll(envDir, 0o755); err != nil {
		return err
	}
	for _, f := range fragments {
		if err := os.WriteFile(filepath.Join(envDir, f.Name+".delim"), []byte(f.Delimiter), 0o644); err != nil {
			return err
		}
		op := f.Behavior
		if op == "" {
			op = "prepend"
		}
		if err := os.WriteFile(filepath.Join(envDir, fmt.Sprintf("%s.%s", f.Name, op)), []byte(f.Value), 0o644); err != nil {
			return err
		}
	}
	return nil
}
