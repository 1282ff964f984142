package environment

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// RewritePkgConfigFiles walks layerRoot for *.pc files whose parent
// directory is named "pkgconfig" and rewrites every "prefix=" line to
// point at layerRoot instead of the path it was built against. All other
// lines pass through unchanged; line endings are normalized to "\n".
func RewritePkgConfigFiles(layerRoot string) error {
	return filepath.Walk(layerRoot, func(path string, fi os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if fi.IsDir() || filepath.Ext(path) != ".pc" {
			return nil
		}
		if filepath.Base(filepath.Dir(path)) != "pkgconfig" {
			return nil
		}
		return rewritePkgConfigFile(path, layerRoot)
	})
}

func rewritePkgConfigFile(path, layerRoot string) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	normalized := strings.ReplaceAll(string(content), "\r\n", "\n")
	lines := strings.Split(normalized, "\n")
	for i, line := range lines {
		if !strings.HasPrefix(line, "prefix=") {
			continue
		}
		suffix := strings.TrimLeft(strings.TrimPrefix(line, "prefix="), "/")
		lines[i] = "prefix=" + filepath.Join(layerRoot, suffix)
	}

	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("failed to stat %s: %w", path, err)
	}
	if err := os.WriteFile(path, []byte(strings.Join(lines, "\n")), info.Mode()); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
