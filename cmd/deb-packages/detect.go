package main

import (
	"fmt"
	"os"
	"path/filepath"
)

// detectFailed is the sentinel error type that tells main to exit 100
// (CNB's "this buildpack does not apply") rather than 1 (a real failure).
type detectFailed struct{}

func (detectFailed) Error() string { return "no project.toml found" }

// runDetect implements the detect phase: pass if the application directory
// contains a project.toml, fail otherwise. args, if given, overrides the
// app directory for local testing; otherwise CNB_APP_DIR is used.
func runDetect(args []string) error {
	appDir := appDirFrom(args)
	configFile := filepath.Join(appDir, "project.toml")

	if _, err := os.Stat(configFile); err != nil {
		if os.IsNotExist(err) {
			fmt.Println("no project.toml file found")
			return detectFailed{}
		}
		return fmt.Errorf("failed to check for %s: %w", configFile, err)
	}
	return nil
}

func appDirFrom(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	if dir := os.Getenv("CNB_APP_DIR"); dir != "" {
		return dir
	}
	return "."
}
