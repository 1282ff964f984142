package main

import (
	"os"
	"path/filepath"
	"testing"
)

func TestRunDetectPassesWithProjectTOML(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "project.toml"), []byte("[_]\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if err := runDetect([]string{dir}); err != nil {
		t.Fatalf("runDetect: %v", err)
	}
}

func TestRunDetectFailsWithoutProjectTOML(t *testing.T) {
	dir := t.TempDir()
	err := runDetect([]string{dir})
	if err == nil {
		t.Fatal("expected an error")
	}
	if _, ok := err.(detectFailed); !ok {
		t.Errorf("got %T, want detectFailed", err)
	}
}
