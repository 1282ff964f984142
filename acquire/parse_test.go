package acquire

import (
	"context"
	"testing"

	"github.com/heroku/buildpacks-deb-packages/control"
)

func TestParseIndexFeedsPackageIndex(t *testing.T) {
	body := "Package: curl\nVersion: 7.81.0-1\nFilename: pool/main/c/curl/curl_7.81.0-1_amd64.deb\nSHA256: aaa\n\n" +
		"Package: wget\nVersion: 1.21.2-1\nFilename: pool/main/w/wget/wget_1.21.2-1_amd64.deb\nSHA256: bbb\n\n"

	idx := control.New()
	if err := ParseIndex(context.Background(), "http://archive.ubuntu.com/ubuntu", []byte(body), idx); err != nil {
		t.Fatalf("ParseIndex: %v", err)
	}
	if idx.Count() != 2 {
		t.Errorf("Count() = %d, want 2", idx.Count())
	}
	if _, ok := idx.HighestVersion("curl"); !ok {
		t.Error("expected curl to be indexed")
	}
}

func TestParseIndexCollectsAllErrors(t *testing.T) {
	body := "Package: curl\nVersion: 1\n\n" + // missing Filename/SHA256
		"Package: wget\nVersion: 1\n\n" // also missing

	idx := control.New()
	err := ParseIndex(context.Background(), "uri", []byte(body), idx)
	if err == nil {
		t.Fatal("expected parse errors from malformed stanzas")
	}
	if idx.Count() != 0 {
		t.Errorf("Count() = %d, want 0", idx.Count())
	}
}
