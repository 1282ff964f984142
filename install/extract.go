package install

import (
	"archive/tar"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/blakesmith/ar"
	"github.com/klauspost/compress/zstd"
	"github.com/ulikunitz/xz"
)

// extract opens localPath as an ar archive and untars every data.tar.<ext>
// member into layerRoot. Other members (debian-binary, control.tar.*) are
// ignored. Multiple archives overlay the same layerRoot; a later archive's
// file silently wins over an earlier one's at the same path.
func extract(localPath, layerRoot string) error {
	f, err := os.Open(localPath)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", localPath, err)
	}
	defer f.Close()

	arR := ar.NewReader(f)
	for {
		header, err := arR.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to read ar header in %s: %w", localPath, err)
		}

		name := strings.TrimSpace(header.Name)
		if !strings.HasPrefix(name, "data.tar") {
			continue
		}

		tr, err := dataTarReader(name, arR)
		if err != nil {
			return fmt.Errorf("failed to open %s in %s: %w", name, localPath, err)
		}
		if err := untar(tr, layerRoot); err != nil {
			return fmt.Errorf("failed to extract %s from %s: %w", name, localPath, err)
		}
	}
}

func dataTarReader(memberName string, r io.Reader) (*tar.Reader, error) {
	ext := strings.TrimPrefix(filepath.Ext(memberName), ".")
	switch ext {
	case "", "tar":
		return tar.NewReader(r), nil
	case "gz":
		gz, err := gzip.NewReader(r)
		if err != nil {
			return nil, err
		}
		gz.Multistream(true)
		return tar.NewReader(gz), nil
	case "xz":
		xr, err := xz.NewReader(r)
		if err != nil {
			return nil, err
		}
		return tar.NewReader(xr), nil
	case "zst", "zstd":
		zr, err := zstd.NewReader(r)
		if err != nil {
			return nil, err
		}
		return tar.NewReader(zr), nil
	default:
		return nil, &UnsupportedCompressionError{File: memberName, Extension: ext}
	}
}

func untar(tr *tar.Reader, layerRoot string) error {
	for {
		th, err := tr.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}

		rel := strings.TrimPrefix(th.Name, "./")
		if rel == "" || rel == "." {
			continue
		}
		dest := filepath.Join(layerRoot, rel)

		switch th.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(dest, os.FileMode(th.Mode)); err != nil {
				return err
			}
		case tar.TypeSymlink:
			os.Remove(dest)
			if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
				return err
			}
			if err := os.Symlink(th.Linkname, dest); err != nil {
				return err
			}
		case tar.TypeLink:
			if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
				return err
			}
			target := filepath.Join(layerRoot, strings.TrimPrefix(th.Linkname, "./"))
			os.Remove(dest)
			if err := os.Link(target, dest); err != nil {
				return err
			}
		case tar.TypeReg:
			if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
				return err
			}
			out, err := os.OpenFile(dest, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, os.FileMode(th.Mode))
			if err != nil {
				return err
			}
			_, copyErr := io.Copy(out, tr)
			closeErr := out.Close()
			if copyErr != nil {
				return copyErr
			}
			if closeErr != nil {
				return closeErr
			}
		}
	}
}
