package knmap

import (
	"io"
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/mogaika/knmap_packer/config"
)

// ErrBundleNotFound marks a patch request for a bundle file that was never
// built (or was removed between build and patch).
var ErrBundleNotFound = errors.New("bundle file does not exist")

// PatchBundle rewrites the file at bundlePath to header || original bytes.
//
// The header and a block-by-block copy of the original go into a temporary
// file next to the target; the target is then atomically replaced with the
// temp file. An interrupted copy therefore never corrupts the original
// bundle, at worst it leaves a temp file behind for the caller to sweep.
func PatchBundle(cfg *config.Config, bundlePath string, header []byte) error {
	if _, err := os.Stat(bundlePath); err != nil {
		if os.IsNotExist(err) {
			return errors.Wrapf(ErrBundleNotFound, "%q", bundlePath)
		}
		return errors.Wrapf(err, "Failed to stat bundle %q", bundlePath)
	}

	src, err := os.Open(bundlePath)
	if err != nil {
		return errors.Wrapf(err, "Failed to open bundle %q", bundlePath)
	}
	defer src.Close()

	tmp, err := os.CreateTemp(filepath.Dir(bundlePath), filepath.Base(bundlePath)+".patch-*")
	if err != nil {
		return errors.Wrapf(err, "Failed to create temp file for %q", bundlePath)
	}
	defer tmp.Close()

	if _, err := tmp.Write(header); err != nil {
		return errors.Wrapf(err, "Failed to write header to %q", tmp.Name())
	}

	buf := make([]byte, cfg.CopyBlockSize)
	for {
		n, err := src.Read(buf)
		if n > 0 {
			if _, werr := tmp.Write(buf[:n]); werr != nil {
				return errors.Wrapf(werr, "Failed to copy bundle data to %q", tmp.Name())
			}
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return errors.Wrapf(err, "Failed to read bundle %q", bundlePath)
		}
	}

	if err := tmp.Sync(); err != nil {
		return errors.Wrapf(err, "Failed to sync %q", tmp.Name())
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrapf(err, "Failed to close %q", tmp.Name())
	}

	if err := os.Rename(tmp.Name(), bundlePath); err != nil {
		return errors.Wrapf(err, "Failed to replace bundle %q", bundlePath)
	}
	return nil
}
