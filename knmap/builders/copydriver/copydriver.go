package copydriver

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/mogaika/knmap_packer/config"
	"github.com/mogaika/knmap_packer/vfs"
)

// CopyDriver serves engines that compile bundles out-of-band: it stages a
// pre-compiled bundle from a source directory into the build output path.
// The expected source file name is the output file name (map name + platform
// suffix + extension).
type CopyDriver struct {
	sourceDir string
}

func NewCopyDriver(sourceDir string) *CopyDriver {
	return &CopyDriver{sourceDir: sourceDir}
}

func (d *CopyDriver) BuildBundle(platform config.Platform, scenePath string, outPath string) error {
	srcPath := filepath.Join(d.sourceDir, filepath.Base(outPath))
	if _, err := os.Stat(srcPath); err != nil {
		return errors.Wrapf(err, "No pre-built bundle %q", srcPath)
	}

	src := vfs.NewDirectoryDriverFile(srcPath)
	reader, err := vfs.OpenFileAndGetReader(src, true)
	if err != nil {
		return errors.Wrapf(err, "Cannot open pre-built bundle %q", srcPath)
	}
	defer src.Close()

	if err := vfs.NewDirectoryDriverFile(outPath).Copy(reader); err != nil {
		return errors.Wrapf(err, "Cannot stage bundle to %q", outPath)
	}
	return nil
}
