package execdriver

import (
	"path/filepath"
	"testing"

	"github.com/mogaika/knmap_packer/config"
)

func TestExecDriverMissingCompiler(t *testing.T) {
	d := NewExecDriver(filepath.Join(t.TempDir(), "no-such-compiler"))
	err := d.BuildBundle(config.PlatformWindows64, "Forest.scene", filepath.Join(t.TempDir(), "Forest_win.knmap"))
	if err == nil {
		t.Error("expected error for missing compiler binary")
	}
}
