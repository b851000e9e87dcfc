package copydriver

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/mogaika/knmap_packer/config"
)

func TestCopyDriver(t *testing.T) {
	srcDir := t.TempDir()
	outDir := t.TempDir()

	bundle := []byte("prebuilt bundle bytes")
	if err := os.WriteFile(filepath.Join(srcDir, "Forest_win.knmap"), bundle, 0666); err != nil {
		t.Fatal(err)
	}

	d := NewCopyDriver(srcDir)
	outPath := filepath.Join(outDir, "Forest_win.knmap")
	if err := d.BuildBundle(config.PlatformWindows64, "Forest.scene", outPath); err != nil {
		t.Fatalf("BuildBundle: %v", err)
	}

	staged, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(staged, bundle) {
		t.Errorf("staged bundle differs from source")
	}
}

func TestCopyDriverMissingBundle(t *testing.T) {
	d := NewCopyDriver(t.TempDir())
	outPath := filepath.Join(t.TempDir(), "Forest_win.knmap")
	if err := d.BuildBundle(config.PlatformWindows64, "Forest.scene", outPath); err == nil {
		t.Error("expected error for missing pre-built bundle")
	}
}
