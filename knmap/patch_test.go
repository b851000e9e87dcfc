package knmap

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
)

func TestPatchBundle(t *testing.T) {
	cfg := testConfig() // copy block size 8
	header := []byte("HDR\x01\x02")

	for _, size := range []int{0, 1, 7, 8, 9, 16, 17, 24} {
		dir := t.TempDir()
		original := make([]byte, size)
		for i := range original {
			original[i] = byte(i)
		}
		bundlePath := writeTestFile(t, dir, "Forest_win.knmap", original)

		if err := PatchBundle(cfg, bundlePath, header); err != nil {
			t.Fatalf("size %d: PatchBundle: %v", size, err)
		}

		patched, err := os.ReadFile(bundlePath)
		if err != nil {
			t.Fatalf("size %d: %v", size, err)
		}
		expected := append(append([]byte{}, header...), original...)
		if !bytes.Equal(patched, expected) {
			t.Errorf("size %d: patched content mismatch (len %d, expected %d)", size, len(patched), len(expected))
		}

		// no temp files must survive a successful patch
		files, err := os.ReadDir(dir)
		if err != nil {
			t.Fatal(err)
		}
		if len(files) != 1 {
			names := make([]string, 0)
			for _, f := range files {
				names = append(names, f.Name())
			}
			t.Errorf("size %d: leftover files after patch: %v", size, names)
		}
	}
}

func TestPatchBundleNotFound(t *testing.T) {
	cfg := testConfig()
	dir := t.TempDir()

	err := PatchBundle(cfg, filepath.Join(dir, "missing.knmap"), []byte("HDR"))
	if err == nil {
		t.Fatal("expected error for missing bundle, got nil")
	}
	if cause := errors.Cause(err); cause != ErrBundleNotFound {
		t.Errorf("cause = %v; expected ErrBundleNotFound", cause)
	}

	// a not-found failure must not create temp files
	files, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(files) != 0 {
		t.Errorf("temp files created for missing bundle: %v", files)
	}
}
