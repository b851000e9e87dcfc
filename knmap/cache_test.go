package knmap

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"

	"github.com/mogaika/knmap_packer/config"
)

func testConfig() *config.Config {
	cfg := config.NewDefaultConfig("Kino")
	cfg.CopyBlockSize = 8
	return cfg
}

func writeTestFile(t *testing.T, dir, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0666); err != nil {
		t.Fatalf("writeTestFile(%q): %v", name, err)
	}
	return path
}

func TestCacheRoundTrip(t *testing.T) {
	cfg := testConfig()
	dir := t.TempDir()
	resolver := NewFileResolver(dir)

	writeTestFile(t, dir, "s1", []byte("scene"))
	writeTestFile(t, dir, "i1", []byte("image"))

	entries := []*Entry{
		{id: newEntryID(), Selected: true, Name: "Forest",
			Scene: resolver.PathToRef("s1"), Image: resolver.PathToRef("i1")},
		{id: newEntryID(), Selected: false, Name: ""},
		{id: newEntryID(), Selected: true, Name: "Задворки",
			Scene: resolver.PathToRef("s1")},
	}

	var buf bytes.Buffer
	if err := MarshalCache(&buf, cfg, "Kino", entries, resolver); err != nil {
		t.Fatalf("MarshalCache: %v", err)
	}

	creator, decoded, err := UnmarshalCache(bytes.NewReader(buf.Bytes()), cfg, resolver)
	if err != nil {
		t.Fatalf("UnmarshalCache: %v", err)
	}
	if creator != "Kino" {
		t.Errorf("creator = %q; expected %q", creator, "Kino")
	}
	if len(decoded) != len(entries) {
		t.Fatalf("decoded %d entries; expected %d", len(decoded), len(entries))
	}
	for i := range entries {
		if decoded[i].Selected != entries[i].Selected {
			t.Errorf("entry %d selected = %v; expected %v", i, decoded[i].Selected, entries[i].Selected)
		}
		if decoded[i].Name != entries[i].Name {
			t.Errorf("entry %d name = %q; expected %q", i, decoded[i].Name, entries[i].Name)
		}
		if got, want := resolver.RefToPath(decoded[i].Scene), resolver.RefToPath(entries[i].Scene); got != want {
			t.Errorf("entry %d scene = %q; expected %q", i, got, want)
		}
		if got, want := resolver.RefToPath(decoded[i].Image), resolver.RefToPath(entries[i].Image); got != want {
			t.Errorf("entry %d image = %q; expected %q", i, got, want)
		}
	}
}

func TestCacheMissingResourceTolerance(t *testing.T) {
	cfg := testConfig()
	dir := t.TempDir()
	resolver := NewFileResolver(dir)

	path := writeTestFile(t, dir, "gone.scene", []byte("scene"))

	entries := []*Entry{
		{id: newEntryID(), Name: "Forest", Scene: resolver.PathToRef("gone.scene")},
	}

	var buf bytes.Buffer
	if err := MarshalCache(&buf, cfg, "Kino", entries, resolver); err != nil {
		t.Fatalf("MarshalCache: %v", err)
	}

	// the resource disappears between save and load
	if err := os.Remove(path); err != nil {
		t.Fatal(err)
	}

	_, decoded, err := UnmarshalCache(bytes.NewReader(buf.Bytes()), cfg, resolver)
	if err != nil {
		t.Fatalf("UnmarshalCache: %v", err)
	}
	if decoded[0].Scene != nil {
		t.Errorf("scene ref = %v; expected unset for missing resource", decoded[0].Scene)
	}
	if decoded[0].Name != "Forest" {
		t.Errorf("name = %q; expected %q", decoded[0].Name, "Forest")
	}
}

func TestCacheTruncated(t *testing.T) {
	cfg := testConfig()
	resolver := NewFileResolver(t.TempDir())

	entries := []*Entry{
		{id: newEntryID(), Selected: true, Name: "Forest"},
		{id: newEntryID(), Selected: false, Name: "Docks"},
	}

	var buf bytes.Buffer
	if err := MarshalCache(&buf, cfg, "Kino", entries, resolver); err != nil {
		t.Fatalf("MarshalCache: %v", err)
	}
	full := buf.Bytes()

	for cut := 0; cut < len(full); cut++ {
		_, _, err := UnmarshalCache(bytes.NewReader(full[:cut]), cfg, resolver)
		if err == nil {
			t.Errorf("cut %d: expected error, got nil", cut)
			continue
		}
		if cause := errors.Cause(err); cause != ErrCacheTruncated {
			t.Errorf("cut %d: cause = %v; expected ErrCacheTruncated", cut, cause)
		}
	}
}

func TestCacheOversizedEntryCount(t *testing.T) {
	cfg := testConfig()
	resolver := NewFileResolver(t.TempDir())

	entries := []*Entry{{id: newEntryID(), Name: "Forest"}}

	var buf bytes.Buffer
	if err := MarshalCache(&buf, cfg, "Kino", entries, resolver); err != nil {
		t.Fatalf("MarshalCache: %v", err)
	}
	raw := buf.Bytes()

	// entry count sits right after the version and creator string
	countOffset := 4 + 4 + len("Kino")
	raw[countOffset] = 3

	_, _, err := UnmarshalCache(bytes.NewReader(raw), cfg, resolver)
	if err == nil {
		t.Fatal("expected error for oversized entry count, got nil")
	}
	if cause := errors.Cause(err); cause != ErrCacheTruncated {
		t.Errorf("cause = %v; expected ErrCacheTruncated", cause)
	}
}

func TestCacheVersionMismatch(t *testing.T) {
	cfg := testConfig()
	resolver := NewFileResolver(t.TempDir())

	var buf bytes.Buffer
	if err := MarshalCache(&buf, cfg, "Kino", nil, resolver); err != nil {
		t.Fatalf("MarshalCache: %v", err)
	}
	raw := buf.Bytes()
	raw[0]++

	_, _, err := UnmarshalCache(bytes.NewReader(raw), cfg, resolver)
	if err == nil {
		t.Fatal("expected error for version mismatch, got nil")
	}
	if cause := errors.Cause(err); cause != ErrCacheVersion {
		t.Errorf("cause = %v; expected ErrCacheVersion", cause)
	}
}

func TestLoadCacheKeepsStateOnFailure(t *testing.T) {
	cfg := testConfig()
	dir := t.TempDir()
	resolver := NewFileResolver(dir)

	r := NewRegistry(cfg)
	e := r.AddEntry()
	r.Rename(e.ID(), "Keeper")

	corrupt := writeTestFile(t, dir, cfg.CacheFileName, []byte{1, 2, 3})

	if err := r.LoadCache(corrupt, resolver); err == nil {
		t.Fatal("expected load error for corrupt cache, got nil")
	}
	if len(r.Entries()) != 1 || r.Entries()[0].Name != "Keeper" {
		t.Errorf("registry state lost after failed load: %v", r.Entries())
	}
}

func TestSaveLoadCacheFile(t *testing.T) {
	cfg := testConfig()
	dir := t.TempDir()
	resolver := NewFileResolver(dir)
	cachePath := filepath.Join(dir, cfg.CacheFileName)

	r := NewRegistry(cfg)
	e := r.AddEntry()
	r.Rename(e.ID(), "Forest")
	r.SetSelected(e.ID(), true)

	if !r.Dirty() {
		t.Error("registry not dirty after mutations")
	}
	if err := r.SaveCache(cachePath, resolver); err != nil {
		t.Fatalf("SaveCache: %v", err)
	}
	if r.Dirty() {
		t.Error("registry still dirty after save")
	}

	loaded := NewRegistry(cfg)
	if err := loaded.LoadCache(cachePath, resolver); err != nil {
		t.Fatalf("LoadCache: %v", err)
	}
	if loaded.Creator() != "Kino" {
		t.Errorf("creator = %q; expected %q", loaded.Creator(), "Kino")
	}
	entries := loaded.Entries()
	if len(entries) != 1 || entries[0].Name != "Forest" || !entries[0].Selected {
		t.Errorf("loaded entries mismatch: %v", entries)
	}
}
