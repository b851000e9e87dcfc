package knmap

import (
	"bytes"
	"encoding/binary"
	"io"
	"os"

	"github.com/pkg/errors"

	"github.com/mogaika/knmap_packer/config"
)

var (
	// ErrCacheTruncated marks a cache stream that ended before all declared
	// fields were read.
	ErrCacheTruncated = errors.New("cache stream truncated")
	// ErrCacheVersion marks a cache file whose layout version does not match
	// the current tool. Older tools wrote the version but never checked it;
	// decoding a foreign layout with the current field order silently
	// produces garbage, so a mismatch is rejected instead.
	ErrCacheVersion = errors.New("unsupported cache layout version")
)

// Cache layout, little-endian:
//
//	int32   formatVersion
//	string  creatorName
//	int32   entryCount
//	entryCount times:
//	  byte    selected
//	  string  name
//	  string  scenePath  ("" if unset)
//	  string  imagePath  ("" if unset)
//
// Strings are a uint32 byte count followed by raw UTF-8 bytes. Paths must
// round-trip exactly, so no charmap transcoding happens here.

func writeString(w io.Writer, s string) error {
	if err := binary.Write(w, binary.LittleEndian, uint32(len(s))); err != nil {
		return errors.Wrapf(err, "Failed to write string length")
	}
	if _, err := io.WriteString(w, s); err != nil {
		return errors.Wrapf(err, "Failed to write string payload")
	}
	return nil
}

func readString(r io.Reader) (string, error) {
	var length uint32
	if err := binary.Read(r, binary.LittleEndian, &length); err != nil {
		return "", errors.Wrapf(ErrCacheTruncated, "string length: %v", err)
	}
	buf := make([]byte, length)
	if _, err := io.ReadFull(r, buf); err != nil {
		return "", errors.Wrapf(ErrCacheTruncated, "string payload (%d bytes): %v", length, err)
	}
	return string(buf), nil
}

func MarshalCache(w io.Writer, cfg *config.Config, creator string, entries []*Entry, resolver Resolver) error {
	if err := binary.Write(w, binary.LittleEndian, cfg.CacheVersion); err != nil {
		return errors.Wrapf(err, "Failed to write cache version")
	}
	if err := writeString(w, creator); err != nil {
		return errors.Wrapf(err, "Failed to write creator name")
	}
	if err := binary.Write(w, binary.LittleEndian, int32(len(entries))); err != nil {
		return errors.Wrapf(err, "Failed to write entry count")
	}

	for i, e := range entries {
		selected := byte(0)
		if e.Selected {
			selected = 1
		}
		if err := binary.Write(w, binary.LittleEndian, selected); err != nil {
			return errors.Wrapf(err, "Failed to write entry %d selection flag", i)
		}
		if err := writeString(w, e.Name); err != nil {
			return errors.Wrapf(err, "Failed to write entry %d name", i)
		}
		if err := writeString(w, resolver.RefToPath(e.Scene)); err != nil {
			return errors.Wrapf(err, "Failed to write entry %d scene path", i)
		}
		if err := writeString(w, resolver.RefToPath(e.Image)); err != nil {
			return errors.Wrapf(err, "Failed to write entry %d image path", i)
		}
	}
	return nil
}

func UnmarshalCache(r io.Reader, cfg *config.Config, resolver Resolver) (string, []*Entry, error) {
	var version int32
	if err := binary.Read(r, binary.LittleEndian, &version); err != nil {
		return "", nil, errors.Wrapf(ErrCacheTruncated, "cache version: %v", err)
	}
	if version != cfg.CacheVersion {
		return "", nil, errors.Wrapf(ErrCacheVersion, "cache version %d, tool expects %d", version, cfg.CacheVersion)
	}

	creator, err := readString(r)
	if err != nil {
		return "", nil, errors.Wrapf(err, "Failed to read creator name")
	}

	var count int32
	if err := binary.Read(r, binary.LittleEndian, &count); err != nil {
		return "", nil, errors.Wrapf(ErrCacheTruncated, "entry count: %v", err)
	}
	if count < 0 {
		return "", nil, errors.Wrapf(ErrCacheTruncated, "negative entry count %d", count)
	}

	entries := make([]*Entry, 0)
	for i := int32(0); i < count; i++ {
		var selected byte
		if err := binary.Read(r, binary.LittleEndian, &selected); err != nil {
			return "", nil, errors.Wrapf(ErrCacheTruncated, "entry %d selection flag: %v", i, err)
		}
		name, err := readString(r)
		if err != nil {
			return "", nil, errors.Wrapf(err, "Failed to read entry %d name", i)
		}
		scenePath, err := readString(r)
		if err != nil {
			return "", nil, errors.Wrapf(err, "Failed to read entry %d scene path", i)
		}
		imagePath, err := readString(r)
		if err != nil {
			return "", nil, errors.Wrapf(err, "Failed to read entry %d image path", i)
		}

		entries = append(entries, &Entry{
			id:       newEntryID(),
			Selected: selected != 0,
			Name:     name,
			Scene:    resolver.PathToRef(scenePath),
			Image:    resolver.PathToRef(imagePath),
		})
	}
	return creator, entries, nil
}

// SaveCache persists the registry. The file is written in one shot: the
// marshalled form is small, there is no point streaming it.
func (r *Registry) SaveCache(path string, resolver Resolver) error {
	var buf bytes.Buffer
	if err := MarshalCache(&buf, r.cfg, r.creator, r.entries, resolver); err != nil {
		return errors.Wrapf(err, "Failed to marshal map cache")
	}
	if err := os.WriteFile(path, buf.Bytes(), 0666); err != nil {
		return errors.Wrapf(err, "Failed to write map cache %q", path)
	}
	r.dirty = false
	return nil
}

// LoadCache replaces the registry content with the decoded cache. The swap
// happens only after a fully successful decode, so a corrupt or missing file
// leaves current in-memory state untouched.
func (r *Registry) LoadCache(path string, resolver Resolver) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrapf(err, "Failed to read map cache %q", path)
	}

	creator, entries, err := UnmarshalCache(bytes.NewReader(data), r.cfg, resolver)
	if err != nil {
		return errors.Wrapf(err, "Failed to unmarshal map cache %q", path)
	}

	r.creator = creator
	r.entries = entries
	r.dirty = false
	return nil
}
