package knmap

import (
	"bytes"
	"encoding/binary"

	"github.com/pkg/errors"

	"github.com/mogaika/knmap_packer/config"
	"github.com/mogaika/knmap_packer/utils"
	"github.com/mogaika/knmap_packer/vfs"
)

// ErrMissingResource marks a build-eligible entry whose scene or image
// reference is unset or whose backing file is gone.
var ErrMissingResource = errors.New("map entry is missing a required resource")

// Bundle header layout, little-endian, prepended to every built bundle:
//
//	bytes   banner         (cfg.HeaderBanner, raw, no prefix)
//	int32   toolVersion
//	int64   unixTimestampSeconds
//	string  mapName
//	string  creatorName
//	int32   reserved       (always 0)
//	int32   imageByteLength
//	bytes   imageBytes
//
// Strings are a uint32 byte count followed by the charmap-encoded bytes
// (config.GetEncoding), matching how the engine reads in-game text.
// The header is regenerated on every build and never parsed back by this
// tool, so the layout only has to be stable within one tool version.
func MarshalHeader(cfg *config.Config, timestamp int64, mapName string, creatorName string, imageData []byte) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(cfg.HeaderBanner)
	binary.Write(&buf, binary.LittleEndian, cfg.ToolVersion)
	binary.Write(&buf, binary.LittleEndian, timestamp)

	for _, s := range []string{mapName, creatorName} {
		encoded, err := utils.EncodeString(s)
		if err != nil {
			return nil, errors.Wrapf(err, "Failed to encode header string")
		}
		binary.Write(&buf, binary.LittleEndian, uint32(len(encoded)))
		buf.Write(encoded)
	}

	binary.Write(&buf, binary.LittleEndian, int32(0))
	binary.Write(&buf, binary.LittleEndian, int32(len(imageData)))
	buf.Write(imageData)

	return buf.Bytes(), nil
}

// HeaderForEntry reads the entry loadscreen from disk and marshals the
// bundle header. An unset or unreadable image is an ErrMissingResource.
func HeaderForEntry(cfg *config.Config, e *Entry, creatorName string, timestamp int64) ([]byte, error) {
	if e.Image == nil {
		return nil, errors.Wrapf(ErrMissingResource, "map %q has no loadscreen image", e.Name)
	}

	imageData, err := vfs.ReadFile(e.Image)
	if err != nil {
		return nil, errors.Wrapf(ErrMissingResource, "map %q loadscreen %q: %v", e.Name, e.Image.Path(), err)
	}

	return MarshalHeader(cfg, timestamp, e.Name, creatorName, imageData)
}
