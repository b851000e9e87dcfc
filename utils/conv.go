package utils

import (
	"bytes"

	"github.com/mogaika/knmap_packer/config"

	"github.com/pkg/errors"
	"golang.org/x/text/transform"
)

// EncodeString transcodes s into the configured engine charmap.
// Characters outside the charmap make the bundle unreadable for the engine,
// so they are an error rather than silently replaced.
func EncodeString(s string) ([]byte, error) {
	bs, _, err := transform.Bytes(config.GetEncoding().NewEncoder(), []byte(s))
	if err != nil {
		return nil, errors.Wrapf(err, "Failed to encode %q with %v", s, config.GetEncoding())
	}
	return bs, nil
}

func DecodeString(bs []byte) (string, error) {
	s, _, err := transform.Bytes(config.GetEncoding().NewDecoder(), bs)
	if err != nil {
		return "", errors.Wrapf(err, "Failed to decode string with %v", config.GetEncoding())
	}
	return string(s), nil
}

// BytesToString cuts s at the first zero byte and transcodes the rest.
func BytesToString(bs []byte) string {
	n := bytes.IndexByte(bs, 0)
	if n < 0 {
		n = len(bs)
	}
	s, err := DecodeString(bs[0:n])
	if err != nil {
		return string(bs[0:n])
	}
	return s
}
