package config

import (
	"github.com/pkg/errors"
)

type Platform int

const (
	PlatformUnknown Platform = iota
	PlatformOSX
	PlatformWindows64
)

var ErrUnsupportedPlatform = errors.New("unsupported target platform")

var platformNames = map[string]Platform{
	"osx":   PlatformOSX,
	"win64": PlatformWindows64,
}

func (p Platform) String() string {
	switch p {
	case PlatformOSX:
		return "osx"
	case PlatformWindows64:
		return "win64"
	default:
		return "unknown"
	}
}

// Suffix returns the per-platform bundle name suffix.
// Platforms outside the enumerated set return ErrUnsupportedPlatform.
func (p Platform) Suffix() (string, error) {
	switch p {
	case PlatformOSX:
		return "_osx", nil
	case PlatformWindows64:
		return "_win", nil
	default:
		return "", errors.Wrapf(ErrUnsupportedPlatform, "platform %d", int(p))
	}
}

func ParsePlatform(name string) (Platform, error) {
	if p, ok := platformNames[name]; ok {
		return p, nil
	}
	return PlatformUnknown, errors.Wrapf(ErrUnsupportedPlatform, "platform %q", name)
}

func ListPlatforms() []string {
	return []string{"osx", "win64"}
}
