package config

import (
	"testing"

	"github.com/pkg/errors"
)

var suffixTests = []struct {
	platform Platform
	suffix   string
	fail     bool
}{
	{PlatformOSX, "_osx", false},
	{PlatformWindows64, "_win", false},
	{PlatformUnknown, "", true},
	{Platform(42), "", true},
}

func TestPlatformSuffix(t *testing.T) {
	for _, test := range suffixTests {
		suffix, err := test.platform.Suffix()
		if test.fail {
			if errors.Cause(err) != ErrUnsupportedPlatform {
				t.Errorf("Suffix(%v): cause = %v; expected ErrUnsupportedPlatform", test.platform, errors.Cause(err))
			}
			continue
		}
		if err != nil {
			t.Errorf("Suffix(%v): %v", test.platform, err)
		} else if suffix != test.suffix {
			t.Errorf("Suffix(%v)=%q; expected %q", test.platform, suffix, test.suffix)
		}
	}
}

func TestParsePlatform(t *testing.T) {
	for _, name := range ListPlatforms() {
		p, err := ParsePlatform(name)
		if err != nil {
			t.Errorf("ParsePlatform(%q): %v", name, err)
			continue
		}
		if p.String() != name {
			t.Errorf("ParsePlatform(%q).String()=%q", name, p.String())
		}
	}

	if _, err := ParsePlatform("playstation2"); errors.Cause(err) != ErrUnsupportedPlatform {
		t.Errorf("ParsePlatform(playstation2): cause = %v; expected ErrUnsupportedPlatform", errors.Cause(err))
	}
}
