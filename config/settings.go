package config

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Settings is the optional on-disk packer configuration. Flags override
// anything loaded from here.
type Settings struct {
	CreatorName   string `yaml:"creator_name"`
	Encoding      string `yaml:"encoding"`
	BuildDirName  string `yaml:"build_dir"`
	CopyBlockSize int    `yaml:"copy_block_size"`
}

func LoadSettings(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "Failed to read settings file %q", path)
	}

	var s Settings
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, errors.Wrapf(err, "Failed to parse settings file %q", path)
	}
	return &s, nil
}

// Apply merges non-empty settings values into cfg.
func (s *Settings) Apply(cfg *Config) error {
	if s.CreatorName != "" {
		cfg.CreatorName = s.CreatorName
	}
	if s.BuildDirName != "" {
		cfg.BuildDirName = s.BuildDirName
	}
	if s.CopyBlockSize != 0 {
		if s.CopyBlockSize < 0 {
			return errors.Errorf("Invalid copy block size %d", s.CopyBlockSize)
		}
		cfg.CopyBlockSize = s.CopyBlockSize
	}
	if s.Encoding != "" {
		if err := SetEncoding(s.Encoding); err != nil {
			return err
		}
	}
	return nil
}
