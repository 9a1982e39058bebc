package tokenize

import (
	"errors"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Profile is a reusable run configuration, so pipelines can check the column
// list and strategy into version control instead of repeating CLI flags.
type Profile struct {
	Columns     []string `yaml:"columns"`
	Strategy    string   `yaml:"strategy"`
	MappingPath string   `yaml:"mapping_file"`
}

func LoadProfile(path string) (Profile, error) {
	content, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return Profile{}, err
	}

	var profile Profile
	if err := yaml.Unmarshal(content, &profile); err != nil {
		return Profile{}, err
	}

	if len(profile.Columns) == 0 && profile.Strategy == "" && profile.MappingPath == "" {
		return Profile{}, errors.New("profile is empty")
	}

	return profile, nil
}
