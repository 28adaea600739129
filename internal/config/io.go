package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const (
	ProjectFile = "modx.yml"
	UserFile    = ".modx.yaml"

	EmojiSuccess  = "✅"
	EmojiWarning  = "⚠️"
	EmojiInput    = "🖊️"
	EmojiQuestion = "❓"
)

func readYAML(path string, out any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%s invalid config format in %s: %w", EmojiWarning, path, err)
	}
	return nil
}

func writeYAML(path string, v any, perm os.FileMode) error {
	data, err := yaml.Marshal(v)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, perm)
}

// LoadProject reads modx.yml from dir. A missing file is not an error and
// yields a zero config.
func LoadProject(dir string) (*ProjectConfig, error) {
	var cfg ProjectConfig
	err := readYAML(filepath.Join(dir, ProjectFile), &cfg)
	if errors.Is(err, fs.ErrNotExist) {
		return &cfg, nil
	}
	if err != nil {
		return nil, err
	}
	return &cfg, nil
}

func SaveProject(dir string, cfg *ProjectConfig) error {
	return writeYAML(filepath.Join(dir, ProjectFile), cfg, 0o644)
}

func LoadUser(home string) (*UserConfig, error) {
	cfg := UserConfig{Orgs: map[string]Org{}}
	err := readYAML(filepath.Join(home, UserFile), &cfg)
	if errors.Is(err, fs.ErrNotExist) {
		return &cfg, nil
	}
	if err != nil {
		return nil, err
	}
	if cfg.Orgs == nil {
		cfg.Orgs = map[string]Org{}
	}
	return &cfg, nil
}

func SaveUser(home string, cfg *UserConfig) error {
	return writeYAML(filepath.Join(home, UserFile), cfg, 0o600)
}

// SetOrg records alias in the user config, making it the default when no
// default is set yet.
func SetOrg(home, alias string, org Org) error {
	cfg, err := LoadUser(home)
	if err != nil {
		return err
	}
	cfg.Orgs[alias] = org
	if cfg.DefaultOrg == "" {
		cfg.DefaultOrg = alias
	}
	return SaveUser(home, cfg)
}

// RemoveOrg drops alias and reports whether it was present.
func RemoveOrg(home, alias string) (bool, error) {
	cfg, err := LoadUser(home)
	if err != nil {
		return false, err
	}
	if _, ok := cfg.Orgs[alias]; !ok {
		return false, nil
	}
	delete(cfg.Orgs, alias)
	if cfg.DefaultOrg == alias {
		cfg.DefaultOrg = ""
	}
	return true, SaveUser(home, cfg)
}
