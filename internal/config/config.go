// Package config loads the optional sigscan YAML configuration file.
//
// The file is looked up at the path given explicitly, then at
// $SIGSCAN_CONFIG, then at <UserConfigDir>/sigscan/config.yaml. A missing
// file is not an error unless its path was given explicitly.
package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

type Config struct {
	CacheDir string   `yaml:"cache_dir"`
	Basename string   `yaml:"basename"`
	Workers  int      `yaml:"workers"`
	Formats  []string `yaml:"formats"`
	PlotsDir string   `yaml:"plots_dir"`

	// Source is the file the values were read from, if any.
	Source string `yaml:"-"`
}

func Defaults() Config {
	return Config{
		Basename: "hh",
		Formats:  []string{"png"},
		PlotsDir: "plots",
	}
}

// Path resolves the configuration file location. It returns "" when no
// candidate can be determined.
func Path(explicit string) string {
	if explicit != "" {
		return explicit
	}
	if p, ok := os.LookupEnv("SIGSCAN_CONFIG"); ok && p != "" {
		return p
	}
	if dir, err := os.UserConfigDir(); err == nil && dir != "" {
		return filepath.Join(dir, "sigscan", "config.yaml")
	}
	return ""
}

// Load returns the defaults overlaid with the configuration file.
func Load(explicit string) (Config, error) {
	cfg := Defaults()
	path := Path(explicit)
	if path == "" {
		return cfg, nil
	}

	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) && explicit == "" {
			return cfg, nil
		}
		return cfg, err
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Defaults(), fmt.Errorf("could not parse %s: %w", path, err)
	}
	if cfg.Workers < 0 {
		return Defaults(), fmt.Errorf("%s: workers must not be negative", path)
	}
	cfg.Source = path
	return cfg, nil
}

// CacheRoot resolves the significance cache root.
// Precedence:
//  1. SIGSCAN_CACHE_DIR, if set and non-empty
//  2. cache_dir from the configuration file
//  3. os.UserCacheDir()/sigscan
func (c Config) CacheRoot() (string, error) {
	if d, ok := os.LookupEnv("SIGSCAN_CACHE_DIR"); ok && d != "" {
		return d, nil
	}
	if c.CacheDir != "" {
		return c.CacheDir, nil
	}
	dir, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("could not determine cache directory: %w", err)
	}
	return filepath.Join(dir, "sigscan"), nil
}
