package config

import (
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		name      string
		testFile  string
		wantErr   bool
		checkFunc func(*testing.T, Config)
	}{
		{
			name:     "all keys",
			testFile: "full.yaml",
			checkFunc: func(t *testing.T, cfg Config) {
				assert.Equal(t, "/scratch/sigscan", cfg.CacheDir)
				assert.Equal(t, "lephad", cfg.Basename)
				assert.Equal(t, 4, cfg.Workers)
				assert.Equal(t, []string{"png", "pdf"}, cfg.Formats)
				assert.Equal(t, "out/plots", cfg.PlotsDir)
			},
		},
		{
			name:     "defaults kept for absent keys",
			testFile: "partial.yaml",
			checkFunc: func(t *testing.T, cfg Config) {
				assert.Equal(t, "hadhad", cfg.Basename)
				assert.Equal(t, []string{"png"}, cfg.Formats)
				assert.Equal(t, "plots", cfg.PlotsDir)
			},
		},
		{
			name:     "empty file",
			testFile: "empty.yaml",
			checkFunc: func(t *testing.T, cfg Config) {
				assert.Equal(t, "hh", cfg.Basename)
			},
		},
		{
			name:     "unknown key",
			testFile: "unknown.yaml",
			wantErr:  true,
		},
		{
			name:     "negative workers",
			testFile: "negative.yaml",
			wantErr:  true,
		},
		{
			name:     "missing explicit file",
			testFile: "nope.yaml",
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join("testdata", tt.testFile)
			cfg, err := Load(path)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, path, cfg.Source)
			tt.checkFunc(t, cfg)
		})
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("SIGSCAN_CONFIG", filepath.Join("testdata", "partial.yaml"))
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "hadhad", cfg.Basename)
}

func TestLoadMissingImplicitFile(t *testing.T) {
	t.Setenv("SIGSCAN_CONFIG", filepath.Join(t.TempDir(), "config.yaml"))
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Defaults(), cfg)
}

func TestCacheRoot(t *testing.T) {
	t.Setenv("SIGSCAN_CACHE_DIR", "")

	root, err := Config{CacheDir: "/from/file"}.CacheRoot()
	require.NoError(t, err)
	assert.Equal(t, "/from/file", root)

	t.Setenv("SIGSCAN_CACHE_DIR", "/from/env")
	root, err = Config{CacheDir: "/from/file"}.CacheRoot()
	require.NoError(t, err)
	assert.Equal(t, "/from/env", root)

	if runtime.GOOS != "linux" {
		return
	}
	t.Setenv("SIGSCAN_CACHE_DIR", "")
	t.Setenv("XDG_CACHE_HOME", "/xdg")
	t.Setenv("HOME", "/home/someone")
	root, err = Config{}.CacheRoot()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/xdg", "sigscan"), root)
}
