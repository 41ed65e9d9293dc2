package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/heathj/imgset/srcset"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleConfig = `
content_image_sizes:
  s: {width: 300}
  m: {width: 900, height: 600}
omit_empty_srcset: true
fragment: true
concurrency: 2
log_level: debug
images:
  /content/images/2021/01/photo.jpg: {width: 450, height: 300}
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "imgset.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	require.NoError(t, Validate(cfg))
	assert.Equal(t, 600, cfg.ContentImageSizes["s"].Width)
	assert.Equal(t, 2400, cfg.ContentImageSizes["xl"].Width)
	assert.Equal(t, []int{600, 1000, 1600}, srcset.Widths(1600, cfg.ContentImageSizes))
}

func TestLoad(t *testing.T) {
	cfg, err := Load(writeConfig(t, sampleConfig))
	require.NoError(t, err)

	assert.Equal(t, map[string]srcset.Size{
		"s": {Width: 300},
		"m": {Width: 900, Height: 600},
	}, cfg.ContentImageSizes, "file sizes replace the defaults")
	assert.True(t, cfg.OmitEmptySrcset)
	assert.True(t, cfg.Fragment)
	assert.Equal(t, 2, cfg.Concurrency)
	assert.Equal(t, logrus.DebugLevel, cfg.Level())
	assert.Equal(t, srcset.Image{Width: 450, Height: 300}, cfg.Images["/content/images/2021/01/photo.jpg"])

	opts := cfg.SrcsetOptions()
	assert.True(t, opts.OmitEmpty)
	assert.Len(t, opts.ContentImageSizes, 2)
}

func TestParseKeepsDefaults(t *testing.T) {
	cfg, err := Parse([]byte("fragment: true\n"))
	require.NoError(t, err)
	assert.Equal(t, DefaultSizes(), cfg.ContentImageSizes)
	assert.Equal(t, 4, cfg.Concurrency)
	assert.Equal(t, "info", cfg.LogLevel)

	cfg, err = Parse(nil)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestParseRejectsUnknownFields(t *testing.T) {
	_, err := Parse([]byte("contentImageSizes:\n  s: {width: 300}\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "strict config parse error")

	_, err = Parse([]byte("content_image_sizes:\n  s: {width: 300, depth: 2}\n"))
	require.Error(t, err)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.True(t, os.IsNotExist(errors.Cause(err)))
}

func TestResolve(t *testing.T) {
	path := writeConfig(t, sampleConfig)

	tests := []struct {
		name    string
		path    string
		environ map[string]string
		check   func(*testing.T, Config)
	}{
		{
			name:    "defaults",
			environ: map[string]string{},
			check: func(t *testing.T, cfg Config) {
				assert.Equal(t, Default(), cfg)
			},
		},
		{
			name:    "path from env",
			environ: map[string]string{"IMGSET_CONFIG": path},
			check: func(t *testing.T, cfg Config) {
				assert.Equal(t, 2, cfg.Concurrency)
				assert.True(t, cfg.Fragment)
			},
		},
		{
			name: "env overrides file",
			path: path,
			environ: map[string]string{
				"IMGSET_LOG_LEVEL":         "warn",
				"IMGSET_OMIT_EMPTY_SRCSET": "false",
				"IMGSET_FRAGMENT":          "false",
				"IMGSET_CONCURRENCY":       "8",
			},
			check: func(t *testing.T, cfg Config) {
				assert.Equal(t, logrus.WarnLevel, cfg.Level())
				assert.False(t, cfg.OmitEmptySrcset)
				assert.False(t, cfg.Fragment)
				assert.Equal(t, 8, cfg.Concurrency)
				assert.Len(t, cfg.ContentImageSizes, 2)
			},
		},
		{
			name:    "explicit path wins over env path",
			path:    path,
			environ: map[string]string{"IMGSET_CONFIG": "/does/not/exist.yaml"},
			check: func(t *testing.T, cfg Config) {
				assert.Equal(t, 2, cfg.Concurrency)
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Resolve(tt.path, tt.environ)
			require.NoError(t, err)
			tt.check(t, cfg)
		})
	}
}

func TestResolveErrors(t *testing.T) {
	_, err := Resolve("", map[string]string{"IMGSET_CONCURRENCY": "lots"})
	assert.Error(t, err)

	_, err = Resolve("", map[string]string{"IMGSET_CONCURRENCY": "0"})
	assert.True(t, errors.Is(err, ErrInvalidConfig))

	_, err = Resolve("", map[string]string{"IMGSET_LOG_LEVEL": "loud"})
	assert.True(t, errors.Is(err, ErrInvalidConfig))
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"no sizes", func(c *Config) { c.ContentImageSizes = nil }},
		{"zero width", func(c *Config) { c.ContentImageSizes["s"] = srcset.Size{} }},
		{"negative height", func(c *Config) { c.ContentImageSizes["s"] = srcset.Size{Width: 10, Height: -1} }},
		{"image without width", func(c *Config) { c.Images = map[string]srcset.Image{"/a.jpg": {Height: 10}} }},
		{"image with negative height", func(c *Config) { c.Images = map[string]srcset.Image{"/a.jpg": {Width: 10, Height: -1}} }},
		{"concurrency", func(c *Config) { c.Concurrency = 0 }},
		{"log level", func(c *Config) { c.LogLevel = "chatty" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := Default()
			tt.mutate(&cfg)
			err := Validate(cfg)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidConfig))
		})
	}
}
