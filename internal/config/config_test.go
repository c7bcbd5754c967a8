package config

import (
	"image/color"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "localsketch.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, ":8888", cfg.Server.Addr)
	assert.Equal(t, 50, cfg.History.Limit)
	assert.Equal(t, int64(256<<20), cfg.History.MaxBytes)
}

func TestLoadMissingFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)

	cfg, err = Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := writeFile(t, `
[canvas]
width = 320
height = 200
background = "#202020"

[paint]
color = "tomato"
stroke_width = 8

[history]
limit = 0
max_bytes = 1048576

[log]
level = "debug"
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 320, cfg.Canvas.Width)
	assert.Equal(t, 0, cfg.History.Limit)
	assert.Equal(t, 50.0, cfg.Paint.MaxStrokeWidth, "untouched keys keep defaults")
	assert.Equal(t, ":8888", cfg.Server.Addr)

	lvl, err := cfg.Level()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, lvl)

	opts, err := cfg.EngineOptions()
	require.NoError(t, err)
	assert.Equal(t, 200, opts.Height)
	assert.Equal(t, color.NRGBA{R: 0x20, G: 0x20, B: 0x20, A: 0xff}, opts.Background)
	assert.Equal(t, color.NRGBA{R: 0xff, G: 0x63, B: 0x47, A: 0xff}, opts.Paint.Color)
	assert.Equal(t, 8.0, opts.Paint.Width)
	assert.Equal(t, int64(1<<20), opts.HistoryBytes)
}

func TestLoadMalformed(t *testing.T) {
	_, err := Load(writeFile(t, "[canvas\nwidth = "))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config: decode")
}

func TestLoadInvalidValues(t *testing.T) {
	for name, body := range map[string]string{
		"size":   "[canvas]\nwidth = 0",
		"color":  "[paint]\ncolor = \"plaid\"",
		"width":  "[paint]\nstroke_width = -1",
		"limit":  "[history]\nlimit = -3",
		"bytes":  "[history]\nmax_bytes = -1",
		"level":  "[log]\nlevel = \"loud\"",
		"bgname": "[canvas]\nbackground = \"#12\"",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := Load(writeFile(t, body))
			assert.ErrorIs(t, err, ErrInvalid)
		})
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.toml")
	cfg := Default()
	cfg.Server.Name = "studio"
	cfg.Canvas.Width = 640
	require.NoError(t, Save(path, cfg))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, got)
}
