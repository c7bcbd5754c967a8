// Package config loads LocalSketch settings from a TOML file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"

	"LocalSketch/internal/state"
	"LocalSketch/internal/tools"

	"github.com/BurntSushi/toml"
)

// ErrInvalid is returned by Validate for out-of-range settings.
var ErrInvalid = errors.New("config: invalid setting")

type Canvas struct {
	Width      int    `toml:"width"`
	Height     int    `toml:"height"`
	Background string `toml:"background"`
}

type Paint struct {
	Color          string  `toml:"color"`
	StrokeWidth    float64 `toml:"stroke_width"`
	MaxStrokeWidth float64 `toml:"max_stroke_width"`
}

type History struct {
	// Limit caps retained snapshots; 0 keeps everything.
	Limit int `toml:"limit"`
	// MaxBytes caps the pixel bytes held by snapshots; 0 disables the cap.
	MaxBytes int64 `toml:"max_bytes"`
}

type Server struct {
	Addr      string `toml:"addr"`
	Advertise bool   `toml:"advertise"`
	Name      string `toml:"name"`
}

type Log struct {
	Level string `toml:"level"`
}

// Config is the whole settings file.
type Config struct {
	Canvas  Canvas  `toml:"canvas"`
	Paint   Paint   `toml:"paint"`
	History History `toml:"history"`
	Server  Server  `toml:"server"`
	Log     Log     `toml:"log"`
}

// Default returns the settings used when no file is present.
func Default() Config {
	opts := state.DefaultOptions()
	return Config{
		Canvas: Canvas{Width: opts.Width, Height: opts.Height, Background: "white"},
		Paint: Paint{
			Color:          "black",
			StrokeWidth:    opts.Paint.Width,
			MaxStrokeWidth: opts.MaxStrokeWidth,
		},
		History: History{Limit: opts.HistoryLimit, MaxBytes: opts.HistoryBytes},
		Server:  Server{Addr: ":8888", Advertise: true, Name: "LocalSketch"},
		Log:     Log{Level: "info"},
	}
}

// Load reads path over the defaults. A missing file yields the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	md, err := toml.DecodeFile(path, &cfg)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("config: decode %s: %w", path, err)
	}
	if keys := md.Undecoded(); len(keys) > 0 {
		slog.Warn("[CONFIG] unknown keys ignored", "file", path, "keys", fmt.Sprint(keys))
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes cfg to path as TOML.
func Save(path string, cfg Config) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("config: create %s: %w", path, err)
	}
	if err := toml.NewEncoder(f).Encode(cfg); err != nil {
		f.Close()
		return fmt.Errorf("config: encode %s: %w", path, err)
	}
	return f.Close()
}

// Validate checks ranges and parses color and level names.
func (c Config) Validate() error {
	if c.Canvas.Width <= 0 || c.Canvas.Height <= 0 {
		return fmt.Errorf("%w: canvas size %dx%d", ErrInvalid, c.Canvas.Width, c.Canvas.Height)
	}
	if _, err := tools.ParseColor(c.Canvas.Background); err != nil {
		return fmt.Errorf("%w: canvas background: %v", ErrInvalid, err)
	}
	if _, err := tools.ParseColor(c.Paint.Color); err != nil {
		return fmt.Errorf("%w: paint color: %v", ErrInvalid, err)
	}
	if c.Paint.MaxStrokeWidth < 0 {
		return fmt.Errorf("%w: max_stroke_width %g", ErrInvalid, c.Paint.MaxStrokeWidth)
	}
	if _, err := tools.ClampWidth(c.Paint.StrokeWidth, c.Paint.MaxStrokeWidth); err != nil {
		return fmt.Errorf("%w: stroke_width: %v", ErrInvalid, err)
	}
	if c.History.Limit < 0 {
		return fmt.Errorf("%w: history limit %d", ErrInvalid, c.History.Limit)
	}
	if c.History.MaxBytes < 0 {
		return fmt.Errorf("%w: history max_bytes %d", ErrInvalid, c.History.MaxBytes)
	}
	if _, err := c.Level(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	return nil
}

// Level parses the log level name.
func (c Config) Level() (slog.Level, error) {
	var lvl slog.Level
	name := strings.TrimSpace(c.Log.Level)
	if name == "" {
		return slog.LevelInfo, nil
	}
	if err := lvl.UnmarshalText([]byte(name)); err != nil {
		return 0, fmt.Errorf("log level %q: %w", name, err)
	}
	return lvl, nil
}

// EngineOptions converts the canvas, paint and history sections.
func (c Config) EngineOptions() (state.Options, error) {
	bg, err := tools.ParseColor(c.Canvas.Background)
	if err != nil {
		return state.Options{}, err
	}
	fg, err := tools.ParseColor(c.Paint.Color)
	if err != nil {
		return state.Options{}, err
	}
	return state.Options{
		Width:          c.Canvas.Width,
		Height:         c.Canvas.Height,
		Background:     bg,
		Paint:          tools.Paint{Color: fg, Width: c.Paint.StrokeWidth},
		MaxStrokeWidth: c.Paint.MaxStrokeWidth,
		HistoryLimit:   c.History.Limit,
		HistoryBytes:   c.History.MaxBytes,
	}, nil
}
