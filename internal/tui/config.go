package tui

import (
	"time"

	"github.com/Mujtaba19938/FINDASH/internal/tui/themes"
)

// Config holds TUI configuration.
type Config struct {
	Theme           themes.Theme
	Currency        string
	RefreshInterval time.Duration
	Width           int
	Height          int
	AltScreen       bool
}

// Option is a functional option for configuring the TUI.
type Option func(*Config)

func defaultConfig() Config {
	return Config{
		Theme:     themes.Default,
		Currency:  "USD",
		Width:     80,
		Height:    24,
		AltScreen: true,
	}
}

// WithTheme sets the color theme by name.
func WithTheme(name string) Option {
	return func(c *Config) {
		c.Theme = themes.GetTheme(name)
	}
}

// WithCurrency sets the ISO currency used to format amounts.
func WithCurrency(code string) Option {
	return func(c *Config) {
		if code != "" {
			c.Currency = code
		}
	}
}

// WithRefreshInterval reloads the summary periodically. Zero disables it.
func WithRefreshInterval(d time.Duration) Option {
	return func(c *Config) {
		c.RefreshInterval = d
	}
}

// WithSize sets the initial dimensions before the first resize event.
func WithSize(width, height int) Option {
	return func(c *Config) {
		c.Width = width
		c.Height = height
	}
}

// WithInline renders in the main screen buffer instead of the alternate one.
func WithInline() Option {
	return func(c *Config) {
		c.AltScreen = false
	}
}
