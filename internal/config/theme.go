package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

// Theme defines the configurable colors of CLI output and the watch console
type Theme struct {
	// Preset name ("default", "monochrome")
	Preset string `yaml:"preset" env:"PRESET"`

	// Primary accent color (titles, focused input, highlights)
	Accent string `yaml:"accent"`

	// Semantic colors
	Success string `yaml:"success"` // Green - applied changes
	Warning string `yaml:"warning"` // Yellow - reconnecting, paused feed
	Error   string `yaml:"error"`   // Red - failures

	// Text colors
	Key    string `yaml:"key"` // Label keys
	Title  string `yaml:"title"`
	Subtle string `yaml:"subtle"` // Muted/placeholder text
	Normal string `yaml:"normal"`
	Border string `yaml:"border"`
}

// DefaultTheme returns the default theme (purple)
func DefaultTheme() Theme {
	return Theme{
		Preset:  "default",
		Accent:  "#874BFD",
		Success: "#5FD75F",
		Warning: "#FFD700",
		Error:   "#FF0000",
		Key:     "#5F87D7",
		Title:   "#D75FD7",
		Subtle:  "#585858",
		Normal:  "#D0D0D0",
		Border:  "#5F87D7",
	}
}

// MonochromeTheme returns a black and white theme
func MonochromeTheme() Theme {
	return Theme{
		Preset:  "monochrome",
		Accent:  "#FFFFFF",
		Success: "#FFFFFF",
		Warning: "#FFFFFF",
		Error:   "#FFFFFF",
		Key:     "#FFFFFF",
		Title:   "#FFFFFF",
		Subtle:  "#585858",
		Normal:  "#D0D0D0",
		Border:  "#585858",
	}
}

// GetPreset returns a preset theme by name
func GetPreset(name string) Theme {
	switch name {
	case "monochrome":
		return MonochromeTheme()
	default:
		return DefaultTheme()
	}
}

// ApplyDefaults fills in missing colors from the preset
func (t *Theme) ApplyDefaults() {
	preset := GetPreset(t.Preset)

	if t.Preset == "" {
		t.Preset = preset.Preset
	}
	if t.Accent == "" {
		t.Accent = preset.Accent
	}
	if t.Success == "" {
		t.Success = preset.Success
	}
	if t.Warning == "" {
		t.Warning = preset.Warning
	}
	if t.Error == "" {
		t.Error = preset.Error
	}
	if t.Key == "" {
		t.Key = preset.Key
	}
	if t.Title == "" {
		t.Title = preset.Title
	}
	if t.Subtle == "" {
		t.Subtle = preset.Subtle
	}
	if t.Normal == "" {
		t.Normal = preset.Normal
	}
	if t.Border == "" {
		t.Border = preset.Border
	}
}

// MergeFrom copies every non-empty color from other
func (t *Theme) MergeFrom(other Theme) {
	if other.Preset != "" {
		t.Preset = other.Preset
	}
	if other.Accent != "" {
		t.Accent = other.Accent
	}
	if other.Success != "" {
		t.Success = other.Success
	}
	if other.Warning != "" {
		t.Warning = other.Warning
	}
	if other.Error != "" {
		t.Error = other.Error
	}
	if other.Key != "" {
		t.Key = other.Key
	}
	if other.Title != "" {
		t.Title = other.Title
	}
	if other.Subtle != "" {
		t.Subtle = other.Subtle
	}
	if other.Normal != "" {
		t.Normal = other.Normal
	}
	if other.Border != "" {
		t.Border = other.Border
	}
}

// loadThemeFile merges the theme from RELABEL_THEME_FILE, if set
func loadThemeFile(cfg *Config) {
	themeFile := os.Getenv(EnvPrefix + "THEME_FILE")
	if themeFile == "" {
		return
	}

	data, err := os.ReadFile(themeFile)
	if err != nil {
		return
	}

	var themeConfig struct {
		Theme Theme `yaml:"theme"`
	}
	if yaml.Unmarshal(data, &themeConfig) == nil {
		cfg.Theme.MergeFrom(themeConfig.Theme)
	}
}
