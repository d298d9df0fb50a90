package config

// KeyMappings defines the key bindings of the watch console
type KeyMappings struct {
	// Input
	FocusInput string `yaml:"focus_input"`
	Send       string `yaml:"send"`
	Blur       string `yaml:"blur"`

	// Feed
	ScrollUp    string `yaml:"scroll_up"`
	ScrollDown  string `yaml:"scroll_down"`
	ClearFeed   string `yaml:"clear_feed"`
	TogglePause string `yaml:"toggle_pause"`

	// Other
	ShowHelp string `yaml:"show_help"`
	Quit     string `yaml:"quit"`
}

// DefaultKeyMappings returns the default key mappings
func DefaultKeyMappings() KeyMappings {
	return KeyMappings{
		FocusInput: ":",
		Send:       "enter",
		Blur:       "esc",

		ScrollUp:    "k",
		ScrollDown:  "j",
		ClearFeed:   "c",
		TogglePause: "p",

		ShowHelp: "?",
		Quit:     "q",
	}
}

// applyDefaults fills in missing key mappings with defaults
func (k *KeyMappings) applyDefaults() {
	defaults := DefaultKeyMappings()

	if k.FocusInput == "" {
		k.FocusInput = defaults.FocusInput
	}
	if k.Send == "" {
		k.Send = defaults.Send
	}
	if k.Blur == "" {
		k.Blur = defaults.Blur
	}
	if k.ScrollUp == "" {
		k.ScrollUp = defaults.ScrollUp
	}
	if k.ScrollDown == "" {
		k.ScrollDown = defaults.ScrollDown
	}
	if k.ClearFeed == "" {
		k.ClearFeed = defaults.ClearFeed
	}
	if k.TogglePause == "" {
		k.TogglePause = defaults.TogglePause
	}
	if k.ShowHelp == "" {
		k.ShowHelp = defaults.ShowHelp
	}
	if k.Quit == "" {
		k.Quit = defaults.Quit
	}
}
