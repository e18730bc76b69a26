package themes

import "github.com/funaging/themestudio/pkg/theme"

// DefaultPresetName is the preset activated when no theme is active.
const DefaultPresetName = "FunAging Classic"

type preset struct {
	name        string
	description string
	settings    func() theme.Settings
}

func presets() []preset {
	return []preset{
		{
			name:        DefaultPresetName,
			description: "Warm orange and red on cream, the original FunAging look",
			settings:    theme.Default,
		},
		{
			name:        "Ocean Calm",
			description: "Soft blues and teal with rounded cards",
			settings: func() theme.Settings {
				s := theme.Default()
				s.Colors.Primary = "#0EA5E9"
				s.Colors.Secondary = "#0F766E"
				s.Colors.Accent = "#22D3EE"
				s.Colors.Background = "#F0F9FF"
				s.Colors.Foreground = "#0C4A6E"
				s.Colors.Muted = "#475569"
				s.Colors.Border = "#BAE6FD"
				s.Typography.FontFamily = "Sarabun"
				s.Effects.BorderRadius = "1rem"
				s.Components.Card.BorderRadius = "1.25rem"
				return s
			},
		},
		{
			name:        "High Contrast",
			description: "Black on white with large type for low-vision readers",
			settings: func() theme.Settings {
				s := theme.Default()
				s.Colors.Primary = "#000000"
				s.Colors.Secondary = "#1D4ED8"
				s.Colors.Accent = "#B91C1C"
				s.Colors.Background = "#FFFFFF"
				s.Colors.Foreground = "#000000"
				s.Colors.Muted = "#1F2937"
				s.Colors.Border = "#000000"
				s.Typography.BaseFontSize = "22px"
				s.Typography.FontWeight = "600"
				s.Typography.LineHeight = "1.8"
				s.Effects.Shadow = "none"
				s.Effects.HoverEffect = "none"
				return s
			},
		},
	}
}
