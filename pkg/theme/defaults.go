package theme

// Default returns the compiled-in document used at process start and as the
// base for Normalize. Each call returns a fresh value.
func Default() Settings {
	return Settings{
		Colors: Colors{
			Primary:     "#F36F21",
			Secondary:   "#D2142C",
			Accent:      "#4CAF50",
			Background:  "#FAF5EF",
			Foreground:  "#0D0D0D",
			Muted:       "#3D3D3D",
			Border:      "#D3D3D3",
			Destructive: "#EF4444",
			Success:     "#10B981",
			Warning:     "#F59E0B",
		},
		Typography: Typography{
			FontFamily:   "Noto Serif Thai",
			BaseFontSize: "18px",
			HeadingSizes: HeadingSizes{
				H1: "3rem",
				H2: "2.5rem",
				H3: "2rem",
				H4: "1.5rem",
				H5: "1.25rem",
				H6: "1rem",
			},
			LineHeight:    "1.6",
			LetterSpacing: "0em",
			FontWeight:    "400",
		},
		Spacing: Spacing{
			Base:           "1rem",
			CardPadding:    "1.5rem",
			ButtonPadding:  "0.75rem 1.5rem",
			InputPadding:   "0.75rem 1rem",
			SectionSpacing: "3rem",
		},
		Layout: Layout{
			ContainerMaxWidth: "100%",
			SidebarWidth:      "16rem",
			HeaderHeight:      "5rem",
			FooterHeight:      "auto",
			GridGaps:          "1rem",
		},
		Components: Components{
			Button: ComponentStyle{BorderRadius: "0.5rem", Shadow: "0 2px 4px rgba(0,0,0,0.1)"},
			Card:   ComponentStyle{BorderRadius: "0.75rem", Shadow: "0 4px 6px rgba(0,0,0,0.1)"},
			Input:  ComponentStyle{BorderRadius: "0.5rem", Shadow: "none"},
			Table:  ComponentStyle{BorderRadius: "0.5rem", Shadow: "none"},
		},
		Effects: Effects{
			BorderRadius: "0.75rem",
			Shadow:       "0 2px 8px rgba(0,0,0,0.1)",
			Transition:   "0.2s ease",
			HoverEffect:  "scale(1.02)",
		},
		Banner: Banner{
			Enabled:        false,
			Type:           MediaImage,
			VideoAutoplay:  true,
			VideoLoop:      true,
			VideoMuted:     true,
			OverlayColor:   "#000000",
			OverlayOpacity: 0.3,
			Height:         "auto",
			Position:       "center",
		},
		Content: map[string]string{},
		Styles:  map[string]ElementStyle{},
	}
}
