package themes

import "github.com/funaging/themestudio/pkg/theme"

// ThemeEvent is the payload of the theme.* topics.
type ThemeEvent struct {
	ThemeID string       `json:"theme_id"`
	Name    string       `json:"name"`
	Theme   *theme.Theme `json:"theme,omitempty"`
}
