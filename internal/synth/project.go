// Package synth projects a theme.Settings document onto a flat set of named
// style variables and writes them to a global scope.
package synth

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/funaging/themestudio/pkg/theme"
)

// Variable is one named style variable. Name includes the leading "--".
type Variable struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

var hexColor = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// Project returns the variables for s in a fixed order: colors, typography,
// headings, spacing, layout, effects, component tokens, then banner.
// The same document always yields the same slice.
func Project(s theme.Settings) []Variable {
	vars := make([]Variable, 0, 64)
	add := func(name, value string) {
		vars = append(vars, Variable{Name: "--" + name, Value: value})
	}

	for _, c := range s.Colors.Roles() {
		add(c.Name, ColorValue(c.Value))
	}

	add("font-family", s.Typography.FontFamily)
	add("font-size-base", s.Typography.BaseFontSize)
	add("line-height", s.Typography.LineHeight)
	add("letter-spacing", s.Typography.LetterSpacing)
	add("font-weight", s.Typography.FontWeight)
	for _, h := range s.Typography.HeadingSizes.Sizes() {
		add(h.Name+"-size", h.Value)
	}

	for _, t := range s.Spacing.Tokens() {
		add("spacing-"+t.Name, t.Value)
	}
	for _, t := range s.Layout.Tokens() {
		add("layout-"+t.Name, t.Value)
	}

	add("border-radius", s.Effects.BorderRadius)
	add("shadow", s.Effects.Shadow)
	add("transition", s.Effects.Transition)
	add("hover-effect", s.Effects.HoverEffect)

	for _, c := range s.Components.Kinds() {
		add(c.Kind+"-border-radius", c.Style.BorderRadius)
		add(c.Kind+"-shadow", c.Style.Shadow)
	}

	b := s.Banner
	if !b.Enabled {
		add("banner-enabled", "0")
		return vars
	}
	add("banner-enabled", "1")
	add("banner-type", string(b.Type))
	switch {
	case b.Type == theme.MediaImage && b.ImageURL != "":
		add("banner-image", "url("+b.ImageURL+")")
	case b.Type == theme.MediaVideo && b.VideoURL != "":
		add("banner-video", b.VideoURL)
	}
	add("banner-overlay-color", b.OverlayColor)
	add("banner-overlay-opacity", strconv.FormatFloat(b.OverlayOpacity, 'f', -1, 64))
	add("banner-height", b.Height)
	add("banner-position", b.Position)
	return vars
}

// ColorValue converts a hex color literal to the space-separated
// "H S% L%" form consumed by the stylesheet. Any other value, such as a
// named color or an rgb() expression, is returned unchanged.
func ColorValue(v string) string {
	if !hexColor.MatchString(v) {
		return v
	}
	c, err := colorful.Hex(strings.ToLower(v))
	if err != nil {
		return v
	}
	h, s, l := c.Hsl()
	hue := int(math.Round(h))
	if hue >= 360 {
		hue -= 360
	}
	return strconv.Itoa(hue) + " " +
		strconv.FormatFloat(round1(s*100), 'f', 1, 64) + "% " +
		strconv.FormatFloat(round1(l*100), 'f', 1, 64) + "%"
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
