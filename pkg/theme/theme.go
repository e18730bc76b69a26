// Package theme defines the visual-configuration document shared by the
// editing engine and the Theme API: the always-complete Settings value, the
// persisted Theme record, and the branch-preserving merge used to update them.
package theme

import "time"

// MediaKind selects what the banner renders behind its overlay.
type MediaKind string

const (
	MediaImage MediaKind = "image"
	MediaVideo MediaKind = "video"
)

// Settings is the complete visual-configuration document. A Settings value
// held by the engine is never partially populated; partial input goes through
// Merge or Normalize first.
type Settings struct {
	Colors     Colors                  `json:"colors"`
	Typography Typography              `json:"typography"`
	Spacing    Spacing                 `json:"spacing"`
	Layout     Layout                  `json:"layout"`
	Components Components              `json:"components"`
	Effects    Effects                 `json:"effects"`
	Banner     Banner                  `json:"banner"`
	Content    map[string]string       `json:"content"`
	Styles     map[string]ElementStyle `json:"styles"`
}

// Colors maps the ten semantic color roles to color values.
type Colors struct {
	Primary     string `json:"primary"`
	Secondary   string `json:"secondary"`
	Accent      string `json:"accent"`
	Background  string `json:"background"`
	Foreground  string `json:"foreground"`
	Muted       string `json:"muted"`
	Border      string `json:"border"`
	Destructive string `json:"destructive"`
	Success     string `json:"success"`
	Warning     string `json:"warning"`
}

// Typography holds font settings and the six heading sizes.
type Typography struct {
	FontFamily    string       `json:"fontFamily"`
	BaseFontSize  string       `json:"baseFontSize"`
	HeadingSizes  HeadingSizes `json:"headingSizes"`
	LineHeight    string       `json:"lineHeight"`
	LetterSpacing string       `json:"letterSpacing"`
	FontWeight    string       `json:"fontWeight"`
}

// HeadingSizes holds the h1..h6 font sizes.
type HeadingSizes struct {
	H1 string `json:"h1"`
	H2 string `json:"h2"`
	H3 string `json:"h3"`
	H4 string `json:"h4"`
	H5 string `json:"h5"`
	H6 string `json:"h6"`
}

// Spacing holds the five named spacing tokens.
type Spacing struct {
	Base           string `json:"base"`
	CardPadding    string `json:"cardPadding"`
	ButtonPadding  string `json:"buttonPadding"`
	InputPadding   string `json:"inputPadding"`
	SectionSpacing string `json:"sectionSpacing"`
}

// Layout holds the five named layout dimensions.
type Layout struct {
	ContainerMaxWidth string `json:"containerMaxWidth"`
	SidebarWidth      string `json:"sidebarWidth"`
	HeaderHeight      string `json:"headerHeight"`
	FooterHeight      string `json:"footerHeight"`
	GridGaps          string `json:"gridGaps"`
}

// ComponentStyle is the style pair carried by every component kind.
type ComponentStyle struct {
	BorderRadius string `json:"borderRadius"`
	Shadow       string `json:"shadow"`
}

// Components holds per-component-kind style tokens.
type Components struct {
	Button ComponentStyle `json:"button"`
	Card   ComponentStyle `json:"card"`
	Input  ComponentStyle `json:"input"`
	Table  ComponentStyle `json:"table"`
}

// Effects holds the global effect tokens.
type Effects struct {
	BorderRadius string `json:"borderRadius"`
	Shadow       string `json:"shadow"`
	Transition   string `json:"transition"`
	HoverEffect  string `json:"hoverEffect"`
}

// Banner configures the hero banner media and its overlay.
type Banner struct {
	Enabled        bool      `json:"enabled"`
	Type           MediaKind `json:"type"`
	ImageURL       string    `json:"imageUrl"`
	VideoURL       string    `json:"videoUrl"`
	VideoAutoplay  bool      `json:"videoAutoplay"`
	VideoLoop      bool      `json:"videoLoop"`
	VideoMuted     bool      `json:"videoMuted"`
	OverlayColor   string    `json:"overlayColor"`
	OverlayOpacity float64   `json:"overlayOpacity"`
	Height         string    `json:"height"`
	Position       string    `json:"position"`
}

// ElementStyle is a sparse style patch attached to one element ID. Empty
// fields mean "keep the element's own style".
type ElementStyle struct {
	FontSize     string   `json:"fontSize,omitempty"`
	Color        string   `json:"color,omitempty"`
	FontWeight   string   `json:"fontWeight,omitempty"`
	TextAlign    string   `json:"textAlign,omitempty"`
	MarginTop    string   `json:"marginTop,omitempty"`
	MarginRight  string   `json:"marginRight,omitempty"`
	MarginBottom string   `json:"marginBottom,omitempty"`
	MarginLeft   string   `json:"marginLeft,omitempty"`
	Padding      string   `json:"padding,omitempty"`
	Opacity      *float64 `json:"opacity,omitempty"`
	BorderRadius string   `json:"borderRadius,omitempty"`
}

// Theme is a named, persisted snapshot of a Settings document.
type Theme struct {
	ID          string    `json:"id" example:"0b8f7c1e-5a7d-4c39-9a51-2f3d8f6b9e10"`
	Name        string    `json:"name" example:"FunAging Classic"`
	Description string    `json:"description,omitempty" example:"Warm orange on cream"`
	IsPreset    bool      `json:"is_preset"`
	IsActive    bool      `json:"is_active"`
	Version     int       `json:"version" example:"1"`
	Settings    Settings  `json:"settings"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Document is the export/import envelope for a Theme.
type Document struct {
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	IsPreset    bool     `json:"is_preset"`
	Settings    Settings `json:"settings"`
}

// Token is one named value from a fixed-order settings group.
type Token struct {
	Name  string
	Value string
}

// Roles returns the color roles in their documented order.
func (c Colors) Roles() []Token {
	return []Token{
		{"primary", c.Primary},
		{"secondary", c.Secondary},
		{"accent", c.Accent},
		{"background", c.Background},
		{"foreground", c.Foreground},
		{"muted", c.Muted},
		{"border", c.Border},
		{"destructive", c.Destructive},
		{"success", c.Success},
		{"warning", c.Warning},
	}
}

// Sizes returns h1..h6 in order.
func (h HeadingSizes) Sizes() []Token {
	return []Token{
		{"h1", h.H1}, {"h2", h.H2}, {"h3", h.H3},
		{"h4", h.H4}, {"h5", h.H5}, {"h6", h.H6},
	}
}

// Tokens returns the spacing tokens keyed by their document names.
func (s Spacing) Tokens() []Token {
	return []Token{
		{"base", s.Base},
		{"cardPadding", s.CardPadding},
		{"buttonPadding", s.ButtonPadding},
		{"inputPadding", s.InputPadding},
		{"sectionSpacing", s.SectionSpacing},
	}
}

// Tokens returns the layout tokens keyed by their document names.
func (l Layout) Tokens() []Token {
	return []Token{
		{"containerMaxWidth", l.ContainerMaxWidth},
		{"sidebarWidth", l.SidebarWidth},
		{"headerHeight", l.HeaderHeight},
		{"footerHeight", l.FooterHeight},
		{"gridGaps", l.GridGaps},
	}
}

// ComponentToken pairs a component kind with its style tokens.
type ComponentToken struct {
	Kind  string
	Style ComponentStyle
}

// Kinds returns the component kinds in their documented order.
func (c Components) Kinds() []ComponentToken {
	return []ComponentToken{
		{"button", c.Button},
		{"card", c.Card},
		{"input", c.Input},
		{"table", c.Table},
	}
}

// Clone returns a deep copy; the content and styles maps are never shared.
func (s Settings) Clone() Settings {
	out := s
	out.Content = make(map[string]string, len(s.Content))
	for k, v := range s.Content {
		out.Content[k] = v
	}
	out.Styles = make(map[string]ElementStyle, len(s.Styles))
	for k, v := range s.Styles {
		out.Styles[k] = v.clone()
	}
	return out
}

func (e ElementStyle) clone() ElementStyle {
	if e.Opacity != nil {
		o := *e.Opacity
		e.Opacity = &o
	}
	return e
}

// IsZero reports whether the style carries no properties.
func (e ElementStyle) IsZero() bool {
	return e == ElementStyle{}
}

// Over returns base with every non-empty property of e laid on top.
func (e ElementStyle) Over(base ElementStyle) ElementStyle {
	out := base.clone()
	set := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	set(&out.FontSize, e.FontSize)
	set(&out.Color, e.Color)
	set(&out.FontWeight, e.FontWeight)
	set(&out.TextAlign, e.TextAlign)
	set(&out.MarginTop, e.MarginTop)
	set(&out.MarginRight, e.MarginRight)
	set(&out.MarginBottom, e.MarginBottom)
	set(&out.MarginLeft, e.MarginLeft)
	set(&out.Padding, e.Padding)
	set(&out.BorderRadius, e.BorderRadius)
	if e.Opacity != nil {
		o := *e.Opacity
		out.Opacity = &o
	}
	return out
}

// Export builds the export envelope for t.
func (t Theme) Export() Document {
	return Document{
		Name:        t.Name,
		Description: t.Description,
		IsPreset:    t.IsPreset,
		Settings:    t.Settings.Clone(),
	}
}
