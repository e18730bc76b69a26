package theme

import "time"

// RawTheme is a Theme as it arrives over the wire, before its settings have
// been normalized against the default document.
type RawTheme struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	IsPreset    bool      `json:"is_preset"`
	IsActive    bool      `json:"is_active"`
	Version     int       `json:"version"`
	Settings    Patch     `json:"settings"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Normalize converts r into a Theme with a complete settings document.
func (r RawTheme) Normalize() (Theme, []Rejection) {
	settings, rejections := Normalize(r.Settings)
	return Theme{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description,
		IsPreset:    r.IsPreset,
		IsActive:    r.IsActive,
		Version:     r.Version,
		Settings:    settings,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}, rejections
}

// RawDocument is an export envelope before normalization.
type RawDocument struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	IsPreset    bool   `json:"is_preset"`
	Settings    Patch  `json:"settings"`
}

// Normalize converts r into a Document with a complete settings document.
func (r RawDocument) Normalize() (Document, []Rejection) {
	settings, rejections := Normalize(r.Settings)
	return Document{
		Name:        r.Name,
		Description: r.Description,
		IsPreset:    r.IsPreset,
		Settings:    settings,
	}, rejections
}
