// Package themes implements the Theme API: persisted themes with versioned
// settings, the active-theme pointer, built-in presets and export/import.
package themes

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/funaging/themestudio/internal/event"
	"github.com/funaging/themestudio/internal/synth"
	"github.com/funaging/themestudio/pkg/theme"
)

// Service errors, mapped to problem responses by the handlers.
var (
	ErrNotFound = errors.New("theme not found")
	ErrPreset   = errors.New("preset themes cannot be modified or deleted")
	ErrNoActive = errors.New("no active theme")
	ErrInvalid  = errors.New("invalid theme")
)

// ImportedName is used when an imported document has no name.
const ImportedName = "Imported Theme"

// Config holds the Theme API configuration.
type Config struct {
	SeedPresets bool `mapstructure:"seed_presets"` // Insert the built-in presets on first start
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{SeedPresets: true}
}

// CreateRequest is the body of POST /themes.
type CreateRequest struct {
	Name        string      `json:"name" validate:"required,max=100" example:"My Theme"`
	Description string      `json:"description,omitempty" validate:"max=500"`
	Settings    theme.Patch `json:"settings" swaggertype:"object"`
}

// UpdateRequest is the body of PUT /themes/{id}. Settings, when present,
// replace the stored document.
type UpdateRequest struct {
	Name        *string     `json:"name,omitempty" validate:"omitempty,min=1,max=100"`
	Description *string     `json:"description,omitempty" validate:"omitempty,max=500"`
	Settings    theme.Patch `json:"settings,omitempty" swaggertype:"object"`
}

// Service is the Theme API business logic.
type Service struct {
	store  *ThemeStore
	bus    event.Publisher
	logger *zap.Logger
	now    func() time.Time
}

// NewService creates a Service. bus may be nil.
func NewService(store *ThemeStore, bus event.Publisher, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		store:  store,
		bus:    bus,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Seed inserts the built-in presets when none exist and activates the
// default preset when no theme is active.
func (s *Service) Seed(ctx context.Context) error {
	existing, err := s.store.List(ctx, true)
	if err != nil {
		return err
	}
	if len(existing) == 0 {
		for _, p := range presets() {
			t := s.newTheme(p.name, p.description, p.settings())
			t.IsPreset = true
			if err := s.store.Insert(ctx, &t); err != nil {
				return fmt.Errorf("seed preset %q: %w", p.name, err)
			}
			existing = append(existing, t)
		}
		s.logger.Info("seeded preset themes", zap.Int("count", len(existing)))
	}

	active, err := s.store.Active(ctx)
	if err != nil {
		return err
	}
	if active != nil {
		return nil
	}
	for _, t := range existing {
		if t.Name == DefaultPresetName {
			if err := s.store.SetActive(ctx, t.ID); err != nil {
				return err
			}
			s.logger.Info("activated default preset", zap.String("theme_id", t.ID))
			return nil
		}
	}
	return nil
}

// List returns every theme.
func (s *Service) List(ctx context.Context) ([]theme.Theme, error) {
	return s.store.List(ctx, false)
}

// ListPresets returns the preset themes.
func (s *Service) ListPresets(ctx context.Context) ([]theme.Theme, error) {
	return s.store.List(ctx, true)
}

// Get returns one theme.
func (s *Service) Get(ctx context.Context, id string) (theme.Theme, error) {
	t, err := s.store.Get(ctx, id)
	if err != nil {
		return theme.Theme{}, err
	}
	if t == nil {
		return theme.Theme{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return *t, nil
}

// Active returns the active theme.
func (s *Service) Active(ctx context.Context) (theme.Theme, error) {
	t, err := s.store.Active(ctx)
	if err != nil {
		return theme.Theme{}, err
	}
	if t == nil {
		return theme.Theme{}, ErrNoActive
	}
	return *t, nil
}

// ActiveCSS renders the active theme's style variables as a :root block.
// Without an active theme the default document is rendered.
func (s *Service) ActiveCSS(ctx context.Context) (string, error) {
	settings := theme.Default()
	t, err := s.Active(ctx)
	switch {
	case err == nil:
		settings = t.Settings
	case !errors.Is(err, ErrNoActive):
		return "", err
	}
	return synth.RenderCSS(synth.Project(settings)), nil
}

// Create stores a new, non-preset theme. Settings are completed from the
// default document; leaves of the wrong shape fail the request.
func (s *Service) Create(ctx context.Context, req CreateRequest) (theme.Theme, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return theme.Theme{}, fmt.Errorf("%w: name is required", ErrInvalid)
	}
	settings, err := normalize(req.Settings)
	if err != nil {
		return theme.Theme{}, err
	}

	t := s.newTheme(name, req.Description, settings)
	if err := s.store.Insert(ctx, &t); err != nil {
		return theme.Theme{}, err
	}
	s.publish(ctx, event.TopicThemeCreated, t)
	return t, nil
}

// Update changes a non-preset theme.
func (s *Service) Update(ctx context.Context, id string, req UpdateRequest) (theme.Theme, error) {
	t, err := s.Get(ctx, id)
	if err != nil {
		return theme.Theme{}, err
	}
	if t.IsPreset {
		return theme.Theme{}, ErrPreset
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return theme.Theme{}, fmt.Errorf("%w: name cannot be empty", ErrInvalid)
		}
		t.Name = name
	}
	if req.Description != nil {
		t.Description = *req.Description
	}
	changed := req.Settings != nil
	if changed {
		if t.Settings, err = normalize(req.Settings); err != nil {
			return theme.Theme{}, err
		}
	}

	if err := s.store.Update(ctx, &t, changed); err != nil {
		return theme.Theme{}, err
	}
	s.publish(ctx, event.TopicThemeUpdated, t)
	return t, nil
}

// Delete removes a non-preset theme. Deleting the active theme activates
// the default preset.
func (s *Service) Delete(ctx context.Context, id string) error {
	t, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if t.IsPreset {
		return ErrPreset
	}
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}
	s.publish(ctx, event.TopicThemeDeleted, t)

	if t.IsActive {
		if err := s.Seed(ctx); err != nil {
			s.logger.Error("reactivate default preset", zap.Error(err))
		}
	}
	return nil
}

// Apply makes id the active theme and returns it. With preview set the
// theme is returned without being activated.
func (s *Service) Apply(ctx context.Context, id string, preview bool) (theme.Theme, error) {
	t, err := s.Get(ctx, id)
	if err != nil {
		return theme.Theme{}, err
	}
	if preview {
		return t, nil
	}
	if err := s.store.SetActive(ctx, id); err != nil {
		return theme.Theme{}, err
	}
	t.IsActive = true
	s.publish(ctx, event.TopicThemeApplied, t)
	return t, nil
}

// Export returns the export envelope of a theme.
func (s *Service) Export(ctx context.Context, id string) (theme.Document, error) {
	t, err := s.Get(ctx, id)
	if err != nil {
		return theme.Document{}, err
	}
	return t.Export(), nil
}

// Import stores doc as a new theme. Imported themes are never presets and
// are not activated.
func (s *Service) Import(ctx context.Context, doc theme.RawDocument) (theme.Theme, error) {
	name := strings.TrimSpace(doc.Name)
	if name == "" {
		name = ImportedName
	}
	return s.Create(ctx, CreateRequest{
		Name:        name,
		Description: doc.Description,
		Settings:    doc.Settings,
	})
}

func (s *Service) newTheme(name, description string, settings theme.Settings) theme.Theme {
	now := s.now()
	return theme.Theme{
		ID:          uuid.New().String(),
		Name:        name,
		Description: description,
		Version:     1,
		Settings:    settings,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func (s *Service) publish(ctx context.Context, topic string, t theme.Theme) {
	s.logger.Info("theme event", zap.String("topic", topic), zap.String("theme_id", t.ID))
	if s.bus == nil {
		return
	}
	_ = s.bus.Publish(ctx, event.Event{
		Topic:   topic,
		Source:  "themes",
		Payload: ThemeEvent{ThemeID: t.ID, Name: t.Name, Theme: &t},
	})
}

func normalize(p theme.Patch) (theme.Settings, error) {
	settings, rejections := theme.Normalize(p)
	if len(rejections) == 0 {
		return settings, nil
	}
	msgs := make([]string, len(rejections))
	for i, r := range rejections {
		msgs[i] = r.String()
	}
	return theme.Settings{}, fmt.Errorf("%w: %s", ErrInvalid, strings.Join(msgs, "; "))
}
