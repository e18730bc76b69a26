package override

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/funaging/themestudio/pkg/theme"
)

// docSource is a Source backed by a plain document and theme.Merge.
type docSource struct {
	settings theme.Settings
	updates  int
}

func newDocSource() *docSource {
	return &docSource{settings: theme.Default()}
}

func (d *docSource) Content(id string) (string, bool) {
	v, ok := d.settings.Content[id]
	return v, ok
}

func (d *docSource) Style(id string) (theme.ElementStyle, bool) {
	st, ok := d.settings.Styles[id]
	return st, ok
}

func (d *docSource) Update(_ context.Context, patch theme.Patch) ([]theme.Rejection, error) {
	d.updates++
	var rej []theme.Rejection
	d.settings, rej = theme.Merge(d.settings, patch)
	return rej, nil
}

func TestRegistry_Content_transparency(t *testing.T) {
	ctx := context.Background()
	reg := New(newDocSource(), zap.NewNop())

	if got := reg.Content("hero.title", "Default title"); got != "Default title" {
		t.Errorf("Content before set = %q, want caller default", got)
	}

	if err := reg.SetContent(ctx, "hero.title", "Welcome"); err != nil {
		t.Fatalf("SetContent: %v", err)
	}
	if got := reg.Content("hero.title", "Default title"); got != "Welcome" {
		t.Errorf("Content = %q, want Welcome", got)
	}
	if got := reg.Content("hero.subtitle", "Sub default"); got != "Sub default" {
		t.Errorf("Content(hero.subtitle) = %q, want caller default", got)
	}

	if err := reg.SetContent(ctx, "hero.title", "Welcome back"); err != nil {
		t.Fatalf("SetContent: %v", err)
	}
	if got := reg.Content("hero.title", ""); got != "Welcome back" {
		t.Errorf("Content after overwrite = %q, want Welcome back", got)
	}
}

func TestRegistry_empty_content_is_an_override(t *testing.T) {
	ctx := context.Background()
	reg := New(newDocSource(), zap.NewNop())

	if err := reg.SetContent(ctx, "hero.title", ""); err != nil {
		t.Fatalf("SetContent: %v", err)
	}
	if got := reg.Content("hero.title", "Default"); got != "" {
		t.Errorf("Content = %q, want empty override", got)
	}
	if !reg.HasContent("hero.title") {
		t.Error("HasContent = false, want true")
	}

	if err := reg.ResetContent(ctx, "hero.title"); err != nil {
		t.Fatalf("ResetContent: %v", err)
	}
	if got := reg.Content("hero.title", "Default"); got != "Default" {
		t.Errorf("Content after reset = %q, want Default", got)
	}
}

func TestRegistry_Style(t *testing.T) {
	ctx := context.Background()
	src := newDocSource()
	reg := New(src, zap.NewNop())

	if got := reg.Style("card.title"); !got.IsZero() {
		t.Errorf("Style before set = %+v, want zero", got)
	}

	if _, err := reg.SetStyle(ctx, "card.title", theme.Patch{"fontSize": "2rem"}); err != nil {
		t.Fatalf("SetStyle: %v", err)
	}
	rej, err := reg.SetStyle(ctx, "card.title", theme.Patch{"color": "#333333", "opacity": 2})
	if err != nil {
		t.Fatalf("SetStyle: %v", err)
	}
	if len(rej) != 1 || rej[0].Path != "styles.card.title.opacity" {
		t.Errorf("rejections = %v, want opacity", rej)
	}

	got := reg.Style("card.title")
	if got.FontSize != "2rem" || got.Color != "#333333" || got.Opacity != nil {
		t.Errorf("Style = %+v", got)
	}

	over := reg.StyleOver("card.title", theme.ElementStyle{TextAlign: "center", Color: "black"})
	if over.TextAlign != "center" || over.Color != "#333333" {
		t.Errorf("StyleOver = %+v", over)
	}
	base := theme.ElementStyle{Padding: "1rem"}
	if got := reg.StyleOver("card.body", base); got != base {
		t.Errorf("StyleOver without override = %+v, want base", got)
	}

	if err := reg.ResetStyle(ctx, "card.title"); err != nil {
		t.Fatalf("ResetStyle: %v", err)
	}
	if _, ok := src.settings.Styles["card.title"]; ok {
		t.Error("style override not removed")
	}
}

func TestRegistry_style_edit_leaves_banner(t *testing.T) {
	src := newDocSource()
	before := src.settings.Banner
	reg := New(src, zap.NewNop())

	if _, err := reg.SetStyle(context.Background(), "banner.title", theme.Patch{"color": "#FFFFFF"}); err != nil {
		t.Fatalf("SetStyle: %v", err)
	}
	if src.settings.Banner != before {
		t.Errorf("banner changed: %+v", src.settings.Banner)
	}
}

func TestRegistry_rejects_malformed_ids(t *testing.T) {
	ctx := context.Background()
	src := newDocSource()
	reg := New(src, zap.NewNop())

	for _, id := range []string{"", "Hero.Title", "hero..title", "hero title"} {
		if err := reg.SetContent(ctx, id, "x"); !errors.Is(err, ErrInvalidElementID) {
			t.Errorf("SetContent(%q) = %v, want ErrInvalidElementID", id, err)
		}
		if _, err := reg.SetStyle(ctx, id, theme.Patch{"color": "red"}); !errors.Is(err, ErrInvalidElementID) {
			t.Errorf("SetStyle(%q) = %v, want ErrInvalidElementID", id, err)
		}
	}
	if src.updates != 0 {
		t.Errorf("source updated %d times, want 0", src.updates)
	}
}

func TestRegistry_dev_mode_warns_on_unregistered(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	catalog := NewCatalog()
	catalog.MustRegister("hero.title")

	reg := New(newDocSource(), zap.New(core), WithCatalog(catalog), WithDevMode(true))
	ctx := context.Background()

	if err := reg.SetContent(ctx, "hero.title", "ok"); err != nil {
		t.Fatalf("SetContent: %v", err)
	}
	if logs.Len() != 0 {
		t.Fatalf("unexpected warning for registered id: %v", logs.All())
	}

	if err := reg.SetContent(ctx, "hero.titel", "typo"); err != nil {
		t.Fatalf("SetContent: %v", err)
	}
	if got := reg.Content("hero.titel", ""); got != "typo" {
		t.Errorf("unregistered write not applied: %q", got)
	}
	entries := logs.FilterField(zap.String("element_id", "hero.titel")).All()
	if len(entries) != 1 {
		t.Errorf("warnings = %d, want 1", len(entries))
	}
}

func TestRegistry_no_warning_outside_dev_mode(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	reg := New(newDocSource(), zap.New(core))

	if err := reg.SetContent(context.Background(), "anything.goes", "x"); err != nil {
		t.Fatalf("SetContent: %v", err)
	}
	if logs.Len() != 0 {
		t.Errorf("unexpected warnings: %v", logs.All())
	}
}

func TestCatalog(t *testing.T) {
	c := NewCatalog()
	if err := c.Register("footer.copyright", "Footer text"); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if err := c.Register("Footer", ""); !errors.Is(err, ErrInvalidElementID) {
		t.Errorf("Register(Footer) = %v, want ErrInvalidElementID", err)
	}
	c.MustRegister("hero.title", "hero.subtitle")

	want := []string{"footer.copyright", "hero.subtitle", "hero.title"}
	got := c.IDs()
	if len(got) != len(want) {
		t.Fatalf("IDs = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("IDs[%d] = %q, want %q", i, got[i], want[i])
		}
	}
	if c.Description("footer.copyright") != "Footer text" {
		t.Error("description lost")
	}
	if c.Known("hero.titel") {
		t.Error("Known(hero.titel) = true")
	}
}

func TestCatalog_MustRegister_panics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("MustRegister did not panic on a malformed id")
		}
	}()
	NewCatalog().MustRegister("Bad ID")
}
