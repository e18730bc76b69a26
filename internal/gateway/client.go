// Package gateway is the engine's client for the Theme API.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/funaging/themestudio/pkg/theme"
)

// CreateRequest is the body of POST /themes.
type CreateRequest struct {
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	Settings    theme.Settings `json:"settings"`
}

// UpdateRequest is the body of PUT /themes/{id}. Nil fields are left as they
// are; a non-nil Settings replaces the stored document.
type UpdateRequest struct {
	Name        *string         `json:"name,omitempty"`
	Description *string         `json:"description,omitempty"`
	Settings    *theme.Settings `json:"settings,omitempty"`
}

type applyRequest struct {
	Preview bool `json:"preview"`
}

// Client talks to the Theme API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	logger     *zap.Logger
}

// NewClient creates a Theme API client.
func NewClient(cfg Config, logger *zap.Logger) *Client {
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultConfig().Timeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		logger:     logger,
	}
}

// LoadActive fetches the active theme.
func (c *Client) LoadActive(ctx context.Context) (theme.Theme, error) {
	t, err := c.getTheme(ctx, http.MethodGet, "/themes/active", nil)
	if err != nil {
		return theme.Theme{}, fmt.Errorf("load active theme: %w", err)
	}
	return t, nil
}

// List fetches every stored theme.
func (c *Client) List(ctx context.Context) ([]theme.Theme, error) {
	themes, err := c.listThemes(ctx, "/themes")
	if err != nil {
		return nil, fmt.Errorf("list themes: %w", err)
	}
	return themes, nil
}

// ListPresets fetches the built-in preset themes.
func (c *Client) ListPresets(ctx context.Context) ([]theme.Theme, error) {
	themes, err := c.listThemes(ctx, "/themes/presets")
	if err != nil {
		return nil, fmt.Errorf("list presets: %w", err)
	}
	return themes, nil
}

// Get fetches one theme.
func (c *Client) Get(ctx context.Context, id string) (theme.Theme, error) {
	t, err := c.getTheme(ctx, http.MethodGet, themePath(id), nil)
	if err != nil {
		return theme.Theme{}, fmt.Errorf("get theme %s: %w", id, err)
	}
	return t, nil
}

// Create stores a new theme.
func (c *Client) Create(ctx context.Context, req CreateRequest) (theme.Theme, error) {
	t, err := c.getTheme(ctx, http.MethodPost, "/themes", req)
	if err != nil {
		return theme.Theme{}, fmt.Errorf("create theme %q: %w", req.Name, err)
	}
	return t, nil
}

// Update modifies a stored theme.
func (c *Client) Update(ctx context.Context, id string, req UpdateRequest) (theme.Theme, error) {
	t, err := c.getTheme(ctx, http.MethodPut, themePath(id), req)
	if err != nil {
		return theme.Theme{}, fmt.Errorf("update theme %s: %w", id, err)
	}
	return t, nil
}

// Delete removes a stored theme.
func (c *Client) Delete(ctx context.Context, id string) error {
	if err := c.doJSON(ctx, http.MethodDelete, themePath(id), nil, nil); err != nil {
		return fmt.Errorf("delete theme %s: %w", id, err)
	}
	return nil
}

// Apply marks a theme active and returns it. With preview set the server
// returns the theme without activating it.
func (c *Client) Apply(ctx context.Context, id string, preview bool) (theme.Theme, error) {
	t, err := c.getTheme(ctx, http.MethodPost, themePath(id)+"/apply", applyRequest{Preview: preview})
	if err != nil {
		return theme.Theme{}, fmt.Errorf("apply theme %s: %w", id, err)
	}
	return t, nil
}

// Preview fetches a theme's settings for local preview.
func (c *Client) Preview(ctx context.Context, id string) (theme.Theme, error) {
	t, err := c.getTheme(ctx, http.MethodPost, themePath(id)+"/preview", nil)
	if err != nil {
		return theme.Theme{}, fmt.Errorf("preview theme %s: %w", id, err)
	}
	return t, nil
}

// Export fetches a theme's export envelope.
func (c *Client) Export(ctx context.Context, id string) (theme.Document, error) {
	var raw theme.RawDocument
	if err := c.doJSON(ctx, http.MethodGet, themePath(id)+"/export", nil, &raw); err != nil {
		return theme.Document{}, fmt.Errorf("export theme %s: %w", id, err)
	}
	doc, rejections := raw.Normalize()
	c.logRejections("export", rejections)
	return doc, nil
}

// Import stores doc as a new, non-preset theme.
func (c *Client) Import(ctx context.Context, doc theme.Document) (theme.Theme, error) {
	t, err := c.getTheme(ctx, http.MethodPost, "/themes/import", doc)
	if err != nil {
		return theme.Theme{}, fmt.Errorf("import theme %q: %w", doc.Name, err)
	}
	return t, nil
}

// ActiveCSS fetches the synthesized stylesheet of the active theme.
func (c *Client) ActiveCSS(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/themes/active.css", nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("active css: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode >= 300 {
		return "", fmt.Errorf("active css: %w", newAPIError(http.MethodGet, "/themes/active.css", resp.StatusCode, body))
	}
	return string(body), nil
}

func themePath(id string) string {
	return "/themes/" + url.PathEscape(id)
}

func (c *Client) getTheme(ctx context.Context, method, path string, body any) (theme.Theme, error) {
	var raw theme.RawTheme
	if err := c.doJSON(ctx, method, path, body, &raw); err != nil {
		return theme.Theme{}, err
	}
	t, rejections := raw.Normalize()
	c.logRejections(raw.ID, rejections)
	return t, nil
}

func (c *Client) listThemes(ctx context.Context, path string) ([]theme.Theme, error) {
	var raws []theme.RawTheme
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &raws); err != nil {
		return nil, err
	}
	out := make([]theme.Theme, 0, len(raws))
	for _, raw := range raws {
		t, rejections := raw.Normalize()
		c.logRejections(raw.ID, rejections)
		out = append(out, t)
	}
	return out, nil
}

func (c *Client) logRejections(themeID string, rejections []theme.Rejection) {
	for _, r := range rejections {
		c.logger.Warn("theme settings leaf rejected",
			zap.String("theme_id", themeID),
			zap.String("path", r.Path),
			zap.String("reason", r.Reason),
		)
	}
}

// doJSON performs an HTTP request with JSON serialization/deserialization.
func (c *Client) doJSON(ctx context.Context, method, path string, body, result any) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("http %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	c.logger.Debug("theme API call",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("duration", time.Since(start)),
	)

	if resp.StatusCode >= 300 {
		return newAPIError(method, path, resp.StatusCode, respBody)
	}

	if result != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("unmarshal response: %w", err)
		}
	}
	return nil
}

func newAPIError(method, path string, status int, body []byte) *APIError {
	e := &APIError{Method: method, Path: path, Status: status}
	if err := json.Unmarshal(body, &e.Problem); err != nil || e.Problem.Status == 0 {
		e.Problem = Problem{Status: status, Detail: strings.TrimSpace(string(body))}
	}
	return e
}
