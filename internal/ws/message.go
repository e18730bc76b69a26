package ws

import (
	"time"

	"github.com/funaging/themestudio/pkg/theme"
)

// MessageType discriminates WebSocket messages.
type MessageType string

const (
	MessageSnapshot     MessageType = "theme.snapshot"
	MessageThemeCreated MessageType = "theme.created"
	MessageThemeUpdated MessageType = "theme.updated"
	MessageThemeDeleted MessageType = "theme.deleted"
	MessageThemeApplied MessageType = "theme.applied"
)

// Message is the envelope for all WebSocket messages.
type Message struct {
	Type      MessageType `json:"type"`
	ThemeID   string      `json:"theme_id,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
	Data      any         `json:"data,omitempty"`
}

// ThemeData is the payload for theme change messages. Theme is omitted for
// deletions.
type ThemeData struct {
	Name  string       `json:"name"`
	Theme *theme.Theme `json:"theme,omitempty"`
}
