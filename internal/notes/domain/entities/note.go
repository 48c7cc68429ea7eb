// Package entities defines the domain entities for the notes service.
package entities

import (
	"strings"
	"time"
)

// Note представляет собой заметку пользователя.
type Note struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	Content    string    `json:"content"`
	Tags       []string  `json:"tags"`
	IsFavorite bool      `json:"isFavorite"`
	IsTrashed  bool      `json:"isTrashed"`
	CreatedAt  time.Time `json:"createdAt"`
}

// NewNote creates a new active note with the given fields and defaults applied.
// Новая заметка никогда не создается сразу в корзине.
func NewNote(title, content string, tags []string, isFavorite bool) *Note {
	if tags == nil {
		tags = []string{}
	}
	return &Note{
		Title:      strings.TrimSpace(title),
		Content:    content,
		Tags:       tags,
		IsFavorite: isFavorite,
		IsTrashed:  false,
		CreatedAt:  time.Now(),
	}
}
