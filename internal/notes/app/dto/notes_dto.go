// Package dto содержит структуры запросов и ответов API заметок.
package dto

// CreateNoteRequest содержит данные для создания заметки.
// Все поля необязательны и получают значения по умолчанию.
type CreateNoteRequest struct {
	Title      string   `json:"title"`
	Content    string   `json:"content"`
	Tags       []string `json:"tags"`
	IsFavorite bool     `json:"isFavorite"`
}

// UpdateNoteRequest содержит частичное обновление заметки.
// Nil-поле означает "не менять", в отличие от нулевого значения.
type UpdateNoteRequest struct {
	Title      *string   `json:"title"`
	Content    *string   `json:"content"`
	Tags       *[]string `json:"tags"`
	IsFavorite *bool     `json:"isFavorite"`
	IsTrashed  *bool     `json:"isTrashed"`
}

// SearchRequest содержит поисковый запрос.
type SearchRequest struct {
	Query string `json:"query"`
}

// DeleteResult описывает результат удаления: мягкого или окончательного.
type DeleteResult struct {
	Message string `json:"message"`
	Type    string `json:"type"`
}

// SummaryResponse содержит сгенерированное краткое содержание видео.
type SummaryResponse struct {
	Summary string `json:"summary"`
}
