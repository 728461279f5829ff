package models

import (
	"time"
)

// ShortenedURL — запись о сокращённой ссылке со всей историей кликов.
// Имена JSON-полей совпадают с форматом коллекции в хранилище.
type ShortenedURL struct {
	ID              string       `json:"id"`
	OriginalURL     string       `json:"originalUrl"`
	Shortcode       string       `json:"shortcode"`
	ShortURL        string       `json:"shortUrl"`
	CreatedAt       time.Time    `json:"createdAt"`
	ExpiresAt       time.Time    `json:"expiresAt"`
	ValidityMinutes int          `json:"validityMinutes"`
	IsCustom        bool         `json:"isCustom"`
	Clicks          []ClickEvent `json:"clicks"`
}

// IsExpired вычисляет статус записи на момент now; отдельного флага нет
func (u *ShortenedURL) IsExpired(now time.Time) bool {
	return now.After(u.ExpiresAt)
}

// Clone возвращает глубокую копию записи (история кликов копируется)
func (u *ShortenedURL) Clone() *ShortenedURL {
	c := *u
	c.Clicks = make([]ClickEvent, len(u.Clicks))
	copy(c.Clicks, u.Clicks)
	return &c
}

type CreateURLInput struct {
	OriginalURL     string
	ValidityMinutes int    // 0 — использовать значение по умолчанию (30 минут)
	CustomShortcode string // пустая строка — сгенерировать код
}
