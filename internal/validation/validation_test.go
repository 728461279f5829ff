package validation_test

import (
	"testing"

	"github.com/avklimov/url-shortener/internal/validation"
	"github.com/stretchr/testify/assert"
)

// TestIsValidURL проверяет распознавание абсолютных URL
func TestIsValidURL(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{"https", "https://example.com", true},
		{"http с путём", "http://example.com/path?q=1", true},
		{"другая схема", "ftp://files.example.com/archive.zip", true},
		{"не URL", "not-a-url", false},
		{"пустая строка", "", false},
		{"без схемы", "example.com/page", false},
		{"без хоста", "https://", false},
		{"относительный путь", "/relative/path", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, validation.IsValidURL(tt.input))
		})
	}
}

// TestIsValidShortcode проверяет формат кода: 3-10 букв и цифр
func TestIsValidShortcode(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{"минимальная длина", "abc", true},
		{"максимальная длина", "a1B2c3D4e5", true},
		{"смешанный регистр", "AbC123", true},
		{"слишком короткий", "ab", false},
		{"слишком длинный", "abcdefghijk", false},
		{"дефис", "my-code", false},
		{"подчёркивание", "my_code", false},
		{"пробел", "my code", false},
		{"пустая строка", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, validation.IsValidShortcode(tt.input))
		})
	}
}
