// Package validation содержит чистые проверки входных данных.
// Никаких сетевых обращений и состояния — только синтаксис.
package validation

import (
	"net/url"
	"regexp"
)

var shortcodeRegexp = regexp.MustCompile(`^[a-zA-Z0-9]{3,10}$`)

// IsValidURL проверяет, что строка разбирается как абсолютный URL
// (схема + хост). Достижимость адреса не проверяется.
func IsValidURL(candidate string) bool {
	u, err := url.Parse(candidate)
	if err != nil {
		return false
	}
	return u.Scheme != "" && u.Host != ""
}

// IsValidShortcode проверяет формат кода: 3-10 символов, буквы и цифры
func IsValidShortcode(candidate string) bool {
	return shortcodeRegexp.MatchString(candidate)
}
