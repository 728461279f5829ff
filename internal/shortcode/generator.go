// Package shortcode генерирует уникальные короткие коды для ссылок.
package shortcode

import (
	"errors"
	"fmt"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

// Константы генератора
const (
	Length   = 6
	alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

	// Предохранитель от бесконечного цикла при заполнении пространства кодов
	maxAttempts = 1000
)

// ErrCapacityExceeded возвращается, когда не удалось подобрать свободный код
var ErrCapacityExceeded = errors.New("shortcode space exhausted")

// Generate возвращает случайный 6-символьный код, отсутствующий в existing.
// Коллизии разрешаются перегенерацией, число попыток ограничено.
func Generate(existing map[string]struct{}) (string, error) {
	return generate(existing, Length, maxAttempts)
}

func generate(existing map[string]struct{}, length, attempts int) (string, error) {
	for i := 0; i < attempts; i++ {
		code, err := gonanoid.Generate(alphabet, length)
		if err != nil {
			return "", fmt.Errorf("failed to generate shortcode: %w", err)
		}
		if _, taken := existing[code]; !taken {
			return code, nil
		}
	}
	return "", ErrCapacityExceeded
}
