package repository

import (
	"context"
	"errors"
)

// Ключи durable-хранилища. Вся коллекция лежит под одним ключом
// и перезаписывается целиком при каждой мутации.
const (
	KeyShortenedURLs = "shortenedUrls"
	KeyLogs          = "urlShortenerLogs"
)

var ErrKeyNotFound = errors.New("key not found")

// Storage — интерфейс durable-хранилища "ключ — значение".
// Семантика save: полная перезапись значения, без инкрементальных обновлений.
type Storage interface {
	Load(ctx context.Context, key string) ([]byte, error)
	Save(ctx context.Context, key string, data []byte) error
	Close() error
}
