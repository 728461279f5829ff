package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/avklimov/url-shortener/internal/models"
)

// URLRepository сериализует коллекцию ссылок в durable-хранилище.
// Вся коллекция лежит под ключом KeyShortenedURLs и пишется целиком.
type URLRepository struct {
	storage Storage
}

func NewURLRepository(storage Storage) *URLRepository {
	return &URLRepository{storage: storage}
}

// Load читает коллекцию из хранилища. Отсутствующий ключ — пустая коллекция;
// повреждённые данные — ошибка, которую реестр гасит и логирует сам.
func (r *URLRepository) Load(ctx context.Context) ([]models.ShortenedURL, error) {
	data, err := r.storage.Load(ctx, KeyShortenedURLs)
	if err != nil {
		if errors.Is(err, ErrKeyNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load url collection: %w", err)
	}

	var urls []models.ShortenedURL
	if err := json.Unmarshal(data, &urls); err != nil {
		return nil, fmt.Errorf("failed to decode url collection: %w", err)
	}

	return urls, nil
}

// Save перезаписывает коллекцию целиком
func (r *URLRepository) Save(ctx context.Context, urls []models.ShortenedURL) error {
	data, err := json.Marshal(urls)
	if err != nil {
		return fmt.Errorf("failed to encode url collection: %w", err)
	}

	if err := r.storage.Save(ctx, KeyShortenedURLs, data); err != nil {
		return fmt.Errorf("failed to save url collection: %w", err)
	}
	return nil
}
