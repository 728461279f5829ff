package tests

import (
	"context"
	"testing"
	"time"

	"github.com/avklimov/url-shortener/internal/config"
	"github.com/avklimov/url-shortener/internal/logging"
	"github.com/avklimov/url-shortener/internal/models"
	"github.com/avklimov/url-shortener/internal/repository"
	"github.com/avklimov/url-shortener/internal/service"
	"github.com/avklimov/url-shortener/internal/service/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/modules/redis"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"
)

// startRedis поднимает Redis-контейнер и возвращает storage поверх него
func startRedis(t *testing.T) *repository.RedisStorage {
	ctx := context.Background()

	container, err := redis.Run(ctx, "redis:7-alpine")
	require.NoError(t, err)
	t.Cleanup(func() {
		container.Terminate(context.Background())
	})

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "6379")
	require.NoError(t, err)

	storage, err := repository.NewRedisStorage(config.RedisConfig{
		Host: host,
		Port: port.Port(),
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		storage.Close()
	})

	return storage
}

// startPostgres поднимает PostgreSQL-контейнер и возвращает storage поверх него
func startPostgres(t *testing.T) *repository.PostgresStorage {
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("shortener"),
		postgres.WithUsername("user"),
		postgres.WithPassword("password"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		container.Terminate(context.Background())
	})

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "5432")
	require.NoError(t, err)

	storage, err := repository.NewPostgresStorage(config.DBConfig{
		Host:     host,
		Port:     port.Port(),
		User:     "user",
		Password: "password",
		Name:     "shortener",
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		storage.Close()
	})

	return storage
}

// checkStorageRoundTrip гоняет общий контракт Storage на реальном бэкенде
func checkStorageRoundTrip(t *testing.T, storage repository.Storage) {
	ctx := context.Background()

	// Отсутствующий ключ
	_, err := storage.Load(ctx, repository.KeyShortenedURLs)
	assert.ErrorIs(t, err, repository.ErrKeyNotFound)

	// Запись и чтение
	payload := []byte(`[{"shortcode":"abc123"}]`)
	require.NoError(t, storage.Save(ctx, repository.KeyShortenedURLs, payload))

	loaded, err := storage.Load(ctx, repository.KeyShortenedURLs)
	require.NoError(t, err)
	assert.Equal(t, payload, loaded)

	// Полная перезапись
	replaced := []byte(`[]`)
	require.NoError(t, storage.Save(ctx, repository.KeyShortenedURLs, replaced))

	loaded, err = storage.Load(ctx, repository.KeyShortenedURLs)
	require.NoError(t, err)
	assert.Equal(t, replaced, loaded)
}

// TestRedisStorage_RoundTrip проверяет контракт хранилища на Redis
func TestRedisStorage_RoundTrip(t *testing.T) {
	if testing.Short() {
		t.Skip("integration test")
	}
	checkStorageRoundTrip(t, startRedis(t))
}

// TestPostgresStorage_RoundTrip проверяет контракт хранилища на PostgreSQL
func TestPostgresStorage_RoundTrip(t *testing.T) {
	if testing.Short() {
		t.Skip("integration test")
	}
	checkStorageRoundTrip(t, startPostgres(t))
}

// TestFullFlow_Redis гоняет полный цикл реестра поверх Redis:
// создание, клик, повторная загрузка коллекции новым реестром
func TestFullFlow_Redis(t *testing.T) {
	if testing.Short() {
		t.Skip("integration test")
	}

	storage := startRedis(t)
	ctx := context.Background()

	logger := zap.NewNop()
	sink := logging.NewSink(storage, logger, 100)
	repo := repository.NewURLRepository(storage)
	urls := service.NewURLService(repo, "http://localhost:8080", sink)

	locator := &mocks.MockLocator{
		Location: models.Location{Country: "Germany", City: "Berlin", Region: "Berlin"},
	}
	recorder := service.NewClickRecorder(urls, locator, sink)

	created, err := urls.Create(ctx, &models.CreateURLInput{
		OriginalURL:     "https://example.com",
		ValidityMinutes: 30,
	})
	require.NoError(t, err)

	originalURL, err := recorder.RecordClick(ctx, created.Shortcode, "")
	require.NoError(t, err)
	assert.Equal(t, "https://example.com", originalURL)

	// Новый реестр поверх того же хранилища видит запись вместе с кликом
	reloaded := service.NewURLService(repo, "http://localhost:8080", sink)
	found, err := reloaded.Lookup(created.Shortcode)
	require.NoError(t, err)
	require.Len(t, found.Clicks, 1)
	assert.Equal(t, models.SourceDirect, found.Clicks[0].Source)
	assert.Equal(t, "Germany", found.Clicks[0].Location.Country)

	// Журнал тоже сохранился отдельным ключом
	logData, err := storage.Load(ctx, repository.KeyLogs)
	require.NoError(t, err)
	assert.NotEmpty(t, logData)
}
