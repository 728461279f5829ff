package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/avklimov/url-shortener/internal/logging"
	"github.com/avklimov/url-shortener/internal/models"
	"github.com/avklimov/url-shortener/internal/repository"
	"github.com/avklimov/url-shortener/internal/shortcode"
	"github.com/avklimov/url-shortener/internal/validation"
	"github.com/google/uuid"
)

// Ошибки сервиса
var (
	ErrInvalidURL       = errors.New("невалидный URL")
	ErrInvalidShortcode = errors.New("невалидный формат shortcode")
	ErrInvalidValidity  = errors.New("невалидный срок действия")
	ErrShortcodeTaken   = errors.New("shortcode уже занят")
	ErrNotFound         = errors.New("ссылка не найдена")
	ErrLinkExpired      = errors.New("срок действия ссылки истёк")
)

const defaultValidityMinutes = 30

// URLService — реестр сокращённых ссылок. Владеет коллекцией в памяти и
// после каждой успешной мутации синхронно перезаписывает её в хранилище:
// память и хранилище не расходятся после возврата из операции.
// Мутации сериализуются мьютексом.
type URLService struct {
	mu      sync.Mutex
	urls    []models.ShortenedURL
	repo    *repository.URLRepository
	baseURL string
	sink    *logging.Sink
}

// NewURLService поднимает коллекцию из хранилища. Повреждённые данные не
// отдаются вызывающему: реестр стартует пустым, сбой фиксируется в журнале.
func NewURLService(repo *repository.URLRepository, baseURL string, sink *logging.Sink) *URLService {
	s := &URLService{
		repo:    repo,
		baseURL: strings.TrimRight(baseURL, "/"),
		sink:    sink,
	}

	urls, err := repo.Load(context.Background())
	if err != nil {
		sink.Error("Failed to load URLs from storage", map[string]any{
			"error": err.Error(),
		})
		return s
	}

	s.urls = urls
	sink.Info("URLs loaded from storage", map[string]any{"count": len(urls)})
	return s
}

// Create создаёт новую запись. Ошибки валидации и занятый shortcode
// оставляют реестр нетронутым; запись фиксируется в памяти только после
// успешного сохранения коллекции.
func (s *URLService) Create(ctx context.Context, input *models.CreateURLInput) (*models.ShortenedURL, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Срок действия — положительное число минут; ноль означает "не задан"
	if input.ValidityMinutes < 0 {
		s.sink.Error("Failed to create shortened URL", map[string]any{
			"error":           ErrInvalidValidity.Error(),
			"validityMinutes": input.ValidityMinutes,
		})
		return nil, ErrInvalidValidity
	}

	if !validation.IsValidURL(input.OriginalURL) {
		s.sink.Error("Failed to create shortened URL", map[string]any{
			"error":       ErrInvalidURL.Error(),
			"originalUrl": input.OriginalURL,
		})
		return nil, ErrInvalidURL
	}

	code := input.CustomShortcode
	isCustom := code != ""
	if isCustom {
		if !validation.IsValidShortcode(code) {
			s.sink.Error("Failed to create shortened URL", map[string]any{
				"error":     ErrInvalidShortcode.Error(),
				"shortcode": code,
			})
			return nil, ErrInvalidShortcode
		}
		if _, taken := s.existingCodes()[code]; taken {
			s.sink.Error("Failed to create shortened URL", map[string]any{
				"error":     ErrShortcodeTaken.Error(),
				"shortcode": code,
			})
			return nil, ErrShortcodeTaken
		}
	} else {
		generated, err := shortcode.Generate(s.existingCodes())
		if err != nil {
			s.sink.Error("Failed to create shortened URL", map[string]any{
				"error": err.Error(),
			})
			return nil, err
		}
		code = generated
	}

	validity := input.ValidityMinutes
	if validity == 0 {
		validity = defaultValidityMinutes
	}

	now := time.Now()
	url := models.ShortenedURL{
		ID:              uuid.NewString(),
		OriginalURL:     input.OriginalURL,
		Shortcode:       code,
		ShortURL:        s.baseURL + "/" + code,
		CreatedAt:       now,
		ExpiresAt:       now.Add(time.Duration(validity) * time.Minute),
		ValidityMinutes: validity,
		IsCustom:        isCustom,
		Clicks:          []models.ClickEvent{},
	}

	updated := make([]models.ShortenedURL, len(s.urls), len(s.urls)+1)
	copy(updated, s.urls)
	updated = append(updated, url)

	if err := s.repo.Save(ctx, updated); err != nil {
		s.sink.Error("Failed to persist shortened URL", map[string]any{
			"shortcode": code,
			"error":     err.Error(),
		})
		return nil, err
	}
	s.urls = updated

	s.sink.Info("New shortened URL created", map[string]any{
		"shortcode":       code,
		"originalUrl":     input.OriginalURL,
		"validityMinutes": validity,
		"isCustom":        isCustom,
	})

	return url.Clone(), nil
}

// Lookup находит запись по точному совпадению кода (с учётом регистра)
func (s *URLService) Lookup(code string) (*models.ShortenedURL, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(code)
	if idx < 0 {
		return nil, ErrNotFound
	}
	return s.urls[idx].Clone(), nil
}

// ListActive возвращает записи, чей срок действия ещё не истёк.
// Статус вычисляется на момент вызова.
func (s *URLService) ListActive() []models.ShortenedURL {
	return s.list(false)
}

// ListExpired возвращает просроченные записи
func (s *URLService) ListExpired() []models.ShortenedURL {
	return s.list(true)
}

func (s *URLService) list(expired bool) []models.ShortenedURL {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	result := make([]models.ShortenedURL, 0, len(s.urls))
	for i := range s.urls {
		if s.urls[i].IsExpired(now) == expired {
			result = append(result, *s.urls[i].Clone())
		}
	}
	return result
}

// checkClickable проверяет, что по коду можно записать клик.
// Используется рекордером до обращения к геосервису.
func (s *URLService) checkClickable(code string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(code)
	if idx < 0 {
		return ErrNotFound
	}
	if s.urls[idx].IsExpired(time.Now()) {
		return ErrLinkExpired
	}
	return nil
}

// appendClick атомарно дописывает событие клика и сохраняет коллекцию.
// Запись ищется и проверяется заново внутри критической секции:
// решение не принимается по снимку, сделанному до геозапроса.
func (s *URLService) appendClick(ctx context.Context, code string, event models.ClickEvent) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(code)
	if idx < 0 {
		return "", ErrNotFound
	}
	if s.urls[idx].IsExpired(time.Now()) {
		return "", ErrLinkExpired
	}

	updated := make([]models.ShortenedURL, len(s.urls))
	copy(updated, s.urls)
	rec := updated[idx].Clone()
	rec.Clicks = append(rec.Clicks, event)
	updated[idx] = *rec

	if err := s.repo.Save(ctx, updated); err != nil {
		return "", err
	}
	s.urls = updated

	return updated[idx].OriginalURL, nil
}

// indexOf вызывается под мьютексом
func (s *URLService) indexOf(code string) int {
	for i := range s.urls {
		if s.urls[i].Shortcode == code {
			return i
		}
	}
	return -1
}

// existingCodes вызывается под мьютексом
func (s *URLService) existingCodes() map[string]struct{} {
	codes := make(map[string]struct{}, len(s.urls))
	for i := range s.urls {
		codes[s.urls[i].Shortcode] = struct{}{}
	}
	return codes
}
