package service

import (
	"context"
	"time"

	"github.com/avklimov/url-shortener/internal/geo"
	"github.com/avklimov/url-shortener/internal/logging"
	"github.com/avklimov/url-shortener/internal/models"
)

// ClickRecorder фиксирует переходы по коротким ссылкам: обогащает событие
// геоданными и атомарно дописывает его в запись реестра.
type ClickRecorder struct {
	urls    *URLService
	locator geo.Locator
	sink    *logging.Sink
}

func NewClickRecorder(urls *URLService, locator geo.Locator, sink *logging.Sink) *ClickRecorder {
	return &ClickRecorder{
		urls:    urls,
		locator: locator,
		sink:    sink,
	}
}

// RecordClick записывает клик и возвращает целевой URL для редиректа.
// Клик по просроченной или неизвестной ссылке не записывается.
// referrer пустой — источник фиксируется как "Direct".
func (r *ClickRecorder) RecordClick(ctx context.Context, code, referrer string) (string, error) {
	// Проверка до геозапроса: неизвестный или просроченный код
	// не должен ждать внешний сервис
	if err := r.urls.checkClickable(code); err != nil {
		r.sink.Error("Failed to record click", map[string]any{
			"shortcode": code,
			"error":     err.Error(),
		})
		return "", err
	}

	source := referrer
	if source == "" {
		source = models.SourceDirect
	}

	event := models.ClickEvent{
		Timestamp: time.Now(),
		Source:    source,
		Location:  r.fetchLocation(ctx),
	}

	originalURL, err := r.urls.appendClick(ctx, code, event)
	if err != nil {
		r.sink.Error("Failed to record click", map[string]any{
			"shortcode": code,
			"error":     err.Error(),
		})
		return "", err
	}

	r.sink.Info("Click recorded", map[string]any{
		"shortcode": code,
		"source":    source,
		"country":   event.Location.Country,
	})

	return originalURL, nil
}

// fetchLocation — единственная точка ожидания внешнего сервиса.
// Любой сбой гасится: событие получает заглушку Unknown.
func (r *ClickRecorder) fetchLocation(ctx context.Context) models.Location {
	location, err := r.locator.FetchLocation(ctx)
	if err != nil {
		r.sink.Warn("Failed to get location data", map[string]any{
			"error": err.Error(),
		})
		return models.UnknownLocation()
	}
	return location
}
