// Package logging реализует диагностический журнал приложения:
// ограниченный буфер последних записей, сохраняемый в durable-хранилище
// отдельно от коллекции ссылок.
package logging

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/avklimov/url-shortener/internal/repository"
	"go.uber.org/zap"
)

// Уровни записей журнала
type Level string

const (
	LevelInfo  Level = "INFO"
	LevelWarn  Level = "WARN"
	LevelError Level = "ERROR"
	LevelDebug Level = "DEBUG"
)

const defaultMaxEntries = 1000

// Entry — одна запись журнала. Data — структурированный контекст события.
type Entry struct {
	Timestamp time.Time      `json:"timestamp"`
	Level     Level          `json:"level"`
	Message   string         `json:"message"`
	Data      map[string]any `json:"data,omitempty"`
}

// Sink ведёт журнал в памяти и синхронно сохраняет его после каждой записи.
// Хранятся только последние maxEntries записей.
type Sink struct {
	mu         sync.Mutex
	entries    []Entry
	maxEntries int
	storage    repository.Storage
	logger     *zap.Logger
}

// NewSink создаёт журнал и поднимает сохранённые записи из хранилища.
// Повреждённые или отсутствующие данные — старт с пустым журналом.
func NewSink(storage repository.Storage, logger *zap.Logger, maxEntries int) *Sink {
	if maxEntries <= 0 {
		maxEntries = defaultMaxEntries
	}

	s := &Sink{
		maxEntries: maxEntries,
		storage:    storage,
		logger:     logger,
	}
	s.loadEntries()
	return s
}

func (s *Sink) loadEntries() {
	data, err := s.storage.Load(context.Background(), repository.KeyLogs)
	if err != nil {
		return
	}

	var entries []Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		s.logger.Warn("Не удалось восстановить журнал из хранилища", zap.Error(err))
		return
	}

	if len(entries) > s.maxEntries {
		entries = entries[len(entries)-s.maxEntries:]
	}
	s.entries = entries
}

// Log добавляет запись, усекает журнал до лимита и сохраняет его.
// Сбой сохранения не прерывает работу: журнал не влияет на корректность ядра.
func (s *Sink) Log(level Level, message string, data map[string]any) {
	s.mu.Lock()

	entry := Entry{
		Timestamp: time.Now(),
		Level:     level,
		Message:   message,
		Data:      data,
	}
	s.entries = append(s.entries, entry)
	if len(s.entries) > s.maxEntries {
		s.entries = s.entries[len(s.entries)-s.maxEntries:]
	}

	persistErr := s.persist()
	s.mu.Unlock()

	s.echo(level, message, data)
	if persistErr != nil {
		s.logger.Warn("Не удалось сохранить журнал", zap.Error(persistErr))
	}
}

func (s *Sink) Info(message string, data map[string]any)  { s.Log(LevelInfo, message, data) }
func (s *Sink) Warn(message string, data map[string]any)  { s.Log(LevelWarn, message, data) }
func (s *Sink) Error(message string, data map[string]any) { s.Log(LevelError, message, data) }
func (s *Sink) Debug(message string, data map[string]any) { s.Log(LevelDebug, message, data) }

// GetLogs возвращает записи журнала: level фильтрует по уровню (пустой — все),
// limit ограничивает выдачу последними записями (0 — без ограничения).
func (s *Sink) GetLogs(level Level, limit int) []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()

	filtered := s.entries
	if level != "" {
		filtered = make([]Entry, 0, len(s.entries))
		for _, e := range s.entries {
			if e.Level == level {
				filtered = append(filtered, e)
			}
		}
	}

	if limit > 0 && len(filtered) > limit {
		filtered = filtered[len(filtered)-limit:]
	}

	result := make([]Entry, len(filtered))
	copy(result, filtered)
	return result
}

// Clear очищает журнал в памяти и в хранилище
func (s *Sink) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries = nil
	return s.persist()
}

// persist вызывается под мьютексом
func (s *Sink) persist() error {
	entries := s.entries
	if entries == nil {
		entries = []Entry{}
	}

	data, err := json.Marshal(entries)
	if err != nil {
		return err
	}
	return s.storage.Save(context.Background(), repository.KeyLogs, data)
}

// echo дублирует запись в консольный логгер
func (s *Sink) echo(level Level, message string, data map[string]any) {
	fields := make([]zap.Field, 0, 1)
	if data != nil {
		fields = append(fields, zap.Any("data", data))
	}

	switch level {
	case LevelWarn:
		s.logger.Warn(message, fields...)
	case LevelError:
		s.logger.Error(message, fields...)
	case LevelDebug:
		s.logger.Debug(message, fields...)
	default:
		s.logger.Info(message, fields...)
	}
}
