// Package cache содержит реализацию кэширования заметок с использованием Redis.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"notecloud/internal/notes/domain/entities"
	"notecloud/internal/notes/ports/cache"
	"notecloud/pkg/logger"
)

// Константы для логирования.
const (
	ErrorFailedToGet        = "failed to get note from redis"
	ErrorFailedToSet        = "failed to set note in redis"
	ErrorFailedToInvalidate = "failed to invalidate note in redis"
	ErrorFailedToClose      = "failed to close redis connection"
	ErrorFailedToDecode     = "failed to decode cached note"
)

const noteKeyPrefix = "note:"

// RedisNoteCache реализует интерфейс cache.NoteCache с использованием Redis.
type RedisNoteCache struct {
	client *redis.Client
	ttl    time.Duration
}

// Options задает параметры подключения к Redis.
type Options struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

// NewRedisNoteCache создает новый кэш заметок поверх Redis.
func NewRedisNoteCache(ctx context.Context, opts Options) (cache.NoteCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &RedisNoteCache{client: client, ttl: opts.TTL}, nil
}

// NewWithClient оборачивает готовый клиент Redis. Используется в тестах.
func NewWithClient(client *redis.Client, ttl time.Duration) cache.NoteCache {
	return &RedisNoteCache{client: client, ttl: ttl}
}

// Get получает заметку по идентификатору. Промах кэша возвращает (nil, nil).
func (c *RedisNoteCache) Get(ctx context.Context, id string) (*entities.Note, error) {
	log := logger.Log(ctx).With(zap.String("method", "RedisNoteCache.Get"), zap.String("noteID", id))

	payload, err := c.client.Get(ctx, noteKeyPrefix+id).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		log.Error(ctx, ErrorFailedToGet, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", ErrorFailedToGet, err)
	}

	var note entities.Note
	if err := json.Unmarshal([]byte(payload), &note); err != nil {
		log.Error(ctx, ErrorFailedToDecode, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", ErrorFailedToDecode, err)
	}

	return &note, nil
}

// Set сохраняет заметку в кэше с настроенным TTL.
func (c *RedisNoteCache) Set(ctx context.Context, note *entities.Note) error {
	log := logger.Log(ctx).With(zap.String("method", "RedisNoteCache.Set"), zap.String("noteID", note.ID))

	payload, err := json.Marshal(note)
	if err != nil {
		return fmt.Errorf("failed to encode note: %w", err)
	}

	if err := c.client.Set(ctx, noteKeyPrefix+note.ID, payload, c.ttl).Err(); err != nil {
		log.Error(ctx, ErrorFailedToSet, zap.Error(err))
		return fmt.Errorf("%s: %w", ErrorFailedToSet, err)
	}

	return nil
}

// Invalidate удаляет заметку из кэша.
func (c *RedisNoteCache) Invalidate(ctx context.Context, id string) error {
	log := logger.Log(ctx).With(zap.String("method", "RedisNoteCache.Invalidate"), zap.String("noteID", id))

	if err := c.client.Del(ctx, noteKeyPrefix+id).Err(); err != nil {
		log.Error(ctx, ErrorFailedToInvalidate, zap.Error(err))
		return fmt.Errorf("%s: %w", ErrorFailedToInvalidate, err)
	}

	return nil
}

// Close закрывает соединение с Redis.
func (c *RedisNoteCache) Close() error {
	if err := c.client.Close(); err != nil {
		return fmt.Errorf("%s: %w", ErrorFailedToClose, err)
	}
	return nil
}
