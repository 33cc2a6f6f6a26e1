package availability

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/m04kA/SMC-DetailingService/internal/domain"
	"github.com/m04kA/SMC-DetailingService/pkg/types"
)

const keyPrefix = "availability:"

var (
	// ErrCacheRead ошибка чтения из кэша
	ErrCacheRead = errors.New("availability.cache: failed to read")
	// ErrCacheWrite ошибка записи в кэш
	ErrCacheWrite = errors.New("availability.cache: failed to write")
)

// cachedDay формат записи в redis
type cachedDay struct {
	Date           string          `json:"date"`
	Slots          map[string]bool `json:"slots"`
	BlockedByAdmin bool            `json:"blockedByAdmin"`
}

// RedisCache кэш рассчитанной доступности по датам (ключ availability:<YYYY-MM-DD>)
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisCache создает кэш поверх redis клиента
func NewRedisCache(client *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{client: client, ttl: ttl}
}

// GetMany возвращает закэшированные дни. Отсутствующих дат в результате нет.
func (c *RedisCache) GetMany(ctx context.Context, dates []types.Date) (map[types.Date]domain.DayAvailability, error) {
	result := make(map[types.Date]domain.DayAvailability, len(dates))
	if len(dates) == 0 {
		return result, nil
	}

	keys := make([]string, len(dates))
	for i, d := range dates {
		keys[i] = key(d)
	}

	values, err := c.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCacheRead, err)
	}

	for i, v := range values {
		raw, ok := v.(string)
		if !ok {
			continue
		}
		day, err := decode(raw)
		if err != nil || !day.Date.Equal(dates[i]) {
			continue
		}
		result[dates[i]] = day
	}

	return result, nil
}

// SetMany сохраняет дни с TTL одним pipeline
func (c *RedisCache) SetMany(ctx context.Context, days []domain.DayAvailability) error {
	if len(days) == 0 {
		return nil
	}

	_, err := c.client.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, day := range days {
			raw, err := encode(day)
			if err != nil {
				return err
			}
			pipe.Set(ctx, key(day.Date), raw, c.ttl)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrCacheWrite, err)
	}
	return nil
}

// Invalidate удаляет дни из кэша
func (c *RedisCache) Invalidate(ctx context.Context, dates ...types.Date) error {
	if len(dates) == 0 {
		return nil
	}

	keys := make([]string, len(dates))
	for i, d := range dates {
		keys[i] = key(d)
	}

	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrCacheWrite, err)
	}
	return nil
}

// NoopCache кэш, который ничего не хранит (redis выключен)
type NoopCache struct{}

// GetMany всегда промах
func (NoopCache) GetMany(context.Context, []types.Date) (map[types.Date]domain.DayAvailability, error) {
	return map[types.Date]domain.DayAvailability{}, nil
}

// SetMany ничего не делает
func (NoopCache) SetMany(context.Context, []domain.DayAvailability) error {
	return nil
}

// Invalidate ничего не делает
func (NoopCache) Invalidate(context.Context, ...types.Date) error {
	return nil
}

func key(d types.Date) string {
	return keyPrefix + d.String()
}

func encode(day domain.DayAvailability) (string, error) {
	slots := make(map[string]bool, len(day.SlotOpen))
	for s, open := range day.SlotOpen {
		slots[string(s)] = open
	}
	raw, err := json.Marshal(cachedDay{
		Date:           day.Date.String(),
		Slots:          slots,
		BlockedByAdmin: day.BlockedByAdmin,
	})
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

func decode(raw string) (domain.DayAvailability, error) {
	var cd cachedDay
	if err := json.Unmarshal([]byte(raw), &cd); err != nil {
		return domain.DayAvailability{}, err
	}
	date, err := types.ParseDate(cd.Date)
	if err != nil {
		return domain.DayAvailability{}, err
	}

	day := domain.NewDayAvailability(date)
	for _, s := range domain.AllSlots {
		open, ok := cd.Slots[string(s)]
		if !ok {
			return domain.DayAvailability{}, fmt.Errorf("cached day %s misses slot %s", cd.Date, s)
		}
		day.SlotOpen[s] = open
	}
	day.BlockedByAdmin = cd.BlockedByAdmin
	return day, nil
}
