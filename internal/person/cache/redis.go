// Package cache keeps fetched person records in Redis. Records are never
// updated after creation, so entries only expire; nothing invalidates them.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"pidstore/internal/person/models"
	"pidstore/internal/sentinel"
	"pidstore/pkg/domain"
)

const keyPrefix = "person:"

// DefaultTTL applies when the configured TTL is not positive.
const DefaultTTL = 10 * time.Minute

type RedisCache struct {
	client goredis.Cmdable
	ttl    time.Duration
}

func NewRedis(client goredis.Cmdable, ttl time.Duration) *RedisCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &RedisCache{client: client, ttl: ttl}
}

type entry struct {
	ExternalID  string `json:"external_id"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	DateOfBirth string `json:"date_of_birth"`
}

func key(id domain.ExternalID) string {
	return keyPrefix + id.String()
}

// Get returns sentinel.ErrNotFound on a miss and wraps sentinel.ErrUnavailable
// when Redis cannot be reached.
func (c *RedisCache) Get(ctx context.Context, id domain.ExternalID) (*models.Person, error) {
	raw, err := c.client.Get(ctx, key(id)).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("read person cache: %w: %w", sentinel.ErrUnavailable, err)
	}
	return decode(raw)
}

func (c *RedisCache) Set(ctx context.Context, person *models.Person) error {
	if person == nil {
		return fmt.Errorf("person is required")
	}
	raw, err := encode(person)
	if err != nil {
		return err
	}
	if err := c.client.Set(ctx, key(person.ExternalID), raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("write person cache: %w: %w", sentinel.ErrUnavailable, err)
	}
	return nil
}

func encode(p *models.Person) ([]byte, error) {
	raw, err := json.Marshal(entry{
		ExternalID:  p.ExternalID.String(),
		Name:        p.Name,
		Email:       p.Email,
		DateOfBirth: domain.FormatTimestamp(p.DateOfBirth),
	})
	if err != nil {
		return nil, fmt.Errorf("encode person cache entry: %w", err)
	}
	return raw, nil
}

func decode(raw []byte) (*models.Person, error) {
	var e entry
	if err := json.Unmarshal(raw, &e); err != nil {
		return nil, fmt.Errorf("decode person cache entry: %w", err)
	}
	id, err := domain.ParseExternalID(e.ExternalID)
	if err != nil {
		return nil, fmt.Errorf("decode person cache entry: %w", err)
	}
	dob, err := time.Parse(time.RFC3339Nano, e.DateOfBirth)
	if err != nil {
		return nil, fmt.Errorf("decode person cache entry: %w", err)
	}
	return &models.Person{
		ExternalID:  id,
		Name:        e.Name,
		Email:       e.Email,
		DateOfBirth: dob.UTC(),
	}, nil
}
