package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"gymgate/backend/internal/person/domain"
)

// CachedRepository is a read-through Redis cache over a person Repository.
// Misses are not cached. The TTL bounds how long a deactivation or branch
// transfer can go unseen by the scan path.
type CachedRepository struct {
	next   Repository
	client *redis.Client
	ttl    time.Duration
}

// NewCachedRepository wraps next with a Redis cache. If client is nil, next is
// returned unchanged and no caching occurs.
func NewCachedRepository(next Repository, client *redis.Client, ttl time.Duration) Repository {
	if client == nil {
		return next
	}
	return &CachedRepository{next: next, client: client, ttl: ttl}
}

type cachedPerson struct {
	ID          string    `json:"id"`
	BranchID    string    `json:"branch_id"`
	Variant     string    `json:"variant"`
	DisplayName string    `json:"display_name"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// GetByIDAndVariant returns the cached person when present, otherwise loads it
// from the underlying repository and caches the result. Cache failures are
// logged and fall back to the underlying repository.
func (r *CachedRepository) GetByIDAndVariant(ctx context.Context, id string, variant domain.Variant) (*domain.Person, error) {
	key := personCacheKey(id, variant)
	value, err := r.client.Get(ctx, key).Result()
	if err == nil {
		var cached cachedPerson
		if err := json.Unmarshal([]byte(value), &cached); err == nil {
			return &domain.Person{
				ID:          cached.ID,
				BranchID:    cached.BranchID,
				Variant:     domain.Variant(cached.Variant),
				DisplayName: cached.DisplayName,
				Status:      domain.Status(cached.Status),
				CreatedAt:   cached.CreatedAt,
				UpdatedAt:   cached.UpdatedAt,
			}, nil
		}
		_ = r.client.Del(ctx, key)
	} else if err != redis.Nil {
		log.Printf("person cache: get failed: %v", err)
	}

	p, err := r.next.GetByIDAndVariant(ctx, id, variant)
	if err != nil || p == nil {
		return p, err
	}

	data, err := json.Marshal(cachedPerson{
		ID:          p.ID,
		BranchID:    p.BranchID,
		Variant:     string(p.Variant),
		DisplayName: p.DisplayName,
		Status:      string(p.Status),
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	})
	if err == nil {
		if err := r.client.Set(ctx, key, data, r.ttl).Err(); err != nil {
			log.Printf("person cache: set failed: %v", err)
		}
	}
	return p, nil
}

func personCacheKey(id string, variant domain.Variant) string {
	return fmt.Sprintf("person:%s:%s", variant, id)
}
