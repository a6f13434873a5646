package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/lalith-99/collabsphere/internal/models"
	goredis "github.com/redis/go-redis/v9"
)

// IdentityStore keeps each identity slot as a JSON string under its key. Keys
// never expire; a slot lives until logout clears it.
type IdentityStore struct {
	client *goredis.Client
}

// NewClient parses a redis:// URL and pings the server.
func NewClient(ctx context.Context, url string) (*goredis.Client, error) {
	opts, err := goredis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := goredis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}

func NewIdentityStore(client *goredis.Client) *IdentityStore {
	return &IdentityStore{client: client}
}

func (s *IdentityStore) Load(ctx context.Context, key string) (*models.Identity, error) {
	raw, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("load identity: %w", err)
	}

	var u models.Identity
	if err := json.Unmarshal(raw, &u); err != nil {
		return nil, fmt.Errorf("decode identity: %w", err)
	}
	return &u, nil
}

func (s *IdentityStore) Save(ctx context.Context, key string, identity *models.Identity) error {
	raw, err := json.Marshal(identity)
	if err != nil {
		return fmt.Errorf("encode identity: %w", err)
	}
	if err := s.client.Set(ctx, key, raw, 0).Err(); err != nil {
		return fmt.Errorf("save identity: %w", err)
	}
	return nil
}

func (s *IdentityStore) Clear(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("clear identity: %w", err)
	}
	return nil
}
