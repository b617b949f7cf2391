// Package redisstore keeps playback progress in Redis.
package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/llehouerou/folderplay/internal/state"
)

const keyPrefix = "folderplay:progress:"

// Store implements state.ProgressStore on a Redis server.
type Store struct {
	client *redis.Client
}

// Connect dials addr and verifies the connection with PING.
func Connect(ctx context.Context, addr, password string, db int) (*Store, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return New(client), nil
}

// New wraps an existing client.
func New(client *redis.Client) *Store {
	return &Store{client: client}
}

func (s *Store) Close() error {
	return s.client.Close()
}

func key(playlistID string) string {
	return keyPrefix + playlistID
}

func (s *Store) GetProgress(ctx context.Context, playlistID string) (*state.ProgressRow, error) {
	data, err := s.client.Get(ctx, key(playlistID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil //nolint:nilnil // absence is not an error
	}
	if err != nil {
		return nil, err
	}

	var row state.ProgressRow
	if err := json.Unmarshal(data, &row); err != nil {
		return nil, fmt.Errorf("decode progress %s: %w", playlistID, err)
	}
	row.PlaylistID = playlistID
	return &row, nil
}

func (s *Store) SaveProgress(ctx context.Context, row state.ProgressRow) error {
	data, err := json.Marshal(row)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, key(row.PlaylistID), data, 0).Err()
}

func (s *Store) DeleteProgress(ctx context.Context, playlistID string) error {
	return s.client.Del(ctx, key(playlistID)).Err()
}

var _ state.ProgressStore = (*Store)(nil)
