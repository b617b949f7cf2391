// Package boltstore keeps playback progress in a bbolt file.
package boltstore

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/llehouerou/folderplay/internal/state"
)

var bucketProgress = []byte("progress")

// Store implements state.ProgressStore using bbolt.
type Store struct {
	db *bolt.DB
}

// Open opens or creates the bolt file at path.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt db: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketProgress)
		return err
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) GetProgress(ctx context.Context, playlistID string) (*state.ProgressRow, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var data []byte
	err := s.db.View(func(tx *bolt.Tx) error {
		if v := tx.Bucket(bucketProgress).Get([]byte(playlistID)); v != nil {
			// v is only valid inside the transaction
			data = append([]byte(nil), v...)
		}
		return nil
	})
	if err != nil || data == nil {
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
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := json.Marshal(row)
	if err != nil {
		return err
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketProgress).Put([]byte(row.PlaylistID), data)
	})
}

func (s *Store) DeleteProgress(ctx context.Context, playlistID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketProgress).Delete([]byte(playlistID))
	})
}

var _ state.ProgressStore = (*Store)(nil)
