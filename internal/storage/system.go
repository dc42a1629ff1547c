package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/timshannon/badgerhold/v4"
)

// ErrKeyNotFound is returned for missing system keys.
var ErrKeyNotFound = errors.New("key not found")

// SystemKV is one system-level key-value pair.
type SystemKV struct {
	Key   string `badgerhold:"key"`
	Value string
}

type systemStore struct {
	db *badgerhold.Store
}

func (s *systemStore) GetKV(_ context.Context, key string) (string, error) {
	var kv SystemKV
	if err := s.db.Get(key, &kv); err != nil {
		if errors.Is(err, badgerhold.ErrNotFound) {
			return "", ErrKeyNotFound
		}
		return "", fmt.Errorf("failed to get key '%s': %w", key, err)
	}
	return kv.Value, nil
}

func (s *systemStore) SetKV(_ context.Context, key, value string) error {
	if err := s.db.Upsert(key, &SystemKV{Key: key, Value: value}); err != nil {
		return fmt.Errorf("failed to set key '%s': %w", key, err)
	}
	return nil
}
