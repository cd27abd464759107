// Package storage persists named JSON blobs on a pluggable key/value backend.
//
// The Store adapter is best-effort: backend failures are logged and swallowed so a
// broken persistence layer never blocks an in-memory operation.
package storage

import (
	"context"
	"encoding/json"
	"errors"

	"go.uber.org/zap"
)

const (
	KeyLeads         = "leads-data"
	KeyLeadFilters   = "lead-filters"
	KeyOpportunities = "opportunities-data"
)

// ErrNotFound is returned by a Backend when the key is absent.
var ErrNotFound = errors.New("storage: key not found")

// Backend stores raw string values by key.
type Backend interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
}

type Store struct {
	backend Backend
	logger  *zap.Logger
}

func New(backend Backend, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{backend: backend, logger: logger}
}

// Load decodes the value stored under key into dest. It reports whether dest was
// populated; absence and failures both leave dest untouched.
func (s *Store) Load(ctx context.Context, key string, dest any) bool {
	raw, err := s.backend.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			s.logger.Error("Failed loading state", zap.String("key", key), zap.Error(err))
		}
		return false
	}

	if err := json.Unmarshal([]byte(raw), dest); err != nil {
		s.logger.Error("Failed decoding state", zap.String("key", key), zap.Error(err))
		return false
	}
	return true
}

func (s *Store) Save(ctx context.Context, key string, value any) {
	body, err := json.Marshal(value)
	if err != nil {
		s.logger.Error("Failed encoding state", zap.String("key", key), zap.Error(err))
		return
	}

	if err := s.backend.Set(ctx, key, string(body)); err != nil {
		s.logger.Error("Failed saving state", zap.String("key", key), zap.Error(err))
	}
}

func (s *Store) Remove(ctx context.Context, key string) {
	if err := s.backend.Remove(ctx, key); err != nil && !errors.Is(err, ErrNotFound) {
		s.logger.Error("Failed removing state", zap.String("key", key), zap.Error(err))
	}
}
