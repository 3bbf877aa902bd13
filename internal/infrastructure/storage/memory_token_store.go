package storage

import (
	"context"
	"sync"

	"github.com/jhoicas/trebol-admin/internal/domain/entity"
	"github.com/jhoicas/trebol-admin/internal/domain/repository"
)

var _ repository.TokenStore = (*MemoryTokenStore)(nil)

// MemoryTokenStore mantiene el par solo mientras vive el proceso (SESSION_STORE=memory y tests).
type MemoryTokenStore struct {
	mu     sync.Mutex
	pair   *entity.TokenPair
	writes int
}

// NewMemoryTokenStore construye el store, opcionalmente con un par inicial.
func NewMemoryTokenStore(initial *entity.TokenPair) *MemoryTokenStore {
	s := &MemoryTokenStore{}
	if initial != nil {
		p := *initial
		s.pair = &p
	}
	return s
}

func (s *MemoryTokenStore) Load(_ context.Context) (*entity.TokenPair, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pair == nil {
		return nil, nil
	}
	p := *s.pair
	return &p, nil
}

func (s *MemoryTokenStore) Save(_ context.Context, pair entity.TokenPair) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pair = &pair
	s.writes++
	return nil
}

func (s *MemoryTokenStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pair = nil
	s.writes++
	return nil
}

// Writes cuenta escrituras y borrados (una por transición de sesión).
func (s *MemoryTokenStore) Writes() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writes
}
