package credentials

import (
	"context"
	"sync"
)

// MemoryStore keeps the credential pair in process memory. It is the default
// store and the one tests use; nothing outlives the process.
type MemoryStore struct {
	mu   sync.RWMutex
	cred *Credential
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Save(ctx context.Context, c Credential) error {
	if c.AccessToken == "" || c.RefreshToken == "" {
		return ErrIncompletePair
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cred = &Credential{AccessToken: c.AccessToken, RefreshToken: c.RefreshToken}
	return nil
}

func (s *MemoryStore) Load(ctx context.Context) (*Credential, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.cred == nil {
		return nil, nil
	}
	c := *s.cred
	return &c, nil
}

func (s *MemoryStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cred = nil
	return nil
}
