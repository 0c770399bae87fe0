package core

import (
	"context"
	"fmt"
	"strings"
	"sync"
)

// MemoryAuthorizationCodeStore keeps authorization codes in process memory.
// Codes do not survive a restart and are not visible to other instances;
// single-instance deployments only. Saving an existing code overwrites it.
type MemoryAuthorizationCodeStore struct {
	mu      sync.RWMutex
	entries map[string]AuthorizationCode
}

func NewMemoryAuthorizationCodeStore() *MemoryAuthorizationCodeStore {
	return &MemoryAuthorizationCodeStore{
		entries: map[string]AuthorizationCode{},
	}
}

func (s *MemoryAuthorizationCodeStore) Save(_ context.Context, code AuthorizationCode) error {
	if s == nil {
		return fmt.Errorf("core: authorization code store is not configured")
	}
	trimmed := strings.TrimSpace(code.Code)
	if trimmed == "" {
		return fmt.Errorf("core: authorization code is required")
	}
	code.Code = trimmed

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.entries == nil {
		s.entries = map[string]AuthorizationCode{}
	}
	s.entries[trimmed] = code
	return nil
}

func (s *MemoryAuthorizationCodeStore) Get(_ context.Context, code string) (AuthorizationCode, bool, error) {
	if s == nil {
		return AuthorizationCode{}, false, fmt.Errorf("core: authorization code store is not configured")
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	entry, ok := s.entries[strings.TrimSpace(code)]
	return entry, ok, nil
}

var _ AuthorizationCodeStore = (*MemoryAuthorizationCodeStore)(nil)
