package services

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/diewo77/ventepos/internal/models"
	"github.com/diewo77/ventepos/internal/prefs"
)

// SessionService tracks the single connected user of the process, persisted
// as a serialized record in the preferences store. Presence of the slot
// means "logged in".
type SessionService struct {
	mu      sync.Mutex
	current *models.User
	store   *prefs.Store
}

func NewSessionService(store *prefs.Store) *SessionService {
	return &SessionService{store: store}
}

// SetConnectedUser records u as the connected user and persists it.
func (s *SessionService) SetConnectedUser(u models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := u
	s.current = &cp
	raw, err := json.Marshal(cp)
	if err != nil {
		return fmt.Errorf("save connected user: %w", err)
	}
	if err := s.store.Put(prefs.KeyConnectedUser, raw); err != nil {
		return fmt.Errorf("save connected user: %w", err)
	}
	return nil
}

// ConnectedUser returns the current user, reloading from the preferences
// store when the in-memory copy is gone (fresh process).
func (s *SessionService) ConnectedUser() (models.User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current != nil {
		return *s.current, true
	}
	raw, ok, err := s.store.Get(prefs.KeyConnectedUser)
	if err != nil || !ok {
		return models.User{}, false
	}
	var u models.User
	if err := json.Unmarshal(raw, &u); err != nil {
		return models.User{}, false
	}
	s.current = &u
	return u, true
}

// IsConnected reports whether a connected-user record exists.
func (s *SessionService) IsConnected() bool {
	_, ok := s.ConnectedUser()
	return ok
}

// IsAdmin matches the connected user's role case-insensitively.
func (s *SessionService) IsAdmin() bool {
	u, ok := s.ConnectedUser()
	return ok && u.IsAdmin()
}

// Clear logs the user out and removes the persisted record.
func (s *SessionService) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = nil
	if err := s.store.Delete(prefs.KeyConnectedUser); err != nil {
		return fmt.Errorf("clear connected user: %w", err)
	}
	return nil
}
