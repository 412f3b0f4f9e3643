package board

import (
	"sync"

	"salesboard/internal/model"
	"salesboard/internal/store"

	"go.uber.org/zap"
)

// Sessions hands out one Controller per logged-in user. A controller lives
// until the user logs out; its working copy is session state, not store
// state.
type Sessions struct {
	mu          sync.Mutex
	paths       *store.ActionPathStore
	log         *zap.Logger
	controllers map[string]*Controller
}

// NewSessions builds the session registry.
func NewSessions(paths *store.ActionPathStore, log *zap.Logger) *Sessions {
	return &Sessions{
		paths:       paths,
		log:         log,
		controllers: make(map[string]*Controller),
	}
}

// Get returns the user's controller, creating it on first use.
func (s *Sessions) Get(user model.User) *Controller {
	s.mu.Lock()
	defer s.mu.Unlock()

	if ctrl, ok := s.controllers[user.Email]; ok {
		return ctrl
	}
	ctrl := NewController(s.paths, user, s.log)
	s.controllers[user.Email] = ctrl
	return ctrl
}

// Drop discards the user's controller and its unsaved working copy.
func (s *Sessions) Drop(email string) {
	s.mu.Lock()
	delete(s.controllers, email)
	s.mu.Unlock()
}

// Count returns the number of live sessions.
func (s *Sessions) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.controllers)
}
