// Package state keeps per-chat conversation state in memory.
//
// A conversation starts with Begin, is read and replaced with Get and Put
// while it runs, and is removed with End. Nothing is persisted: a restart
// drops every unfinished conversation.
package state

import "sync"

// Store maps a chat id to the state of its active conversation.
type Store[S any] struct {
	mu       sync.RWMutex
	sessions map[int64]S
	onChange func(active int)
}

// NewStore constructs an empty store. onChange, when set, receives the number
// of active conversations after each Begin or End.
func NewStore[S any](onChange func(active int)) *Store[S] {
	return &Store[S]{sessions: make(map[int64]S), onChange: onChange}
}

// Begin starts (or restarts) the conversation for chatID.
func (s *Store[S]) Begin(chatID int64, st S) {
	s.mu.Lock()
	s.sessions[chatID] = st
	n := len(s.sessions)
	s.mu.Unlock()
	s.notify(n)
}

// Put replaces the state of a running conversation. It reports false when
// no conversation is active for chatID.
func (s *Store[S]) Put(chatID int64, st S) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[chatID]; !ok {
		return false
	}
	s.sessions[chatID] = st
	return true
}

// Get returns the active state for chatID.
func (s *Store[S]) Get(chatID int64) (S, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st, ok := s.sessions[chatID]
	return st, ok
}

// End clears the conversation for chatID and returns what it held.
func (s *Store[S]) End(chatID int64) (S, bool) {
	s.mu.Lock()
	st, ok := s.sessions[chatID]
	delete(s.sessions, chatID)
	n := len(s.sessions)
	s.mu.Unlock()
	if ok {
		s.notify(n)
	}
	return st, ok
}

// Active reports whether chatID has a conversation in progress.
func (s *Store[S]) Active(chatID int64) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.sessions[chatID]
	return ok
}

// Len returns the number of active conversations.
func (s *Store[S]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

func (s *Store[S]) notify(n int) {
	if s.onChange != nil {
		s.onChange(n)
	}
}
