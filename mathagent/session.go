/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package mathagent

import (
	"errors"
	"fmt"
	"slices"
	"sync"
)

var (
	// ErrSessionExists is returned when creating a session that already exists.
	ErrSessionExists = errors.New("session already exists")
	// ErrSessionNotFound is returned for operations on an unknown session.
	ErrSessionNotFound = errors.New("session not found")
)

// Exchange is one completed turn: the user's query and the agent's answer.
type Exchange struct {
	Query string `yaml:"user"`
	Reply string `yaml:"agent"`
}

// Session is a conversation thread owned by one user of one app.
type Session struct {
	AppName string
	UserID  string
	ID      string
	Turns   []Exchange
}

type sessionKey struct {
	app, user, id string
}

// SessionService keeps sessions in memory for the life of the process.
type SessionService struct {
	mu       sync.Mutex
	sessions map[sessionKey]*Session
}

// NewSessionService returns an empty SessionService.
func NewSessionService() *SessionService {
	return &SessionService{sessions: make(map[sessionKey]*Session)}
}

// Create registers a new empty session.
func (s *SessionService) Create(app, user, id string) (Session, error) {
	if id == "" {
		return Session{}, errors.New("session id is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	key := sessionKey{app, user, id}
	if _, ok := s.sessions[key]; ok {
		return Session{}, fmt.Errorf("%w: %s", ErrSessionExists, id)
	}
	sess := &Session{AppName: app, UserID: user, ID: id}
	s.sessions[key] = sess
	return *sess, nil
}

// Get returns a copy of the session.
func (s *SessionService) Get(app, user, id string) (Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[sessionKey{app, user, id}]
	if !ok {
		return Session{}, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	out := *sess
	out.Turns = slices.Clone(sess.Turns)
	return out, nil
}

// Append records a completed exchange and returns the session's turn count.
func (s *SessionService) Append(app, user, id string, ex Exchange) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[sessionKey{app, user, id}]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	sess.Turns = append(sess.Turns, ex)
	return len(sess.Turns), nil
}
