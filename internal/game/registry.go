package game

import "sync"

// Key addresses one live session: a player inside a chat. The same player may
// run independent games in different chats.
type Key struct {
	ChatID   int64
	PlayerID int64
}

// Registry tracks the live sessions. The map itself is safe for concurrent
// use; operations on an individual session still have to be serialized by the
// caller (the bot dispatches each user to one worker for exactly that).
type Registry struct {
	sessions map[Key]*Session
	mu       sync.RWMutex
}

func NewRegistry() *Registry {
	return &Registry{sessions: make(map[Key]*Session)}
}

// Put installs a session for the key, replacing any abandoned one.
func (r *Registry) Put(key Key, s *Session) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[key] = s
}

// Get returns the live session for the key, or nil.
func (r *Registry) Get(key Key) *Session {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sessions[key]
}

// Remove drops the session for the key.
func (r *Registry) Remove(key Key) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, key)
}

// Len reports how many games are currently running.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}
