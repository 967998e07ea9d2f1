package session

import (
	"sort"
	"sync"
	"time"

	"territory-arena/internal/game"
)

// Registry holds the live sessions of a server process.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	opts     []game.Option

	baseSeed int64
	created  int64
}

// NewRegistry creates an empty registry. opts are applied to every
// controller it creates. Session n (counting from zero) is seeded with
// baseSeed+n; a zero baseSeed seeds each session from the clock.
func NewRegistry(baseSeed int64, opts ...game.Option) *Registry {
	return &Registry{
		sessions: make(map[string]*Session),
		opts:     opts,
		baseSeed: baseSeed,
	}
}

// Create starts a new waiting session with its own seed.
func (r *Registry) Create(name string) (*Session, error) {
	s, err := New(name, r.nextSeed(), r.opts...)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	r.sessions[s.ID] = s
	r.mu.Unlock()
	return s, nil
}

func (r *Registry) nextSeed() int64 {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := r.created
	r.created++
	if r.baseSeed == 0 {
		return time.Now().UnixNano() + n
	}
	return r.baseSeed + n
}

// Get looks up a session by ID.
func (r *Registry) Get(id string) (*Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return s, nil
}

// List returns summaries of all sessions, oldest first.
func (r *Registry) List() []Info {
	r.mu.RLock()
	sessions := make([]*Session, 0, len(r.sessions))
	for _, s := range r.sessions {
		sessions = append(sessions, s)
	}
	r.mu.RUnlock()

	infos := make([]Info, len(sessions))
	for i, s := range sessions {
		infos[i] = s.Info()
	}
	sort.Slice(infos, func(i, j int) bool {
		if infos[i].CreatedAt.Equal(infos[j].CreatedAt) {
			return infos[i].ID < infos[j].ID
		}
		return infos[i].CreatedAt.Before(infos[j].CreatedAt)
	})
	return infos
}

// Remove drops a session.
func (r *Registry) Remove(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.sessions[id]; !ok {
		return ErrSessionNotFound
	}
	delete(r.sessions, id)
	return nil
}
