// Package session serialises access to a game controller and adds turn order
// on top of it.
package session

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"territory-arena/internal/game"
)

// Status is the lifecycle state of a session.
type Status string

const (
	StatusWaiting Status = "waiting"
	StatusStarted Status = "started"
)

// Session is one arena with its players. All methods are safe for concurrent use.
type Session struct {
	ID        string
	Name      string
	CreatedAt time.Time
	// Seed drives DistributeRandom. Replaying it with the same players and
	// options reproduces the deal.
	Seed int64

	mu     sync.RWMutex
	ctrl   *game.Controller
	status Status
	turn   int
}

// Info is a read-only summary of a session.
type Info struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Status      Status    `json:"status"`
	PlayerCount int       `json:"player_count"`
	Turn        int       `json:"turn"`
	CreatedAt   time.Time `json:"created_at"`
}

// New creates a waiting session around a fresh controller seeded with seed.
func New(name string, seed int64, opts ...game.Option) (*Session, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyName
	}
	opts = append(opts[:len(opts):len(opts)], game.WithSeed(seed))
	ctrl, err := game.NewController(opts...)
	if err != nil {
		return nil, fmt.Errorf("new controller: %w", err)
	}
	return &Session{
		ID:        uuid.New().String(),
		Name:      name,
		CreatedAt: time.Now(),
		Seed:      seed,
		ctrl:      ctrl,
		status:    StatusWaiting,
	}, nil
}

// Info returns a summary of the session.
func (s *Session) Info() Info {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return Info{
		ID:          s.ID,
		Name:        s.Name,
		Status:      s.status,
		PlayerCount: s.ctrl.NumberOfPlayers(),
		Turn:        s.turn,
		CreatedAt:   s.CreatedAt,
	}
}

// Status returns the lifecycle state.
func (s *Session) Status() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.status
}

// Join registers a new player and returns it. Its ID is the index used by
// every other method.
func (s *Session) Join(name string) (*game.Player, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyName
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.status != StatusWaiting {
		return nil, ErrAlreadyStarted
	}
	p := game.NewPlayer(name)
	if err := s.ctrl.AddPlayer(p); err != nil {
		return nil, err
	}
	return p, nil
}

// Start distributes territoriesPerPlayer territories to every player and
// hands the first turn to player 0.
func (s *Session) Start(territoriesPerPlayer int, mode game.DistributionMode) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.status == StatusStarted {
		return ErrAlreadyStarted
	}
	if err := s.ctrl.DistributePlayers(territoriesPerPlayer, mode); err != nil {
		return fmt.Errorf("start %s: %w", s.ID, err)
	}
	s.status = StatusStarted
	s.turn = 0
	return nil
}

// Reinforce places amount units from the player's pool on the territory at.
func (s *Session) Reinforce(idx int, at game.Coordinate, amount int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.actor(idx)
	if err != nil {
		return false, err
	}
	t, err := s.ctrl.Arena().TerritoryAt(at)
	if err != nil {
		return false, err
	}
	return s.ctrl.Reinforce(amount, t, p), nil
}

// ReinforceEvenly spends the player's whole pool across its territories.
func (s *Session) ReinforceEvenly(idx int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.actor(idx)
	if err != nil {
		return 0, err
	}
	return s.ctrl.ReinforceEvenly(p)
}

// MoveUnits transfers n units between two of the player's territories.
func (s *Session) MoveUnits(idx int, from, to game.Coordinate, n int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.actor(idx)
	if err != nil {
		return false, err
	}
	return s.ctrl.MoveUnits(n, from, to, p)
}

// EndTurn passes the turn to the next player and grants that player its
// turn reinforcements. Unspent reinforcements carry over.
func (s *Session) EndTurn(idx int) (next, granted int, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.actor(idx); err != nil {
		return 0, 0, err
	}

	s.turn = (s.turn + 1) % s.ctrl.NumberOfPlayers()
	p, err := s.ctrl.PlayerByIndex(s.turn)
	if err != nil {
		return 0, 0, err
	}
	return s.turn, s.ctrl.GrantTurnReinforcements(p), nil
}

// Snapshot copies the arena and players.
func (s *Session) Snapshot() game.ArenaSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ctrl.Snapshot()
}

// State returns the arena together with the player to act, read under one
// lock. started is false before Start, and turn is then zero.
func (s *Session) State() (snap game.ArenaSnapshot, turn int, started bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ctrl.Snapshot(), s.turn, s.status == StatusStarted
}

// actor resolves idx to the player allowed to act now. Callers hold mu.
func (s *Session) actor(idx int) (*game.Player, error) {
	if s.status != StatusStarted {
		return nil, ErrNotStarted
	}
	p, err := s.ctrl.PlayerByIndex(idx)
	if err != nil {
		return nil, err
	}
	if idx != s.turn {
		return nil, fmt.Errorf("player %d, turn %d: %w", idx, s.turn, ErrNotYourTurn)
	}
	return p, nil
}
