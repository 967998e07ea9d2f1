// Package game contains the territory-arena simulation core: the grid of
// territories, the registered players, and the controller enforcing the rules
// between them. The package is synchronous and not safe for concurrent use;
// callers serialise access (see internal/session).
package game

import (
	"fmt"

	"golang.org/x/exp/rand"
)

// Controller owns the arena and the ordered list of registered players.
type Controller struct {
	arena       *Arena
	players     []*Player
	rng         *rand.Rand
	distributed bool

	adjacentOnly bool
}

// Option configures a Controller.
type Option func(*controllerOptions)

type controllerOptions struct {
	rows         int
	cols         int
	seed         int64
	adjacentOnly bool
}

// WithSize sets the arena dimensions. The default is 11x11.
func WithSize(rows, cols int) Option {
	return func(o *controllerOptions) {
		o.rows = rows
		o.cols = cols
	}
}

// WithSeed seeds the random source used by DistributeRandom.
func WithSeed(seed int64) Option {
	return func(o *controllerOptions) {
		o.seed = seed
	}
}

// WithAdjacentMovesOnly restricts MoveUnits to orthogonally adjacent territories.
func WithAdjacentMovesOnly() Option {
	return func(o *controllerOptions) {
		o.adjacentOnly = true
	}
}

// NewController creates a controller with a fresh arena and no players.
func NewController(opts ...Option) (*Controller, error) {
	o := controllerOptions{
		rows: DefaultRows,
		cols: DefaultCols,
		seed: 1,
	}
	for _, opt := range opts {
		opt(&o)
	}

	arena, err := NewArena(o.rows, o.cols)
	if err != nil {
		return nil, err
	}

	return &Controller{
		arena:        arena,
		rng:          rand.New(rand.NewSource(uint64(o.seed))),
		adjacentOnly: o.adjacentOnly,
	}, nil
}

// AddPlayer registers p and assigns it the next sequential ID.
// Players can only join before distribution.
func (c *Controller) AddPlayer(p *Player) error {
	if p == nil {
		return ErrNilPlayer
	}
	if c.distributed {
		return ErrRegistrationClosed
	}
	if p.registered {
		return fmt.Errorf("add %q: %w", p.Name, ErrPlayerRegistered)
	}
	p.id = PlayerID(len(c.players))
	p.registered = true
	c.players = append(c.players, p)
	return nil
}

// NumberOfPlayers returns how many players are registered.
func (c *Controller) NumberOfPlayers() int {
	return len(c.players)
}

// PlayerByIndex returns the i-th registered player.
func (c *Controller) PlayerByIndex(i int) (*Player, error) {
	if i < 0 || i >= len(c.players) {
		return nil, fmt.Errorf("player %d of %d: %w", i, len(c.players), ErrIndexOutOfRange)
	}
	return c.players[i], nil
}

// Players returns the registered players in registration order.
func (c *Controller) Players() []*Player {
	out := make([]*Player, len(c.players))
	copy(out, c.players)
	return out
}

// Arena returns the controlled arena.
func (c *Controller) Arena() *Arena {
	return c.arena
}

// OwnedTerritories returns p's territories in row-major scan order.
func (c *Controller) OwnedTerritories(p *Player) []*Territory {
	if !c.isRegistered(p) {
		return nil
	}
	return c.arena.OwnedBy(p.Owner())
}

// Distributed reports whether DistributePlayers has run.
func (c *Controller) Distributed() bool {
	return c.distributed
}

// isRegistered reports whether p is one of this controller's players.
func (c *Controller) isRegistered(p *Player) bool {
	if p == nil || !p.registered {
		return false
	}
	i := int(p.id)
	return i >= 0 && i < len(c.players) && c.players[i] == p
}
