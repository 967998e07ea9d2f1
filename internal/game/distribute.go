package game

import "fmt"

// DistributionMode selects how territories are handed out.
type DistributionMode int

const (
	// DistributeSequential deals cells round-robin in row-major order.
	DistributeSequential DistributionMode = iota
	// DistributeRandom deals cells round-robin from a seeded shuffle of the grid.
	DistributeRandom
)

// String returns the mode name.
func (m DistributionMode) String() string {
	switch m {
	case DistributeSequential:
		return "sequential"
	case DistributeRandom:
		return "random"
	default:
		return "unknown"
	}
}

// ParseDistributionMode maps a mode name back to its value.
func ParseDistributionMode(s string) (DistributionMode, error) {
	switch s {
	case "sequential", "0":
		return DistributeSequential, nil
	case "random", "1":
		return DistributeRandom, nil
	default:
		return 0, fmt.Errorf("mode %q: %w", s, ErrUnknownMode)
	}
}

// MinReinforcements is the smallest pool a player with territory receives.
const MinReinforcements = 3

// InitialReinforcements returns the pool granted for owning the given number
// of territories: one unit per three territories, never fewer than three.
func InitialReinforcements(owned int) int {
	if owned <= 0 {
		return 0
	}
	return max(MinReinforcements, owned/3)
}

// DistributePlayers assigns territoriesPerPlayer unclaimed territories to every
// registered player, one unit each, and leaves the rest neutral. Each player
// is then granted its initial reinforcement pool. It can only run once.
func (c *Controller) DistributePlayers(territoriesPerPlayer int, mode DistributionMode) error {
	if c.distributed {
		return ErrAlreadyDistributed
	}
	if len(c.players) == 0 {
		return ErrNoPlayers
	}
	if territoriesPerPlayer <= 0 || territoriesPerPlayer > c.arena.Size()/len(c.players) {
		return fmt.Errorf("%d territories for %d players on %d cells: %w",
			territoriesPerPlayer, len(c.players), c.arena.Size(), ErrInvalidTerritoryCount)
	}

	var order []*Territory
	switch mode {
	case DistributeSequential:
		order = c.arena.Territories()
	case DistributeRandom:
		order = c.arena.Territories()
		c.rng.Shuffle(len(order), func(i, j int) {
			order[i], order[j] = order[j], order[i]
		})
	default:
		return fmt.Errorf("mode %d: %w", mode, ErrUnknownMode)
	}

	dealt := territoriesPerPlayer * len(c.players)
	for i := 0; i < dealt; i++ {
		p := c.players[i%len(c.players)]
		order[i].claim(p.Owner(), 1)
	}

	for _, p := range c.players {
		p.reinforcements = InitialReinforcements(territoriesPerPlayer)
	}

	c.distributed = true
	return nil
}

// GrantTurnReinforcements adds the start-of-turn grant to p's pool and
// returns the amount granted.
func (c *Controller) GrantTurnReinforcements(p *Player) int {
	if !c.isRegistered(p) {
		return 0
	}
	grant := InitialReinforcements(len(c.arena.OwnedBy(p.Owner())))
	p.reinforcements += grant
	return grant
}
