package game

import "fmt"

// PlayerID is a player's index in the controller's registration order.
type PlayerID int

// Player represents a registered player.
type Player struct {
	Name string `json:"name"`

	id             PlayerID
	reinforcements int
	registered     bool
}

// NewPlayer creates a player that is not yet registered.
func NewPlayer(name string) *Player {
	return &Player{Name: name}
}

// ID returns the index assigned at registration.
func (p *Player) ID() PlayerID {
	return p.id
}

// Reinforcements returns the unspent reinforcement pool.
func (p *Player) Reinforcements() int {
	return p.reinforcements
}

// Owner returns the owner value used to mark this player's territories.
func (p *Player) Owner() Owner {
	return OwnedBy(p.id)
}

func (p *Player) String() string {
	return fmt.Sprintf("%s#%d", p.Name, p.id)
}

// Owner is either Neutral or a reference to a registered player by ID.
// The zero value is Neutral.
type Owner struct {
	id    PlayerID
	owned bool
}

// Neutral marks unclaimed territory.
var Neutral = Owner{}

// OwnedBy returns the owner value for the given player.
func OwnedBy(id PlayerID) Owner {
	return Owner{id: id, owned: true}
}

// IsNeutral reports whether no player owns the territory.
func (o Owner) IsNeutral() bool {
	return !o.owned
}

// PlayerID returns the owning player's ID. ok is false for Neutral.
func (o Owner) PlayerID() (id PlayerID, ok bool) {
	return o.id, o.owned
}

func (o Owner) String() string {
	if !o.owned {
		return "neutral"
	}
	return fmt.Sprintf("player %d", o.id)
}
