package game

// ArenaSnapshot is a value copy of the arena and players, safe to hand to
// other goroutines or encode.
type ArenaSnapshot struct {
	Rows        int                 `json:"rows"`
	Cols        int                 `json:"cols"`
	Distributed bool                `json:"distributed"`
	Players     []PlayerSnapshot    `json:"players"`
	Territories []TerritorySnapshot `json:"territories"`
}

// PlayerSnapshot is a copy of one player's state.
type PlayerSnapshot struct {
	ID             PlayerID `json:"id"`
	Name           string   `json:"name"`
	Reinforcements int      `json:"reinforcements"`
	Territories    int      `json:"territories"`
	Units          int      `json:"units"`
}

// TerritorySnapshot is a copy of one territory. Owner is -1 for neutral.
type TerritorySnapshot struct {
	Row   int `json:"row"`
	Col   int `json:"col"`
	Owner int `json:"owner"`
	Units int `json:"units"`
}

// Snapshot copies the current state.
func (c *Controller) Snapshot() ArenaSnapshot {
	s := ArenaSnapshot{
		Rows:        c.arena.rows,
		Cols:        c.arena.cols,
		Distributed: c.distributed,
		Players:     make([]PlayerSnapshot, len(c.players)),
		Territories: make([]TerritorySnapshot, 0, c.arena.Size()),
	}

	for i, p := range c.players {
		s.Players[i] = PlayerSnapshot{
			ID:             p.id,
			Name:           p.Name,
			Reinforcements: p.reinforcements,
		}
	}

	for _, t := range c.arena.territories {
		owner := -1
		if id, ok := t.owner.PlayerID(); ok {
			owner = int(id)
			s.Players[id].Territories++
			s.Players[id].Units += t.units
		}
		s.Territories = append(s.Territories, TerritorySnapshot{
			Row:   t.coord.Row,
			Col:   t.coord.Col,
			Owner: owner,
			Units: t.units,
		})
	}
	return s
}

// TerritoryAt returns the snapshot cell at c, or false if out of range.
func (s ArenaSnapshot) TerritoryAt(c Coordinate) (TerritorySnapshot, bool) {
	if c.Row < 0 || c.Row >= s.Rows || c.Col < 0 || c.Col >= s.Cols {
		return TerritorySnapshot{}, false
	}
	i := c.Row*s.Cols + c.Col
	if i >= len(s.Territories) {
		return TerritorySnapshot{}, false
	}
	return s.Territories[i], true
}
