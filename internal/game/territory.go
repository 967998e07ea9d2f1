package game

import "fmt"

// Coordinate addresses one cell of the arena.
type Coordinate struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// At is shorthand for Coordinate{Row: row, Col: col}.
func At(row, col int) Coordinate {
	return Coordinate{Row: row, Col: col}
}

func (c Coordinate) String() string {
	return fmt.Sprintf("(%d,%d)", c.Row, c.Col)
}

// Territory represents a single cell of the arena.
// A territory owned by a player always holds at least one unit.
type Territory struct {
	coord Coordinate
	owner Owner
	units int
}

// Coordinate returns the territory's fixed position.
func (t *Territory) Coordinate() Coordinate {
	return t.coord
}

// Owner returns the current owner, Neutral if unclaimed.
func (t *Territory) Owner() Owner {
	return t.owner
}

// Units returns the number of units stationed here.
func (t *Territory) Units() int {
	return t.units
}

// OwnedBy reports whether p owns the territory.
func (t *Territory) OwnedBy(p *Player) bool {
	return p != nil && t.owner == p.Owner()
}

// claim hands the territory to owner with the given garrison.
func (t *Territory) claim(owner Owner, units int) {
	t.owner = owner
	t.units = units
}
