package game

// MinGarrison is the number of units a player-owned territory must keep.
const MinGarrison = 1

// MoveUnits transfers n units between two territories owned by p. The source
// must keep at least MinGarrison units. Invalid coordinates return an error;
// any other rejection returns false and leaves both territories unchanged.
func (c *Controller) MoveUnits(n int, from, to Coordinate, p *Player) (bool, error) {
	src, err := c.arena.TerritoryAt(from)
	if err != nil {
		return false, err
	}
	dst, err := c.arena.TerritoryAt(to)
	if err != nil {
		return false, err
	}

	if !c.isRegistered(p) || src == dst || n <= 0 {
		return false, nil
	}
	if !src.OwnedBy(p) || !dst.OwnedBy(p) {
		return false, nil
	}
	if src.units-n < MinGarrison {
		return false, nil
	}
	if c.adjacentOnly && !c.arena.Adjacent(from, to) {
		return false, nil
	}

	src.units -= n
	dst.units += n
	return true, nil
}
