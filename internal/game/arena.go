package game

import "fmt"

// Default arena dimensions.
const (
	DefaultRows = 11
	DefaultCols = 11
)

// Arena is the fixed grid of territories, stored row-major.
type Arena struct {
	rows        int
	cols        int
	territories []*Territory
}

// NewArena creates a rows x cols arena of neutral, empty territories.
func NewArena(rows, cols int) (*Arena, error) {
	if rows <= 0 || cols <= 0 {
		return nil, fmt.Errorf("arena dimensions %dx%d: %w", rows, cols, ErrInvalidArenaSize)
	}
	a := &Arena{
		rows:        rows,
		cols:        cols,
		territories: make([]*Territory, rows*cols),
	}
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			a.territories[r*cols+c] = &Territory{coord: At(r, c)}
		}
	}
	return a, nil
}

// Rows returns the number of rows.
func (a *Arena) Rows() int { return a.rows }

// Cols returns the number of columns.
func (a *Arena) Cols() int { return a.cols }

// Size returns the number of territories.
func (a *Arena) Size() int { return len(a.territories) }

// Contains reports whether c lies inside the grid.
func (a *Arena) Contains(c Coordinate) bool {
	return c.Row >= 0 && c.Row < a.rows && c.Col >= 0 && c.Col < a.cols
}

// TerritoryAt returns the territory at c.
func (a *Arena) TerritoryAt(c Coordinate) (*Territory, error) {
	if !a.Contains(c) {
		return nil, fmt.Errorf("territory %s: %w", c, ErrOutOfBounds)
	}
	return a.territories[c.Row*a.cols+c.Col], nil
}

// Territories returns every territory in row-major order.
func (a *Arena) Territories() []*Territory {
	out := make([]*Territory, len(a.territories))
	copy(out, a.territories)
	return out
}

// OwnedBy returns the territories held by owner in row-major scan order:
// row ascending, then column ascending. Reinforcement remainders are handed
// out in this order, so it must not change.
func (a *Arena) OwnedBy(owner Owner) []*Territory {
	var owned []*Territory
	for _, t := range a.territories {
		if t.owner == owner {
			owned = append(owned, t)
		}
	}
	return owned
}

// TotalUnits sums the units across the whole arena.
func (a *Arena) TotalUnits() int {
	total := 0
	for _, t := range a.territories {
		total += t.units
	}
	return total
}

// Adjacent reports whether from and to are orthogonal neighbours inside the grid.
func (a *Arena) Adjacent(from, to Coordinate) bool {
	if !a.Contains(from) || !a.Contains(to) {
		return false
	}
	dr := abs(from.Row - to.Row)
	dc := abs(from.Col - to.Col)
	return dr+dc == 1
}

// holds reports whether t is one of this arena's territories.
func (a *Arena) holds(t *Territory) bool {
	if t == nil || !a.Contains(t.coord) {
		return false
	}
	return a.territories[t.coord.Row*a.cols+t.coord.Col] == t
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
