package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMoveUnits_Normal(t *testing.T) {
	c, players := newTestController(t, 2)
	p := players[0]
	from := own(t, c, At(1, 1), p, 4)
	to := own(t, c, At(1, 2), p, 2)

	ok, err := c.MoveUnits(2, At(1, 1), At(1, 2), p)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 2, from.Units())
	assert.Equal(t, 4, to.Units())
}

func TestMoveUnits_SourceAtMinimumGarrison(t *testing.T) {
	c, players := newTestController(t, 2)
	p := players[0]
	from := own(t, c, At(1, 1), p, 1)
	to := own(t, c, At(1, 2), p, 2)

	ok, err := c.MoveUnits(2, At(1, 1), At(1, 2), p)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, 1, from.Units())
	assert.Equal(t, 2, to.Units())
}

func TestMoveUnits_MinimumGarrison(t *testing.T) {
	tests := []struct {
		name    string
		units   int
		n       int
		allowed bool
	}{
		{"leaves one", 5, 4, true},
		{"would empty source", 5, 5, false},
		{"overdraws source", 5, 7, false},
		{"single unit", 1, 1, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, players := newTestController(t, 1)
			p := players[0]
			from := own(t, c, At(0, 0), p, tt.units)
			to := own(t, c, At(5, 5), p, 3)
			sum := from.Units() + to.Units()

			ok, err := c.MoveUnits(tt.n, At(0, 0), At(5, 5), p)
			require.NoError(t, err)
			assert.Equal(t, tt.allowed, ok)
			assert.Equal(t, sum, from.Units()+to.Units())
			if tt.allowed {
				assert.Equal(t, tt.units-tt.n, from.Units())
			} else {
				assert.Equal(t, tt.units, from.Units())
				assert.Equal(t, 3, to.Units())
			}
		})
	}
}

func TestMoveUnits_Rejections(t *testing.T) {
	c, players := newTestController(t, 2)
	p, other := players[0], players[1]
	own(t, c, At(0, 0), p, 6)
	own(t, c, At(0, 1), p, 2)
	own(t, c, At(0, 2), other, 3)

	tests := []struct {
		name     string
		n        int
		from, to Coordinate
		player   *Player
	}{
		{"zero units", 0, At(0, 0), At(0, 1), p},
		{"negative units", -3, At(0, 0), At(0, 1), p},
		{"destination not owned", 2, At(0, 0), At(0, 2), p},
		{"destination neutral", 2, At(0, 0), At(4, 4), p},
		{"source not owned", 1, At(0, 2), At(0, 1), p},
		{"wrong actor", 2, At(0, 0), At(0, 1), other},
		{"nil actor", 2, At(0, 0), At(0, 1), nil},
		{"same territory", 2, At(0, 0), At(0, 0), p},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := c.Snapshot()
			ok, err := c.MoveUnits(tt.n, tt.from, tt.to, tt.player)
			require.NoError(t, err)
			assert.False(t, ok)
			assert.Equal(t, before, c.Snapshot())
		})
	}
}

func TestMoveUnits_OutOfBounds(t *testing.T) {
	c, players := newTestController(t, 1)
	p := players[0]
	own(t, c, At(0, 0), p, 5)

	ok, err := c.MoveUnits(1, At(0, 0), At(11, 0), p)
	assert.False(t, ok)
	assert.ErrorIs(t, err, ErrOutOfBounds)

	ok, err = c.MoveUnits(1, At(-1, 0), At(0, 0), p)
	assert.False(t, ok)
	assert.ErrorIs(t, err, ErrOutOfBounds)

	terr, _ := c.Arena().TerritoryAt(At(0, 0))
	assert.Equal(t, 5, terr.Units())
}

func TestMoveUnits_IgnoresAdjacencyByDefault(t *testing.T) {
	c, players := newTestController(t, 1)
	p := players[0]
	own(t, c, At(0, 0), p, 5)
	own(t, c, At(10, 10), p, 1)

	ok, err := c.MoveUnits(3, At(0, 0), At(10, 10), p)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestMoveUnits_AdjacentOnlyPolicy(t *testing.T) {
	c, players := newTestController(t, 1, WithAdjacentMovesOnly())
	p := players[0]
	own(t, c, At(0, 0), p, 5)
	own(t, c, At(0, 1), p, 1)
	own(t, c, At(10, 10), p, 1)

	ok, err := c.MoveUnits(2, At(0, 0), At(10, 10), p)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = c.MoveUnits(2, At(0, 0), At(0, 1), p)
	require.NoError(t, err)
	assert.True(t, ok)
}
