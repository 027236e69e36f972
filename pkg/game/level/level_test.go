package level

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const twoByThree = `name: Small
rows: 2
columns: 3
initial:
  - {row: 0, col: 0, color: "#ff0000"}
  - {row: 0, col: 1, color: "#00ff00"}
  - {row: 1, col: 0, color: "#0000ff"}
  - {row: 1, col: 1, color: "#ffff00"}
target:
  - {row: 0, col: 0, color: "#0000ff"}
  - {row: 0, col: 1, color: "#ff0000"}
  - {row: 1, col: 0, color: "#ffff00"}
  - {row: 1, col: 1, color: "#00ff00"}
`

func square(row, col int, color string) Square {
	return Square{Row: row, Col: col, Color: color}
}

func validLevel() *Level {
	return &Level{
		Name: "valid", Rows: 2, Columns: 2, MovesAllowed: 3,
		Stars:   Stars{Max: 1, Mid: 2, Min: 3},
		Initial: []Square{square(0, 0, "#ff0000"), square(0, 1, "#00ff00"), square(1, 0, "#ff0000"), square(1, 1, "#00ff00")},
		Target:  []Square{square(0, 0, "#00ff00"), square(0, 1, "#00ff00"), square(1, 0, "#ff0000"), square(1, 1, "#ff0000")},
	}
}

func TestParse_AppliesDefaults(t *testing.T) {
	l, err := Parse([]byte(twoByThree))
	require.NoError(t, err)

	assert.Equal(t, "Small", l.Name)
	assert.Equal(t, DefaultMovesAllowed, l.MovesAllowed)
	assert.Equal(t, Stars{Max: DefaultMaxStars, Mid: DefaultMidStars, Min: DefaultMinStars}, l.Stars)
	assert.Equal(t, 4, l.ActiveCount())
}

func TestParse_UnknownField(t *testing.T) {
	_, err := Parse([]byte(twoByThree + "speed: 3\n"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidLevel))
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(l *Level)
		want   string
	}{
		{"valid", func(*Level) {}, ""},
		{"too small", func(l *Level) { l.Rows = 1 }, "at least 2x2"},
		{"no moves", func(l *Level) { l.MovesAllowed = 0 }, "moves_allowed"},
		{"thresholds out of order", func(l *Level) { l.Stars.Mid = 0 }, "star thresholds"},
		{"no initial", func(l *Level) { l.Initial = nil }, "no initial squares"},
		{"outside grid", func(l *Level) { l.Initial[3].Col = 5 }, "outside 2x2 grid"},
		{"duplicate", func(l *Level) { l.Target[3] = square(1, 0, "#ff0000") }, "given twice"},
		{"bad colour", func(l *Level) { l.Initial[0].Color = "red" }, "bad colour"},
		{"inactive differs", func(l *Level) { l.Target[0].Inactive = true }, "inactive squares differ"},
		{"colour count differs", func(l *Level) { l.Target[0].Color = "#ff0000" }, "count differs"},
		{"empty target", func(l *Level) { l.Target = nil }, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := validLevel()
			tt.modify(l)
			err := l.Validate()
			if tt.want == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidLevel)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestStarsFor(t *testing.T) {
	l := validLevel()
	for moves, want := range map[int]int{0: 3, 1: 3, 2: 2, 3: 1, 4: 0} {
		assert.Equal(t, want, l.StarsFor(moves), "moves %d", moves)
	}
}

func TestGrid_FillsInactive(t *testing.T) {
	l, err := Parse([]byte(twoByThree))
	require.NoError(t, err)

	g, err := l.Grid(false)
	require.NoError(t, err)
	assert.Equal(t, 2, g.Rows())
	assert.Equal(t, 3, g.Cols())
	assert.False(t, g.Get(0, 2).Active())
	assert.Equal(t, InactiveColor, g.Get(1, 2).Color)
	assert.True(t, g.IsValidGroupAt(0, 0))
	assert.False(t, g.IsValidGroupAt(0, 1))

	target, err := l.Grid(true)
	require.NoError(t, err)
	assert.Equal(t, "#0000ff", target.Get(0, 0).Color)
}

func TestFillWithInactive(t *testing.T) {
	l := &Level{Rows: 2, Columns: 2, Initial: []Square{square(0, 0, "#ff0000")}}
	l.FillWithInactive()
	assert.Len(t, l.Initial, 4)
	assert.Len(t, l.Target, 4)
	assert.Equal(t, 1, l.ActiveCount())
}

func TestClone_Independent(t *testing.T) {
	l := validLevel()
	c := l.Clone()
	c.Initial[0].Color = "#000000"
	assert.Equal(t, "#ff0000", l.Initial[0].Color)
}

func TestMarshal_Parses(t *testing.T) {
	data, err := Marshal(validLevel())
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "name: valid\n"), string(data))

	l, err := Parse(data)
	require.NoError(t, err)
	assert.Equal(t, validLevel(), l)
}

func TestBuiltin(t *testing.T) {
	levels, err := Builtin()
	require.NoError(t, err)
	require.Len(t, levels, 3)
	assert.Equal(t, "First Turn", levels[0].Name)
	for _, l := range levels {
		assert.NoError(t, l.Validate(), l.Name)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load("does-not-exist.yaml")
	assert.Error(t, err)
}
