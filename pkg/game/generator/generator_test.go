// Package generator tests: generated levels validate, differ from their
// target and are solved by undoing the scramble.
package generator

import (
	"errors"
	"math/rand"
	"testing"

	"fours/pkg/engine/board"
	"fours/pkg/game/level"
)

// unscramble turns grid back through steps in reverse.
func unscramble(t *testing.T, grid *board.Grid, steps []Step) {
	t.Helper()
	for i := len(steps) - 1; i >= 0; i-- {
		s := steps[i]
		group := board.GroupAt(grid, s.At.Row, s.At.Col)
		if group == nil {
			t.Fatalf("step %d: no group at %v", i, s.At)
		}
		if err := group.Permute(s.Dir.Opposite()); err != nil {
			t.Fatal(err)
		}
		grid.UpdateWithGroup(group)
	}
}

func TestGenerate_Solvable(t *testing.T) {
	for _, gen := range []LevelGenerator{Blocks, Stripes} {
		t.Run(gen.Name(), func(t *testing.T) {
			rng := rand.New(rand.NewSource(1))
			p := Params{Name: "gen", Rows: 5, Columns: 4, Colors: 3, Scramble: 6, Holes: 2}

			l, steps, err := Generate(rng, gen, p)
			if err != nil {
				t.Fatalf("Generate: %v", err)
			}
			if err := l.Validate(); err != nil {
				t.Fatalf("generated level invalid: %v", err)
			}
			if len(steps) < p.Scramble {
				t.Errorf("steps = %d, want at least %d", len(steps), p.Scramble)
			}
			if l.MovesAllowed <= l.Stars.Min {
				t.Errorf("MovesAllowed = %d, want more than the one-star threshold %d", l.MovesAllowed, l.Stars.Min)
			}

			initial, err := l.Grid(false)
			if err != nil {
				t.Fatal(err)
			}
			target, err := l.Grid(true)
			if err != nil {
				t.Fatal(err)
			}
			if initial.Snapshot() == target.Snapshot() {
				t.Fatal("initial layout already matches the target")
			}

			unscramble(t, initial, steps)
			if initial.Snapshot() != target.Snapshot() {
				t.Error("undoing the scramble does not reach the target")
			}
		})
	}
}

func TestGenerate_Deterministic(t *testing.T) {
	a, _, err := Generate(rand.New(rand.NewSource(42)), DefaultGenerator, DefaultParams)
	if err != nil {
		t.Fatal(err)
	}
	b, _, err := Generate(rand.New(rand.NewSource(42)), DefaultGenerator, DefaultParams)
	if err != nil {
		t.Fatal(err)
	}
	ya, _ := level.Marshal(a)
	yb, _ := level.Marshal(b)
	if string(ya) != string(yb) {
		t.Error("same seed produced different levels")
	}
}

func TestGenerate_MarshalsToValidYAML(t *testing.T) {
	l, _, err := Generate(rand.New(rand.NewSource(7)), Stripes, DefaultParams)
	if err != nil {
		t.Fatal(err)
	}
	data, err := level.Marshal(l)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := level.Parse(data); err != nil {
		t.Errorf("generated YAML does not parse: %v", err)
	}
}

func TestGenerate_InvalidParams(t *testing.T) {
	tests := []struct {
		name string
		p    Params
	}{
		{"too small", Params{Rows: 1, Columns: 4, Colors: 2, Scramble: 1}},
		{"one colour", Params{Rows: 3, Columns: 3, Colors: 1, Scramble: 1}},
		{"too many colours", Params{Rows: 3, Columns: 3, Colors: len(Palette) + 1, Scramble: 1}},
		{"no scramble", Params{Rows: 3, Columns: 3, Colors: 2}},
		{"too many holes", Params{Rows: 2, Columns: 2, Colors: 2, Scramble: 1, Holes: 1}},
		{"unturnable", Params{Rows: 2, Columns: 2, Colors: 2, Scramble: 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := Generate(rand.New(rand.NewSource(1)), Blocks, tt.p)
			if !errors.Is(err, ErrInvalidParams) {
				t.Errorf("err = %v, want ErrInvalidParams", err)
			}
		})
	}
}

func TestPack_RisingScramble(t *testing.T) {
	levels, err := Pack(rand.New(rand.NewSource(3)), Blocks, DefaultParams, 3)
	if err != nil {
		t.Fatal(err)
	}
	if len(levels) != 3 {
		t.Fatalf("len = %d, want 3", len(levels))
	}
	for i, l := range levels {
		if want := "Random " + string(rune('1'+i)); l.Name != want {
			t.Errorf("levels[%d].Name = %q, want %q", i, l.Name, want)
		}
	}
	if levels[2].Stars.Max < levels[0].Stars.Max {
		t.Errorf("later level has a lower par: %d < %d", levels[2].Stars.Max, levels[0].Stars.Max)
	}
}

func TestByName(t *testing.T) {
	if g, ok := ByName("stripes"); !ok || g != Stripes {
		t.Errorf("ByName(stripes) = %v, %v", g, ok)
	}
	if _, ok := ByName("maze"); ok {
		t.Error("ByName(maze) found a generator")
	}
}
