// Package progression orders the levels of a pack. Levels are played along a
// fixed line, 0 → 1 → … → final; finishing the final level ends the pack.
package progression

import (
	"errors"
	"fmt"
	"strings"

	"fours/pkg/engine/i18n"
	"fours/pkg/game/level"
)

// ErrEmptyPack is returned when a pack has no levels.
var ErrEmptyPack = errors.New("level pack is empty")

// MaxStars is the best rating a level can earn.
const MaxStars = 3

// Descriptor describes one level in the pack graph.
type Descriptor struct {
	ID          int    // 0-based level index
	Name        string // Level name
	Connections []int  // Levels unlocked by finishing this one
	Depth       int    // Distance from the first level
}

// Pack is an ordered set of levels.
type Pack struct {
	levels []*level.Level
	graph  []Descriptor
}

// NewPack builds a linear pack from levels, in order.
func NewPack(levels []*level.Level) (*Pack, error) {
	if len(levels) == 0 {
		return nil, ErrEmptyPack
	}
	p := &Pack{levels: levels, graph: make([]Descriptor, len(levels))}
	final := len(levels) - 1
	for i, l := range levels {
		conn := []int{}
		if i < final {
			conn = append(conn, i+1)
		}
		p.graph[i] = Descriptor{ID: i, Name: l.Name, Connections: conn, Depth: i}
	}
	return p, nil
}

// Builtin returns the pack of levels shipped with the game.
func Builtin() (*Pack, error) {
	levels, err := level.Builtin()
	if err != nil {
		return nil, err
	}
	return NewPack(levels)
}

// Len returns the number of levels.
func (p *Pack) Len() int {
	return len(p.levels)
}

// Level returns a copy of level id, so play never edits the pack.
func (p *Pack) Level(id int) (*level.Level, error) {
	if id < 0 || id >= len(p.levels) {
		return nil, fmt.Errorf("level %d out of range [0, %d)", id, len(p.levels))
	}
	return p.levels[id].Clone(), nil
}

// Descriptors returns the pack graph.
func (p *Pack) Descriptors() []Descriptor {
	return append([]Descriptor(nil), p.graph...)
}

// IsFinal reports whether id is the last level.
func (p *Pack) IsFinal(id int) bool {
	return id >= len(p.levels)-1
}

// NextID returns the level unlocked by finishing id, or false if id is final
// or out of range.
func (p *Pack) NextID(id int) (nextID int, ok bool) {
	if id < 0 || id >= len(p.levels) {
		return 0, false
	}
	conn := p.graph[id].Connections
	if len(conn) == 0 {
		return 0, false
	}
	return conn[0], true
}

// RatingKey returns the message key praising a finish with the given stars.
func RatingKey(stars int) string {
	switch {
	case stars >= 3:
		return "RATING_THREE"
	case stars == 2:
		return "RATING_TWO"
	case stars == 1:
		return "RATING_ONE"
	default:
		return "RATING_NONE"
	}
}

// RatingText returns the translated rating line for stars.
func RatingText(stars int) string {
	switch RatingKey(stars) {
	case "RATING_THREE":
		return i18n.T("RATING_THREE")
	case "RATING_TWO":
		return i18n.T("RATING_TWO")
	case "RATING_ONE":
		return i18n.T("RATING_ONE")
	default:
		return i18n.T("RATING_NONE")
	}
}

// StarString draws a rating as filled and empty stars, e.g. "★★☆".
func StarString(stars int) string {
	stars = max(0, min(stars, MaxStars))
	return strings.Repeat("★", stars) + strings.Repeat("☆", MaxStars-stars)
}
