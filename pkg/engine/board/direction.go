package board

// Direction is the sense of a quarter turn.
type Direction int

// Direction constants. The values are the sign of the rotation angle.
const (
	CounterClockwise Direction = -1
	Clockwise        Direction = 1
)

// AllDirections returns both rotation directions for iteration
func AllDirections() []Direction {
	return []Direction{Clockwise, CounterClockwise}
}

// String returns the string representation of a direction
func (d Direction) String() string {
	switch d {
	case Clockwise:
		return "Clockwise"
	case CounterClockwise:
		return "CounterClockwise"
	default:
		return "Unknown"
	}
}

// IsValid returns true if the direction is one of the two rotation senses
func (d Direction) IsValid() bool {
	return d == Clockwise || d == CounterClockwise
}

// Opposite returns the inverse rotation
func (d Direction) Opposite() Direction {
	switch d {
	case Clockwise:
		return CounterClockwise
	case CounterClockwise:
		return Clockwise
	default:
		return d
	}
}

// Degrees returns the signed angle of a quarter turn in this direction.
func (d Direction) Degrees() float64 {
	return 90 * float64(d)
}
