package board

// Layout maps grid slots to positions in layout space. Rows grow downwards.
type Layout struct {
	Spacing float64
	Center  bool
	Offset  Point
}

// NewLayout returns a centred layout with the given spacing.
func NewLayout(spacing float64) Layout {
	if spacing <= 0 {
		spacing = 1
	}
	return Layout{Spacing: spacing, Center: true}
}

// Size returns the distance between the first and last slot on each axis.
func (l Layout) Size(rows, cols int) Point {
	if rows < 1 || cols < 1 {
		return Point{}
	}
	return Point{
		X: float64(cols-1) * l.Spacing,
		Y: float64(rows-1) * l.Spacing,
	}
}

// Start returns the position of slot (0, 0).
func (l Layout) Start(rows, cols int) Point {
	start := Point{}
	if l.Center {
		size := l.Size(rows, cols)
		start.X -= size.X / 2
		start.Y -= size.Y / 2
	}
	return Point{X: start.X + l.Offset.X, Y: start.Y + l.Offset.Y}
}

// Position returns the position of slot (row, col) in a rows x cols grid.
func (l Layout) Position(rows, cols, row, col int) Point {
	start := l.Start(rows, cols)
	return Point{
		X: start.X + float64(col)*l.Spacing,
		Y: start.Y + float64(row)*l.Spacing,
	}
}

// Arrange snaps every cell onto its slot with an identity rotation and scale.
func (l Layout) Arrange(g *Grid) {
	g.ForEachCell(func(row, col int, cell *Cell) {
		p := l.Position(g.Rows(), g.Cols(), row, col)
		cell.Transform = Transform{X: p.X, Y: p.Y, Scale: 1}
	})
}
