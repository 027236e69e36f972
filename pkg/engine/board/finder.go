package board

import "math"

// FindGroups scans grid row-major and returns every valid 2x2 group.
// Groups overlap: an interior cell belongs to up to four of them.
func FindGroups(grid *Grid) []*Group {
	if grid == nil {
		return nil
	}

	var groups []*Group
	for row := 0; row < grid.Rows()-1; row++ {
		for col := 0; col < grid.Cols()-1; col++ {
			if group := GroupAt(grid, row, col); group != nil {
				groups = append(groups, group)
			}
		}
	}
	return groups
}

// PickGroup returns the group whose centre is nearest to p, provided it lies
// within radius. Returns nil when none does.
func PickGroup(groups []*Group, p Point, radius float64) *Group {
	var best *Group
	bestDist := math.Inf(1)
	for _, g := range groups {
		d := math.Hypot(g.Center.X-p.X, g.Center.Y-p.Y)
		if d <= radius && d < bestDist {
			best, bestDist = g, d
		}
	}
	return best
}

// FindByTopLeft returns the group anchored at idx, or nil.
func FindByTopLeft(groups []*Group, idx Index) *Group {
	for _, g := range groups {
		if g.TopLeftIndex == idx {
			return g
		}
	}
	return nil
}
