package geometry

// ApplyResize moves the edges selected by edge by the pointer delta, starting
// from the bounds captured when the resize began.
func ApplyResize(start Rect, edge Edge, dx, dy int) Rect {
	r := start
	if edge.Has(EdgeEast) {
		r.Width += dx
	}
	if edge.Has(EdgeWest) {
		r.X += dx
		r.Width -= dx
	}
	if edge.Has(EdgeSouth) {
		r.Height += dy
	}
	if edge.Has(EdgeNorth) {
		r.Y += dy
		r.Height -= dy
	}
	return r
}

// ClampSize enforces the minimum dimensions. When the resize moves the west
// or north edge, the opposite edge stays where it was at resize start instead
// of the moving edge overshooting.
func ClampSize(proposed, start Rect, edge Edge, lim Limits) Rect {
	r := proposed
	if r.Width < lim.MinWidth {
		if edge.Has(EdgeWest) {
			r.X = start.X + start.Width - lim.MinWidth
		}
		r.Width = lim.MinWidth
	}
	if r.Height < lim.MinHeight {
		if edge.Has(EdgeNorth) {
			r.Y = start.Y + start.Height - lim.MinHeight
		}
		r.Height = lim.MinHeight
	}
	return r
}

// ClampPosition keeps the whole box inside the viewport above the taskbar.
// A box larger than the viewport is pinned to the origin.
func ClampPosition(r Rect, vp Viewport) Rect {
	r.X = clampInt(r.X, 0, vp.Width-r.Width)
	r.Y = clampInt(r.Y, 0, vp.Height-r.Height-vp.TaskbarHeight)
	return r
}

// clampInt applies max(lo, min(v, hi)); lo wins when hi < lo.
func clampInt(v, lo, hi int) int {
	if v > hi {
		v = hi
	}
	if v < lo {
		v = lo
	}
	return v
}
