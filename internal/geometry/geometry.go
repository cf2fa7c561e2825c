package geometry

// Default minimum window dimensions.
const (
	DefaultMinWidth      = 300
	DefaultMinHeight     = 200
	DefaultTaskbarHeight = 30
)

// Point is a pointer position in viewport coordinates.
type Point struct {
	X int `json:"x" yaml:"x"`
	Y int `json:"y" yaml:"y"`
}

// Sub returns p - q.
func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y}
}

// Rect represents a window position and size.
type Rect struct {
	X      int `json:"x" yaml:"x"`
	Y      int `json:"y" yaml:"y"`
	Width  int `json:"width" yaml:"width"`
	Height int `json:"height" yaml:"height"`
}

// TopLeft returns the origin corner of the rect.
func (r Rect) TopLeft() Point {
	return Point{X: r.X, Y: r.Y}
}

// Right returns the x coordinate just past the right edge.
func (r Rect) Right() int {
	return r.X + r.Width
}

// Bottom returns the y coordinate just past the bottom edge.
func (r Rect) Bottom() int {
	return r.Y + r.Height
}

// Contains reports whether p lies inside the rect (right/bottom exclusive).
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X < r.Right() && p.Y >= r.Y && p.Y < r.Bottom()
}

// IsZero reports whether the rect has no area and no origin.
func (r Rect) IsZero() bool {
	return r == Rect{}
}

// Viewport describes the desktop surface. TaskbarHeight is the strip reserved
// at the bottom that windows may never cover.
type Viewport struct {
	Width         int `json:"width"`
	Height        int `json:"height"`
	TaskbarHeight int `json:"taskbar_height"`
}

// Usable returns the area windows may occupy.
func (v Viewport) Usable() Rect {
	h := v.Height - v.TaskbarHeight
	if h < 0 {
		h = 0
	}
	return Rect{X: 0, Y: 0, Width: v.Width, Height: h}
}

// Taskbar returns the reserved strip at the bottom of the viewport.
func (v Viewport) Taskbar() Rect {
	return Rect{X: 0, Y: v.Height - v.TaskbarHeight, Width: v.Width, Height: v.TaskbarHeight}
}

// Limits holds the minimum window dimensions.
type Limits struct {
	MinWidth  int `json:"min_width"`
	MinHeight int `json:"min_height"`
}

// DefaultLimits returns the 300x200 minimum.
func DefaultLimits() Limits {
	return Limits{MinWidth: DefaultMinWidth, MinHeight: DefaultMinHeight}
}

// CascadeRule controls where newly opened windows are placed.
type CascadeRule struct {
	Origin int `json:"origin" yaml:"origin"`
	Step   int `json:"step" yaml:"step"`
	Width  int `json:"width" yaml:"width"`
	Height int `json:"height" yaml:"height"`
}

// DefaultCascade returns the 50px origin, 30px stagger, 850x600 placement.
func DefaultCascade() CascadeRule {
	return CascadeRule{Origin: 50, Step: 30, Width: 850, Height: 600}
}

// Cascade returns the default geometry for a window opened while k others are visible.
func Cascade(k int, c CascadeRule) Rect {
	offset := c.Origin + c.Step*k
	return Rect{X: offset, Y: offset, Width: c.Width, Height: c.Height}
}

// Maximized returns the full-viewport geometry above the taskbar.
func Maximized(vp Viewport) Rect {
	return vp.Usable()
}
