package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/1broseidon/deskwm/internal/geometry"
)

type styleID uint8

const (
	styleDesktop styleID = iota
	styleIcon
	styleIconSelected
	styleFrame
	styleFrameActive
	styleTitle
	styleTitleActive
	styleButton
	styleBody
	styleTaskbar
	styleEntry
	styleEntryActive
	styleClock
	styleHint
)

var palette = []lipgloss.Style{
	styleDesktop:      lipgloss.NewStyle().Background(lipgloss.Color("24")),
	styleIcon:         lipgloss.NewStyle().Background(lipgloss.Color("24")).Foreground(lipgloss.Color("255")),
	styleIconSelected: lipgloss.NewStyle().Background(lipgloss.Color("31")).Foreground(lipgloss.Color("15")).Bold(true),
	styleFrame:        lipgloss.NewStyle().Background(lipgloss.Color("236")).Foreground(lipgloss.Color("244")),
	styleFrameActive:  lipgloss.NewStyle().Background(lipgloss.Color("236")).Foreground(lipgloss.Color("75")),
	styleTitle:        lipgloss.NewStyle().Background(lipgloss.Color("238")).Foreground(lipgloss.Color("250")),
	styleTitleActive:  lipgloss.NewStyle().Background(lipgloss.Color("62")).Foreground(lipgloss.Color("15")).Bold(true),
	styleButton:       lipgloss.NewStyle().Background(lipgloss.Color("240")).Foreground(lipgloss.Color("15")),
	styleBody:         lipgloss.NewStyle().Background(lipgloss.Color("235")).Foreground(lipgloss.Color("252")),
	styleTaskbar:      lipgloss.NewStyle().Background(lipgloss.Color("234")).Foreground(lipgloss.Color("250")),
	styleEntry:        lipgloss.NewStyle().Background(lipgloss.Color("238")).Foreground(lipgloss.Color("250")),
	styleEntryActive:  lipgloss.NewStyle().Background(lipgloss.Color("62")).Foreground(lipgloss.Color("15")).Bold(true),
	styleClock:        lipgloss.NewStyle().Background(lipgloss.Color("234")).Foreground(lipgloss.Color("15")).Bold(true),
	styleHint:         lipgloss.NewStyle().Background(lipgloss.Color("234")).Foreground(lipgloss.Color("241")),
}

// canvas is a grid of single width runes, each with a palette style.
type canvas struct {
	width  int
	height int
	runes  [][]rune
	styles [][]styleID
}

func newCanvas(width, height int) *canvas {
	c := &canvas{width: width, height: height}
	c.runes = make([][]rune, height)
	c.styles = make([][]styleID, height)
	for y := range c.runes {
		c.runes[y] = make([]rune, width)
		c.styles[y] = make([]styleID, width)
		for x := range c.runes[y] {
			c.runes[y][x] = ' '
		}
	}
	return c
}

func (c *canvas) set(x, y int, r rune, s styleID) {
	if x < 0 || y < 0 || x >= c.width || y >= c.height {
		return
	}
	c.runes[y][x] = r
	c.styles[y][x] = s
}

// fill paints r with style s over the rect, clipped to the canvas.
func (c *canvas) fill(r geometry.Rect, ch rune, s styleID) {
	for y := r.Y; y < r.Bottom(); y++ {
		for x := r.X; x < r.Right(); x++ {
			c.set(x, y, ch, s)
		}
	}
}

// text writes str from x,y, stopping at limit (exclusive).
func (c *canvas) text(x, y, limit int, str string, s styleID) {
	for _, r := range str {
		if x >= limit {
			return
		}
		c.set(x, y, r, s)
		x++
	}
}

// render joins each row, grouping runs of the same style.
func (c *canvas) render() string {
	var b strings.Builder
	for y := 0; y < c.height; y++ {
		if y > 0 {
			b.WriteByte('\n')
		}
		start := 0
		for x := 1; x <= c.width; x++ {
			if x < c.width && c.styles[y][x] == c.styles[y][start] {
				continue
			}
			b.WriteString(palette[c.styles[y][start]].Render(string(c.runes[y][start:x])))
			start = x
		}
	}
	return b.String()
}

// plain returns the canvas text without styling.
func (c *canvas) plain() string {
	rows := make([]string, c.height)
	for y := range c.runes {
		rows[y] = string(c.runes[y])
	}
	return strings.Join(rows, "\n")
}
