package desktop

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/1broseidon/deskwm/internal/geometry"
)

func countActive(s *State) int {
	n := 0
	for _, w := range s.Windows() {
		if w.Active {
			n++
		}
	}
	return n
}

func TestState_AddRegistersWindowAndTaskbarEntry(t *testing.T) {
	s := NewState(DefaultFocusBase)
	require.True(t, s.Add("calc", "Calculator", geometry.Rect{X: 50, Y: 50, Width: 850, Height: 600}))
	assert.False(t, s.Add("calc", "Calculator", geometry.Rect{}), "duplicate add must be rejected")

	tb := s.Taskbar()
	require.Len(t, tb, 1)
	assert.Equal(t, TaskbarEntry{WindowID: "calc", Label: "Calculator"}, tb[0])
	assert.Equal(t, 1, s.VisibleCount())
}

func TestState_StampKeepsSingleActive(t *testing.T) {
	s := NewState(DefaultFocusBase)
	s.Add("a", "A", geometry.Rect{})
	s.Add("b", "B", geometry.Rect{})
	s.Add("c", "C", geometry.Rect{})

	for _, id := range []string{"a", "b", "c", "a", "a", "b"} {
		_, ok := s.Stamp(id)
		require.True(t, ok)
		assert.Equal(t, 1, countActive(s))
		assert.Equal(t, id, s.ActiveID())

		top := s.Windows()[len(s.Windows())-1]
		assert.Equal(t, id, top.ID, "focused window must paint last")
		for _, e := range s.Taskbar() {
			assert.Equal(t, e.WindowID == id, e.Active)
		}
	}
	assert.Equal(t, DefaultFocusBase+6, s.Counter())
}

func TestState_RemoveClearsActiveWithoutPromotion(t *testing.T) {
	s := NewState(DefaultFocusBase)
	s.Add("a", "A", geometry.Rect{})
	s.Add("b", "B", geometry.Rect{})
	s.Stamp("a")
	s.Stamp("b")

	require.True(t, s.Remove("b"))
	assert.Equal(t, "", s.ActiveID())
	assert.Equal(t, 0, countActive(s))
	assert.Len(t, s.Taskbar(), 1)
	assert.False(t, s.Remove("b"))
}

func TestState_UnknownIDsAreNoOps(t *testing.T) {
	s := NewState(DefaultFocusBase)
	_, ok := s.Stamp("ghost")
	assert.False(t, ok)
	assert.False(t, s.SetBounds("ghost", geometry.Rect{}))
	assert.False(t, s.SetVisibility("ghost", Visible))
	assert.False(t, s.SetTaskbarActive("ghost", true))
	assert.Equal(t, DefaultFocusBase, s.Counter())
}

func TestVisibilityText(t *testing.T) {
	for _, v := range []Visibility{Closed, Visible, Minimized} {
		text, err := v.MarshalText()
		require.NoError(t, err)
		var got Visibility
		require.NoError(t, got.UnmarshalText(text))
		assert.Equal(t, v, got)
	}
}
