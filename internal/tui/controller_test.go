package tui

import (
	"errors"
	"fmt"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"

	"github.com/jask/rowmark/internal/document"
	"github.com/jask/rowmark/internal/selection"
)

var (
	keyUp      = tea.KeyMsg{Type: tea.KeyUp}
	keyDown    = tea.KeyMsg{Type: tea.KeyDown}
	keySpace   = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	keyCtrlSp  = tea.KeyMsg{Type: tea.KeyCtrlAt}
	keyShiftSp = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'S'}}
)

func newDoc(n int) *document.Document {
	c := document.NewContainer([]string{"name", "qty"})
	for i := 0; i < n; i++ {
		c.Append(document.NewRow(fmt.Sprintf("item-%d", i), fmt.Sprint(i)))
	}
	doc := document.New()
	doc.Add("rows", c)
	return doc
}

func newController(t *testing.T, n int, opts ...Option) (*Controller, *document.Container) {
	t.Helper()
	doc := newDoc(n)
	c := New(doc, "rows", "selected", "marked", opts...)
	return c, doc.Container("rows")
}

func press(c *Controller, msgs ...tea.Msg) {
	for _, m := range msgs {
		c.Update(m)
	}
}

func markedSet(c *document.Container) []int {
	var out []int
	for i, r := range c.Rows() {
		if r.Labels.Has("marked") {
			out = append(out, i)
		}
	}
	return out
}

func selectedSet(c *document.Container) []int {
	var out []int
	for i, r := range c.Rows() {
		if r.Labels.Has("selected") {
			out = append(out, i)
		}
	}
	return out
}

func requireRowsMatchState(t *testing.T, ctl *Controller, cont *document.Container) {
	t.Helper()
	if ctl.Len() == 0 {
		require.Empty(t, selectedSet(cont))
		return
	}
	require.Equal(t, []int{ctl.Selected()}, selectedSet(cont))
	for i, r := range cont.Rows() {
		v, ok := r.Data(document.DataMarked)
		require.True(t, ok)
		require.Equal(t, fmt.Sprint(ctl.IsMarked(i)), v, "row %d marked data", i)
		require.Equal(t, ctl.IsMarked(i), r.Labels.Has("marked"), "row %d marked label", i)
	}
}

func TestNewNormalizesRows(t *testing.T) {
	doc := newDoc(3)
	cont := doc.Container("rows")
	for _, r := range cont.Rows() {
		r.Labels.Add("selected", "marked", "keep")
		r.SetData(document.DataMarked, "true")
	}

	c := New(doc, "rows", "selected", "marked")
	require.Equal(t, 0, c.Selected())
	require.Equal(t, -1, c.Anchor())
	require.Equal(t, []int{0}, selectedSet(cont))
	require.Empty(t, markedSet(cont))
	for i, r := range cont.Rows() {
		idx, ok := r.Data(document.DataIndex)
		require.True(t, ok)
		require.Equal(t, fmt.Sprint(i), idx)
		require.True(t, r.Labels.Has("keep"), "unrelated labels survive")
	}
}

func TestKeyboardScenario(t *testing.T) {
	c, cont := newController(t, 5)

	press(c, keyDown)
	require.Equal(t, 1, c.Selected())

	press(c, keyCtrlSp)
	require.Equal(t, []int{1}, markedSet(cont))
	require.Equal(t, 1, c.Anchor())

	press(c, keyDown, keyDown)
	require.Equal(t, 3, c.Selected())

	press(c, keyShiftSp)
	require.Equal(t, []int{1, 2, 3}, markedSet(cont))
	require.Equal(t, 3, c.Anchor())

	press(c, keySpace)
	require.Equal(t, []int{3}, markedSet(cont))
	requireRowsMatchState(t, c, cont)
}

func TestNavigateClampsAndKeepsSingleSelectedLabel(t *testing.T) {
	c, cont := newController(t, 3)
	seq := []tea.Msg{keyUp, keyDown, keyDown, keyDown, keyDown, keyUp, keyUp, keyUp, keyUp}
	for _, m := range seq {
		press(c, m)
		require.GreaterOrEqual(t, c.Selected(), 0)
		require.Less(t, c.Selected(), 3)
		requireRowsMatchState(t, c, cont)
	}
	require.Equal(t, 0, c.Selected())
}

func TestNavigateEmitsSelectionChanged(t *testing.T) {
	c, cont := newController(t, 2)
	cmd := c.Navigate(selection.Down)
	require.NotNil(t, cmd)
	msg, ok := cmd().(SelectionChangedMsg)
	require.True(t, ok)
	require.Equal(t, 1, msg.Index)
	require.Equal(t, cont.Row(1).ID, msg.Row)

	require.Nil(t, c.Navigate(selection.Down), "no message when clamped")
}

func TestMarkEmitsMarksChanged(t *testing.T) {
	c, cont := newController(t, 3)
	cmd := c.Mark(selection.Toggle)
	require.NotNil(t, cmd)
	msg, ok := cmd().(MarksChangedMsg)
	require.True(t, ok)
	require.Equal(t, []int{0}, msg.Indices)
	require.Equal(t, cont.Row(0).ID, msg.Rows[0])
}

func TestClickWithoutModifiersMarksOnlyThatRow(t *testing.T) {
	c, cont := newController(t, 5)
	c.Mark(selection.Toggle)

	c.click(cont.Row(4), selection.ModeFor(selection.Modifiers{}))
	require.Equal(t, 4, c.Selected())
	require.Equal(t, []int{4}, markedSet(cont))
	requireRowsMatchState(t, c, cont)
}

func TestClickWithModifiers(t *testing.T) {
	c, cont := newController(t, 6)

	c.click(cont.Row(1), selection.ModeFor(selection.Modifiers{Ctrl: true}))
	c.click(cont.Row(4), selection.ModeFor(selection.Modifiers{Meta: true}))
	require.Equal(t, []int{1, 4}, markedSet(cont))

	c.click(cont.Row(2), selection.ModeFor(selection.Modifiers{Shift: true}))
	require.Equal(t, []int{1, 2, 3, 4}, markedSet(cont))
	require.Equal(t, 2, c.Anchor())
}

func TestSelectRowIgnoresForeignAndMalformedRows(t *testing.T) {
	c, cont := newController(t, 3)

	require.Nil(t, c.SelectRow(document.NewRow("stranger")))

	bad := cont.Row(2)
	bad.SetData(document.DataIndex, "two")
	require.Nil(t, c.SelectRow(bad))

	other := cont.Row(1)
	other.SetData(document.DataIndex, "2")
	require.Nil(t, c.SelectRow(other), "index pointing at a different row is ignored")

	require.Nil(t, c.SelectRow(nil))
	require.Equal(t, 0, c.Selected())
	require.Empty(t, markedSet(cont))
}

func TestEmptyTableIsInert(t *testing.T) {
	c, cont := newController(t, 0)
	press(c, keyDown, keyUp, keySpace, keyCtrlSp, keyShiftSp)
	require.Nil(t, c.SelectedRow())
	require.Empty(t, c.MarkedRows())
	require.Zero(t, cont.Len())
	require.Contains(t, c.View(), "no rows")
}

func TestMissingContainerIsInert(t *testing.T) {
	c := New(document.New(), "nope", "selected", "marked")
	require.Zero(t, c.Len())
	require.Nil(t, c.Mark(selection.Single))
	require.Nil(t, c.Navigate(selection.Down))
	handled, _ := c.HandleInput(tea.MouseMsg{Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	require.False(t, handled)
}

func TestMultipleLabelsAndSharedLabel(t *testing.T) {
	doc := newDoc(3)
	cont := doc.Container("rows")
	c := New(doc, "rows", "selected bold", "marked bold")

	require.True(t, cont.Row(0).Labels.HasAll("selected", "bold"))
	require.False(t, cont.Row(1).Labels.Has("bold"))

	c.Mark(selection.Toggle)
	press(c, keyDown)
	require.True(t, cont.Row(0).Labels.HasAll("marked", "bold"))
	require.False(t, cont.Row(0).Labels.Has("selected"))
	require.True(t, cont.Row(1).Labels.HasAll("selected", "bold"))

	press(c, keyUp, keyCtrlSp)
	require.True(t, cont.Row(0).Labels.HasAll("selected", "bold"), "shared label stays while row is still selected")
	require.False(t, cont.Row(0).Labels.Has("marked"))
}

func TestScrollIntoViewOnlyWhenNeeded(t *testing.T) {
	c, _ := newController(t, 10, WithHeight(3))
	require.Equal(t, 0, c.Top())

	press(c, keyDown, keyDown)
	require.Equal(t, 0, c.Top(), "row 2 already visible")

	press(c, keyDown)
	require.Equal(t, 1, c.Top())

	press(c, keyUp, keyUp)
	require.Equal(t, 1, c.Top(), "row 1 already visible")

	press(c, keyUp)
	require.Equal(t, 0, c.Top())

	c.SelectRow(c.rows[9])
	require.Equal(t, 7, c.Top())
}

func TestResizeFollowsWindow(t *testing.T) {
	c, _ := newController(t, 50)
	c.Update(tea.WindowSizeMsg{Width: 40, Height: 13})
	// header, status and help take three lines
	require.Equal(t, 10, c.visibleRows())

	c.ToggleHelp()
	require.Equal(t, 11, c.visibleRows())
}

func TestUnboundKeysAreNotConsumed(t *testing.T) {
	c, _ := newController(t, 2)
	handled, cmd := c.HandleInput(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'z'}})
	require.False(t, handled)
	require.Nil(t, cmd)

	handled, _ = c.HandleInput(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	require.False(t, handled, "quit belongs to the embedding model")

	handled, _ = c.HandleInput(keyDown)
	require.True(t, handled)
}

func TestYankCopiesMarkedRows(t *testing.T) {
	var got string
	prev := clipboardWrite
	clipboardWrite = func(s string) error { got = s; return nil }
	t.Cleanup(func() { clipboardWrite = prev })

	c, _ := newController(t, 3)
	press(c, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'y'}})
	require.Equal(t, "item-0\t0", got)
	require.Equal(t, "Copied 1 row.", c.Status())

	c.Mark(selection.Toggle)
	press(c, keyDown, keyDown, keyShiftSp)
	press(c, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'y'}})
	require.Equal(t, "item-0\t0\nitem-1\t1\nitem-2\t2", got)
	require.Equal(t, "Copied 3 rows.", c.Status())
}

func TestYankReportsClipboardError(t *testing.T) {
	prev := clipboardWrite
	clipboardWrite = func(string) error { return errors.New("no clipboard") }
	t.Cleanup(func() { clipboardWrite = prev })

	c, _ := newController(t, 1)
	press(c, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'y'}})
	require.Contains(t, c.Status(), "no clipboard")
}

func TestClearMarks(t *testing.T) {
	c, cont := newController(t, 3)
	c.Mark(selection.Toggle)
	press(c, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'u'}})
	require.Empty(t, markedSet(cont))
	require.Equal(t, -1, c.Anchor())
	require.Nil(t, c.ClearMarks())
}

func TestMouseClickResolvesRowZone(t *testing.T) {
	c, cont := newController(t, 4)
	defer c.zone.Close()

	click := tea.MouseMsg{X: 4, Y: 3, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft, Ctrl: true}
	require.Eventually(t, func() bool {
		_ = c.View()
		return c.rowAt(click) != nil
	}, 2*time.Second, 10*time.Millisecond)

	handled, _ := c.HandleInput(click)
	require.True(t, handled)
	// line 0 is the header, so y=3 is row 2
	require.Equal(t, 2, c.Selected())
	require.Equal(t, []int{2}, markedSet(cont))

	miss := tea.MouseMsg{X: 4, Y: 40, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft}
	handled, _ = c.HandleInput(miss)
	require.False(t, handled)
	require.Equal(t, 2, c.Selected())
}

func TestMouseWheelNavigates(t *testing.T) {
	c, _ := newController(t, 3)
	press(c, tea.MouseMsg{Action: tea.MouseActionPress, Button: tea.MouseButtonWheelDown})
	require.Equal(t, 1, c.Selected())
	press(c, tea.MouseMsg{Action: tea.MouseActionPress, Button: tea.MouseButtonWheelUp})
	require.Equal(t, 0, c.Selected())
}
