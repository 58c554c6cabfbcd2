package selection

// Direction is a navigation step through the rows.
type Direction int

const (
	Up Direction = iota
	Down
)

func (d Direction) String() string {
	switch d {
	case Up:
		return "up"
	case Down:
		return "down"
	default:
		return "unknown"
	}
}

// Mode controls how Mark treats the selected row and its neighbours.
type Mode int

const (
	Single Mode = iota
	Toggle
	Range
)

func (m Mode) String() string {
	switch m {
	case Single:
		return "single"
	case Toggle:
		return "toggle"
	case Range:
		return "range"
	default:
		return "unknown"
	}
}

// Modifiers is the modifier key state captured with an input event.
type Modifiers struct {
	Shift bool
	Ctrl  bool
	Meta  bool
}

// ModeFor picks the mark mode for a modifier state. Shift wins over ctrl/meta.
func ModeFor(mods Modifiers) Mode {
	switch {
	case mods.Shift:
		return Range
	case mods.Ctrl || mods.Meta:
		return Toggle
	default:
		return Single
	}
}

const noAnchor = -1

// State holds the selected row, the range anchor and the marked flags for a
// fixed number of rows.
type State struct {
	selected int
	anchor   int
	marked   []bool
}

// New returns the initial state for count rows: row 0 selected, nothing
// marked, no anchor.
func New(count int) *State {
	if count < 0 {
		count = 0
	}
	return &State{
		selected: 0,
		anchor:   noAnchor,
		marked:   make([]bool, count),
	}
}

func (s *State) Len() int {
	if s == nil {
		return 0
	}
	return len(s.marked)
}

// Selected returns the selected index. It is 0 for an empty table; check
// HasSelection before treating it as a row.
func (s *State) Selected() int {
	if s == nil {
		return 0
	}
	return s.selected
}

func (s *State) HasSelection() bool {
	return s.Len() > 0
}

// Anchor returns the range anchor, or -1 when there is none.
func (s *State) Anchor() int {
	if s == nil {
		return noAnchor
	}
	return s.anchor
}

func (s *State) HasAnchor() bool {
	return s.Anchor() != noAnchor
}

func (s *State) valid(index int) bool {
	return index >= 0 && index < s.Len()
}

func (s *State) IsMarked(index int) bool {
	if !s.valid(index) {
		return false
	}
	return s.marked[index]
}

// MarkedIndices returns the marked rows in ascending order.
func (s *State) MarkedIndices() []int {
	if s == nil {
		return nil
	}
	out := make([]int, 0, len(s.marked))
	for i, m := range s.marked {
		if m {
			out = append(out, i)
		}
	}
	return out
}

func (s *State) MarkedCount() int {
	n := 0
	if s == nil {
		return n
	}
	for _, m := range s.marked {
		if m {
			n++
		}
	}
	return n
}

// Navigate moves the selection one row, clamped to the table bounds. It
// reports whether the selection changed.
func (s *State) Navigate(dir Direction) bool {
	if s.Len() == 0 {
		return false
	}
	next := s.selected
	switch dir {
	case Up:
		next--
	case Down:
		next++
	default:
		return false
	}
	if next < 0 {
		next = 0
	}
	if next > s.Len()-1 {
		next = s.Len() - 1
	}
	if next == s.selected {
		return false
	}
	s.selected = next
	return true
}

// Select moves the selection to index. Out of range indices are ignored.
func (s *State) Select(index int) bool {
	if !s.valid(index) {
		return false
	}
	s.selected = index
	return true
}

// Toggle flips the marked flag of one row and reports the new value. An out
// of range index leaves the state untouched.
func (s *State) Toggle(index int) (marked bool, ok bool) {
	if !s.valid(index) {
		return false, false
	}
	s.marked[index] = !s.marked[index]
	return s.marked[index], true
}

// SetMarked forces the marked flag of one row.
func (s *State) SetMarked(index int, v bool) bool {
	if !s.valid(index) {
		return false
	}
	s.marked[index] = v
	return true
}

// ClearMarks unmarks every row and drops the anchor.
func (s *State) ClearMarks() {
	if s == nil {
		return
	}
	for i := range s.marked {
		s.marked[i] = false
	}
	s.anchor = noAnchor
}

// Mark applies mode to the selected row. With no rows it does nothing.
func (s *State) Mark(mode Mode) {
	if s.Len() == 0 {
		return
	}
	switch mode {
	case Single:
		for i := range s.marked {
			s.marked[i] = false
		}
		s.toggleSelected()
	case Toggle:
		s.toggleSelected()
	case Range:
		if s.anchor == noAnchor {
			s.toggleSelected()
			return
		}
		start, end := s.anchor, s.selected
		if start > end {
			start, end = end, start
		}
		for i := start; i <= end; i++ {
			s.SetMarked(i, true)
		}
		s.anchor = s.selected
	}
}

// toggleSelected flips the selected row. Marking it makes it the anchor;
// unmarking clears the anchor rather than restoring an earlier one.
func (s *State) toggleSelected() {
	marked, ok := s.Toggle(s.selected)
	if !ok {
		return
	}
	if marked {
		s.anchor = s.selected
	} else {
		s.anchor = noAnchor
	}
}
