package navigation

// IndexStrip is the row of page buttons shown beside the swipe surface.
// It shows Size consecutive pages starting at First.
type IndexStrip struct {
	pageCount int
	size      int
	first     int
}

// NewIndexStrip creates a strip of size buttons over pageCount pages,
// scrolled to the first page.
func NewIndexStrip(pageCount, size int) *IndexStrip {
	return &IndexStrip{
		pageCount: max(pageCount, 0),
		size:      max(size, 1),
	}
}

// First is the index of the leftmost visible button.
func (s *IndexStrip) First() int {
	return s.first
}

// Visible lists the page indices currently shown.
func (s *IndexStrip) Visible() []int {
	last := min(s.first+s.size, s.pageCount)
	visible := make([]int, 0, last-s.first)
	for i := s.first; i < last; i++ {
		visible = append(visible, i)
	}
	return visible
}

// Contains reports whether the button for index is visible.
func (s *IndexStrip) Contains(index int) bool {
	return index >= s.first && index < s.first+s.size && index < s.pageCount
}

// ScrollTo makes index the first visible button, or scrolls as far as the
// strip allows when index is near the end.
func (s *IndexStrip) ScrollTo(index int) {
	end := max(s.pageCount-s.size, 0)
	s.first = max(0, min(index, end))
}

// Follow is a Listener that keeps the current page visible.
func (s *IndexStrip) Follow(c Change) {
	s.ScrollTo(c.Current)
}
