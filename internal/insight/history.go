package insight

// HistoryCapacity is the default number of previously viewed nodes kept.
const HistoryCapacity = 30

// History is the navigation stack of the detail panel. It holds the current
// node separately from the stack of previously viewed ones.
type History struct {
	capacity int
	stack    []string
	current  string
}

// NewHistory returns an empty history. A non-positive capacity uses
// HistoryCapacity.
func NewHistory(capacity int) *History {
	if capacity <= 0 {
		capacity = HistoryCapacity
	}
	return &History{capacity: capacity}
}

// View makes id current, pushing the previous current node when it differs.
// When the stack is full the oldest entry is dropped.
func (h *History) View(id string) {
	if h.current != "" && h.current != id {
		if len(h.stack) == h.capacity {
			h.stack = append(h.stack[:0], h.stack[1:]...)
		}
		h.stack = append(h.stack, h.current)
	}
	h.current = id
}

// Back pops the most recent entry and makes it current without pushing the
// node being left.
func (h *History) Back() (string, bool) {
	if len(h.stack) == 0 {
		return "", false
	}
	id := h.stack[len(h.stack)-1]
	h.stack = h.stack[:len(h.stack)-1]
	h.current = id
	return id, true
}

// Close clears the history and the current node.
func (h *History) Close() {
	h.stack = h.stack[:0]
	h.current = ""
}

// Current returns the node being viewed, or "".
func (h *History) Current() string { return h.current }

// Len returns the number of entries available to Back.
func (h *History) Len() int { return len(h.stack) }

// Entries returns a copy of the stack, oldest first.
func (h *History) Entries() []string {
	out := make([]string, len(h.stack))
	copy(out, h.stack)
	return out
}
