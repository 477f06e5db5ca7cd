package aim

// History is a bounded FIFO of pointer samples, oldest first.
type History struct {
	buf   []Point
	start int
	n     int
}

// NewHistory creates a history retaining at most capacity samples.
// A capacity below one is raised to one.
func NewHistory(capacity int) *History {
	if capacity < 1 {
		capacity = 1
	}
	return &History{buf: make([]Point, capacity)}
}

// Push appends p, evicting the oldest sample when full.
func (h *History) Push(p Point) {
	if h.n < len(h.buf) {
		h.buf[(h.start+h.n)%len(h.buf)] = p
		h.n++
		return
	}
	h.buf[h.start] = p
	h.start = (h.start + 1) % len(h.buf)
}

// Len returns the number of retained samples.
func (h *History) Len() int {
	return h.n
}

// Latest returns the most recent sample.
func (h *History) Latest() (Point, bool) {
	if h.n == 0 {
		return Point{}, false
	}
	return h.buf[(h.start+h.n-1)%len(h.buf)], true
}

// Oldest returns the oldest retained sample.
func (h *History) Oldest() (Point, bool) {
	if h.n == 0 {
		return Point{}, false
	}
	return h.buf[h.start], true
}

// Samples returns a copy of the retained samples, oldest first.
func (h *History) Samples() []Point {
	out := make([]Point, h.n)
	for i := 0; i < h.n; i++ {
		out[i] = h.buf[(h.start+i)%len(h.buf)]
	}
	return out
}
