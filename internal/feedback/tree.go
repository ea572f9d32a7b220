package feedback

import (
	"sync"
	"time"
)

// Frame is one node of the hierarchical log tree: a named step with its
// own start/end timestamps, nested child steps, and any errors recorded
// directly against it. The wire shape matches spec §6.5's ML_Logs
// document.
type Frame struct {
	Name      string    `json:"name"`
	Start     time.Time `json:"timestamp_start"`
	End       time.Time `json:"timestamp_end,omitempty"`
	Steps     []*Frame  `json:"steps,omitempty"`
	Errors    []string  `json:"errors,omitempty"`
	parent    *Frame
	mu        *sync.Mutex
}

// Tree is the root of one run's hierarchical log.
type Tree struct {
	root *Frame
	mu   sync.Mutex
}

// NewTree starts a new log tree rooted at name.
func NewTree(name string, start time.Time) *Tree {
	t := &Tree{}
	t.root = &Frame{Name: name, Start: start, mu: &t.mu}
	return t
}

// Root returns the top-level frame, mainly so a run can record its own
// end time and top-level errors.
func (t *Tree) Root() *Frame { return t.root }

// Child opens a nested frame under f, returning it so the caller can
// record its own end time and errors before closing it.
func (f *Frame) Child(name string, start time.Time) *Frame {
	f.mu.Lock()
	defer f.mu.Unlock()
	child := &Frame{Name: name, Start: start, parent: f, mu: f.mu}
	f.Steps = append(f.Steps, child)
	return child
}

// Close records end as the frame's timestamp_end.
func (f *Frame) Close(end time.Time) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.End = end
}

// Error appends an error message to this frame.
func (f *Frame) Error(message string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Errors = append(f.Errors, message)
}
