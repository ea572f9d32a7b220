// Package feedback accumulates the two documents one scheduling run
// produces for human consumption: an ordered list of feedback strings
// (spec §6.5 "user_feedback") and a hierarchical tree of named steps with
// their own start/end timestamps and error lists (spec §6.5 "ML_Logs").
package feedback

import (
	"strconv"
	"sync"
	"time"
)

// Log is the per-run feedback accumulator. Messages keep insertion order
// (spec §10 "order feedback ordering") — it is not a map.
type Log struct {
	mu       sync.Mutex
	messages []string
	monitor  *ChangeMonitor
}

// NewLog returns an empty feedback log with its own dedup monitor.
func NewLog() *Log {
	return &Log{monitor: NewChangeMonitor(24 * time.Hour)}
}

// Add appends a feedback message unconditionally.
func (l *Log) Add(message string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.messages = append(l.messages, message)
}

// AddOnce appends message only the first time dedupKey's associated value
// is seen or changes, suppressing repeats of the same underlying fact
// (e.g. the same "default cavity used" note for every order on an
// under-specified machine).
func (l *Log) AddOnce(dedupKey string, value any, message string) {
	if !l.monitor.HasChanged(dedupKey, value) {
		return
	}
	l.Add(message)
}

// Messages returns the feedback strings in recorded order.
func (l *Log) Messages() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]string, len(l.messages))
	copy(out, l.messages)
	return out
}

// Document renders the user_feedback shape: keys "1".."N" in recorded
// order, ready for a store's replace-collection write.
func (l *Log) Document() map[string]string {
	msgs := l.Messages()
	doc := make(map[string]string, len(msgs))
	for i, m := range msgs {
		doc[strconv.Itoa(i+1)] = m
	}
	return doc
}
