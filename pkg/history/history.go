// Package history implements the bounded, deduplicated, throttled undo/redo
// stack of the flow editor.
//
// Entries are immutable snapshot values. The stack never inspects the live
// document; the container hands it snapshots and applies whatever it returns,
// which keeps undo an explicit value swap instead of mutation middleware.
package history

import (
	"bytes"
	"time"

	"github.com/goccy/go-json"

	"github.com/formlane/formlane/pkg/model/mflow"
)

const (
	// DefaultCapacity bounds the undo stack; the oldest entry is evicted
	// beyond it.
	DefaultCapacity = 50

	// DefaultThrottle is the rolling window inside which at most one
	// snapshot is captured, so a continuous drag gesture lands as a single
	// entry rather than one per pointer-move.
	DefaultThrottle = 500 * time.Millisecond
)

type Stack struct {
	capacity int
	throttle time.Duration
	now      func() time.Time

	past     []mflow.Snapshot
	future   []mflow.Snapshot
	lastPush time.Time
}

func New() *Stack {
	return NewWith(DefaultCapacity, DefaultThrottle)
}

func NewWith(capacity int, throttle time.Duration) *Stack {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Stack{
		capacity: capacity,
		throttle: throttle,
		now:      time.Now,
	}
}

// SetClock swaps the time source. Tests use it to step through throttle
// windows deterministically.
func (s *Stack) SetClock(now func() time.Time) {
	s.now = now
}

// Capture records the pre-mutation snapshot. Any mutation invalidates the
// redo branch, even when the capture itself is deduplicated or throttled.
// Reports whether an entry was pushed.
func (s *Stack) Capture(snap mflow.Snapshot) bool {
	s.future = s.future[:0]

	if len(s.past) > 0 && snapshotsEqual(s.past[len(s.past)-1], snap) {
		return false
	}
	if !s.lastPush.IsZero() && s.now().Sub(s.lastPush) < s.throttle {
		return false
	}

	s.past = append(s.past, snap.Clone())
	if len(s.past) > s.capacity {
		s.past = s.past[1:]
	}
	s.lastPush = s.now()
	return true
}

// Undo exchanges the current snapshot for the most recent past entry. The
// second return is false on an empty stack.
func (s *Stack) Undo(current mflow.Snapshot) (mflow.Snapshot, bool) {
	if len(s.past) == 0 {
		return mflow.Snapshot{}, false
	}
	s.future = append(s.future, current.Clone())
	top := s.past[len(s.past)-1]
	s.past = s.past[:len(s.past)-1]
	return top, true
}

// Redo exchanges the current snapshot for the most recently undone entry.
func (s *Stack) Redo(current mflow.Snapshot) (mflow.Snapshot, bool) {
	if len(s.future) == 0 {
		return mflow.Snapshot{}, false
	}
	s.past = append(s.past, current.Clone())
	if len(s.past) > s.capacity {
		s.past = s.past[1:]
	}
	top := s.future[len(s.future)-1]
	s.future = s.future[:len(s.future)-1]
	return top, true
}

// Len returns the number of undoable entries.
func (s *Stack) Len() int {
	return len(s.past)
}

// RedoLen returns the number of redoable entries.
func (s *Stack) RedoLen() int {
	return len(s.future)
}

// Clear empties both stacks. Called after the first load so a freshly loaded
// document cannot be undone into an empty graph.
func (s *Stack) Clear() {
	s.past = nil
	s.future = nil
	s.lastPush = time.Time{}
}

// snapshotsEqual compares snapshots structurally through their canonical JSON
// encoding. Map keys serialize sorted, so equal graphs encode identically.
func snapshotsEqual(a, b mflow.Snapshot) bool {
	ab, err := json.Marshal(a)
	if err != nil {
		return false
	}
	bb, err := json.Marshal(b)
	if err != nil {
		return false
	}
	return bytes.Equal(ab, bb)
}
