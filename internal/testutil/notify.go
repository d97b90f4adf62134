package testutil

import (
	"context"
	"sync"
)

// RecordingNotifier captures Revalidate calls.
type RecordingNotifier struct {
	mu    sync.Mutex
	calls [][]string
}

func (n *RecordingNotifier) Revalidate(_ context.Context, paths ...string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.calls = append(n.calls, append([]string(nil), paths...))
}

// Calls returns the number of Revalidate calls.
func (n *RecordingNotifier) Calls() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.calls)
}

// Saw reports whether any call included path.
func (n *RecordingNotifier) Saw(path string) bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	for _, c := range n.calls {
		for _, p := range c {
			if p == path {
				return true
			}
		}
	}
	return false
}
