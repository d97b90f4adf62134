// Package revalidate signals that cached views are stale after a mutation.
//
// Mutations call Notifier.Revalidate with the view paths they affect. The Hub
// bumps a per-path version counter that clients poll, fans the event out to
// in-process subscribers and, when a Redis bridge is attached, to the other
// instances. Delivery is fire-and-forget.
package revalidate

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// View paths.
const (
	Dashboard     = "/dashboard"
	Areas         = "/dashboard/areas"
	Users         = "/dashboard/users"
	Organizations = "/dashboard/organizations"
	Locations     = "/dashboard/locations"
	Settings      = "/dashboard/settings"
)

// AreaPath is the detail view of one area.
func AreaPath(areaID string) string { return Areas + "/" + areaID }

// Notifier is the callback the mutation layer invokes.
type Notifier interface {
	Revalidate(ctx context.Context, paths ...string)
}

// Nop discards notifications.
type Nop struct{}

func (Nop) Revalidate(context.Context, ...string) {}

// Event describes one invalidation.
type Event struct {
	ID     string    `json:"id"`
	Origin string    `json:"origin"`
	Paths  []string  `json:"paths"`
	At     time.Time `json:"at"`
}

// Publisher forwards events to other instances.
type Publisher interface {
	Publish(ctx context.Context, ev Event) error
}

// Hub is the process-wide Notifier.
type Hub struct {
	origin string
	log    *zap.Logger

	mu       sync.RWMutex
	versions map[string]uint64
	subs     map[int]func(Event)
	nextSub  int
	pub      Publisher
}

// NewHub creates a hub with a random origin ID.
func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		origin:   uuid.NewString(),
		log:      logger,
		versions: make(map[string]uint64),
		subs:     make(map[int]func(Event)),
	}
}

// Origin identifies this instance in published events.
func (h *Hub) Origin() string { return h.origin }

// SetPublisher attaches a cross-instance publisher.
func (h *Hub) SetPublisher(p Publisher) {
	h.mu.Lock()
	h.pub = p
	h.mu.Unlock()
}

// Revalidate records the invalidation locally and publishes it without
// waiting. Empty and duplicate paths are ignored.
func (h *Hub) Revalidate(ctx context.Context, paths ...string) {
	paths = dedupe(paths)
	if len(paths) == 0 {
		return
	}
	ev := Event{ID: uuid.NewString(), Origin: h.origin, Paths: paths, At: time.Now().UTC()}
	h.apply(ev)

	h.mu.RLock()
	pub := h.pub
	h.mu.RUnlock()
	if pub == nil {
		return
	}
	go func() {
		pctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		defer cancel()
		if err := pub.Publish(pctx, ev); err != nil {
			h.log.Warn("revalidate publish failed", zap.String("event_id", ev.ID), zap.Strings("paths", ev.Paths), zap.Error(err))
		}
	}()
}

// Receive applies an event from another instance. Events from this
// instance are ignored because they were applied when raised.
func (h *Hub) Receive(ev Event) {
	if ev.Origin == h.origin {
		return
	}
	h.apply(ev)
}

func (h *Hub) apply(ev Event) {
	h.mu.Lock()
	for _, p := range ev.Paths {
		h.versions[p]++
	}
	subs := make([]func(Event), 0, len(h.subs))
	for _, fn := range h.subs {
		subs = append(subs, fn)
	}
	h.mu.Unlock()

	for _, fn := range subs {
		fn(ev)
	}
}

// Version returns how many times path has been invalidated.
func (h *Hub) Version(path string) uint64 {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.versions[path]
}

// Subscribe registers fn for every applied event and returns a func that
// removes it. fn runs on the caller's goroutine and must not block.
func (h *Hub) Subscribe(fn func(Event)) (unsubscribe func()) {
	h.mu.Lock()
	id := h.nextSub
	h.nextSub++
	h.subs[id] = fn
	h.mu.Unlock()
	return func() {
		h.mu.Lock()
		delete(h.subs, id)
		h.mu.Unlock()
	}
}

func dedupe(paths []string) []string {
	seen := make(map[string]struct{}, len(paths))
	out := paths[:0:0]
	for _, p := range paths {
		if p == "" {
			continue
		}
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}
	return out
}
