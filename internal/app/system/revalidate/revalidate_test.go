package revalidate

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"
)

func TestRevalidate_BumpsVersions(t *testing.T) {
	h := NewHub(zap.NewNop())
	h.Revalidate(context.Background(), Areas, Areas, "", Dashboard)

	if v := h.Version(Areas); v != 1 {
		t.Errorf("Version(Areas): got %d, want 1", v)
	}
	if v := h.Version(Dashboard); v != 1 {
		t.Errorf("Version(Dashboard): got %d, want 1", v)
	}
	if v := h.Version(Users); v != 0 {
		t.Errorf("Version(Users): got %d, want 0", v)
	}
}

func TestRevalidate_NoPathsIsNoop(t *testing.T) {
	h := NewHub(zap.NewNop())
	called := false
	h.Subscribe(func(Event) { called = true })
	h.Revalidate(context.Background())
	if called {
		t.Error("subscriber should not run for an empty path list")
	}
}

func TestSubscribe_Unsubscribe(t *testing.T) {
	h := NewHub(zap.NewNop())
	var got []Event
	unsub := h.Subscribe(func(ev Event) { got = append(got, ev) })

	h.Revalidate(context.Background(), Users)
	unsub()
	h.Revalidate(context.Background(), Users)

	if len(got) != 1 {
		t.Fatalf("events: got %d, want 1", len(got))
	}
	if got[0].Origin != h.Origin() || got[0].ID == "" {
		t.Errorf("event: got %+v", got[0])
	}
}

type recordingPublisher struct {
	mu   sync.Mutex
	evs  []Event
	err  error
	done chan struct{}
}

func (p *recordingPublisher) Publish(_ context.Context, ev Event) error {
	p.mu.Lock()
	p.evs = append(p.evs, ev)
	p.mu.Unlock()
	p.done <- struct{}{}
	return p.err
}

func TestRevalidate_PublishesAsync(t *testing.T) {
	h := NewHub(zap.NewNop())
	pub := &recordingPublisher{done: make(chan struct{}, 1), err: errors.New("redis down")}
	h.SetPublisher(pub)

	h.Revalidate(context.Background(), Organizations)

	select {
	case <-pub.done:
	case <-time.After(2 * time.Second):
		t.Fatal("publisher was not called")
	}
	pub.mu.Lock()
	defer pub.mu.Unlock()
	if len(pub.evs) != 1 || pub.evs[0].Paths[0] != Organizations {
		t.Errorf("published: got %+v", pub.evs)
	}
	// A failing publisher must not undo the local bump.
	if h.Version(Organizations) != 1 {
		t.Errorf("Version: got %d, want 1", h.Version(Organizations))
	}
}

func TestReceive_IgnoresOwnOrigin(t *testing.T) {
	h := NewHub(zap.NewNop())
	h.Receive(Event{Origin: h.Origin(), Paths: []string{Areas}})
	if h.Version(Areas) != 0 {
		t.Error("own events must not be applied twice")
	}
	h.Receive(Event{Origin: "other", Paths: []string{Areas}})
	if h.Version(Areas) != 1 {
		t.Errorf("Version: got %d, want 1", h.Version(Areas))
	}
}

func TestRedisBridge_Handle(t *testing.T) {
	h := NewHub(zap.NewNop())
	b := NewRedisBridge(nil, "test", h, zap.NewNop())

	payload, _ := json.Marshal(Event{ID: "1", Origin: "peer", Paths: []string{Users, Dashboard}})
	b.handle(string(payload))
	b.handle("{not json")

	if h.Version(Users) != 1 || h.Version(Dashboard) != 1 {
		t.Errorf("versions: users=%d dashboard=%d", h.Version(Users), h.Version(Dashboard))
	}
}

func TestAreaPath(t *testing.T) {
	if got := AreaPath("abc"); got != "/dashboard/areas/abc" {
		t.Errorf("AreaPath: got %q", got)
	}
}
