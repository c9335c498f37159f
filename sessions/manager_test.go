package sessions

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func newTestManager() *Manager {
	return NewManager(func(id string) *Session {
		return NewSession(id, newScriptedAgent(), WithWelcome())
	}, zerolog.Nop())
}

func TestManager_GetOrCreate(t *testing.T) {
	m := newTestManager()

	s1, created := m.GetOrCreate("a")
	if !created {
		t.Error("expected first call to create a session")
	}
	s2, created := m.GetOrCreate("a")
	if created || s1 != s2 {
		t.Error("expected second call to return the same session")
	}
	if got := s1.Messages(); len(got) != 1 || got[0].Text != WelcomeMessage {
		t.Errorf("expected welcome message, got %+v", got)
	}

	if _, ok := m.Get("missing"); ok {
		t.Error("expected Get to miss for unknown id")
	}
	if m.Len() != 1 {
		t.Errorf("expected 1 session, got %d", m.Len())
	}
	if !m.Delete("a") || m.Delete("a") {
		t.Error("expected delete to succeed once")
	}
	if m.Len() != 0 {
		t.Errorf("expected 0 sessions, got %d", m.Len())
	}
}

func TestManager_SweepSkipsActiveAndBusy(t *testing.T) {
	m := newTestManager()

	idle, _ := m.GetOrCreate("idle")
	busy, _ := m.GetOrCreate("busy")
	m.GetOrCreate("fresh")

	past := time.Now().Add(-time.Hour)
	idle.mu.Lock()
	idle.lastActive = past
	idle.mu.Unlock()
	busy.mu.Lock()
	busy.lastActive = past
	busy.busy = true
	busy.mu.Unlock()

	if removed := m.Sweep(time.Minute); removed != 1 {
		t.Errorf("expected 1 session removed, got %d", removed)
	}
	if _, ok := m.Get("idle"); ok {
		t.Error("expected idle session to be removed")
	}
	if _, ok := m.Get("busy"); !ok {
		t.Error("expected busy session to be kept")
	}
	if _, ok := m.Get("fresh"); !ok {
		t.Error("expected fresh session to be kept")
	}
}

func TestManager_SweepSkipsAttached(t *testing.T) {
	m := newTestManager()

	s, _ := m.GetOrCreate("ws")
	release := s.Attach()
	s.mu.Lock()
	s.lastActive = time.Now().Add(-time.Hour)
	s.mu.Unlock()

	if removed := m.Sweep(time.Minute); removed != 0 {
		t.Errorf("expected attached session to be kept, removed %d", removed)
	}

	release()
	release()
	if s.Attached() {
		t.Error("expected session to be released")
	}
	if removed := m.Sweep(time.Minute); removed != 0 {
		t.Errorf("expected release to refresh activity, removed %d", removed)
	}
}

func TestManager_GetOrCreateBuildsOutsideLock(t *testing.T) {
	unblock := make(chan struct{})
	var slowBuilds atomic.Int32
	m := NewManager(func(id string) *Session {
		if id == "slow" {
			slowBuilds.Add(1)
			<-unblock
		}
		return NewSession(id, newScriptedAgent())
	}, zerolog.Nop())

	var wg sync.WaitGroup
	results := make([]*Session, 2)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], _ = m.GetOrCreate("slow")
		}(i)
	}

	done := make(chan struct{})
	go func() {
		m.GetOrCreate("fast")
		m.Len()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("lookup of another id blocked behind a slow construction")
	}

	close(unblock)
	wg.Wait()

	if results[0] == nil || results[0] != results[1] {
		t.Error("expected both callers to share one session")
	}
	if n := slowBuilds.Load(); n != 1 {
		t.Errorf("expected one construction, got %d", n)
	}
	if m.Len() != 2 {
		t.Errorf("expected 2 sessions, got %d", m.Len())
	}
}

func TestManager_StartCleanup(t *testing.T) {
	m := newTestManager()

	if err := m.StartCleanup("not a schedule", time.Minute); err == nil {
		t.Error("expected error for invalid schedule")
	}
	if err := m.StartCleanup("@every 1h", time.Minute); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := m.StartCleanup("@every 1h", time.Minute); err == nil {
		t.Error("expected error when cleanup is already running")
	}
	m.Stop()
	m.Stop()
}
