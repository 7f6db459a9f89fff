package history

import (
	"sync"
	"testing"
)

func TestNewWebHistory(t *testing.T) {
	h := NewWebHistory("/crm/")

	if h.Base() != "/crm" {
		t.Errorf("Base() = %q, want /crm", h.Base())
	}
	if h.Location() != "/" {
		t.Errorf("Location() = %q, want /", h.Location())
	}
	if h.Len() != 1 {
		t.Errorf("Len() = %d, want 1", h.Len())
	}
	if h.CreateHref("/contacts") != "/crm/contacts" {
		t.Errorf("CreateHref() = %q", h.CreateHref("/contacts"))
	}
}

func TestNewWebHistoryAt(t *testing.T) {
	tests := []struct {
		base, full, want string
	}{
		{"/crm", "/crm/notes?sort=due", "/notes?sort=due"},
		{"/crm", "/crm", "/"},
		{"", "/reminders", "/reminders"},
		{"/crm", "/elsewhere", "/elsewhere"},
	}
	for _, tt := range tests {
		h := NewWebHistoryAt(tt.base, tt.full)
		if h.Location() != tt.want {
			t.Errorf("NewWebHistoryAt(%q, %q).Location() = %q, want %q", tt.base, tt.full, h.Location(), tt.want)
		}
	}
}

func TestPushReplace(t *testing.T) {
	h := NewWebHistory("/")

	h.Push("/leads", nil)
	h.Push("/contacts", map[string]any{"scroll": 0})

	if h.Location() != "/contacts" || h.Len() != 3 || h.Position() != 2 {
		t.Fatalf("after push: loc=%q len=%d pos=%d", h.Location(), h.Len(), h.Position())
	}
	if h.State()["scroll"] != 0 {
		t.Errorf("State() = %v", h.State())
	}

	h.Replace("/notes", nil)
	if h.Location() != "/notes" || h.Len() != 3 {
		t.Errorf("after replace: loc=%q len=%d", h.Location(), h.Len())
	}
	if h.State() != nil {
		t.Errorf("Replace should overwrite state, got %v", h.State())
	}
}

func TestPushDiscardsForwardEntries(t *testing.T) {
	h := NewWebHistory("")
	h.Push("/leads", nil)
	h.Push("/contacts", nil)
	h.Back()
	h.Back()

	h.Push("/notes", nil)

	entries := h.Entries()
	if len(entries) != 2 {
		t.Fatalf("Len = %d, want 2: %+v", len(entries), entries)
	}
	if entries[0].Location != "/" || entries[1].Location != "/notes" {
		t.Errorf("entries = %+v", entries)
	}
	if h.Forward() {
		t.Error("Forward should fail after push discards forward entries")
	}
}

func TestGoBounds(t *testing.T) {
	h := NewWebHistory("")
	h.Push("/leads", nil)

	if h.Go(0) {
		t.Error("Go(0) should report false")
	}
	if h.Go(1) {
		t.Error("Go past the end should report false")
	}
	if h.Go(-2) {
		t.Error("Go before the start should report false")
	}
	if h.Location() != "/leads" {
		t.Errorf("failed Go changed location to %q", h.Location())
	}
	if !h.Go(-1) || h.Location() != "/" {
		t.Errorf("Go(-1) location = %q", h.Location())
	}
}

func TestListenersOnPopOnly(t *testing.T) {
	h := NewWebHistory("")

	type call struct {
		to, from string
		info     NavigationInfo
	}
	var calls []call
	unlisten := h.Listen(func(to, from string, info NavigationInfo) {
		calls = append(calls, call{to, from, info})
	})

	h.Push("/leads", nil)
	h.Replace("/contacts", nil)
	if len(calls) != 0 {
		t.Fatalf("push/replace notified listeners: %+v", calls)
	}

	h.Back()
	if len(calls) != 1 {
		t.Fatalf("calls = %d, want 1", len(calls))
	}
	got := calls[0]
	if got.to != "/" || got.from != "/contacts" || got.info.Direction != DirectionBack || got.info.Delta != -1 || got.info.Type != NavigationPop {
		t.Errorf("call = %+v", got)
	}

	h.Forward()
	if calls[1].info.Direction != DirectionForward {
		t.Errorf("forward direction = %q", calls[1].info.Direction)
	}

	unlisten()
	h.Back()
	if len(calls) != 2 {
		t.Errorf("listener called after unlisten")
	}
}

func TestListenerOrder(t *testing.T) {
	h := NewWebHistory("")
	h.Push("/leads", nil)

	var order []int
	for i := 0; i < 3; i++ {
		i := i
		h.Listen(func(to, from string, info NavigationInfo) { order = append(order, i) })
	}
	h.Back()

	if len(order) != 3 || order[0] != 0 || order[1] != 1 || order[2] != 2 {
		t.Errorf("order = %v", order)
	}
}

func TestPop(t *testing.T) {
	h := NewWebHistory("")
	h.Push("/leads", nil)
	h.Push("/contacts", nil)

	var infos []NavigationInfo
	h.Listen(func(to, from string, info NavigationInfo) { infos = append(infos, info) })

	if d := h.Pop("/leads"); d != -1 || h.Location() != "/leads" {
		t.Errorf("Pop back: delta=%d loc=%q", d, h.Location())
	}
	if d := h.Pop("/contacts"); d != 1 || h.Location() != "/contacts" {
		t.Errorf("Pop forward: delta=%d loc=%q", d, h.Location())
	}
	if d := h.Pop("/reminders"); d != 0 || h.Location() != "/reminders" || h.Len() != 3 {
		t.Errorf("Pop unknown: delta=%d loc=%q len=%d", d, h.Location(), h.Len())
	}
	if len(infos) != 3 {
		t.Fatalf("infos = %d, want 3", len(infos))
	}
	if infos[2].Direction != DirectionUnknown {
		t.Errorf("unknown pop direction = %q", infos[2].Direction)
	}

	if d := h.Pop("/reminders"); d != 0 || len(infos) != 3 {
		t.Error("Pop to the current location should not notify")
	}
}

func TestMaxEntries(t *testing.T) {
	h := NewWebHistory("", WithMaxEntries(3))
	for _, loc := range []string{"/leads", "/contacts", "/notes", "/reminders"} {
		h.Push(loc, nil)
	}

	entries := h.Entries()
	if len(entries) != 3 {
		t.Fatalf("Len = %d, want 3", len(entries))
	}
	if entries[0].Location != "/contacts" || h.Location() != "/reminders" || h.Position() != 2 {
		t.Errorf("entries = %+v pos=%d", entries, h.Position())
	}
}

func TestConcurrentUse(t *testing.T) {
	h := NewWebHistory("/crm")
	h.Listen(func(to, from string, info NavigationInfo) {})

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				h.Push("/notes", nil)
				h.Back()
				_ = h.Location()
			}
		}()
	}
	wg.Wait()

	if h.Len() > DefaultMaxEntries {
		t.Errorf("Len() = %d exceeds bound", h.Len())
	}
}
