// Package history implements the web history strategy used by history-mode
// navigation: an entry stack addressed by paths relative to a base path,
// mirroring the browser History API (pushState, replaceState, go, popstate).
//
// A WebHistory lives on the server, one per connected page, and tracks the
// entries the thin client has created in the browser.
package history

import (
	"sync"

	"github.com/vango-dev/crmnav/pkg/routepath"
)

// DefaultMaxEntries bounds the entry stack of a single page.
const DefaultMaxEntries = 50

// NavigationType tells how the current entry changed.
type NavigationType string

const (
	NavigationPush    NavigationType = "push"
	NavigationReplace NavigationType = "replace"
	NavigationPop     NavigationType = "pop"
)

// Direction of a pop navigation.
type Direction string

const (
	DirectionBack    Direction = "back"
	DirectionForward Direction = "forward"
	DirectionUnknown Direction = ""
)

// NavigationInfo describes a pop navigation delivered to listeners.
type NavigationInfo struct {
	Type      NavigationType
	Direction Direction
	Delta     int
}

// Listener is notified when the current entry changes through Go or Pop.
// Push and Replace do not notify, matching popstate semantics.
type Listener func(to, from string, info NavigationInfo)

// Entry is one history entry.
type Entry struct {
	// Location is the path relative to the base, with query and fragment.
	Location string

	// State is the data attached by Push or Replace.
	State map[string]any
}

// Option configures a WebHistory.
type Option func(*WebHistory)

// WithMaxEntries bounds the entry stack; the oldest entries are dropped.
func WithMaxEntries(n int) Option {
	return func(h *WebHistory) {
		if n > 0 {
			h.maxEntries = n
		}
	}
}

// WebHistory is a history stack bound to a base path.
// It is safe for concurrent use.
type WebHistory struct {
	mu         sync.Mutex
	base       string
	entries    []Entry
	pos        int
	maxEntries int

	listeners map[int]Listener
	nextID    int
}

// NewWebHistory creates a history whose single entry is the root location.
func NewWebHistory(base string, opts ...Option) *WebHistory {
	return NewWebHistoryAt(base, routepath.JoinBase(base, "/"), opts...)
}

// NewWebHistoryAt creates a history whose first entry is the given full URL
// path (base included), as seen by the browser on page load. A path outside
// the base is kept as is.
func NewWebHistoryAt(base, fullPath string, opts ...Option) *WebHistory {
	h := &WebHistory{
		base:       routepath.NormalizeBase(base),
		maxEntries: DefaultMaxEntries,
		listeners:  make(map[int]Listener),
	}
	for _, opt := range opts {
		opt(h)
	}

	location, ok := routepath.StripBase(h.base, fullPath)
	if !ok {
		location = fullPath
	}
	if location == "" {
		location = "/"
	}
	h.entries = []Entry{{Location: location}}
	return h
}

// Base returns the normalized base path ("" for the site root).
func (h *WebHistory) Base() string {
	return h.base
}

// CreateHref returns the full URL path for a location.
func (h *WebHistory) CreateHref(location string) string {
	return routepath.JoinBase(h.base, location)
}

// Location returns the current location relative to the base.
func (h *WebHistory) Location() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.entries[h.pos].Location
}

// State returns the state of the current entry.
func (h *WebHistory) State() map[string]any {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.entries[h.pos].State
}

// Len returns the number of entries.
func (h *WebHistory) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.entries)
}

// Position returns the index of the current entry.
func (h *WebHistory) Position() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.pos
}

// Entries returns a copy of the entry stack.
func (h *WebHistory) Entries() []Entry {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]Entry, len(h.entries))
	copy(out, h.entries)
	return out
}

// Push adds an entry after the current one, discarding forward entries.
func (h *WebHistory) Push(location string, state map[string]any) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.entries = append(h.entries[:h.pos+1], Entry{Location: location, State: state})
	if over := len(h.entries) - h.maxEntries; over > 0 {
		h.entries = append([]Entry(nil), h.entries[over:]...)
	}
	h.pos = len(h.entries) - 1
}

// Replace overwrites the current entry.
func (h *WebHistory) Replace(location string, state map[string]any) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.entries[h.pos] = Entry{Location: location, State: state}
}

// Go moves delta entries through the stack and notifies listeners.
// A move past either end is ignored and reports false.
func (h *WebHistory) Go(delta int) bool {
	h.mu.Lock()
	target := h.pos + delta
	if delta == 0 || target < 0 || target >= len(h.entries) {
		h.mu.Unlock()
		return false
	}
	from := h.entries[h.pos].Location
	h.pos = target
	to := h.entries[h.pos].Location
	listeners := h.snapshotListeners()
	h.mu.Unlock()

	notify(listeners, to, from, popInfo(delta))
	return true
}

// Back is Go(-1).
func (h *WebHistory) Back() bool {
	return h.Go(-1)
}

// Forward is Go(1).
func (h *WebHistory) Forward() bool {
	return h.Go(1)
}

// Pop records a popstate reported by the browser: the current entry became
// location. A neighbouring entry with that location becomes current;
// otherwise the current entry is rewritten. Listeners are notified unless
// the location did not change. It returns the observed delta (0 when unknown).
func (h *WebHistory) Pop(location string) int {
	h.mu.Lock()
	from := h.entries[h.pos].Location
	delta := 0
	switch {
	case h.pos > 0 && h.entries[h.pos-1].Location == location:
		delta = -1
	case h.pos+1 < len(h.entries) && h.entries[h.pos+1].Location == location:
		delta = 1
	}

	if delta != 0 {
		h.pos += delta
	} else {
		if from == location {
			h.mu.Unlock()
			return 0
		}
		h.entries[h.pos] = Entry{Location: location}
	}
	listeners := h.snapshotListeners()
	h.mu.Unlock()

	notify(listeners, location, from, popInfo(delta))
	return delta
}

// Listen registers a listener and returns a function that removes it.
func (h *WebHistory) Listen(fn Listener) (unlisten func()) {
	h.mu.Lock()
	id := h.nextID
	h.nextID++
	h.listeners[id] = fn
	h.mu.Unlock()

	return func() {
		h.mu.Lock()
		delete(h.listeners, id)
		h.mu.Unlock()
	}
}

// snapshotListeners copies listeners in registration order. Caller holds mu.
func (h *WebHistory) snapshotListeners() []Listener {
	out := make([]Listener, 0, len(h.listeners))
	for id := 0; id < h.nextID; id++ {
		if fn, ok := h.listeners[id]; ok {
			out = append(out, fn)
		}
	}
	return out
}

func notify(listeners []Listener, to, from string, info NavigationInfo) {
	for _, fn := range listeners {
		fn(to, from, info)
	}
}

func popInfo(delta int) NavigationInfo {
	info := NavigationInfo{Type: NavigationPop, Delta: delta}
	switch {
	case delta < 0:
		info.Direction = DirectionBack
	case delta > 0:
		info.Direction = DirectionForward
	}
	return info
}
