package router

import (
	"context"
	"errors"
	"io"
	"testing"
)

type namedView string

func (v namedView) Render(ctx context.Context, w io.Writer) error {
	_, err := io.WriteString(w, string(v))
	return err
}

func (v namedView) ViewName() string { return string(v) }

func testRecords() []Record {
	return []Record{
		{Path: "/", Name: "Home", View: namedView("Home")},
		{Path: "/leads", Name: "Leads", View: namedView("HelloWorld")},
		{Path: "/contacts", Name: "Contacts", View: namedView("Contact")},
		{Path: "/notes", Name: "Notes", View: namedView("Notes")},
		{Path: "/reminders", Name: "Reminders", View: namedView("Reminders")},
	}
}

func TestRouterMatch(t *testing.T) {
	r := MustNew(testRecords()...)

	tests := []struct {
		path     string
		wantName string
		wantView string
	}{
		{"/", "Home", "Home"},
		{"/leads", "Leads", "HelloWorld"},
		{"/contacts", "Contacts", "Contact"},
		{"/notes", "Notes", "Notes"},
		{"/reminders", "Reminders", "Reminders"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			result, ok := r.Match(tt.path)
			if !ok {
				t.Fatalf("expected match for %s", tt.path)
			}
			if result.Record.Name != tt.wantName {
				t.Errorf("Name = %q, want %q", result.Record.Name, tt.wantName)
			}
			if got := ViewName(result.Record.View); got != tt.wantView {
				t.Errorf("View = %q, want %q", got, tt.wantView)
			}
		})
	}
}

func TestRouterNoMatch(t *testing.T) {
	r := MustNew(testRecords()...)

	for _, path := range []string{"/unknown", "/contacts/1", "/../x", "/notes%GG"} {
		if _, ok := r.Match(path); ok {
			t.Errorf("should not match %s", path)
		}
	}
}

func TestRouterMatchIgnoresCase(t *testing.T) {
	r := MustNew(testRecords()...)
	if r.Sensitive() {
		t.Fatal("default router should be case-insensitive")
	}

	for path, want := range map[string]string{
		"/CONTACTS":  "Contacts",
		"/Contacts/": "Contacts",
		"/Leads":     "Leads",
		"/reMinders": "Reminders",
	} {
		result, ok := r.Match(path)
		if !ok {
			t.Errorf("%s should match", path)
			continue
		}
		if result.Record.Name != want {
			t.Errorf("%s matched %q, want %q", path, result.Record.Name, want)
		}
	}
}

func TestRouterSensitive(t *testing.T) {
	r, err := NewWithConfig(Config{Sensitive: true}, testRecords()...)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := r.Match("/CONTACTS"); ok {
		t.Error("sensitive router should not match /CONTACTS")
	}
	if _, ok := r.Match("/contacts"); !ok {
		t.Error("sensitive router should match /contacts")
	}
}

func TestNewRejectsCaseVariantPaths(t *testing.T) {
	records := []Record{
		{Path: "/notes", Name: "Notes", View: namedView("Notes")},
		{Path: "/Notes", Name: "NotesUpper", View: namedView("Notes")},
	}
	if _, err := New(records...); !errors.Is(err, ErrDuplicatePath) {
		t.Errorf("err = %v, want ErrDuplicatePath", err)
	}
	if _, err := NewWithConfig(Config{Sensitive: true}, records...); err != nil {
		t.Errorf("sensitive router should accept case variants: %v", err)
	}
}

func TestRouterMatchNormalizesLocation(t *testing.T) {
	r := MustNew(testRecords()...)

	result, ok := r.Match("/contacts/?q=ann#list")
	if !ok {
		t.Fatal("expected match")
	}
	if result.Record.Name != "Contacts" {
		t.Errorf("Name = %q", result.Record.Name)
	}
	if result.Path != "/contacts" || result.Query != "q=ann" || result.Hash != "list" {
		t.Errorf("result = %+v", result)
	}
	if result.FullPath() != "/contacts?q=ann#list" {
		t.Errorf("FullPath() = %q", result.FullPath())
	}
	if result.Index != 2 {
		t.Errorf("Index = %d, want 2", result.Index)
	}

	if result, ok := r.Match("/cont%61cts"); !ok || result.Record.Name != "Contacts" {
		t.Error("percent-encoded path should match its decoded literal")
	}
	if result, ok := r.Match(""); !ok || result.Record.Name != "Home" {
		t.Error("empty location should match the root route")
	}
}

func TestRouterLookup(t *testing.T) {
	r := MustNew(testRecords()...)

	rec, ok := r.Lookup("Notes")
	if !ok || rec.Path != "/notes" {
		t.Errorf("Lookup(Notes) = %+v, %v", rec, ok)
	}
	if _, ok := r.Lookup("notes"); ok {
		t.Error("names are case-sensitive")
	}

	path, err := r.PathFor("Reminders")
	if err != nil || path != "/reminders" {
		t.Errorf("PathFor(Reminders) = %q, %v", path, err)
	}
	if _, err := r.PathFor("Missing"); !errors.Is(err, ErrUnknownRouteName) {
		t.Errorf("PathFor(Missing) err = %v", err)
	}
}

func TestRouterRecordsIsCopy(t *testing.T) {
	r := MustNew(testRecords()...)

	records := r.Records()
	if len(records) != 5 || r.Len() != 5 {
		t.Fatalf("len = %d", len(records))
	}
	records[0].Name = "Mutated"

	if r.Records()[0].Name != "Home" {
		t.Error("Records() must not expose internal state")
	}
	if result, _ := r.Match("/"); result.Record.Name != "Home" {
		t.Error("mutation leaked into matching")
	}
}

func TestRouterRecordsOrder(t *testing.T) {
	want := []string{"Home", "Leads", "Contacts", "Notes", "Reminders"}
	r := MustNew(testRecords()...)

	for i, rec := range r.Records() {
		if rec.Name != want[i] {
			t.Errorf("Records()[%d] = %q, want %q", i, rec.Name, want[i])
		}
	}
}

func TestNewRejectsInvalidTable(t *testing.T) {
	records := append(testRecords(), Record{Path: "/contacts", Name: "Contacts2", View: namedView("x")})

	_, err := New(records...)
	if !errors.Is(err, ErrDuplicatePath) {
		t.Fatalf("err = %v, want ErrDuplicatePath", err)
	}

	defer func() {
		if recover() == nil {
			t.Error("MustNew should panic on an invalid table")
		}
	}()
	MustNew(records...)
}

func TestRouterUse(t *testing.T) {
	r := MustNew(testRecords()...)
	mw := MiddlewareFunc(func(ctx context.Context, tr *Transition, next func() error) error {
		return next()
	})

	r.Use(mw, mw)
	if len(r.Middleware()) != 2 {
		t.Errorf("len(Middleware()) = %d, want 2", len(r.Middleware()))
	}
}

func TestViewName(t *testing.T) {
	if ViewName(nil) != "" {
		t.Error("ViewName(nil) should be empty")
	}
	if ViewName(namedView("Contact")) != "Contact" {
		t.Error("ViewName should use the ViewName method")
	}
	fn := ViewFunc(func(ctx context.Context, w io.Writer) error { return nil })
	if ViewName(fn) != "router.ViewFunc" {
		t.Errorf("ViewName(func) = %q", ViewName(fn))
	}
}

func TestRecordDisplayTitle(t *testing.T) {
	if (Record{Name: "Leads"}).DisplayTitle() != "Leads" {
		t.Error("DisplayTitle should fall back to Name")
	}
	if (Record{Name: "Leads", Title: "Sales leads"}).DisplayTitle() != "Sales leads" {
		t.Error("DisplayTitle should prefer Title")
	}
}
