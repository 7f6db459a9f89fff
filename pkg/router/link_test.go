package router

import (
	"strings"
	"testing"
)

func TestLink(t *testing.T) {
	got := string(Link("/contacts", "Contacts"))
	want := `<a href="/contacts" data-link>Contacts</a>`
	if got != want {
		t.Errorf("Link() = %s, want %s", got, want)
	}
}

func TestLinkEscapes(t *testing.T) {
	got := string(Link(`/notes?a="b"`, "<Notes>"))
	if strings.Contains(got, `"b"`) || strings.Contains(got, "<Notes>") {
		t.Errorf("Link() did not escape: %s", got)
	}
}

func TestReplaceLink(t *testing.T) {
	got := string(ReplaceLink("/notes", "Notes"))
	want := `<a href="/notes" data-link data-replace>Notes</a>`
	if got != want {
		t.Errorf("ReplaceLink() = %s, want %s", got, want)
	}
}

func TestLinkWithoutScroll(t *testing.T) {
	got := string(LinkWithoutScroll("/reminders", "Reminders"))
	want := `<a href="/reminders" data-link data-no-scroll>Reminders</a>`
	if got != want {
		t.Errorf("LinkWithoutScroll() = %s, want %s", got, want)
	}
}

func TestActiveLink(t *testing.T) {
	got := string(ActiveLink("/leads", "Leads", "nav-active", "/leads", true))
	for _, want := range []string{`data-active-class="nav-active"`, AttrActiveExact, `class="nav-active"`, `aria-current="page"`} {
		if !strings.Contains(got, want) {
			t.Errorf("ActiveLink() missing %s: %s", want, got)
		}
	}

	inactive := string(ActiveLink("/leads", "Leads", "nav-active", "/notes", true))
	if strings.Contains(inactive, `class="nav-active"`) {
		t.Errorf("inactive link has class: %s", inactive)
	}
}

func TestNavLink(t *testing.T) {
	if !strings.Contains(string(NavLink("/", "Home", "/")), `class="active"`) {
		t.Error("NavLink should be active on exact match")
	}
	if strings.Contains(string(NavLink("/", "Home", "/notes")), `class="active"`) {
		t.Error("NavLink root should not be active on /notes")
	}
}

func TestNavLinkBaseRoot(t *testing.T) {
	if !strings.Contains(string(NavLink("/crm/", "Home", "/crm")), `class="active"`) {
		t.Error("Home link should be active on the bare base path")
	}
}

func TestIsActive(t *testing.T) {
	tests := []struct {
		href, current string
		exact, want   bool
	}{
		{"/contacts", "/contacts", true, true},
		{"/contacts", "/contacts/archive", true, false},
		{"/contacts", "/contacts/archive", false, true},
		{"/contacts", "/contactsx", false, false},
		{"/", "/notes", false, true},
		{"/crm/", "/crm", true, true},
		{"/crm", "/crm/", true, true},
		{"/crm/", "/crm/notes", true, false},
		{"/crm/", "/crm/notes", false, true},
		{"/crm/notes", "/crm/notes/", true, true},
	}
	for _, tt := range tests {
		if got := isActive(tt.href, tt.current, tt.exact); got != tt.want {
			t.Errorf("isActive(%q, %q, %v) = %v", tt.href, tt.current, tt.exact, got)
		}
	}
}
