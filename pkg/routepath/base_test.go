package routepath

import "testing"

func TestNormalizeBase(t *testing.T) {
	tests := map[string]string{
		"":                         "",
		"/":                        "",
		"  /  ":                    "",
		"/crm":                     "/crm",
		"/crm/":                    "/crm",
		"crm/":                     "/crm",
		"/apps/crm//":              "/apps/crm",
		"https://example.com/crm/": "/crm",
		"https://example.com":      "",
	}
	for in, want := range tests {
		if got := NormalizeBase(in); got != want {
			t.Errorf("NormalizeBase(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestJoinBase(t *testing.T) {
	tests := []struct {
		base, path, want string
	}{
		{"", "/", "/"},
		{"/", "/contacts", "/contacts"},
		{"/crm/", "/", "/crm/"},
		{"/crm", "/contacts", "/crm/contacts"},
		{"/crm/", "notes", "/crm/notes"},
		{"/crm", "/notes?sort=due", "/crm/notes?sort=due"},
	}
	for _, tt := range tests {
		if got := JoinBase(tt.base, tt.path); got != tt.want {
			t.Errorf("JoinBase(%q, %q) = %q, want %q", tt.base, tt.path, got, tt.want)
		}
	}
}

func TestStripBase(t *testing.T) {
	tests := []struct {
		base, location string
		want           string
		ok             bool
	}{
		{"/", "/contacts", "/contacts", true},
		{"", "", "/", true},
		{"", "contacts", "contacts", false},
		{"/crm/", "/crm/contacts", "/contacts", true},
		{"/crm", "/crm", "/", true},
		{"/crm", "/crm/", "/", true},
		{"/crm", "/crm?x=1", "/?x=1", true},
		{"/crm", "/crmx", "", false},
		{"/crm", "/other/contacts", "", false},
	}
	for _, tt := range tests {
		got, ok := StripBase(tt.base, tt.location)
		if got != tt.want || ok != tt.ok {
			t.Errorf("StripBase(%q, %q) = (%q, %v), want (%q, %v)", tt.base, tt.location, got, ok, tt.want, tt.ok)
		}
	}
}
