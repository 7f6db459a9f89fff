package routepath

import "strings"

// NormalizeBase returns the canonical form of a base path: a leading slash
// and no trailing slash, with "" and "/" both meaning the site root ("").
//
//	""       → ""
//	"/"      → ""
//	"/crm/"  → "/crm"
//	"crm"    → "/crm"
func NormalizeBase(base string) string {
	base = strings.TrimSpace(base)
	if base == "" {
		return ""
	}
	// A full URL base keeps only its path, as a browser would.
	if i := strings.Index(base, "://"); i >= 0 {
		rest := base[i+3:]
		if j := strings.IndexByte(rest, '/'); j >= 0 {
			base = rest[j:]
		} else {
			base = ""
		}
	}
	if !strings.HasPrefix(base, "/") {
		base = "/" + base
	}
	return strings.TrimRight(base, "/")
}

// JoinBase prefixes a route path with a normalized base path.
func JoinBase(base, path string) string {
	base = NormalizeBase(base)
	if path == "" || path == "/" {
		if base == "" {
			return "/"
		}
		return base + "/"
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return base + path
}

// StripBase removes a normalized base path from a full location.
// It reports false when the location is not under the base. The query
// string and fragment of the location are kept.
func StripBase(base, location string) (string, bool) {
	base = NormalizeBase(base)
	if base == "" {
		if location == "" {
			return "/", true
		}
		return location, strings.HasPrefix(location, "/")
	}
	if !strings.HasPrefix(location, base) {
		return "", false
	}

	rest := location[len(base):]
	switch {
	case rest == "":
		return "/", true
	case rest[0] == '/':
		return rest, true
	case rest[0] == '?' || rest[0] == '#':
		return "/" + rest, true
	default:
		// "/crmx" is not under "/crm".
		return "", false
	}
}
