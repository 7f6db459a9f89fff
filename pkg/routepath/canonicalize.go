// Package routepath holds the path rules shared by the router, the history
// and the server: canonical form of navigation paths and base path handling.
package routepath

import (
	"errors"
	"strings"
)

// CanonicalizeResult contains the result of path canonicalization.
type CanonicalizeResult struct {
	// Path is the canonicalized path (without query string or fragment).
	Path string

	// Query is the query string (without leading "?").
	Query string

	// Hash is the fragment (without leading "#").
	Hash string

	// Changed indicates if the path was modified during canonicalization.
	Changed bool
}

// Path canonicalization errors.
var (
	ErrInvalidPath          = errors.New("invalid path")
	ErrBackslashInPath      = errors.New("path contains backslash")
	ErrNullByteInPath       = errors.New("path contains null byte")
	ErrInvalidPercentEscape = errors.New("invalid percent escape sequence")
	ErrPathEscapesRoot      = errors.New("path escapes root via ..")
)

// CanonicalizePath normalizes a URL path.
//
// The following transformations are applied:
//   - Add a leading slash
//   - Collapse multiple slashes (/notes//1 → /notes/1)
//   - Remove "." segments and resolve ".." segments
//   - Remove the trailing slash (except for root "/")
//
// Backslashes, NUL bytes, malformed percent escapes and ".." above the root
// are rejected. The query string and fragment are split off and preserved.
func CanonicalizePath(input string) (CanonicalizeResult, error) {
	if input == "" {
		return CanonicalizeResult{Path: "/", Changed: true}, nil
	}

	rest, hash, _ := strings.Cut(input, "#")
	path, query, _ := strings.Cut(rest, "?")

	if strings.Contains(path, "\\") {
		return CanonicalizeResult{}, ErrBackslashInPath
	}
	if strings.Contains(path, "\x00") || strings.Contains(strings.ToUpper(path), "%00") {
		return CanonicalizeResult{}, ErrNullByteInPath
	}
	if strings.Contains(path, "%") {
		if err := validatePercentEscapes(path); err != nil {
			return CanonicalizeResult{}, err
		}
	}

	original := path

	var segments []string
	for _, seg := range strings.Split(path, "/") {
		switch seg {
		case "", ".":
			continue
		case "..":
			if len(segments) == 0 {
				return CanonicalizeResult{}, ErrPathEscapesRoot
			}
			segments = segments[:len(segments)-1]
		default:
			segments = append(segments, seg)
		}
	}

	path = "/" + strings.Join(segments, "/")

	return CanonicalizeResult{
		Path:    path,
		Query:   query,
		Hash:    hash,
		Changed: path != original,
	}, nil
}

// validatePercentEscapes checks that every "%" starts a %XX hex escape.
func validatePercentEscapes(path string) error {
	for i := 0; i < len(path); i++ {
		if path[i] != '%' {
			continue
		}
		if i+2 >= len(path) || !isHexDigit(path[i+1]) || !isHexDigit(path[i+2]) {
			return ErrInvalidPercentEscape
		}
		i += 2
	}
	return nil
}

func isHexDigit(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

// CanonicalizeAndValidateNavPath canonicalizes a navigation target.
// Navigation targets must be relative paths: absolute URLs and
// protocol-relative "//host" forms are rejected to prevent open redirects.
// The result keeps the query string and fragment.
func CanonicalizeAndValidateNavPath(path string) (string, error) {
	if strings.HasPrefix(path, "http://") ||
		strings.HasPrefix(path, "https://") ||
		strings.HasPrefix(path, "//") {
		return "", ErrInvalidPath
	}
	if !strings.HasPrefix(path, "/") {
		return "", ErrInvalidPath
	}

	result, err := CanonicalizePath(path)
	if err != nil {
		return "", err
	}

	out := result.Path
	if result.Query != "" {
		out += "?" + result.Query
	}
	if result.Hash != "" {
		out += "#" + result.Hash
	}
	return out, nil
}

// SplitPathAndQuery splits a path into path and query components.
// The query is returned without the leading "?".
func SplitPathAndQuery(input string) (path, query string) {
	path, query, _ = strings.Cut(input, "?")
	return path, query
}
