package router

import (
	"html"
	"html/template"
	"strings"
)

// Anchor attributes read by the thin client.
const (
	AttrLink        = "data-link"
	AttrReplace     = "data-replace"
	AttrNoScroll    = "data-no-scroll"
	AttrActiveClass = "data-active-class"
	AttrActiveExact = "data-active-exact"
)

// Link renders an anchor with client-side navigation.
// When clicked, the thin client intercepts and sends a navigate frame
// to the server instead of performing a full page reload.
func Link(href, label string) template.HTML {
	return anchor(href, label, AttrLink, "")
}

// ReplaceLink renders a link whose navigation replaces the current
// history entry instead of pushing a new one.
func ReplaceLink(href, label string) template.HTML {
	return anchor(href, label, AttrLink, AttrReplace)
}

// LinkWithoutScroll renders a link that keeps the scroll position.
func LinkWithoutScroll(href, label string) template.HTML {
	return anchor(href, label, AttrLink, AttrNoScroll)
}

// ActiveLink renders a link that carries activeClass when current matches href.
// With exact set, current must equal href; otherwise href is a prefix match.
// The class is also maintained client-side after live navigations.
func ActiveLink(href, label, activeClass, current string, exact bool) template.HTML {
	var b strings.Builder
	b.WriteString(`<a href="`)
	b.WriteString(html.EscapeString(href))
	b.WriteString(`" ` + AttrLink + ` ` + AttrActiveClass + `="`)
	b.WriteString(html.EscapeString(activeClass))
	b.WriteString(`"`)
	if exact {
		b.WriteString(` ` + AttrActiveExact)
	}
	if isActive(href, current, exact) {
		b.WriteString(` class="`)
		b.WriteString(html.EscapeString(activeClass))
		b.WriteString(`" aria-current="page"`)
	}
	b.WriteString(`>`)
	b.WriteString(html.EscapeString(label))
	b.WriteString(`</a>`)
	return template.HTML(b.String())
}

// NavLink is ActiveLink with an exact match and the "active" class.
func NavLink(href, label, current string) template.HTML {
	return ActiveLink(href, label, "active", current, true)
}

// isActive compares paths without their trailing slash, so a base root
// served as /crm and linked as /crm/ counts as the same page.
func isActive(href, current string, exact bool) bool {
	href = strings.TrimSuffix(href, "/")
	current = strings.TrimSuffix(current, "/")
	if exact {
		return href == current
	}
	return current == href || strings.HasPrefix(current, href+"/")
}

func anchor(href, label string, attrs ...string) template.HTML {
	var b strings.Builder
	b.WriteString(`<a href="`)
	b.WriteString(html.EscapeString(href))
	b.WriteString(`"`)
	for _, a := range attrs {
		if a == "" {
			continue
		}
		b.WriteString(" ")
		b.WriteString(a)
	}
	b.WriteString(`>`)
	b.WriteString(html.EscapeString(label))
	b.WriteString(`</a>`)
	return template.HTML(b.String())
}
