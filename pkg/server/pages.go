package server

import (
	"bytes"
	"context"
	stderrors "errors"
	"html/template"
	"net/http"

	"github.com/vango-dev/crmnav/internal/errors"
	"github.com/vango-dev/crmnav/pkg/history"
	"github.com/vango-dev/crmnav/pkg/navigation"
	"github.com/vango-dev/crmnav/pkg/routepath"
	"github.com/vango-dev/crmnav/pkg/router"
)

var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{.Title}}</title>
<script defer src="{{.ClientSrc}}"></script>
</head>
<body data-nav-base="{{.Base}}" data-nav-live="{{.LiveSrc}}">
<nav class="crm-nav">{{range .Links}}{{.}}{{end}}</nav>
<main id="nav-outlet" data-route="{{.Route}}">{{.Content}}</main>
</body>
</html>
`))

var notFoundTemplate = template.Must(template.New("not-found").Parse(
	`<section class="view" data-view="NotFound"><h1>Page not found</h1>` +
		`<p>Nothing is declared at <code>{{.}}</code>.</p></section>`))

type page struct {
	Title     string
	Base      string
	ClientSrc string
	LiveSrc   string
	Links     []template.HTML
	Route     string
	Content   template.HTML
}

// layout renders the shell shared by every route.
type layout struct {
	appName string
	base    string
	routes  []router.Record
}

func newLayout(appName, base string, nav *navigation.Controller) *layout {
	return &layout{appName: appName, base: base, routes: nav.Routes()}
}

// title returns the document title for a route title.
func (l *layout) title(routeTitle string) string {
	if routeTitle == "" {
		return l.appName
	}
	return routeTitle + " · " + l.appName
}

func (l *layout) render(w *bytes.Buffer, route, title, current string, content template.HTML) error {
	links := make([]template.HTML, 0, len(l.routes))
	for _, rec := range l.routes {
		links = append(links, router.NavLink(routepath.JoinBase(l.base, rec.Path), rec.DisplayTitle(), current))
	}
	return pageTemplate.Execute(w, page{
		Title:     l.title(title),
		Base:      routepath.JoinBase(l.base, "/"),
		ClientSrc: l.base + PathClient,
		LiveSrc:   l.base + PathLive,
		Links:     links,
		Route:     route,
		Content:   content,
	})
}

// renderView renders a location's view into an HTML fragment.
func renderView(ctx context.Context, loc *navigation.Location) (template.HTML, error) {
	var buf bytes.Buffer
	if err := loc.Record.View.Render(ctx, &buf); err != nil {
		return "", errors.New("E301").
			WithDetail("View " + router.ViewName(loc.Record.View) + " failed for " + loc.FullPath).
			Wrap(err)
	}
	return template.HTML(buf.String()), nil
}

func renderNotFound(path string) template.HTML {
	var buf bytes.Buffer
	_ = notFoundTemplate.Execute(&buf, path)
	return template.HTML(buf.String())
}

// servePage renders a route on first load. The location goes through the
// same controller path as a live navigation, in load mode.
func (s *Server) servePage(w http.ResponseWriter, r *http.Request) {
	ctrl := s.nav.Clone(history.NewWebHistoryAt(s.base, r.URL.RequestURI()))
	loc, err := ctrl.Start(r.Context())

	switch {
	case err == nil:
	case stderrors.Is(err, router.ErrNoMatch):
		s.config.Metrics.RecordUnmatched(navigation.ModeLoad)
		s.writeNotFound(w, r)
		return
	default:
		s.logger.Warn("page navigation failed", "path", r.URL.Path, "error", err)
		http.Error(w, "Navigation failed", http.StatusInternalServerError)
		return
	}

	content, err := renderView(r.Context(), loc)
	if err != nil {
		s.logger.Error("render failed", "route", loc.Name(), "error", err)
		http.Error(w, "Render failed", http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	current := routepath.JoinBase(s.base, loc.Record.Path)
	if err := s.layout.render(&buf, loc.Name(), loc.Record.DisplayTitle(), current, content); err != nil {
		s.logger.Error("layout failed", "route", loc.Name(), "error", err)
		http.Error(w, "Render failed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(http.StatusOK)
	if r.Method != http.MethodHead {
		_, _ = w.Write(buf.Bytes())
	}
}

// serveOutsideBase answers requests for paths outside the base path.
func (s *Server) serveOutsideBase(w http.ResponseWriter, r *http.Request) {
	s.writeNotFound(w, r)
}

func (s *Server) writeNotFound(w http.ResponseWriter, r *http.Request) {
	s.config.Metrics.RecordNotFound()

	var buf bytes.Buffer
	if err := s.layout.render(&buf, "", "Not found", "", renderNotFound(r.URL.Path)); err != nil {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusNotFound)
	if r.Method != http.MethodHead {
		_, _ = w.Write(buf.Bytes())
	}
}
