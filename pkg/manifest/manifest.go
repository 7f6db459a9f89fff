// Package manifest describes the navigation map as JSON for static hosts
// and publishes it to S3.
//
// A history-mode application must have every route URL served by the same
// document; the manifest lists those URLs so a CDN or static host can set
// up rewrites.
package manifest

import (
	"encoding/json"
	"time"

	"github.com/vango-dev/crmnav/internal/errors"
	"github.com/vango-dev/crmnav/pkg/routepath"
	"github.com/vango-dev/crmnav/pkg/router"
)

// ModeHistory is the only navigation mode the manifest describes.
const ModeHistory = "history"

// Route is one manifest entry.
type Route struct {
	Name  string `json:"name"`
	Path  string `json:"path"`
	Href  string `json:"href"`
	View  string `json:"view"`
	Title string `json:"title,omitempty"`
}

// Manifest is the published description of the navigation map.
type Manifest struct {
	Base        string     `json:"base"`
	Mode        string     `json:"mode"`
	Routes      []Route    `json:"routes"`
	GeneratedAt *time.Time `json:"generatedAt,omitempty"`
}

// FromRecords builds a manifest for records served under base.
// Routes keep the declaration order.
func FromRecords(base string, records []router.Record) *Manifest {
	base = routepath.NormalizeBase(base)
	m := &Manifest{
		Base:   routepath.JoinBase(base, "/"),
		Mode:   ModeHistory,
		Routes: make([]Route, 0, len(records)),
	}
	for _, rec := range records {
		m.Routes = append(m.Routes, Route{
			Name:  rec.Name,
			Path:  rec.Path,
			Href:  routepath.JoinBase(base, rec.Path),
			View:  router.ViewName(rec.View),
			Title: rec.Title,
		})
	}
	return m
}

// Stamp sets GeneratedAt and returns m.
func (m *Manifest) Stamp(t time.Time) *Manifest {
	t = t.UTC()
	m.GeneratedAt = &t
	return m
}

// Hrefs returns the full URL path of every route.
func (m *Manifest) Hrefs() []string {
	out := make([]string, len(m.Routes))
	for i, r := range m.Routes {
		out[i] = r.Href
	}
	return out
}

// JSON encodes the manifest with indentation.
func (m *Manifest) JSON() ([]byte, error) {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return nil, errors.New("E401").Wrap(err)
	}
	return append(data, '\n'), nil
}
