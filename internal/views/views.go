package views

import (
	"context"
	"html/template"
	"io"

	"github.com/vango-dev/crmnav/pkg/router"
)

var fragment = template.Must(template.New("view").Parse(
	`<section class="view" data-view="{{.Name}}">` +
		`<h1>{{.Heading}}</h1>` +
		`<p>{{.Summary}}</p>` +
		`</section>`))

// View is a static screen rendered from a shared fragment template.
type View struct {
	name    string
	heading string
	summary string
}

var (
	_ router.View = (*View)(nil)

	// Home is the landing screen.
	Home = &View{name: "Home", heading: "Home", summary: "Overview of your pipeline."}

	// HelloWorld is the screen shown for leads.
	HelloWorld = &View{name: "HelloWorld", heading: "Leads", summary: "Prospects you have not converted yet."}

	// Contact lists people and companies.
	Contact = &View{name: "Contact", heading: "Contacts", summary: "People and companies you work with."}

	// Notes lists free-form notes.
	Notes = &View{name: "Notes", heading: "Notes", summary: "Notes taken during calls and meetings."}

	// Reminders lists follow-ups.
	Reminders = &View{name: "Reminders", heading: "Reminders", summary: "Follow-ups that are due soon."}
)

// All returns every screen in navigation order.
func All() []*View {
	return []*View{Home, HelloWorld, Contact, Notes, Reminders}
}

// ViewName returns the screen's identifier.
func (v *View) ViewName() string {
	return v.name
}

// Heading returns the screen's title.
func (v *View) Heading() string {
	return v.heading
}

// Render writes the screen's fragment to w.
func (v *View) Render(ctx context.Context, w io.Writer) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return fragment.Execute(w, struct {
		Name, Heading, Summary string
	}{v.name, v.heading, v.summary})
}
