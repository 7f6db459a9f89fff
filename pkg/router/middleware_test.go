package router

import (
	"context"
	"errors"
	"testing"
)

func TestMiddlewareFuncHandle(t *testing.T) {
	called := false
	mw := MiddlewareFunc(func(ctx context.Context, tr *Transition, next func() error) error {
		called = true
		return next()
	})

	if err := mw.Handle(context.Background(), &Transition{}, func() error { return nil }); err != nil {
		t.Errorf("Handle() error = %v", err)
	}
	if !called {
		t.Error("middleware was not called")
	}
}

func TestComposeMiddlewareEmpty(t *testing.T) {
	called := false
	err := ComposeMiddleware(context.Background(), nil, nil, func() error {
		called = true
		return nil
	})
	if err != nil {
		t.Errorf("ComposeMiddleware() error = %v", err)
	}
	if !called {
		t.Error("handler was not called")
	}
}

func TestComposeMiddlewareOrder(t *testing.T) {
	var order []string
	record := func(name string) Middleware {
		return MiddlewareFunc(func(ctx context.Context, tr *Transition, next func() error) error {
			order = append(order, name+":before")
			err := next()
			order = append(order, name+":after")
			return err
		})
	}

	err := ComposeMiddleware(context.Background(), &Transition{}, []Middleware{record("a"), record("b")}, func() error {
		order = append(order, "handler")
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}

	want := []string{"a:before", "b:before", "handler", "b:after", "a:after"}
	if len(order) != len(want) {
		t.Fatalf("order = %v", order)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Errorf("order[%d] = %q, want %q", i, order[i], want[i])
		}
	}
}

func TestComposeMiddlewareStops(t *testing.T) {
	errBlocked := errors.New("blocked")
	block := MiddlewareFunc(func(ctx context.Context, tr *Transition, next func() error) error {
		return errBlocked
	})

	handlerCalled := false
	err := ComposeMiddleware(context.Background(), &Transition{}, []Middleware{block}, func() error {
		handlerCalled = true
		return nil
	})
	if !errors.Is(err, errBlocked) {
		t.Errorf("err = %v", err)
	}
	if handlerCalled {
		t.Error("handler should not run after a middleware error")
	}
}

func TestChain(t *testing.T) {
	count := 0
	inc := MiddlewareFunc(func(ctx context.Context, tr *Transition, next func() error) error {
		count++
		return next()
	})

	err := Chain(inc, inc, inc).Handle(context.Background(), &Transition{}, func() error { return nil })
	if err != nil {
		t.Fatal(err)
	}
	if count != 3 {
		t.Errorf("count = %d, want 3", count)
	}
}

func TestSkipAndOnly(t *testing.T) {
	ran := 0
	mw := MiddlewareFunc(func(ctx context.Context, tr *Transition, next func() error) error {
		ran++
		return next()
	})
	toNotes := &Transition{To: &MatchResult{Record: Record{Name: "Notes"}}}
	toLeads := &Transition{To: &MatchResult{Record: Record{Name: "Leads"}}}
	noop := func() error { return nil }
	ctx := context.Background()

	skip := Skip(ForRoute("Notes"), mw)
	_ = skip.Handle(ctx, toNotes, noop)
	_ = skip.Handle(ctx, toLeads, noop)
	if ran != 1 {
		t.Errorf("Skip: ran = %d, want 1", ran)
	}

	ran = 0
	only := Only(ForRoute("Notes"), mw)
	_ = only.Handle(ctx, toNotes, noop)
	_ = only.Handle(ctx, toLeads, noop)
	if ran != 1 {
		t.Errorf("Only: ran = %d, want 1", ran)
	}

	if ForRoute("Notes")(nil) {
		t.Error("ForRoute should be false for a nil transition")
	}
}

func TestTransitionValues(t *testing.T) {
	type key struct{}

	var nilTransition *Transition
	if nilTransition.Value(key{}) != nil {
		t.Error("Value on nil transition should be nil")
	}
	if nilTransition.RouteName() != "" {
		t.Error("RouteName on nil transition should be empty")
	}

	tr := &Transition{To: &MatchResult{Record: Record{Name: "Leads"}}}
	if tr.Value(key{}) != nil {
		t.Error("Value before SetValue should be nil")
	}

	writer := MiddlewareFunc(func(ctx context.Context, tr *Transition, next func() error) error {
		tr.SetValue(key{}, "seen")
		return next()
	})
	var got any
	reader := MiddlewareFunc(func(ctx context.Context, tr *Transition, next func() error) error {
		got = tr.Value(key{})
		return next()
	})

	if err := Chain(writer, reader).Handle(context.Background(), tr, func() error { return nil }); err != nil {
		t.Fatalf("Handle() error = %v", err)
	}
	if got != "seen" {
		t.Errorf("Value() = %v, want %q", got, "seen")
	}
	if tr.RouteName() != "Leads" {
		t.Errorf("RouteName() = %q, want Leads", tr.RouteName())
	}
}

func TestTransitionCommitted(t *testing.T) {
	var nilTransition *Transition
	if nilTransition.Committed() {
		t.Error("nil transition should not be committed")
	}

	tr := &Transition{}
	var afterNext bool
	observer := MiddlewareFunc(func(ctx context.Context, tr *Transition, next func() error) error {
		err := next()
		afterNext = tr.Committed()
		return err
	})

	err := ComposeMiddleware(context.Background(), tr, []Middleware{observer}, func() error {
		tr.Commit()
		return nil
	})
	if err != nil {
		t.Fatalf("ComposeMiddleware() error = %v", err)
	}
	if !afterNext {
		t.Error("middleware should observe the commit after next returns")
	}
}
