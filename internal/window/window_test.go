package window

import (
	"errors"
	"testing"
)

type fakeWindow struct {
	visible bool
	focused bool
	shows   int
	hides   int
	focuses int
	showErr error
}

func (f *fakeWindow) Show() error {
	f.shows++
	if f.showErr != nil {
		return f.showErr
	}
	f.visible = true
	return nil
}

func (f *fakeWindow) Hide() error {
	f.hides++
	f.visible = false
	f.focused = false
	return nil
}

func (f *fakeWindow) Focus() error {
	f.focuses++
	f.focused = true
	return nil
}

func finderFor(w *fakeWindow) Finder {
	return FinderFunc(func(name string) (Window, bool) {
		if name != "main" || w == nil {
			return nil, false
		}
		return w, true
	})
}

func TestShowAndFocusFromHidden(t *testing.T) {
	w := &fakeWindow{}
	c := NewController("main", finderFor(w), Hidden, nil)

	res := c.ShowAndFocus()
	if res.Outcome != OutcomeShown || res.Err != nil {
		t.Fatalf("unexpected result: %+v", res)
	}
	if c.State() != Visible || !c.Focused() {
		t.Fatalf("expected visible+focused, got %s focused=%v", c.State(), c.Focused())
	}
	if !w.visible || !w.focused {
		t.Fatal("platform window not shown and focused")
	}
}

func TestShowAndFocusIsIdempotent(t *testing.T) {
	w := &fakeWindow{visible: true}
	c := NewController("main", finderFor(w), Visible, nil)

	for i := 0; i < 3; i++ {
		res := c.ShowAndFocus()
		if res.Outcome != OutcomeAlreadyVisible || res.Err != nil {
			t.Fatalf("call %d: unexpected result %+v", i, res)
		}
	}
	if c.State() != Visible {
		t.Fatalf("expected visible, got %s", c.State())
	}
	if w.shows != 0 {
		t.Fatalf("expected no show calls on a visible window, got %d", w.shows)
	}
}

func TestShowAndFocusMissingWindow(t *testing.T) {
	c := NewController("main", finderFor(nil), Hidden, nil)

	res := c.ShowAndFocus()
	if res.Outcome != OutcomeNotFound {
		t.Fatalf("expected not-found, got %s", res.Outcome)
	}
	if res.Err != nil {
		t.Fatalf("missing window must not surface an error, got %v", res.Err)
	}
	if c.State() != Hidden {
		t.Fatalf("state changed on missing window: %s", c.State())
	}
}

func TestShowAndFocusPlatformFailure(t *testing.T) {
	boom := errors.New("boom")
	w := &fakeWindow{showErr: boom}
	c := NewController("main", finderFor(w), Hidden, nil)

	res := c.ShowAndFocus()
	if res.Outcome != OutcomeFailed || !errors.Is(res.Err, boom) {
		t.Fatalf("unexpected result: %+v", res)
	}
	if res.OK() {
		t.Fatal("failed result reported OK")
	}
	if c.State() != Hidden {
		t.Fatalf("state changed on failure: %s", c.State())
	}
}

func TestCloseRequestAlwaysHides(t *testing.T) {
	w := &fakeWindow{visible: true}
	c := NewController("main", finderFor(w), Visible, nil)
	hidden := 0
	c.OnHidden = func() { hidden++ }

	for i := 0; i < 5; i++ {
		if !c.HandleCloseRequest() {
			t.Fatalf("close request %d was not prevented", i)
		}
		if c.State() != Hidden {
			t.Fatalf("close request %d left window %s", i, c.State())
		}
		if i%2 == 0 {
			c.ShowAndFocus()
		}
	}
	if hidden != 5 {
		t.Fatalf("expected OnHidden 5 times, got %d", hidden)
	}
}

func TestCloseRequestWhenWindowGone(t *testing.T) {
	c := NewController("main", finderFor(nil), Visible, nil)
	if !c.HandleCloseRequest() {
		t.Fatal("close must be prevented even when the window lookup fails")
	}
	if c.State() != Hidden {
		t.Fatalf("expected hidden, got %s", c.State())
	}
}

func TestCloseAllowedWhileQuitting(t *testing.T) {
	w := &fakeWindow{visible: true}
	c := NewController("main", finderFor(w), Visible, nil)
	c.BeginQuit()

	if c.HandleCloseRequest() {
		t.Fatal("close must not be prevented while quitting")
	}
	if w.hides != 0 {
		t.Fatal("window hidden during quit")
	}
}

func TestWailsFinderBeforeAttach(t *testing.T) {
	f := NewWailsFinder("main")
	if _, ok := f.Window("main"); ok {
		t.Fatal("expected no window before Attach")
	}
	c := NewController("main", f, Hidden, nil)
	if res := c.ShowAndFocus(); res.Outcome != OutcomeNotFound {
		t.Fatalf("expected not-found before startup, got %s", res.Outcome)
	}
	if _, ok := f.Window("settings"); ok {
		t.Fatal("expected unknown window names to be absent")
	}
}
