package render

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/goliatone/go-framepanel/pkg/control"
)

type fakeRenderer struct{ name string }

func (f fakeRenderer) Name() string        { return f.name }
func (f fakeRenderer) ContentType() string { return "text/plain" }
func (f fakeRenderer) Render(context.Context, *control.Group, Options) ([]byte, error) {
	return []byte(f.name), nil
}

func TestRegistry_RegisterAndGet(t *testing.T) {
	reg := NewRegistry()

	if err := reg.Register(fakeRenderer{name: "html"}); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := reg.Register(fakeRenderer{name: "html"}); err == nil {
		t.Fatal("duplicate registration must fail")
	}
	if err := reg.Register(fakeRenderer{}); err == nil {
		t.Fatal("empty renderer name must fail")
	}
	if err := reg.Register(nil); err == nil {
		t.Fatal("nil renderer must fail")
	}

	got, err := reg.Get("html")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Name() != "html" {
		t.Fatalf("got renderer %q", got.Name())
	}

	if _, err := reg.Get("missing"); err == nil {
		t.Fatal("missing renderer must fail")
	}
}

func TestRegistry_ListSorted(t *testing.T) {
	reg := NewRegistry()
	for _, name := range []string{"tui", "html", "json"} {
		if err := reg.Register(fakeRenderer{name: name}); err != nil {
			t.Fatalf("register %q: %v", name, err)
		}
	}
	if diff := cmp.Diff([]string{"html", "json", "tui"}, reg.List()); diff != "" {
		t.Fatalf("list mismatch (-want +got):\n%s", diff)
	}
	if !reg.Has("tui") || reg.Has("absent") {
		t.Fatal("Has reported wrong membership")
	}
}
