package vanilla

import (
	"context"
	"strings"
	"testing"

	"github.com/goliatone/go-framepanel/pkg/control"
	"github.com/goliatone/go-framepanel/pkg/render"
)

func buildTree(t *testing.T) (*control.Group, *control.Control) {
	t.Helper()

	root := control.NewGroup("Navigation")
	nested := control.NewGroup("Zoom", control.Collapsed())

	nav, err := control.New("navigate", []control.Field{
		{Name: "src", Type: control.FieldTypeText, Value: "https://a.example"},
		{Name: "muted", Type: control.FieldTypeCheckbox, Checked: true},
		{Name: "mode", Type: control.FieldTypeSelect, Options: []string{"tab", "window"}, Value: "tab"},
		{Name: "status", Type: control.FieldTypeDiv, Value: "idle"},
	}, control.WithButtonText("Go"))
	if err != nil {
		t.Fatalf("new control: %v", err)
	}

	if err := root.AddControl(nav); err != nil {
		t.Fatalf("add nav: %v", err)
	}
	if err := root.AddControl(nested); err != nil {
		t.Fatalf("add nested: %v", err)
	}
	return root, nav
}

func TestRender_ProducesDocument(t *testing.T) {
	root, nav := buildTree(t)

	r, err := New()
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}

	out, err := r.Render(context.Background(), root, render.Options{Title: "Frame Harness"})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	doc := string(out)

	for _, want := range []string{
		"<title>Frame Harness</title>",
		`data-depth="0"`,
		`data-depth="1"`,
		`value="https://a.example"`,
		`type="checkbox" id="muted" name="muted" checked`,
		`<option value="tab" selected>tab</option>`,
		`<div class="panel-output" id="status">idle</div>`,
		`<button type="submit">Go</button>`,
	} {
		if !strings.Contains(doc, want) {
			t.Errorf("document missing %q", want)
		}
	}

	if !nav.Rendered() {
		t.Fatal("render pass must mark controls rendered")
	}
}

func TestRender_CollapseAll(t *testing.T) {
	root, _ := buildTree(t)

	r, err := New()
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}

	out, err := r.Render(context.Background(), root, render.Options{CollapseAll: true})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if strings.Contains(string(out), "<details class=\"panel-group\" data-depth=\"0\" open") {
		t.Fatal("collapse-all must suppress the open attribute")
	}
}

func TestRender_AssignsDepths(t *testing.T) {
	a := control.NewGroup("A")
	b := control.NewGroup("B")
	c := control.NewGroup("C")
	if err := b.AddControl(c); err != nil {
		t.Fatalf("add c: %v", err)
	}
	if err := a.AddControl(b); err != nil {
		t.Fatalf("add b: %v", err)
	}

	r, err := New()
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	if _, err := r.Render(context.Background(), a, render.Options{}); err != nil {
		t.Fatalf("render: %v", err)
	}

	if b.Depth() != 1 || c.Depth() != 2 {
		t.Fatalf("depths = %d/%d, want 1/2", b.Depth(), c.Depth())
	}
}

func TestRender_SanitizesDivContent(t *testing.T) {
	root := control.NewGroup("Log")
	div, err := control.New("log", []control.Field{
		{Name: "tail", Type: control.FieldTypeDiv, Value: `<script>alert(1)</script>line`},
	}, control.EventOnly())
	if err != nil {
		t.Fatalf("new control: %v", err)
	}
	if err := root.AddControl(div); err != nil {
		t.Fatalf("add: %v", err)
	}

	r, err := New()
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	out, err := r.Render(context.Background(), root, render.Options{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	doc := string(out)

	if strings.Contains(doc, "<script>alert(1)</script>") {
		t.Fatal("script tag survived sanitization")
	}
	if !strings.Contains(doc, "line") {
		t.Fatal("text content stripped entirely")
	}
	if strings.Contains(doc, "<button") {
		t.Fatal("event control must not render a submit button")
	}
}

func TestRender_EventControlHasNoForm(t *testing.T) {
	root := control.NewGroup("State")
	state, err := control.New("frame-state", []control.Field{
		{Name: "url", Type: control.FieldTypeDiv, Label: "current url"},
		{Name: "note", Type: control.FieldTypeText, Label: "note"},
	}, control.EventOnly())
	if err != nil {
		t.Fatalf("new control: %v", err)
	}
	if err := root.AddControl(state); err != nil {
		t.Fatalf("add: %v", err)
	}

	r, err := New()
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	out, err := r.Render(context.Background(), root, render.Options{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	doc := string(out)

	// Enter inside an editable field of an event control must have no
	// implicit submission target.
	if strings.Contains(doc, "<form") {
		t.Fatal("event control rendered inside a form")
	}
	if !strings.Contains(doc, `<div class="panel-control" data-control="frame-state">`) {
		t.Fatalf("event control container missing:\n%s", doc)
	}
	if !state.Rendered() {
		t.Fatal("event control not marked rendered")
	}
}
