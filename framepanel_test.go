package framepanel

import (
	"context"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-framepanel/pkg/frame/sim"
)

func TestDefaultRegistryHoldsBuiltins(t *testing.T) {
	registry, err := DefaultRegistry()
	if err != nil {
		t.Fatalf("DefaultRegistry: %v", err)
	}
	if diff := cmp.Diff([]string{"tui", "vanilla"}, registry.List()); diff != "" {
		t.Errorf("renderer list mismatch (-want +got):\n%s", diff)
	}
}

func TestGenerateRendersDocument(t *testing.T) {
	host := sim.New(sim.WithStartURL("https://example.com/"))

	out, err := Generate(context.Background(), host, "vanilla", RenderOptions{Title: "Harness"})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	doc := string(out)
	if !strings.Contains(doc, "Harness") {
		t.Error("document missing title")
	}
	if !strings.Contains(doc, "https://example.com/") {
		t.Error("document missing start url")
	}
}

func TestGenerateUnknownRenderer(t *testing.T) {
	host := sim.New()
	if _, err := Generate(context.Background(), host, "gopher-tv", RenderOptions{}); err == nil {
		t.Fatal("expected unknown renderer error")
	}
}
