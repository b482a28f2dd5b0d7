package logging

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/zap"
)

func TestTailCapturesEntries(t *testing.T) {
	tail := NewTail(8)
	logger := NewWithTail(tail)

	logger.Warn("capability missing", zap.String("capability", "zoom"))
	logger.Event("loadstart", zap.String("url", "https://a.example"))

	entries := tail.Entries()
	if len(entries) != 2 {
		t.Fatalf("captured %d entries, want 2", len(entries))
	}

	if entries[0].Level != "warn" || entries[0].Message != "capability missing" {
		t.Fatalf("unexpected first entry: %+v", entries[0])
	}
	if entries[0].Fields["capability"] != "zoom" {
		t.Fatalf("warn fields = %v", entries[0].Fields)
	}

	if entries[1].Level != "event" {
		t.Fatalf("event entry level = %q, want event", entries[1].Level)
	}
	if _, leaked := entries[1].Fields[eventKey]; leaked {
		t.Fatal("event tag must not leak into captured fields")
	}
}

func TestTailRingBounds(t *testing.T) {
	tail := NewTail(3)
	logger := NewWithTail(tail)

	for _, msg := range []string{"a", "b", "c", "d", "e"} {
		logger.Info(msg)
	}

	var got []string
	for _, entry := range tail.Entries() {
		got = append(got, entry.Message)
	}
	if diff := cmp.Diff([]string{"c", "d", "e"}, got); diff != "" {
		t.Fatalf("ring contents mismatch (-want +got):\n%s", diff)
	}
}

func TestTailSubscribe(t *testing.T) {
	tail := NewTail(8)
	logger := NewWithTail(tail)

	var live []string
	cancel := tail.Subscribe(func(e Entry) { live = append(live, e.Message) })

	logger.Info("one")
	cancel()
	logger.Info("two")

	if diff := cmp.Diff([]string{"one"}, live); diff != "" {
		t.Fatalf("subscription mismatch (-want +got):\n%s", diff)
	}
}
