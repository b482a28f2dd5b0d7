package control

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func renderedControl(t *testing.T, name string, fields []Field, options ...Option) *Control {
	t.Helper()
	c, err := New(name, fields, options...)
	if err != nil {
		t.Fatalf("new control: %v", err)
	}
	c.MarkRendered()
	return c
}

func TestNew_FailsWithoutWidgetID(t *testing.T) {
	cases := []struct {
		name   string
		ctl    string
		fields []Field
	}{
		{name: "no name no fields", ctl: "", fields: nil},
		{name: "unnamed first field", ctl: "", fields: []Field{{Type: FieldTypeText}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := New(tc.ctl, tc.fields); !errors.Is(err, ErrNoWidgetID) {
				t.Fatalf("expected ErrNoWidgetID, got %v", err)
			}
		})
	}
}

func TestNew_RejectsUnknownFieldType(t *testing.T) {
	_, err := New("probe", []Field{{Name: "x", Type: FieldType("slider")}})
	if err == nil {
		t.Fatal("expected error for unsupported field type")
	}
}

func TestNew_RejectsDuplicateFieldIDs(t *testing.T) {
	_, err := New("probe", []Field{
		{Name: "src", Type: FieldTypeText},
		{Name: "other", ID: "src", Type: FieldTypeText},
	})
	if err == nil {
		t.Fatal("expected duplicate id error")
	}
}

func TestGetFieldValue_InitialTextValue(t *testing.T) {
	c := renderedControl(t, "", []Field{
		{Name: "src", Type: FieldTypeText, Value: "https://a.com"},
	})

	got, err := c.GetFieldValue(context.Background(), "src")
	if err != nil {
		t.Fatalf("get field value: %v", err)
	}
	if got.Text != "https://a.com" {
		t.Fatalf("initial value = %q, want %q", got.Text, "https://a.com")
	}

	if err := c.UpdateFieldValue(context.Background(), "src", TextValue("https://b.com")); err != nil {
		t.Fatalf("update field value: %v", err)
	}
	got, err = c.GetFieldValue(context.Background(), "src")
	if err != nil {
		t.Fatalf("get after update: %v", err)
	}
	if got.Text != "https://b.com" {
		t.Fatalf("updated value = %q, want %q", got.Text, "https://b.com")
	}
}

func TestCheckboxRoundTrip(t *testing.T) {
	c := renderedControl(t, "mute", []Field{
		{Name: "enabled", Type: FieldTypeCheckbox},
	})
	ctx := context.Background()

	for _, want := range []bool{true, false, true} {
		if err := c.UpdateFieldValue(ctx, "enabled", BoolValue(want)); err != nil {
			t.Fatalf("update: %v", err)
		}
		got, err := c.GetFieldValue(ctx, "enabled")
		if err != nil {
			t.Fatalf("get: %v", err)
		}
		if got.Bool != want {
			t.Fatalf("checkbox = %v, want %v", got.Bool, want)
		}
	}
}

func TestUpdateFieldValue_SelectIsNoOp(t *testing.T) {
	c := renderedControl(t, "", []Field{
		{Name: "mode", Type: FieldTypeSelect, Options: []string{"a", "b"}, Value: "a"},
	})
	ctx := context.Background()

	if err := c.UpdateFieldValue(ctx, "mode", TextValue("b")); err != nil {
		t.Fatalf("select update should be a silent no-op, got %v", err)
	}
	got, err := c.GetFieldValue(ctx, "mode")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Text != "a" {
		t.Fatalf("select value = %q, want untouched %q", got.Text, "a")
	}
}

func TestApplyFieldValue_SelectRecordsUserChoice(t *testing.T) {
	c := renderedControl(t, "", []Field{
		{Name: "mode", Type: FieldTypeSelect, Options: []string{"a", "b"}, Value: "a"},
	})
	ctx := context.Background()

	if err := c.ApplyFieldValue(ctx, "mode", TextValue("b")); err != nil {
		t.Fatalf("apply: %v", err)
	}
	got, err := c.GetFieldValue(ctx, "mode")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Text != "b" {
		t.Fatalf("select value = %q, want %q", got.Text, "b")
	}

	// The programmatic write path stays a no-op.
	if err := c.UpdateFieldValue(ctx, "mode", TextValue("a")); err != nil {
		t.Fatalf("update: %v", err)
	}
	got, err = c.GetFieldValue(ctx, "mode")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Text != "b" {
		t.Fatalf("select value = %q, want %q after programmatic no-op", got.Text, "b")
	}
}

func TestApplyFieldValue_MultiSelect(t *testing.T) {
	c := renderedControl(t, "", []Field{
		{Name: "tags", Type: FieldTypeSelect, Options: []string{"a", "b", "c"}, Multiple: true},
	})
	ctx := context.Background()

	if err := c.ApplyFieldValue(ctx, "tags", TextsValue("a", "c")); err != nil {
		t.Fatalf("apply: %v", err)
	}
	got, err := c.GetFieldValue(ctx, "tags")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if diff := cmp.Diff([]string{"a", "c"}, got.Texts); diff != "" {
		t.Fatalf("multi-select mismatch (-want +got):\n%s", diff)
	}
}

func TestApplyFieldValue_UnknownField(t *testing.T) {
	c := renderedControl(t, "probe", []Field{{Name: "src", Type: FieldTypeText}})
	err := c.ApplyFieldValue(context.Background(), "missing", TextValue("x"))
	if !errors.Is(err, ErrFieldNotFound) {
		t.Fatalf("err = %v, want ErrFieldNotFound", err)
	}
}

func TestGetFieldValue_UnknownField(t *testing.T) {
	c := renderedControl(t, "probe", []Field{{Name: "src", Type: FieldTypeText}})
	if _, err := c.GetFieldValue(context.Background(), "missing"); !errors.Is(err, ErrFieldNotFound) {
		t.Fatalf("expected ErrFieldNotFound, got %v", err)
	}
}

func TestGetFieldValue_WaitsForFirstRender(t *testing.T) {
	c, err := New("probe", []Field{{Name: "src", Type: FieldTypeText, Value: "x"}})
	if err != nil {
		t.Fatalf("new control: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if _, err := c.GetFieldValue(ctx, "src"); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded before render, got %v", err)
	}

	done := make(chan Value, 1)
	go func() {
		v, err := c.GetFieldValue(context.Background(), "src")
		if err != nil {
			t.Errorf("get after render: %v", err)
		}
		done <- v
	}()

	c.MarkRendered()
	select {
	case v := <-done:
		if v.Text != "x" {
			t.Fatalf("value = %q, want %q", v.Text, "x")
		}
	case <-time.After(time.Second):
		t.Fatal("reader never unblocked after MarkRendered")
	}
}

func TestSubmit_NoHandlerWarnsAndDoesNotFail(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	c := renderedControl(t, "probe",
		[]Field{{Name: "src", Type: FieldTypeText}},
		WithLogger(zap.New(core)),
	)

	if err := c.Submit(context.Background()); err != nil {
		t.Fatalf("submit without handler should succeed, got %v", err)
	}
	if got := logs.FilterMessage("submit with no bound handler").Len(); got != 1 {
		t.Fatalf("warning logged %d times, want 1", got)
	}
}

func TestSubmit_InvokesHandlerOnceWithControl(t *testing.T) {
	c := renderedControl(t, "probe", []Field{{Name: "src", Type: FieldTypeText}})

	calls := 0
	var seen *Control
	c.SetButtonHandler(func(_ context.Context, ctl *Control) error {
		calls++
		seen = ctl
		return nil
	})

	if err := c.Submit(context.Background()); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if calls != 1 {
		t.Fatalf("handler invoked %d times, want 1", calls)
	}
	if seen != c {
		t.Fatal("handler did not receive the control itself")
	}
}

func TestSetButtonHandler_LastWriteWins(t *testing.T) {
	c := renderedControl(t, "probe", []Field{{Name: "src", Type: FieldTypeText}})

	var order []string
	c.SetButtonHandler(func(context.Context, *Control) error {
		order = append(order, "first")
		return nil
	})
	c.SetButtonHandler(func(context.Context, *Control) error {
		order = append(order, "second")
		return nil
	})

	if err := c.Submit(context.Background()); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if diff := cmp.Diff([]string{"second"}, order); diff != "" {
		t.Fatalf("handler order mismatch (-want +got):\n%s", diff)
	}
}

func TestFields_PreservesDescriptorOrder(t *testing.T) {
	fields := []Field{
		{Name: "one", Type: FieldTypeText},
		{Name: "two", Type: FieldTypeCheckbox},
		{Name: "three", Type: FieldTypeDiv},
	}
	c := renderedControl(t, "ordered", fields)

	var got []string
	for _, f := range c.Fields() {
		got = append(got, f.Name)
	}
	if diff := cmp.Diff([]string{"one", "two", "three"}, got); diff != "" {
		t.Fatalf("field order mismatch (-want +got):\n%s", diff)
	}
}

func TestMultiSelectInitialValue(t *testing.T) {
	c := renderedControl(t, "", []Field{
		{Name: "tags", Type: FieldTypeSelect, Options: []string{"a", "b"}, Multiple: true},
	})
	got, err := c.GetFieldValue(context.Background(), "tags")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !got.IsTexts() || len(got.Texts) != 0 {
		t.Fatalf("expected empty multi-select set, got %+v", got)
	}
}
