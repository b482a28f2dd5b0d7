package control

import (
	"fmt"
	"strings"
)

// FieldType enumerates the supported input widget kinds. The set is closed:
// constructors reject descriptors carrying an unlisted type instead of
// falling back to a plain text input.
type FieldType string

const (
	FieldTypeText     FieldType = "text"
	FieldTypeNumber   FieldType = "number"
	FieldTypeCheckbox FieldType = "checkbox"
	FieldTypeSelect   FieldType = "select"
	FieldTypeDiv      FieldType = "div"
	FieldTypeTextArea FieldType = "textarea"
)

// Valid reports whether the field type is one of the supported variants.
func (t FieldType) Valid() bool {
	switch t {
	case FieldTypeText, FieldTypeNumber, FieldTypeCheckbox, FieldTypeSelect,
		FieldTypeDiv, FieldTypeTextArea:
		return true
	}
	return false
}

// Field is the declarative descriptor for a single labeled input widget.
// Name doubles as the default label and widget id; ID overrides the widget id
// when two controls would otherwise collide.
type Field struct {
	Name    string    `json:"name" yaml:"name"`
	Type    FieldType `json:"type" yaml:"type"`
	Label   string    `json:"label,omitempty" yaml:"label,omitempty"`
	Value   string    `json:"value,omitempty" yaml:"value,omitempty"`
	Checked bool      `json:"checked,omitempty" yaml:"checked,omitempty"`
	// Options lists the choices for select fields, in display order.
	Options []string `json:"options,omitempty" yaml:"options,omitempty"`
	// Multiple permits simultaneous selections on a select field.
	Multiple bool   `json:"multiple,omitempty" yaml:"multiple,omitempty"`
	ID       string `json:"id,omitempty" yaml:"id,omitempty"`
}

// WidgetID resolves the identifier widgets and value lookups key on.
func (f Field) WidgetID() string {
	if id := strings.TrimSpace(f.ID); id != "" {
		return id
	}
	return strings.TrimSpace(f.Name)
}

// DisplayLabel resolves the label text shown next to the widget.
func (f Field) DisplayLabel() string {
	if label := strings.TrimSpace(f.Label); label != "" {
		return label
	}
	return strings.TrimSpace(f.Name)
}

func (f Field) validate() error {
	if !f.Type.Valid() {
		return fmt.Errorf("control: field %q has unsupported type %q", f.Name, f.Type)
	}
	if f.Type == FieldTypeCheckbox && f.Value != "" {
		return fmt.Errorf("control: checkbox field %q must use Checked, not Value", f.Name)
	}
	if f.Type != FieldTypeSelect && (len(f.Options) > 0 || f.Multiple) {
		return fmt.Errorf("control: field %q sets select attributes on type %q", f.Name, f.Type)
	}
	return nil
}

// Value is the typed state extracted from a rendered widget. Exactly one
// variant is populated, matching the field type: Bool for checkboxes, Texts
// for multi-selects, Text for everything else.
type Value struct {
	Text  string
	Texts []string
	Bool  bool

	kind FieldType
}

// TextValue wraps a scalar string value.
func TextValue(s string) Value { return Value{Text: s, kind: FieldTypeText} }

// BoolValue wraps a checkbox state.
func BoolValue(b bool) Value { return Value{Bool: b, kind: FieldTypeCheckbox} }

// TextsValue wraps a multi-select state.
func TextsValue(values ...string) Value {
	return Value{Texts: append([]string{}, values...), kind: FieldTypeSelect}
}

// IsBool reports whether the value carries checkbox state.
func (v Value) IsBool() bool { return v.kind == FieldTypeCheckbox }

// IsTexts reports whether the value carries a multi-select set.
func (v Value) IsTexts() bool { return v.kind == FieldTypeSelect && v.Texts != nil }

// String renders the value for logs and div regions.
func (v Value) String() string {
	switch {
	case v.IsBool():
		if v.Bool {
			return "true"
		}
		return "false"
	case v.IsTexts():
		return strings.Join(v.Texts, ", ")
	default:
		return v.Text
	}
}
