// Package definition loads declarative panel layouts from JSON/YAML files
// and compiles them into control trees. Definitions describe structure only;
// handlers and refreshers are bound afterwards by id.
package definition

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-framepanel/pkg/control"
)

// Panel is a parsed panel definition.
type Panel struct {
	Title  string     `json:"title" yaml:"title"`
	Source string     `json:"-" yaml:"-"`
	Groups []GroupDef `json:"groups" yaml:"groups"`
}

// GroupDef describes a collapsible group and its children.
type GroupDef struct {
	Heading   string       `json:"heading" yaml:"heading"`
	Collapsed bool         `json:"collapsed" yaml:"collapsed"`
	Groups    []GroupDef   `json:"groups" yaml:"groups"`
	Controls  []ControlDef `json:"controls" yaml:"controls"`
}

// ControlDef describes a single control.
type ControlDef struct {
	Name       string     `json:"name" yaml:"name"`
	ButtonText string     `json:"buttonText" yaml:"buttonText"`
	EventOnly  bool       `json:"eventOnly" yaml:"eventOnly"`
	Fields     []FieldDef `json:"fields" yaml:"fields"`
}

// FieldDef describes one field of a control.
type FieldDef struct {
	Name     string   `json:"name" yaml:"name"`
	ID       string   `json:"id" yaml:"id"`
	Type     string   `json:"type" yaml:"type"`
	Label    string   `json:"label" yaml:"label"`
	Value    string   `json:"value" yaml:"value"`
	Checked  bool     `json:"checked" yaml:"checked"`
	Options  []string `json:"options" yaml:"options"`
	Multiple bool     `json:"multiple" yaml:"multiple"`
}

// Store holds panels loaded from a filesystem, keyed by a normalized id
// derived from the file path.
type Store struct {
	panels map[string]Panel
}

// LoadFS walks the provided filesystem and parses JSON/YAML panel files.
// When fsys is nil or no definition files are present, the returned store
// is empty.
func LoadFS(fsys fs.FS) (*Store, error) {
	store := &Store{panels: make(map[string]Panel)}
	if fsys == nil {
		return store, nil
	}

	err := fs.WalkDir(fsys, ".", func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if entry.IsDir() {
			return nil
		}
		if !isDefinitionFile(path) {
			return nil
		}

		data, err := fs.ReadFile(fsys, path)
		if err != nil {
			return fmt.Errorf("definition: read %s: %w", path, err)
		}

		panel, err := parsePanel(data, path)
		if err != nil {
			return err
		}
		panel.Source = path

		id := panelID(path)
		if _, exists := store.panels[id]; exists {
			return fmt.Errorf("definition: duplicate panel %q (file %s)", id, path)
		}
		store.panels[id] = panel
		return nil
	})
	if err != nil {
		return nil, err
	}

	return store, nil
}

// Panel returns the definition stored under the supplied id.
func (s *Store) Panel(id string) (Panel, bool) {
	if s == nil {
		return Panel{}, false
	}
	panel, ok := s.panels[id]
	return panel, ok
}

// IDs lists the panel ids the store holds.
func (s *Store) IDs() []string {
	if s == nil {
		return nil
	}
	ids := make([]string, 0, len(s.panels))
	for id := range s.panels {
		ids = append(ids, id)
	}
	return ids
}

// Empty reports whether the store holds any panels.
func (s *Store) Empty() bool {
	return s == nil || len(s.panels) == 0
}

func isDefinitionFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".yaml", ".yml":
		return true
	default:
		return false
	}
}

func panelID(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func parsePanel(data []byte, source string) (Panel, error) {
	if len(strings.TrimSpace(string(data))) == 0 {
		return Panel{}, fmt.Errorf("definition: file %s is empty", source)
	}

	var panel Panel
	if strings.EqualFold(filepath.Ext(source), ".json") {
		if err := json.Unmarshal(data, &panel); err != nil {
			return Panel{}, fmt.Errorf("definition: parse %s: %w", source, err)
		}
		return panel, nil
	}
	if err := yaml.Unmarshal(data, &panel); err != nil {
		return Panel{}, fmt.Errorf("definition: parse %s: %w", source, err)
	}
	return panel, nil
}

// Compile turns the panel definition into a control tree. Every control
// keeps the default noop behaviour until a handler is bound by id.
func (p Panel) Compile(options ...control.Option) (*control.Group, error) {
	root := control.NewGroup(rootHeading(p))
	for _, def := range p.Groups {
		child, err := compileGroup(def, options)
		if err != nil {
			return nil, err
		}
		if err := root.AddControl(child); err != nil {
			return nil, err
		}
	}
	root.AssignDepths(0)
	return root, nil
}

func rootHeading(p Panel) string {
	if strings.TrimSpace(p.Title) != "" {
		return p.Title
	}
	return "Panel"
}

func compileGroup(def GroupDef, options []control.Option) (*control.Group, error) {
	if strings.TrimSpace(def.Heading) == "" {
		return nil, fmt.Errorf("definition: group requires a heading")
	}

	groupOpts := []control.GroupOption{}
	if def.Collapsed {
		groupOpts = append(groupOpts, control.Collapsed())
	}
	group := control.NewGroup(def.Heading, groupOpts...)

	for _, nested := range def.Groups {
		child, err := compileGroup(nested, options)
		if err != nil {
			return nil, err
		}
		if err := group.AddControl(child); err != nil {
			return nil, err
		}
	}

	for _, controlDef := range def.Controls {
		child, err := compileControl(controlDef, options)
		if err != nil {
			return nil, err
		}
		if err := group.AddControl(child); err != nil {
			return nil, err
		}
	}

	return group, nil
}

func compileControl(def ControlDef, extra []control.Option) (*control.Control, error) {
	if strings.TrimSpace(def.Name) == "" {
		return nil, fmt.Errorf("definition: control requires a name")
	}

	fields := make([]control.Field, 0, len(def.Fields))
	for _, fieldDef := range def.Fields {
		field, err := compileField(def.Name, fieldDef)
		if err != nil {
			return nil, err
		}
		fields = append(fields, field)
	}

	opts := make([]control.Option, 0, len(extra)+2)
	opts = append(opts, extra...)
	if def.ButtonText != "" {
		opts = append(opts, control.WithButtonText(def.ButtonText))
	}
	if def.EventOnly {
		opts = append(opts, control.EventOnly())
	}

	c, err := control.New(def.Name, fields, opts...)
	if err != nil {
		return nil, fmt.Errorf("definition: control %q: %w", def.Name, err)
	}
	return c, nil
}

func compileField(controlName string, def FieldDef) (control.Field, error) {
	fieldType := control.FieldType(def.Type)
	if def.Type == "" {
		fieldType = control.FieldTypeText
	}
	if !fieldType.Valid() {
		return control.Field{}, fmt.Errorf("definition: control %q: unknown field type %q", controlName, def.Type)
	}

	field := control.Field{
		Name:     def.Name,
		ID:       def.ID,
		Type:     fieldType,
		Label:    def.Label,
		Value:    def.Value,
		Checked:  def.Checked,
		Options:  append([]string(nil), def.Options...),
		Multiple: def.Multiple,
	}
	return field, nil
}
