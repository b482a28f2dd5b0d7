package vanilla

import (
	"fmt"
	"html"
	"strings"

	"github.com/goliatone/go-framepanel/pkg/control"
	"github.com/goliatone/go-framepanel/pkg/render"
)

func (r *Renderer) writeGroup(b *strings.Builder, group *control.Group, options render.Options) {
	open := group.Expanded() && !options.CollapseAll

	fmt.Fprintf(b, `<details class="panel-group" data-depth="%d"`, group.Depth())
	if open {
		b.WriteString(" open")
	}
	b.WriteString(">\n")

	level := group.Depth() + 2
	if level > 6 {
		level = 6
	}
	fmt.Fprintf(b, "<summary><h%d>%s</h%d></summary>\n", level, html.EscapeString(group.Heading()), level)

	for _, child := range group.Children() {
		switch node := child.(type) {
		case *control.Group:
			r.writeGroup(b, node, options)
		case *control.Control:
			r.writeControl(b, node)
		}
	}
	b.WriteString("</details>\n")
}

// writeControl emits one form per submittable control. A form element
// submits on Enter from any focused field, which carries the activation-key
// behaviour without extra scripting. Event-only controls get a plain div so
// no implicit submission path exists for them.
func (r *Renderer) writeControl(b *strings.Builder, c *control.Control) {
	values := c.Snapshot()

	if c.EventOnly() {
		fmt.Fprintf(b, `<div class="panel-control" data-control=%q>`, c.ID())
		b.WriteByte('\n')
		for _, field := range c.Fields() {
			r.writeField(b, field, values[field.WidgetID()])
		}
		b.WriteString("</div>\n")
		c.MarkRendered()
		return
	}

	fmt.Fprintf(b, `<form class="panel-control" data-control=%q method="post" action="/api/controls/%s">`,
		c.ID(), html.EscapeString(c.ID()))
	b.WriteByte('\n')

	for _, field := range c.Fields() {
		r.writeField(b, field, values[field.WidgetID()])
	}

	b.WriteString(`<div class="panel-actions">`)
	if name := c.Name(); name != "" {
		fmt.Fprintf(b, `<label>%s</label> `, html.EscapeString(name))
	}
	fmt.Fprintf(b, `<button type="submit">%s</button></div>`, html.EscapeString(c.ButtonText()))
	b.WriteByte('\n')

	b.WriteString("</form>\n")
	c.MarkRendered()
}

func (r *Renderer) writeField(b *strings.Builder, field control.Field, value control.Value) {
	id := html.EscapeString(field.WidgetID())

	b.WriteString(`<div class="panel-field">`)
	fmt.Fprintf(b, `<label for=%q>%s</label>`, field.WidgetID(), html.EscapeString(field.DisplayLabel()))

	switch field.Type {
	case control.FieldTypeCheckbox:
		checked := ""
		if value.Bool {
			checked = " checked"
		}
		fmt.Fprintf(b, `<input type="checkbox" id=%q name=%q%s/>`, id, id, checked)

	case control.FieldTypeSelect:
		multiple := ""
		if field.Multiple {
			multiple = " multiple"
		}
		fmt.Fprintf(b, `<select id=%q name=%q%s>`, id, id, multiple)
		for _, option := range field.Options {
			selected := ""
			if isSelected(option, value) {
				selected = " selected"
			}
			escaped := html.EscapeString(option)
			fmt.Fprintf(b, `<option value=%q%s>%s</option>`, escaped, selected, escaped)
		}
		b.WriteString(`</select>`)

	case control.FieldTypeDiv:
		fmt.Fprintf(b, `<div class="panel-output" id=%q>%s</div>`, id, r.sanitizer.Sanitize(value.Text))

	case control.FieldTypeTextArea:
		fmt.Fprintf(b, `<textarea id=%q name=%q rows="4">%s</textarea>`, id, id, html.EscapeString(value.Text))

	case control.FieldTypeNumber:
		fmt.Fprintf(b, `<input type="number" id=%q name=%q value=%q step="any"/>`, id, id, html.EscapeString(value.Text))

	case control.FieldTypeText:
		fmt.Fprintf(b, `<input type="text" id=%q name=%q value=%q/>`, id, id, html.EscapeString(value.Text))
	}

	b.WriteString("</div>\n")
}

func isSelected(option string, value control.Value) bool {
	if value.IsTexts() {
		for _, selected := range value.Texts {
			if selected == option {
				return true
			}
		}
		return false
	}
	return value.Text != "" && value.Text == option
}
