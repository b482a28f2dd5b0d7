// Package vanilla renders a control tree into a self-contained HTML
// document: one form element per control, collapsible details sections per
// group, and a page shell produced by the template engine.
package vanilla

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"sort"
	"strings"

	"github.com/microcosm-cc/bluemonday"

	"github.com/goliatone/go-framepanel/pkg/control"
	"github.com/goliatone/go-framepanel/pkg/render"
	rendertemplate "github.com/goliatone/go-framepanel/pkg/render/template"
	"github.com/goliatone/go-framepanel/pkg/render/template/pongo"
)

const pageTemplate = "templates/page"

// DefaultTitle heads documents rendered without an explicit title.
const DefaultTitle = "Controlled Frame Panel"

// Option customises the renderer configuration.
type Option func(*config)

type config struct {
	templateFS       fs.FS
	templateRenderer rendertemplate.TemplateRenderer
	sanitizer        *bluemonday.Policy
}

// WithTemplatesFS supplies an alternate template bundle via fs.FS.
func WithTemplatesFS(files fs.FS) Option {
	return func(cfg *config) {
		if files != nil {
			cfg.templateFS = files
		}
	}
}

// WithTemplatesDir loads templates from a directory on disk.
func WithTemplatesDir(path string) Option {
	return func(cfg *config) {
		if path == "" {
			return
		}
		cfg.templateFS = os.DirFS(path)
	}
}

// WithTemplateRenderer injects a custom template renderer implementation.
func WithTemplateRenderer(renderer rendertemplate.TemplateRenderer) Option {
	return func(cfg *config) {
		if renderer != nil {
			cfg.templateRenderer = renderer
		}
	}
}

// WithSanitizer overrides the policy applied to div field content. Div
// regions display host-supplied text (page titles, console lines), so the
// default is the strict policy.
func WithSanitizer(policy *bluemonday.Policy) Option {
	return func(cfg *config) {
		if policy != nil {
			cfg.sanitizer = policy
		}
	}
}

// Renderer produces HTML documents from control trees.
type Renderer struct {
	templates rendertemplate.TemplateRenderer
	sanitizer *bluemonday.Policy
}

// New constructs the vanilla renderer applying any provided options.
func New(options ...Option) (*Renderer, error) {
	cfg := config{
		templateFS: TemplatesFS(),
		sanitizer:  bluemonday.StrictPolicy(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}

	renderer := cfg.templateRenderer
	if renderer == nil {
		engine, err := pongo.New(
			pongo.WithFS(cfg.templateFS),
			pongo.WithExtension(".tmpl"),
		)
		if err != nil {
			return nil, fmt.Errorf("vanilla renderer: configure template renderer: %w", err)
		}
		renderer = engine
	}

	return &Renderer{templates: renderer, sanitizer: cfg.sanitizer}, nil
}

// Name identifies the renderer inside the registry.
func (r *Renderer) Name() string { return "vanilla" }

// ContentType reports the MIME type for generated documents.
func (r *Renderer) ContentType() string { return "text/html; charset=utf-8" }

// Render walks the tree and emits a complete HTML document. Depths are
// recomputed top-down before markup is produced, and every visited control is
// marked rendered so pending field accessors resume.
func (r *Renderer) Render(ctx context.Context, root *control.Group, options render.Options) ([]byte, error) {
	if ctx == nil {
		return nil, fmt.Errorf("vanilla renderer: context is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if root == nil {
		return nil, fmt.Errorf("vanilla renderer: root group is required")
	}
	if r.templates == nil {
		return nil, fmt.Errorf("vanilla renderer: template renderer is nil")
	}

	root.AssignDepths(0)

	var body strings.Builder
	r.writeGroup(&body, root, options)

	title := strings.TrimSpace(options.Title)
	if title == "" {
		title = DefaultTitle
	}

	data := map[string]any{
		"title": title,
		"body":  body.String(),
	}
	if cfg := options.Theme; cfg != nil {
		data["theme_stylesheet"] = cfg.AssetURL("panel.stylesheet")
		data["theme_css_vars"] = cssVarsStyle(cfg.CSSVars)
	}

	rendered, err := r.templates.RenderTemplate(pageTemplate, data)
	if err != nil {
		return nil, fmt.Errorf("vanilla renderer: render page: %w", err)
	}
	return []byte(rendered), nil
}

func cssVarsStyle(vars map[string]string) string {
	if len(vars) == 0 {
		return ""
	}
	keys := make([]string, 0, len(vars))
	for key := range vars {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString(":root {\n")
	for _, key := range keys {
		b.WriteString(key)
		b.WriteString(": ")
		b.WriteString(vars[key])
		b.WriteString(";\n")
	}
	b.WriteString("}")
	return b.String()
}
