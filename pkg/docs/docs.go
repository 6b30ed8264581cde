// Package docs renders markdown reference pages for components.
package docs

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"strings"
	"sync"

	"github.com/flosch/pongo2/v6"
	json "github.com/goccy/go-json"

	"github.com/goliatone/go-formschema/pkg/component"
	"github.com/goliatone/go-formschema/pkg/property"
)

// DefaultTemplate is the template name rendered by Render.
const DefaultTemplate = "component.md.tpl"

//go:embed templates/*.tpl
var embedded embed.FS

// Row describes one property in the reference table.
type Row struct {
	Path        string
	Label       string
	Kind        string
	Format      string
	Required    bool
	Default     string
	Rules       string
	Description string
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithTemplates replaces the embedded templates. The set must contain
// DefaultTemplate or the name passed to WithTemplateName.
func WithTemplates(fsys fs.FS) Option {
	return func(r *Renderer) {
		if fsys != nil {
			r.templates = fsys
		}
	}
}

// WithTemplateName selects the template rendered for each component.
func WithTemplateName(name string) Option {
	return func(r *Renderer) {
		if trimmed := strings.TrimSpace(name); trimmed != "" {
			r.name = trimmed
		}
	}
}

// Renderer renders component documentation with pongo2.
type Renderer struct {
	mu        sync.Mutex
	templates fs.FS
	name      string
	set       *pongo2.TemplateSet
	tmpl      *pongo2.Template
}

var filterOnce sync.Once

// New constructs a Renderer and parses its template.
func New(options ...Option) (*Renderer, error) {
	sub, err := fs.Sub(embedded, "templates")
	if err != nil {
		return nil, fmt.Errorf("docs: embedded templates: %w", err)
	}
	r := &Renderer{templates: sub, name: DefaultTemplate}
	for _, opt := range options {
		if opt != nil {
			opt(r)
		}
	}
	registerFilters()

	r.set = pongo2.NewSet("formschema-docs", pongo2.NewFSLoader(r.templates))
	r.tmpl, err = r.set.FromFile(r.name)
	if err != nil {
		return nil, fmt.Errorf("docs: load template %q: %w", r.name, err)
	}
	return r, nil
}

// Render writes the markdown page for comp to out, when given, and returns it.
func (r *Renderer) Render(comp *component.Component, out ...io.Writer) (string, error) {
	if r == nil || r.tmpl == nil {
		return "", errors.New("docs: renderer is nil")
	}
	if comp == nil {
		return "", errors.New("docs: component is required")
	}
	example, err := indentJSON(comp.ExampleData())
	if err != nil {
		return "", fmt.Errorf("docs: example for %q: %w", comp.Type(), err)
	}

	ctx := pongo2.Context{
		"title":      comp.DisplayComponent(),
		"type":       comp.Type(),
		"component":  comp.DisplayComponent(),
		"version":    comp.Version(),
		"containers": comp.MainContainers(),
		"rows":       Rows(comp),
		"example":    example,
	}

	var buf bytes.Buffer
	r.mu.Lock()
	err = r.tmpl.ExecuteWriter(ctx, &buf)
	r.mu.Unlock()
	if err != nil {
		return "", fmt.Errorf("docs: execute %q: %w", r.name, err)
	}

	rendered := buf.String()
	for _, w := range out {
		if _, err := w.Write([]byte(rendered)); err != nil {
			return "", err
		}
	}
	return rendered, nil
}

// Rows flattens the visible property tree into dotted paths. Array items are
// addressed as "name[]".
func Rows(comp *component.Component) []Row {
	var rows []Row
	comp.Properties().Each(func(node *property.Property) bool {
		rows = appendRows(rows, "", node)
		return true
	})
	return rows
}

func appendRows(rows []Row, prefix string, node *property.Property) []Row {
	if component.IsHidden(node) {
		return rows
	}
	path := node.Name()
	if prefix != "" {
		path = prefix + "." + node.Name()
	}
	rows = append(rows, Row{
		Path:        path,
		Label:       rowLabel(node),
		Kind:        string(node.Kind()),
		Format:      node.FormatName(),
		Required:    node.IsRequired(),
		Default:     compactJSON(node.DefaultValue()),
		Rules:       strings.Join(node.RuleList(), ", "),
		Description: node.DescriptionText(),
	})
	node.Children().Each(func(child *property.Property) bool {
		rows = appendRows(rows, path, child)
		return true
	})
	if item := node.ItemSchema(); item != nil && !component.IsHidden(item) {
		itemPath := path + "[]"
		item.Children().Each(func(child *property.Property) bool {
			rows = appendRows(rows, itemPath, child)
			return true
		})
	}
	return rows
}

// rowLabel prefers the declared label and derives one from the name
// otherwise.
func rowLabel(node *property.Property) string {
	if text := node.LabelText(); text != "" {
		return text
	}
	return property.DefaultLabeler(node.Name())
}

func compactJSON(value any) string {
	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Sprint(value)
	}
	return string(payload)
}

func indentJSON(value any) (string, error) {
	payload, err := json.Marshal(value)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, payload, "", "  "); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func registerFilters() {
	filterOnce.Do(func() {
		if pongo2.FilterExists("mdcell") {
			return
		}
		_ = pongo2.RegisterFilter("mdcell", filterMarkdownCell)
	})
}

// filterMarkdownCell keeps a value on one table row.
func filterMarkdownCell(in *pongo2.Value, _ *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
	text := strings.ReplaceAll(in.String(), "|", `\|`)
	text = strings.ReplaceAll(text, "\n", " ")
	return pongo2.AsValue(text), nil
}
