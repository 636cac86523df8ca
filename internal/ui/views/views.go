// Package views renders the UI from embedded handlebars templates.
//
// Templates are parsed once at init and exposed as templ.Component values so
// handlers can hand them to datastar's PatchElementTempl like any other
// component.
package views

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/a-h/templ"
	"github.com/aymerick/raymond"
)

//go:embed templates/*.hbs
var templateFS embed.FS

// Template names.
const (
	Layout       = "layout"
	Home         = "home"
	Picker       = "picker"
	Questions    = "questions"
	Schema       = "schema"
	SchemaDetail = "schema_detail"
	Results      = "results"
	Links        = "links"
)

// fragments are registered as partials on every page template.
var fragments = []string{Picker, Questions, Schema, SchemaDetail, Results}

var templates = mustParseAll()

func mustParseAll() map[string]*raymond.Template {
	entries, err := templateFS.ReadDir("templates")
	if err != nil {
		panic(fmt.Sprintf("views: read templates: %v", err))
	}

	sources := make(map[string]string, len(entries))
	for _, e := range entries {
		data, err := templateFS.ReadFile(path.Join("templates", e.Name()))
		if err != nil {
			panic(fmt.Sprintf("views: read %s: %v", e.Name(), err))
		}
		sources[strings.TrimSuffix(e.Name(), ".hbs")] = string(data)
	}

	parsed := make(map[string]*raymond.Template, len(sources))
	for name, src := range sources {
		tpl := raymond.MustParse(src)
		if name == Home {
			for _, frag := range fragments {
				tpl.RegisterPartial(frag, sources[frag])
			}
		}
		parsed[name] = tpl
	}
	return parsed
}

// Render executes the named template with data.
func Render(name string, data any) (string, error) {
	tpl, ok := templates[name]
	if !ok {
		return "", fmt.Errorf("unknown template %q", name)
	}
	out, err := tpl.Exec(data)
	if err != nil {
		return "", fmt.Errorf("render %s: %w", name, err)
	}
	return out, nil
}

// Component returns the named template as a templ.Component.
func Component(name string, data any) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		out, err := Render(name, data)
		if err != nil {
			return err
		}
		_, err = io.WriteString(w, out)
		return err
	})
}

// Page wraps content in the layout. layout supplies everything but the body.
func Page(layout map[string]any, content templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var body bytes.Buffer
		if err := content.Render(ctx, &body); err != nil {
			return err
		}
		data := make(map[string]any, len(layout)+1)
		for k, v := range layout {
			data[k] = v
		}
		data["body"] = body.String()
		return Component(Layout, data).Render(ctx, w)
	})
}
