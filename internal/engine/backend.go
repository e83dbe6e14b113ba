package engine

import (
	"errors"
	htmltemplate "html/template"
	"strings"
	texttemplate "text/template"

	"github.com/renderstatic/renderstatic/internal/loaders"
)

func asTemplateNotFound(err error, target **loaders.TemplateNotFoundError) bool {
	return errors.As(err, target)
}

// Template is a loaded, parseable template ready to render.
type Template interface {
	Render(ctx map[string]any) (string, error)
	Origin() loaders.Origin
}

// Backend is one configured template engine: an ordered loader chain plus a
// template implementation.
type Backend interface {
	Name() string
	// SelectTemplates expands a selector into loadable template names.
	// firstLoader keeps only the first loader with any match, and
	// firstPreference keeps only each loader's highest preference group.
	SelectTemplates(selector string, firstLoader, firstPreference bool) ([]string, error)
	GetTemplate(name string) (Template, error)
}

type backendCore struct {
	name    string
	loaders []loaders.Loader
}

func (b *backendCore) Name() string { return b.name }

func (b *backendCore) SelectTemplates(selector string, firstLoader, firstPreference bool) ([]string, error) {
	var names []string
	seen := map[string]bool{}
	matched := false
	for _, loader := range b.loaders {
		groups := loader.Select(selector)
		if len(groups) == 0 {
			continue
		}
		matched = true
		if firstPreference {
			groups = groups[:1]
		}
		for _, group := range groups {
			for _, name := range group {
				if !seen[name] {
					seen[name] = true
					names = append(names, name)
				}
			}
		}
		if firstLoader {
			break
		}
	}
	if !matched {
		var tried []string
		for _, loader := range b.loaders {
			_, _, err := loader.Load(selector)
			var nfe *loaders.TemplateNotFoundError
			if asTemplateNotFound(err, &nfe) {
				tried = append(tried, nfe.Tried...)
			}
		}
		return nil, &loaders.TemplateNotFoundError{Name: selector, Tried: tried}
	}
	return names, nil
}

func (b *backendCore) load(name string) (string, loaders.Origin, error) {
	var tried []string
	for _, loader := range b.loaders {
		source, origin, err := loader.Load(name)
		if err == nil {
			return source, origin, nil
		}
		var nfe *loaders.TemplateNotFoundError
		if asTemplateNotFound(err, &nfe) {
			tried = append(tried, nfe.Tried...)
			continue
		}
		return "", loaders.Origin{}, err
	}
	return "", loaders.Origin{}, &loaders.TemplateNotFoundError{Name: name, Tried: tried}
}

// TextBackend renders with text/template. This is the default backend and
// the right one for JavaScript, CSS and other non-HTML artifacts, where
// contextual escaping would mangle the output.
type TextBackend struct {
	backendCore
	funcs  texttemplate.FuncMap
	delims [2]string
}

// NewTextBackend assembles a text/template backend over the loader chain.
func NewTextBackend(name string, chain []loaders.Loader, funcs texttemplate.FuncMap, delims [2]string) *TextBackend {
	return &TextBackend{
		backendCore: backendCore{name: name, loaders: chain},
		funcs:       funcs,
		delims:      delims,
	}
}

func (b *TextBackend) GetTemplate(name string) (Template, error) {
	source, origin, err := b.load(name)
	if err != nil {
		return nil, err
	}
	tpl := texttemplate.New(name).Funcs(b.funcs).Option("missingkey=zero")
	if b.delims[0] != "" {
		tpl = tpl.Delims(b.delims[0], b.delims[1])
	}
	parsed, err := tpl.Parse(source)
	if err != nil {
		return nil, err
	}
	return &textTemplate{tpl: parsed, origin: origin}, nil
}

type textTemplate struct {
	tpl    *texttemplate.Template
	origin loaders.Origin
}

func (t *textTemplate) Render(ctx map[string]any) (string, error) {
	var out strings.Builder
	if err := t.tpl.Execute(&out, ctx); err != nil {
		return "", err
	}
	return out.String(), nil
}

func (t *textTemplate) Origin() loaders.Origin { return t.origin }

// HTMLBackend renders with html/template for artifacts that are themselves
// HTML and want contextual escaping.
type HTMLBackend struct {
	backendCore
	funcs  htmltemplate.FuncMap
	delims [2]string
}

// NewHTMLBackend assembles an html/template backend over the loader chain.
func NewHTMLBackend(name string, chain []loaders.Loader, funcs htmltemplate.FuncMap, delims [2]string) *HTMLBackend {
	return &HTMLBackend{
		backendCore: backendCore{name: name, loaders: chain},
		funcs:       funcs,
		delims:      delims,
	}
}

func (b *HTMLBackend) GetTemplate(name string) (Template, error) {
	source, origin, err := b.load(name)
	if err != nil {
		return nil, err
	}
	tpl := htmltemplate.New(name).Funcs(b.funcs).Option("missingkey=zero")
	if b.delims[0] != "" {
		tpl = tpl.Delims(b.delims[0], b.delims[1])
	}
	parsed, err := tpl.Parse(source)
	if err != nil {
		return nil, err
	}
	return &htmlTemplate{tpl: parsed, origin: origin}, nil
}

type htmlTemplate struct {
	tpl    *htmltemplate.Template
	origin loaders.Origin
}

func (t *htmlTemplate) Render(ctx map[string]any) (string, error) {
	var out strings.Builder
	if err := t.tpl.Execute(&out, ctx); err != nil {
		return "", err
	}
	return out.String(), nil
}

func (t *htmlTemplate) Origin() loaders.Origin { return t.origin }
