// Package engine renders configured templates to disk once, at build or
// deploy time. It resolves selectors to templates across the configured
// backends, layers contexts, decides each artifact's destination and writes
// atomically, so a crashed run never leaves a half written file behind.
package engine

import (
	"context"
	"fmt"
	htmltemplate "html/template"
	"os"
	"path/filepath"
	texttemplate "text/template"

	"github.com/google/renameio/v2"
	"github.com/spf13/afero"

	"github.com/renderstatic/renderstatic/internal/config"
	tplcontext "github.com/renderstatic/renderstatic/internal/context"
	"github.com/renderstatic/renderstatic/internal/defines"
	"github.com/renderstatic/renderstatic/internal/loaders"
	"github.com/renderstatic/renderstatic/internal/logging"
	"github.com/renderstatic/renderstatic/internal/urls"
)

// Render records one template rendered to disk.
type Render struct {
	Selector     string
	TemplateName string
	Destination  string
	App          *loaders.App
}

func (r Render) String() string {
	if r.App != nil {
		return fmt.Sprintf("[%s] %s -> %s", r.App.Label, r.TemplateName, r.Destination)
	}
	return fmt.Sprintf("%s -> %s", r.TemplateName, r.Destination)
}

// Options adjust one render invocation.
type Options struct {
	// Context is a specifier layered over every other context source.
	Context any
	// Dest overrides the configured destination. With multiple selectors or
	// multiple matches it is treated as a directory.
	Dest string
	// FirstEngine stops template selection at the first backend with any
	// match.
	FirstEngine bool
	// FirstLoader keeps only matches from each backend's first matching
	// loader.
	FirstLoader bool
	// FirstPreference keeps only each loader's highest preference matches.
	FirstPreference bool
}

// Engine is the static template engine.
type Engine struct {
	cfg      *config.Config
	fs       afero.Fs
	backends []Backend
	apps     []loaders.App
	urlConf  *urls.Conf
	defines  *defines.Registry
	logger   logging.Logger
}

// New assembles an engine from configuration: loader chains and backends
// per engine entry, the url manifest, and the configured placeholder and
// define registrations.
func New(cfg *config.Config, fs afero.Fs, logger logging.Logger) (*Engine, error) {
	if logger == nil {
		logger = logging.NewLogger(nil)
	}
	e := &Engine{
		cfg:     cfg,
		fs:      fs,
		defines: defines.NewRegistry(),
		logger:  logger.WithComponent("engine"),
	}

	for _, app := range cfg.Apps {
		e.apps = append(e.apps, loaders.App{Label: app.Label, Path: cfg.Resolve(app.Path)})
	}

	if cfg.URLs.Manifest != "" {
		conf, err := urls.LoadManifestFile(fs, cfg.Resolve(cfg.URLs.Manifest))
		if err != nil {
			return nil, err
		}
		e.urlConf = conf
	}

	for _, cp := range cfg.Placeholders.Converters {
		urls.RegisterConverterPlaceholder(cp.Converter, cp.Value)
	}
	for _, vp := range cfg.Placeholders.Variables {
		urls.RegisterVariablePlaceholder(vp.Name, vp.Value, vp.App)
	}
	for _, up := range cfg.Placeholders.Unnamed {
		urls.RegisterUnnamedPlaceholders(up.URL, up.Args, up.App)
	}
	for _, dg := range cfg.Defines {
		e.defines.AddMap(dg.Name, dg.Values, dg.Parent)
	}

	textFuncs := e.funcMap()
	htmlFuncs := make(htmltemplate.FuncMap, len(textFuncs))
	for name, fn := range textFuncs {
		htmlFuncs[name] = fn
	}
	// The generated JavaScript must reach html/template as code, not as a
	// string literal the contextual escaper serializes inside <script>.
	htmlFuncs["urls_to_js"] = func(args ...any) (htmltemplate.JS, error) {
		out, err := e.urlsToJS(args...)
		return htmltemplate.JS(out), err
	}
	htmlFuncs["defines_to_js"] = func(args ...any) (htmltemplate.JS, error) {
		out, err := e.definesToJS(args...)
		return htmltemplate.JS(out), err
	}

	for _, engineCfg := range cfg.Engines {
		chain := e.buildChain(engineCfg)
		var delims [2]string
		if len(engineCfg.Delimiters) == 2 {
			delims = [2]string{engineCfg.Delimiters[0], engineCfg.Delimiters[1]}
		}
		switch engineCfg.Backend {
		case "html":
			e.backends = append(e.backends,
				NewHTMLBackend(engineCfg.Name, chain, htmlFuncs, delims))
		default:
			e.backends = append(e.backends,
				NewTextBackend(engineCfg.Name, chain, texttemplate.FuncMap(textFuncs), delims))
		}
	}
	return e, nil
}

func (e *Engine) buildChain(engineCfg config.EngineConfig) []loaders.Loader {
	var chain []loaders.Loader
	if len(engineCfg.Dirs) > 0 {
		dirs := make([]string, len(engineCfg.Dirs))
		for i, dir := range engineCfg.Dirs {
			dirs[i] = e.cfg.Resolve(dir)
		}
		chain = append(chain, loaders.NewFilesystem(e.fs, dirs))
	}
	if engineCfg.AppDirs {
		chain = append(chain, loaders.NewAppDirs(e.fs, e.apps, engineCfg.AppDirname))
	}
	return chain
}

// Backends returns the configured backends in precedence order.
func (e *Engine) Backends() []Backend { return e.backends }

// URLConf returns the loaded route table, which may be nil when no manifest
// is configured.
func (e *Engine) URLConf() *urls.Conf { return e.urlConf }

// SetURLConf installs a programmatically built route table, taking
// precedence over any configured manifest.
func (e *Engine) SetURLConf(conf *urls.Conf) { e.urlConf = conf }

// Defines returns the registry of constant groups exported to JavaScript.
func (e *Engine) Defines() *defines.Registry { return e.defines }

// globalContext resolves the configured global context and exposes the
// configuration itself under "settings".
func (e *Engine) globalContext() (map[string]any, error) {
	global, err := tplcontext.Resolve(e.fs, e.cfg.Context)
	if err != nil {
		return nil, err
	}
	merged := map[string]any{"settings": e.cfg}
	for key, value := range global {
		merged[key] = value
	}
	return merged, nil
}

// RenderToDisk renders one selector and returns the artifacts written.
func (e *Engine) RenderToDisk(ctx context.Context, selector string, opts Options) ([]Render, error) {
	return e.RenderEach(ctx, []string{selector}, opts)
}

// RenderEach renders every template the selectors resolve to. All
// destinations are resolved before the first byte is written, so a
// destination error aborts the batch with nothing on disk.
func (e *Engine) RenderEach(ctx context.Context, selectors []string, opts Options) ([]Render, error) {
	override, err := tplcontext.Resolve(e.fs, opts.Context)
	if err != nil {
		return nil, err
	}
	global, err := e.globalContext()
	if err != nil {
		return nil, err
	}

	batch := len(selectors) > 1 && opts.Dest != ""

	type job struct {
		render   Render
		template Template
		ctx      map[string]any
	}
	var jobs []job

	for _, selector := range selectors {
		tplCfg := e.cfg.Templates[selector]

		var names []string
		var tried []string
		templates := map[string]Template{}
		for _, backend := range e.backends {
			selected, err := backend.SelectTemplates(selector, opts.FirstLoader, opts.FirstPreference)
			if err != nil {
				var nfe *loaders.TemplateNotFoundError
				if asTemplateNotFound(err, &nfe) {
					tried = append(tried, nfe.Tried...)
					continue
				}
				return nil, err
			}
			found := false
			for _, name := range selected {
				if _, ok := templates[name]; ok {
					continue
				}
				tpl, err := backend.GetTemplate(name)
				if err != nil {
					return nil, fmt.Errorf("selector %q resolved to unloadable template %q: %w", selector, name, err)
				}
				templates[name] = tpl
				names = append(names, name)
				found = true
			}
			if opts.FirstEngine && found {
				break
			}
		}
		if len(names) == 0 {
			return nil, &loaders.TemplateNotFoundError{Name: selector, Tried: tried}
		}

		tplContext, err := tplcontext.Resolve(e.fs, tplCfg.Context)
		if err != nil {
			return nil, err
		}

		for _, name := range names {
			tpl := templates[name]
			dest, err := e.resolveDestination(tplCfg, tpl.Origin(), batch || len(names) > 1, opts.Dest)
			if err != nil {
				return nil, err
			}
			merged := make(map[string]any, len(global)+len(tplContext)+len(override))
			for key, value := range global {
				merged[key] = value
			}
			for key, value := range tplContext {
				merged[key] = value
			}
			for key, value := range override {
				merged[key] = value
			}
			jobs = append(jobs, job{
				render: Render{
					Selector:     selector,
					TemplateName: name,
					Destination:  dest,
					App:          tpl.Origin().App,
				},
				template: tpl,
				ctx:      merged,
			})
		}
	}

	renders := make([]Render, 0, len(jobs))
	for _, j := range jobs {
		if err := ctx.Err(); err != nil {
			return renders, err
		}
		rendered, err := j.template.Render(j.ctx)
		if err != nil {
			return renders, fmt.Errorf("render %s: %w", j.render.TemplateName, err)
		}
		if err := e.writeFile(j.render.Destination, []byte(rendered)); err != nil {
			return renders, fmt.Errorf("write %s: %w", j.render.Destination, err)
		}
		e.logger.Info(ctx, "rendered template",
			"template", j.render.TemplateName,
			"destination", j.render.Destination,
		)
		renders = append(renders, j.render)
	}
	return renders, nil
}

// resolveDestination decides where one artifact lands: explicit dest, then
// the template's configured dest, then the owning app's static directory,
// then the global static root.
func (e *Engine) resolveDestination(
	tplCfg config.TemplateConfig,
	origin loaders.Origin,
	batch bool,
	destOverride string,
) (string, error) {
	dest := destOverride
	if dest == "" {
		dest = e.cfg.Resolve(tplCfg.Dest)
	}

	relName := filepath.FromSlash(origin.TemplateName)
	switch {
	case dest == "" && origin.App != nil:
		dest = filepath.Join(origin.App.Path, "static", relName)
	case dest == "":
		if e.cfg.StaticRoot == "" {
			return "", fmt.Errorf(
				"template %q needs a configured dest or a static_root, it was not loaded from an app",
				origin.TemplateName,
			)
		}
		dest = filepath.Join(e.cfg.Resolve(e.cfg.StaticRoot), relName)
	default:
		if batch || e.isDir(dest) {
			dest = filepath.Join(dest, relName)
		}
	}

	if err := e.fs.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return "", err
	}
	return dest, nil
}

func (e *Engine) isDir(path string) bool {
	info, err := e.fs.Stat(path)
	return err == nil && info.IsDir()
}

// writeFile lands the artifact atomically on a real filesystem; other
// filesystems (in-memory test ones) take the plain write path.
func (e *Engine) writeFile(path string, data []byte) error {
	if _, ok := e.fs.(*afero.OsFs); ok {
		return renameio.WriteFile(path, data, 0o644)
	}
	return afero.WriteFile(e.fs, path, data, os.FileMode(0o644))
}
