// Package loaders locates and reads template sources. Loaders are queried
// in configuration order by the engine backends; the app-directories loader
// additionally records which application owns each template, which later
// decides the default render destination. All loaders run through afero so
// tests operate on in-memory filesystems.
package loaders

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/afero"
)

// App is an application participating in template discovery: a directory
// that may carry its own template and static directories.
type App struct {
	Label string
	Path  string
}

// Origin records where a template was found.
type Origin struct {
	// Name is the loader specific location, usually a filesystem path.
	Name string
	// TemplateName is the name the template was requested under.
	TemplateName string
	// App is the owning application, when the template came from an app
	// directory.
	App *App
}

// TemplateNotFoundError is returned when no loader can produce a template.
type TemplateNotFoundError struct {
	Name  string
	Tried []string
}

func (e *TemplateNotFoundError) Error() string {
	if len(e.Tried) == 0 {
		return fmt.Sprintf("template %q does not exist", e.Name)
	}
	return fmt.Sprintf("template %q does not exist, tried: %s", e.Name, strings.Join(e.Tried, ", "))
}

// Loader finds template sources by name and by glob selector.
type Loader interface {
	// Load returns the source of the highest precedence template matching
	// name.
	Load(name string) (string, Origin, error)
	// Select expands a selector into matching template names, grouped by
	// preference. Earlier groups come from higher precedence search
	// locations. A selector may be a literal name, a glob pattern, or a
	// directory (which selects everything beneath it).
	Select(selector string) [][]string
}

// Filesystem searches an ordered list of directories.
type Filesystem struct {
	fs   afero.Fs
	dirs []string
}

// NewFilesystem returns a loader over the given search directories.
func NewFilesystem(fs afero.Fs, dirs []string) *Filesystem {
	return &Filesystem{fs: fs, dirs: dirs}
}

func (l *Filesystem) Load(name string) (string, Origin, error) {
	var tried []string
	for _, dir := range l.dirs {
		full := filepath.Join(dir, filepath.FromSlash(name))
		data, err := afero.ReadFile(l.fs, full)
		if err != nil {
			tried = append(tried, full)
			continue
		}
		return string(data), Origin{Name: full, TemplateName: name}, nil
	}
	return "", Origin{}, &TemplateNotFoundError{Name: name, Tried: tried}
}

func (l *Filesystem) Select(selector string) [][]string {
	var groups [][]string
	for _, dir := range l.dirs {
		matches := selectIn(l.fs, dir, selector)
		if len(matches) > 0 {
			groups = append(groups, matches)
		}
	}
	return groups
}

// AppDirs searches a named subdirectory of each configured application,
// tagging results with their owning app.
type AppDirs struct {
	fs      afero.Fs
	apps    []App
	dirname string
}

// DefaultAppDirname is the per-app template directory searched by AppDirs.
const DefaultAppDirname = "static_templates"

// NewAppDirs returns a loader over the apps' template directories. An empty
// dirname falls back to DefaultAppDirname.
func NewAppDirs(fs afero.Fs, apps []App, dirname string) *AppDirs {
	if dirname == "" {
		dirname = DefaultAppDirname
	}
	return &AppDirs{fs: fs, apps: apps, dirname: dirname}
}

func (l *AppDirs) Load(name string) (string, Origin, error) {
	var tried []string
	for i := range l.apps {
		app := &l.apps[i]
		full := filepath.Join(app.Path, l.dirname, filepath.FromSlash(name))
		data, err := afero.ReadFile(l.fs, full)
		if err != nil {
			tried = append(tried, full)
			continue
		}
		return string(data), Origin{Name: full, TemplateName: name, App: app}, nil
	}
	return "", Origin{}, &TemplateNotFoundError{Name: name, Tried: tried}
}

func (l *AppDirs) Select(selector string) [][]string {
	var groups [][]string
	for i := range l.apps {
		dir := filepath.Join(l.apps[i].Path, l.dirname)
		matches := selectIn(l.fs, dir, selector)
		if len(matches) > 0 {
			groups = append(groups, matches)
		}
	}
	return groups
}

// AppFor reports the app whose template directory holds name, if any.
func (l *AppDirs) AppFor(name string) *App {
	_, origin, err := l.Load(name)
	if err != nil {
		return nil
	}
	return origin.App
}

// LocMem serves templates from an in-memory map. Used for configured
// inline templates and in tests.
type LocMem struct {
	templates map[string]string
}

// NewLocMem returns a loader over the given name to source map.
func NewLocMem(templates map[string]string) *LocMem {
	return &LocMem{templates: templates}
}

func (l *LocMem) Load(name string) (string, Origin, error) {
	source, ok := l.templates[name]
	if !ok {
		return "", Origin{}, &TemplateNotFoundError{Name: name}
	}
	return source, Origin{Name: name, TemplateName: name}, nil
}

func (l *LocMem) Select(selector string) [][]string {
	var matches []string
	for name := range l.templates {
		if matchSelector(selector, name) {
			matches = append(matches, name)
		}
	}
	if len(matches) == 0 {
		return nil
	}
	sort.Strings(matches)
	return [][]string{matches}
}

// selectIn expands selector inside one search directory: an exact file, a
// glob over relative names, or a directory prefix selecting everything
// beneath it.
func selectIn(fs afero.Fs, dir, selector string) []string {
	selector = strings.Trim(filepath.ToSlash(selector), "/")

	if info, err := fs.Stat(filepath.Join(dir, filepath.FromSlash(selector))); err == nil {
		if !info.IsDir() {
			return []string{selector}
		}
		// directory selector: everything beneath it
		var names []string
		root := filepath.Join(dir, filepath.FromSlash(selector))
		_ = afero.Walk(fs, root, func(path string, info os.FileInfo, err error) error {
			if err != nil || info.IsDir() {
				return nil //nolint:nilerr // unreadable entries are skipped
			}
			rel, relErr := filepath.Rel(dir, path)
			if relErr != nil {
				return nil
			}
			names = append(names, filepath.ToSlash(rel))
			return nil
		})
		sort.Strings(names)
		return names
	}

	if !strings.ContainsAny(selector, "*?[") {
		return nil
	}
	var names []string
	_ = afero.Walk(fs, dir, func(path string, info os.FileInfo, err error) error {
		if err != nil || info.IsDir() {
			return nil //nolint:nilerr // unreadable entries are skipped
		}
		rel, relErr := filepath.Rel(dir, path)
		if relErr != nil {
			return nil
		}
		name := filepath.ToSlash(rel)
		if matchSelector(selector, name) {
			names = append(names, name)
		}
		return nil
	})
	sort.Strings(names)
	return names
}

// matchSelector implements segment-wise glob matching with support for a
// trailing or interior "**" segment spanning multiple path segments.
func matchSelector(selector, name string) bool {
	if selector == name {
		return true
	}
	return matchSegments(strings.Split(selector, "/"), strings.Split(name, "/"))
}

func matchSegments(pattern, segments []string) bool {
	if len(pattern) == 0 {
		return len(segments) == 0
	}
	if pattern[0] == "**" {
		for skip := 0; skip <= len(segments); skip++ {
			if matchSegments(pattern[1:], segments[skip:]) {
				return true
			}
		}
		return false
	}
	if len(segments) == 0 {
		return false
	}
	ok, err := filepath.Match(pattern[0], segments[0])
	if err != nil || !ok {
		return false
	}
	return matchSegments(pattern[1:], segments[1:])
}
