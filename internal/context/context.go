// Package context resolves template context specifiers. A specifier may be
// a literal map, a function producing a map, the name of a registered
// provider, or a path to a JSON or YAML file. JSON files support gjson
// sub-selection with a "file.json#dotted.path" suffix, so one data file can
// feed several templates different slices.
package context

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"github.com/spf13/afero"
	"github.com/tidwall/gjson"
	"gopkg.in/yaml.v3"
)

// InvalidContextError is returned when a specifier cannot be resolved to a
// map.
type InvalidContextError struct {
	Spec   any
	Reason string
}

func (e *InvalidContextError) Error() string {
	return fmt.Sprintf("unable to resolve context %v to a map: %s", e.Spec, e.Reason)
}

// Provider produces a context map on demand.
type Provider func() (map[string]any, error)

var (
	providerMu sync.RWMutex
	providers  = map[string]Provider{}
)

// RegisterProvider makes a named context provider resolvable from
// configuration. Registering a name twice replaces the previous provider.
func RegisterProvider(name string, provider Provider) {
	providerMu.Lock()
	defer providerMu.Unlock()
	providers[name] = provider
}

func lookupProvider(name string) (Provider, bool) {
	providerMu.RLock()
	defer providerMu.RUnlock()
	p, ok := providers[name]
	return p, ok
}

// Resolve turns a context specifier into a map. Files are read through fs,
// which lets callers resolve from in-memory filesystems in tests.
func Resolve(fs afero.Fs, spec any) (map[string]any, error) {
	switch s := spec.(type) {
	case nil:
		return map[string]any{}, nil
	case map[string]any:
		return s, nil
	case map[any]any:
		converted := make(map[string]any, len(s))
		for key, value := range s {
			converted[fmt.Sprint(key)] = value
		}
		return converted, nil
	case Provider:
		return s()
	case func() (map[string]any, error):
		return s()
	case string:
		return resolveString(fs, s)
	default:
		return nil, &InvalidContextError{Spec: spec, Reason: fmt.Sprintf("unsupported type %T", spec)}
	}
}

func resolveString(fs afero.Fs, spec string) (map[string]any, error) {
	if provider, ok := lookupProvider(spec); ok {
		return provider()
	}

	path, selector, _ := strings.Cut(spec, "#")
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, &InvalidContextError{Spec: spec, Reason: err.Error()}
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return fromJSON(spec, data, selector)
	case ".yaml", ".yml":
		if selector != "" {
			return nil, &InvalidContextError{
				Spec: spec, Reason: "sub-selection is only supported for json files",
			}
		}
		return fromYAML(spec, data)
	default:
		// sniff: try json first, then yaml
		if ctx, err := fromJSON(spec, data, selector); err == nil {
			return ctx, nil
		}
		if selector == "" {
			if ctx, err := fromYAML(spec, data); err == nil {
				return ctx, nil
			}
		}
		return nil, &InvalidContextError{Spec: spec, Reason: "not a json or yaml mapping"}
	}
}

func fromJSON(spec string, data []byte, selector string) (map[string]any, error) {
	if !gjson.ValidBytes(data) {
		return nil, &InvalidContextError{Spec: spec, Reason: "invalid json"}
	}
	doc := gjson.ParseBytes(data)
	if selector != "" {
		doc = doc.Get(selector)
		if !doc.Exists() {
			return nil, &InvalidContextError{
				Spec: spec, Reason: fmt.Sprintf("selector %q matched nothing", selector),
			}
		}
	}
	if !doc.IsObject() {
		return nil, &InvalidContextError{Spec: spec, Reason: "json value is not an object"}
	}
	var ctx map[string]any
	if err := json.Unmarshal([]byte(doc.Raw), &ctx); err != nil {
		return nil, &InvalidContextError{Spec: spec, Reason: err.Error()}
	}
	return ctx, nil
}

func fromYAML(spec string, data []byte) (map[string]any, error) {
	var ctx map[string]any
	if err := yaml.Unmarshal(data, &ctx); err != nil {
		return nil, &InvalidContextError{Spec: spec, Reason: err.Error()}
	}
	if ctx == nil {
		ctx = map[string]any{}
	}
	return ctx, nil
}
