package engine

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/renderstatic/renderstatic/internal/defines"
	"github.com/renderstatic/renderstatic/internal/jsgen"
	"github.com/renderstatic/renderstatic/internal/urls"
)

// funcMap builds the template function set shared by every backend. The
// functions close over the engine so templates reach the route table and
// define registry without carrying them through contexts:
//
//	const urls = {
//	{{ urls_to_js "simple" (dict "indent" "  " "depth" 1) }}
//	};
//
//	{{ urls_to_js "class" (dict "class_name" "Router") }}
//
//	const defines = {
//	{{ defines_to_js "  " }}
//	};
func (e *Engine) funcMap() map[string]any {
	return map[string]any{
		"urls_to_js":    e.urlsToJS,
		"defines_to_js": e.definesToJS,
		"reverse":       e.reverse,
		"to_json":       toJSON,
		"split":         strings.Split,
		"join":          strings.Join,
		"dict":          dict,
	}
}

type urlJSOptions struct {
	writer          string
	indent          string
	depth           int
	es5             bool
	include         []string
	exclude         []string
	className       string
	raiseOnNotFound bool
}

func (e *Engine) urlsToJS(args ...any) (string, error) {
	if e.urlConf == nil {
		return "", fmt.Errorf("urls_to_js: no url manifest configured")
	}
	opts := urlJSOptions{writer: "class", indent: "\t", raiseOnNotFound: true}
	for _, arg := range args {
		switch a := arg.(type) {
		case string:
			opts.writer = a
		case map[string]any:
			if err := opts.apply(a); err != nil {
				return "", err
			}
		default:
			return "", fmt.Errorf("urls_to_js: unexpected argument %v (%T)", arg, arg)
		}
	}
	if opts.writer != "class" && opts.writer != "simple" {
		return "", fmt.Errorf("urls_to_js: unknown writer %q (expected \"class\" or \"simple\")", opts.writer)
	}

	tree, _, err := urls.BuildTree(e.urlConf, urls.TreeFilter{
		Include: opts.include,
		Exclude: opts.exclude,
	})
	if err != nil {
		return "", err
	}

	base := jsgen.Options{Depth: opts.depth, Indent: opts.indent, ES5: opts.es5}
	var writer jsgen.TreeWriter
	if opts.writer == "simple" {
		writer = jsgen.NewSimpleWriter(base)
	} else {
		writer = jsgen.NewClassWriter(jsgen.ClassOptions{
			Options:        base,
			ClassName:      opts.className,
			SilentNotFound: !opts.raiseOnNotFound,
		})
	}
	return jsgen.WriteTree(writer, tree)
}

func (o *urlJSOptions) apply(options map[string]any) error {
	for key, value := range options {
		switch key {
		case "indent":
			o.indent = fmt.Sprint(value)
		case "depth":
			n, ok := toInt(value)
			if !ok {
				return fmt.Errorf("urls_to_js: depth must be an integer, got %v", value)
			}
			o.depth = n
		case "es5":
			b, ok := value.(bool)
			if !ok {
				return fmt.Errorf("urls_to_js: es5 must be a bool, got %v", value)
			}
			o.es5 = b
		case "include":
			o.include = toStrings(value)
		case "exclude":
			o.exclude = toStrings(value)
		case "class_name":
			o.className = fmt.Sprint(value)
		case "raise_on_not_found":
			b, ok := value.(bool)
			if !ok {
				return fmt.Errorf("urls_to_js: raise_on_not_found must be a bool, got %v", value)
			}
			o.raiseOnNotFound = b
		default:
			return fmt.Errorf("urls_to_js: unknown option %q", key)
		}
	}
	return nil
}

func (e *Engine) definesToJS(args ...any) (string, error) {
	indent := ""
	if len(args) > 0 {
		indent = fmt.Sprint(args[0])
	}
	return defines.ToJS(e.defines.All(), indent)
}

// reverse exposes server-side reversal to templates, mainly for emitting
// concrete URLs into config file artifacts.
func (e *Engine) reverse(qname string, args ...any) (string, error) {
	if e.urlConf == nil {
		return "", fmt.Errorf("reverse: no url manifest configured")
	}
	var kwargs map[string]any
	var positional []any
	for _, arg := range args {
		if m, ok := arg.(map[string]any); ok {
			kwargs = m
			continue
		}
		positional = append(positional, arg)
	}
	return e.urlConf.Reverse(qname, kwargs, positional)
}

func toJSON(value any) (string, error) {
	encoded, err := json.Marshal(value)
	return string(encoded), err
}

func dict(pairs ...any) (map[string]any, error) {
	if len(pairs)%2 != 0 {
		return nil, fmt.Errorf("dict: odd number of arguments")
	}
	m := make(map[string]any, len(pairs)/2)
	for i := 0; i < len(pairs); i += 2 {
		key, ok := pairs[i].(string)
		if !ok {
			return nil, fmt.Errorf("dict: key %v is not a string", pairs[i])
		}
		m[key] = pairs[i+1]
	}
	return m, nil
}

func toInt(value any) (int, bool) {
	switch v := value.(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case float64:
		return int(v), true
	default:
		return 0, false
	}
}

func toStrings(value any) []string {
	switch v := value.(type) {
	case []string:
		return v
	case []any:
		out := make([]string, len(v))
		for i, item := range v {
			out[i] = fmt.Sprint(item)
		}
		return out
	case string:
		return []string{v}
	default:
		return nil
	}
}
