package urls

import (
	"fmt"
	"strconv"
	"sync"
)

// Converter translates a typed path parameter to and from its URL segment
// representation. Converters are referenced by name in route syntax, e.g.
// the "int" in "articles/<int:year>/".
type Converter struct {
	// Name is the identifier used in route syntax.
	Name string
	// Regex is the unanchored, group-free fragment this parameter matches.
	Regex string
	// Placeholder is a sample value guaranteed to match Regex. It seeds the
	// trial reversals used during JavaScript generation.
	Placeholder any
	// ToString converts a caller supplied value to its path segment. A nil
	// ToString falls back to fmt.Sprint.
	ToString func(value any) (string, error)
}

func (c *Converter) str(value any) (string, error) {
	if c.ToString != nil {
		return c.ToString(value)
	}
	return fmt.Sprint(value), nil
}

var (
	converterMu sync.RWMutex
	converters  = map[string]*Converter{}
)

// RegisterConverter makes a converter available to route syntax parsing.
// Registering a name twice replaces the previous converter.
func RegisterConverter(conv *Converter) {
	if conv == nil || conv.Name == "" {
		panic("urls: RegisterConverter requires a named converter")
	}
	converterMu.Lock()
	defer converterMu.Unlock()
	converters[conv.Name] = conv
}

// GetConverter returns the converter registered under name.
func GetConverter(name string) (*Converter, bool) {
	converterMu.RLock()
	defer converterMu.RUnlock()
	conv, ok := converters[name]
	return conv, ok
}

func intToString(value any) (string, error) {
	switch v := value.(type) {
	case int:
		return strconv.Itoa(v), nil
	case int64:
		return strconv.FormatInt(v, 10), nil
	case uint64:
		return strconv.FormatUint(v, 10), nil
	case float64:
		if v != float64(int64(v)) {
			return "", fmt.Errorf("%v is not an integer", v)
		}
		return strconv.FormatInt(int64(v), 10), nil
	case string:
		if _, err := strconv.ParseUint(v, 10, 64); err != nil {
			return "", fmt.Errorf("%q is not an integer", v)
		}
		return v, nil
	default:
		return "", fmt.Errorf("cannot convert %T to an integer path segment", value)
	}
}

func init() {
	RegisterConverter(&Converter{
		Name:        "int",
		Regex:       `[0-9]+`,
		Placeholder: 1,
		ToString:    intToString,
	})
	RegisterConverter(&Converter{
		Name:        "str",
		Regex:       `[^/]+`,
		Placeholder: "a",
	})
	RegisterConverter(&Converter{
		Name:        "slug",
		Regex:       `[-a-zA-Z0-9_]+`,
		Placeholder: "a",
	})
	RegisterConverter(&Converter{
		Name:        "uuid",
		Regex:       `[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}`,
		Placeholder: "aaaaaaaa-aaaa-aaaa-aaaa-aaaaaaaaaaaa",
	})
	RegisterConverter(&Converter{
		Name:        "path",
		Regex:       `.+`,
		Placeholder: "a",
	})
}
