// Package defines exports named groups of server-side constants to
// generated JavaScript, so values like choice enumerations or feature flags
// are declared once in Go (or configuration) and mirrored verbatim on the
// client.
package defines

import (
	"encoding/json"
	"fmt"
	"reflect"
	"sort"
	"sync"
)

// Pair is one exported constant.
type Pair struct {
	Key   string
	Value any
}

// Group is a named set of constants. A group may name a Parent group whose
// pairs are inherited by the JavaScript translation, mirroring subclass
// constant visibility.
type Group struct {
	Name   string
	Parent string
	Pairs  []Pair
}

// Registry holds define groups in registration order.
type Registry struct {
	mu     sync.RWMutex
	groups []Group
	index  map[string]int
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{index: map[string]int{}}
}

// Add registers a group, replacing any previous group of the same name.
func (r *Registry) Add(group Group) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if idx, ok := r.index[group.Name]; ok {
		r.groups[idx] = group
		return
	}
	r.index[group.Name] = len(r.groups)
	r.groups = append(r.groups, group)
}

// AddStruct registers the exported fields of a struct value as a group
// named after its type (or name, when non-empty). Field order follows the
// struct declaration.
func (r *Registry) AddStruct(name string, value any, parent string) error {
	rv := reflect.ValueOf(value)
	for rv.Kind() == reflect.Pointer {
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return fmt.Errorf("defines: expected a struct, got %T", value)
	}
	if name == "" {
		name = rv.Type().Name()
	}
	group := Group{Name: name, Parent: parent}
	for i := 0; i < rv.NumField(); i++ {
		field := rv.Type().Field(i)
		if !field.IsExported() {
			continue
		}
		group.Pairs = append(group.Pairs, Pair{Key: field.Name, Value: rv.Field(i).Interface()})
	}
	r.Add(group)
	return nil
}

// AddMap registers a map of constants under name, with keys sorted so the
// output is stable.
func (r *Registry) AddMap(name string, values map[string]any, parent string) {
	keys := make([]string, 0, len(values))
	for key := range values {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	group := Group{Name: name, Parent: parent}
	for _, key := range keys {
		group.Pairs = append(group.Pairs, Pair{Key: key, Value: values[key]})
	}
	r.Add(group)
}

// All returns the registered groups in registration order.
func (r *Registry) All() []Group {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Group, len(r.groups))
	copy(out, r.groups)
	return out
}

// Get returns a registered group by name.
func (r *Registry) Get(name string) (Group, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	idx, ok := r.index[name]
	if !ok {
		return Group{}, false
	}
	return r.groups[idx], true
}

// ToJS translates groups into JavaScript object literal members. A group
// with a parent repeats the parent's pairs before its own, so the child
// object is complete on its own. Empty groups are skipped. The indent
// sequence is prepended to every line.
func ToJS(groups []Group, indent string) (string, error) {
	byName := map[string]Group{}
	for _, group := range groups {
		byName[group.Name] = group
	}
	out := ""
	for _, group := range groups {
		if len(group.Pairs) == 0 {
			continue
		}
		out += fmt.Sprintf("%s%s: { \n", indent, group.Name)
		var inherited []Pair
		seen := map[string]bool{group.Name: true}
		for parent := group.Parent; parent != ""; parent = byName[parent].Parent {
			ancestor, ok := byName[parent]
			if !ok {
				return "", fmt.Errorf("defines: group %q inherits unknown group %q", group.Name, parent)
			}
			if seen[parent] {
				return "", fmt.Errorf("defines: group %q has cyclic parentage through %q", group.Name, parent)
			}
			seen[parent] = true
			inherited = append(ancestor.Pairs, inherited...)
		}
		for _, pair := range inherited {
			encoded, err := json.Marshal(pair.Value)
			if err != nil {
				return "", fmt.Errorf("defines: %s.%s: %w", group.Name, pair.Key, err)
			}
			out += fmt.Sprintf("%s     %s: %s,\n", indent, pair.Key, encoded)
		}
		for i, pair := range group.Pairs {
			encoded, err := json.Marshal(pair.Value)
			if err != nil {
				return "", fmt.Errorf("defines: %s.%s: %w", group.Name, pair.Key, err)
			}
			comma := ","
			if i == len(group.Pairs)-1 {
				comma = ""
			}
			out += fmt.Sprintf("%s     %s: %s%s\n", indent, pair.Key, encoded, comma)
		}
		out += indent + "},\n\n"
	}
	return out, nil
}
