package urls

import (
	"strings"
)

// Entry is a member of a route table: either a *Pattern or an *Include.
type Entry interface {
	entry()
}

func (*Pattern) entry() {}
func (*Include) entry() {}

// Include nests another route table under a path prefix, optionally
// namespaced. AppName mirrors the nested table's owning application and
// scopes placeholder lookups during JavaScript generation.
type Include struct {
	Prefix    string
	Namespace string
	AppName   string
	Conf      *Conf
}

// Mount creates an include of conf under prefix with the given namespace.
// The namespace may be empty, in which case the nested urls merge into the
// enclosing scope.
func Mount(prefix, namespace string, conf *Conf) *Include {
	return &Include{
		Prefix:    prefix,
		Namespace: namespace,
		AppName:   conf.AppName,
		Conf:      conf,
	}
}

// Conf is the root (or an included branch) of a route table.
type Conf struct {
	AppName string
	Entries []Entry
}

// New assembles a route table from patterns and includes, preserving
// registration order.
func New(appName string, entries ...Entry) *Conf {
	return &Conf{AppName: appName, Entries: entries}
}

// NormalizeNs collapses empty segments out of a colon separated qualified
// name: ":app::detail" becomes "app:detail".
func NormalizeNs(qname string) string {
	parts := strings.Split(qname, ":")
	kept := parts[:0]
	for _, part := range parts {
		if part != "" {
			kept = append(kept, part)
		}
	}
	return strings.Join(kept, ":")
}

// Reverse resolves qname against the table and reverses the first matching
// pattern with the supplied arguments. The returned path carries a leading
// slash.
func (c *Conf) Reverse(qname string, kwargs map[string]any, args []any) (string, error) {
	patterns := c.lookup(NormalizeNs(qname), "")
	if len(patterns) == 0 {
		return "", &NotFoundError{QName: qname}
	}
	var lastErr error
	for _, pattern := range patterns {
		path, err := pattern.Reverse(kwargs, args)
		if err == nil {
			return "/" + path, nil
		}
		lastErr = err
	}
	if lastErr == nil {
		lastErr = &NoReverseMatchError{QName: qname, Kwargs: kwargs, Args: args}
	}
	return "", lastErr
}

// lookup collects the flattened patterns registered under qname, walking
// namespaces left to right and accumulating include prefixes.
func (c *Conf) lookup(qname, prefix string) []*Pattern {
	ns, rest, nested := strings.Cut(qname, ":")
	var found []*Pattern
	for _, entry := range c.Entries {
		switch e := entry.(type) {
		case *Pattern:
			if !nested && e.name == qname {
				if flat, err := e.withPrefix(prefix); err == nil {
					found = append(found, flat)
				}
			}
		case *Include:
			switch {
			case e.Namespace == "":
				// anonymous includes merge into the enclosing scope
				found = append(found, e.Conf.lookup(qname, prefix+e.Prefix)...)
			case nested && e.Namespace == ns:
				found = append(found, e.Conf.lookup(rest, prefix+e.Prefix)...)
			}
		}
	}
	return found
}
