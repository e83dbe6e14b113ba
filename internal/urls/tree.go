package urls

// Branch is a node of the namespace tree built from a route table. Child
// branches are namespaces, groups are urls registered directly at this
// level. Order follows registration order so generated output is stable.
type Branch struct {
	Namespace string
	AppName   string
	Children  []*Branch
	Groups    []*PatternGroup

	childIndex map[string]*Branch
	groupIndex map[string]*PatternGroup
}

// PatternGroup collects every pattern registered under one url name at one
// namespace level.
type PatternGroup struct {
	Name     string
	Patterns []*Pattern
}

func newBranch(namespace, appName string) *Branch {
	return &Branch{
		Namespace:  namespace,
		AppName:    appName,
		childIndex: map[string]*Branch{},
		groupIndex: map[string]*PatternGroup{},
	}
}

func (b *Branch) child(namespace, appName string) *Branch {
	if existing, ok := b.childIndex[namespace]; ok {
		return existing
	}
	child := newBranch(namespace, appName)
	b.childIndex[namespace] = child
	b.Children = append(b.Children, child)
	return child
}

func (b *Branch) add(pattern *Pattern) {
	group, ok := b.groupIndex[pattern.name]
	if !ok {
		group = &PatternGroup{Name: pattern.name}
		b.groupIndex[pattern.name] = group
		b.Groups = append(b.Groups, group)
	}
	group.Patterns = append(group.Patterns, pattern)
}

// TreeFilter narrows the tree to a subset of qualified names. A qualified
// name that names a namespace covers every url beneath it. Empty Include
// means include everything; excludes always win.
type TreeFilter struct {
	Include []string
	Exclude []string
}

func (f TreeFilter) normalized() (includes, excludes []string) {
	for _, inc := range f.Include {
		includes = append(includes, NormalizeNs(inc))
	}
	for _, exc := range f.Exclude {
		excludes = append(excludes, NormalizeNs(exc))
	}
	return includes, excludes
}

func contains(list []string, qname string) bool {
	for _, item := range list {
		if item == qname {
			return true
		}
	}
	return false
}

// BuildTree walks the route table into a namespace tree, flattening include
// prefixes onto each pattern, applying the filter and pruning branches with
// no urls below them. The second return value is the number of urls kept.
func BuildTree(conf *Conf, filter TreeFilter) (*Branch, int, error) {
	includes, excludes := filter.normalized()
	root := newBranch("", conf.AppName)
	err := buildBranch(
		conf, root,
		len(includes) == 0 || contains(includes, ""),
		includes, excludes,
		"", "",
	)
	if err != nil {
		return nil, 0, err
	}
	count := pruneTree(root)
	return root, count, nil
}

func buildBranch(
	conf *Conf,
	branch *Branch,
	included bool,
	includes, excludes []string,
	qname, prefix string,
) error {
	for _, entry := range conf.Entries {
		switch e := entry.(type) {
		case *Pattern:
			if e.name == "" {
				continue
			}
			urlQName := e.name
			if qname != "" {
				urlQName = qname + ":" + e.name
			}
			if !included && !contains(includes, urlQName) {
				continue
			}
			if contains(excludes, urlQName) {
				continue
			}
			flat, err := e.withPrefix(prefix)
			if err != nil {
				return err
			}
			branch.add(flat)
		case *Include:
			nsQName := qname
			if e.Namespace != "" {
				if nsQName != "" {
					nsQName += ":"
				}
				nsQName += e.Namespace
			}
			if contains(excludes, nsQName) {
				continue
			}
			target := branch
			if e.Namespace != "" {
				target = branch.child(e.Namespace, e.AppName)
			}
			err := buildBranch(
				e.Conf, target,
				included || contains(includes, nsQName),
				includes, excludes,
				nsQName, prefix+e.Prefix,
			)
			if err != nil {
				return err
			}
		}
	}
	return nil
}

// pruneTree drops childless, urlless branches and returns the number of
// urls at or below the branch.
func pruneTree(branch *Branch) int {
	count := 0
	for _, group := range branch.Groups {
		count += len(group.Patterns)
	}
	kept := branch.Children[:0]
	for _, child := range branch.Children {
		below := pruneTree(child)
		if below > 0 {
			kept = append(kept, child)
		} else {
			delete(branch.childIndex, child.Namespace)
		}
		count += below
	}
	branch.Children = kept
	return count
}
