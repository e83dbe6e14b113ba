package engine

import "sort"

// TemplateInfo describes one selectable template for reporting.
type TemplateInfo struct {
	Name       string `json:"name" yaml:"name"`
	Engine     string `json:"engine" yaml:"engine"`
	Configured bool   `json:"configured" yaml:"configured"`
	Dest       string `json:"dest,omitempty" yaml:"dest,omitempty"`
}

// ListTemplates reports every template the configured backends can select,
// sorted by name then engine. Configured entries that no loader can find
// are included so a typoed templates key shows up in the listing.
func (e *Engine) ListTemplates() []TemplateInfo {
	type key struct{ name, engine string }
	seen := map[key]bool{}
	var infos []TemplateInfo

	for _, backend := range e.backends {
		names, err := backend.SelectTemplates("**", false, false)
		if err != nil {
			continue
		}
		for _, name := range names {
			k := key{name, backend.Name()}
			if seen[k] {
				continue
			}
			seen[k] = true
			tplCfg, configured := e.cfg.Templates[name]
			infos = append(infos, TemplateInfo{
				Name:       name,
				Engine:     backend.Name(),
				Configured: configured,
				Dest:       tplCfg.Dest,
			})
		}
	}

	for name, tplCfg := range e.cfg.Templates {
		found := false
		for k := range seen {
			if k.name == name {
				found = true
				break
			}
		}
		if !found {
			infos = append(infos, TemplateInfo{Name: name, Configured: true, Dest: tplCfg.Dest})
		}
	}

	sort.Slice(infos, func(i, j int) bool {
		if infos[i].Name != infos[j].Name {
			return infos[i].Name < infos[j].Name
		}
		return infos[i].Engine < infos[j].Engine
	})
	return infos
}

// ConfiguredSelectors returns the template names named in configuration, in
// stable order. Used when a render is invoked with no selectors.
func (e *Engine) ConfiguredSelectors() []string {
	selectors := make([]string, 0, len(e.cfg.Templates))
	for name := range e.cfg.Templates {
		selectors = append(selectors, name)
	}
	sort.Strings(selectors)
	return selectors
}

// URLJS generates the reversal JavaScript outside any template, for the
// urls command.
func (e *Engine) URLJS(writer string, options map[string]any) (string, error) {
	return e.urlsToJS(writer, options)
}
