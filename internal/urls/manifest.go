package urls

import (
	"fmt"
	"io"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

// Manifest support: a route table serialized as YAML so the CLI can expose
// an application's urls without compiling the host project. The manifest
// mirrors the programmatic API:
//
//	app: myapp
//	urls:
//	  - path: articles/<int:year>/
//	    name: year_archive
//	  - regex: ^users/(?P<pk>[0-9]+)/$
//	    name: user_detail
//	  - include:
//	      prefix: blog/
//	      namespace: blog
//	      app: blog
//	      urls:
//	        - path: ""
//	          name: index

type manifestDoc struct {
	App  string          `yaml:"app"`
	URLs []manifestEntry `yaml:"urls"`
}

type manifestEntry struct {
	Path    string           `yaml:"path"`
	Regex   string           `yaml:"regex"`
	Name    string           `yaml:"name"`
	Include *manifestInclude `yaml:"include"`
}

type manifestInclude struct {
	Prefix    string          `yaml:"prefix"`
	Namespace string          `yaml:"namespace"`
	App       string          `yaml:"app"`
	URLs      []manifestEntry `yaml:"urls"`
}

// LoadManifest reads a YAML route manifest.
func LoadManifest(r io.Reader) (*Conf, error) {
	var doc manifestDoc
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("url manifest: %w", err)
	}
	return confFromManifest(doc.App, doc.URLs)
}

// LoadManifestFile reads a YAML route manifest from fs.
func LoadManifestFile(fs afero.Fs, path string) (*Conf, error) {
	f, err := fs.Open(path)
	if err != nil {
		return nil, fmt.Errorf("url manifest %s: %w", path, err)
	}
	defer f.Close()
	conf, err := LoadManifest(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return conf, nil
}

func confFromManifest(appName string, entries []manifestEntry) (*Conf, error) {
	conf := &Conf{AppName: appName}
	for _, entry := range entries {
		switch {
		case entry.Include != nil:
			nested, err := confFromManifest(entry.Include.App, entry.Include.URLs)
			if err != nil {
				return nil, err
			}
			conf.Entries = append(conf.Entries, &Include{
				Prefix:    entry.Include.Prefix,
				Namespace: entry.Include.Namespace,
				AppName:   entry.Include.App,
				Conf:      nested,
			})
		case entry.Regex != "":
			pattern, err := NewRe(entry.Regex, entry.Name)
			if err != nil {
				return nil, err
			}
			conf.Entries = append(conf.Entries, pattern)
		default:
			pattern, err := NewPath(entry.Path, entry.Name)
			if err != nil {
				return nil, err
			}
			conf.Entries = append(conf.Entries, pattern)
		}
	}
	return conf, nil
}
