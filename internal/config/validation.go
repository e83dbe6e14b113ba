package config

import (
	"fmt"

	rserrors "github.com/renderstatic/renderstatic/internal/errors"
)

// knownKeys are the recognized top level configuration directives.
var knownKeys = map[string]bool{
	"engines":      true,
	"apps":         true,
	"static_root":  true,
	"context":      true,
	"templates":    true,
	"urls":         true,
	"placeholders": true,
	"defines":      true,
	"watch":        true,
	"log-level":    true,
}

// Validate rejects configurations a render run could not honor, naming the
// offending key so the message is actionable.
func Validate(config *Config) error {
	for key := range V.AllSettings() {
		if !knownKeys[key] {
			return &rserrors.ConfigError{
				Key:     key,
				Message: "unrecognized configuration directive",
			}
		}
	}

	seen := map[string]bool{}
	for _, engine := range config.Engines {
		if engine.Name == "" {
			return &rserrors.ConfigError{
				Key:     "engines",
				Message: "every engine needs a name",
			}
		}
		if seen[engine.Name] {
			return &rserrors.ConfigError{
				Key:     "engines",
				Message: fmt.Sprintf("duplicate engine name %q", engine.Name),
			}
		}
		seen[engine.Name] = true
		switch engine.Backend {
		case "text", "html":
		default:
			return &rserrors.ConfigError{
				Key:     "engines",
				Message: fmt.Sprintf("unknown backend %q for engine %q (expected \"text\" or \"html\")", engine.Backend, engine.Name),
			}
		}
		if len(engine.Delimiters) != 0 && len(engine.Delimiters) != 2 {
			return &rserrors.ConfigError{
				Key:     "engines",
				Message: fmt.Sprintf("engine %q delimiters must be a [left, right] pair", engine.Name),
			}
		}
	}

	appLabels := map[string]bool{}
	for _, app := range config.Apps {
		if app.Label == "" || app.Path == "" {
			return &rserrors.ConfigError{
				Key:     "apps",
				Message: "every app needs a label and a path",
			}
		}
		if appLabels[app.Label] {
			return &rserrors.ConfigError{
				Key:     "apps",
				Message: fmt.Sprintf("duplicate app label %q", app.Label),
			}
		}
		appLabels[app.Label] = true
	}

	defineParents := map[string]string{}
	for _, define := range config.Defines {
		if define.Name == "" {
			return &rserrors.ConfigError{
				Key:     "defines",
				Message: "every define group needs a name",
			}
		}
		defineParents[define.Name] = define.Parent
	}
	for _, define := range config.Defines {
		walked := map[string]bool{define.Name: true}
		for parent := define.Parent; parent != ""; parent = defineParents[parent] {
			if walked[parent] {
				return &rserrors.ConfigError{
					Key:     "defines",
					Message: fmt.Sprintf("define group %q has cyclic parentage through %q", define.Name, parent),
				}
			}
			walked[parent] = true
		}
	}

	for _, variable := range config.Placeholders.Variables {
		if variable.Name == "" {
			return &rserrors.ConfigError{
				Key:     "placeholders.variables",
				Message: "every variable placeholder needs a name",
			}
		}
	}
	for _, unnamed := range config.Placeholders.Unnamed {
		if unnamed.URL == "" {
			return &rserrors.ConfigError{
				Key:     "placeholders.unnamed",
				Message: "every unnamed placeholder needs a url name",
			}
		}
	}

	return nil
}
