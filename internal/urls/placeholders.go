package urls

import "sync"

// Placeholder registries seed the trial reversals used while generating
// client-side reversal code. Each path parameter needs at least one sample
// value that its pattern accepts; builtin converters carry their own
// samples, everything else is registered here, optionally scoped to an app.

var (
	placeholderMu sync.RWMutex

	converterPlaceholders = map[string][]any{}
	variablePlaceholders  = map[string][]any{}
	appVariable           = map[string]map[string][]any{}
	unnamedPlaceholders   = map[string][][]any{}
	appUnnamed            = map[string]map[string][][]any{}
)

// RegisterConverterPlaceholder adds an extra sample value for every
// parameter using the named converter.
func RegisterConverterPlaceholder(converterName string, placeholder any) {
	placeholderMu.Lock()
	defer placeholderMu.Unlock()
	converterPlaceholders[converterName] = appendUnique(
		converterPlaceholders[converterName], placeholder,
	)
}

// RegisterVariablePlaceholder adds a sample value for a parameter name,
// optionally scoped to an app. App scoped samples are tried first.
func RegisterVariablePlaceholder(varName string, placeholder any, appName string) {
	placeholderMu.Lock()
	defer placeholderMu.Unlock()
	variablePlaceholders[varName] = appendUnique(variablePlaceholders[varName], placeholder)
	if appName != "" {
		byVar, ok := appVariable[appName]
		if !ok {
			byVar = map[string][]any{}
			appVariable[appName] = byVar
		}
		byVar[varName] = appendUnique(byVar[varName], placeholder)
	}
}

// RegisterUnnamedPlaceholders adds a full sample argument list for a url
// whose pattern captures only unnamed groups, optionally scoped to an app.
func RegisterUnnamedPlaceholders(urlName string, placeholders []any, appName string) {
	placeholderMu.Lock()
	defer placeholderMu.Unlock()
	unnamedPlaceholders[urlName] = append(unnamedPlaceholders[urlName], placeholders)
	if appName != "" {
		byURL, ok := appUnnamed[appName]
		if !ok {
			byURL = map[string][][]any{}
			appUnnamed[appName] = byURL
		}
		byURL[urlName] = append(byURL[urlName], placeholders)
	}
}

func appendUnique(list []any, value any) []any {
	for _, existing := range list {
		if existing == value {
			return list
		}
	}
	return append(list, value)
}

// ResolvePlaceholders returns every candidate sample value for a parameter,
// most specific first: the converter's own sample, extra converter samples,
// app scoped samples, then globally registered samples.
func ResolvePlaceholders(param Param, appName string) ([]any, error) {
	placeholderMu.RLock()
	defer placeholderMu.RUnlock()

	var candidates []any
	convName := ""
	if param.Converter != nil {
		convName = param.Converter.Name
		if param.Converter.Placeholder != nil {
			candidates = append(candidates, param.Converter.Placeholder)
		}
		candidates = append(candidates, converterPlaceholders[convName]...)
	}
	if appName != "" {
		if byVar, ok := appVariable[appName]; ok {
			candidates = append(candidates, byVar[param.Name]...)
		}
	}
	candidates = append(candidates, variablePlaceholders[param.Name]...)

	if len(candidates) == 0 {
		return nil, &PlaceholderNotFoundError{
			Parameter: param.Name,
			Converter: convName,
			AppName:   appName,
		}
	}
	return candidates, nil
}

// ResolveUnnamedPlaceholders returns every candidate argument list for a
// url with unnamed capture groups, app scoped lists first.
func ResolveUnnamedPlaceholders(urlName, appName string) ([][]any, error) {
	placeholderMu.RLock()
	defer placeholderMu.RUnlock()

	var candidates [][]any
	if appName != "" {
		if byURL, ok := appUnnamed[appName]; ok {
			candidates = append(candidates, byURL[urlName]...)
		}
	}
	candidates = append(candidates, unnamedPlaceholders[urlName]...)

	if len(candidates) == 0 {
		return nil, &PlaceholderNotFoundError{URLName: urlName, AppName: appName}
	}
	return candidates, nil
}
