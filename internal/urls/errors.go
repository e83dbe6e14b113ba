package urls

import "fmt"

// NoReverseMatchError is returned when a qualified name exists but none of
// its patterns can be reversed with the supplied arguments.
type NoReverseMatchError struct {
	QName  string
	Kwargs map[string]any
	Args   []any
}

func (e *NoReverseMatchError) Error() string {
	if len(e.Args) > 0 {
		return fmt.Sprintf("no reversal of %q with args %v", e.QName, e.Args)
	}
	return fmt.Sprintf("no reversal of %q with kwargs %v", e.QName, e.Kwargs)
}

// NotFoundError is returned when a qualified name does not resolve to any
// registered pattern group.
type NotFoundError struct {
	QName string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no url registered under %q", e.QName)
}

// PlaceholderNotFoundError is returned when no placeholder has been
// registered for a path parameter and a trial reversal cannot be seeded.
type PlaceholderNotFoundError struct {
	Parameter string
	Converter string
	URLName   string
	AppName   string
}

func (e *PlaceholderNotFoundError) Error() string {
	if e.Parameter != "" {
		return fmt.Sprintf(
			"no placeholder registered for parameter %q (converter: %q, app: %q)",
			e.Parameter, e.Converter, e.AppName,
		)
	}
	return fmt.Sprintf(
		"no unnamed placeholders registered for url %q (app: %q)",
		e.URLName, e.AppName,
	)
}

// PatternError reports a route or regex pattern that could not be parsed.
type PatternError struct {
	Pattern string
	Reason  string
}

func (e *PatternError) Error() string {
	return fmt.Sprintf("invalid pattern %q: %s", e.Pattern, e.Reason)
}
