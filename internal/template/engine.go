// Package template implements the placeholder substitution used for every
// generated page. This is deliberate string substitution, not a templating
// language: no conditionals, no loops, no nesting.
package template

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// placeholderRe matches a placeholder occurrence such as {content} or
// {title}. Only identifier-shaped names qualify, so brace constructs in CSS
// or JavaScript embedded in a template do not collide.
var placeholderRe = regexp.MustCompile(`\{([A-Za-z_][A-Za-z0-9_]*)\}`)

// MissingBindingError reports a placeholder used by a template that has no
// bound value. Rendering fails fast on the first one: leaving placeholder
// text verbatim in a published page is a silent, hard-to-spot bug.
type MissingBindingError struct {
	Placeholder string
}

func (e *MissingBindingError) Error() string {
	return fmt.Sprintf("no binding for placeholder {%s}", e.Placeholder)
}

// Render substitutes every placeholder occurrence in tmpl with its bound
// value. Substitution is textual and non-recursive: a bound value containing
// placeholder-looking text is emitted as-is, never re-scanned. Binding keys
// the template never references are permitted. A placeholder without a
// binding yields *MissingBindingError.
func Render(tmpl string, bindings map[string]string) (string, error) {
	var sb strings.Builder
	sb.Grow(len(tmpl))

	last := 0
	for _, loc := range placeholderRe.FindAllStringSubmatchIndex(tmpl, -1) {
		name := tmpl[loc[2]:loc[3]]
		value, ok := bindings[name]
		if !ok {
			return "", &MissingBindingError{Placeholder: name}
		}
		sb.WriteString(tmpl[last:loc[0]])
		sb.WriteString(value)
		last = loc[1]
	}
	sb.WriteString(tmpl[last:])
	return sb.String(), nil
}

// Placeholders returns the distinct placeholder names referenced by tmpl,
// sorted lexicographically.
func Placeholders(tmpl string) []string {
	seen := make(map[string]struct{})
	for _, m := range placeholderRe.FindAllStringSubmatch(tmpl, -1) {
		seen[m[1]] = struct{}{}
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
