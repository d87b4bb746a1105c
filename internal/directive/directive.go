// Package directive implements the inline configuration mini-language embedded
// in cypher blocks: lines of the form `//| key: value` that configure a single
// block without appearing in the published code.
//
// The scanner is deliberately independent of any document-processing library —
// it works on raw text and returns plain maps, so both the site builder and
// embedding hosts can call it directly.
package directive

import (
	"regexp"
	"strings"
)

// Recognized option keys. Every other key extracted from a block is preserved
// and passed through as an opaque attribute.
const (
	KeyContext  = "context"
	KeyEndpoint = "endpoint"
)

// DefaultContext is the value of the context option when no directive sets it.
const DefaultContext = "default"

// FallbackEndpoint is the last tier of the endpoint precedence chain, used
// when neither a block directive nor the process default is set.
const FallbackEndpoint = "http://127.0.0.1:8080"

// linePattern matches one directive line: the cypher comment marker plus a
// pipe, then a key token, a colon, and a value token. The key is a single
// word; values may contain spaces and colons (URLs, notably). Surrounding
// whitespace is absorbed by the pattern.
var linePattern = regexp.MustCompile(`^\s*//\|\s*([^:\s]+)\s*:\s*(.+?)\s*$`)

// Scan splits raw block text into directives and residual code. Matching lines
// are removed; every other line is kept in its original relative order.
//
// A line that merely resembles a directive (no colon, empty key) is treated as
// ordinary code. This is a deliberate permissive policy: a typo in a directive
// must not break the document, it just ships as visible code.
//
// When the same key appears on multiple lines, the last occurrence wins.
func Scan(text string) (map[string]string, string) {
	directives := make(map[string]string)
	var code []string

	for _, line := range strings.Split(text, "\n") {
		m := linePattern.FindStringSubmatch(line)
		if m == nil {
			code = append(code, line)
			continue
		}
		directives[m[1]] = m[2]
	}

	return directives, strings.Join(code, "\n")
}

// Options is a block's fully resolved option set. Every recognized key always
// has a value — resolution never yields "unset".
type Options map[string]string

// Resolve merges the built-in defaults with a block's directives. Directive
// values override defaults for identical keys; unrecognized keys are kept for
// forward compatibility. The endpoint goes through the full precedence chain
// (see ResolveEndpoint).
func Resolve(directives map[string]string, processDefault string) Options {
	opts := Options{
		KeyContext:  DefaultContext,
		KeyEndpoint: ResolveEndpoint("", processDefault),
	}
	for k, v := range directives {
		if k == KeyEndpoint {
			opts[k] = ResolveEndpoint(v, processDefault)
			continue
		}
		opts[k] = v
	}
	return opts
}

// ResolveEndpoint applies the three-tier endpoint precedence chain:
// block directive, then the process-configured default, then the hardcoded
// fallback address.
func ResolveEndpoint(fromDirective, processDefault string) string {
	if fromDirective != "" {
		return fromDirective
	}
	if processDefault != "" {
		return processDefault
	}
	return FallbackEndpoint
}

// StripLeadingBlank removes any number of leading empty or whitespace-only
// lines, so the published snippet starts at the first real line of code.
func StripLeadingBlank(code string) string {
	lines := strings.Split(code, "\n")
	i := 0
	for i < len(lines) && strings.TrimSpace(lines[i]) == "" {
		i++
	}
	return strings.Join(lines[i:], "\n")
}
