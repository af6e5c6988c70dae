// Package expand rewrites `{{ <expression> }}` placeholders inside a
// desired-state tree. It depends only on CapturePathResolver, not on
// the lexer/parser/path/resolve packages that implement it — the way
// expand/expander.rs depends only on the CapturePathResolver trait,
// never on resolve's own internals.
package expand

import (
	"regexp"

	nmpolicyerrors "github.com/nmstate/nmpolicy/pkg/nmpolicy/errors"
)

// placeholderPattern requires exactly one literal space inside the
// braces on each side; "{{foo}}" with no spaces is not a placeholder
// and passes through as a literal string.
var placeholderPattern = regexp.MustCompile(`^\{\{ (.*) \}\}$`)

// CapturePathResolver resolves a capture-path expression (a path,
// possibly prefixed with `capture.<name>`) against whatever captured
// states are in scope. The implementation owns lexing, parsing and
// walking; expand only ever sees the resulting value.
type CapturePathResolver interface {
	ResolveCaptureEntryPath(expression string) (interface{}, error)
}

// Expander substitutes placeholders found in a desired-state tree.
type Expander struct {
	resolver CapturePathResolver
}

// New builds an Expander backed by resolver.
func New(resolver CapturePathResolver) *Expander {
	return &Expander{resolver: resolver}
}

// Expand returns a copy of state with every whole-string placeholder
// replaced by the value its embedded expression resolves to.
func (e *Expander) Expand(state map[string]interface{}) (map[string]interface{}, error) {
	expanded, err := e.expandState(state)
	if err != nil {
		return nil, err
	}
	m, ok := expanded.(map[string]interface{})
	if !ok {
		return nil, nmpolicyerrors.New(nmpolicyerrors.Bug)
	}
	return m, nil
}

func (e *Expander) expandState(state interface{}) (interface{}, error) {
	switch v := state.(type) {
	case nil:
		return nil, nil
	case string:
		return e.expandString(v)
	case map[string]interface{}:
		return e.expandMap(v)
	case []interface{}:
		return e.expandSlice(v)
	default:
		return state, nil
	}
}

func (e *Expander) expandMap(m map[string]interface{}) (interface{}, error) {
	result := make(map[string]interface{}, len(m))
	for k, v := range m {
		expanded, err := e.expandState(v)
		if err != nil {
			return nil, err
		}
		result[k] = expanded
	}
	return result, nil
}

func (e *Expander) expandSlice(s []interface{}) (interface{}, error) {
	result := make([]interface{}, len(s))
	for i, v := range s {
		expanded, err := e.expandState(v)
		if err != nil {
			return nil, err
		}
		result[i] = expanded
	}
	return result, nil
}

func (e *Expander) expandString(s string) (interface{}, error) {
	matches := placeholderPattern.FindStringSubmatch(s)
	if matches == nil {
		return s, nil
	}
	return e.resolver.ResolveCaptureEntryPath(matches[1])
}
