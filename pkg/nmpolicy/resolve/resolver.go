package resolve

import (
	"github.com/nmstate/nmpolicy/pkg/nmpolicy/ast"
	nmpolicyerrors "github.com/nmstate/nmpolicy/pkg/nmpolicy/errors"
	"github.com/nmstate/nmpolicy/pkg/nmpolicy/parser"
	"github.com/nmstate/nmpolicy/pkg/nmpolicy/path"
)

// CaptureEntry pairs a capture expression's source text with its
// already-parsed AST, so the resolver never needs to know about the
// lexer or parser.
type CaptureEntry struct {
	Expression string
	AST        ast.Node
}

// CapturedState is one entry of a resolved captured-states map.
type CapturedState struct {
	State    map[string]interface{}
	MetaInfo interface{}
}

// Resolver orchestrates capture evaluation: it holds the parsed
// capture map, the current state, and the captured-states map being
// built up by value across the whole invocation. currentNode is the
// node the evaluation steps read; together with currentExpression it
// also decorates the error Resolve returns.
type Resolver struct {
	capture        map[string]CaptureEntry
	currentState   map[string]interface{}
	capturedStates map[string]CapturedState

	currentNode       *ast.Node
	currentExpression string

	visiting map[string]bool
}

// NewResolver builds a Resolver over an already-parsed capture map.
func NewResolver(capture map[string]CaptureEntry) *Resolver {
	return &Resolver{
		capture:        capture,
		capturedStates: map[string]CapturedState{},
		visiting:       map[string]bool{},
	}
}

// Resolve evaluates every capture entry against currentState, seeding
// the captured-states map from cache first, and returns the full
// captured-states map (cache entries plus newly resolved ones).
func (r *Resolver) Resolve(currentState map[string]interface{}, cache map[string]CapturedState) (map[string]CapturedState, error) {
	r.currentState = currentState
	if cache != nil {
		r.capturedStates = cache
	}
	for name := range r.capture {
		if _, err := r.resolveCaptureEntryByName(name); err != nil {
			pe := err.(*nmpolicyerrors.PolicyError).Decorate(r.currentExpression, 0).Resolver()
			if r.currentNode != nil {
				pe = pe.WithPos(r.currentNode.Pos)
			}
			return nil, pe
		}
	}
	return r.capturedStates, nil
}

// resolveCaptureEntryByName is memoised: the first successful
// resolution of a name is stored in capturedStates and never
// recomputed, whether it arrived via cache or via this call.
//
// Cycle detection: a name already in r.visiting when re-entered means
// its own expression (directly or transitively) references itself;
// the reference implementation has no guard against this and would
// recurse until the stack overflows, so this resolver tracks
// in-progress names explicitly and reports it as an EvaluationError.
func (r *Resolver) resolveCaptureEntryByName(name string) (map[string]interface{}, error) {
	if entry, ok := r.capturedStates[name]; ok {
		return entry.State, nil
	}
	entry, ok := r.capture[name]
	if !ok {
		return nil, nmpolicyerrors.Evaluationf("capture entry '%s' not found", name)
	}
	if r.visiting[name] {
		return nil, nmpolicyerrors.Evaluationf("capture cycle detected involving '%s'", name)
	}
	r.visiting[name] = true
	defer delete(r.visiting, name)

	r.currentExpression = entry.Expression
	node := entry.AST
	r.currentNode = &node

	resolved, err := r.resolveCurrentCaptureEntry()
	if err != nil {
		return nil, err
	}
	r.capturedStates[name] = CapturedState{State: resolved}
	return resolved, nil
}

func (r *Resolver) resolveCurrentCaptureEntry() (map[string]interface{}, error) {
	node := r.currentNode
	switch node.Kind {
	case ast.EqFilter:
		input, p, value, err := r.resolveTernaryOperator(node)
		if err != nil {
			return nil, err.(*nmpolicyerrors.PolicyError).EqFilter()
		}
		result, err := Filter(input, p, value)
		if err != nil {
			return nil, err.(*nmpolicyerrors.PolicyError).EqFilter()
		}
		return result, nil
	case ast.Replace:
		input, p, value, err := r.resolveTernaryOperator(node)
		if err != nil {
			return nil, err.(*nmpolicyerrors.PolicyError).Replace()
		}
		result, err := Replace(input, p, value)
		if err != nil {
			return nil, err.(*nmpolicyerrors.PolicyError).Replace()
		}
		return result, nil
	case ast.Path:
		return r.resolvePathFilter(*node)
	default:
		return nil, nmpolicyerrors.Evaluationf("root node has unsupported operation : %s", node)
	}
}

func (r *Resolver) resolvePathFilter(node ast.Node) (map[string]interface{}, error) {
	p, err := path.ComposeFromNode(node)
	if err != nil {
		return nil, err
	}
	return Filter(r.currentState, p, nil)
}

func (r *Resolver) resolveTernaryOperator(node *ast.Node) (map[string]interface{}, path.Path, State, error) {
	operatorNode := r.currentNode

	r.currentNode = node.Input
	inputSource, err := r.resolveInputSource()
	if err != nil {
		return nil, path.Path{}, nil, err
	}

	r.currentNode = node.Target
	p, err := path.ComposeFromNode(*node.Target)
	if err != nil {
		return nil, path.Path{}, nil, err
	}

	r.currentNode = node.Value
	var value State
	switch node.Value.Kind {
	case ast.Str:
		value = node.Value.Text
	case ast.Path:
		value, err = r.resolveCaptureEntryPath()
		if err != nil {
			return nil, path.Path{}, nil, err
		}
	default:
		return nil, path.Path{}, nil, nmpolicyerrors.Evaluationf(
			"not supported value. Only string or capture entry path are supported",
		)
	}

	r.currentNode = operatorNode
	return inputSource, p, value, nil
}

// resolveCaptureEntryPath resolves the capture reference currentNode
// points at, then walks its remaining steps through that entry's
// state. It backs both a ternary's value operand and the placeholder
// substitution the expander performs.
func (r *Resolver) resolveCaptureEntryPath() (State, error) {
	node := *r.currentNode
	p, err := path.ComposeFromNode(node)
	if err != nil {
		return nil, err
	}
	if !p.HasCaptureEntry {
		return nil, nmpolicyerrors.Evaluationf(
			"not supported filtered value path. Only paths with a capture entry reference are supported",
		)
	}
	capturedState, err := r.resolveCaptureEntryByName(p.CaptureEntryName)
	if err != nil {
		return nil, err
	}
	return Walk(capturedState, p)
}

// ResolveCaptureEntryPath implements the expand package's
// CapturePathResolver interface: it lexes and parses expression into a
// one-off AST and resolves it the same way a ternary's value operand
// would be, the way resolve_entry_path re-parses a placeholder's
// captured group at expand time instead of sharing the policy AST.
func (r *Resolver) ResolveCaptureEntryPath(expression string) (interface{}, error) {
	node, err := parser.Parse(expression)
	if err != nil {
		return nil, err
	}
	r.currentNode = &node
	return r.resolveCaptureEntryPath()
}

// resolveInputSource returns a fresh clone of whichever map the
// ternary's left-hand side names, the way the reference implementation
// clones current_state (or a referenced capture's state) before
// handing it to filter/replace — neither of those may be allowed to
// alias into currentState or a memoised capturedStates entry, since a
// later replace along the same traversal would otherwise mutate state
// this resolver must treat as immutable.
func (r *Resolver) resolveInputSource() (map[string]interface{}, error) {
	node := *r.currentNode
	if ast.IsCurrentState(node) {
		return deepCloneMap(r.currentState), nil
	}
	p, err := path.ComposeFromNode(node)
	if err != nil {
		return nil, nmpolicyerrors.Evaluationf(
			"invalid input source (%s), only current state or capture reference is supported", node,
		)
	}
	if !p.HasCaptureEntry {
		return nil, nmpolicyerrors.Evaluationf(
			"invalid path input source (%s), only capture reference is supported", node,
		)
	}
	captured, err := r.resolveCaptureEntryByName(p.CaptureEntryName)
	if err != nil {
		return nil, err
	}
	return deepCloneMap(captured), nil
}
