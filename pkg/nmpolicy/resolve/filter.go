package resolve

import (
	nmpolicyerrors "github.com/nmstate/nmpolicy/pkg/nmpolicy/errors"
	"github.com/nmstate/nmpolicy/pkg/nmpolicy/path"
)

// filterVisitor implements equality-based selective tree pruning.
// When expected is nil it is a pure projection: keep whatever the path
// reaches, with no comparison. mergeVisitResult controls whether a
// sibling that didn't match is kept (true, when fanning across a
// list) or dropped (false, at the top level).
type filterVisitor struct {
	mergeVisitResult bool
	expected         State
}

// Filter projects, or equality-filters, state at path, returning a new
// map (never mutating state). expected == nil means "just project".
func Filter(state map[string]interface{}, p path.Path, expected State) (map[string]interface{}, error) {
	result, err := VisitState(p, State(state), &filterVisitor{expected: expected})
	if err != nil {
		return nil, err.(*nmpolicyerrors.PolicyError).WithContext("failed applying operation on the path")
	}
	switch v := result.(type) {
	case nil:
		return map[string]interface{}{}, nil
	case map[string]interface{}:
		return v, nil
	default:
		return nil, nmpolicyerrors.Evaluationf("failed converting filtering result `%v` to a map", v)
	}
}

func (f *filterVisitor) VisitLastMap(p *path.Path, m map[string]interface{}) (State, error) {
	step := p.CurrentStep()
	if step.Kind != path.StepIdentity {
		return nil, nmpolicyerrors.Evaluationf("unexpected step type visiting last map").Path(step.Pos)
	}
	obtained, ok := m[step.Name]
	if !ok {
		return nil, nil
	}
	if f.expected == nil {
		return map[string]interface{}{step.Name: obtained}, nil
	}
	if !sameJSONKind(f.expected, obtained) {
		return nil, nmpolicyerrors.Evaluationf(
			"type mismatch: %v != %v", obtained, f.expected,
		).Path(step.Pos)
	}
	if deepEqual(obtained, f.expected) {
		return m, nil
	}
	return nil, nil
}

func (f *filterVisitor) VisitLastSlice(p *path.Path, s []interface{}) (State, error) {
	step := p.CurrentStep()
	if step.Kind != path.StepIdentity {
		return nil, nmpolicyerrors.Evaluationf("failed filtering map: path with index not supported").Path(step.Pos)
	}
	return f.VisitSlice(p, s)
}

func (f *filterVisitor) VisitMap(p *path.Path, m map[string]interface{}) (State, error) {
	step := p.CurrentStep()
	if step.Kind != path.StepIdentity {
		return nil, nmpolicyerrors.Evaluationf("failed filtering map: path with index not supported").Path(step.Pos)
	}
	child, ok := m[step.Name]
	if !ok {
		return nil, nil
	}
	p.NextStep()
	visited, err := VisitState(*p, child, f)
	if err != nil {
		return nil, err.(*nmpolicyerrors.PolicyError).Path(step.Pos)
	}
	if visited == nil {
		return nil, nil
	}
	filtered := map[string]interface{}{}
	if f.mergeVisitResult {
		for k, v := range m {
			filtered[k] = v
		}
	}
	filtered[step.Name] = visited
	return filtered, nil
}

func (f *filterVisitor) VisitSlice(p *path.Path, s []interface{}) (State, error) {
	step := p.CurrentStep()
	if step.Kind != path.StepIdentity {
		return nil, nmpolicyerrors.Evaluationf("failed filtering slice: path with index not supported").Path(step.Pos)
	}
	var filtered []interface{}
	hasResult := false
	for _, elem := range s {
		visited, err := VisitState(p.Clone(), elem, &filterVisitor{mergeVisitResult: true, expected: f.expected})
		if err != nil {
			return nil, err
		}
		if visited != nil {
			hasResult = true
			filtered = append(filtered, visited)
		} else if f.mergeVisitResult {
			filtered = append(filtered, elem)
		}
	}
	if !hasResult {
		return nil, nil
	}
	return filtered, nil
}

func sameJSONKind(a, b interface{}) bool {
	return isBool(a) == isBool(b) &&
		isNumber(a) == isNumber(b) &&
		isString(a) == isString(b) &&
		isArray(a) == isArray(b) &&
		isObject(a) == isObject(b)
}

func isBool(v interface{}) bool   { _, ok := v.(bool); return ok }
func isNumber(v interface{}) bool {
	switch v.(type) {
	case float64, int, int32, int64, uint64:
		return true
	default:
		return false
	}
}
func isString(v interface{}) bool { _, ok := v.(string); return ok }
func isArray(v interface{}) bool  { _, ok := v.([]interface{}); return ok }
func isObject(v interface{}) bool { _, ok := v.(map[string]interface{}); return ok }
