package resolve

import (
	nmpolicyerrors "github.com/nmstate/nmpolicy/pkg/nmpolicy/errors"
	"github.com/nmstate/nmpolicy/pkg/nmpolicy/path"
)

// replaceVisitor implements path-targeted substitution: whatever the
// path reaches is overwritten (or inserted) with replaceValue. Unlike
// filterVisitor it never prunes siblings.
type replaceVisitor struct {
	replaceValue State
}

// Replace returns a new map with replaceValue inserted at p, creating
// the key if it doesn't exist. It never writes into state or any of
// its nested maps/slices.
func Replace(state map[string]interface{}, p path.Path, replaceValue State) (map[string]interface{}, error) {
	result, err := VisitState(p, State(state), &replaceVisitor{replaceValue: replaceValue})
	if err != nil {
		return nil, err.(*nmpolicyerrors.PolicyError).WithContext("failed applying operation on the path")
	}
	switch v := result.(type) {
	case nil:
		return map[string]interface{}{}, nil
	case map[string]interface{}:
		return v, nil
	default:
		return nil, nmpolicyerrors.Evaluationf("failed converting result `%v` to a map", v)
	}
}

func (r *replaceVisitor) VisitLastMap(p *path.Path, m map[string]interface{}) (State, error) {
	step := p.CurrentStep()
	if step.Kind != path.StepIdentity {
		return nil, nmpolicyerrors.New(nmpolicyerrors.NotImplemented)
	}
	out := make(map[string]interface{}, len(m)+1)
	for k, v := range m {
		out[k] = v
	}
	out[step.Name] = r.replaceValue
	return out, nil
}

func (r *replaceVisitor) VisitLastSlice(p *path.Path, s []interface{}) (State, error) {
	step := p.CurrentStep()
	if step.Kind != path.StepIdentity {
		return nil, nmpolicyerrors.New(nmpolicyerrors.NotImplemented)
	}
	return r.VisitSlice(p, s)
}

func (r *replaceVisitor) VisitMap(p *path.Path, m map[string]interface{}) (State, error) {
	step := p.CurrentStep()
	if step.Kind != path.StepIdentity {
		return nil, nmpolicyerrors.New(nmpolicyerrors.NotSupported)
	}
	child, ok := m[step.Name]
	if !ok {
		return nil, nil
	}
	p.NextStep()
	visited, err := VisitState(*p, child, r)
	if err != nil {
		return nil, err
	}
	out := make(map[string]interface{}, len(m))
	for k, v := range m {
		out[k] = v
	}
	out[step.Name] = visited
	return out, nil
}

func (r *replaceVisitor) VisitSlice(p *path.Path, s []interface{}) (State, error) {
	step := p.CurrentStep()
	if step.Kind != path.StepIdentity {
		return nil, nmpolicyerrors.New(nmpolicyerrors.NotSupported)
	}
	result := make([]interface{}, len(s))
	for i, elem := range s {
		visited, err := VisitState(p.Clone(), elem, r)
		if err != nil {
			return nil, err
		}
		result[i] = visited
	}
	return result, nil
}
