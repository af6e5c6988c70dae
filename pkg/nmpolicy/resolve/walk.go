package resolve

import (
	nmpolicyerrors "github.com/nmstate/nmpolicy/pkg/nmpolicy/errors"
	"github.com/nmstate/nmpolicy/pkg/nmpolicy/path"
)

// walkVisitor implements path-targeted extraction: it never mutates,
// it only reads the value the path points at.
type walkVisitor struct{}

// Walk returns the value at p within state, without copying siblings.
// A path with no steps (a bare capture.<name>) yields state itself.
func Walk(state map[string]interface{}, p path.Path) (State, error) {
	if len(p.Steps) == 0 {
		return state, nil
	}
	result, err := VisitState(p, State(state), &walkVisitor{})
	if err != nil {
		return nil, err.(*nmpolicyerrors.PolicyError).WithContext("failed walking path")
	}
	return result, nil
}

func (w *walkVisitor) VisitLastMap(p *path.Path, m map[string]interface{}) (State, error) {
	return accessMap(p, m)
}

func (w *walkVisitor) VisitLastSlice(p *path.Path, s []interface{}) (State, error) {
	return accessSlice(p, s)
}

func (w *walkVisitor) VisitMap(p *path.Path, m map[string]interface{}) (State, error) {
	value, err := accessMap(p, m)
	if err != nil {
		return nil, err
	}
	p.NextStep()
	return VisitState(*p, value, w)
}

func (w *walkVisitor) VisitSlice(p *path.Path, s []interface{}) (State, error) {
	value, err := accessSlice(p, s)
	if err != nil {
		return nil, err
	}
	p.NextStep()
	return VisitState(*p, value, w)
}

func accessMap(p *path.Path, m map[string]interface{}) (State, error) {
	step := p.CurrentStep()
	if step.Kind != path.StepIdentity {
		return nil, nmpolicyerrors.Evaluationf(
			"unexpected non identity step for map state '%s'", mustJSON(m),
		).Path(step.Pos)
	}
	value, ok := m[step.Name]
	if !ok {
		return nil, nmpolicyerrors.Evaluationf(
			"step not found at map state '%s'", mustJSON(m),
		).Path(step.Pos)
	}
	return value, nil
}

func accessSlice(p *path.Path, s []interface{}) (State, error) {
	step := p.CurrentStep()
	if step.Kind != path.StepNumber {
		return nil, nmpolicyerrors.Evaluationf(
			"unexpected non numeric step for slice state '%s'", mustJSON(s),
		).Path(step.Pos)
	}
	if step.Idx >= uint64(len(s)) {
		return nil, nmpolicyerrors.Evaluationf(
			"step not found at slice state '%s'", mustJSON(s),
		).Path(step.Pos)
	}
	return s[step.Idx], nil
}
