// Package resolve implements the three state-tree operations built on
// top of a shared DFS driver: filter (equality-based pruning), replace
// (path-targeted substitution), and walk (path-targeted extraction).
// It also hosts the Resolver that orchestrates capture evaluation.
package resolve

import (
	"encoding/json"

	nmpolicyerrors "github.com/nmstate/nmpolicy/pkg/nmpolicy/errors"
	"github.com/nmstate/nmpolicy/pkg/nmpolicy/path"
)

// State is a JSON-style tree: nil, bool, float64, string, []interface{}
// or map[string]interface{}.
type State = interface{}

// StateVisitor is the capability set the DFS driver dispatches
// through. filter, replace and walk each provide their own
// implementation rather than sharing one dynamic-dispatch object.
type StateVisitor interface {
	VisitLastMap(p *path.Path, m map[string]interface{}) (State, error)
	VisitLastSlice(p *path.Path, s []interface{}) (State, error)
	VisitMap(p *path.Path, m map[string]interface{}) (State, error)
	VisitSlice(p *path.Path, s []interface{}) (State, error)
}

// VisitState is the shared tree-walk driver: it dispatches on the
// runtime kind of inputState and whether p has more steps left.
func VisitState(p path.Path, inputState State, visitor StateVisitor) (State, error) {
	switch v := inputState.(type) {
	case map[string]interface{}:
		if p.HasMoreSteps() {
			step := p.CurrentStep()
			if step.Kind != path.StepIdentity {
				return nil, nmpolicyerrors.Evaluationf(
					"unexpected non identity step for map state '%s'", mustJSON(v),
				).Path(step.Pos)
			}
			return visitor.VisitMap(&p, v)
		}
		return visitor.VisitLastMap(&p, v)

	case []interface{}:
		if p.HasMoreSteps() {
			return visitor.VisitSlice(&p, v)
		}
		return visitor.VisitLastSlice(&p, v)

	default:
		step := p.CurrentStep()
		return nil, nmpolicyerrors.Evaluationf(
			"invalid type %v for identity step '%s'", inputState, step,
		).Path(step.Pos)
	}
}

func mustJSON(v interface{}) string {
	b, err := json.Marshal(v)
	if err != nil {
		return "<unmarshalable>"
	}
	return string(b)
}
