// Package path lowers an ast.Path node into an ordered sequence of
// typed steps, stripping a leading `capture.<name>` prefix into a
// separate field the way resolve/path.rs's Path::compose_from_node does.
package path

import (
	"fmt"

	"github.com/nmstate/nmpolicy/pkg/nmpolicy/ast"
	nmpolicyerrors "github.com/nmstate/nmpolicy/pkg/nmpolicy/errors"
)

// StepKind distinguishes a map-key step from a list-index step.
type StepKind int

const (
	StepIdentity StepKind = iota
	StepNumber
)

// Step is one element of a compiled Path.
type Step struct {
	Pos  int
	Kind StepKind
	Name string // StepIdentity
	Idx  uint64 // StepNumber
}

func (s Step) String() string {
	if s.Kind == StepIdentity {
		return fmt.Sprintf("identity(%s)", s.Name)
	}
	return fmt.Sprintf("number(%d)", s.Idx)
}

// Path is a compiled, cursor-bearing path: capture.<name> is stripped
// into CaptureEntryName (when present) and Steps holds whatever
// remains. Cursor tracks how far a tree-walk visitor has advanced.
type Path struct {
	CaptureEntryName string
	HasCaptureEntry  bool
	Steps            []Step
	cursor           int
}

// HasMoreSteps reports whether the cursor points before the last step.
func (p *Path) HasMoreSteps() bool {
	return p.cursor+1 < len(p.Steps)
}

// CurrentStep returns the step the cursor currently points at.
func (p *Path) CurrentStep() Step {
	return p.Steps[p.cursor]
}

// NextStep advances the cursor by one, if there is a further step.
func (p *Path) NextStep() {
	if p.HasMoreSteps() {
		p.cursor++
	}
}

// Clone returns a copy of p with its own independent cursor, so a
// caller can fan a path out across sibling elements of a list without
// the branches interfering with each other's traversal position.
func (p Path) Clone() Path {
	steps := make([]Step, len(p.Steps))
	copy(steps, p.Steps)
	p.Steps = steps
	return p
}

// ComposeFromNode lowers an ast.Path node into a Path. It rejects any
// other node kind, an empty step list, and a `capture` prefix missing
// its entry name.
func ComposeFromNode(node ast.Node) (Path, error) {
	if node.Kind != ast.Path {
		return Path{}, nmpolicyerrors.New(nmpolicyerrors.NotImplemented)
	}
	if len(node.Steps) == 0 {
		return Path{}, nmpolicyerrors.New(nmpolicyerrors.NotImplemented)
	}

	steps := make([]Step, 0, len(node.Steps))
	for _, n := range node.Steps {
		switch n.Kind {
		case ast.Identity:
			steps = append(steps, Step{Pos: n.Pos, Kind: StepIdentity, Name: n.Text})
		case ast.Number:
			steps = append(steps, Step{Pos: n.Pos, Kind: StepNumber, Idx: uint64(n.Num)})
		default:
			return Path{}, nmpolicyerrors.New(nmpolicyerrors.NotImplemented)
		}
	}

	p := Path{Steps: steps}
	if steps[0].Kind != StepIdentity {
		return Path{}, nmpolicyerrors.New(nmpolicyerrors.NotImplemented)
	}
	if steps[0].Name == "capture" {
		const captureRefSize = 2
		if len(p.Steps) < captureRefSize {
			return Path{}, nmpolicyerrors.Validationf("path capture ref is missing capture entry name")
		}
		if steps[1].Kind != StepIdentity {
			return Path{}, nmpolicyerrors.New(nmpolicyerrors.NotImplemented)
		}
		p.CaptureEntryName = steps[1].Name
		p.HasCaptureEntry = true
		p.Steps = p.Steps[2:]
	}
	return p, nil
}
