// Package nmpolicy is the single public entry point of the policy
// pipeline: GenerateState ties capture parsing, resolution and
// placeholder expansion together the way graft's Evaluate ties
// parsing and operator evaluation together.
package nmpolicy

// StateTree is an opaque JSON-style tree: nil, bool, float64, string,
// []interface{}, or map[string]interface{}. Both current state and
// desired state are StateTrees from the pipeline's point of view.
type StateTree = map[string]interface{}

// MetaInfo is opaque, caller-supplied bookkeeping carried through a
// CapturedState on cache ingest and emit.
type MetaInfo struct {
	Version   string `yaml:"version,omitempty"`
	TimeStamp string `yaml:"timeStamp,omitempty"`
}

// CapturedState is the result of evaluating one capture entry,
// together with optional caller metadata.
type CapturedState struct {
	State    StateTree `yaml:"state"`
	MetaInfo *MetaInfo `yaml:"metaInfo,omitempty"`
}

// CapturedStates is the full set of resolved capture entries, keyed
// by capture name.
type CapturedStates map[string]CapturedState

// PolicySpec is the document the CLI reads: named capture expressions
// plus a desired-state template that may reference them.
type PolicySpec struct {
	Capture      map[string]string `yaml:"capture"`
	DesiredState StateTree         `yaml:"desiredState"`
}

// IsEmpty reports whether the policy has neither captures nor a
// desired state, the CLI's "treat as missing input" shortcut.
func (p PolicySpec) IsEmpty() bool {
	return len(p.Capture) == 0 && len(p.DesiredState) == 0
}

// GeneratedState is what GenerateState returns: the captured states
// it resolved (suitable as a cache for a subsequent call) and the
// expanded desired state.
type GeneratedState struct {
	Cache        CapturedStates `yaml:"cache"`
	DesiredState StateTree      `yaml:"desiredState"`
}
