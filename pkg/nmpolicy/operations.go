package nmpolicy

import (
	"github.com/nmstate/nmpolicy/pkg/nmpolicy/expand"
)

// GenerateState is the pipeline's single entry point: it resolves
// every capture entry in policy against currentState (reusing cache
// where possible), then expands policy.DesiredState's placeholders
// against the resulting captured states.
func GenerateState(policy PolicySpec, currentState StateTree, cache CapturedStates) (GeneratedState, error) {
	resolver, err := newResolver(policy.Capture)
	if err != nil {
		return GeneratedState{}, err
	}

	resolved, err := resolver.Resolve(currentState, toResolveCache(policy.Capture, cache))
	if err != nil {
		return GeneratedState{}, err
	}

	capturedStates := fromResolveStates(resolved, cache)

	expander := expand.New(resolver)
	desiredState, err := expander.Expand(policy.DesiredState)
	if err != nil {
		return GeneratedState{}, err
	}

	return GeneratedState{Cache: capturedStates, DesiredState: desiredState}, nil
}
