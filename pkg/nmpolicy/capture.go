package nmpolicy

import (
	nmpolicyerrors "github.com/nmstate/nmpolicy/pkg/nmpolicy/errors"
	"github.com/nmstate/nmpolicy/pkg/nmpolicy/parser"
	"github.com/nmstate/nmpolicy/pkg/nmpolicy/resolve"
)

// parseCapture lexes and parses every entry of a policy's capture map,
// so the resolver only ever sees already-validated ASTs.
func parseCapture(capture map[string]string) (map[string]resolve.CaptureEntry, error) {
	parsed := make(map[string]resolve.CaptureEntry, len(capture))
	for name, expression := range capture {
		node, err := parser.Parse(expression)
		if err != nil {
			return nil, err
		}
		parsed[name] = resolve.CaptureEntry{Expression: expression, AST: node}
	}
	return parsed, nil
}

// toResolveCache converts the caller-supplied cache into the shape the
// resolver works with, keeping only entries whose capture is still
// present in the policy; a cache entry for a capture the policy no
// longer defines is simply dropped rather than erroring.
func toResolveCache(capture map[string]string, cache CapturedStates) map[string]resolve.CapturedState {
	if cache == nil {
		return nil
	}
	resolveCache := make(map[string]resolve.CapturedState, len(cache))
	for name, cs := range cache {
		if _, ok := capture[name]; !ok {
			continue
		}
		resolveCache[name] = resolve.CapturedState{State: cs.State}
	}
	return resolveCache
}

// fromResolveStates converts the resolver's captured-states map back
// into the public CapturedStates shape, re-attaching any meta info the
// cache carried for entries that were reused rather than recomputed.
func fromResolveStates(resolved map[string]resolve.CapturedState, cache CapturedStates) CapturedStates {
	out := make(CapturedStates, len(resolved))
	for name, cs := range resolved {
		entry := CapturedState{State: cs.State}
		if cache != nil {
			if cached, ok := cache[name]; ok {
				entry.MetaInfo = cached.MetaInfo
			}
		}
		out[name] = entry
	}
	return out
}

func newResolver(capture map[string]string) (*resolve.Resolver, error) {
	parsed, err := parseCapture(capture)
	if err != nil {
		return nil, nmpolicyerrors.Wrap(err)
	}
	return resolve.NewResolver(parsed), nil
}
