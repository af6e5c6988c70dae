// Command nmpolicyctl is the CLI front-end around pkg/nmpolicy: it
// reads a policy document and a current-state document as YAML, calls
// GenerateState, and writes the resulting desired state (and,
// optionally, the captured-states cache) back out as YAML, in the
// style of graft's cmd/graft/main.go.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/geofffranks/simpleyaml"
	"github.com/mattn/go-isatty"
	"github.com/starkandwayne/goutils/ansi"
	"github.com/voxelbrain/goptions"
	"gopkg.in/yaml.v3"

	"github.com/nmstate/nmpolicy/internal/log"
	nmpolicyerrors "github.com/nmstate/nmpolicy/pkg/nmpolicy/errors"
	"github.com/nmstate/nmpolicy/pkg/nmpolicy"
)

var printfStdOut = func(format string, args ...interface{}) {
	fmt.Fprintf(os.Stdout, format, args...)
}

var getopts = func(o interface{}) {
	if err := goptions.Parse(o); err != nil {
		usage()
	}
}

var exit = func(code int) {
	os.Exit(code)
}

var usage = func() {
	goptions.PrintHelp()
	exit(1)
}

type genOpts struct {
	CurrentState         string             `goptions:"-s, --current-state, description='Input file path to the current state. If not specified, STDIN is used.'"`
	CapturedStatesInput  string             `goptions:"-i, --captured-states-input, description='Input file path for already resolved captured states.'"`
	CapturedStatesOutput string             `goptions:"-o, --captured-states-output, description='Output file path for the emitted captured states.'"`
	Help                 bool               `goptions:"--help, -h"`
	Policy               goptions.Remainder `goptions:"description='Policy document to generate NMState from.'"`
}

func main() {
	var options struct {
		Debug   bool    `goptions:"-D, --debug, description='Enable debugging'"`
		Trace   bool    `goptions:"-T, --trace, description='Enable trace mode debugging (very verbose)'"`
		Color   string  `goptions:"--color, description='Control color output (on/off/auto, default: auto)'"`
		Action  goptions.Verbs
		Gen     genOpts `goptions:"gen"`
	}
	getopts(&options)

	if envFlag("DEBUG") || options.Debug {
		log.DebugOn = true
	}
	if envFlag("TRACE") || options.Trace {
		log.TraceOn = true
		log.DebugOn = true
	}

	shouldEnableColor := false
	switch options.Color {
	case "on":
		shouldEnableColor = true
	case "off":
		shouldEnableColor = false
	case "auto", "":
		shouldEnableColor = isatty.IsTerminal(os.Stderr.Fd())
	default:
		log.PrintfStdErr("Invalid --color option: %s. Must be 'on', 'off', or 'auto'.\n", options.Color)
		exit(1)
		return
	}
	ansi.Color(shouldEnableColor)

	switch options.Action {
	case "gen":
		if options.Gen.Help || len(options.Gen.Policy) == 0 {
			usage()
			return
		}
		output, err := cmdGen(options.Gen)
		if err != nil {
			log.PrintfStdErr("%s\n", nmpolicyerrors.ColorizedError(err))
			exit(2)
			return
		}
		printfStdOut("%s", output)
	default:
		usage()
	}
}

func envFlag(varname string) bool {
	val := os.Getenv(varname)
	return val != "" && val != "0" && val != "false"
}

func cmdGen(opts genOpts) (string, error) {
	policySpec, err := readPolicySpec(opts.Policy[0])
	if err != nil {
		return "", err
	}
	currentState, err := readStateTree(opts.CurrentState)
	if err != nil {
		return "", err
	}

	if policySpec.IsEmpty() || len(currentState) == 0 {
		if opts.CapturedStatesOutput != "" {
			if err := touch(opts.CapturedStatesOutput); err != nil {
				return "", nmpolicyerrors.Wrap(err)
			}
		}
		return "", nil
	}

	var cache nmpolicy.CapturedStates
	if opts.CapturedStatesInput != "" {
		cache, err = readCapturedStates(opts.CapturedStatesInput)
		if err != nil {
			return "", err
		}
	}

	log.DEBUG("generating state for policy '%s'", opts.Policy[0])
	generated, err := nmpolicy.GenerateState(policySpec, currentState, cache)
	if err != nil {
		return "", err
	}

	if opts.CapturedStatesOutput != "" {
		out, err := yaml.Marshal(generated.Cache)
		if err != nil {
			return "", nmpolicyerrors.Wrap(err)
		}
		if err := os.WriteFile(opts.CapturedStatesOutput, out, 0o644); err != nil {
			return "", nmpolicyerrors.Wrap(err)
		}
	}

	desiredStateYAML, err := yaml.Marshal(generated.DesiredState)
	if err != nil {
		return "", nmpolicyerrors.Wrap(err)
	}
	return string(desiredStateYAML), nil
}

func touch(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	return f.Close()
}

func readPolicySpec(path string) (nmpolicy.PolicySpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nmpolicy.PolicySpec{}, nmpolicyerrors.Wrap(err)
	}
	if isMissing(data) {
		return nmpolicy.PolicySpec{}, nil
	}
	var policySpec nmpolicy.PolicySpec
	if err := yaml.Unmarshal(data, &policySpec); err != nil {
		return nmpolicy.PolicySpec{}, nmpolicyerrors.Wrap(err)
	}
	return policySpec, nil
}

func readStateTree(path string) (nmpolicy.StateTree, error) {
	data, err := readFileOrStdin(path)
	if err != nil {
		return nil, err
	}
	if isMissing(data) {
		return nmpolicy.StateTree{}, nil
	}
	var state nmpolicy.StateTree
	if err := yaml.Unmarshal(data, &state); err != nil {
		return nil, nmpolicyerrors.Wrap(err)
	}
	return state, nil
}

func readCapturedStates(path string) (nmpolicy.CapturedStates, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nmpolicyerrors.Wrap(err)
	}
	if isMissing(data) {
		return nmpolicy.CapturedStates{}, nil
	}
	var cache nmpolicy.CapturedStates
	if err := yaml.Unmarshal(data, &cache); err != nil {
		return nil, nmpolicyerrors.Wrap(err)
	}
	return cache, nil
}

func readFileOrStdin(path string) ([]byte, error) {
	if path == "" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, nmpolicyerrors.Wrap(err)
		}
		return data, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nmpolicyerrors.Wrap(err)
	}
	return data, nil
}

// isMissing reports whether data is empty, contains only a single
// newline, or is a YAML document simpleyaml parses as empty — the
// shapes the CLI treats as "no document supplied" rather than an
// error. The last check mirrors graft's empty-YAML-doc check in
// parseYAML, via the same simpleyaml library.
func isMissing(data []byte) bool {
	if len(data) == 0 {
		return true
	}
	if string(data) == "\n" {
		return true
	}
	y, err := simpleyaml.NewYaml(data)
	if err != nil {
		return false
	}
	emptyY, _ := simpleyaml.NewYaml([]byte{})
	return *y == *emptyY
}
