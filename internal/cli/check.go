package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	indexability "github.com/Dome-Systems/indexability-go"
)

// CheckResult is the outcome of one check.
type CheckResult struct {
	Index  string `json:"index"`
	Type   string `json:"type"`
	Action string `json:"action"`
	Kind   string `json:"kind"`
	Result bool   `json:"result"`
}

type checkOptions struct {
	index  string
	typ    string
	action string
	file   string
}

// NewCheckCommand creates the check command.
func NewCheckCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &checkOptions{}

	cmd := &cobra.Command{
		Use:   "check [object-json]",
		Short: "Evaluate a policy against one object",
		Long: `Evaluate the include or update policy of an index type against a JSON object.

The object is read from the argument, from --file, or from standard input.`,
		Example: `  indexability check --index blog --type post '{"published": true}'
  indexability check -c https://config.internal/policies.yaml --index shop --type product --action update --file product.json`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd, rootOpts, opts, args)
		},
	}

	cmd.Flags().StringVar(&opts.index, "index", "", "index name")
	cmd.Flags().StringVar(&opts.typ, "type", "", "type name")
	cmd.Flags().StringVar(&opts.action, "action", string(indexability.ActionInclude), "policy to evaluate (include|update)")
	cmd.Flags().StringVarP(&opts.file, "file", "f", "", "read the object from a JSON file")
	_ = cmd.MarkFlagRequired("index")
	_ = cmd.MarkFlagRequired("type")

	return cmd
}

func runCheck(cmd *cobra.Command, rootOpts *RootOptions, opts *checkOptions, args []string) error {
	out := newFormatter(rootOpts, cmd.OutOrStdout())
	logger := rootOpts.SlogLogger()

	action := indexability.Action(opts.action)
	if action != indexability.ActionInclude && action != indexability.ActionUpdate {
		return WrapExitError(ExitCommandError, "invalid action", fmt.Errorf("%q must be %s or %s", opts.action, indexability.ActionInclude, indexability.ActionUpdate))
	}

	object, err := checkInput(cmd, opts, args)
	if err != nil {
		return WrapExitError(ExitCommandError, "read object", err)
	}

	cfg, err := loadConfig(cmd.Context(), rootOpts.Config, logger)
	if err != nil {
		return WrapExitError(ExitCommandError, "load config", err)
	}
	ev, err := newEvaluator(cfg, logger)
	if err != nil {
		return WrapExitError(ExitCommandError, "build evaluator", err)
	}

	var result bool
	if action == indexability.ActionInclude {
		result, err = ev.IsIndexable(opts.index, opts.typ, object)
	} else {
		result, err = ev.NeedsUpdate(opts.index, opts.typ, object)
	}
	if err != nil {
		return WrapExitError(ExitFailure, "evaluate policy", err)
	}

	resolved, err := ev.Resolve(action, opts.index, opts.typ, object)
	if err != nil {
		return WrapExitError(ExitFailure, "resolve policy", err)
	}

	res := CheckResult{
		Index:  opts.index,
		Type:   opts.typ,
		Action: string(action),
		Kind:   resolved.Kind().String(),
		Result: result,
	}
	if out.json() {
		return out.encode(Response{Status: "ok", Data: res})
	}

	key := indexability.TypeKey(opts.index, opts.typ)
	switch {
	case action == indexability.ActionInclude && result:
		out.pass("%s: indexable (%s policy)", key, res.Kind)
	case action == indexability.ActionInclude:
		out.fail("%s: not indexable (%s policy)", key, res.Kind)
	case result:
		out.pass("%s: needs update (%s policy)", key, res.Kind)
	default:
		out.fail("%s: up to date (%s policy)", key, res.Kind)
	}
	return nil
}

func checkInput(cmd *cobra.Command, opts *checkOptions, args []string) (map[string]any, error) {
	var r io.Reader
	switch {
	case len(args) == 1 && opts.file != "":
		return nil, fmt.Errorf("pass the object as an argument or with --file, not both")
	case len(args) == 1:
		r = strings.NewReader(args[0])
	case opts.file != "":
		f, err := os.Open(opts.file)
		if err != nil {
			return nil, err
		}
		defer func() { _ = f.Close() }()
		r = f
	default:
		r = cmd.InOrStdin()
	}
	return readObject(r)
}
