package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	indexability "github.com/Dome-Systems/indexability-go"
)

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid    bool     `json:"valid"`
	Policies int      `json:"policies"`
	Errors   []string `json:"errors,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Resolve every policy in a document",
		Long: `Resolve every include and update policy against an empty JSON object.

Catches unknown services, missing methods on services and expressions that do
not compile. Objects checked from the command line are JSON documents, so
policies naming Go methods cannot be satisfied here and are reported.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(cmd, rootOpts)
		},
	}
	return cmd
}

func runValidate(cmd *cobra.Command, rootOpts *RootOptions) error {
	out := newFormatter(rootOpts, cmd.OutOrStdout())
	logger := rootOpts.SlogLogger()

	cfg, err := loadConfig(cmd.Context(), rootOpts.Config, logger)
	if err != nil {
		return WrapExitError(ExitCommandError, "load config", err)
	}
	ev, err := newEvaluator(cfg, logger)
	if err != nil {
		return WrapExitError(ExitCommandError, "build evaluator", err)
	}

	res := ValidationResult{
		Policies: len(ev.TypeKeys(indexability.ActionInclude)) + len(ev.TypeKeys(indexability.ActionUpdate)),
	}
	verr := ev.Validate(map[string]any{})
	for _, e := range flatten(verr) {
		res.Errors = append(res.Errors, e.Error())
	}
	res.Valid = len(res.Errors) == 0

	if out.json() {
		resp := Response{Status: "ok", Data: res}
		if !res.Valid {
			resp.Status = "error"
			resp.Error = fmt.Sprintf("%d invalid policies", len(res.Errors))
		}
		if err := out.encode(resp); err != nil {
			return err
		}
	} else if res.Valid {
		out.pass("All %d policies valid", res.Policies)
	} else {
		for _, msg := range res.Errors {
			out.fail("%s", msg)
		}
		out.info("%d of %d policies invalid", len(res.Errors), res.Policies)
	}

	if !res.Valid {
		return WrapExitError(ExitFailure, "validation failed", verr)
	}
	return nil
}

// flatten expands an errors.Join result into its parts.
func flatten(err error) []error {
	if err == nil {
		return nil
	}
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		return joined.Unwrap()
	}
	return []error{err}
}
