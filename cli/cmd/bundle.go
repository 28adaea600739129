package cmd

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"modx/internal/bundle"
	"modx/internal/report"
	"modx/internal/source"
	"modx/internal/tooling"
)

type bundleDeployer interface {
	Deploy(ctx context.Context, bun source.Bundle) (*bundle.Result, error)
}

type bundleKind struct {
	name  string
	label string
	dir   string
	open  func(client tooling.Client, apiVersion float64) bundleDeployer
}

var bundleKinds = []bundleKind{
	{
		name:  "aura",
		label: "Aura Bundle",
		dir:   "aura",
		open: func(c tooling.Client, v float64) bundleDeployer {
			return bundle.NewAuraDeployer(c, v)
		},
	},
	{
		name:  "lwc",
		label: "Lightning Web Component",
		dir:   "lwc",
		open: func(c tooling.Client, v float64) bundleDeployer {
			return bundle.NewLWCDeployer(c, v)
		},
	},
}

func init() {
	for _, k := range bundleKinds {
		deployCmd.AddCommand(newBundleCmd(k))
	}
}

func newBundleCmd(kind bundleKind) *cobra.Command {
	var path string
	c := &cobra.Command{
		Use:     kind.name,
		Short:   "Save a " + kind.label + " directory or one file in it",
		Example: fmt.Sprintf("  modx deploy %s -p %s/myComponent", kind.name, kind.dir),
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runBundle(cmd, kind, path)
		},
	}
	c.Flags().StringVarP(&path, "filepath", "p", "", "bundle directory or a file inside it")
	_ = c.MarkFlagRequired("filepath")
	return c
}

func runBundle(cmd *cobra.Command, kind bundleKind, path string) error {
	start := time.Now()
	bun, err := source.ResolveBundle(path)
	if err != nil {
		return err
	}
	settings, client, err := openSession(cmd)
	if err != nil {
		return err
	}
	version, err := apiVersionNumber(settings)
	if err != nil {
		return err
	}
	CLILogs.Info("Saving %s %s (%d files)", kind.label, bun.Name, len(bun.Files))
	res, err := kind.open(client, version).Deploy(cmd.Context(), bun)
	if err != nil {
		return err
	}
	return renderBundle(cmd.OutOrStdout(), kind, res, time.Since(start))
}

type bundleFileOutput struct {
	File    string               `json:"file"`
	Mode    string               `json:"mode"`
	Success bool                 `json:"success"`
	Errors  []tooling.FieldError `json:"errors,omitempty"`
}

type bundleOutput struct {
	Bundle   string             `json:"bundle"`
	BundleID string             `json:"bundleId,omitempty"`
	Success  bool               `json:"success"`
	Mode     string             `json:"mode"`
	Error    string             `json:"error,omitempty"`
	Files    []bundleFileOutput `json:"files"`
	Seconds  float64            `json:"seconds"`
}

func renderBundle(out io.Writer, kind bundleKind, res *bundle.Result, elapsed time.Duration) error {
	if jsonOutput {
		o := bundleOutput{
			Bundle:   res.Bundle,
			BundleID: res.BundleID,
			Success:  res.Success(),
			Mode:     string(res.Mode),
			Error:    res.Error,
			Files:    []bundleFileOutput{},
			Seconds:  elapsed.Seconds(),
		}
		for _, f := range res.Files {
			o.Files = append(o.Files, bundleFileOutput{File: f.File, Mode: string(f.Mode), Success: f.Success, Errors: f.Errors})
		}
		if err := writeJSON(out, o); err != nil {
			return err
		}
		if !o.Success {
			return ErrDeployFailed
		}
		return nil
	}

	if res.Success() {
		fmt.Fprintln(out, report.Saved(kind.label, res.Mode, elapsed))
		return nil
	}
	if res.Error != "" {
		fmt.Fprintln(out, report.ErrorTable(res.Error))
	}
	var rows []report.FileError
	for _, f := range res.Failed() {
		if len(f.Errors) == 0 {
			rows = append(rows, report.FileError{File: f.File, Message: "rejected"})
		}
		for _, e := range f.Errors {
			rows = append(rows, report.FileError{File: f.File, Message: e.Message})
		}
	}
	if len(rows) > 0 {
		fmt.Fprintln(out, report.FileErrorTable(rows))
	}
	fmt.Fprintln(out, report.Failed(kind.label))
	return ErrDeployFailed
}
