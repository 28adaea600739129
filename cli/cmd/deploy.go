package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"modx/internal/deploy"
	"modx/internal/report"
	"modx/internal/source"
	"modx/internal/tooling"
)

var deployCmd = &cobra.Command{
	Use:   "deploy",
	Short: "Save source files straight to an org",
	Long: `Compiles and saves one artifact at a time. Classes, triggers and
Visualforce go through a metadata container and are compiled on the server;
Aura and LWC bundles and static resources are written as records.`,
}

func init() {
	for _, kind := range deploy.Kinds() {
		deployCmd.AddCommand(newSourceCmd(kind))
	}
	rootCmd.AddCommand(deployCmd)
}

func newSourceCmd(kind deploy.Kind) *cobra.Command {
	var path string
	c := &cobra.Command{
		Use:     kind.Name,
		Short:   fmt.Sprintf("Save a %s (%s)", kind.Label, kind.Extension),
		Example: fmt.Sprintf("  modx deploy %s -p path/to/Name%s", kind.Name, kind.Extension),
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSource(cmd, kind, path)
		},
	}
	c.Flags().StringVarP(&path, "filepath", "p", "", "path to the "+kind.Extension+" file")
	_ = c.MarkFlagRequired("filepath")
	return c
}

func runSource(cmd *cobra.Command, kind deploy.Kind, path string) error {
	start := time.Now()

	body, sidecar, err := source.ReadArtifact(path)
	if err != nil {
		return err
	}
	var md *deploy.Metadata
	if sidecar != nil {
		if md, err = deploy.ParseMetadata(sidecar); err != nil {
			return fmt.Errorf("%s: %w", path+source.SidecarSuffix, err)
		}
	}

	settings, client, err := openSession(cmd)
	if err != nil {
		return err
	}
	version, err := apiVersionNumber(settings)
	if err != nil {
		return err
	}
	d := deploy.NewDeployer(client, deploy.Options{
		PollInterval: settings.PollInterval,
		MaxPolls:     settings.MaxPolls,
		APIVersion:   version,
	})

	name := source.Name(path, kind.Extension)
	CLILogs.Info("Saving %s %s", kind.Label, name)
	var res *deploy.Result
	err = CLILogs.Timed("saving "+name, func() error {
		var err error
		res, err = d.DeployArtifact(cmd.Context(), kind, name, string(body), md)
		return err
	})
	if errors.Is(err, deploy.ErrPollLimit) && res != nil && res.Request != nil {
		CLILogs.Warn("Async request %s (container %s) is still %s; check it later in the org", res.Request.ID, res.ContainerID, res.Request.State)
	}
	if err != nil {
		return err
	}
	return renderSource(cmd.OutOrStdout(), kind, name, res, time.Since(start))
}

type sourceOutput struct {
	Kind        string                     `json:"kind"`
	Name        string                     `json:"name"`
	Success     bool                       `json:"success"`
	Mode        deploy.Mode                `json:"mode"`
	ContainerID string                     `json:"containerId,omitempty"`
	RequestID   string                     `json:"requestId,omitempty"`
	State       string                     `json:"state,omitempty"`
	Error       string                     `json:"error,omitempty"`
	Failures    []tooling.ComponentFailure `json:"failures,omitempty"`
	Seconds     float64                    `json:"seconds"`
}

func renderSource(out io.Writer, kind deploy.Kind, name string, res *deploy.Result, elapsed time.Duration) error {
	if jsonOutput {
		o := sourceOutput{
			Kind:        kind.Name,
			Name:        name,
			Success:     res.Success,
			Mode:        res.Mode,
			ContainerID: res.ContainerID,
			Error:       res.Error,
			Failures:    res.Failures(),
			Seconds:     elapsed.Seconds(),
		}
		if res.Request != nil {
			o.RequestID = res.Request.ID
			o.State = res.Request.State
			if o.Error == "" {
				o.Error = res.Request.ErrorMsg
			}
		}
		if err := writeJSON(out, o); err != nil {
			return err
		}
		if !res.Success {
			return ErrDeployFailed
		}
		return nil
	}

	if res.Success {
		fmt.Fprintln(out, report.Saved(kind.Label, res.Mode, elapsed))
		return nil
	}
	if failures := res.Failures(); len(failures) > 0 {
		fmt.Fprintln(out, report.FailureTable(failures))
	}
	switch {
	case res.Error != "":
		fmt.Fprintln(out, report.ErrorTable(res.Error))
	case res.Request != nil && res.Request.ErrorMsg != "":
		fmt.Fprintln(out, report.ErrorTable(res.Request.ErrorMsg))
	case res.Request != nil && len(res.Failures()) == 0:
		fmt.Fprintln(out, report.ErrorTable("async request ended in state "+res.Request.State))
	}
	fmt.Fprintln(out, report.Failed(kind.Label))
	return ErrDeployFailed
}

func writeJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
