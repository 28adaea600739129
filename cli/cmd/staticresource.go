package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"modx/internal/report"
	"modx/internal/staticresource"
)

var staticResourceCmd = &cobra.Command{
	Use:   "staticresource",
	Short: "Save a static resource file, or zip and save a resource folder",
	Example: `  modx deploy staticresource -p staticresources/logo.png
  modx deploy staticresource -p staticresources/app/index.html -c public
  modx deploy staticresource -p web/spa/app/main.js -r spa`,
	Args: cobra.NoArgs,
	RunE: runStaticResource,
}

func init() {
	staticResourceCmd.Flags().StringP("filepath", "p", "", "file inside the resource folder")
	staticResourceCmd.Flags().StringP("resourcefolder", "r", "", "name of the folder holding static resources (default staticresources)")
	staticResourceCmd.Flags().StringP("cachecontrol", "c", "", "cache control for new resources (default private)")
	_ = staticResourceCmd.MarkFlagRequired("filepath")
	deployCmd.AddCommand(staticResourceCmd)
}

type staticResourceOutput struct {
	Name        string   `json:"name"`
	ID          string   `json:"id,omitempty"`
	Success     bool     `json:"success"`
	Mode        string   `json:"mode"`
	ContentType string   `json:"contentType"`
	Errors      []string `json:"errors,omitempty"`
	Seconds     float64  `json:"seconds"`
}

func runStaticResource(cmd *cobra.Command, _ []string) error {
	start := time.Now()
	path, _ := cmd.Flags().GetString("filepath")

	settings, client, err := openSession(cmd)
	if err != nil {
		return err
	}
	d := staticresource.NewDeployer(client, settings.ResourceFolder, settings.CacheControl)
	CLILogs.Info("Saving static resource from %s", path)
	res, err := d.Deploy(cmd.Context(), path)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	var messages []string
	for _, e := range res.Errors {
		messages = append(messages, e.Message)
	}
	if jsonOutput {
		if err := writeJSON(out, staticResourceOutput{
			Name:        res.Name,
			ID:          res.ID,
			Success:     res.Success,
			Mode:        string(res.Mode),
			ContentType: res.ContentType,
			Errors:      messages,
			Seconds:     time.Since(start).Seconds(),
		}); err != nil {
			return err
		}
	} else if res.Success {
		fmt.Fprintln(out, report.Saved("StaticResource "+res.Name, res.Mode, time.Since(start)))
	} else {
		if len(messages) > 0 {
			fmt.Fprintln(out, report.ErrorTable(messages...))
		}
		fmt.Fprintln(out, report.Failed("Static Resource"))
	}
	if !res.Success {
		return ErrDeployFailed
	}
	return nil
}
