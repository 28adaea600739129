package cmd

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"modx/internal/metadata"
	"modx/internal/report"
)

var metadataCmd = &cobra.Command{
	Use:   "metadata",
	Short: "Work with metadata components through the Metadata API",
}

var metadataRenameCmd = &cobra.Command{
	Use:   "rename",
	Short: "Rename a metadata component",
	Example: `  modx metadata rename -t CustomObject -o MyCustomObject1__c -n MyCustomObject1New__c
  modx metadata rename -t Profile -o "Custom Sales" -n "Field Sales"`,
	Args: cobra.NoArgs,
	RunE: runMetadataRename,
}

func init() {
	f := metadataRenameCmd.Flags()
	f.StringP("metadatatype", "t", "", "type of the component, e.g. CustomObject or Profile")
	f.StringP("newfullname", "n", "", "new full name of the component")
	f.StringP("oldfullname", "o", "", "current full name of the component")
	for _, name := range []string{"metadatatype", "newfullname", "oldfullname"} {
		_ = metadataRenameCmd.MarkFlagRequired(name)
	}

	metadataCmd.AddCommand(metadataRenameCmd)
	rootCmd.AddCommand(metadataCmd)
}

type renameOutput struct {
	Type        string   `json:"type"`
	OldFullName string   `json:"oldFullName"`
	NewFullName string   `json:"newFullName"`
	Success     bool     `json:"success"`
	Errors      []string `json:"errors,omitempty"`
}

func runMetadataRename(cmd *cobra.Command, _ []string) error {
	kind, _ := cmd.Flags().GetString("metadatatype")
	newName, _ := cmd.Flags().GetString("newfullname")
	oldName, _ := cmd.Flags().GetString("oldfullname")

	_, client, err := openSession(cmd)
	if err != nil {
		return err
	}
	CLILogs.Info("Renaming %s %s", kind, oldName)
	res, err := metadata.Rename(cmd.Context(), client, kind, oldName, newName)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	switch {
	case jsonOutput:
		if err := writeJSON(out, renameOutput{
			Type:        kind,
			OldFullName: oldName,
			NewFullName: newName,
			Success:     res.Success,
			Errors:      res.Messages(),
		}); err != nil {
			return err
		}
	case res.Success:
		fmt.Fprintln(out, color.New(color.FgHiGreen, color.Bold).Sprintf("%s %s is successfully Renamed to %s ✔", kind, oldName, newName))
	default:
		if msgs := res.Messages(); len(msgs) > 0 {
			fmt.Fprintln(out, report.ErrorTable(msgs...))
		}
		fmt.Fprintln(out, red(fmt.Sprintf("%s %s Rename Failed ✖", kind, oldName)))
	}
	if !res.Success {
		return ErrDeployFailed
	}
	return nil
}
