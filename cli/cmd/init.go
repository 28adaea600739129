package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"modx/cli/internal/prompt"
	"modx/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a modx.yml for this project",
	Long: `Asks for the project defaults (target org, API version, polling and
static resource settings) and writes them to modx.yml in the current
directory. Values in modx.yml are overridden by ~/.modx.yaml, .env, MODX_*
environment variables and flags.`,
	Args: cobra.NoArgs,
	RunE: runInit,
}

func init() {
	initCmd.Flags().BoolP("yes", "y", false, "accept defaults and overwrite without asking")
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, _ []string) error {
	yes, _ := cmd.Flags().GetBool("yes")
	project, _, err := workDirs()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	p := prompt.NewCLIPrompter(cmd.InOrStdin(), out, yes)

	path := filepath.Join(project, config.ProjectFile)
	if _, err := os.Stat(path); err == nil {
		ok, err := p.ConfirmOverwrite(config.ProjectFile)
		if err != nil {
			return err
		}
		if !ok && !yes {
			fmt.Fprintf(out, "%s Kept existing %s\n", yellow("⚠️"), config.ProjectFile)
			return nil
		}
	} else if !errors.Is(err, fs.ErrNotExist) {
		return err
	}

	var cfg *config.ProjectConfig
	if yes {
		cfg = &config.ProjectConfig{
			Version:    "1.0",
			DefaultOrg: targetOrg,
			APIVersion: config.DefaultAPIVersion,
			StaticResources: config.StaticResourcesConfig{
				Folder:       config.DefaultResourceFolder,
				CacheControl: config.DefaultCacheControl,
			},
		}
	} else {
		cfg = config.InteractiveProjectPrompt(p.Reader(), out)
	}
	if err := config.SaveProject(project, cfg); err != nil {
		return err
	}
	fmt.Fprintf(out, "%s Wrote %s\n", green(config.EmojiSuccess), path)
	return nil
}
