/*
modx - save source straight to an org through the tooling API
*/
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"modx/internal/logger"
)

var (
	green   = color.New(color.FgGreen).SprintFunc()
	yellow  = color.New(color.FgYellow).SprintFunc()
	red     = color.New(color.FgRed).SprintFunc()
	bold    = color.New(color.Bold).SprintFunc()
	cyan    = color.New(color.FgCyan).SprintFunc()
	magenta = color.New(color.FgHiMagenta).SprintFunc()
)

var (
	CLILogs = logger.PackageLogger("cli", "⚡ MODX")

	targetOrg  string
	verbose    bool
	jsonOutput bool
)

// ErrDeployFailed is returned after a rejected save has been reported, so
// the process exits non-zero without printing the failure twice.
var ErrDeployFailed = errors.New("deploy failed")

var rootCmd = &cobra.Command{
	Use:   "modx",
	Short: "Save Apex, Visualforce, Lightning and static resources straight to an org.",
	Long: fmt.Sprintf(`%s

%s
Compile and save single files without building a package.

%s
%s  Apex classes and triggers
%s  Visualforce pages and components
%s  Aura bundles and Lightning web components
%s  Static resources, zipped when they are folders

%s
Run '%s' to see available commands.
`,
		bold("⚡ modx"),
		magenta("Edit. Save. Compiled."),
		bold("Deploys:"),
		green("✓"),
		green("✓"),
		green("✓"),
		green("✓"),
		yellow("👋 Tip:"),
		cyan("modx --help"),
	),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if verbose {
			logger.DefaultLogger().SetLevel(logger.LevelDebug)
			logger.DefaultLogger().EnableCallerInfo(true)
		}
		if jsonOutput {
			color.NoColor = true
		}
	},
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "\n%s %s\n\n", green("✨ Welcome to"), bold("modx"))
		fmt.Fprintln(out, bold("Quick Start:"))
		fmt.Fprintf(out, "  %s - Authorize an org\n", cyan("modx org login -a dev --instance-url https://..."))
		fmt.Fprintf(out, "  %s - Save an Apex class\n", cyan("modx deploy apex -p classes/Foo.cls"))
		fmt.Fprintf(out, "  %s - Save a Lightning web component\n\n", cyan("modx deploy lwc -p lwc/hello"))
	},
}

// Execute runs the root command. An interrupt cancels the context, which
// stops any poll in progress.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		if !errors.Is(err, ErrDeployFailed) {
			fmt.Fprintf(os.Stderr, "\n%s %s\n\n", red("❌ Error:"), err)
		}
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&targetOrg, "target-org", "u", "", "alias of the org to deploy to")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "log every API call")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "print the result as JSON")

	rootCmd.SetHelpTemplate(fmt.Sprintf(`%s
%s
{{if or .Runnable .HasSubCommands}}{{.UsageString}}{{end}}`,
		cyan("⚡ modx"),
		yellow("Usage: {{.UseLine}}"),
	))

	rootCmd.SetUsageTemplate(`{{.UseLine}}

  {{.Short}}

{{if .HasAvailableFlags}}Options:
{{.Flags.FlagUsages | trimTrailingWhitespaces}}{{end}}

{{if .HasAvailableSubCommands}}Commands:
{{range .Commands}}{{if .IsAvailableCommand}}  {{rpad .Name .NamePadding }} {{.Short}}
{{end}}{{end}}{{end}}

Run '{{.CommandPath}} [command] --help' for more information about a command.
`)
}
