// Package cmd contains all the CLI commands for the application,
// built using the Cobra library.
package cmd

import (
	"context"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/naka-gawa/drift-issues/internal/domain"
	"github.com/naka-gawa/drift-issues/internal/gateway"
)

var rootCmd = &cobra.Command{
	Use:   "drift-issues",
	Short: "Reports open GitHub issues raised by Terraform drift detection.",
	Long: `drift-issues searches a GitHub repository, or every repository of an
organization, for open issues titled 'Drift detected' created within the
last 30 days. Results are printed as tables and written to an HTML report
with a daily timeline chart.

Configuration is read from the environment (a .env file is loaded first
when present):

  GH_TOKEN  GitHub access token
  GH_URL    repository or organization URL, for example
            https://github.com/owner/repo  (single repository)
            https://github.com/org         (every repository of the organization)

GitHub Enterprise hosts are supported; the API is expected at https://api.<host>.`,
	Example: `  export GH_TOKEN="your_token"
  export GH_URL="https://github.com/owner/repo"
  drift-issues`,
	// Unknown flags and arguments are ignored: any invocation other than --help runs the scan.
	FParseErrWhitelist: cobra.FParseErrWhitelist{UnknownFlags: true},
	Run: func(cmd *cobra.Command, args []string) {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		verbose, _ := cmd.Flags().GetBool("verbose")
		logger := log.New(io.Discard, "", log.LstdFlags) // Default: discard all logs.
		if verbose {
			logger.SetOutput(os.Stderr) // If verbose, log to standard error.
		}

		opts := scanOptions{}
		opts.api, _ = cmd.Flags().GetString("api")
		opts.templatePath, _ = cmd.Flags().GetString("template")
		opts.outputDir, _ = cmd.Flags().GetString("output-dir")
		opts.days, _ = cmd.Flags().GetInt("days")

		if code := runScan(ctx, cmd.OutOrStdout(), logger, opts, os.Getenv, time.Now()); code != 0 {
			os.Exit(code)
		}
	},
}

// newFetcherFunc builds the GitHub gateway, allowing it to be replaced in tests.
var newFetcherFunc = gateway.NewGitHubGateway

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.Flags().BoolP("verbose", "v", false, "Enable verbose/debug logging")
	rootCmd.Flags().String("api", string(gateway.APIRest), "Issue search backend: rest or graphql")
	rootCmd.Flags().String("template", "", "HTML report template (defaults to the built-in template)")
	rootCmd.Flags().String("output-dir", ".", "Directory the HTML report is written to")
	rootCmd.Flags().Int("days", domain.DefaultWindowDays, "Length of the rolling window in days, ending today")
}
