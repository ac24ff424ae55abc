package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"
	"time"

	"github.com/naka-gawa/drift-issues/internal/config"
	"github.com/naka-gawa/drift-issues/internal/domain"
	"github.com/naka-gawa/drift-issues/internal/gateway"
	"github.com/naka-gawa/drift-issues/internal/report"
	"github.com/naka-gawa/drift-issues/internal/usecase"
)

type scanOptions struct {
	api          string
	templatePath string
	outputDir    string
	days         int
}

// runScan performs one full pass and returns the process exit code.
// Only configuration problems are fatal; everything after that exits cleanly.
func runScan(ctx context.Context, out io.Writer, logger *log.Logger, opts scanOptions, getenv func(string) string, now time.Time) int {
	console := report.NewConsole(out)
	console.Banner()

	if err := config.LoadDotEnv(".env"); err != nil {
		console.Warning(err.Error())
	}

	api, err := gateway.ParseAPI(opts.api)
	if err != nil {
		console.Error(err.Error())
		return 1
	}

	cfg, err := config.Load(getenv, now, opts.days)
	if err != nil {
		reportConfigError(console, err, opts.days)
		return 1
	}

	console.Section("CONFIGURATION FROM ENVIRONMENT")
	console.Success(fmt.Sprintf("%s: %s", cfg.Target.Kind, cfg.Target.Path))
	console.Success(fmt.Sprintf("Period (last %d days): %s to %s", opts.days, cfg.Window.StartString(), cfg.Window.EndString()))

	if err := scan(ctx, console, logger, cfg, api, opts); err != nil {
		switch {
		case errors.Is(err, context.Canceled):
			console.Warning("Interrupted by user. Goodbye!")
			return 0
		case errors.Is(err, usecase.ErrNoRepositories):
			// Already reported by the scanner.
		default:
			console.Error(fmt.Sprintf("CRITICAL ERROR: %v", err))
			return 0
		}
	}

	console.Section("DONE")
	return 0
}

func scan(ctx context.Context, console *report.Console, logger *log.Logger, cfg *config.Config, api gateway.API, opts scanOptions) error {
	fetcher, err := newFetcherFunc(cfg.Token, cfg.Target.APIBaseURL, api, logger)
	if err != nil {
		return fmt.Errorf("failed to create GitHub gateway: %w", err)
	}

	console.Section("QUERYING GITHUB API")
	result, err := usecase.NewScanner(fetcher, console, logger).Scan(ctx, cfg.Target, cfg.Window)
	if err != nil {
		return err
	}

	console.Info(fmt.Sprintf("Date range: %s to %s", cfg.Window.StartString(), cfg.Window.EndString()))
	if result.Summary.TotalIssues == 0 {
		console.Warning(fmt.Sprintf("No open issues titled '%s' were found in the specified date range.", domain.DriftMarker))
		return nil
	}

	console.Results(result)
	return writeReport(ctx, console, result, opts)
}

// writeReport renders the HTML report. Failures are reported, never returned;
// only an interrupt stops it before the file is written.
func writeReport(ctx context.Context, console *report.Console, result *domain.ScanResult, opts scanOptions) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	console.Info("Generating HTML report...")
	templateName := opts.templatePath
	if templateName == "" {
		templateName = report.DefaultTemplateName
	}

	htmlReport, err := report.NewHTMLReport(opts.templatePath)
	if err == nil {
		if err := ctx.Err(); err != nil {
			return err
		}
		var path string
		if path, err = htmlReport.WriteFile(opts.outputDir, result); err == nil {
			console.Success(fmt.Sprintf("HTML report generated: %s", path))
			return nil
		}
	}
	console.Error(fmt.Sprintf("Failed to generate HTML report: %v", err))
	console.Warning(fmt.Sprintf("Make sure the HTML template is available at: %s", templateName))
	return nil
}

func reportConfigError(console *report.Console, err error, days int) {
	var missingErr *config.MissingEnvError
	if !errors.As(err, &missingErr) {
		console.Error(err.Error())
		return
	}
	console.Error(fmt.Sprintf("Missing environment variables: %s", strings.Join(missingErr.Names, ", ")))
	console.Error("The following environment variables are required:")
	console.Error(fmt.Sprintf("  %s: GitHub access token", config.EnvToken))
	console.Error(fmt.Sprintf("  %s: GitHub repository or organization URL", config.EnvURL))
	console.Info(fmt.Sprintf("The last %d days are analyzed automatically", days))
}
