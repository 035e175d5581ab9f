package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/fgrfn/unraid-templates/internal/core/template"
	"github.com/fgrfn/unraid-templates/internal/core/validation"
	"github.com/fgrfn/unraid-templates/internal/shell/index"
	"github.com/fgrfn/unraid-templates/internal/shell/repo"
	"github.com/fgrfn/unraid-templates/internal/shell/updater"
	"github.com/fgrfn/unraid-templates/internal/shell/upstream"
)

// commandSetup parses the common per-command flags and loads config.
// Returns the templates dir, config, and logger, or a non-negative exit code.
func commandSetup(name string, args []string) (dir string, cfg *Config, logger *slog.Logger, exit int) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	configPath := fs.String("config", "", "Path to config file")
	if err := fs.Parse(args); err != nil {
		return "", nil, nil, ExitUsageError
	}
	if fs.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "usage: templatectl %s [-config file] <templates-dir>\n", name)
		return "", nil, nil, ExitUsageError
	}

	cfg, err := LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "configuration error: %v\n", err)
		return "", nil, nil, ExitConfigError
	}

	return fs.Arg(0), cfg, SetupLogger(cfg), -1
}

// =============================================================================
// validate
// =============================================================================

func validateCmd(args []string) int {
	dir, _, logger, exit := commandSetup("validate", args)
	if exit >= 0 {
		return exit
	}

	templates, err := repo.Discover(dir)
	if err != nil {
		logger.Error("template discovery failed", "error", err)
		return ExitConfigError
	}

	checked := 0
	failed := 0
	for _, tf := range templates {
		checked++

		var violations []validation.Violation
		raw, err := repo.Load(tf)
		if err != nil {
			violations = []validation.Violation{validation.MalformedViolation(err)}
		} else if parsed, err := template.Parse(raw); err != nil {
			violations = []validation.Violation{validation.MalformedViolation(err)}
		} else {
			violations = validation.ValidateTemplate(parsed, repo.HasLocalLogo(tf))
		}

		if len(violations) == 0 {
			continue
		}

		fmt.Println(tf.RelPath)
		for _, v := range violations {
			if v.Severity == validation.SeverityError {
				fmt.Printf("  ERROR: %s\n", v.Error())
			} else {
				fmt.Printf("  WARNING: %s\n", v.Error())
			}
		}
		fmt.Println()

		if validation.HasErrors(violations) {
			failed++
		}
	}

	fmt.Printf("Validated %d template(s)\n", checked)
	if failed > 0 {
		fmt.Printf("Validation failed: %d template(s) with errors\n", failed)
		return ExitValidationFailed
	}
	fmt.Println("All templates are valid")
	return ExitSuccess
}

// =============================================================================
// update
// =============================================================================

func updateCmd(args []string) int {
	dir, cfg, logger, exit := commandSetup("update", args)
	if exit >= 0 {
		return exit
	}

	if len(cfg.Projects) == 0 {
		fmt.Println("No monitored projects configured")
		return ExitSuccess
	}

	fetcher := upstream.NewFetcher(upstream.Config{Timeout: cfg.Fetch.Timeout})
	service := updater.NewService(fetcher, logger, cfg.Projects)

	results := service.Run(context.Background(), dir)

	updated := 0
	for _, r := range results {
		switch {
		case r.Err != nil:
			fmt.Printf("%s: FAILED: %v\n", r.Project, r.Err)
		case r.Updated:
			updated++
			fmt.Printf("%s: added %d entr(ies): %v\n", r.Project, len(r.Added), r.Added)
		default:
			fmt.Printf("%s: up to date\n", r.Project)
		}
	}

	if updated > 0 {
		fmt.Printf("\nUpdated %d template(s); review and commit the changes.\n", updated)
	}
	if updater.Failed(results) {
		return ExitUpdateFailed
	}
	return ExitSuccess
}

// =============================================================================
// index
// =============================================================================

func indexCmd(args []string) int {
	dir, cfg, logger, exit := commandSetup("index", args)
	if exit >= 0 {
		return exit
	}

	generator := index.NewGenerator(index.Config{
		Title:        cfg.Publish.Title,
		RepoURL:      cfg.Publish.RepoURL,
		PagesBaseURL: cfg.Publish.PagesBaseURL,
		RawBaseURL:   cfg.Publish.RawBaseURL,
	}, logger)

	if err := generator.Generate(dir, cfg.Docs.Dir); err != nil {
		logger.Error("index generation failed", "error", err)
		return ExitIndexFailed
	}
	return ExitSuccess
}
