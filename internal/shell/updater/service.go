// Package updater orchestrates the upstream drift check: for each monitored
// project it fetches the reference compose document, compares it with the
// local template, and appends any missing declarations.
package updater

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/fgrfn/unraid-templates/internal/core/compose"
	"github.com/fgrfn/unraid-templates/internal/core/drift"
	"github.com/fgrfn/unraid-templates/internal/core/template"
	"github.com/fgrfn/unraid-templates/internal/shell/repo"
)

// ErrUpstreamParse is returned when a fetched document is not a usable
// compose file. The affected project is skipped and reported; its template
// stays untouched.
var ErrUpstreamParse = errors.New("upstream parse failed")

// =============================================================================
// Types
// =============================================================================

// Project describes one monitored upstream project.
type Project struct {
	// Name identifies the project in reports and logs.
	Name string `mapstructure:"name"`

	// Template is the template XML path relative to the templates
	// directory.
	Template string `mapstructure:"template"`

	// ComposeURL is the upstream docker-compose document location.
	ComposeURL string `mapstructure:"compose_url"`

	// Image optionally selects the compose service to compare against when
	// the upstream document declares several.
	Image string `mapstructure:"image"`
}

// Result is the outcome of one project's drift check.
type Result struct {
	Project string
	Updated bool
	Added   []string // names/targets of appended entries
	Err     error
}

// Fetcher retrieves upstream compose documents.
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// =============================================================================
// Service
// =============================================================================

// Service runs drift checks for a set of monitored projects.
type Service struct {
	fetcher  Fetcher
	logger   *slog.Logger
	projects []Project
}

// NewService creates a new updater service.
func NewService(fetcher Fetcher, logger *slog.Logger, projects []Project) *Service {
	return &Service{
		fetcher:  fetcher,
		logger:   logger,
		projects: projects,
	}
}

// Run checks every monitored project sequentially and returns one result per
// project. A failing project never aborts the run; its error lands in its
// result and the next project proceeds.
func (s *Service) Run(ctx context.Context, templatesDir string) []Result {
	logger := s.logger.With("run_id", uuid.NewString())
	logger.Info("starting template update check", "projects", len(s.projects))

	results := make([]Result, 0, len(s.projects))
	for _, project := range s.projects {
		result := s.checkProject(ctx, logger, templatesDir, project)
		if result.Err != nil {
			logger.Warn("project check failed",
				"project", project.Name,
				"error", result.Err,
			)
		} else if result.Updated {
			logger.Info("template updated",
				"project", project.Name,
				"added", result.Added,
			)
		} else {
			logger.Info("template is up to date", "project", project.Name)
		}
		results = append(results, result)
	}

	return results
}

func (s *Service) checkProject(ctx context.Context, logger *slog.Logger, templatesDir string, project Project) Result {
	result := Result{Project: project.Name}

	tf := repo.TemplateFile{
		Path:    filepath.Join(templatesDir, filepath.FromSlash(project.Template)),
		RelPath: project.Template,
	}

	raw, err := repo.Load(tf)
	if err != nil {
		result.Err = err
		return result
	}

	local, err := template.Parse(raw)
	if err != nil {
		result.Err = fmt.Errorf("local template: %w", err)
		return result
	}

	logger.Debug("fetching upstream compose document",
		"project", project.Name,
		"url", project.ComposeURL,
	)
	doc, err := s.fetcher.Fetch(ctx, project.ComposeURL)
	if err != nil {
		result.Err = err
		return result
	}

	upstream, err := compose.ParseUpstreamConfig(string(doc), project.Image)
	if err != nil {
		result.Err = fmt.Errorf("%w: %v", ErrUpstreamParse, err)
		return result
	}

	plan := drift.BuildPlan(upstream, local)
	if plan.Empty() {
		return result
	}

	configs := plan.Configs()
	amended, err := template.AppendConfigs(raw, configs)
	if err != nil {
		result.Err = fmt.Errorf("amending template: %w", err)
		return result
	}

	if err := repo.Write(tf, amended); err != nil {
		result.Err = err
		return result
	}

	result.Updated = true
	for _, cfg := range configs {
		result.Added = append(result.Added, cfg.Target)
	}
	return result
}

// Failed reports whether any result carries an error.
func Failed(results []Result) bool {
	for _, r := range results {
		if r.Err != nil {
			return true
		}
	}
	return false
}
