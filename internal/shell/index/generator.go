// Package index renders the GitHub Pages index for the template repository:
// one card per template plus install instructions.
package index

import (
	"bytes"
	_ "embed"
	"fmt"
	"html/template"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/natefinch/atomic"

	core "github.com/fgrfn/unraid-templates/internal/core/template"
	"github.com/fgrfn/unraid-templates/internal/shell/repo"
)

//go:embed index.tmpl.html
var pageTemplate string

// descriptionLimit caps card descriptions, matching the card layout's
// three-line clamp.
const descriptionLimit = 280

// avatarURLFormat generates an initials avatar for templates without any
// icon. The seed is the template name.
const avatarURLFormat = "https://api.dicebear.com/7.x/initials/svg?seed=%s&backgroundColor=667eea,764ba2&textColor=ffffff"

// =============================================================================
// Configuration
// =============================================================================

// Config holds the published URL layout of the repository.
type Config struct {
	// Title is the page heading.
	Title string

	// RepoURL is the repository home, shown in the footer and install
	// instructions.
	RepoURL string

	// PagesBaseURL is where GitHub Pages serves the repository contents.
	PagesBaseURL string

	// RawBaseURL is the raw-file base for wget installs and local logos.
	RawBaseURL string
}

// =============================================================================
// Generator
// =============================================================================

// Generator renders the index page from the templates on disk.
type Generator struct {
	cfg    Config
	logger *slog.Logger
}

// NewGenerator creates a new index generator.
func NewGenerator(cfg Config, logger *slog.Logger) *Generator {
	return &Generator{cfg: cfg, logger: logger}
}

// card is the per-template view model.
type card struct {
	Name        string
	Description string
	Port        string
	Image       string
	Network     string
	IconURL     string
	FallbackURL string
	ProjectURL  string
	PagesURL    string
	RawURL      string
}

// page is the top-level view model.
type page struct {
	Title            string
	RepoURL          string
	BlankTemplateURL string
	Cards            []card
}

// Generate discovers every template under templatesDir and writes
// <docsDir>/index.html. Templates that fail to parse are skipped with a
// warning; they never fail the render.
func (g *Generator) Generate(templatesDir, docsDir string) error {
	templates, err := repo.Discover(templatesDir)
	if err != nil {
		return err
	}

	view := page{
		Title:            g.cfg.Title,
		RepoURL:          g.cfg.RepoURL,
		BlankTemplateURL: g.cfg.RawBaseURL + "/templates/blank-template.xml",
	}

	for _, tf := range templates {
		raw, err := repo.Load(tf)
		if err != nil {
			g.logger.Warn("skipping unreadable template", "template", tf.RelPath, "error", err)
			continue
		}
		parsed, err := core.Parse(raw)
		if err != nil {
			g.logger.Warn("skipping unparseable template", "template", tf.RelPath, "error", err)
			continue
		}
		view.Cards = append(view.Cards, g.buildCard(tf, parsed))
	}

	tmpl, err := template.New("index").Parse(pageTemplate)
	if err != nil {
		return fmt.Errorf("parsing index template: %w", err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, view); err != nil {
		return fmt.Errorf("rendering index: %w", err)
	}

	if err := os.MkdirAll(docsDir, 0o755); err != nil {
		return fmt.Errorf("creating docs directory: %w", err)
	}
	outPath := filepath.Join(docsDir, "index.html")
	if err := atomic.WriteFile(outPath, &buf); err != nil {
		return fmt.Errorf("writing %s: %w", outPath, err)
	}

	g.logger.Info("index generated", "path", outPath, "templates", len(view.Cards))
	return nil
}

func (g *Generator) buildCard(tf repo.TemplateFile, parsed *core.Container) card {
	published := "templates/" + tf.RelPath

	c := card{
		Name:        parsed.Name,
		Description: truncate(parsed.Overview, descriptionLimit),
		Port:        parsed.WebUIPort(),
		Image:       parsed.Image(),
		Network:     parsed.Network,
		ProjectURL:  parsed.Project,
		PagesURL:    g.cfg.PagesBaseURL + "/" + published,
		RawURL:      g.cfg.RawBaseURL + "/" + published,
		FallbackURL: avatarURL(parsed.Name),
	}
	if c.Port == "" {
		c.Port = "N/A (headless)"
	}
	if c.Network == "" {
		c.Network = "bridge"
	}
	if c.Description == "" {
		c.Description = "No description available"
	}

	// Icon resolution order: template field, local logo file, generated
	// avatar.
	switch {
	case parsed.Icon != "":
		c.IconURL = parsed.Icon
	case repo.LocalLogo(tf) != "":
		c.IconURL = g.cfg.RawBaseURL + "/templates/" + repo.LocalLogo(tf)
	default:
		c.IconURL = c.FallbackURL
	}

	return c
}

func avatarURL(name string) string {
	return fmt.Sprintf(avatarURLFormat, url.QueryEscape(strings.ReplaceAll(name, " ", "+")))
}

func truncate(s string, limit int) string {
	s = strings.TrimSpace(s)
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + "..."
}
