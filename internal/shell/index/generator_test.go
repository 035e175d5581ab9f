package index

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// Test Fixtures
// =============================================================================

const bambuddyTemplate = `<?xml version="1.0"?>
<Container version="2">
  <Name>Bambuddy</Name>
  <Repository>ghcr.io/maziggy/bambuddy:latest</Repository>
  <Network>bridge</Network>
  <Overview>Print queue manager for Bambu Lab printers.</Overview>
  <Project>https://github.com/maziggy/bambuddy</Project>
  <WebUI>http://[IP]:[PORT:8080]/</WebUI>
  <Icon>https://example.com/icon.png</Icon>
</Container>
`

const iconlessTemplate = `<?xml version="1.0"?>
<Container version="2">
  <Name>Crawler</Name>
  <Repository>ghcr.io/fgrfn/reddit-wsb-crawler</Repository>
</Container>
`

func testConfig() Config {
	return Config{
		Title:        "Test Templates",
		RepoURL:      "https://github.com/fgrfn/unraid-templates",
		PagesBaseURL: "https://fgrfn.github.io/unraid-templates",
		RawBaseURL:   "https://raw.githubusercontent.com/fgrfn/unraid-templates/main",
	}
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func generate(t *testing.T, templatesDir string) string {
	t.Helper()
	docsDir := filepath.Join(t.TempDir(), "docs")
	g := NewGenerator(testConfig(), testLogger())
	require.NoError(t, g.Generate(templatesDir, docsDir))

	html, err := os.ReadFile(filepath.Join(docsDir, "index.html"))
	require.NoError(t, err)
	return string(html)
}

// =============================================================================
// Generate Tests
// =============================================================================

func TestGenerate_RendersTemplateCard(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "Bambuddy", "my-Bambuddy.xml"), bambuddyTemplate)

	html := generate(t, dir)

	assert.Contains(t, html, "<title>Test Templates</title>")
	assert.Contains(t, html, "Bambuddy")
	assert.Contains(t, html, "Print queue manager for Bambu Lab printers.")
	assert.Contains(t, html, "8080")
	assert.Contains(t, html, "ghcr.io/maziggy/bambuddy")
	assert.Contains(t, html, "https://fgrfn.github.io/unraid-templates/templates/Bambuddy/my-Bambuddy.xml")
	assert.Contains(t, html, "https://raw.githubusercontent.com/fgrfn/unraid-templates/main/templates/Bambuddy/my-Bambuddy.xml")
	assert.Contains(t, html, "https://example.com/icon.png")
	assert.Contains(t, html, "https://github.com/maziggy/bambuddy")
}

func TestGenerate_LocalLogoFallback(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "Crawler", "my-Crawler.xml"), iconlessTemplate)
	writeFile(t, filepath.Join(dir, "Crawler", "logo.png"), "png")

	html := generate(t, dir)

	assert.Contains(t, html, "https://raw.githubusercontent.com/fgrfn/unraid-templates/main/templates/Crawler/logo.png")
}

func TestGenerate_AvatarFallback(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "Crawler", "my-Crawler.xml"), iconlessTemplate)

	html := generate(t, dir)

	assert.Contains(t, html, "api.dicebear.com")
	// Headless template: no WebUI field.
	assert.Contains(t, html, "N/A (headless)")
}

func TestGenerate_SkipsUnparseableTemplate(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "Bad", "my-Bad.xml"), "<Container><unclosed")
	writeFile(t, filepath.Join(dir, "Bambuddy", "my-Bambuddy.xml"), bambuddyTemplate)

	html := generate(t, dir)

	assert.Contains(t, html, "Bambuddy")
	assert.NotContains(t, html, "my-Bad.xml")
}

func TestGenerate_AlwaysIncludesBlankTemplateCard(t *testing.T) {
	html := generate(t, t.TempDir())

	assert.Contains(t, html, "Blank Template")
	assert.Contains(t, html, "https://raw.githubusercontent.com/fgrfn/unraid-templates/main/templates/blank-template.xml")
}

func TestGenerate_TruncatesLongOverview(t *testing.T) {
	long := make([]byte, 0, 400)
	for i := 0; i < 400; i++ {
		long = append(long, 'x')
	}
	doc := `<?xml version="1.0"?>
<Container version="2">
  <Name>Wordy</Name>
  <Repository>ghcr.io/example/wordy</Repository>
  <Overview>` + string(long) + `</Overview>
</Container>
`
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "Wordy", "my-Wordy.xml"), doc)

	html := generate(t, dir)
	assert.NotContains(t, html, string(long))
	assert.Contains(t, html, string(long[:280])+"...")
}
