// Package repo provides filesystem access to the template repository: template
// discovery, local icon lookup, and atomic template persistence.
package repo

import (
	"bytes"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/natefinch/atomic"
)

// blankTemplateMarker identifies the starter template, which is intentionally
// incomplete and excluded from validation and indexing.
const blankTemplateMarker = "blank-template"

// logoExtensions are the image formats recognized as a local template logo,
// in lookup order.
var logoExtensions = []string{"png", "svg", "jpg", "jpeg", "webp", "ico"}

// TemplateFile is a discovered template on disk.
type TemplateFile struct {
	// Path is the absolute path of the XML file.
	Path string

	// RelPath is the path relative to the templates directory, with
	// forward slashes. Used as the template's identity in reports and
	// published URLs.
	RelPath string
}

// Discover walks dir recursively and returns every template XML file in
// stable path order, skipping the blank starter template.
func Discover(dir string) ([]TemplateFile, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("templates directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("templates directory: %s is not a directory", dir)
	}

	var templates []TemplateFile
	err = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.EqualFold(filepath.Ext(path), ".xml") {
			return nil
		}
		if strings.Contains(d.Name(), blankTemplateMarker) {
			return nil
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		templates = append(templates, TemplateFile{
			Path:    path,
			RelPath: filepath.ToSlash(rel),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking templates directory: %w", err)
	}

	sort.Slice(templates, func(i, j int) bool {
		return templates[i].RelPath < templates[j].RelPath
	})
	return templates, nil
}

// Load reads the raw template document.
func Load(tf TemplateFile) ([]byte, error) {
	data, err := os.ReadFile(tf.Path)
	if err != nil {
		return nil, fmt.Errorf("reading template %s: %w", tf.RelPath, err)
	}
	return data, nil
}

// Write replaces the template document atomically (write-new-then-replace),
// so an interrupted run never leaves a corrupt file behind.
func Write(tf TemplateFile, data []byte) error {
	if err := atomic.WriteFile(tf.Path, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("writing template %s: %w", tf.RelPath, err)
	}
	return nil
}

// LocalLogo returns the relative path of a logo image file beside the
// template, or "" when none exists.
func LocalLogo(tf TemplateFile) string {
	dir := filepath.Dir(tf.Path)
	for _, ext := range logoExtensions {
		candidate := filepath.Join(dir, "logo."+ext)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			relDir := filepath.ToSlash(filepath.Dir(tf.RelPath))
			if relDir == "." {
				return "logo." + ext
			}
			return relDir + "/logo." + ext
		}
	}
	return ""
}

// HasLocalLogo reports whether a logo image file exists beside the template.
func HasLocalLogo(tf TemplateFile) bool {
	return LocalLogo(tf) != ""
}
