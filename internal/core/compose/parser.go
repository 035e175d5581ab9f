package compose

import (
	"context"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/compose-spec/compose-go/v2/loader"
	"github.com/compose-spec/compose-go/v2/types"
	"gopkg.in/yaml.v3"
)

// =============================================================================
// Parser Functions
// =============================================================================

// ParseUpstreamConfig parses an upstream docker-compose document and extracts
// the declared environment variables, ports, and mount paths of one service.
// This is a pure function - no I/O, no side effects.
//
// preferredImage selects the service to extract when the document declares
// several; a service whose image starts with preferredImage wins. Otherwise
// the first service in name order is used (upstream compose files monitored
// here almost always declare exactly one).
func ParseUpstreamConfig(yamlContent, preferredImage string) (*UpstreamConfig, error) {
	// Input validation
	if strings.TrimSpace(yamlContent) == "" {
		return nil, ErrEmptyInput
	}

	project, err := loadComposeProject(yamlContent)
	if err != nil {
		return nil, err
	}

	if len(project.Services) == 0 {
		return nil, ErrNoServices
	}

	svc := selectService(project, preferredImage)
	return extractService(svc), nil
}

// loadComposeProject loads a compose document using compose-go.
func loadComposeProject(yamlContent string) (*types.Project, error) {
	// Parse YAML into a map first
	var dict map[string]interface{}
	if err := yaml.Unmarshal([]byte(yamlContent), &dict); err != nil {
		return nil, NewParseError("", "invalid YAML syntax", ErrInvalidYAML)
	}

	// Check if it's a valid object
	if dict == nil {
		return nil, NewParseError("", "invalid YAML syntax", ErrInvalidYAML)
	}

	// Load the project. Interpolation runs against an empty environment so
	// ${VAR:-default} collapses to its default and bare ${VAR} to "", which
	// is exactly the value a template entry should default to.
	project, err := loader.LoadWithContext(context.Background(), types.ConfigDetails{
		ConfigFiles: []types.ConfigFile{
			{
				Content: []byte(yamlContent),
				Config:  dict,
			},
		},
		Environment: types.Mapping{},
	}, func(opts *loader.Options) {
		opts.SetProjectName("upstream-temp", false)
		opts.SkipValidation = true
		opts.SkipInterpolation = false
		// Don't resolve paths since we're in-memory
		opts.SkipNormalization = true
		opts.SkipExtends = true // Don't try to load external files
	})
	if err != nil {
		return nil, NewParseError("", err.Error(), ErrInvalidYAML)
	}

	return project, nil
}

// selectService picks the service to extract from a multi-service project.
func selectService(project *types.Project, preferredImage string) types.ServiceConfig {
	names := make([]string, 0, len(project.Services))
	for name := range project.Services {
		names = append(names, name)
	}
	sort.Strings(names)

	if preferredImage != "" {
		for _, name := range names {
			if strings.HasPrefix(project.Services[name].Image, preferredImage) {
				return project.Services[name]
			}
		}
	}

	return project.Services[names[0]]
}

// extractService converts a compose-go service into an UpstreamConfig.
func extractService(svc types.ServiceConfig) *UpstreamConfig {
	cfg := &UpstreamConfig{
		Service:     svc.Name,
		Environment: make(map[string]string),
	}

	// Environment. The loader normalizes both the map and KEY=VALUE list
	// forms; values may still carry placeholder syntax when interpolation
	// was escaped, so defaults are extracted a second time.
	for k, v := range svc.Environment {
		if v != nil {
			cfg.Environment[k] = ExtractDefaultValue(*v)
		} else {
			cfg.Environment[k] = ""
		}
	}

	// Ports
	for _, p := range svc.Ports {
		var published uint32
		if p.Published != "" {
			pub, err := strconv.ParseUint(p.Published, 10, 32)
			if err == nil {
				published = uint32(pub)
			}
		}
		proto := strings.ToLower(p.Protocol)
		if proto == "" {
			proto = "tcp"
		}
		cfg.Ports = append(cfg.Ports, Port{
			Target:    p.Target,
			Published: published,
			Protocol:  proto,
		})
	}

	// Volumes: container-side targets only, anonymous volumes included.
	for _, v := range svc.Volumes {
		if v.Target != "" {
			cfg.Volumes = append(cfg.Volumes, v.Target)
		}
	}

	return cfg
}

// =============================================================================
// Default Value Extraction
// =============================================================================

// defaultValueRegex matches ${VAR:-default} or ${VAR-default}
var defaultValueRegex = regexp.MustCompile(`^\$\{[^:}]+(?::?-)([^}]*)\}$`)

// bareVariableRegex matches ${VAR} without a default
var bareVariableRegex = regexp.MustCompile(`^\$\{[^}]+\}$`)

// ExtractDefaultValue extracts the default from shell variable syntax:
//
//	${PORT:-8000} -> "8000"
//	${VAR}        -> ""
//	simple_value  -> "simple_value"
func ExtractDefaultValue(value string) string {
	if value == "" {
		return ""
	}
	if m := defaultValueRegex.FindStringSubmatch(value); m != nil {
		return m[1]
	}
	if bareVariableRegex.MatchString(value) {
		return ""
	}
	return value
}
