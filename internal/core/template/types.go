package template

import (
	"encoding/xml"
	"regexp"
	"strings"
)

// =============================================================================
// Container - Template Document Model
// =============================================================================

// Container represents a parsed Unraid container template.
// The model covers the fields the tooling reads; the on-disk document is the
// source of truth and is never rewritten from this struct (see codec.go).
type Container struct {
	XMLName    xml.Name `xml:"Container"`
	Version    string   `xml:"version,attr"`
	Name       string   `xml:"Name"`
	Repository string   `xml:"Repository"`
	Registry   string   `xml:"Registry"`
	Network    string   `xml:"Network"`
	Overview   string   `xml:"Overview"`
	Project    string   `xml:"Project"`
	WebUI      string   `xml:"WebUI"`
	Icon       string   `xml:"Icon"`
	Configs    []Config `xml:"Config"`
}

// Config represents a single <Config> element: a port mapping, a volume
// mapping, or an environment variable, depending on Type/Mode.
type Config struct {
	Name        string `xml:"Name,attr"`
	Target      string `xml:"Target,attr"`
	Default     string `xml:"Default,attr"`
	Mode        string `xml:"Mode,attr"`
	Description string `xml:"Description,attr"`
	Type        string `xml:"Type,attr"`
	Display     string `xml:"Display,attr"`
	Required    string `xml:"Required,attr"`
	Mask        string `xml:"Mask,attr"`
	Value       string `xml:",chardata"`
}

// Config Type values used by the Unraid dockerMan UI.
const (
	TypeVariable = "Variable"
	TypePort     = "Port"
	TypePath     = "Path"
)

// ModeEnv marks environment variable entries in older hand-written templates
// that set Mode instead of Type.
const ModeEnv = "env"

// IsVariable reports whether the entry declares an environment variable.
func (c Config) IsVariable() bool {
	return c.Type == TypeVariable || c.Mode == ModeEnv
}

// IsPort reports whether the entry declares a port mapping.
func (c Config) IsPort() bool {
	return c.Type == TypePort
}

// IsPath reports whether the entry declares a volume mapping.
func (c Config) IsPath() bool {
	return c.Type == TypePath
}

// =============================================================================
// Declared Field Extraction
// =============================================================================

// PortKey identifies a declared port mapping by container port and protocol.
type PortKey struct {
	Port     string // container-side port, e.g. "8080"
	Protocol string // "tcp" or "udp"
}

// Variables returns the declared environment variables keyed by variable
// name (the Target attribute), mapped to their default values.
func (c *Container) Variables() map[string]string {
	vars := make(map[string]string)
	for _, cfg := range c.Configs {
		if cfg.IsVariable() && cfg.Target != "" {
			vars[cfg.Target] = cfg.Default
		}
	}
	return vars
}

// Ports returns the set of declared container ports.
// A port entry's Mode attribute carries the protocol; empty means tcp.
func (c *Container) Ports() map[PortKey]struct{} {
	ports := make(map[PortKey]struct{})
	for _, cfg := range c.Configs {
		if !cfg.IsPort() || cfg.Target == "" {
			continue
		}
		proto := strings.ToLower(cfg.Mode)
		if proto == "" {
			proto = "tcp"
		}
		ports[PortKey{Port: cfg.Target, Protocol: proto}] = struct{}{}
	}
	return ports
}

// Volumes returns the set of declared container mount paths.
func (c *Container) Volumes() map[string]struct{} {
	mounts := make(map[string]struct{})
	for _, cfg := range c.Configs {
		if cfg.IsPath() && cfg.Target != "" {
			mounts[cfg.Target] = struct{}{}
		}
	}
	return mounts
}

// =============================================================================
// Display Helpers
// =============================================================================

// webUIPortRegex matches the [PORT:8080] placeholder in WebUI URLs.
var webUIPortRegex = regexp.MustCompile(`\[PORT:(\d+)\]`)

// WebUIPort extracts the port from the WebUI field's
// http://[IP]:[PORT:8080] convention. Returns "" for headless templates.
func (c *Container) WebUIPort() string {
	if m := webUIPortRegex.FindStringSubmatch(c.WebUI); m != nil {
		return m[1]
	}
	if i := strings.LastIndex(c.WebUI, ":"); i >= 0 {
		if port := strings.TrimRight(c.WebUI[i+1:], "]/"); isDigits(port) {
			return port
		}
	}
	return ""
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// Image returns the repository reference without its tag.
func (c *Container) Image() string {
	if i := strings.LastIndex(c.Repository, ":"); i >= 0 && !strings.Contains(c.Repository[i+1:], "/") {
		return c.Repository[:i]
	}
	return c.Repository
}
