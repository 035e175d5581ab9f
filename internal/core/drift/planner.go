// Package drift computes the additive merge between an upstream compose
// reference and a local Unraid template. This is part of the Functional Core -
// all functions are pure with no I/O.
//
// The merge is one-directional: entries declared upstream but absent locally
// become new template Config elements; locally declared entries are never
// removed, so hand-curated configuration survives.
package drift

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/fgrfn/unraid-templates/internal/core/compose"
	"github.com/fgrfn/unraid-templates/internal/core/template"
)

// =============================================================================
// Plan
// =============================================================================

// Plan holds the Config elements an update would append to a template.
type Plan struct {
	NewVariables []template.Config
	NewPorts     []template.Config
	NewPaths     []template.Config
}

// Empty reports whether the plan proposes no changes.
func (p Plan) Empty() bool {
	return len(p.NewVariables) == 0 && len(p.NewPorts) == 0 && len(p.NewPaths) == 0
}

// Configs returns all planned entries in append order: variables, then
// ports, then paths.
func (p Plan) Configs() []template.Config {
	configs := make([]template.Config, 0, len(p.NewVariables)+len(p.NewPorts)+len(p.NewPaths))
	configs = append(configs, p.NewVariables...)
	configs = append(configs, p.NewPorts...)
	configs = append(configs, p.NewPaths...)
	return configs
}

// =============================================================================
// Planning
// =============================================================================

// ambientVariables are runtime variables that legitimately differ between an
// upstream compose file and an Unraid template; they are never proposed.
var ambientVariables = map[string]bool{
	"TZ":   true,
	"PUID": true,
	"PGID": true,
}

// maskKeywords flag variable names that likely carry credentials; matching
// entries are added with Mask="true" so the UI hides their value.
var maskKeywords = []string{"SECRET", "PASSWORD", "KEY", "TOKEN", "API"}

// BuildPlan computes the reference − local set difference per category and
// synthesizes a Config element for every element declared upstream but
// missing from the local template. Output order is deterministic.
func BuildPlan(upstream *compose.UpstreamConfig, local *template.Container) Plan {
	var plan Plan

	localVars := local.Variables()
	names := make([]string, 0, len(upstream.Environment))
	for name := range upstream.Environment {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if ambientVariables[name] {
			continue
		}
		if _, declared := localVars[name]; declared {
			continue
		}
		plan.NewVariables = append(plan.NewVariables, newVariableConfig(name, upstream.Environment[name]))
	}

	localPorts := local.Ports()
	ports := append([]compose.Port(nil), upstream.Ports...)
	sort.Slice(ports, func(i, j int) bool {
		if ports[i].Target != ports[j].Target {
			return ports[i].Target < ports[j].Target
		}
		return ports[i].Protocol < ports[j].Protocol
	})
	seenPorts := make(map[template.PortKey]bool)
	for _, port := range ports {
		key := template.PortKey{
			Port:     strconv.FormatUint(uint64(port.Target), 10),
			Protocol: port.Protocol,
		}
		if _, declared := localPorts[key]; declared {
			continue
		}
		if seenPorts[key] {
			continue
		}
		seenPorts[key] = true
		plan.NewPorts = append(plan.NewPorts, newPortConfig(port))
	}

	localPaths := local.Volumes()
	paths := append([]string(nil), upstream.Volumes...)
	sort.Strings(paths)
	seenPaths := make(map[string]bool)
	for _, path := range paths {
		if _, declared := localPaths[path]; declared {
			continue
		}
		if seenPaths[path] {
			continue
		}
		seenPaths[path] = true
		plan.NewPaths = append(plan.NewPaths, newPathConfig(path))
	}

	return plan
}

// =============================================================================
// Config Synthesis
// =============================================================================

func newVariableConfig(name, value string) template.Config {
	required := "false"
	if value == "" {
		required = "true"
	}

	mask := "false"
	upper := strings.ToUpper(name)
	for _, keyword := range maskKeywords {
		if strings.Contains(upper, keyword) {
			mask = "true"
			break
		}
	}

	return template.Config{
		Name:        name,
		Target:      name,
		Default:     value,
		Mode:        template.ModeEnv,
		Description: "Environment variable: " + name,
		Type:        template.TypeVariable,
		Display:     "advanced",
		Required:    required,
		Mask:        mask,
		Value:       value,
	}
}

func newPortConfig(port compose.Port) template.Config {
	target := strconv.FormatUint(uint64(port.Target), 10)
	hostDefault := target
	if port.Published != 0 {
		hostDefault = strconv.FormatUint(uint64(port.Published), 10)
	}

	return template.Config{
		Name:        fmt.Sprintf("Port %s (%s)", target, port.Protocol),
		Target:      target,
		Default:     hostDefault,
		Mode:        port.Protocol,
		Description: "Container port " + target,
		Type:        template.TypePort,
		Display:     "advanced",
		Required:    "false",
		Mask:        "false",
		Value:       hostDefault,
	}
}

func newPathConfig(target string) template.Config {
	return template.Config{
		Name:        "Path " + target,
		Target:      target,
		Default:     "",
		Mode:        "rw",
		Description: "Container path " + target,
		Type:        template.TypePath,
		Display:     "advanced",
		Required:    "false",
		Mask:        "false",
	}
}
