package compose

// =============================================================================
// UpstreamConfig - Main Output Type
// =============================================================================

// UpstreamConfig is the slice of an upstream compose document the drift
// detector cares about: one service's declared environment variables, ports,
// and mount paths. All other compose content is ignored.
type UpstreamConfig struct {
	// Service is the name of the service the config was extracted from.
	Service string `json:"service"`

	// Environment maps variable names to their default values. Shell
	// placeholder syntax (${VAR:-default}) is already resolved to the
	// default; bare ${VAR} resolves to an empty string.
	Environment map[string]string `json:"environment,omitempty"`

	// Ports are the service's declared port mappings.
	Ports []Port `json:"ports,omitempty"`

	// Volumes are the container-side mount paths the service declares.
	Volumes []string `json:"volumes,omitempty"`
}

// Port represents a port mapping.
type Port struct {
	Target    uint32 `json:"target"`              // Container port
	Published uint32 `json:"published,omitempty"` // Host port (0 = dynamic)
	Protocol  string `json:"protocol,omitempty"`  // tcp, udp
}
