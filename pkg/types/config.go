package types

import "time"

// ManifestFile is the reserved name of the region manifest at the data root.
// The regulation loader never treats it as a regulation.
const ManifestFile = "regions.json"

// Transport selects how the query operations are exposed.
type Transport string

const (
	TransportStdio Transport = "stdio"
	TransportHTTP  Transport = "http"
)

// ServerConfig holds the settings for the serve command.
type ServerConfig struct {
	// DataDir is the root of the regulation data tree (contains regions.json).
	DataDir string `json:"data_dir" yaml:"data_dir"`

	// Transport selects stdio (MCP) or http.
	Transport Transport `json:"transport" yaml:"transport"`

	// Addr is the listen address for the http transport (default ":8080").
	Addr string `json:"addr" yaml:"addr"`

	// ShutdownTimeout bounds graceful shutdown of the http transport (default 5s).
	ShutdownTimeout time.Duration `json:"shutdown_timeout" yaml:"shutdown_timeout"`
}

// DefaultServerConfig returns a ServerConfig with defaults filled in.
// DataDir has no default; it must be configured.
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		Transport:       TransportStdio,
		Addr:            ":8080",
		ShutdownTimeout: 5 * time.Second,
	}
}

// ExportFormat selects the snapshot format written by the export command.
type ExportFormat string

const (
	ExportYAML   ExportFormat = "yaml"
	ExportJSON   ExportFormat = "json"
	ExportSQLite ExportFormat = "sqlite"
)
