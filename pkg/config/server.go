package config

import (
	"os"
	"strconv"
)

// ServerConfig holds the typed settings the column-store server boots with.
// It is layered on top of Config so operational overrides (e.g. pushed by a
// future control plane) can still flow through Get/Update.
type ServerConfig struct {
	*Config

	// SocketPath is the filesystem path of the local stream socket the
	// server listens on.
	SocketPath string

	// DataDir is the persistence root directory (metadata + column files).
	DataDir string

	// DefaultColumnCapacity is read from COLDB_DEFAULT_COL_SIZE and recorded
	// under "column.default_capacity". The catalog does not read it: new
	// tables and columns are always allocated with catalog.DefaultColSize.
	DefaultColumnCapacity int
}

const (
	envSocketPath = "COLDB_SOCKET"
	envDataDir    = "COLDB_DATA_DIR"
	envColCap     = "COLDB_DEFAULT_COL_SIZE"

	defaultSocketPath = "/tmp/coldb.sock"
	defaultDataDir    = "./db_data"
	defaultColCap     = 1024
)

// NewServerConfig builds a ServerConfig from environment variables, falling
// back to the reference defaults used throughout the core.
func NewServerConfig() *ServerConfig {
	cfg := &ServerConfig{
		Config:                New(),
		SocketPath:            defaultSocketPath,
		DataDir:               defaultDataDir,
		DefaultColumnCapacity: defaultColCap,
	}

	if v := os.Getenv(envSocketPath); v != "" {
		cfg.SocketPath = v
	}
	if v := os.Getenv(envDataDir); v != "" {
		cfg.DataDir = v
	}
	if v := os.Getenv(envColCap); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.DefaultColumnCapacity = n
		}
	}

	cfg.Update(map[string]string{
		"socket.path":             cfg.SocketPath,
		"persistence.data_dir":    cfg.DataDir,
		"column.default_capacity": strconv.Itoa(cfg.DefaultColumnCapacity),
	})

	return cfg
}
