// Package config loads the layerd HCL configuration file. Every setting
// has a default, so a missing file is not an error; CLI flags override
// whatever the file says.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/hashicorp/hcl/v2/hclsimple"
)

// Config is the top-level layout of layerd.hcl.
//
//	storage {
//	  path = "/var/lib/layerd/layers.db"
//	}
//	log {
//	  level = "info"
//	}
//	server {
//	  name = "layerd"
//	}
type Config struct {
	Storage *Storage `hcl:"storage,block"`
	Log     *Log     `hcl:"log,block"`
	Server  *Server  `hcl:"server,block"`
}

// Storage locates the SQLite database file.
type Storage struct {
	Path string `hcl:"path,optional"`
}

// Log controls the structured logger.
type Log struct {
	Level string `hcl:"level,optional"`
}

// Server names the MCP server as reported to clients.
type Server struct {
	Name string `hcl:"name,optional"`
}

// DefaultDir is where layerd keeps its database and config unless told
// otherwise.
func DefaultDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".strataworks", "layerd")
}

// Default returns the full fallback configuration.
func Default() *Config {
	return &Config{
		Storage: &Storage{Path: filepath.Join(DefaultDir(), "layers.db")},
		Log:     &Log{Level: "info"},
		Server:  &Server{Name: "layerd"},
	}
}

// Load reads path and fills any omitted block or field from Default. A
// nonexistent file yields the defaults; a malformed one is an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	var file Config
	if err := hclsimple.DecodeFile(path, nil, &file); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	if file.Storage != nil && file.Storage.Path != "" {
		cfg.Storage.Path = file.Storage.Path
	}
	if file.Log != nil && file.Log.Level != "" {
		cfg.Log.Level = file.Log.Level
	}
	if file.Server != nil && file.Server.Name != "" {
		cfg.Server.Name = file.Server.Name
	}
	return cfg, nil
}
