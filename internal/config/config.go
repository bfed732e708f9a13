// Package config provides configuration management for zoldermarkt.
package config

import (
	"fmt"
	"log"
	"os"

	"github.com/pelletier/go-toml/v2"
)

var AppVersion = "-unset-" // will be set at build time

// MainConfig holds the main configuration for zoldermarkt
type MainConfig struct {
	// Server settings
	Server ServerConfig `json:"server" toml:"server"`

	// Database settings
	Database DatabaseConfig `json:"database" toml:"database"`

	AppVersion string `json:"app_version" toml:"-"` // Application version, set at build time
}

// ServerConfig holds web server configuration
type ServerConfig struct {
	WEB      *WebConfig `json:"web" toml:"web"`
	Hostname string     `json:"hostname" toml:"hostname"` // Server hostname for logging and identification
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	MainDB  string `json:"main_db" toml:"main_db"`   // Path to main database
	DataDir string `json:"data_dir" toml:"data_dir"` // Directory for database files
}

// WebConfig holds web interface configuration
type WebConfig struct {
	ListenPort  int    `json:"listen_port" toml:"listen_port"`
	SSL         bool   `json:"ssl" toml:"ssl"`
	CertFile    string `json:"cert_file,omitempty" toml:"cert_file"`
	KeyFile     string `json:"key_file,omitempty" toml:"key_file"`
	StaticDir   string `json:"static_dir" toml:"static_dir"`
	TemplateDir string `json:"template_dir" toml:"template_dir"`
	Debug       bool   `json:"debug" toml:"debug"` // Enable debug logging for web handlers
}

// NewDefaultConfig returns a configuration with sensible defaults
func NewDefaultConfig() *MainConfig {
	maincfg := &MainConfig{
		AppVersion: AppVersion, // Set application version

		Server: ServerConfig{
			WEB: &WebConfig{
				ListenPort:  11980,
				SSL:         false,
				StaticDir:   "web/static",
				TemplateDir: "web/templates",
			},
		},
		Database: DatabaseConfig{
			MainDB:  "data/zoldermarkt.sq3",
			DataDir: "data",
		},
	}
	return maincfg
}

// LoadFromFile overlays configuration from a TOML file on top of the defaults.
// Missing keys keep their default values.
func LoadFromFile(path string) (*MainConfig, error) {
	maincfg := NewDefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	if err := toml.Unmarshal(data, maincfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	if maincfg.Server.WEB == nil {
		maincfg.Server.WEB = NewDefaultConfig().Server.WEB
	}
	log.Printf("Loaded configuration from %s", path)
	return maincfg, nil
}
