// Package config loads client and server configuration from an optional
// YAML file, with environment variables taking precedence over the file
// and built-in defaults filling the rest.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ClientConfig drives the field CLI.
type ClientConfig struct {
	APIURL         string `yaml:"api_url"`
	DBPath         string `yaml:"db_path"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// ServerUser is one provisioned login in the server config file.
type ServerUser struct {
	Name         string `yaml:"name"`
	PassHash     string `yaml:"pass_hash"`
	CanDashboard bool   `yaml:"can_dashboard"`
}

// ServerConfig drives the collection endpoint.
type ServerConfig struct {
	Addr      string       `yaml:"addr"`
	JWTSecret string       `yaml:"jwt_secret"`
	Title     string       `yaml:"title"`
	Regions   []string     `yaml:"regions"`
	Users     []ServerUser `yaml:"users"`
}

// LoadClient reads the client config from path. A missing file is not an
// error: defaults plus environment overrides still apply.
func LoadClient(path string) (*ClientConfig, error) {
	cfg := &ClientConfig{
		APIURL:         "http://localhost:8080",
		DBPath:         defaultDBPath(),
		TimeoutSeconds: 20,
	}
	if err := readYAML(path, cfg); err != nil {
		return nil, err
	}
	cfg.APIURL = getenv("VIGIA_API_URL", cfg.APIURL)
	cfg.DBPath = getenv("VIGIA_DB_PATH", cfg.DBPath)
	return cfg, nil
}

// LoadServer reads the server config from path. The signing secret must be
// present in the file or in VIGIA_JWT_SECRET.
func LoadServer(path string) (*ServerConfig, error) {
	cfg := &ServerConfig{Addr: ":8080"}
	if err := readYAML(path, cfg); err != nil {
		return nil, err
	}
	cfg.Addr = getenv("VIGIA_ADDR", cfg.Addr)
	cfg.JWTSecret = getenv("VIGIA_JWT_SECRET", cfg.JWTSecret)
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("config: jwt secret not set (file %q or VIGIA_JWT_SECRET)", path)
	}
	return cfg, nil
}

func readYAML(path string, out any) error {
	if path == "" {
		return nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, out); err != nil {
		return fmt.Errorf("config: parse %s: %w", path, err)
	}
	return nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "vigia.db"
	}
	return filepath.Join(home, ".vigia", "vigia.db")
}
