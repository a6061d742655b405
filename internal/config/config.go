package config

import (
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Project struct {
		Root      string   `yaml:"root"`
		Languages []string `yaml:"languages"` // empty means all supported
		Ignore    []string `yaml:"ignore"`    // extra gitignore-style patterns
	} `yaml:"project"`
	Output struct {
		Dir     string `yaml:"dir"`     // component JSON + graph artifacts
		DBPath  string `yaml:"db_path"` // sqlite snapshot
		GraphML bool   `yaml:"graphml"` // also write graph.graphml
	} `yaml:"output"`
	Server struct {
		Name string `yaml:"name"`
	} `yaml:"server"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	var cfg Config
	cfg.Project.Root = "."
	cfg.Output.Dir = "output"
	cfg.Output.DBPath = filepath.Join("output", "codegraph.db")
	cfg.Output.GraphML = true
	cfg.Server.Name = "codegraph"
	return &cfg
}

// LoadConfig reads a YAML config file, layering .env and environment
// variables on top. An empty path yields the defaults (plus env overrides).
func LoadConfig(path string) (*Config, error) {
	// 1. Load .env if exists
	_ = godotenv.Load()

	cfg := Default()

	// 2. Load YAML config
	if path != "" {
		file, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		if err := yaml.Unmarshal(file, cfg); err != nil {
			return nil, err
		}
	}

	// 3. Override with environment variables if present
	if root := os.Getenv("CODEGRAPH_ROOT"); root != "" {
		cfg.Project.Root = root
	}
	if dir := os.Getenv("CODEGRAPH_OUTPUT_DIR"); dir != "" {
		cfg.Output.Dir = dir
	}
	if db := os.Getenv("CODEGRAPH_DB_PATH"); db != "" {
		cfg.Output.DBPath = db
	}

	if cfg.Output.DBPath == "" {
		cfg.Output.DBPath = filepath.Join(cfg.Output.Dir, "codegraph.db")
	}
	return cfg, nil
}
