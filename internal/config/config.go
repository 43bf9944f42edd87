package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/pelletier/go-toml/v2"

	"github.com/investi-gate/portal-sub000/internal/core/community"
	"github.com/investi-gate/portal-sub000/internal/core/layout"
)

const (
	BackendMemory   = "memory"
	BackendMemgraph = "memgraph"
	BackendPostgres = "postgres"
)

type ServerConfig struct {
	Port string `toml:"port"`
}

type StoreConfig struct {
	Backend string `toml:"backend"`
}

type MemgraphConfig struct {
	URI      string `toml:"uri"`
	User     string `toml:"user"`
	Password string `toml:"password"`
}

type PostgresConfig struct {
	URL string `toml:"url"`
}

type LayoutConfig struct {
	NodeSpacing      float64 `toml:"node_spacing"`
	LevelHeight      float64 `toml:"level_height"`
	ComponentSpacing float64 `toml:"component_spacing"`
}

type AnalysisConfig struct {
	ClusterAlgorithm string `toml:"cluster_algorithm"`
}

type LogConfig struct {
	Debug bool `toml:"debug"`
}

type Config struct {
	Server   ServerConfig   `toml:"server"`
	Store    StoreConfig    `toml:"store"`
	Memgraph MemgraphConfig `toml:"memgraph"`
	Postgres PostgresConfig `toml:"postgres"`
	Layout   LayoutConfig   `toml:"layout"`
	Analysis AnalysisConfig `toml:"analysis"`
	Log      LogConfig      `toml:"log"`
}

func Default() *Config {
	opts := layout.DefaultOptions()
	return &Config{
		Server: ServerConfig{Port: "8080"},
		Store:  StoreConfig{Backend: BackendMemory},
		Memgraph: MemgraphConfig{
			URI: "bolt://localhost:7687",
		},
		Layout: LayoutConfig{
			NodeSpacing:      opts.NodeSpacing,
			LevelHeight:      opts.LevelHeight,
			ComponentSpacing: opts.ComponentSpacing,
		},
		Analysis: AnalysisConfig{ClusterAlgorithm: community.AlgorithmComponents},
	}
}

// Load reads the TOML file at path over the defaults, then applies
// environment overrides. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("failed to read config file '%s': %w", path, err)
	default:
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse TOML: %w", err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	setString(&c.Server.Port, "PORT")
	setString(&c.Store.Backend, "STORE_BACKEND")
	setString(&c.Memgraph.URI, "MEMGRAPH_URI")
	setString(&c.Memgraph.User, "MEMGRAPH_USER")
	setString(&c.Memgraph.Password, "MEMGRAPH_PASSWORD")
	setString(&c.Postgres.URL, "DATABASE_URL")
	setString(&c.Analysis.ClusterAlgorithm, "CLUSTER_ALGORITHM")

	if v := os.Getenv("DEBUG"); v != "" {
		debug, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid DEBUG value %q: %w", v, err)
		}
		c.Log.Debug = debug
	}
	return nil
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func (c *Config) Validate() error {
	switch c.Store.Backend {
	case BackendMemory, BackendMemgraph:
	case BackendPostgres:
		if c.Postgres.URL == "" {
			return errors.New("postgres backend requires DATABASE_URL or [postgres].url")
		}
	default:
		return fmt.Errorf("unknown store backend %q", c.Store.Backend)
	}
	switch c.Analysis.ClusterAlgorithm {
	case community.AlgorithmComponents, community.AlgorithmLabelPropagation:
	default:
		return fmt.Errorf("unknown cluster algorithm %q", c.Analysis.ClusterAlgorithm)
	}
	if c.Layout.NodeSpacing <= 0 || c.Layout.LevelHeight <= 0 || c.Layout.ComponentSpacing < 0 {
		return errors.New("layout spacing must be positive")
	}
	return nil
}
