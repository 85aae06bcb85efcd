package config

import (
	"fmt"
	"os"
	"time"
)

const (
	TransportHTTP = "http"
	TransportGRPC = "grpc"
)

// Config holds runtime settings for the scenectl CLI.
type Config struct {
	ServerEndpointAddr string
	GRPCEndpointAddr   string
	Transport          string
	OwnerID            string
	RequestTimeout     time.Duration
	// OnlineCheckInterval is how often the REPL pings the server. Zero disables the check.
	OnlineCheckInterval time.Duration
	// CachePath is the SQLite file holding the offline listing cache. Empty disables it.
	CachePath string
	// SceneCacheSize bounds how many downloaded scenes the HTTP client keeps for ETag revalidation.
	SceneCacheSize int
}

// LoadDefaults populates c with local-development defaults.
func (c *Config) LoadDefaults() {
	c.ServerEndpointAddr = "http://127.0.0.1:8080"
	c.GRPCEndpointAddr = "127.0.0.1:50051"
	c.Transport = TransportHTTP
	c.RequestTimeout = 10 * time.Second
	c.OnlineCheckInterval = 30 * time.Second
	c.CachePath = "scenectl.db"
	c.SceneCacheSize = 16
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() (*Config, error) {
	return load(os.Args[1:])
}

func load(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()
	if err := parseJSON(cfg, args); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}
	if cfg.Transport != TransportHTTP && cfg.Transport != TransportGRPC {
		return nil, fmt.Errorf("unknown transport %q", cfg.Transport)
	}
	if cfg.SceneCacheSize <= 0 {
		return nil, fmt.Errorf("scene cache size must be positive, got %d", cfg.SceneCacheSize)
	}
	return cfg, nil
}
