package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dmitrijs2005/scenevault/internal/flagx"
	"github.com/dmitrijs2005/scenevault/internal/timex"
)

// JSONConfig is the on-disk shape of Config. Absent fields keep their
// current values.
type JSONConfig struct {
	ServerEndpointAddr *string         `json:"server_endpoint_addr"`
	GRPCEndpointAddr   *string         `json:"grpc_endpoint_addr"`
	Transport          *string         `json:"transport"`
	OwnerID            *string         `json:"owner_id"`
	RequestTimeout     *timex.Duration `json:"request_timeout"`
	OnlineCheck        *timex.Duration `json:"online_check_interval"`
	CachePath          *string         `json:"cache_path"`
	SceneCacheSize     *int            `json:"scene_cache_size"`
}

func parseJSON(cfg *Config, args []string) error {
	path := flagx.ConfigFilePath(args)
	if path == "" {
		return nil
	}

	file, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}

	c := &JSONConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}

	if c.ServerEndpointAddr != nil {
		cfg.ServerEndpointAddr = *c.ServerEndpointAddr
	}
	if c.GRPCEndpointAddr != nil {
		cfg.GRPCEndpointAddr = *c.GRPCEndpointAddr
	}
	if c.Transport != nil {
		cfg.Transport = *c.Transport
	}
	if c.OwnerID != nil {
		cfg.OwnerID = *c.OwnerID
	}
	if c.RequestTimeout != nil {
		cfg.RequestTimeout = c.RequestTimeout.Duration
	}
	if c.OnlineCheck != nil {
		cfg.OnlineCheckInterval = c.OnlineCheck.Duration
	}
	if c.CachePath != nil {
		cfg.CachePath = *c.CachePath
	}
	if c.SceneCacheSize != nil {
		cfg.SceneCacheSize = *c.SceneCacheSize
	}
	return nil
}
