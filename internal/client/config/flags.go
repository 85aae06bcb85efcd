package config

import (
	"flag"
	"fmt"
	"time"

	"github.com/dmitrijs2005/scenevault/internal/flagx"
)

// parseFlags populates Config fields from the flags listed in the package
// documentation. Anything else on the command line is ignored.
func parseFlags(cfg *Config, args []string) error {
	args = flagx.FilterArgs(args, []string{"-a", "-g", "-x", "-o", "-i", "-n", "-f", "-s"})

	fs := flag.NewFlagSet("scenectl", flag.ContinueOnError)

	fs.StringVar(&cfg.ServerEndpointAddr, "a", cfg.ServerEndpointAddr, "base URL of the HTTP endpoint")
	fs.StringVar(&cfg.GRPCEndpointAddr, "g", cfg.GRPCEndpointAddr, "address and port of the gRPC endpoint")
	fs.StringVar(&cfg.Transport, "x", cfg.Transport, "transport (http or grpc)")
	fs.StringVar(&cfg.OwnerID, "o", cfg.OwnerID, "owner id")
	fs.StringVar(&cfg.CachePath, "f", cfg.CachePath, "offline listing cache file (empty disables)")
	fs.IntVar(&cfg.SceneCacheSize, "s", cfg.SceneCacheSize, "number of downloaded scenes kept in memory")
	requestTimeout := fs.Int("i", int(cfg.RequestTimeout.Seconds()), "request timeout (in seconds)")
	onlineCheck := fs.Int("n", int(cfg.OnlineCheckInterval.Seconds()), "online check interval (in seconds, 0 disables)")

	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("parse flags: %w", err)
	}

	cfg.RequestTimeout = time.Duration(*requestTimeout) * time.Second
	cfg.OnlineCheckInterval = time.Duration(*onlineCheck) * time.Second
	return nil
}
