// Package config loads runtime configuration for the scenectl CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJSON) selected via flags: -c or -config.
//  3. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-a string   base URL of the HTTP endpoint
//	-g string   address:port of the gRPC endpoint
//	-x string   transport: http or grpc
//	-o string   owner id the scenes belong to
//	-i int      per-request timeout (seconds)
//	-n int      online check interval (seconds, 0 disables)
//	-f string   offline listing cache file (empty disables)
//	-s int      downloaded scenes kept in memory for ETag revalidation
//
// # JSON schema
//
// Durations accept strings like "10s" or integer nanoseconds:
//
//	{
//	  "server_endpoint_addr": "http://127.0.0.1:8080",
//	  "grpc_endpoint_addr": "127.0.0.1:50051",
//	  "transport": "http",
//	  "owner_id": "alice",
//	  "request_timeout": "10s",
//	  "online_check_interval": "30s",
//	  "cache_path": "scenectl.db",
//	  "scene_cache_size": 16
//	}
package config
