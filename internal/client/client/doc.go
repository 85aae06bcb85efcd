// Package client talks to a scenevault server on behalf of one owner. Two
// transports implement the same Client interface: HTTPClient (JSON/REST) and
// GRPCClient (CBOR over gRPC). Both return the sentinel errors in errors.go
// so callers never inspect transport-specific failures.
package client
