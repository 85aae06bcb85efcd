// Package common contains shared constants and sentinel errors used across
// scenevault components.
package common

// HTTP headers understood by the workspace endpoints.
const (
	SceneNameHeader     = "x-scene-name"
	EncryptionKeyHeader = "x-encryption-key"
	RequestIDHeader     = "X-Request-ID"
)

// DefaultSceneName is used when a save request carries no scene name.
const DefaultSceneName = "Untitled"

// RequestIDMetadataKey is the gRPC metadata key carrying a request id.
const RequestIDMetadataKey = "x-request-id"
