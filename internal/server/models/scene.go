// Package models defines the scene records persisted by the server.
//
// SceneMetadata is the public projection used for listings. SceneRecord
// embeds it and adds the opaque payload fields, so code that only holds
// SceneMetadata has no way to reach ciphertext or key references.
package models

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
)

const redacted = "[redacted]"

// Ciphertext is a client-encrypted scene payload. The server never inspects it.
type Ciphertext []byte

// LogValue keeps ciphertext out of structured logs.
func (Ciphertext) LogValue() slog.Value { return slog.StringValue(redacted) }

// String keeps ciphertext out of fmt output.
func (Ciphertext) String() string { return redacted }

// MarshalJSON encodes the payload as standard base64 text. A nil payload
// encodes as "" so it reads back as an empty, present payload.
func (c Ciphertext) MarshalJSON() ([]byte, error) {
	return json.Marshal(base64.StdEncoding.EncodeToString(c))
}

// nodeBuffer is how a Node.js Buffer serializes through JSON.stringify.
type nodeBuffer struct {
	Type string `json:"type"`
	Data []int  `json:"data"`
}

// UnmarshalJSON accepts base64 text or a {"type":"Buffer","data":[...]} object.
func (c *Ciphertext) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*c = nil
		return nil
	}
	if len(b) == 0 {
		return errors.New("empty ciphertext")
	}

	switch b[0] {
	case '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		raw, err := base64.StdEncoding.DecodeString(s)
		if err != nil {
			return fmt.Errorf("ciphertext is not base64: %w", err)
		}
		*c = raw
		return nil
	case '{':
		var nb nodeBuffer
		if err := json.Unmarshal(b, &nb); err != nil {
			return err
		}
		if nb.Type != "Buffer" {
			return fmt.Errorf("unexpected ciphertext object type %q", nb.Type)
		}
		raw := make([]byte, len(nb.Data))
		for i, v := range nb.Data {
			if v < 0 || v > 255 {
				return fmt.Errorf("ciphertext byte %d out of range: %d", i, v)
			}
			raw[i] = byte(v)
		}
		*c = raw
		return nil
	default:
		return errors.New("unsupported ciphertext representation")
	}
}

// KeyReference is the caller's opaque encryption-key handle.
type KeyReference string

// LogValue keeps key references out of structured logs.
func (KeyReference) LogValue() slog.Value { return slog.StringValue(redacted) }

// String keeps key references out of fmt output.
func (KeyReference) String() string { return redacted }

// SceneMetadata is one entry of an owner's scene index.
// Timestamps are milliseconds since the Unix epoch.
type SceneMetadata struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	CreatedAt  int64  `json:"created"`
	ModifiedAt int64  `json:"modified"`

	// Optional client-supplied hints carried through untouched.
	Thumbnail    string `json:"thumbnail,omitempty"`
	ElementCount *int   `json:"elementCount,omitempty"`
	FileCount    *int   `json:"fileCount,omitempty"`
}

// SceneRecord is the full persisted scene keyed by (OwnerID, ID).
type SceneRecord struct {
	SceneMetadata

	OwnerID      string       `json:"userId"`
	Ciphertext   Ciphertext   `json:"encryptedData"`
	KeyReference KeyReference `json:"encryptionKey"`
}

// Metadata returns the listing projection of r.
func (r SceneRecord) Metadata() SceneMetadata {
	return r.SceneMetadata
}

// LogValue logs bookkeeping fields only.
func (r SceneRecord) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("id", r.ID),
		slog.String("owner_id", r.OwnerID),
		slog.String("name", r.Name),
		slog.Int64("created", r.CreatedAt),
		slog.Int64("modified", r.ModifiedAt),
	)
}
