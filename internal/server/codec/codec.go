// Package codec converts scene records and scene indexes to and from the
// bytes kept in the key-value store.
//
// Stored values are JSON. Decoding is lenient about the physical form the
// store hands back: a leading UTF-8 BOM and surrounding whitespace are
// dropped, and a document that was stored as a JSON string literal (text
// holding the real JSON) is unwrapped once before parsing.
package codec

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/dmitrijs2005/scenevault/internal/common"
	"github.com/dmitrijs2005/scenevault/internal/server/models"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// EncodeRecord serializes a full scene record.
func EncodeRecord(r models.SceneRecord) ([]byte, error) {
	return json.Marshal(r)
}

// DecodeRecord parses a stored scene record. A record without an
// encryptedData payload is unusable. Any failure wraps common.ErrDecode.
func DecodeRecord(b []byte) (models.SceneRecord, error) {
	var r models.SceneRecord

	doc, err := normalize(b)
	if err != nil {
		return r, err
	}
	if doc[0] != '{' {
		return r, fmt.Errorf("%w: record is not a JSON object", common.ErrDecode)
	}
	if err := json.Unmarshal(doc, &r); err != nil {
		return models.SceneRecord{}, fmt.Errorf("%w: record: %w", common.ErrDecode, err)
	}
	if r.Ciphertext == nil {
		return models.SceneRecord{}, fmt.Errorf("%w: record has no encryptedData", common.ErrDecode)
	}
	return r, nil
}

// EncodeIndex serializes an owner's scene index. A nil index encodes as [].
func EncodeIndex(entries []models.SceneMetadata) ([]byte, error) {
	if entries == nil {
		entries = []models.SceneMetadata{}
	}
	return json.Marshal(entries)
}

// DecodeIndex parses a stored scene index. Any failure wraps common.ErrDecode.
func DecodeIndex(b []byte) ([]models.SceneMetadata, error) {
	doc, err := normalize(b)
	if err != nil {
		return nil, err
	}
	if doc[0] != '[' {
		return nil, fmt.Errorf("%w: index is not a JSON array", common.ErrDecode)
	}

	entries := []models.SceneMetadata{}
	if err := json.Unmarshal(doc, &entries); err != nil {
		return nil, fmt.Errorf("%w: index: %w", common.ErrDecode, err)
	}
	return entries, nil
}

func normalize(b []byte) ([]byte, error) {
	doc := bytes.TrimSpace(bytes.TrimPrefix(b, utf8BOM))
	if len(doc) == 0 {
		return nil, fmt.Errorf("%w: empty document", common.ErrDecode)
	}
	if doc[0] != '"' {
		return doc, nil
	}

	var inner string
	if err := json.Unmarshal(doc, &inner); err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrDecode, err)
	}
	doc = bytes.TrimSpace(bytes.TrimPrefix([]byte(inner), utf8BOM))
	if len(doc) == 0 {
		return nil, fmt.Errorf("%w: empty document", common.ErrDecode)
	}
	return doc, nil
}
