package sceneapi

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/encoding"
)

func TestCodec_Registered(t *testing.T) {
	c := encoding.GetCodec(CodecName)
	require.NotNil(t, c)
	assert.Equal(t, CodecName, c.Name())
}

func TestCodec_Roundtrip(t *testing.T) {
	count := 3
	in := &ListScenesResponse{Scenes: []SceneMetadata{
		{ID: "s1", Name: "Draft", CreatedAt: 1, ModifiedAt: 2, ElementCount: &count},
		{ID: "s2", Name: "Other", CreatedAt: 3, ModifiedAt: 4},
	}}

	data, err := Codec{}.Marshal(in)
	require.NoError(t, err)

	out := &ListScenesResponse{}
	require.NoError(t, Codec{}.Unmarshal(data, out))
	assert.Equal(t, in, out)
}

func TestCodec_Deterministic(t *testing.T) {
	msg := &SaveSceneRequest{OwnerID: "u1", SceneID: "s1", Name: "n", Ciphertext: []byte{1, 2}, EncryptionKey: "k"}

	first, err := Codec{}.Marshal(msg)
	require.NoError(t, err)
	second, err := Codec{}.Marshal(msg)
	require.NoError(t, err)
	assert.True(t, bytes.Equal(first, second))
}

func TestCodec_UnmarshalGarbage(t *testing.T) {
	err := Codec{}.Unmarshal([]byte{0xff, 0x00}, &GetSceneResponse{})
	assert.ErrorContains(t, err, "cbor unmarshal *sceneapi.GetSceneResponse")
}
