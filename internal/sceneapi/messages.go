package sceneapi

// SceneMetadata is the listing view of a scene. It never carries ciphertext
// or key references.
type SceneMetadata struct {
	ID           string `cbor:"id"`
	Name         string `cbor:"name"`
	CreatedAt    int64  `cbor:"created"`
	ModifiedAt   int64  `cbor:"modified"`
	Thumbnail    string `cbor:"thumbnail,omitempty"`
	ElementCount *int   `cbor:"element_count,omitempty"`
	FileCount    *int   `cbor:"file_count,omitempty"`
}

type SaveSceneRequest struct {
	OwnerID       string `cbor:"owner_id"`
	SceneID       string `cbor:"scene_id"`
	Name          string `cbor:"name,omitempty"`
	Ciphertext    []byte `cbor:"ciphertext"`
	EncryptionKey string `cbor:"encryption_key"`
}

type SaveSceneResponse struct {
	Scene   SceneMetadata `cbor:"scene"`
	Updated bool          `cbor:"updated"`
}

type ListScenesRequest struct {
	OwnerID string `cbor:"owner_id"`
}

type ListScenesResponse struct {
	Scenes []SceneMetadata `cbor:"scenes"`
}

type GetSceneRequest struct {
	OwnerID string `cbor:"owner_id"`
	SceneID string `cbor:"scene_id"`
}

type GetSceneResponse struct {
	Ciphertext []byte `cbor:"ciphertext"`
}

type DeleteSceneRequest struct {
	OwnerID string `cbor:"owner_id"`
	SceneID string `cbor:"scene_id"`
}

type DeleteSceneResponse struct {
	Deleted bool `cbor:"deleted"`
}

type PingRequest struct{}

type PingResponse struct {
	Status string `cbor:"status"`
}
