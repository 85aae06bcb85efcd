// Package httpapi exposes the scene store over HTTP:
//
//	PUT    /workspace/{ownerId}/{sceneId}   save (body = ciphertext)
//	GET    /workspace/{ownerId}             list metadata
//	GET    /workspace/{ownerId}/{sceneId}   fetch ciphertext
//	DELETE /workspace/{ownerId}/{sceneId}   delete
//	GET    /healthz                         liveness
package httpapi

import (
	"context"
	"encoding/hex"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/dmitrijs2005/scenevault/internal/common"
	"github.com/dmitrijs2005/scenevault/internal/logging"
	"github.com/dmitrijs2005/scenevault/internal/server/models"
	"github.com/dmitrijs2005/scenevault/internal/server/services"
	"golang.org/x/crypto/blake2b"
)

// SceneService is the part of services.SceneService the handlers call.
type SceneService interface {
	SaveScene(ctx context.Context, ownerID, sceneID, name string, ciphertext models.Ciphertext, keyRef models.KeyReference) (*services.SaveResult, error)
	ListScenes(ctx context.Context, ownerID string) ([]models.SceneMetadata, error)
	GetScene(ctx context.Context, ownerID, sceneID string) (models.Ciphertext, bool, error)
	DeleteScene(ctx context.Context, ownerID, sceneID string) (bool, error)
}

// SaveResponse is returned by a successful PUT.
type SaveResponse struct {
	Success bool   `json:"success"`
	SceneID string `json:"sceneId"`
	Message string `json:"message"`
}

// DeleteResponse is returned by a successful DELETE.
type DeleteResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type Handler struct {
	scenes       SceneService
	logger       logging.Logger
	maxSceneSize int64
}

func NewHandler(scenes SceneService, logger logging.Logger, maxSceneSize int64) *Handler {
	return &Handler{
		scenes:       scenes,
		logger:       logger.With("module", "http_handler"),
		maxSceneSize: maxSceneSize,
	}
}

// Routes returns the mux wrapped in request-id, panic recovery and access
// log middleware.
func (h *Handler) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("PUT /workspace/{ownerId}/{sceneId}", h.saveScene)
	mux.HandleFunc("GET /workspace/{ownerId}", h.listScenes)
	mux.HandleFunc("GET /workspace/{ownerId}/{sceneId}", h.getScene)
	mux.HandleFunc("DELETE /workspace/{ownerId}/{sceneId}", h.deleteScene)
	mux.HandleFunc("GET /healthz", h.health)

	return Chain(mux, RequestID(), AccessLog(h.logger), RecoverPanic(h.logger))
}

func (h *Handler) saveScene(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	ownerID, sceneID := r.PathValue("ownerId"), r.PathValue("sceneId")
	log := h.logger.With("owner_id", ownerID, "scene_id", sceneID)

	keyRef := r.Header.Get(common.EncryptionKeyHeader)
	if keyRef == "" {
		writeError(w, http.StatusBadRequest, "Missing encryption key")
		return
	}

	name := common.DefaultSceneName
	if raw := r.Header.Get(common.SceneNameHeader); raw != "" {
		decoded, err := url.PathUnescape(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid scene name encoding")
			return
		}
		name = decoded
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, h.maxSceneSize))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "Scene too large")
			return
		}
		log.Error(ctx, "failed to read request body", "error", err)
		writeError(w, http.StatusBadRequest, "Failed to read request body")
		return
	}

	if _, err := h.scenes.SaveScene(ctx, ownerID, sceneID, name, body, models.KeyReference(keyRef)); err != nil {
		log.Error(ctx, "error saving scene", "error", err)
		writeServiceError(w, err, "Failed to save scene")
		return
	}

	writeJSON(w, http.StatusOK, SaveResponse{Success: true, SceneID: sceneID, Message: "Scene saved successfully"})
}

func (h *Handler) listScenes(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	ownerID := r.PathValue("ownerId")

	scenes, err := h.scenes.ListScenes(ctx, ownerID)
	if err != nil {
		h.logger.Error(ctx, "error getting scenes", "owner_id", ownerID, "error", err)
		writeServiceError(w, err, "Failed to get scenes")
		return
	}
	if scenes == nil {
		scenes = []models.SceneMetadata{}
	}

	writeJSON(w, http.StatusOK, scenes)
}

func (h *Handler) getScene(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	ownerID, sceneID := r.PathValue("ownerId"), r.PathValue("sceneId")

	data, ok, err := h.scenes.GetScene(ctx, ownerID, sceneID)
	if err != nil {
		h.logger.Error(ctx, "error getting scene", "owner_id", ownerID, "scene_id", sceneID, "error", err)
		writeServiceError(w, err, "Failed to get scene")
		return
	}
	if !ok {
		writeError(w, http.StatusNotFound, "Scene not found")
		return
	}

	etag := ETag(data)
	w.Header().Set("ETag", etag)
	if etagMatches(r.Header.Get("If-None-Match"), etag) {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	w.Header().Set("Content-Type", "application/octet-stream")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func (h *Handler) deleteScene(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	ownerID, sceneID := r.PathValue("ownerId"), r.PathValue("sceneId")

	deleted, err := h.scenes.DeleteScene(ctx, ownerID, sceneID)
	if err != nil {
		h.logger.Error(ctx, "error deleting scene", "owner_id", ownerID, "scene_id", sceneID, "error", err)
		writeServiceError(w, err, "Failed to delete scene")
		return
	}
	if !deleted {
		writeError(w, http.StatusNotFound, "Scene not found")
		return
	}

	writeJSON(w, http.StatusOK, DeleteResponse{Success: true, Message: "Scene deleted successfully"})
}

func (h *Handler) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// ETag is the quoted blake2b-256 digest of a scene's ciphertext.
func ETag(data []byte) string {
	sum := blake2b.Sum256(data)
	return `"` + hex.EncodeToString(sum[:]) + `"`
}

func etagMatches(header, etag string) bool {
	if header == "" {
		return false
	}
	for _, candidate := range strings.Split(header, ",") {
		candidate = strings.TrimPrefix(strings.TrimSpace(candidate), "W/")
		if candidate == "*" || candidate == etag {
			return true
		}
	}
	return false
}
