package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/dmitrijs2005/scenevault/internal/client/models"
	"github.com/dmitrijs2005/scenevault/internal/common"
	"github.com/google/uuid"

	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultSceneCacheSize is the number of downloaded scenes kept when no size is given.
const DefaultSceneCacheSize = 16

type cachedScene struct {
	etag string
	data []byte
}

// HTTPClient implements Client over the REST endpoints. Downloaded scenes
// are cached by ETag so an unchanged scene is not transferred twice. The
// cache holds at most cacheSize scenes; the least recently used is evicted.
type HTTPClient struct {
	baseURL string
	ownerID string
	http    *http.Client
	cache   *lru.Cache[string, cachedScene]
}

func NewHTTPClient(baseURL, ownerID string, httpClient *http.Client, cacheSize int) *HTTPClient {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if cacheSize <= 0 {
		cacheSize = DefaultSceneCacheSize
	}
	// lru.New only fails for a non-positive size.
	cache, _ := lru.New[string, cachedScene](cacheSize)
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		ownerID: ownerID,
		http:    httpClient,
		cache:   cache,
	}
}

func (c *HTTPClient) workspaceURL(sceneID string) string {
	u := c.baseURL + "/workspace/" + url.PathEscape(c.ownerID)
	if sceneID != "" {
		u += "/" + url.PathEscape(sceneID)
	}
	return u
}

func (c *HTTPClient) do(ctx context.Context, method, target string, body []byte, header http.Header) (*http.Response, error) {
	var rd io.Reader
	if body != nil {
		rd = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, target, rd)
	if err != nil {
		return nil, err
	}
	for k, v := range header {
		req.Header[k] = v
	}
	req.Header.Set(common.RequestIDHeader, uuid.NewString())

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	return resp, nil
}

// errorFromResponse turns a non-2xx reply into one of the package errors.
func errorFromResponse(resp *http.Response) error {
	var body struct {
		Message string `json:"message"`
	}
	_ = json.NewDecoder(io.LimitReader(resp.Body, 64<<10)).Decode(&body)
	if body.Message == "" {
		body.Message = resp.Status
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return ErrNotFound
	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		return fmt.Errorf("%w: %s", ErrRejected, body.Message)
	default:
		return fmt.Errorf("%w: %s", ErrServer, body.Message)
	}
}

func (c *HTTPClient) Ping(ctx context.Context) error {
	resp, err := c.do(ctx, http.MethodGet, c.baseURL+"/healthz", nil, nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return errorFromResponse(resp)
	}
	return nil
}

func (c *HTTPClient) SaveScene(ctx context.Context, sceneID, name string, blob []byte, keyID string) error {
	header := http.Header{}
	header.Set("Content-Type", "application/octet-stream")
	header.Set(common.EncryptionKeyHeader, keyID)
	if name != "" {
		header.Set(common.SceneNameHeader, url.PathEscape(name))
	}

	resp, err := c.do(ctx, http.MethodPut, c.workspaceURL(sceneID), blob, header)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return errorFromResponse(resp)
	}

	c.cache.Remove(sceneID)
	return nil
}

func (c *HTTPClient) ListScenes(ctx context.Context) ([]models.SceneInfo, error) {
	resp, err := c.do(ctx, http.MethodGet, c.workspaceURL(""), nil, nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errorFromResponse(resp)
	}

	var scenes []models.SceneInfo
	if err := json.NewDecoder(resp.Body).Decode(&scenes); err != nil {
		return nil, fmt.Errorf("decode scene list: %w", err)
	}
	return scenes, nil
}

func (c *HTTPClient) GetScene(ctx context.Context, sceneID string) ([]byte, error) {
	cached, hasCached := c.cache.Get(sceneID)

	header := http.Header{}
	if hasCached {
		header.Set("If-None-Match", cached.etag)
	}

	resp, err := c.do(ctx, http.MethodGet, c.workspaceURL(sceneID), nil, header)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusNotModified:
		if hasCached {
			return bytes.Clone(cached.data), nil
		}
		return nil, fmt.Errorf("%w: unexpected 304", ErrServer)
	case http.StatusOK:
	default:
		if resp.StatusCode == http.StatusNotFound {
			c.cache.Remove(sceneID)
		}
		return nil, errorFromResponse(resp)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}

	if etag := resp.Header.Get("ETag"); etag != "" {
		c.cache.Add(sceneID, cachedScene{etag: etag, data: bytes.Clone(data)})
	}
	return data, nil
}

func (c *HTTPClient) DeleteScene(ctx context.Context, sceneID string) error {
	resp, err := c.do(ctx, http.MethodDelete, c.workspaceURL(sceneID), nil, nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	c.cache.Remove(sceneID)

	if resp.StatusCode != http.StatusOK {
		return errorFromResponse(resp)
	}
	return nil
}

func (c *HTTPClient) Close() error {
	c.http.CloseIdleConnections()
	return nil
}
