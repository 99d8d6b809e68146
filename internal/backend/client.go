// Package backend implements the HTTP/JSON client for the monitoring
// backend. It only fetches and decodes; all merging and scene policy lives
// in internal/dashboard.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/urbanii/monitor-client/pkg/types"
)

const defaultTimeout = 5 * time.Second

// Client talks to one monitoring backend.
type Client struct {
	baseURL string
	httpc   *http.Client
}

// NewClient returns a client for the backend at baseURL. A zero timeout
// falls back to the default.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpc:   &http.Client{Timeout: timeout},
	}
}

// FetchFrame retrieves the latest annotated JPEG frame. The cache query
// parameter defeats intermediary caching so every tick sees a fresh frame.
// The payload is opaque to the client and handed to the renderer as-is.
func (c *Client) FetchFrame(ctx context.Context) ([]byte, error) {
	url := fmt.Sprintf("%s/video?cache=%s", c.baseURL, uuid.NewString())
	resp, err := c.get(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("fetch frame: %w: %w", ErrTransport, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNoContent {
		return nil, fmt.Errorf("fetch frame: %w", ErrNoFrame)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("fetch frame: %w: status %d", ErrTransport, resp.StatusCode)
	}

	frame, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("fetch frame: %w: %w", ErrTransport, err)
	}
	if len(frame) == 0 {
		return nil, fmt.Errorf("fetch frame: %w", ErrNoFrame)
	}
	return frame, nil
}

// FetchEvents retrieves the most recent event batch, bounded by limit.
// The batch order is preserved exactly as the backend sent it.
func (c *Client) FetchEvents(ctx context.Context, limit int) ([]types.Event, error) {
	url := fmt.Sprintf("%s/events?limit=%d", c.baseURL, limit)
	resp, err := c.get(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("fetch events: %w: %w", ErrTransport, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("fetch events: %w: status %d", ErrTransport, resp.StatusCode)
	}

	var events []types.Event
	if err := json.NewDecoder(resp.Body).Decode(&events); err != nil {
		return nil, fmt.Errorf("fetch events: %w: %w", ErrDecode, err)
	}
	return events, nil
}

// FetchScenes retrieves the scene catalog and the backend's active scene.
func (c *Client) FetchScenes(ctx context.Context) (types.SceneCatalog, error) {
	resp, err := c.get(ctx, c.baseURL+"/scenes")
	if err != nil {
		return types.SceneCatalog{}, fmt.Errorf("fetch scenes: %w: %w", ErrTransport, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return types.SceneCatalog{}, fmt.Errorf("fetch scenes: %w: status %d", ErrTransport, resp.StatusCode)
	}

	var catalog types.SceneCatalog
	if err := json.NewDecoder(resp.Body).Decode(&catalog); err != nil {
		return types.SceneCatalog{}, fmt.Errorf("fetch scenes: %w: %w", ErrDecode, err)
	}
	for id, scene := range catalog.Scenes {
		scene.ID = id
		catalog.Scenes[id] = scene
	}
	return catalog, nil
}

// SwitchScene asks the backend to change the active scene. Any non-success
// status is a failure; the response body is otherwise ignored.
func (c *Client) SwitchScene(ctx context.Context, id string) error {
	payload, err := json.Marshal(map[string]string{"scene": id})
	if err != nil {
		return fmt.Errorf("switch scene: %w: %w", ErrDecode, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/scenes/switch", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("switch scene: %w: %w", ErrTransport, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("switch scene: %w: %w", ErrTransport, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("switch scene: %w: status %d", ErrTransport, resp.StatusCode)
	}
	return nil
}

// Health probes the backend liveness endpoint. A nil error means healthy;
// the report body is best-effort and may be zero-valued on decode trouble.
func (c *Client) Health(ctx context.Context) (types.HealthReport, error) {
	resp, err := c.get(ctx, c.baseURL+"/health")
	if err != nil {
		return types.HealthReport{}, fmt.Errorf("health check: %w: %w", ErrTransport, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return types.HealthReport{}, fmt.Errorf("health check: %w: status %d", ErrTransport, resp.StatusCode)
	}

	var report types.HealthReport
	_ = json.NewDecoder(resp.Body).Decode(&report)
	return report, nil
}

func (c *Client) get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	return c.httpc.Do(req)
}
