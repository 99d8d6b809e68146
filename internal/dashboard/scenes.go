package dashboard

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/urbanii/monitor-client/internal/backend"
	"github.com/urbanii/monitor-client/pkg/types"
)

// ErrUnknownScene means a switch was requested for an id that is not in
// the last-loaded catalog. It is caught client-side, before any request.
var ErrUnknownScene = errors.New("unknown scene")

// SceneRegistry holds the scene catalog and the locally-active scene id.
// The active id is adopted optimistically on switch so overlays clear
// without waiting for the backend round trip.
type SceneRegistry struct {
	client *backend.Client

	mu     sync.Mutex
	scenes map[string]types.Scene
	active string
}

// NewSceneRegistry returns an empty registry backed by client. Load must
// succeed at least once before Switch can validate ids.
func NewSceneRegistry(client *backend.Client) *SceneRegistry {
	return &SceneRegistry{
		client: client,
		scenes: make(map[string]types.Scene),
	}
}

// Load replaces the catalog and active id with the backend's view.
func (r *SceneRegistry) Load(ctx context.Context) error {
	catalog, err := r.client.FetchScenes(ctx)
	if err != nil {
		return fmt.Errorf("load scene catalog: %w", err)
	}

	r.mu.Lock()
	r.scenes = catalog.Scenes
	r.active = catalog.Active
	r.mu.Unlock()
	return nil
}

// Switch validates id against the catalog, adopts it as the local active
// scene immediately, then asks the backend to follow. A transport failure
// rolls the local id back to its previous value. Switching to the already
// active scene is a success; the backend answers "noop".
func (r *SceneRegistry) Switch(ctx context.Context, id string) error {
	r.mu.Lock()
	if _, ok := r.scenes[id]; !ok {
		r.mu.Unlock()
		return fmt.Errorf("%w: %q", ErrUnknownScene, id)
	}
	previous := r.active
	r.active = id
	r.mu.Unlock()

	if err := r.client.SwitchScene(ctx, id); err != nil {
		r.mu.Lock()
		// A concurrent switch may have moved the id on; only undo our own.
		if r.active == id {
			r.active = previous
		}
		r.mu.Unlock()
		return fmt.Errorf("switch scene: %w", err)
	}
	return nil
}

// Loaded reports whether at least one Load has succeeded.
func (r *SceneRegistry) Loaded() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.scenes) > 0
}

// ActiveID returns the locally-active scene id.
func (r *SceneRegistry) ActiveID() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.active
}

// Scenes returns a copy of the catalog.
func (r *SceneRegistry) Scenes() map[string]types.Scene {
	r.mu.Lock()
	defer r.mu.Unlock()

	scenes := make(map[string]types.Scene, len(r.scenes))
	for id, scene := range r.scenes {
		scenes[id] = scene
	}
	return scenes
}

// Label returns the display label for id, falling back to the id itself
// when the catalog has no entry.
func (r *SceneRegistry) Label(id string) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if scene, ok := r.scenes[id]; ok && scene.Label != "" {
		return scene.Label
	}
	return id
}
