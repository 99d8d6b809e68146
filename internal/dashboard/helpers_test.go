package dashboard

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/urbanii/monitor-client/pkg/types"
)

// fakeBackend is a stateful in-process stand-in for the monitoring
// backend, covering every endpoint the poller touches.
type fakeBackend struct {
	mu           sync.Mutex
	scenes       map[string]string
	active       string
	events       []types.Event
	eventsStatus int
	scenesStatus int
	switchStatus int
	switchCalls  int

	// When blockEvents is non-nil the /events handler waits on it; each
	// entry into the handler is announced on eventsEntered.
	blockEvents   chan struct{}
	eventsEntered chan struct{}

	srv *httptest.Server
}

func newFakeBackend(t *testing.T, scenes map[string]string, active string) *fakeBackend {
	t.Helper()

	b := &fakeBackend{
		scenes: scenes,
		active: active,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/scenes", func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		defer b.mu.Unlock()
		if b.scenesStatus != 0 {
			w.WriteHeader(b.scenesStatus)
			return
		}
		catalog := map[string]any{"active": b.active}
		entries := map[string]map[string]string{}
		for id, label := range b.scenes {
			entries[id] = map[string]string{"label": label}
		}
		catalog["scenes"] = entries
		_ = json.NewEncoder(w).Encode(catalog)
	})
	mux.HandleFunc("/scenes/switch", func(w http.ResponseWriter, r *http.Request) {
		var payload struct {
			Scene string `json:"scene"`
		}
		_ = json.NewDecoder(r.Body).Decode(&payload)

		b.mu.Lock()
		defer b.mu.Unlock()
		b.switchCalls++
		if b.switchStatus != 0 {
			w.WriteHeader(b.switchStatus)
			return
		}
		b.active = payload.Scene
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	})
	mux.HandleFunc("/events", func(w http.ResponseWriter, r *http.Request) {
		if b.eventsEntered != nil {
			select {
			case b.eventsEntered <- struct{}{}:
			default:
			}
		}
		if b.blockEvents != nil {
			<-b.blockEvents
		}

		b.mu.Lock()
		events := b.events
		status := b.eventsStatus
		b.mu.Unlock()
		if status != 0 {
			w.WriteHeader(status)
			return
		}
		_ = json.NewEncoder(w).Encode(events)
	})
	mux.HandleFunc("/video", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("not-really-a-jpeg"))
	})
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		active := b.active
		b.mu.Unlock()
		_ = json.NewEncoder(w).Encode(map[string]any{"status": "ok", "active_scene": active})
	})

	b.srv = httptest.NewServer(mux)
	t.Cleanup(b.srv.Close)
	return b
}

func (b *fakeBackend) setEvents(events []types.Event) {
	b.mu.Lock()
	b.events = events
	b.mu.Unlock()
}

func (b *fakeBackend) activeScene() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.active
}

func (b *fakeBackend) switchCallCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.switchCalls
}

func newTestServer(t *testing.T, handler http.Handler) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv
}

// fakeRenderer records everything the poller projects.
type fakeRenderer struct {
	mu          sync.Mutex
	views       []ViewState
	frames      int
	videoErrors int
	health      []bool
	sceneShows  int
}

func (f *fakeRenderer) ShowView(view ViewState) {
	f.mu.Lock()
	f.views = append(f.views, view)
	f.mu.Unlock()
}

func (f *fakeRenderer) ShowFrame(frame []byte) {
	f.mu.Lock()
	f.frames++
	f.mu.Unlock()
}

func (f *fakeRenderer) ShowVideoError() {
	f.mu.Lock()
	f.videoErrors++
	f.mu.Unlock()
}

func (f *fakeRenderer) ShowHealth(healthy bool) {
	f.mu.Lock()
	f.health = append(f.health, healthy)
	f.mu.Unlock()
}

func (f *fakeRenderer) ShowScenes(scenes map[string]types.Scene, active string) {
	f.mu.Lock()
	f.sceneShows++
	f.mu.Unlock()
}

func (f *fakeRenderer) lastView() (ViewState, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.views) == 0 {
		return ViewState{}, false
	}
	return f.views[len(f.views)-1], true
}

func (f *fakeRenderer) counts() (views, frames, videoErrors, healthReports int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.views), f.frames, f.videoErrors, len(f.health)
}
