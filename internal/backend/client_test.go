package backend

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newServer(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, time.Second)
}

func TestFetchEventsPropagatesLimit(t *testing.T) {
	var gotLimit string
	client := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotLimit = r.URL.Query().Get("limit")
		_, _ = w.Write([]byte(`[]`))
	})

	events, err := client.FetchEvents(context.Background(), 7)

	require.NoError(t, err)
	assert.Empty(t, events)
	assert.Equal(t, "7", gotLimit)
}

func TestFetchEventsDecodesBatch(t *testing.T) {
	client := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[
			{"timestamp": 1700000000.5, "num_detections": 2,
			 "detections": [{"class_name": "person", "confidence": 0.9}],
			 "intelligence": {"crowd": {"density": "medium", "trend": "stable"}}}
		]`))
	})

	events, err := client.FetchEvents(context.Background(), 20)

	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, 2, events[0].NumDetections)
	assert.Equal(t, "person", events[0].Detections[0].ClassName)
	require.NotNil(t, events[0].Intelligence)
	require.NotNil(t, events[0].Intelligence.Crowd)
	assert.Equal(t, "medium", events[0].Intelligence.Crowd.Density)
	assert.Nil(t, events[0].Intelligence.Traffic)
}

func TestFetchEventsMalformedBody(t *testing.T) {
	client := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"not": "an array"}`))
	})

	_, err := client.FetchEvents(context.Background(), 20)

	require.ErrorIs(t, err, ErrDecode)
}

func TestFetchEventsServerError(t *testing.T) {
	client := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	_, err := client.FetchEvents(context.Background(), 20)

	require.ErrorIs(t, err, ErrTransport)
}

func TestFetchEventsUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	client := NewClient(srv.URL, time.Second)
	srv.Close()

	_, err := client.FetchEvents(context.Background(), 20)

	require.ErrorIs(t, err, ErrTransport)
}

func TestFetchFrameCacheBusting(t *testing.T) {
	nonces := make([]string, 0, 2)
	client := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		nonces = append(nonces, r.URL.Query().Get("cache"))
		_, _ = w.Write([]byte{0xff, 0xd8, 0xff})
	})

	for i := 0; i < 2; i++ {
		frame, err := client.FetchFrame(context.Background())
		require.NoError(t, err)
		assert.NotEmpty(t, frame)
	}

	require.Len(t, nonces, 2)
	assert.NotEmpty(t, nonces[0])
	assert.NotEqual(t, nonces[0], nonces[1])
}

func TestFetchFrameNoContent(t *testing.T) {
	client := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	_, err := client.FetchFrame(context.Background())

	require.ErrorIs(t, err, ErrNoFrame)
	assert.NotErrorIs(t, err, ErrTransport)
}

func TestFetchScenesFillsIDs(t *testing.T) {
	client := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"active": "highway",
			"scenes": {"highway": {"label": "Highway Traffic"}, "shibuya": {"label": "Shibuya Crossing"}}}`))
	})

	catalog, err := client.FetchScenes(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "highway", catalog.Active)
	assert.Equal(t, "highway", catalog.Scenes["highway"].ID)
	assert.Equal(t, "Shibuya Crossing", catalog.Scenes["shibuya"].Label)
}

func TestSwitchScenePostsID(t *testing.T) {
	var body map[string]string
	client := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/scenes/switch", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		_, _ = w.Write([]byte(`{"status": "ok"}`))
	})

	require.NoError(t, client.SwitchScene(context.Background(), "industrial"))
	assert.Equal(t, map[string]string{"scene": "industrial"}, body)
}

func TestSwitchSceneRejected(t *testing.T) {
	client := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	})

	err := client.SwitchScene(context.Background(), "nowhere")

	require.ErrorIs(t, err, ErrTransport)
}

func TestHealth(t *testing.T) {
	client := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status": "ok", "active_scene": "shibuya", "events": 12, "has_video": true}`))
	})

	report, err := client.Health(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "ok", report.Status)
	assert.Equal(t, "shibuya", report.ActiveScene)
	assert.Equal(t, 12, report.Events)
	assert.True(t, report.HasVideo)
}

func TestHealthDown(t *testing.T) {
	client := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	_, err := client.Health(context.Background())

	require.ErrorIs(t, err, ErrTransport)
}
