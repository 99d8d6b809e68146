// Package dashboard implements the state reconciliation core of the
// monitor client: independently-scheduled refresh streams against one
// backend, merged under the active scene into a single ViewState.
package dashboard

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/urbanii/monitor-client/internal/backend"
	"github.com/urbanii/monitor-client/internal/logger"
	"github.com/urbanii/monitor-client/internal/metrics"
)

// Poller owns the repeating refresh streams (video, events+intelligence,
// health) and the scene catalog lifecycle. Each stream ticks at a fixed
// cadence with no backpressure: a tick launches its fetch in its own
// goroutine, and completions apply in completion order. Stream failures
// degrade the view; they never stop the stream.
//
// Every view publish (scene read, view store, ShowView) happens inside
// one mu critical section, so the renderer sees views in exactly the
// order they become current and a slow completion can never render over
// a newer state. Renderers must not call back into the poller.
type Poller struct {
	cfg      Config
	client   *backend.Client
	scenes   *SceneRegistry
	renderer Renderer
	metrics  *metrics.Metrics

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu        sync.Mutex
	connected bool
	view      ViewState
	sceneGen  uint64
}

// NewPoller wires the refresh streams together. Zero config fields are
// backfilled from DefaultConfig; a nil metrics sink gets a fresh one.
func NewPoller(cfg Config, client *backend.Client, scenes *SceneRegistry, renderer Renderer, m *metrics.Metrics) *Poller {
	if cfg.VideoInterval <= 0 {
		cfg.VideoInterval = DefaultConfig().VideoInterval
	}
	if cfg.EventsInterval <= 0 {
		cfg.EventsInterval = DefaultConfig().EventsInterval
	}
	if cfg.HealthInterval <= 0 {
		cfg.HealthInterval = DefaultConfig().HealthInterval
	}
	if cfg.EventsLimit <= 0 {
		cfg.EventsLimit = DefaultConfig().EventsLimit
	}
	if m == nil {
		m = metrics.New()
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Poller{
		cfg:      cfg,
		client:   client,
		scenes:   scenes,
		renderer: renderer,
		metrics:  m,
		ctx:      ctx,
		cancel:   cancel,
		view:     BuildViewState(BatchSummary{}, "", false),
	}
}

// Start loads the scene catalog and launches the refresh streams. A failed
// catalog load is logged and retried on every healthy probe until it
// succeeds; the streams start regardless.
func (p *Poller) Start() {
	if err := p.scenes.Load(p.ctx); err != nil {
		logger.Warn("Scenes", "initial catalog load failed: %v", err)
	} else {
		p.renderer.ShowScenes(p.scenes.Scenes(), p.scenes.ActiveID())
		logger.Info("Scenes", "catalog loaded, active scene %q", p.scenes.ActiveID())
	}

	p.wg.Add(3)
	go p.videoLoop()
	go p.eventsLoop()
	go p.healthLoop()
}

// Stop cancels all streams and waits for them to drain.
func (p *Poller) Stop() {
	p.cancel()
	p.wg.Wait()
}

// View returns the most recently published view state.
func (p *Poller) View() ViewState {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.view
}

// SwitchScene adopts id optimistically through the registry, resets every
// overlay for the new scene synchronously, then refreshes the catalog.
// On failure the registry has already rolled the active id back and the
// published view is left untouched.
func (p *Poller) SwitchScene(ctx context.Context, id string) error {
	if err := p.scenes.Switch(ctx, id); err != nil {
		if errors.Is(err, backend.ErrTransport) {
			p.metrics.SwitchRollbacks.Add(1)
		}
		return err
	}
	p.metrics.SceneSwitches.Add(1)
	logger.Info("Scenes", "switched to scene %q", id)

	// Clear scene-specific overlays before the next event tick can run;
	// the backend drops its event buffer on switch, so counts reset too.
	p.mu.Lock()
	p.sceneGen++
	view := BuildViewState(BatchSummary{}, id, p.connected)
	p.view = view
	p.renderer.ShowView(view)
	p.mu.Unlock()

	if err := p.scenes.Load(ctx); err != nil {
		logger.Warn("Scenes", "catalog refresh failed: %v", err)
	} else {
		p.renderer.ShowScenes(p.scenes.Scenes(), p.scenes.ActiveID())
	}
	return nil
}

func (p *Poller) videoLoop() {
	defer p.wg.Done()

	logger.Info("Video", "starting frame polling every %s", p.cfg.VideoInterval)
	ticker := time.NewTicker(p.cfg.VideoInterval)
	defer ticker.Stop()

	for {
		select {
		case <-p.ctx.Done():
			return
		case <-ticker.C:
			// Ticks may overlap a slow request; the last completion wins
			// the displayed frame.
			go p.fetchFrameOnce()
		}
	}
}

func (p *Poller) fetchFrameOnce() {
	frame, err := p.client.FetchFrame(p.ctx)
	if p.ctx.Err() != nil {
		return
	}
	if err != nil {
		p.metrics.FrameErrors.Add(1)
		if errors.Is(err, backend.ErrNoFrame) {
			logger.Debug("Video", "no frame published yet")
		} else {
			logger.Warn("Video", "frame fetch failed: %v", err)
		}
		p.setConnected(false)
		p.renderer.ShowVideoError()
		return
	}

	p.metrics.FramesFetched.Add(1)
	p.setConnected(true)
	p.renderer.ShowFrame(frame)
}

func (p *Poller) eventsLoop() {
	defer p.wg.Done()

	logger.Info("Events", "starting event polling every %s (limit %d)", p.cfg.EventsInterval, p.cfg.EventsLimit)
	ticker := time.NewTicker(p.cfg.EventsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-p.ctx.Done():
			return
		case <-ticker.C:
			go p.pollEventsOnce()
		}
	}
}

// pollEventsOnce runs one event tick: fetch, aggregate, reconcile against
// the scene that is active when the response ARRIVES (not when the request
// was issued), then publish the rebuilt view atomically.
func (p *Poller) pollEventsOnce() {
	p.mu.Lock()
	issuedGen := p.sceneGen
	p.mu.Unlock()

	start := time.Now()
	events, err := p.client.FetchEvents(p.ctx, p.cfg.EventsLimit)
	if p.ctx.Err() != nil {
		return
	}
	if err != nil {
		p.metrics.EventErrors.Add(1)
		logger.Warn("Events", "poll failed: %v", err)
		p.publishDegraded()
		return
	}

	p.metrics.EventBatches.Add(1)
	p.metrics.LastBatchSize.Store(uint64(len(events)))
	p.metrics.UpdateEventLatency(start)

	sum := Aggregate(events)

	// The scene must be read in the same critical section that applies
	// the view: a switch landing between a read outside the lock and the
	// store would publish overlays for the scene it just left.
	p.mu.Lock()
	sceneID := p.scenes.ActiveID()
	if p.sceneGen != issuedGen {
		// Batch was requested under a previous scene. It still applies,
		// reconciled against the current scene, but gets counted.
		p.metrics.StaleBatches.Add(1)
		logger.Debug("Events", "batch crossed a scene switch, reconciling against %q", sceneID)
	}
	view := BuildViewState(sum, sceneID, p.connected)
	p.view = view
	p.renderer.ShowView(view)
	p.mu.Unlock()
}

// publishDegraded republishes the last view with the connection flag down.
// Counts and overlays stay as-is until a batch supersedes them.
func (p *Poller) publishDegraded() {
	p.mu.Lock()
	p.connected = false
	view := p.view
	view.Connected = false
	p.view = view
	p.renderer.ShowView(view)
	p.mu.Unlock()
}

func (p *Poller) healthLoop() {
	defer p.wg.Done()

	logger.Info("Health", "starting health probing every %s", p.cfg.HealthInterval)
	ticker := time.NewTicker(p.cfg.HealthInterval)
	defer ticker.Stop()

	for {
		select {
		case <-p.ctx.Done():
			return
		case <-ticker.C:
			go p.probeHealthOnce()
		}
	}
}

func (p *Poller) probeHealthOnce() {
	report, err := p.client.Health(p.ctx)
	if p.ctx.Err() != nil {
		return
	}

	p.metrics.HealthChecks.Add(1)
	if err != nil {
		p.metrics.HealthFailures.Add(1)
		logger.Warn("Health", "probe failed: %v", err)
		p.renderer.ShowHealth(false)
		return
	}

	logger.Debug("Health", "backend ok (scene=%s events=%d video=%v)", report.ActiveScene, report.Events, report.HasVideo)
	p.renderer.ShowHealth(true)

	// A catalog that never loaded leaves switching and overlays dead, so
	// keep retrying while the backend is demonstrably up.
	if !p.scenes.Loaded() {
		if err := p.scenes.Load(p.ctx); err != nil {
			logger.Warn("Scenes", "catalog load retry failed: %v", err)
		} else {
			p.renderer.ShowScenes(p.scenes.Scenes(), p.scenes.ActiveID())
			logger.Info("Scenes", "catalog loaded, active scene %q", p.scenes.ActiveID())
		}
	}
}

func (p *Poller) setConnected(connected bool) {
	p.mu.Lock()
	p.connected = connected
	p.mu.Unlock()
}
