// Package render provides a console Renderer for running the monitor
// client without a browser frontend. It projects finished view state into
// log lines and keeps no derived state of its own.
package render

import (
	"fmt"
	"sort"
	"strings"

	"github.com/urbanii/monitor-client/internal/dashboard"
	"github.com/urbanii/monitor-client/internal/logger"
	"github.com/urbanii/monitor-client/pkg/types"
)

// Console logs every projection through the global logger.
type Console struct{}

// NewConsole returns a console renderer.
func NewConsole() *Console {
	return &Console{}
}

// ShowView logs a one-line summary of the full view state.
func (c *Console) ShowView(view dashboard.ViewState) {
	parts := []string{
		fmt.Sprintf("detections=%d", view.TotalDetections),
		fmt.Sprintf("connected=%v", view.Connected),
	}
	if len(view.ClassCounts) > 0 {
		parts = append(parts, "classes="+formatClassCounts(view.ClassCounts))
	}
	if view.Crowd != nil {
		parts = append(parts, fmt.Sprintf("crowd=%s(%d%%) %s", view.Crowd.Label, view.Crowd.FillPercent, view.Crowd.Trend))
	}
	if view.Traffic != nil {
		parts = append(parts, fmt.Sprintf("traffic=%s(%d%%) %s", view.Traffic.Label, view.Traffic.FillPercent, view.Traffic.Trend))
	}
	if view.Loitering != nil {
		alert := fmt.Sprintf("loitering=%d subject(s)", view.Loitering.SubjectCount)
		if view.Loitering.DurationSeconds != nil {
			alert += fmt.Sprintf(" for %.0fs", *view.Loitering.DurationSeconds)
		}
		parts = append(parts, alert)
	}
	if view.Industrial != nil {
		parts = append(parts, fmt.Sprintf("industrial=risk:%s alerts:%d ppe-missing:%d",
			view.Industrial.Risk, view.Industrial.AlertCount, view.Industrial.PPEMissing))
	}
	logger.Info("View", "%s", strings.Join(parts, " "))
}

// ShowFrame logs receipt of an opaque frame resource.
func (c *Console) ShowFrame(frame []byte) {
	logger.Debug("View", "frame received (%d bytes)", len(frame))
}

// ShowVideoError logs the video-unavailable state.
func (c *Console) ShowVideoError() {
	logger.Debug("View", "video unavailable")
}

// ShowHealth logs the backend health indicator.
func (c *Console) ShowHealth(healthy bool) {
	if healthy {
		logger.Debug("View", "backend healthy")
	} else {
		logger.Warn("View", "backend unhealthy")
	}
}

// ShowScenes logs the scene selector contents.
func (c *Console) ShowScenes(scenes map[string]types.Scene, active string) {
	ids := make([]string, 0, len(scenes))
	for id := range scenes {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	labeled := make([]string, 0, len(ids))
	for _, id := range ids {
		entry := fmt.Sprintf("%s (%s)", id, scenes[id].Label)
		if id == active {
			entry = "*" + entry
		}
		labeled = append(labeled, entry)
	}
	logger.Info("View", "scenes: %s", strings.Join(labeled, ", "))
}

func formatClassCounts(counts map[string]int) string {
	names := make([]string, 0, len(counts))
	for name := range counts {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, fmt.Sprintf("%s:%d", name, counts[name]))
	}
	return strings.Join(parts, ",")
}
