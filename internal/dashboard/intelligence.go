package dashboard

import "github.com/urbanii/monitor-client/pkg/types"

// Scene ids with scene-specific overlay policy. Any other id shows no
// overlays at all.
const (
	SceneShibuya    = "shibuya"
	SceneHighway    = "highway"
	SceneIndustrial = "industrial"
)

// Placeholder text for meters with no applicable data.
const (
	neutralLabel = "--"
	neutralTrend = "--"
)

// Meter is the bucketed display state of a density meter.
type Meter struct {
	FillPercent int
	Label       string
	Trend       string
}

// NeutralMeter is the zeroed placeholder state a meter resets to.
func NeutralMeter() Meter {
	return Meter{FillPercent: 0, Label: neutralLabel, Trend: neutralTrend}
}

// LoiterAlert is the display state of an active loitering alert.
type LoiterAlert struct {
	SubjectCount    int
	DurationSeconds *float64
}

// IndustrialAlert is the display state of an industrial safety alert.
type IndustrialAlert struct {
	Risk       string
	Message    string
	PPEMissing int
	AlertCount int
}

// Overlays holds the scene-conditional display state. A nil field means
// that overlay is hidden for the active scene.
type Overlays struct {
	Crowd      *Meter
	Traffic    *Meter
	Loitering  *LoiterAlert
	Industrial *IndustrialAlert
}

// ReconcileOverlays maps the batch intelligence onto the overlays relevant
// to the active scene. At most one of crowd/traffic is ever visible, and
// the industrial scene suppresses both. Recomputing with an empty summary
// yields every overlay reset, which makes scene-switch resets idempotent.
func ReconcileOverlays(sum BatchSummary, sceneID string) Overlays {
	var ov Overlays

	switch sceneID {
	case SceneShibuya:
		meter := densityMeter("crowd", sum.Crowd)
		ov.Crowd = &meter
		if sum.Loitering != nil && sum.Loitering.Active {
			ov.Loitering = &LoiterAlert{
				SubjectCount:    sum.Loitering.SubjectCount,
				DurationSeconds: sum.Loitering.DurationSeconds,
			}
		}
	case SceneHighway:
		meter := densityMeter("traffic", sum.Traffic)
		ov.Traffic = &meter
	case SceneIndustrial:
		if industrialMeaningful(sum.Industrial) {
			ov.Industrial = &IndustrialAlert{
				Risk:       sum.Industrial.Risk,
				Message:    sum.Industrial.Message,
				PPEMissing: sum.Industrial.PPEMissingCount,
				AlertCount: len(sum.Industrial.Alerts),
			}
		}
	}

	return ov
}

// densityMeter buckets a density report into fill/label/trend. Unknown
// density values, like an absent report, reset the meter entirely.
func densityMeter(kind string, report *types.DensityReport) Meter {
	if report == nil {
		return NeutralMeter()
	}

	meter := Meter{}
	switch report.Density {
	case "low":
		meter.FillPercent, meter.Label = 33, "LOW"
	case "medium":
		meter.FillPercent, meter.Label = 66, "MEDIUM"
	case "high":
		meter.FillPercent, meter.Label = 100, "HIGH"
	default:
		return NeutralMeter()
	}

	switch report.Trend {
	case "increasing":
		meter.Trend = "↑ " + kind + " increasing"
	case "decreasing":
		meter.Trend = "↓ " + kind + " decreasing"
	default:
		meter.Trend = "→ " + kind + " stable"
	}
	return meter
}

// industrialMeaningful reports whether the payload carries anything worth
// alerting on: elevated risk, outstanding alerts, or missing PPE.
func industrialMeaningful(report *types.IndustrialReport) bool {
	if report == nil {
		return false
	}
	return report.Risk == "elevated" || len(report.Alerts) > 0 || report.PPEMissingCount > 0
}
