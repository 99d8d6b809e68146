package dashboard

// ViewState is the single coherent on-screen state derived from one event
// tick. It is rebuilt from scratch every tick rather than mutated in place,
// so the renderer never observes partial updates or accumulated drift.
type ViewState struct {
	TotalDetections int
	ClassCounts     map[string]int
	Connected       bool
	Crowd           *Meter
	Traffic         *Meter
	Loitering       *LoiterAlert
	Industrial      *IndustrialAlert
}

// BuildViewState assembles a complete view from a batch summary, the scene
// that is active at assembly time, and the current connection flag.
func BuildViewState(sum BatchSummary, sceneID string, connected bool) ViewState {
	counts := sum.ClassCounts
	if counts == nil {
		counts = make(map[string]int)
	}

	ov := ReconcileOverlays(sum, sceneID)
	return ViewState{
		TotalDetections: sum.TotalDetections,
		ClassCounts:     counts,
		Connected:       connected,
		Crowd:           ov.Crowd,
		Traffic:         ov.Traffic,
		Loitering:       ov.Loitering,
		Industrial:      ov.Industrial,
	}
}
