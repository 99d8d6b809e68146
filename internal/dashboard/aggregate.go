package dashboard

import "github.com/urbanii/monitor-client/pkg/types"

// BatchSummary is the result of folding one event batch: overall detection
// totals plus the first qualifying intelligence payload per kind.
type BatchSummary struct {
	TotalDetections int
	ClassCounts     map[string]int
	Crowd           *types.DensityReport
	Loitering       *types.LoiteringReport
	Traffic         *types.DensityReport
	Industrial      *types.IndustrialReport
}

// Aggregate folds a poll batch in a single pass, in the order received.
// Intelligence extraction is first-seen-wins: once a kind has a payload,
// later events in the same batch never overwrite it. Loitering only
// qualifies while its active flag is set. An empty batch yields zero
// totals, an empty class map, and no intelligence.
func Aggregate(events []types.Event) BatchSummary {
	sum := BatchSummary{ClassCounts: make(map[string]int)}

	for _, ev := range events {
		sum.TotalDetections += ev.NumDetections
		for _, det := range ev.Detections {
			sum.ClassCounts[det.ClassName]++
		}

		bundle := ev.Intelligence
		if bundle == nil {
			continue
		}
		if sum.Crowd == nil && bundle.Crowd != nil {
			sum.Crowd = bundle.Crowd
		}
		if sum.Loitering == nil && bundle.Loitering != nil && bundle.Loitering.Active {
			sum.Loitering = bundle.Loitering
		}
		if sum.Traffic == nil && bundle.Traffic != nil {
			sum.Traffic = bundle.Traffic
		}
		if sum.Industrial == nil && bundle.Industrial != nil {
			sum.Industrial = bundle.Industrial
		}
	}

	return sum
}
