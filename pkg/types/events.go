package types

import "encoding/json"

// Detection mirrors the JSON shape emitted by the inference node.
// Only ClassName matters to aggregation; the rest rides along untouched.
type Detection struct {
	ClassName  string    `json:"class_name"`
	Confidence float64   `json:"confidence,omitempty"`
	BBox       []float64 `json:"bbox,omitempty"`
}

// Event is one entry of a /events poll batch. Events are immutable once
// received; the next batch supersedes them wholesale.
type Event struct {
	Timestamp     float64             `json:"timestamp"`
	Frame         int                 `json:"frame,omitempty"`
	NumDetections int                 `json:"num_detections"`
	Detections    []Detection         `json:"detections"`
	Intelligence  *IntelligenceBundle `json:"intelligence,omitempty"`
}

// IntelligenceBundle groups the per-kind analytics attached to an event.
// Each kind is independently optional; a nil pointer means the backend
// sent nothing for that kind.
type IntelligenceBundle struct {
	Crowd      *DensityReport    `json:"crowd,omitempty"`
	Loitering  *LoiteringReport  `json:"loitering,omitempty"`
	Traffic    *DensityReport    `json:"traffic,omitempty"`
	Industrial *IndustrialReport `json:"industrial,omitempty"`
}

// DensityReport is the shared payload for the crowd and traffic kinds.
type DensityReport struct {
	Density string `json:"density"`
	Trend   string `json:"trend"`
}

// LoiteringReport describes active loitering subjects.
type LoiteringReport struct {
	Active          bool     `json:"active"`
	SubjectCount    int      `json:"subject_count"`
	DurationSeconds *float64 `json:"duration_seconds,omitempty"`
}

// UnmarshalJSON applies the subject_count default of 1 when the backend
// omits the field.
func (l *LoiteringReport) UnmarshalJSON(data []byte) error {
	type alias LoiteringReport
	aux := alias{SubjectCount: 1}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	*l = LoiteringReport(aux)
	return nil
}

// IndustrialReport carries industrial safety signals. Alerts stay opaque;
// the dashboard only cares whether any exist.
type IndustrialReport struct {
	Risk            string            `json:"risk"`
	PPEMissingCount int               `json:"ppe_missing_count,omitempty"`
	Alerts          []json.RawMessage `json:"alerts,omitempty"`
	Message         string            `json:"message,omitempty"`
}
