package types

// HealthReport mirrors the GET /health response body. Only the HTTP status
// decides healthiness; these fields are informational.
type HealthReport struct {
	Status      string `json:"status"`
	ActiveScene string `json:"active_scene"`
	Events      int    `json:"events"`
	HasVideo    bool   `json:"has_video"`
}
