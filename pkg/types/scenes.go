package types

// Scene is one named operating context from the backend catalog.
// ID is filled from the catalog map key, not the wire payload.
type Scene struct {
	ID    string `json:"-"`
	Label string `json:"label"`
}

// SceneCatalog mirrors the GET /scenes response.
type SceneCatalog struct {
	Scenes map[string]Scene `json:"scenes"`
	Active string           `json:"active"`
}
