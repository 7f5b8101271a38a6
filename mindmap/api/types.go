// Package api holds the JSON request and response bodies of the mind map
// HTTP interface, shared by the daemon and the client.
package api

// POST /maps
type CreateMapInput struct {
	ID string `json:"id"`
}

// POST /maps/:id/leafs
type AddLeafInput struct {
	Path string `json:"path"`
	Text string `json:"text"`
}

// GET /maps/:mapId/leafs/:leafId
type LeafOutput struct {
	// relative to the map root
	Path string  `json:"path"`
	Text *string `json:"text"`
}

type GenericError struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

type GenericStatus struct {
	Daemon  string `json:"daemon"`
	Status  string `json:"status"`
	Message string `json:"msg,omitempty"`
}

const (
	ErrorMapNotFound    = "MapNotFound"
	ErrorLeafNotFound   = "LeafNotFound"
	ErrorBadRequest     = "BadRequest"
	ErrorPathTooDeep    = "PathTooDeep"
	ErrorInternalServer = "InternalServerError"

	MessageMapNotFound  = "Mind map not found"
	MessageLeafNotFound = "Leaf not found"
)
