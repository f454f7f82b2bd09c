package websocket

// ─── Actions (Client → Server) ──────────────────────────────────────

type Action string

const (
	ActionPing Action = "ping"
)

// RequestEnvelope is used to peek at the action before full parsing.
type RequestEnvelope struct {
	Action Action `json:"action"`
}

// ─── Events (Server → Client) ───────────────────────────────────────

type Event string

const (
	EventError   Event = "error"
	EventChanged Event = "calendar_changed"
	EventPong    Event = "pong"
)

// ChangedResponse tells a connected view that another view saved the
// calendar; the view re-reads the store on receipt.
type ChangedResponse struct {
	Event Event  `json:"event"`
	Key   string `json:"key"`
}

type ErrorResponse struct {
	Event Event  `json:"event"`
	Error string `json:"error"`
}

type PongResponse struct {
	Event Event `json:"event"`
}
