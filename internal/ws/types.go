package ws

const (
	// server - client
	MsgReady = "ready"
)

// readyMessage is queued first on every connection so clients know the feed is live.
var readyMessage = []byte(`{"type":"` + MsgReady + `"}`)
