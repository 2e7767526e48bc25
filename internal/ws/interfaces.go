package ws

import (
	"context"
	"encoding/json"
)

type WSClient interface {
	EnqueueContext(ctx context.Context, data []byte) error
	WritePump()
	Close()
}

// Dispatcher runs host functions on behalf of a connected UI.
type Dispatcher interface {
	Dispatch(ctx context.Context, fn string, args []json.RawMessage) (string, error)
	Names() []string
}
