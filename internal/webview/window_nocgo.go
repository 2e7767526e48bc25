//go:build !cgo

package webview

import (
	"context"

	"github.com/arko-chat/webuicall/internal/ws"
)

const BindingName = "__webuiCall"

func Open(ctx context.Context, opts Options, d ws.Dispatcher) error {
	return ErrUnavailable
}
