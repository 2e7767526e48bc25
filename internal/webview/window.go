//go:build cgo

package webview

import (
	"context"
	"encoding/json"

	"github.com/arko-chat/webuicall/internal/ws"
	webview "github.com/webview/webview_go"
)

// BindingName is the function the JS shim looks for before falling back
// to the websocket.
const BindingName = "__webuiCall"

// Open shows url in a native window and blocks until it is closed. Calls
// made through window.webui go straight to d without the websocket.
func Open(ctx context.Context, opts Options, d ws.Dispatcher) error {
	w := webview.New(opts.Debug)
	defer w.Destroy()

	w.SetTitle(opts.Title)
	w.SetSize(opts.Width, opts.Height, webview.HintNone)

	err := w.Bind(BindingName, func(fn string, args []json.RawMessage) (string, error) {
		return d.Dispatch(ctx, fn, args)
	})
	if err != nil {
		return err
	}

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			w.Dispatch(w.Terminate)
		case <-done:
		}
	}()

	w.Navigate(opts.URL)
	w.Run()
	return nil
}
