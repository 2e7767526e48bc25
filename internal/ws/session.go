package ws

import (
	"context"
	"encoding/json"
	"log/slog"
)

// Serve runs a host-side session on c: it announces readiness, then
// answers call frames until the connection closes. Calls run
// concurrently; replies are written in completion order.
func Serve(ctx context.Context, c *BaseClient, d Dispatcher, logger *slog.Logger) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	go c.WritePump()
	if err := c.EnqueueContext(ctx, ReadyFrame(d.Names())); err != nil {
		c.Close()
		return
	}

	c.ReadPump(func(raw []byte) {
		var f Frame
		if err := json.Unmarshal(raw, &f); err != nil {
			logger.Debug("ws ignoring malformed frame", "err", err)
			return
		}
		if f.Kind != KindCall || f.ID == 0 {
			return
		}

		go func() {
			resp, err := d.Dispatch(ctx, f.Fn, f.Args)
			if sendErr := c.EnqueueContext(ctx, ReplyFrame(f.ID, resp, err)); sendErr != nil {
				logger.Debug("ws reply not sent", "fn", f.Fn, "id", f.ID, "err", sendErr)
			}
		}()
	})
}
