package calc

import (
	"context"
	"log/slog"

	"github.com/arko-chat/webuicall/internal/bridge"
)

// App mounts a Calculator once the bridge is available.
type App struct {
	opts    Options
	mounter *bridge.Mounter
	calc    *Calculator
}

func NewApp(opts Options) *App {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &App{opts: opts, mounter: bridge.NewMounter()}
}

// Run waits for g and mounts the calculator. Calling Run again, from any
// goroutine, never mounts a second one.
func (a *App) Run(ctx context.Context, g *bridge.Gate) (*Calculator, error) {
	_, err := a.mounter.Mount(ctx, g, func(b bridge.Bridge) error {
		c, err := New(bridge.Coalesce(b), a.opts)
		if err != nil {
			return err
		}
		a.calc = c
		a.opts.Logger.Debug("calculator mounted")
		return nil
	})
	if err != nil {
		return nil, err
	}
	return a.calc, nil
}

func (a *App) Mounted() bool {
	return a.mounter.Mounted()
}
