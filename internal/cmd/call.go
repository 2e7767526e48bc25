package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/arko-chat/webuicall/internal/bridge"
	"github.com/arko-chat/webuicall/internal/config"
	"github.com/arko-chat/webuicall/internal/ws"
	bridgews "github.com/arko-chat/webuicall/internal/ws/bridge"
	"github.com/spf13/cobra"
)

var (
	hostURL     string
	callJSON    string
	callTimeout time.Duration
)

var callCmd = &cobra.Command{
	Use:   "call FUNCTION [ARG...]",
	Short: "Call a host function",
	Long: `Call invokes a function on a running host.

With --json the input is sent as one JSON-encoded argument and the
response is decoded as an {"t","c"} envelope; the payload is printed, and
an Err envelope fails the command with its message:
  webuicall call add2 --json '{"x":2,"y":3}'

Without --json the arguments are passed as strings and the bare
response is printed:
  webuicall call add 2 3`,
	Args: cobra.MinimumNArgs(1),
	RunE: runCall,
}

func init() {
	addHostFlags(callCmd)
	callCmd.Flags().StringVar(&callJSON, "json", "", "JSON input for an enveloped function")
	rootCmd.AddCommand(callCmd)
}

func addHostFlags(c *cobra.Command) {
	c.Flags().StringVar(&hostURL, "url", "http://127.0.0.1:8080", "base URL of the running host")
	c.Flags().DurationVar(&callTimeout, "timeout", 0, "give up after this long (default call_timeout_ms from the config)")
}

// hostContext loads the client settings and bounds the command by
// --timeout, or by the configured call timeout when the flag is unset.
func hostContext(cmd *cobra.Command) (context.Context, context.CancelFunc, *config.Config, error) {
	cfg, err := config.LoadClient(configPath)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("loading config: %w", err)
	}
	timeout := callTimeout
	if timeout <= 0 {
		timeout = cfg.CallTimeout()
	}
	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	return ctx, cancel, cfg, nil
}

// connectGate returns a gate that opens once the host at --url has
// announced itself. Until then it retries every poll interval, so the
// host may start after the command does.
func connectGate(ctx context.Context, cfg *config.Config) (*bridge.Gate, func()) {
	log := clientLogger()

	var (
		mu     sync.Mutex
		conn   *bridgews.Client
		closed bool
	)

	g := bridge.NewGate()
	g.ProvideFrom(ctx, cfg.PollInterval(), func() (bridge.Bridge, error) {
		c, err := bridgews.Connect(ctx, hostURL, bridgews.Options{Logger: log})
		if err != nil {
			log.Debug("host not reachable yet", "url", hostURL, "err", err)
			return nil, err
		}

		select {
		case <-c.Ready():
		case <-c.Done():
			return nil, ws.ErrClosed
		case <-ctx.Done():
			c.Close()
			return nil, ctx.Err()
		}

		mu.Lock()
		defer mu.Unlock()
		if closed {
			c.Close()
			return nil, ws.ErrClosed
		}
		conn = c
		return c, nil
	})

	return g, func() {
		mu.Lock()
		defer mu.Unlock()
		closed = true
		if conn != nil {
			conn.Close()
		}
	}
}

func runCall(cmd *cobra.Command, args []string) error {
	ctx, cancel, cfg, err := hostContext(cmd)
	if err != nil {
		return err
	}
	defer cancel()

	g, closeFn := connectGate(ctx, cfg)
	defer closeFn()

	fn, rest := args[0], args[1:]

	if callJSON != "" {
		if len(rest) > 0 {
			return fmt.Errorf("--json and positional arguments are mutually exclusive")
		}
		var input json.RawMessage
		if err := json.Unmarshal([]byte(callJSON), &input); err != nil {
			return fmt.Errorf("parsing --json: %w", err)
		}
		out, err := bridge.CallReady[json.RawMessage](ctx, g, fn, input)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(out))
		return nil
	}

	b, err := g.Wait(ctx)
	if err != nil {
		return fmt.Errorf("waiting for host: %w", err)
	}
	callArgs := make([]any, len(rest))
	for i, a := range rest {
		callArgs[i] = a
	}
	out, err := bridge.CallString(ctx, b, fn, callArgs...)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), out)
	return nil
}
