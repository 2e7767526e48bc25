package bridge

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/arko-chat/webuicall/internal/envelope"
)

// Call JSON-encodes input, sends it to fn as a single string argument and
// decodes the enveloped response. An Err envelope is returned as
// *envelope.RemoteError; transport errors from b are returned as-is.
func Call[T any](ctx context.Context, b Bridge, fn string, input any) (T, error) {
	var zero T

	payload, err := json.Marshal(input)
	if err != nil {
		return zero, fmt.Errorf("encode %s input: %w", fn, err)
	}

	resp, err := b.Call(ctx, fn, string(payload))
	if err != nil {
		return zero, err
	}

	res, err := envelope.Decode([]byte(resp))
	if err != nil {
		return zero, fmt.Errorf("%s: %w", fn, err)
	}
	return envelope.Unwrap[T](res)
}

// CallReady is Call preceded by a wait on the gate.
func CallReady[T any](ctx context.Context, g *Gate, fn string, input any) (T, error) {
	b, err := g.Wait(ctx)
	if err != nil {
		var zero T
		return zero, err
	}
	return Call[T](ctx, b, fn, input)
}

// CallString passes args positionally and returns the bare response, for
// host functions that do not use envelopes.
func CallString(ctx context.Context, b Bridge, fn string, args ...any) (string, error) {
	if err := ValidateArgs(args); err != nil {
		return "", err
	}
	return b.Call(ctx, fn, args...)
}
