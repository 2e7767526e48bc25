package bridge

import (
	"context"
	"errors"
	"fmt"
)

// Bridge is implemented by whatever carries calls to the host: the
// websocket client, a webview binding, or a stub in tests.
//
// Rules for argument values:
//   - only strings, booleans, numbers and []byte may be passed
//   - structured input is JSON-encoded by the caller into a single string
//   - the host answers with one string; its meaning is up to the function
type Bridge interface {
	// Call invokes the host function fn and returns its string response.
	Call(ctx context.Context, fn string, args ...any) (string, error)
}

// Func adapts an ordinary function to the Bridge interface.
type Func func(ctx context.Context, fn string, args ...any) (string, error)

func (f Func) Call(ctx context.Context, fn string, args ...any) (string, error) {
	return f(ctx, fn, args...)
}

var ErrUnsupportedArg = errors.New("bridge: unsupported argument type")

// ValidateArgs reports the first argument the host cannot receive.
func ValidateArgs(args []any) error {
	for i, a := range args {
		switch a.(type) {
		case string, bool, []byte,
			int, int8, int16, int32, int64,
			uint, uint8, uint16, uint32, uint64,
			float32, float64:
		default:
			return fmt.Errorf("%w: argument %d is %T", ErrUnsupportedArg, i, a)
		}
	}
	return nil
}
