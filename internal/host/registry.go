package host

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/arko-chat/webuicall/internal/envelope"
	"github.com/puzpuzpuz/xsync/v4"
)

var (
	ErrUnknownFunction = errors.New("host: unknown function")
	ErrBadArguments    = errors.New("host: bad arguments")
)

// HandlerFunc answers one UI call. args holds the raw JSON of each
// positional argument.
type HandlerFunc func(ctx context.Context, args []json.RawMessage) (string, error)

type Registry struct {
	funcs  *xsync.Map[string, HandlerFunc]
	logger *slog.Logger
}

func NewRegistry(logger *slog.Logger) *Registry {
	return &Registry{
		funcs:  xsync.NewMap[string, HandlerFunc](),
		logger: logger,
	}
}

// Bind registers fn under name, replacing any earlier binding.
func (r *Registry) Bind(name string, fn HandlerFunc) {
	if _, replaced := r.funcs.LoadAndStore(name, fn); replaced {
		r.logger.Warn("rebinding host function", "fn", name)
	}
}

func (r *Registry) Unbind(name string) {
	r.funcs.Delete(name)
}

func (r *Registry) Names() []string {
	names := make([]string, 0, r.funcs.Size())
	r.funcs.Range(func(name string, _ HandlerFunc) bool {
		names = append(names, name)
		return true
	})
	slices.Sort(names)
	return names
}

func (r *Registry) Dispatch(ctx context.Context, fn string, args []json.RawMessage) (string, error) {
	h, ok := r.funcs.Load(fn)
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownFunction, fn)
	}

	resp, err := h(ctx, args)
	if err != nil {
		r.logger.Debug("host function failed", "fn", fn, "err", err)
		return "", err
	}
	return resp, nil
}

// BindEnvelope registers a function that takes one JSON-encoded string
// argument and answers with an envelope. Errors from fn, including input
// that does not decode, become Err envelopes rather than call failures.
func BindEnvelope[In, Out any](r *Registry, name string, fn func(ctx context.Context, in In) (Out, error)) {
	r.Bind(name, func(ctx context.Context, args []json.RawMessage) (string, error) {
		var res envelope.Result

		in, err := decodeInput[In](args)
		if err != nil {
			res = envelope.NewErr(err.Error())
		} else if out, err := fn(ctx, in); err != nil {
			res = envelope.NewErr(err.Error())
		} else if res, err = envelope.NewOk(out); err != nil {
			res = envelope.NewErr(err.Error())
		}

		data, err := envelope.Encode(res)
		if err != nil {
			return "", err
		}
		return string(data), nil
	})
}

func decodeInput[In any](args []json.RawMessage) (In, error) {
	var in In
	if len(args) != 1 {
		return in, fmt.Errorf("%w: expected 1 argument, got %d", ErrBadArguments, len(args))
	}

	var raw string
	if err := json.Unmarshal(args[0], &raw); err != nil {
		return in, fmt.Errorf("%w: input must be a JSON string", ErrBadArguments)
	}
	if err := json.Unmarshal([]byte(raw), &in); err != nil {
		return in, fmt.Errorf("%w: %v", ErrBadArguments, err)
	}
	return in, nil
}

// StringArg returns argument i as a string. Numbers and booleans are
// returned in their JSON text form.
func StringArg(args []json.RawMessage, i int) (string, error) {
	if i >= len(args) {
		return "", fmt.Errorf("%w: missing argument %d", ErrBadArguments, i)
	}
	var s string
	if err := json.Unmarshal(args[i], &s); err == nil {
		return s, nil
	}
	return string(args[i]), nil
}
