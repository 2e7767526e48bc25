package host

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"reflect"
	"testing"

	"github.com/arko-chat/webuicall/internal/envelope"
)

func newTestRegistry() *Registry {
	r := NewRegistry(slog.New(slog.NewTextHandler(io.Discard, nil)))
	RegisterCalculator(r)
	return r
}

func rawArgs(t *testing.T, args ...any) []json.RawMessage {
	t.Helper()
	out := make([]json.RawMessage, len(args))
	for i, a := range args {
		b, err := json.Marshal(a)
		if err != nil {
			t.Fatalf("marshal %v: %v", a, err)
		}
		out[i] = b
	}
	return out
}

func TestAdd(t *testing.T) {
	r := newTestRegistry()

	tests := []struct {
		x, y any
		want string
	}{
		{"2", "3", "5"},
		{"2.5", "0", "2.5"},
		{"-1", "1", "0"},
		{" 4 ", "4", "8"},
		{2, 3, "5"},
	}

	for _, tt := range tests {
		got, err := r.Dispatch(context.Background(), "add", rawArgs(t, tt.x, tt.y))
		if err != nil {
			t.Errorf("add(%v, %v): %v", tt.x, tt.y, err)
			continue
		}
		if got != tt.want {
			t.Errorf("add(%v, %v) = %q, want %q", tt.x, tt.y, got, tt.want)
		}
	}
}

func TestAddBadArguments(t *testing.T) {
	r := newTestRegistry()

	for _, args := range [][]any{{"2"}, {"2", "x"}, {"", "1"}} {
		if _, err := r.Dispatch(context.Background(), "add", rawArgs(t, args...)); !errors.Is(err, ErrBadArguments) {
			t.Errorf("add%v error = %v, want ErrBadArguments", args, err)
		}
	}
}

func TestAdd2(t *testing.T) {
	r := newTestRegistry()

	resp, err := r.Dispatch(context.Background(), "add2", rawArgs(t, `{"x":2,"y":3}`))
	if err != nil {
		t.Fatalf("add2: %v", err)
	}
	if resp != `{"t":"Ok","c":5}` {
		t.Errorf("add2 = %s", resp)
	}
}

func TestAdd2Errors(t *testing.T) {
	r := newTestRegistry()

	tests := []struct {
		name string
		args []any
		msg  string
	}{
		{"overflow", []any{`{"x":1e308,"y":1e308}`}, "bad input"},
		{"not a string", []any{5}, "host: bad arguments: input must be a JSON string"},
		{"two args", []any{"{}", "{}"}, "host: bad arguments: expected 1 argument, got 2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := r.Dispatch(context.Background(), "add2", rawArgs(t, tt.args...))
			if err != nil {
				t.Fatalf("Dispatch: %v", err)
			}
			res, err := envelope.Decode([]byte(resp))
			if err != nil {
				t.Fatalf("Decode(%s): %v", resp, err)
			}
			e, ok := res.(envelope.Err)
			if !ok {
				t.Fatalf("got %T, want Err", res)
			}
			if e.Message != tt.msg {
				t.Errorf("message = %q, want %q", e.Message, tt.msg)
			}
		})
	}
}

func TestUnknownFunction(t *testing.T) {
	r := newTestRegistry()
	if _, err := r.Dispatch(context.Background(), "sub", nil); !errors.Is(err, ErrUnknownFunction) {
		t.Errorf("Dispatch(sub) = %v, want ErrUnknownFunction", err)
	}
}

func TestNamesAndUnbind(t *testing.T) {
	r := newTestRegistry()
	r.Bind("echo", func(_ context.Context, args []json.RawMessage) (string, error) {
		return StringArg(args, 0)
	})

	if got, want := r.Names(), []string{"add", "add2", "echo"}; !reflect.DeepEqual(got, want) {
		t.Errorf("Names() = %v, want %v", got, want)
	}

	r.Unbind("echo")
	if got, want := r.Names(), []string{"add", "add2"}; !reflect.DeepEqual(got, want) {
		t.Errorf("Names() after unbind = %v, want %v", got, want)
	}
}

func TestFormatNumber(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{5, "5"},
		{2.5, "2.5"},
		{-0.125, "-0.125"},
		{1e21, "1000000000000000000000"},
	}
	for _, tt := range tests {
		if got := FormatNumber(tt.in); got != tt.want {
			t.Errorf("FormatNumber(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
