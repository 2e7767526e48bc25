package ws

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/arko-chat/webuicall/internal/logger"
)

type blankError struct{}

func (blankError) Error() string { return "" }

func TestReplyFrame(t *testing.T) {
	tests := []struct {
		name      string
		resp      string
		err       error
		wantResp  string
		wantError string
	}{
		{"ok", "5", nil, "5", ""},
		{"error drops resp", "5", errors.New("boom"), "", "boom"},
		{"blank error", "", blankError{}, "", errUnnamed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var f Frame
			if err := json.Unmarshal(ReplyFrame(7, tt.resp, tt.err), &f); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			if f.Kind != KindReply || f.ID != 7 {
				t.Errorf("frame = %+v", f)
			}
			if f.Resp != tt.wantResp || f.Error != tt.wantError {
				t.Errorf("resp, error = %q, %q, want %q, %q", f.Resp, f.Error, tt.wantResp, tt.wantError)
			}
		})
	}
}

func TestEnqueueContextWaitsForRoom(t *testing.T) {
	c := NewBaseClient(nil)
	for i := 0; i < cap(c.Send); i++ {
		if err := c.EnqueueContext(context.Background(), []byte("x")); err != nil {
			t.Fatalf("enqueue %d: %v", i, err)
		}
	}

	done := make(chan error, 1)
	go func() {
		done <- c.EnqueueContext(context.Background(), []byte("last"))
	}()

	select {
	case err := <-done:
		t.Fatalf("enqueue on a full buffer returned early: %v", err)
	case <-time.After(20 * time.Millisecond):
	}

	<-c.Send
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("enqueue after drain: %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("enqueue still blocked after room was made")
	}
}

func TestEnqueueContextFailures(t *testing.T) {
	c := NewBaseClient(nil)
	for i := 0; i < cap(c.Send); i++ {
		c.EnqueueContext(context.Background(), []byte("x"))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	if err := c.EnqueueContext(ctx, []byte("y")); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("full buffer with expired ctx = %v, want deadline exceeded", err)
	}

	c.Close()
	if err := c.EnqueueContext(context.Background(), []byte("z")); !errors.Is(err, ErrClosed) {
		t.Errorf("closed client = %v, want ErrClosed", err)
	}
}

func TestHubUnregisterOnlyMatchingClient(t *testing.T) {
	h := NewHub(logger.Discard())
	a, b := NewBaseClient(nil), NewBaseClient(nil)

	h.Register("conn", a)
	h.Register("other", b)
	h.Unregister("other", a)
	if n := h.Len(); n != 2 {
		t.Fatalf("Len = %d after unregistering a stranger, want 2", n)
	}

	h.CloseAll()
	for _, c := range []*BaseClient{a, b} {
		select {
		case <-c.Done():
		default:
			t.Error("CloseAll left a client open")
		}
	}
	if n := h.Len(); n != 0 {
		t.Errorf("Len = %d after CloseAll", n)
	}
}
