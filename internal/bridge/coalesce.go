package bridge

import (
	"context"
	"encoding/json"
	"strings"

	"golang.org/x/sync/singleflight"
)

type coalescing struct {
	inner Bridge
	sfg   singleflight.Group
}

// Coalesce wraps b so that identical calls in flight at the same time
// share one round trip. Only use it for functions without side effects.
func Coalesce(b Bridge) Bridge {
	return &coalescing{inner: b}
}

func (c *coalescing) Call(ctx context.Context, fn string, args ...any) (string, error) {
	key, err := callKey(fn, args)
	if err != nil {
		return "", err
	}

	ch := c.sfg.DoChan(key, func() (any, error) {
		return c.inner.Call(context.WithoutCancel(ctx), fn, args...)
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return "", res.Err
		}
		return res.Val.(string), nil
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

func callKey(fn string, args []any) (string, error) {
	var sb strings.Builder
	sb.WriteString(fn)
	sb.WriteByte(0)
	enc := json.NewEncoder(&sb)
	for _, a := range args {
		if err := enc.Encode(a); err != nil {
			return "", err
		}
	}
	return sb.String(), nil
}
