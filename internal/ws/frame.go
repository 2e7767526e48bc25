package ws

import (
	"encoding/json"
	"errors"
	"time"
)

const (
	WriteWait      = 10 * time.Second
	PongWait       = 60 * time.Second
	PingPeriod     = (PongWait * 9) / 10
	MaxMessageSize = 1 << 20
)

type Kind string

const (
	KindReady Kind = "ready"
	KindCall  Kind = "call"
	KindReply Kind = "reply"
)

// Frame is one websocket text message between the UI and the host.
//
//	host -> UI  {"kind":"ready","functions":["add","add2"]}
//	UI -> host  {"kind":"call","id":1,"fn":"add2","args":["{\"x\":2,\"y\":3}"]}
//	host -> UI  {"kind":"reply","id":1,"resp":"{\"t\":\"Ok\",\"c\":5}"}
//	host -> UI  {"kind":"reply","id":1,"error":"host: unknown function: sub"}
type Frame struct {
	Kind      Kind              `json:"kind"`
	ID        uint64            `json:"id,omitempty"`
	Fn        string            `json:"fn,omitempty"`
	Args      []json.RawMessage `json:"args,omitempty"`
	Resp      string            `json:"resp,omitempty"`
	Error     string            `json:"error,omitempty"`
	Functions []string          `json:"functions,omitempty"`
}

func (f Frame) Marshal() []byte {
	b, _ := json.Marshal(f)
	return b
}

func ReadyFrame(functions []string) []byte {
	return Frame{Kind: KindReady, Functions: functions}.Marshal()
}

// errUnnamed stands in for errors whose text is empty, which would
// otherwise read as a successful reply.
const errUnnamed = "host call failed"

func ReplyFrame(id uint64, resp string, err error) []byte {
	f := Frame{Kind: KindReply, ID: id, Resp: resp}
	if err != nil {
		f.Resp, f.Error = "", err.Error()
		if f.Error == "" {
			f.Error = errUnnamed
		}
	}
	return f.Marshal()
}

var ErrClosed = errors.New("ws: connection closed")

// CallError is a call the host rejected.
type CallError struct {
	Fn      string
	Message string
}

func (e *CallError) Error() string {
	return e.Fn + ": " + e.Message
}
