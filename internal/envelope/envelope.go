// Package envelope implements the tagged result format that host functions
// answer with: {"t":"Ok","c":<payload>} or {"t":"Err","c":"<message>"}.
package envelope

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

type Tag string

const (
	TagOk  Tag = "Ok"
	TagErr Tag = "Err"
)

var (
	ErrMalformed  = errors.New("envelope: malformed response")
	ErrUnknownTag = errors.New("envelope: unknown tag")
)

// Result is either Ok or Err. The interface is sealed.
type Result interface {
	tag() Tag
}

type Ok struct {
	Payload json.RawMessage
}

type Err struct {
	Message string
}

func (Ok) tag() Tag  { return TagOk }
func (Err) tag() Tag { return TagErr }

// RemoteError carries the message of an Err envelope.
type RemoteError struct {
	Message string
}

func (e *RemoteError) Error() string {
	return e.Message
}

type wire struct {
	T Tag             `json:"t"`
	C json.RawMessage `json:"c"`
}

var null = json.RawMessage("null")

func NewOk(v any) (Ok, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return Ok{}, fmt.Errorf("encode payload: %w", err)
	}
	return Ok{Payload: b}, nil
}

func NewErr(msg string) Err {
	return Err{Message: msg}
}

func Encode(r Result) ([]byte, error) {
	var w wire
	switch v := r.(type) {
	case Ok:
		w.T = TagOk
		w.C = v.Payload
		if len(w.C) == 0 {
			w.C = null
		}
	case Err:
		msg, err := json.Marshal(v.Message)
		if err != nil {
			return nil, err
		}
		w.T, w.C = TagErr, msg
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnknownTag, r)
	}
	return json.Marshal(w)
}

// Decode parses a response string. Tags other than Ok and Err are rejected.
// Keys are matched exactly, so "T" or "C" never stand in for "t" or "c".
func Decode(data []byte) (Result, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	var tag Tag
	if raw, ok := fields["t"]; ok {
		if err := json.Unmarshal(raw, &tag); err != nil {
			return nil, fmt.Errorf("%w: tag: %v", ErrMalformed, err)
		}
	}

	payload := fields["c"]
	if len(payload) == 0 {
		payload = null
	}

	switch tag {
	case TagOk:
		return Ok{Payload: payload}, nil
	case TagErr:
		var msg string
		if err := json.Unmarshal(payload, &msg); err != nil {
			// hosts occasionally send structured errors
			msg = string(bytes.TrimSpace(payload))
		}
		return Err{Message: msg}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownTag, tag)
	}
}

// Unwrap converts an Ok payload into T, or an Err into a *RemoteError.
func Unwrap[T any](r Result) (T, error) {
	var out T
	switch v := r.(type) {
	case Ok:
		if err := json.Unmarshal(v.Payload, &out); err != nil {
			return out, fmt.Errorf("%w: payload: %v", ErrMalformed, err)
		}
		return out, nil
	case Err:
		return out, &RemoteError{Message: v.Message}
	default:
		panic(fmt.Sprintf("envelope: unexpected result %T", r))
	}
}
