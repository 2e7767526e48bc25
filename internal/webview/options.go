package webview

import "errors"

var ErrUnavailable = errors.New("webview: built without cgo")

type Options struct {
	URL    string
	Title  string
	Width  int
	Height int
	Debug  bool
}
