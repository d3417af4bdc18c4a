package xlog

import "errors"

var (
	// ErrNilHandler NewEnrichHandler 的 base handler 为 nil
	ErrNilHandler = errors.New("xlog: base handler is nil")

	// ErrNilSink NewFileHandler 或 SetFileSink 的 sink 为 nil
	ErrNilSink = errors.New("xlog: file sink is nil")

	// ErrNilWriter SetConsole 的 writer 为 nil
	ErrNilWriter = errors.New("xlog: console writer is nil")
)
