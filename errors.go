// Copyright 2025 Ayman Bagabas
// SPDX-License-Identifier: MIT

package wlrclipboard

import "fmt"

// InitError is returned by New when the transport is unreachable, a
// required global is missing, or the initial handshake fails.
type InitError struct {
	msg string
	err error
}

func (e *InitError) Error() string {
	if e.err != nil {
		return fmt.Sprintf("wlrclipboard: init: %s: %v", e.msg, e.err)
	}
	return fmt.Sprintf("wlrclipboard: init: %s", e.msg)
}

func (e *InitError) Unwrap() error { return e.err }

func newInitError(msg string, err error) *InitError {
	return &InitError{msg: msg, err: err}
}

// QueueError is returned when a blocking dispatch or roundtrip reports a
// protocol-level failure after a successful New, including the loss of a
// required global on a long-running session.
type QueueError struct {
	msg string
	err error
}

func (e *QueueError) Error() string {
	if e.err != nil {
		return fmt.Sprintf("wlrclipboard: queue: %s: %v", e.msg, e.err)
	}
	return fmt.Sprintf("wlrclipboard: queue: %s", e.msg)
}

func (e *QueueError) Unwrap() error { return e.err }

func newQueueError(msg string, err error) *QueueError {
	return &QueueError{msg: msg, err: err}
}

// PipeError is returned when the transfer pipe could not be read, or its
// bytes could not be interpreted as UTF-8 when a text payload was
// expected.
type PipeError struct {
	msg string
	err error
}

func (e *PipeError) Error() string {
	if e.err != nil {
		return fmt.Sprintf("wlrclipboard: pipe: %s: %v", e.msg, e.err)
	}
	return fmt.Sprintf("wlrclipboard: pipe: %s", e.msg)
}

func (e *PipeError) Unwrap() error { return e.err }

func newPipeError(msg string, err error) *PipeError {
	return &PipeError{msg: msg, err: err}
}
