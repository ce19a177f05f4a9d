// Copyright 2025 Ayman Bagabas
// SPDX-License-Identifier: MIT

package wlrclipboard

import "time"

// ListenMode selects how the device driver reacts to an advertised data
// offer. ModeOnSelect receives blindly as soon as an offer appears (a
// text-only contract: non-text payloads are dropped). ModeOnCopy waits
// for the full MIME list before choosing what to receive.
type ListenMode int

const (
	ModeOnSelect ListenMode = iota
	ModeOnCopy
)

// Option configures a Session at construction time.
type Option func(*Session)

// WithPollInterval sets the delay Iterate sleeps between successive
// GetOnce calls. The zero value, the default, applies no delay: GetOnce
// calls happen back to back, matching the "no internal throttling"
// contract of Iterate. The Rust implementation this protocol state machine
// was distilled from defaults its own poll loop to 100ms; pass that
// explicitly to restore it.
func WithPollInterval(d time.Duration) Option {
	return func(s *Session) { s.pollInterval = d }
}

// WithPriority installs the MIME priority list consulted by the
// selection policy before it falls back to the text fast-path. Equivalent
// to calling SetPriority right after New.
func WithPriority(mimes []string) Option {
	return func(s *Session) { s.priority = append([]string(nil), mimes...) }
}
