// Copyright 2025 Ayman Bagabas
// SPDX-License-Identifier: MIT

package wlrclipboard

import "github.com/wlrclip/wlrclipboard/internal/wlclient"

// outgoingCopy tracks a source this session owns, created by Copy and
// torn down once the compositor cancels it in favor of a newer selection
// (from this process or another).
type outgoingCopy struct {
	payload   []byte
	mimes     []string
	source    wlclient.SourceHandle
	primary   bool
	cancelled bool
}

// onSourceSend handles zwlr_data_control_source_v1.send: the compositor
// asks for the payload in a MIME it was offered. The reply MIME is not
// validated against the offered list; any client is free to ask for
// whatever it wants and gets the same payload regardless of MIME, mirroring
// how real clipboard sources typically only ever hold a single
// representation.
func (s *Session) onSourceSend(src wlclient.SourceHandle, fd int) {
	s.mu.Lock()
	out := s.outgoing
	s.mu.Unlock()

	defer wlclient.CloseFD(fd)
	if out == nil || out.source != src || out.cancelled {
		return
	}
	wlclient.WriteAll(fd, out.payload)
}

// onSourceCancelled handles zwlr_data_control_source_v1.cancelled: the
// compositor picked a new selection, so this source is done and can be
// destroyed.
func (s *Session) onSourceCancelled(src wlclient.SourceHandle) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.outgoing == nil || s.outgoing.source != src {
		return
	}
	s.outgoing.cancelled = true
	s.transport.DestroySource(src)
	s.outgoing = nil
}
