// Copyright 2025 Ayman Bagabas
// SPDX-License-Identifier: MIT

package wlrclipboard

import "github.com/wlrclip/wlrclipboard/internal/wlclient"

// deviceState is the device driver's state, §4.3.
type deviceState int

const (
	stateIdle deviceState = iota
	stateOfferBuilding
	stateReceiving
)

// onDataOffer handles zwlr_data_control_device_v1.data_offer. A session
// that is publishing ignores it, since the event describes its own
// source being echoed back. ModeOnSelect receives immediately, blind to
// the eventual MIME list; ModeOnCopy waits for selection.
//
// The offer aggregator (onOfferMime) is not gated on mode or state: the
// compositor keeps delivering offer{mime} events for the pending offer
// regardless of when the driver issues receive, so the MIME list still
// fills in for a ModeOnSelect transfer even though receive already fired.
func (s *Session) onDataOffer(offer wlclient.OfferHandle) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.outgoing != nil {
		return
	}

	s.mimeTypes = nil
	s.pendingOffer = offer

	switch s.mode {
	case ModeOnSelect:
		s.startReceiveLocked(offer, MimeText)
	case ModeOnCopy:
		s.state = stateOfferBuilding
	}
}

func (s *Session) onOfferMime(offer wlclient.OfferHandle, mime string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if offer != s.pendingOffer {
		return
	}
	s.mimeTypes = append(s.mimeTypes, mime)
}

// onSelection handles zwlr_data_control_device_v1.selection. A null
// offer clears any pending offer state without creating a pipe. A
// publishing session ignores it, as does a ModeOnSelect session, which
// already issued its receive from onDataOffer.
func (s *Session) onSelection(offer wlclient.OfferHandle) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if offer == 0 {
		s.mimeTypes = nil
		s.pendingOffer = 0
		if s.state != stateReceiving {
			s.state = stateIdle
		}
		return
	}
	if s.outgoing != nil || s.mode != ModeOnCopy {
		return
	}

	mime := selectMime(s.mimeTypes, s.priority)
	s.startReceiveLocked(offer, mime)
}

// onPrimarySelection handles zwlr_data_control_device_v1.primary_selection:
// the offer is destroyed immediately since this library treats primary
// selection as advisory only, and never changes driver state.
func (s *Session) onPrimarySelection(offer wlclient.OfferHandle) {
	if offer != 0 {
		s.transport.DestroyOffer(offer)
	}
}

// onFinished handles zwlr_data_control_device_v1.finished: the device is
// invalid, so a fresh empty source is created and attached to clear any
// lingering selection, and the driver returns to Idle.
func (s *Session) onFinished() {
	s.mu.Lock()
	defer s.mu.Unlock()

	src, err := s.transport.CreateDataSource()
	if err != nil {
		return
	}
	s.transport.SetSelection(src, false)
	s.state = stateIdle
	s.mimeTypes = nil
	s.pendingOffer = 0
}

// startReceiveLocked creates the transfer pipe, issues receive for mime
// on offer, and drops the write end locally so the compositor's eventual
// close produces EOF on the read end once it finishes serving. Callers
// must hold s.mu.
func (s *Session) startReceiveLocked(offer wlclient.OfferHandle, mime string) {
	r, w, err := wlclient.NewPipe()
	if err != nil {
		return
	}
	s.transport.Receive(offer, mime, w)
	wlclient.CloseFD(w)
	s.readFD = r
	s.state = stateReceiving
}
