// Copyright 2025 Ayman Bagabas
// SPDX-License-Identifier: MIT

package wlrclipboard

import (
	"unicode/utf8"

	"github.com/wlrclip/wlrclipboard/internal/wlclient"
)

// drain reads the pending transfer pipe to completion and classifies the
// result, per §4.5. The accumulated MIME list and pending-offer state are
// always cleared afterward, and the driver returns to Idle, regardless of
// outcome.
func (s *Session) drain() (*Message, error) {
	s.mu.Lock()
	fd := s.readFD
	mimes := append([]string(nil), s.mimeTypes...)
	mode := s.mode
	s.mu.Unlock()

	if fd < 0 {
		return nil, nil
	}

	data, err := wlclient.ReadAll(fd)

	s.mu.Lock()
	s.readFD = -1
	s.mimeTypes = nil
	s.pendingOffer = 0
	s.state = stateIdle
	s.mu.Unlock()

	if err != nil {
		return nil, newPipeError("read transfer pipe", err)
	}

	text := isText(mimes)
	if mode == ModeOnSelect && !text {
		return nil, nil
	}

	if text && !utf8.Valid(data) {
		return nil, newPipeError("text payload is not valid UTF-8", nil)
	}

	msg := &Message{
		MimeTypes: mimes,
		IsText:    text,
		Bytes:     data,
	}
	if text {
		msg.Text = string(data)
	}
	return msg, nil
}
