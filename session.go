// Copyright 2025 Ayman Bagabas
// SPDX-License-Identifier: MIT

package wlrclipboard

import (
	"context"
	"sync"
	"time"

	"github.com/wlrclip/wlrclipboard/internal/wlclient"
)

// transport is the subset of *wlclient.Client a Session drives. It exists
// so tests can swap in a fake compositor without a real Wayland socket;
// *wlclient.Client satisfies it structurally.
type transport interface {
	Ready() bool
	SeatName() string
	Lost() bool
	BindDevice() error
	CreateDataSource() (wlclient.SourceHandle, error)
	OfferMime(src wlclient.SourceHandle, mime string)
	SetSelection(src wlclient.SourceHandle, primary bool)
	Receive(offer wlclient.OfferHandle, mime string, fd int)
	DestroyOffer(offer wlclient.OfferHandle)
	DestroySource(src wlclient.SourceHandle)
	Roundtrip() error
	DispatchBlocking() error
	DispatchPending() (bool, error)
	Close() error
}

// Session is a single connection to the compositor's data control
// manager, driving one device's selection and primary selection.
type Session struct {
	transport transport
	mode      ListenMode

	mu           sync.Mutex
	priority     []string
	pollInterval time.Duration

	state        deviceState
	mimeTypes    []string
	pendingOffer wlclient.OfferHandle
	readFD       int

	seatName string
	outgoing *outgoingCopy
}

// Result is a single value delivered by Iterate: either a Message or an
// error, never both.
type Result struct {
	Message *Message
	Err     error
}

// New dials the compositor's data control manager and binds a device for
// the current seat, per §3. Per §4.2, it iterates roundtrips until the
// seat and manager are bound and the seat has reported its name (the
// session is not usable before then, per §3 Invariant 1), and only then
// binds the data device. The returned Session owns the connection;
// callers must Close it.
func New(mode ListenMode, opts ...Option) (*Session, error) {
	s := &Session{
		mode:   mode,
		readFD: -1,
	}

	c, err := wlclient.Dial(wlclient.Handlers{
		OnDataOffer:        s.onDataOffer,
		OnOfferMime:        s.onOfferMime,
		OnSelection:        s.onSelection,
		OnPrimarySelection: s.onPrimarySelection,
		OnFinished:         s.onFinished,
		OnSourceSend: func(src wlclient.SourceHandle, mime string, fd int32) {
			s.onSourceSend(src, int(fd))
		},
		OnSourceCancelled: s.onSourceCancelled,
	})
	if err != nil {
		return nil, newInitError("dial compositor", err)
	}

	for !c.Ready() {
		if c.Lost() {
			c.Close()
			return nil, newInitError("seat or data control manager removed during init", nil)
		}
		if err := c.Roundtrip(); err != nil {
			c.Close()
			return nil, newInitError("roundtrip while waiting for seat name", err)
		}
	}
	s.seatName = c.SeatName()

	if err := c.BindDevice(); err != nil {
		c.Close()
		return nil, newInitError("bind data control device", err)
	}

	s.transport = c
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// SeatName returns the human-readable name of the seat this session is
// bound to, as reported by the seat's name event and observed during
// New (§4.2).
func (s *Session) SeatName() string {
	return s.seatName
}

// SetPriority installs the MIME priority list consulted by the selection
// policy; see WithPriority.
func (s *Session) SetPriority(mimes []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.priority = append([]string(nil), mimes...)
}

// GetOnce blocks until the next selection is published and classified,
// per §4.5. It returns (nil, nil) for a non-text payload under
// ModeOnSelect, which drain drops by policy rather than error.
func (s *Session) GetOnce() (*Message, error) {
	for {
		if s.transport.Lost() {
			return nil, newQueueError("compositor lost required global", nil)
		}

		s.mu.Lock()
		ready := s.state == stateReceiving
		s.mu.Unlock()
		if ready {
			return s.drain()
		}

		if err := s.transport.DispatchBlocking(); err != nil {
			return nil, newQueueError("dispatch", err)
		}
	}
}

// TryGetOnce is the non-blocking counterpart to GetOnce: it drains any
// event already queued locally and returns immediately, reporting
// (nil, nil) when no selection is ready yet.
func (s *Session) TryGetOnce() (*Message, error) {
	if s.transport.Lost() {
		return nil, newQueueError("compositor lost required global", nil)
	}

	for {
		dispatched, err := s.transport.DispatchPending()
		if err != nil {
			return nil, newQueueError("dispatch pending", err)
		}

		s.mu.Lock()
		ready := s.state == stateReceiving
		s.mu.Unlock()
		if ready {
			return s.drain()
		}
		if !dispatched {
			return nil, nil
		}
	}
}

// Iterate runs GetOnce in a loop, delivering each result on the returned
// channel until ctx is cancelled, at which point the channel is closed.
// An error is delivered in-band as a Result and iteration continues; the
// caller decides whether to stop. A non-zero WithPollInterval sleeps
// between successive calls; the zero default applies no throttling.
func (s *Session) Iterate(ctx context.Context) <-chan Result {
	out := make(chan Result)
	go func() {
		defer close(out)
		for {
			msg, err := s.GetOnce()
			select {
			case out <- Result{Message: msg, Err: err}:
			case <-ctx.Done():
				return
			}

			s.mu.Lock()
			interval := s.pollInterval
			s.mu.Unlock()
			if interval > 0 {
				select {
				case <-time.After(interval):
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out
}

// Copy publishes payload as the current selection, advertising mimes to
// the compositor, then runs the source-server loop (§4.6) on the calling
// goroutine until the compositor cancels this source in favor of a newer
// selection. primary additionally sets the primary selection. The source
// replaces any source this session previously owned; callers wanting to
// abort a long-running Copy before that happens must tear the session
// down (Close) or arrange for another client's copy to cancel it.
func (s *Session) Copy(payload []byte, mimes []string, primary bool) error {
	src, err := s.transport.CreateDataSource()
	if err != nil {
		return newQueueError("create data source", err)
	}
	for _, m := range mimes {
		s.transport.OfferMime(src, m)
	}
	s.transport.SetSelection(src, false)
	if primary {
		s.transport.SetSelection(src, true)
	}

	s.mu.Lock()
	if s.outgoing != nil && !s.outgoing.cancelled {
		s.transport.DestroySource(s.outgoing.source)
	}
	s.outgoing = &outgoingCopy{
		payload: append([]byte(nil), payload...),
		mimes:   append([]string(nil), mimes...),
		source:  src,
		primary: primary,
	}
	s.mu.Unlock()

	if err := s.transport.Roundtrip(); err != nil {
		return newQueueError("roundtrip after copy", err)
	}

	for {
		s.mu.Lock()
		live := s.outgoing != nil && s.outgoing.source == src
		s.mu.Unlock()
		if !live {
			return nil
		}
		if s.transport.Lost() {
			return newQueueError("compositor lost required global", nil)
		}
		if err := s.transport.DispatchBlocking(); err != nil {
			return newQueueError("dispatch during copy", err)
		}
	}
}

// Close releases the session's compositor connection and any source it
// still owns.
func (s *Session) Close() error {
	s.mu.Lock()
	out := s.outgoing
	s.outgoing = nil
	s.mu.Unlock()

	if out != nil && !out.cancelled {
		s.transport.DestroySource(out.source)
	}
	return s.transport.Close()
}
