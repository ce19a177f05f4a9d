// Copyright 2025 Ayman Bagabas
// SPDX-License-Identifier: MIT

package wlrclipboard

import (
	"sync"
	"testing"

	"github.com/wlrclip/wlrclipboard/internal/wlclient"
)

// fakeTransport drives a Session's event handlers from a scripted list of
// steps instead of a real compositor connection. Each DispatchBlocking or
// DispatchPending call advances one step. Receive duplicates the fd the
// way SCM_RIGHTS fd-passing would, so the production code's own close of
// its local copy still produces EOF on the reader once the fake's write
// goroutine finishes.
type fakeTransport struct {
	mu      sync.Mutex
	session *Session
	steps   []func(*Session)
	idx     int
	lost    bool

	srcSeq       wlclient.SourceHandle
	offeredMimes map[wlclient.SourceHandle][]string
	selections   []wlclient.SourceHandle
	destroyed    map[wlclient.SourceHandle]bool

	receivePayload []byte
}

func newFakeTransport(session *Session, steps ...func(*Session)) *fakeTransport {
	return &fakeTransport{
		session:      session,
		steps:        steps,
		offeredMimes: map[wlclient.SourceHandle][]string{},
		destroyed:    map[wlclient.SourceHandle]bool{},
	}
}

func (f *fakeTransport) Ready() bool      { return true }
func (f *fakeTransport) SeatName() string { return "fake-seat" }

func (f *fakeTransport) Lost() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lost
}

func (f *fakeTransport) BindDevice() error { return nil }

func (f *fakeTransport) CreateDataSource() (wlclient.SourceHandle, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.srcSeq++
	return f.srcSeq, nil
}

func (f *fakeTransport) OfferMime(src wlclient.SourceHandle, mime string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.offeredMimes[src] = append(f.offeredMimes[src], mime)
}

func (f *fakeTransport) SetSelection(src wlclient.SourceHandle, _ bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.selections = append(f.selections, src)
}

func (f *fakeTransport) Receive(_ wlclient.OfferHandle, _ string, fd int) {
	dup, err := wlclient.Dup(fd)
	if err != nil {
		return
	}
	payload := append([]byte(nil), f.receivePayload...)
	go func() {
		wlclient.WriteAll(dup, payload)
		wlclient.CloseFD(dup)
	}()
}

func (f *fakeTransport) DestroyOffer(wlclient.OfferHandle) {}

func (f *fakeTransport) DestroySource(src wlclient.SourceHandle) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.destroyed[src] = true
}

func (f *fakeTransport) Roundtrip() error { return nil }

func (f *fakeTransport) DispatchBlocking() error {
	step, ok := f.nextStep()
	if !ok {
		f.mu.Lock()
		f.lost = true
		f.mu.Unlock()
		return nil
	}
	step(f.session)
	return nil
}

func (f *fakeTransport) DispatchPending() (bool, error) {
	step, ok := f.nextStep()
	if !ok {
		return false, nil
	}
	step(f.session)
	return true, nil
}

func (f *fakeTransport) nextStep() (func(*Session), bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.idx >= len(f.steps) {
		return nil, false
	}
	step := f.steps[f.idx]
	f.idx++
	return step, true
}

func (f *fakeTransport) Close() error { return nil }

func TestSessionGetOnceModeOnCopyText(t *testing.T) {
	s := &Session{mode: ModeOnCopy, readFD: -1}
	ft := newFakeTransport(s,
		func(s *Session) { s.onDataOffer(1) },
		func(s *Session) { s.onOfferMime(1, MimeText) },
		func(s *Session) { s.onOfferMime(1, "text/html") },
		func(s *Session) { s.onSelection(1) },
	)
	ft.receivePayload = []byte("hello clipboard")
	s.transport = ft

	msg, err := s.GetOnce()
	if err != nil {
		t.Fatalf("GetOnce: %v", err)
	}
	if msg == nil {
		t.Fatal("expected a message, got nil")
	}
	if !msg.IsText || msg.Text != "hello clipboard" {
		t.Errorf("got %+v", msg)
	}
}

func TestSessionGetOnceModeOnSelectDropsNonText(t *testing.T) {
	s := &Session{mode: ModeOnSelect, readFD: -1}
	ft := newFakeTransport(s,
		// data_offer and its mime list arrive in the same dispatch batch,
		// before ModeOnSelect's blind receive would otherwise have a chance
		// to start from data_offer alone.
		func(s *Session) {
			s.onDataOffer(1)
			s.onOfferMime(1, "image/png")
		},
	)
	ft.receivePayload = []byte{0xde, 0xad, 0xbe, 0xef}
	s.transport = ft

	msg, err := s.GetOnce()
	if err != nil {
		t.Fatalf("GetOnce: %v", err)
	}
	if msg != nil {
		t.Errorf("expected nil message for a non-text On-Select payload, got %+v", msg)
	}
}

// TestSessionGetOnceModeOnCopyPriority covers the documented, deliberate
// behavior that drain classifies off the full accumulated MIME list, not
// the MIME selectMime actually chose for the receive (DESIGN.md, "Open
// Question decisions"): the offer here is text-shaped (MimeText present,
// no image/* entry) even though the priority list steers the receive to
// "application/x-foo", so the resulting message still comes back
// classified as text.
func TestSessionGetOnceModeOnCopyPriority(t *testing.T) {
	s := &Session{mode: ModeOnCopy, readFD: -1, priority: []string{"application/x-foo"}}
	ft := newFakeTransport(s,
		func(s *Session) {
			s.onDataOffer(1)
			s.onOfferMime(1, MimeText)
			s.onOfferMime(1, "application/x-foo")
		},
		func(s *Session) { s.onSelection(1) },
	)
	ft.receivePayload = []byte("payload for application/x-foo")
	s.transport = ft

	msg, err := s.GetOnce()
	if err != nil {
		t.Fatalf("GetOnce: %v", err)
	}
	if msg == nil {
		t.Fatal("expected a message, got nil")
	}
	if !msg.IsText {
		t.Errorf("expected a text classification from a text-shaped MIME list, got %+v", msg)
	}
	if msg.Text != "payload for application/x-foo" {
		t.Errorf("got %+v", msg)
	}
}

func TestSessionCopyAndCancel(t *testing.T) {
	s := &Session{mode: ModeOnCopy, readFD: -1}

	r, w, err := wlclient.NewPipe()
	if err != nil {
		t.Fatalf("NewPipe: %v", err)
	}

	// CreateDataSource hands back handle 1 on a fresh fakeTransport (its
	// srcSeq starts at zero), so the scripted steps can address it
	// directly, the same way the offer-handling tests hardcode offer 1.
	ft := newFakeTransport(s,
		func(s *Session) { s.onSourceSend(1, w) },
		func(s *Session) { s.onSourceCancelled(1) },
	)
	s.transport = ft

	if err := s.Copy([]byte("clip data"), []string{MimeText}, false); err != nil {
		t.Fatalf("Copy: %v", err)
	}
	if len(ft.selections) != 1 {
		t.Fatalf("expected exactly one SetSelection call, got %d", len(ft.selections))
	}

	got, err := wlclient.ReadAll(r)
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if string(got) != "clip data" {
		t.Errorf("got %q", got)
	}
	if !ft.destroyed[1] {
		t.Error("expected the source to be destroyed once cancelled")
	}
}

// TestSessionCopyReplacesPriorSource covers §4.6's "a second copy call on
// the same session replaces the first": calling Copy while a prior,
// not-yet-cancelled source is still outstanding destroys that source
// instead of leaking it, per the single-threaded-per-session model (§5)
// where a second Copy only ever follows the first's return.
func TestSessionCopyReplacesPriorSource(t *testing.T) {
	s := &Session{mode: ModeOnCopy, readFD: -1}
	ft := newFakeTransport(s,
		func(s *Session) { s.onSourceCancelled(2) },
	)
	s.transport = ft

	src1, err := ft.CreateDataSource()
	if err != nil {
		t.Fatalf("CreateDataSource: %v", err)
	}
	s.outgoing = &outgoingCopy{payload: []byte("a"), mimes: []string{MimeText}, source: src1}

	if err := s.Copy([]byte("b"), []string{MimeText}, false); err != nil {
		t.Fatalf("Copy: %v", err)
	}

	if !ft.destroyed[src1] {
		t.Error("expected the first source to be destroyed when replaced")
	}
	if len(ft.selections) != 1 {
		t.Errorf("expected exactly one SetSelection call for the second copy, got %d", len(ft.selections))
	}
}

func TestSessionGetOnceLostReportsQueueError(t *testing.T) {
	s := &Session{mode: ModeOnCopy, readFD: -1}
	ft := newFakeTransport(s)
	s.transport = ft

	if _, err := s.GetOnce(); err == nil {
		t.Fatal("expected an error once the transport runs out of scripted events and reports itself lost")
	}
}
