// Copyright 2025 Ayman Bagabas
// SPDX-License-Identifier: MIT

package wlclient

import (
	"bytes"
	"testing"
)

func TestPipeRoundTrip(t *testing.T) {
	r, w, err := NewPipe()
	if err != nil {
		t.Fatalf("NewPipe: %v", err)
	}

	payload := bytes.Repeat([]byte("0123456789abcdef"), 4096) // fills a whole default 64 KiB pipe buffer
	errCh := make(chan error, 1)
	go func() {
		defer CloseFD(w)
		errCh <- WriteAll(w, payload)
	}()

	got, err := ReadAll(r)
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if err := <-errCh; err != nil {
		t.Fatalf("WriteAll: %v", err)
	}
	if !bytes.Equal(got, payload) {
		t.Errorf("round trip mismatch: got %d bytes, want %d", len(got), len(payload))
	}
}

func TestPipeEmptyOnImmediateClose(t *testing.T) {
	r, w, err := NewPipe()
	if err != nil {
		t.Fatalf("NewPipe: %v", err)
	}
	if err := CloseFD(w); err != nil {
		t.Fatalf("CloseFD: %v", err)
	}

	got, err := ReadAll(r)
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("expected no bytes from an immediately closed write end, got %d", len(got))
	}
}

func TestDupGivesIndependentDescriptor(t *testing.T) {
	r, w, err := NewPipe()
	if err != nil {
		t.Fatalf("NewPipe: %v", err)
	}
	defer CloseFD(r)

	dup, err := Dup(w)
	if err != nil {
		t.Fatalf("Dup: %v", err)
	}

	// Closing the original must not affect the duplicate: writing through
	// dup and then closing it is what drives EOF on the reader, mirroring
	// what the compositor does with its own copy of a passed fd.
	if err := CloseFD(w); err != nil {
		t.Fatalf("CloseFD(w): %v", err)
	}

	done := make(chan error, 1)
	go func() {
		if err := WriteAll(dup, []byte("still alive")); err != nil {
			done <- err
			return
		}
		done <- CloseFD(dup)
	}()
	if err := <-done; err != nil {
		t.Fatalf("write through dup after closing original: %v", err)
	}

	got, err := ReadAll(r)
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if string(got) != "still alive" {
		t.Errorf("got %q", got)
	}
}

func TestCloseFDIgnoresNegative(t *testing.T) {
	if err := CloseFD(-1); err != nil {
		t.Errorf("CloseFD(-1) = %v, want nil", err)
	}
}
