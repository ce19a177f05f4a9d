// Copyright 2025 Ayman Bagabas
// SPDX-License-Identifier: MIT

// Package wlrclipboard mediates access to the Wayland compositor's
// selection via the wlr-data-control-unstable-v1 protocol, for processes
// that don't hold keyboard focus: clipboard watchers, paste-once
// utilities, and copy utilities comparable to wl-paste/wl-copy.
//
// A Session is created once with New, then driven with GetOnce, Iterate,
// TryGetOnce, or Copy. A Session's methods must not be called from
// several goroutines at once: the underlying Wayland event queue is not
// safe for concurrent use. Iterate calls GetOnce from a goroutine of its
// own.
//
//	sess, err := wlrclipboard.New(wlrclipboard.ModeOnCopy)
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer sess.Close()
//
//	msg, err := sess.GetOnce()
//	if err != nil {
//		log.Fatal(err)
//	}
//	if msg != nil && msg.IsText {
//		fmt.Println(msg.Text)
//	}
package wlrclipboard
