// Copyright 2025 Ayman Bagabas
// SPDX-License-Identifier: MIT

// Package wlclient is a minimal, cgo-free transport for the subset of the
// Wayland wire protocol that wlrclipboard needs: wl_registry, wl_seat, and
// zwlr_data_control_{manager,device,offer,source}_v1. It loads
// libwayland-client.so at runtime with purego and drives
// wl_proxy_marshal_constructor / wl_proxy_add_listener directly, so the
// higher-level protocol state machine can be built without a
// wayland-scanner code generation step.
//
// Everything in this package is single-threaded per Client: a Client's
// methods must not be called from several goroutines at once, and the
// Handlers callbacks run on whichever goroutine is dispatching.
package wlclient
