// Copyright 2025 Ayman Bagabas
// SPDX-License-Identifier: MIT

//go:build linux

package wlclient

import (
	"fmt"
	"sync"
	"sync/atomic"
	"unsafe"

	"github.com/wlrclip/wlrclipboard/internal/protocol"
)

// OfferHandle identifies a zwlr_data_control_offer_v1 proxy. The zero
// value never designates a live offer.
type OfferHandle uintptr

// SourceHandle identifies a zwlr_data_control_source_v1 proxy. The zero
// value never designates a live source.
type SourceHandle uintptr

// Handlers are invoked synchronously from inside DispatchBlocking,
// DispatchPending, or Roundtrip, on whichever goroutine called them.
type Handlers struct {
	OnSeatName         func(name string)
	OnDataOffer        func(offer OfferHandle)
	OnOfferMime        func(offer OfferHandle, mime string)
	OnSelection        func(offer OfferHandle) // zero OfferHandle means a null selection
	OnPrimarySelection func(offer OfferHandle) // zero OfferHandle means a null selection
	OnFinished         func()
	OnSourceSend       func(source SourceHandle, mime string, fd int32)
	OnSourceCancelled  func(source SourceHandle)
}

// Client is a single Wayland display connection bound to wl_seat and
// zwlr_data_control_manager_v1. Create one with Dial; it is not safe for
// concurrent use from more than one goroutine.
type Client struct {
	mu sync.Mutex

	display  uintptr
	registry uintptr
	handle   uintptr // routing key stored in listener "data" slots

	seat    uintptr
	manager uintptr
	device  uintptr

	seatGlobalName    uint32
	managerGlobalName uint32
	seatHumanName     string

	lost atomic.Bool

	handlers Handlers
}

// Dial connects to the Wayland compositor named by the environment,
// fetches the registry, and performs one roundtrip so wl_seat and
// zwlr_data_control_manager_v1 (if advertised) are bound by the time it
// returns. It does not wait for the seat's name event or bind a data
// device; callers do that with Roundtrip/Ready and BindDevice.
func Dial(h Handlers) (*Client, error) {
	if err := ensureLib(); err != nil {
		return nil, err
	}

	c := &Client{handlers: h}

	c.display = wlDisplayConnect(nil)
	if c.display == 0 {
		return nil, fmt.Errorf("%w: failed to connect to wayland display", ErrUnavailable)
	}

	c.handle = registerClient(c)

	c.registry = wlProxyMarshalConstructor(c.display, protocol.DisplayGetRegistry, wlRegistryInterfacePtr)
	if c.registry == 0 {
		c.disconnectLocked()
		return nil, fmt.Errorf("%w: failed to get registry", ErrUnavailable)
	}
	addListener(c.registry, unsafe.Pointer(&registryListenerTable), c.handle)

	if ret := wlDisplayRoundtrip(c.display); ret < 0 {
		c.disconnectLocked()
		return nil, fmt.Errorf("%w: initial roundtrip failed", ErrUnavailable)
	}

	c.mu.Lock()
	haveGlobals := c.seat != 0 && c.manager != 0
	c.mu.Unlock()
	if !haveGlobals {
		c.disconnectLocked()
		return nil, fmt.Errorf("%w: seat or data control manager not advertised", ErrUnavailable)
	}

	return c, nil
}

// Ready reports whether the seat and manager are bound and the seat has
// reported its human-readable name.
func (c *Client) Ready() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.seat != 0 && c.manager != 0 && c.seatHumanName != ""
}

// SeatName returns the seat's human-readable name, or "" before it has
// arrived.
func (c *Client) SeatName() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.seatHumanName
}

// Lost reports whether wl_seat or zwlr_data_control_manager_v1 has been
// removed from the registry since Dial.
func (c *Client) Lost() bool {
	return c.lost.Load()
}

// BindDevice requests a zwlr_data_control_device_v1 for the bound seat.
func (c *Client) BindDevice() error {
	c.mu.Lock()
	seat, manager := c.seat, c.manager
	c.mu.Unlock()
	if seat == 0 || manager == 0 {
		return fmt.Errorf("%w: seat or manager not bound", ErrUnavailable)
	}

	device := wlProxyMarshalConstructor(manager, protocol.ManagerGetDataDevice, dcDeviceInterfacePtr, seat)
	if device == 0 {
		return fmt.Errorf("%w: failed to create data control device", ErrUnavailable)
	}
	addListener(device, unsafe.Pointer(&deviceListenerTable), c.handle)

	c.mu.Lock()
	c.device = device
	c.mu.Unlock()
	return nil
}

// CreateDataSource creates a new zwlr_data_control_source_v1 and starts
// listening for its send/cancelled events.
func (c *Client) CreateDataSource() (SourceHandle, error) {
	c.mu.Lock()
	manager := c.manager
	c.mu.Unlock()
	if manager == 0 {
		return 0, fmt.Errorf("%w: data control manager not bound", ErrUnavailable)
	}

	src := wlProxyMarshalConstructor(manager, protocol.ManagerCreateDataSource, dcSourceInterfacePtr)
	if src == 0 {
		return 0, fmt.Errorf("%w: failed to create data source", ErrUnavailable)
	}
	addListener(src, unsafe.Pointer(&sourceListenerTable), c.handle)
	return SourceHandle(src), nil
}

// OfferMime advertises one MIME type on a data source.
func (c *Client) OfferMime(src SourceHandle, mime string) {
	b := append([]byte(mime), 0)
	wlProxyMarshal(uintptr(src), protocol.SourceOffer, uintptr(unsafe.Pointer(&b[0])))
}

// SetSelection attaches src as the current selection, or the primary
// selection when primary is true. A zero src clears the selection.
func (c *Client) SetSelection(src SourceHandle, primary bool) {
	opcode := protocol.DeviceSetSelection
	if primary {
		opcode = protocol.DeviceSetPrimarySelection
	}
	c.mu.Lock()
	device := c.device
	c.mu.Unlock()
	wlProxyMarshal(device, opcode, uintptr(src))
}

// Receive requests the payload for mime on offer, to be written to fd.
// The caller retains ownership of fd; the compositor writes into its own
// reference, so the caller must close its copy immediately afterward for
// the reader to observe EOF.
func (c *Client) Receive(offer OfferHandle, mime string, fd int) {
	b := append([]byte(mime), 0)
	wlProxyMarshal(uintptr(offer), protocol.OfferReceive, uintptr(unsafe.Pointer(&b[0])), uintptr(fd))
}

// DestroyOffer sends zwlr_data_control_offer_v1.destroy and releases the
// local proxy.
func (c *Client) DestroyOffer(offer OfferHandle) {
	if offer == 0 {
		return
	}
	wlProxyMarshal(uintptr(offer), protocol.OfferDestroy)
	wlProxyDestroy(uintptr(offer))
}

// DestroySource sends zwlr_data_control_source_v1.destroy and releases
// the local proxy.
func (c *Client) DestroySource(src SourceHandle) {
	if src == 0 {
		return
	}
	wlProxyMarshal(uintptr(src), protocol.SourceDestroy)
	wlProxyDestroy(uintptr(src))
}

// Roundtrip blocks until the compositor has processed all requests sent
// so far.
func (c *Client) Roundtrip() error {
	if ret := wlDisplayRoundtrip(c.display); ret < 0 {
		return fmt.Errorf("wlclient: roundtrip failed")
	}
	return nil
}

// DispatchBlocking blocks until at least one event has been dispatched.
func (c *Client) DispatchBlocking() error {
	if ret := wlDisplayDispatch(c.display); ret < 0 {
		return fmt.Errorf("wlclient: dispatch failed")
	}
	return nil
}

// DispatchPending dispatches any events already queued, without
// blocking. It reports whether at least one event was dispatched.
func (c *Client) DispatchPending() (bool, error) {
	ret := wlDisplayDispatchPending(c.display)
	if ret < 0 {
		return false, fmt.Errorf("wlclient: dispatch_pending failed")
	}
	return ret > 0, nil
}

// Close releases all proxies owned by this client, in the reverse of
// the order they were bound, and disconnects.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.disconnectLocked()
}

func (c *Client) disconnectLocked() error {
	if c.device != 0 {
		wlProxyDestroy(c.device)
		c.device = 0
	}
	if c.manager != 0 {
		wlProxyDestroy(c.manager)
		c.manager = 0
	}
	if c.seat != 0 {
		wlProxyDestroy(c.seat)
		c.seat = 0
	}
	if c.registry != 0 {
		wlProxyDestroy(c.registry)
		c.registry = 0
	}
	if c.display != 0 {
		wlDisplayDisconnect(c.display)
		c.display = 0
	}
	unregisterClient(c.handle)
	return nil
}
