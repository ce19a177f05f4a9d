// Copyright 2025 Ayman Bagabas
// SPDX-License-Identifier: MIT

//go:build linux

package wlclient

import (
	"sync"
	"unsafe"

	"github.com/ebitengine/purego"

	"github.com/wlrclip/wlrclipboard/internal/protocol"
)

// The listener structs below mirror the layout libwayland expects: one
// function pointer per event, in protocol-declared order. A Client never
// sees these directly; it registers Go functions through Handlers and this
// file threads wl_proxy_add_listener's opaque "data" argument back to the
// right Client.

type registryListener struct {
	Global       uintptr
	GlobalRemove uintptr
}

type seatListener struct {
	Capabilities uintptr
	Name         uintptr
}

type deviceListener struct {
	DataOffer        uintptr
	Selection        uintptr
	Finished         uintptr
	PrimarySelection uintptr
}

type offerListener struct {
	Offer uintptr
}

type sourceListener struct {
	Send      uintptr
	Cancelled uintptr
}

var (
	registryListenerTable registryListener
	seatListenerTable     seatListener
	deviceListenerTable   deviceListener
	offerListenerTable    offerListener
	sourceListenerTable   sourceListener

	listenersOnce sync.Once
)

func ensureListeners() {
	listenersOnce.Do(func() {
		registryListenerTable = registryListener{
			Global:       purego.NewCallback(trampolineRegistryGlobal),
			GlobalRemove: purego.NewCallback(trampolineRegistryGlobalRemove),
		}
		seatListenerTable = seatListener{
			Capabilities: purego.NewCallback(trampolineSeatCapabilities),
			Name:         purego.NewCallback(trampolineSeatName),
		}
		deviceListenerTable = deviceListener{
			DataOffer:        purego.NewCallback(trampolineDeviceDataOffer),
			Selection:        purego.NewCallback(trampolineDeviceSelection),
			Finished:         purego.NewCallback(trampolineDeviceFinished),
			PrimarySelection: purego.NewCallback(trampolineDevicePrimarySelection),
		}
		offerListenerTable = offerListener{
			Offer: purego.NewCallback(trampolineOfferOffer),
		}
		sourceListenerTable = sourceListener{
			Send:      purego.NewCallback(trampolineSourceSend),
			Cancelled: purego.NewCallback(trampolineSourceCancelled),
		}
	})
}

func addListener(proxy uintptr, table unsafe.Pointer, data uintptr) {
	wlProxyAddListener(proxy, uintptr(table), data)
}

// clients routes a listener's opaque "data" handle back to the Client that
// registered it, since purego callbacks must be fixed package-level
// functions rather than closures.
var (
	clientsMu  sync.Mutex
	clients    = map[uintptr]*Client{}
	nextHandle uintptr
)

func registerClient(c *Client) uintptr {
	clientsMu.Lock()
	defer clientsMu.Unlock()
	nextHandle++
	h := nextHandle
	clients[h] = c
	return h
}

func unregisterClient(h uintptr) {
	clientsMu.Lock()
	defer clientsMu.Unlock()
	delete(clients, h)
}

func lookupClient(h uintptr) *Client {
	clientsMu.Lock()
	defer clientsMu.Unlock()
	return clients[h]
}

func cString(ptr *byte) string {
	if ptr == nil {
		return ""
	}
	var buf []byte
	for i := uintptr(0); ; i++ {
		b := *(*byte)(unsafe.Pointer(uintptr(unsafe.Pointer(ptr)) + i))
		if b == 0 {
			break
		}
		buf = append(buf, b)
	}
	return string(buf)
}

//go:uintptrescapes
func trampolineRegistryGlobal(data uintptr, registry uintptr, name uint32, iface *byte, version uint32) {
	c := lookupClient(data)
	if c == nil {
		return
	}
	switch cString(iface) {
	case protocol.InterfaceSeat:
		seat := wlProxyMarshalConstructor(registry, protocol.RegistryBind, wlSeatInterfacePtr,
			uintptr(name), uintptr(unsafe.Pointer(iface)), uintptr(version))
		c.mu.Lock()
		c.seat = seat
		c.seatGlobalName = name
		c.mu.Unlock()
		addListener(seat, unsafe.Pointer(&seatListenerTable), data)
	case protocol.InterfaceDataControlMgr:
		manager := wlProxyMarshalConstructor(registry, protocol.RegistryBind, dcManagerInterfacePtr,
			uintptr(name), uintptr(unsafe.Pointer(iface)), uintptr(version))
		c.mu.Lock()
		c.manager = manager
		c.managerGlobalName = name
		c.mu.Unlock()
	}
}

//go:uintptrescapes
func trampolineRegistryGlobalRemove(data uintptr, _ uintptr, name uint32) {
	c := lookupClient(data)
	if c == nil {
		return
	}
	c.mu.Lock()
	lost := name == c.seatGlobalName || name == c.managerGlobalName
	c.mu.Unlock()
	if lost {
		c.lost.Store(true)
	}
}

//go:uintptrescapes
func trampolineSeatCapabilities(_ uintptr, _ uintptr, _ uint32) {}

//go:uintptrescapes
func trampolineSeatName(data uintptr, _ uintptr, name *byte) {
	c := lookupClient(data)
	if c == nil {
		return
	}
	n := cString(name)
	c.mu.Lock()
	c.seatHumanName = n
	c.mu.Unlock()
	if c.handlers.OnSeatName != nil {
		c.handlers.OnSeatName(n)
	}
}

//go:uintptrescapes
func trampolineDeviceDataOffer(data uintptr, _ uintptr, id uintptr) {
	c := lookupClient(data)
	if c == nil {
		return
	}
	addListener(id, unsafe.Pointer(&offerListenerTable), data)
	if c.handlers.OnDataOffer != nil {
		c.handlers.OnDataOffer(OfferHandle(id))
	}
}

//go:uintptrescapes
func trampolineDeviceSelection(data uintptr, _ uintptr, id uintptr) {
	c := lookupClient(data)
	if c == nil {
		return
	}
	if c.handlers.OnSelection != nil {
		c.handlers.OnSelection(OfferHandle(id))
	}
}

//go:uintptrescapes
func trampolineDeviceFinished(data uintptr, _ uintptr) {
	c := lookupClient(data)
	if c == nil {
		return
	}
	if c.handlers.OnFinished != nil {
		c.handlers.OnFinished()
	}
}

//go:uintptrescapes
func trampolineDevicePrimarySelection(data uintptr, _ uintptr, id uintptr) {
	c := lookupClient(data)
	if c == nil {
		return
	}
	if c.handlers.OnPrimarySelection != nil {
		c.handlers.OnPrimarySelection(OfferHandle(id))
	}
}

//go:uintptrescapes
func trampolineOfferOffer(data uintptr, offer uintptr, mime *byte) {
	c := lookupClient(data)
	if c == nil {
		return
	}
	if c.handlers.OnOfferMime != nil {
		c.handlers.OnOfferMime(OfferHandle(offer), cString(mime))
	}
}

//go:uintptrescapes
func trampolineSourceSend(data uintptr, source uintptr, mime *byte, fd int32) {
	c := lookupClient(data)
	if c == nil {
		return
	}
	if c.handlers.OnSourceSend != nil {
		c.handlers.OnSourceSend(SourceHandle(source), cString(mime), fd)
	}
}

//go:uintptrescapes
func trampolineSourceCancelled(data uintptr, source uintptr) {
	c := lookupClient(data)
	if c == nil {
		return
	}
	if c.handlers.OnSourceCancelled != nil {
		c.handlers.OnSourceCancelled(SourceHandle(source))
	}
}
