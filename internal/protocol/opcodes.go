// Copyright 2025 Ayman Bagabas
// SPDX-License-Identifier: MIT

// Package protocol holds the wire constants this client needs from
// wl_registry, wl_seat, and wlr-data-control-unstable-v1: interface names
// advertised by the registry, and the request/event opcodes used to
// marshal requests and recognize events. These mirror the protocol XML
// rather than any particular generated binding.
package protocol

// Interface names as advertised by wl_registry.global.
const (
	InterfaceSeat           = "wl_seat"
	InterfaceDataControlMgr = "zwlr_data_control_manager_v1"
)

// wl_display requests.
const (
	DisplayGetRegistry uint32 = 1
)

// wl_registry requests and events.
const (
	RegistryBind uint32 = 0

	RegistryEventGlobal       = 0
	RegistryEventGlobalRemove = 1
)

// wl_seat events.
const (
	SeatEventCapabilities = 0
	SeatEventName         = 1
)

// zwlr_data_control_manager_v1 requests.
const (
	ManagerCreateDataSource uint32 = 0
	ManagerGetDataDevice    uint32 = 1
)

// zwlr_data_control_device_v1 requests.
const (
	DeviceSetSelection        uint32 = 0
	DeviceSetPrimarySelection uint32 = 2
)

// zwlr_data_control_device_v1 events, numbered in protocol-declared
// order.
const (
	DeviceEventDataOffer        = 0
	DeviceEventSelection        = 1
	DeviceEventFinished         = 2
	DeviceEventPrimarySelection = 3
)

// zwlr_data_control_source_v1 requests and events.
const (
	SourceOffer   uint32 = 0
	SourceDestroy uint32 = 1

	SourceEventSend      = 0
	SourceEventCancelled = 1
)

// zwlr_data_control_offer_v1 requests and events.
const (
	OfferReceive uint32 = 0
	OfferDestroy uint32 = 1

	OfferEventOffer = 0
)
