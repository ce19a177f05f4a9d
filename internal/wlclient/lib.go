// Copyright 2025 Ayman Bagabas
// SPDX-License-Identifier: MIT

//go:build linux

package wlclient

import (
	"errors"
	"fmt"
	"sync"

	"github.com/ebitengine/purego"
)

// ErrUnavailable indicates the Wayland compositor, or one of the globals
// this package needs from it, could not be reached.
var ErrUnavailable = errors.New("wlclient: wayland compositor unavailable")

var (
	libwayland uintptr
	libOnce    sync.Once
	libErr     error

	wlDisplayConnect         func(name *byte) uintptr
	wlDisplayDisconnect      func(display uintptr)
	wlDisplayRoundtrip       func(display uintptr) int32
	wlDisplayDispatch        func(display uintptr) int32
	wlDisplayDispatchPending func(display uintptr) int32

	wlProxyMarshalConstructor func(proxy uintptr, opcode uint32, iface uintptr, args ...uintptr) uintptr
	wlProxyMarshal            func(proxy uintptr, opcode uint32, args ...uintptr)
	wlProxyAddListener        func(proxy uintptr, implementation uintptr, data uintptr) int32
	wlProxyDestroy            func(proxy uintptr)

	wlRegistryInterfacePtr uintptr
	wlSeatInterfacePtr     uintptr
	dcManagerInterfacePtr  uintptr
	dcDeviceInterfacePtr   uintptr
	dcOfferInterfacePtr    uintptr
	dcSourceInterfacePtr   uintptr
)

// ensureLib loads libwayland-client and resolves the function pointers and
// interface descriptors this package needs. It runs once per process.
func ensureLib() error {
	libOnce.Do(func() {
		var err error
		libwayland, err = purego.Dlopen("libwayland-client.so.0", purego.RTLD_LAZY|purego.RTLD_GLOBAL)
		if err != nil {
			libwayland, err = purego.Dlopen("libwayland-client.so", purego.RTLD_LAZY|purego.RTLD_GLOBAL)
		}
		if err != nil {
			libErr = fmt.Errorf("%w: failed to load libwayland-client: %v", ErrUnavailable, err)
			return
		}

		purego.RegisterLibFunc(&wlDisplayConnect, libwayland, "wl_display_connect")
		purego.RegisterLibFunc(&wlDisplayDisconnect, libwayland, "wl_display_disconnect")
		purego.RegisterLibFunc(&wlDisplayRoundtrip, libwayland, "wl_display_roundtrip")
		purego.RegisterLibFunc(&wlDisplayDispatch, libwayland, "wl_display_dispatch")
		purego.RegisterLibFunc(&wlDisplayDispatchPending, libwayland, "wl_display_dispatch_pending")
		purego.RegisterLibFunc(&wlProxyMarshalConstructor, libwayland, "wl_proxy_marshal_constructor")
		purego.RegisterLibFunc(&wlProxyMarshal, libwayland, "wl_proxy_marshal")
		purego.RegisterLibFunc(&wlProxyAddListener, libwayland, "wl_proxy_add_listener")
		purego.RegisterLibFunc(&wlProxyDestroy, libwayland, "wl_proxy_destroy")

		var dsErr error
		if wlRegistryInterfacePtr, dsErr = purego.Dlsym(libwayland, "wl_registry_interface"); dsErr != nil {
			libErr = fmt.Errorf("%w: %v", ErrUnavailable, dsErr)
			return
		}
		if wlSeatInterfacePtr, dsErr = purego.Dlsym(libwayland, "wl_seat_interface"); dsErr != nil {
			libErr = fmt.Errorf("%w: %v", ErrUnavailable, dsErr)
			return
		}
		// The wlr-data-control interface descriptors aren't part of core
		// libwayland-client, but a compositor advertising
		// zwlr_data_control_manager_v1 implies its protocol support library
		// is loaded into the process the same way the core wl_* ones are,
		// so we resolve them by the same mechanism.
		if dcManagerInterfacePtr, dsErr = purego.Dlsym(libwayland, "zwlr_data_control_manager_v1_interface"); dsErr != nil {
			libErr = fmt.Errorf("%w: %v", ErrUnavailable, dsErr)
			return
		}
		if dcDeviceInterfacePtr, dsErr = purego.Dlsym(libwayland, "zwlr_data_control_device_v1_interface"); dsErr != nil {
			libErr = fmt.Errorf("%w: %v", ErrUnavailable, dsErr)
			return
		}
		if dcOfferInterfacePtr, dsErr = purego.Dlsym(libwayland, "zwlr_data_control_offer_v1_interface"); dsErr != nil {
			libErr = fmt.Errorf("%w: %v", ErrUnavailable, dsErr)
			return
		}
		if dcSourceInterfacePtr, dsErr = purego.Dlsym(libwayland, "zwlr_data_control_source_v1_interface"); dsErr != nil {
			libErr = fmt.Errorf("%w: %v", ErrUnavailable, dsErr)
			return
		}

		ensureListeners()
	})
	return libErr
}
