// Copyright 2025 Ayman Bagabas
// SPDX-License-Identifier: MIT

package wlclient

import "golang.org/x/sys/unix"

// NewPipe creates the anonymous pipe used as the sidechannel for one
// wlr-data-control transfer. The caller hands the write end to Receive
// and must close its own copy immediately afterward so the compositor's
// eventual close produces EOF on the read end.
func NewPipe() (r, w int, err error) {
	var fds [2]int
	if err := unix.Pipe2(fds[:], unix.O_CLOEXEC); err != nil {
		return -1, -1, err
	}
	return fds[0], fds[1], nil
}

// CloseFD closes a file descriptor. A negative fd is a no-op; any error
// from close is returned as is.
func CloseFD(fd int) error {
	if fd < 0 {
		return nil
	}
	return unix.Close(fd)
}

// Dup duplicates a file descriptor onto a new descriptor number backed
// by the same open file description, mirroring what SCM_RIGHTS fd
// passing gives a receiving process: an independent descriptor whose
// lifetime is decoupled from the sender's.
func Dup(fd int) (int, error) {
	return unix.Dup(fd)
}

// WriteAll writes p to fd in full, looping over short writes.
func WriteAll(fd int, p []byte) error {
	for len(p) > 0 {
		n, err := unix.Write(fd, p)
		if err != nil {
			if err == unix.EINTR {
				continue
			}
			return err
		}
		p = p[n:]
	}
	return nil
}

// ReadAll reads fd to EOF.
func ReadAll(fd int) ([]byte, error) {
	var buf []byte
	chunk := make([]byte, 4096)
	for {
		n, err := unix.Read(fd, chunk)
		if n > 0 {
			buf = append(buf, chunk[:n]...)
		}
		if err != nil {
			if err == unix.EINTR {
				continue
			}
			return buf, err
		}
		if n == 0 {
			return buf, nil
		}
	}
}
