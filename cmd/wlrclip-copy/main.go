// Copyright 2025 Ayman Bagabas
// SPDX-License-Identifier: MIT

// Command wlrclip-copy publishes stdin as the current clipboard
// selection. It daemonizes by default, the way xclip/wl-copy do, so the
// shell that launched it is not held open for the lifetime of the
// selection.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/wlrclip/wlrclipboard"
)

// daemonizedMarker, when set in the environment, tells a re-exec'd
// process it is already the detached child and must not re-exec again.
const daemonizedMarker = "WLRCLIP_COPY_DAEMONIZED"

func main() {
	var (
		primary    bool
		mimes      []string
		foreground bool
	)

	root := &cobra.Command{
		Use:   "wlrclip-copy",
		Short: "Publish stdin as the clipboard selection",
		RunE: func(cmd *cobra.Command, args []string) error {
			payload, err := io.ReadAll(os.Stdin)
			if err != nil {
				return fmt.Errorf("read stdin: %w", err)
			}
			if len(mimes) == 0 {
				mimes = []string{wlrclipboard.MimeText}
			}

			if !foreground && os.Getenv(daemonizedMarker) == "" {
				return daemonize(payload)
			}

			sess, err := wlrclipboard.New(wlrclipboard.ModeOnCopy)
			if err != nil {
				return fmt.Errorf("connect: %w", err)
			}
			defer sess.Close()

			// Copy blocks in the source-server loop until the compositor
			// cancels this source in favor of a newer selection, so it
			// runs on its own goroutine; a signal tears the session down
			// to unblock it early, mirroring how a real data source's
			// lifetime is tied to staying the owner of the selection.
			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			copyDone := make(chan error, 1)
			go func() { copyDone <- sess.Copy(payload, mimes, primary) }()

			select {
			case err := <-copyDone:
				if err != nil {
					return fmt.Errorf("publish selection: %w", err)
				}
				return nil
			case <-ctx.Done():
				sess.Close()
				<-copyDone
				return nil
			}
		},
	}

	root.Flags().BoolVar(&primary, "primary", false, "also set the primary selection")
	root.Flags().StringSliceVar(&mimes, "mime", nil, "MIME types to advertise (default: text/plain;charset=utf-8)")
	root.Flags().BoolVarP(&foreground, "foreground", "f", false, "do not daemonize; block in this process")

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, strings.TrimSpace(err.Error()))
		os.Exit(1)
	}
}

// daemonize re-execs the current process detached from the controlling
// terminal, forwarding payload to the child over a pipe standing in for
// stdin. Go's runtime makes a raw fork(2) unsafe once goroutines are
// running, so re-exec stands in for the original tool's fork-based
// daemonize; the child is told not to re-exec again via daemonizedMarker.
func daemonize(payload []byte) error {
	r, w, err := os.Pipe()
	if err != nil {
		return fmt.Errorf("daemonize: create stdin pipe: %w", err)
	}

	devnull, err := os.OpenFile(os.DevNull, os.O_RDWR, 0)
	if err != nil {
		r.Close()
		w.Close()
		return fmt.Errorf("daemonize: open %s: %w", os.DevNull, err)
	}
	defer devnull.Close()

	cmd := exec.Command(os.Args[0], os.Args[1:]...)
	cmd.Env = append(os.Environ(), daemonizedMarker+"=1")
	cmd.Stdin = r
	cmd.Stdout = devnull
	cmd.Stderr = devnull
	cmd.SysProcAttr = &syscall.SysProcAttr{Setsid: true}

	if err := cmd.Start(); err != nil {
		r.Close()
		w.Close()
		return fmt.Errorf("daemonize: start detached child: %w", err)
	}
	r.Close()

	if _, err := w.Write(payload); err != nil {
		w.Close()
		return fmt.Errorf("daemonize: forward payload: %w", err)
	}
	return w.Close()
}
