// Copyright 2025 Ayman Bagabas
// SPDX-License-Identifier: MIT

// Command wlrclip-paste prints the current wlr-data-control selection
// once and exits.
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/wlrclip/wlrclipboard"
)

func main() {
	var (
		primary  bool
		priority []string
		quiet    bool
	)

	root := &cobra.Command{
		Use:   "wlrclip-paste",
		Short: "Print the current clipboard selection once",
		RunE: func(cmd *cobra.Command, args []string) error {
			mode := wlrclipboard.ModeOnSelect
			if primary {
				mode = wlrclipboard.ModeOnCopy
			}

			opts := []wlrclipboard.Option{}
			if len(priority) > 0 {
				opts = append(opts, wlrclipboard.WithPriority(priority))
			}

			sess, err := wlrclipboard.New(mode, opts...)
			if err != nil {
				return fmt.Errorf("connect: %w", err)
			}
			defer sess.Close()

			msg, err := sess.GetOnce()
			if err != nil {
				return fmt.Errorf("get selection: %w", err)
			}
			if msg == nil {
				if !quiet {
					fmt.Fprintln(os.Stderr, "wlrclip-paste: selection was not text, nothing printed")
				}
				return nil
			}
			if msg.IsText {
				fmt.Print(msg.Text)
			} else {
				os.Stdout.Write(msg.Bytes)
			}
			return nil
		},
	}

	root.Flags().BoolVar(&primary, "wait-for-mimes", false,
		"wait for the full MIME list before choosing a representation, instead of the text fast path")
	root.Flags().StringSliceVar(&priority, "prefer", nil,
		"comma-separated MIME types to prefer over the default selection policy")
	root.Flags().BoolVarP(&quiet, "quiet", "q", false, "suppress the non-text notice on stderr")

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, strings.TrimSpace(err.Error()))
		os.Exit(1)
	}
}
