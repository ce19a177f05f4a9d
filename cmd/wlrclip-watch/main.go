// Copyright 2025 Ayman Bagabas
// SPDX-License-Identifier: MIT

// Command wlrclip-watch streams successive clipboard selections,
// logging each one as a structured event until interrupted.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/wlrclip/wlrclipboard"
)

func main() {
	var (
		primary      bool
		priority     []string
		pollInterval time.Duration
		verbose      bool
	)

	root := &cobra.Command{
		Use:   "wlrclip-watch",
		Short: "Stream clipboard selections as they are published",
		RunE: func(cmd *cobra.Command, args []string) error {
			level := zerolog.InfoLevel
			if verbose {
				level = zerolog.DebugLevel
			}
			log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).
				Level(level).
				With().
				Timestamp().
				Str("component", "wlrclip-watch").
				Logger()

			mode := wlrclipboard.ModeOnSelect
			if primary {
				mode = wlrclipboard.ModeOnCopy
			}
			opts := []wlrclipboard.Option{wlrclipboard.WithPollInterval(pollInterval)}
			if len(priority) > 0 {
				opts = append(opts, wlrclipboard.WithPriority(priority))
			}

			sess, err := wlrclipboard.New(mode, opts...)
			if err != nil {
				log.Error().Err(err).Msg("failed to connect to compositor")
				return err
			}
			defer sess.Close()
			log.Info().Msg("connected, watching for selections")

			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			for res := range sess.Iterate(ctx) {
				corr := uuid.New()
				if res.Err != nil {
					log.Error().Err(res.Err).Str("correlation_id", corr.String()).Msg("session error, stopping")
					return res.Err
				}
				if res.Message == nil {
					log.Debug().Str("correlation_id", corr.String()).Msg("dropped non-text selection")
					continue
				}
				event := log.Info().
					Str("correlation_id", corr.String()).
					Strs("mime_types", res.Message.MimeTypes).
					Bool("is_text", res.Message.IsText).
					Int("bytes", len(res.Message.Bytes))
				if res.Message.IsText {
					event.Str("text", res.Message.Text)
				}
				event.Msg("selection published")
			}
			return nil
		},
	}

	root.Flags().BoolVar(&primary, "wait-for-mimes", false,
		"wait for the full MIME list before choosing a representation, instead of the text fast path")
	root.Flags().StringSliceVar(&priority, "prefer", nil,
		"comma-separated MIME types to prefer over the default selection policy")
	root.Flags().DurationVar(&pollInterval, "poll-interval", 0,
		"delay between successive reads; 0 disables throttling")
	root.Flags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
