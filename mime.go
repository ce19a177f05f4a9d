// Copyright 2025 Ayman Bagabas
// SPDX-License-Identifier: MIT

package wlrclipboard

import "strings"

// MimeText is the canonical text MIME type recognized for the text
// fast-path.
const MimeText = "text/plain;charset=utf-8"

// isText reports whether mimes represents a plain-text selection:
// MimeText is present and no image/* type is.
func isText(mimes []string) bool {
	hasText := false
	for _, m := range mimes {
		if strings.HasPrefix(m, "image/") {
			return false
		}
		if m == MimeText {
			hasText = true
		}
	}
	return hasText
}

// selectMime implements the MIME selection policy: a caller-supplied
// priority list wins if any of its entries are present in mimes, tried in
// priority order; otherwise an empty or text-shaped mimes list falls back
// to MimeText, and any other list falls back to its first, insertion-order
// entry.
func selectMime(mimes []string, priority []string) string {
	for _, p := range priority {
		for _, m := range mimes {
			if m == p {
				return p
			}
		}
	}
	if len(mimes) == 0 || isText(mimes) {
		return MimeText
	}
	return mimes[0]
}
