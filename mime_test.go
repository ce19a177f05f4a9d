// Copyright 2025 Ayman Bagabas
// SPDX-License-Identifier: MIT

package wlrclipboard

import "testing"

func TestIsText(t *testing.T) {
	cases := []struct {
		name  string
		mimes []string
		want  bool
	}{
		{"empty", nil, false},
		{"text only", []string{MimeText}, true},
		{"text plus other", []string{MimeText, "text/html"}, true},
		{"text plus image", []string{MimeText, "image/png"}, false},
		{"image only", []string{"image/png"}, false},
		{"no canonical text", []string{"text/html"}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := isText(tc.mimes); got != tc.want {
				t.Errorf("isText(%v) = %v, want %v", tc.mimes, got, tc.want)
			}
		})
	}
}

func TestSelectMime(t *testing.T) {
	cases := []struct {
		name     string
		mimes    []string
		priority []string
		want     string
	}{
		{"empty offer falls back to text", nil, nil, MimeText},
		{"text-shaped offer falls back to text", []string{MimeText, "text/html"}, nil, MimeText},
		{"non-text offer takes first entry", []string{"image/png", "text/html"}, nil, "image/png"},
		{
			"priority wins over text fast-path",
			[]string{MimeText, "application/x-foo"},
			[]string{"application/x-foo"},
			"application/x-foo",
		},
		{
			"priority list tried in order",
			[]string{"b", "a"},
			[]string{"a", "b"},
			"a",
		},
		{
			"priority miss falls through to policy",
			[]string{"image/png"},
			[]string{"application/x-not-present"},
			"image/png",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := selectMime(tc.mimes, tc.priority); got != tc.want {
				t.Errorf("selectMime(%v, %v) = %q, want %q", tc.mimes, tc.priority, got, tc.want)
			}
		})
	}
}
