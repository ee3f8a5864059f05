// © 2026 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

package tgmarkup

import (
	"testing"

	"go.astrophena.name/tgcrm/internal/testutil"
)

func TestFromMarkdown(t *testing.T) {
	cases := map[string]struct {
		in   string
		want Message
	}{
		"plain": {
			in:   "Hello, world!",
			want: Message{Text: "Hello, world!"},
		},
		"bold": {
			in: "**Welcome!** Tap the button below.",
			want: Message{
				Text: "Welcome! Tap the button below.",
				Entities: []Entity{
					{Type: Bold, Offset: 0, Length: 8},
				},
			},
		},
		"italic": {
			in: "a *b* c",
			want: Message{
				Text: "a b c",
				Entities: []Entity{
					{Type: Italic, Offset: 2, Length: 1},
				},
			},
		},
		"code": {
			in: "run `tgcrm`",
			want: Message{
				Text: "run tgcrm",
				Entities: []Entity{
					{Type: Code, Offset: 4, Length: 5},
				},
			},
		},
		"link": {
			in: "open [the app](https://crm.example.com)",
			want: Message{
				Text: "open the app",
				Entities: []Entity{
					{Type: TextLink, Offset: 5, Length: 7, URL: "https://crm.example.com"},
				},
			},
		},
		"offsets are in UTF-16 code units": {
			in: "👋 **hi**",
			want: Message{
				Text: "👋 hi",
				Entities: []Entity{
					{Type: Bold, Offset: 3, Length: 2},
				},
			},
		},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			testutil.AssertEqual(t, FromMarkdown(tc.in), tc.want)
		})
	}
}
