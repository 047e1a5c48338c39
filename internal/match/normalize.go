// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package match

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Normalize folds text into the ASCII layout the row patterns expect. NFKC
// turns no-break, thin and full-width spaces into plain spaces and
// full-width digits and signs into ASCII; any other Unicode space left
// afterwards (e.g. U+2028) becomes a plain space. ASCII whitespace,
// newlines included, is kept as is.
func Normalize(text string) string {
	text = norm.NFKC.String(text)
	return strings.Map(func(r rune) rune {
		if r > unicode.MaxASCII && unicode.IsSpace(r) {
			return ' '
		}
		return r
	}, text)
}
