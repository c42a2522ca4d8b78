package segment

import "regexp"

// SkipPattern recognizes decimal numbers and alphanumeric runs. The
// segmentation driver runs it over every non-CJK run of a paragraph to
// decide which stretches become one token instead of one token per
// character.
var SkipPattern = regexp.MustCompile(`(\d+\.\d+|[a-zA-Z0-9]+)`)

var connectors = map[rune]bool{
	'+': true,
	'#': true,
	'&': true,
	'.': true,
	'_': true,
	'-': true,
}

// normalize maps full-width punctuation/letters and ideographic space to
// their half-width equivalents, then lower-cases any resulting ASCII
// letter (so a full-width 'Ａ' ends up 'a' in one pass, not 'A'). It is
// idempotent.
func normalize(c rune) rune {
	switch {
	case c == '　':
		c = ' '
	case c >= '！' && c <= '～':
		c = c - 0xFEE0
	}
	if c >= 'A' && c <= 'Z' {
		c += 0x20
	}
	return c
}

// isCJK reports whether c falls in the basic CJK unified ideograph block.
func isCJK(c rune) bool {
	return c >= 0x4E00 && c <= 0x9FA5
}

func isASCIILetter(c rune) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isDigit(c rune) bool {
	return c >= '0' && c <= '9'
}

func isConnector(c rune) bool {
	return connectors[c]
}

// isCC reports whether c is CJK, an ASCII letter, a digit, or a connector.
// The segmentation driver does not use it: Process splits its input into
// isCJK runs and non-CJK runs instead.
func isCC(c rune) bool {
	return isCJK(c) || isASCIILetter(c) || isDigit(c) || isConnector(c)
}
