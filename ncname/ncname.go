// Package ncname classifies runes by the XML NCName production.
// https://www.w3.org/TR/xml-names/#NT-NCName
package ncname

import (
	"unicode"
	"unicode/utf8"
)

// Validator reports whether r may appear unescaped at rune position pos of a name.
type Validator func(pos int, r rune) bool

var NameStart = &unicode.RangeTable{
	R16: []unicode.Range16{
		{Lo: 'A', Hi: 'Z', Stride: 1},
		{Lo: '_', Hi: '_', Stride: 1},
		{Lo: 'a', Hi: 'z', Stride: 1},
		{Lo: 0x00C0, Hi: 0x00D6, Stride: 1},
		{Lo: 0x00D8, Hi: 0x00F6, Stride: 1},
		{Lo: 0x00F8, Hi: 0x02FF, Stride: 1},
		{Lo: 0x0370, Hi: 0x037D, Stride: 1},
		{Lo: 0x037F, Hi: 0x1FFF, Stride: 1},
		{Lo: 0x200C, Hi: 0x200D, Stride: 1},
		{Lo: 0x2070, Hi: 0x218F, Stride: 1},
		{Lo: 0x2C00, Hi: 0x2FEF, Stride: 1},
		{Lo: 0x3001, Hi: 0xD7FF, Stride: 1},
		{Lo: 0xF900, Hi: 0xFDCF, Stride: 1},
		{Lo: 0xFDF0, Hi: 0xFFFD, Stride: 1},
	},
	R32: []unicode.Range32{
		{Lo: 0x10000, Hi: 0xEFFFF, Stride: 1},
	},
	LatinOffset: 5,
}

// NameContinue holds the runes allowed after the first position in addition to NameStart.
var NameContinue = &unicode.RangeTable{
	R16: []unicode.Range16{
		{Lo: '-', Hi: '.', Stride: 1},
		{Lo: '0', Hi: '9', Stride: 1},
		{Lo: 0x00B7, Hi: 0x00B7, Stride: 1},
		{Lo: 0x0300, Hi: 0x036F, Stride: 1},
		{Lo: 0x203F, Hi: 0x2040, Stride: 1},
	},
	LatinOffset: 3,
}

// IsNameChar is the default Validator. Any pos <= 0 counts as the start of a name.
func IsNameChar(pos int, r rune) bool {
	if r < utf8.RuneSelf {
		return isNameByte(pos, byte(r))
	}
	return unicode.Is(NameStart, r) || pos > 0 && unicode.Is(NameContinue, r)
}

// Valid reports whether s is a non-empty NCName.
func Valid(s string) bool {
	return ValidWith(s, IsNameChar)
}

func ValidWith(s string, v Validator) bool {
	i := 0
	for _, r := range s {
		if !v(i, r) {
			return false
		}
		i++
	}
	return i > 0
}

func isNameByte(pos int, b byte) bool {
	switch {
	case b >= 'A' && b <= 'Z', b >= 'a' && b <= 'z', b == '_':
		return true
	case pos <= 0:
		return false
	case b >= '0' && b <= '9', b == '-', b == '.':
		return true
	default:
		return false
	}
}
