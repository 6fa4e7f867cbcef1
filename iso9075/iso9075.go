// Package iso9075 maps arbitrary text to XML NCNames and back.
//
// Runes that may not appear at their position are replaced by the escape
// token _xHHHH_ (ISO/IEC 9075-14 SQL/XML name mapping). A literal underscore
// that would otherwise start something that decodes as a token is itself
// escaped as _x005f_, so Decode(Encode(s)) == s for every s.
//
// Runes above U+FFFF that need escaping are written as two tokens holding
// their UTF-16 surrogate halves; Decode joins such pairs again.
package iso9075

import (
	"fmt"
	"unicode/utf16"
	"unicode/utf8"

	"github.com/niklasfasching/iso9075/ncname"
)

const tokenLen = len("_x0000_")

// Encode escapes s into an NCName using ncname.IsNameChar.
func Encode(s string) string {
	return EncodeWith(s, ncname.IsNameChar)
}

// EncodeWith escapes every rune of s that v rejects at its position.
func EncodeWith(s string, v ncname.Validator) string {
	bs, _, _ := encode(nil, s, 0, v, true)
	return string(bs)
}

// Decode replaces every escape token in s with the rune it denotes.
// Everything else is copied as is; Decode never fails.
func Decode(s string) string {
	bs, _ := decode(nil, s, true)
	return string(bs)
}

// Encoder encodes a name that arrives in chunks. Positions are counted over
// the whole stream, so only the very first rune is checked as a name start.
// An Encoder must not be used concurrently.
type Encoder struct {
	v       ncname.Validator
	pos     int
	pending string
}

func NewEncoder(v ncname.Validator) *Encoder {
	if v == nil {
		v = ncname.IsNameChar
	}
	return &Encoder{v: v}
}

// Encode encodes the next chunk and returns the output together with the
// number of runes it covers. Unless final is set, a trailing partial rune or
// a trailing prefix of an escape token is held back until the next call.
func (e *Encoder) Encode(chunk string, final bool) (string, int) {
	src, start := e.pending+chunk, e.pos
	bs, n, pos := encode(nil, src, e.pos, e.v, final)
	e.pending, e.pos = src[n:], pos
	return string(bs), pos - start
}

// Pos returns the number of runes encoded so far.
func (e *Encoder) Pos() int { return e.pos }

func (e *Encoder) Reset() { e.pos, e.pending = 0, "" }

func encode(dst []byte, s string, pos int, v ncname.Validator, atEOF bool) ([]byte, int, int) {
	n := 0
	for n < len(s) {
		var w int
		var ok bool
		if dst, w, ok = encodeRune(dst, s[n:], pos, v, atEOF); !ok {
			break
		}
		n, pos = n+w, pos+1
	}
	return dst, n, pos
}

// encodeRune encodes the first rune of s. ok is false if more input is
// needed to decide.
func encodeRune(dst []byte, s string, pos int, v ncname.Validator, atEOF bool) (_ []byte, w int, ok bool) {
	r, w := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError && !atEOF && !utf8.FullRuneInString(s) {
		return dst, 0, false
	}
	if !v(pos, r) {
		return appendToken(dst, r), w, true
	}
	if r == '_' {
		escape, ok := mustEscape(s, pos, v, atEOF)
		if !ok {
			return dst, 0, false
		} else if escape {
			return appendToken(dst, r), w, true
		}
	}
	return utf8.AppendRune(dst, r), w, true
}

// mustEscape reports whether the underscore at the start of s would form an
// escape token together with the following output. That is the case if it is
// followed by x and 4 hex digits and then by either another underscore or a
// rune that gets escaped (tokens start with an underscore).
func mustEscape(s string, pos int, v ncname.Validator, atEOF bool) (escape, ok bool) {
	if len(s) < tokenLen || !utf8.FullRuneInString(s[tokenLen-1:]) {
		if !atEOF && isTokenPrefix(s[:min(len(s), tokenLen-1)]) {
			return false, false
		} else if len(s) < tokenLen {
			return false, true
		}
	}
	if !isTokenPrefix(s[:tokenLen-1]) {
		return false, true
	}
	r, _ := utf8.DecodeRuneInString(s[tokenLen-1:])
	return r == '_' || !v(pos+tokenLen-1, r), true
}

func appendToken(dst []byte, r rune) []byte {
	if r > 0xFFFF {
		hi, lo := utf16.EncodeRune(r)
		return appendToken(appendToken(dst, hi), lo)
	}
	return fmt.Appendf(dst, "_x%04x_", r)
}

func decode(dst []byte, s string, atEOF bool) ([]byte, int) {
	n := 0
	for n < len(s) {
		var w int
		var ok bool
		if dst, w, ok = decodeRune(dst, s[n:], atEOF); !ok {
			break
		}
		n += w
	}
	return dst, n
}

func decodeRune(dst []byte, s string, atEOF bool) (_ []byte, w int, ok bool) {
	if s[0] == '_' {
		if r, ok := matchToken(s); ok && !utf16.IsSurrogate(r) {
			return utf8.AppendRune(dst, r), tokenLen, true
		} else if ok {
			if lo, ok := matchToken(s[tokenLen:]); ok && utf16.DecodeRune(r, lo) != utf8.RuneError {
				return utf8.AppendRune(dst, utf16.DecodeRune(r, lo)), 2 * tokenLen, true
			} else if !ok && !atEOF && r < 0xDC00 && isTokenPrefix(s[tokenLen:]) {
				return dst, 0, false
			}
			return utf8.AppendRune(dst, utf8.RuneError), tokenLen, true
		} else if !atEOF && isTokenPrefix(s) {
			return dst, 0, false
		}
	}
	r, w := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError && !atEOF && !utf8.FullRuneInString(s) {
		return dst, 0, false
	}
	return utf8.AppendRune(dst, r), w, true
}

// matchToken parses an escape token at the start of s. Hex digits may be
// upper or lower case.
func matchToken(s string) (rune, bool) {
	if len(s) < tokenLen || s[0] != '_' || s[1] != 'x' || s[tokenLen-1] != '_' {
		return 0, false
	}
	r := rune(0)
	for i := 2; i < tokenLen-1; i++ {
		d, ok := unhex(s[i])
		if !ok {
			return 0, false
		}
		r = r<<4 | d
	}
	return r, true
}

// isTokenPrefix reports whether s is a proper prefix of an escape token.
func isTokenPrefix(s string) bool {
	if len(s) >= tokenLen {
		return false
	}
	for i := 0; i < len(s); i++ {
		switch i {
		case 0:
			if s[i] != '_' {
				return false
			}
		case 1:
			if s[i] != 'x' {
				return false
			}
		default:
			if _, ok := unhex(s[i]); !ok {
				return false
			}
		}
	}
	return true
}

func unhex(b byte) (rune, bool) {
	switch {
	case b >= '0' && b <= '9':
		return rune(b - '0'), true
	case b >= 'a' && b <= 'f':
		return rune(b - 'a' + 10), true
	case b >= 'A' && b <= 'F':
		return rune(b - 'A' + 10), true
	default:
		return 0, false
	}
}
