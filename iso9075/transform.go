package iso9075

import (
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/transform"

	"github.com/niklasfasching/iso9075/ncname"
)

// Codec exposes the name mapping as an x/text encoding, e.g. for use with
// transform.NewReader. Registering it anywhere is up to the caller.
type Codec struct {
	Name     string
	Validate ncname.Validator
}

var ISO9075 = Codec{Name: "iso9075", Validate: ncname.IsNameChar}

var _ encoding.Encoding = Codec{}

func (c Codec) NewEncoder() *encoding.Encoder {
	v := c.Validate
	if v == nil {
		v = ncname.IsNameChar
	}
	return &encoding.Encoder{Transformer: &encoder{v: v}}
}

func (c Codec) NewDecoder() *encoding.Decoder {
	return &encoding.Decoder{Transformer: decoder{}}
}

func (c Codec) String() string { return c.Name }

type encoder struct {
	v   ncname.Validator
	pos int
}

type decoder struct{ transform.NopResetter }

func (e *encoder) Reset() { e.pos = 0 }

func (e *encoder) Transform(dst, src []byte, atEOF bool) (nDst, nSrc int, err error) {
	s, buf := string(src), make([]byte, 0, 2*tokenLen)
	for nSrc < len(s) {
		bs, w, ok := encodeRune(buf[:0], s[nSrc:], e.pos, e.v, atEOF)
		if !ok {
			return nDst, nSrc, transform.ErrShortSrc
		} else if nDst+len(bs) > len(dst) {
			return nDst, nSrc, transform.ErrShortDst
		}
		nDst += copy(dst[nDst:], bs)
		nSrc, e.pos = nSrc+w, e.pos+1
	}
	return nDst, nSrc, nil
}

func (decoder) Transform(dst, src []byte, atEOF bool) (nDst, nSrc int, err error) {
	s, buf := string(src), make([]byte, 0, utf8.UTFMax)
	for nSrc < len(s) {
		bs, w, ok := decodeRune(buf[:0], s[nSrc:], atEOF)
		if !ok {
			return nDst, nSrc, transform.ErrShortSrc
		} else if nDst+len(bs) > len(dst) {
			return nDst, nSrc, transform.ErrShortDst
		}
		nDst += copy(dst[nDst:], bs)
		nSrc += w
	}
	return nDst, nSrc, nil
}
