package iso9075

import (
	"math/rand"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/niklasfasching/iso9075/ncname"
	"github.com/niklasfasching/iso9075/util"
)

var encodeCases = []struct{ in, out string }{
	{"", ""},
	{"a", "a"},
	{"5", "_x0035_"},
	{"a5", "a5"},
	{"\x01", "_x0001_"},
	{"a\x01", "a_x0001_"},
	{"foo bar", "foo_x0020_bar"},
	{"-a", "_x002d_a"},
	{"a-b.c", "a-b.c"},
	{"a:b", "a_x003a_b"},
	{"·", "_x00b7_"},
	{"a·", "a·"},
	{"\u0301", "_x0301_"},
	{"a\u0301", "a\u0301"},
	{"_", "_"},
	{"_x0041_", "_x005f_x0041_"},
	{"_x004a_", "_x005f_x004a_"},
	{"_x004A_", "_x005f_x004A_"},
	{"_x0041_x0042_", "_x005f_x0041_x005f_x0042_"},
	{"_x0041 ", "_x005f_x0041_x0020_"},
	{"_x0041", "_x0041"},
	{"_x0041a", "_x0041a"},
	{"_X0041_", "_X0041_"},
	{"_x004G_", "_x004G_"},
	{"_x00", "_x00"},
	{"😀", "😀"},
	{"\U000F0000", "_xdb80__xdc00_"},
	{"a\U0010FFFF", "a_xdbff__xdfff_"},
	{"\xff", "\uFFFD"},
	{"Außenlicht-Status", "Außenlicht-Status"},
}

var decodeCases = []struct{ in, out string }{
	{"", ""},
	{"_x0041_", "A"},
	{"_x004a_", "J"},
	{"_x004A_", "J"},
	{"_x0041", "_x0041"},
	{"_X0041_", "_X0041_"},
	{"_x004G_", "_x004G_"},
	{"a_x0020_b", "a b"},
	{"_x005f_x0041_", "_x0041_"},
	{"__x0041_", "_A"},
	{"_x0035_", "5"},
	{"_xdb80__xdc00_", "\U000F0000"},
	{"_xD83D__xDE00_", "😀"},
	{"_xd800_", "\uFFFD"},
	{"_xd800_x", "\uFFFDx"},
	{"_xd800__x0041_", "\uFFFDA"},
	{"_xdc00_", "\uFFFD"},
	{"_xdc00__xd800_", "\uFFFD\uFFFD"},
	{"\xff", "\uFFFD"},
}

var roundTripCases = []string{
	"", "_", "__", "_x", "_x0041_", "_x0041", "_x0041 ", "_x0041__x0042_",
	"_x005f_", "__x0041__", "1st Floor / Room 2", "Temperatur (°C)",
	"\x00\x01\x02", "a\U000F0000b", "😀_x0041_😀", "\uFFFD", "_x0041\U000F0000",
	"_xd800_", "_xdb80__xdc00_",
}

func TestEncode(t *testing.T) {
	for _, c := range encodeCases {
		if actual := Encode(c.in); actual != c.out {
			t.Errorf("Encode(%q): got %q, expected %q", c.in, actual, c.out)
		}
	}
}

func TestDecode(t *testing.T) {
	for _, c := range decodeCases {
		if actual := Decode(c.in); actual != c.out {
			t.Errorf("Decode(%q): got %q, expected %q", c.in, actual, c.out)
		}
	}
}

func TestEncodeWith(t *testing.T) {
	lettersOnly := func(pos int, r rune) bool { return r >= 'a' && r <= 'z' }
	cases := []struct{ in, out string }{
		{"abc", "abc"},
		{"a_b", "a_x005f_b"},
		{"A", "_x0041_"},
		{"ab1", "ab_x0031_"},
		{"_x0041_", "_x005f_x_x0030__x0030__x0034__x0031__x005f_"},
	}
	for _, c := range cases {
		actual := EncodeWith(c.in, lettersOnly)
		if actual != c.out {
			t.Errorf("EncodeWith(%q): got %q, expected %q", c.in, actual, c.out)
		}
		if decoded := Decode(actual); decoded != c.in {
			t.Errorf("Decode(%q): got %q, expected %q", actual, decoded, c.in)
		}
	}
}

func TestRoundTrip(t *testing.T) {
	check := func(s string) {
		t.Helper()
		encoded := Encode(s)
		if decoded := Decode(encoded); decoded != s {
			t.Errorf("Decode(Encode(%q)): got %q via %q", s, decoded, encoded)
		}
		if s != "" && !ncname.Valid(encoded) {
			t.Errorf("Encode(%q): %q is not a valid NCName", s, encoded)
		}
	}
	for _, s := range roundTripCases {
		check(s)
	}
	for r := rune(0); r <= 0xFFFF; r++ {
		if r >= 0xD800 && r <= 0xDFFF {
			continue
		}
		check(string(r))
		check("a" + string(r))
		check("_x004" + string(r) + "_")
		check("_x0041" + string(r))
	}
}

func TestRoundTripRandom(t *testing.T) {
	alphabet := []rune("_x0041aAfF- .:·\u0301\x01😀\U000F0000")
	rnd := rand.New(rand.NewSource(9075))
	for i := 0; i < 20000; i++ {
		rs := make([]rune, rnd.Intn(20))
		for j := range rs {
			rs[j] = alphabet[rnd.Intn(len(alphabet))]
		}
		s := string(rs)
		if encoded := Encode(s); Decode(encoded) != s {
			t.Fatalf("Decode(Encode(%q)): got %q via %q", s, Decode(encoded), encoded)
		} else if s != "" && !ncname.Valid(encoded) {
			t.Fatalf("Encode(%q): %q is not a valid NCName", s, encoded)
		}
	}
}

func TestEncoder(t *testing.T) {
	inputs := append([]string{"5", "a5", "a5_x0041_b", "x_x00_x0041 z", "é5_x00e9_"}, roundTripCases...)
	for _, s := range inputs {
		expected := Encode(s)
		for i := 0; i <= len(s); i++ {
			e := NewEncoder(ncname.IsNameChar)
			a, n1 := e.Encode(s[:i], false)
			b, n2 := e.Encode(s[i:], true)
			if a+b != expected {
				t.Errorf("%q split at %d: got %q + %q, expected %q", s, i, a, b, expected)
			}
			if n := utf8.RuneCountInString(s); n1+n2 != n || e.Pos() != n {
				t.Errorf("%q split at %d: got %d + %d runes (pos %d), expected %d", s, i, n1, n2, e.Pos(), n)
			}
		}
	}
}

func TestEncoderPosition(t *testing.T) {
	e := NewEncoder(nil)
	if out, n := e.Encode("a", false); out != "a" || n != 1 {
		t.Errorf("got %q %d", out, n)
	}
	if out, _ := e.Encode("5", false); out != "5" {
		t.Errorf("digit after first chunk: got %q, expected %q", out, "5")
	}
	if out, n := e.Encode("_x00", false); out != "" || n != 0 {
		t.Errorf("token prefix should be held back: got %q %d", out, n)
	}
	if out, n := e.Encode("41_", true); out != "_x005f_x0041_" || n != 7 {
		t.Errorf("got %q %d, expected %q 7", out, n, "_x005f_x0041_")
	}
	e.Reset()
	if out, _ := e.Encode("5", true); out != "_x0035_" {
		t.Errorf("after reset: got %q, expected %q", out, "_x0035_")
	}
}

func TestEncoderChunks(t *testing.T) {
	s := "Kanal 1: _x0041_ Licht·Küche 😀\U000F0000"
	e, w := NewEncoder(nil), &strings.Builder{}
	for _, r := range s {
		out, _ := e.Encode(string(r), false)
		w.WriteString(out)
	}
	out, _ := e.Encode("", true)
	w.WriteString(out)
	if expected := Encode(s); w.String() != expected {
		t.Errorf("got %q, expected %q", w.String(), expected)
	}
}

func TestEncodeNames(t *testing.T) {
	names := []string{
		"Channel A: Switch",
		"1st Floor / Room 2",
		"Temperatur (°C)",
		"Dimmwert 0..100 %",
		"_x0041_",
		"Außenlicht-Status",
		"Ventil·Stellung",
		"M-00A5_CS-6",
	}
	pairs := [][2]string{}
	for _, n := range names {
		pairs = append(pairs, [2]string{n, Encode(n)})
	}
	util.Snapshot(t, pairs)
}

func BenchmarkEncode(b *testing.B) {
	s := strings.Repeat("Channel A: Switch _x0041_ ", 10)
	for i := 0; i < b.N; i++ {
		Encode(s)
	}
}

func BenchmarkDecode(b *testing.B) {
	s := Encode(strings.Repeat("Channel A: Switch _x0041_ ", 10))
	for i := 0; i < b.N; i++ {
		Decode(s)
	}
}
