// grammar/grammar_test.go
// Copyright(c) 2022 Matt Pharr, Apache License

package grammar

import (
	"errors"
	"math"
	"testing"
)

func TestScan(t *testing.T) {
	text := "\uFEFF[INFO]\r\nline two ; comment\rthird // note\n\n\"a;b\" N000.00.00.000 ; x\n"
	lines := Scan(text)
	if len(lines) != 5 {
		t.Fatalf("got %d lines, expected 5: %+v", len(lines), lines)
	}
	expect := []struct {
		text   string
		number int
	}{
		{"[INFO]", 1},
		{"line two", 2},
		{"third", 3},
		{"", 4},
		{"\"a;b\" N000.00.00.000", 5},
	}
	for i, e := range expect {
		if lines[i].Text != e.text {
			t.Errorf("line %d: got text %q, expected %q", i, lines[i].Text, e.text)
		}
		if lines[i].Number != e.number {
			t.Errorf("line %d: got number %d, expected %d", i, lines[i].Number, e.number)
		}
	}
	if lines[0].Offset != 3 {
		t.Errorf("BOM not skipped: first offset %d", lines[0].Offset)
	}
	if !lines[3].Blank() {
		t.Errorf("expected line 4 to be blank")
	}
}

func TestStripComment(t *testing.T) {
	for _, c := range []struct{ in, out string }{
		{"abc ; def", "abc "},
		{"http://foo", "http://foo"},
		{"Color_X=1,2,3 //MVA", "Color_X=1,2,3 "},
		{"//whole line", ""},
		{"\"quoted; text\" ; c", "\"quoted; text\" "},
	} {
		if got := StripComment(c.in); got != c.out {
			t.Errorf("%q: got %q, expected %q", c.in, got, c.out)
		}
	}
}

func TestHeader(t *testing.T) {
	for _, c := range []struct {
		text   string
		name   string
		header bool
		err    bool
	}{
		{"[VOR]", "VOR", true, false},
		{"  [high airway]  ", "HIGH AIRWAY", true, false},
		{"VOR", "", false, false},
		{"[VOR", "", false, true},
	} {
		l := Scan(c.text)[0]
		name, ok, err := l.Header("test.sct")
		if (err != nil) != c.err {
			t.Errorf("%q: error %v", c.text, err)
			continue
		}
		if err != nil {
			var se *StructuralError
			if !errors.As(err, &se) || se.Line != 1 {
				t.Errorf("%q: expected StructuralError on line 1, got %v", c.text, err)
			}
			continue
		}
		if ok != c.header || name != c.name {
			t.Errorf("%q: got (%q, %v), expected (%q, %v)", c.text, name, ok, c.name, c.header)
		}
	}
}

func TestNumbers(t *testing.T) {
	c := NewCursor("-12 3.25 .5 7x", Legacy)
	if v, ok := c.Integer(); !ok || v != -12 {
		t.Errorf("Integer: got %d %v", v, ok)
	}
	if _, ok := c.Integer(); ok {
		t.Errorf("Integer matched a decimal")
	}
	if v, ok := c.Decimal(); !ok || v != 3.25 {
		t.Errorf("Decimal: got %f %v", v, ok)
	}
	m := c.Mark()
	if _, ok := c.Decimal(); ok {
		t.Errorf("legacy dialect accepted a bare fraction")
	}
	if c.Mark() != m {
		t.Errorf("failed match consumed input")
	}

	c = NewCursor(".5 7x", Modern)
	if v, ok := c.Decimal(); !ok || v != .5 {
		t.Errorf("modern Decimal: got %f %v", v, ok)
	}
	if _, ok := c.Integer(); ok {
		t.Errorf("Integer matched \"7x\"")
	}
	if w, ok := c.Word(); !ok || w != "7x" {
		t.Errorf("Word: got %q", w)
	}
	if !c.Done() {
		t.Errorf("expected cursor to be done")
	}
}

func TestParsePart(t *testing.T) {
	for _, c := range []struct {
		tok     string
		dialect Dialect
		axis    Axis
		value   float64
		err     bool
	}{
		{"N048.21.13.618", Legacy, Latitude, 48 + 21./60 + 13.618/3600, false},
		{"W073.46.17.000", Legacy, Longitude, -(73 + 46./60 + 17./3600), false},
		{"S033.00.00", Legacy, Latitude, -33, false},
		{"n048.21.13.618", Legacy, NoAxis, 0, true},
		{"n048.21.13.618", Modern, Latitude, 48 + 21./60 + 13.618/3600, false},
		{"48.570225", Legacy, NoAxis, 48.570225, false},
		{"-11.5", Modern, NoAxis, -11.5, false},
		{"X048.21.13.618", Modern, NoAxis, 0, true},
		{"N048.21", Modern, NoAxis, 0, true},
		{"N048.2a.13.618", Modern, NoAxis, 0, true},
		{"48.5N", Modern, NoAxis, 0, true},
	} {
		p, err := ParsePart(c.tok, c.dialect)
		if (err != nil) != c.err {
			t.Errorf("%s: unexpected error state %v", c.tok, err)
			continue
		}
		if err != nil {
			continue
		}
		if p.Axis != c.axis {
			t.Errorf("%s: got axis %s, expected %s", c.tok, p.Axis, c.axis)
		}
		if math.Abs(p.Value-c.value) > 1e-12 {
			t.Errorf("%s: got %.12f, expected %.12f", c.tok, p.Value, c.value)
		}
	}
}

func TestFields(t *testing.T) {
	c := NewCursor("SECTOR:EDMM_ALB: 0 :24500", Modern)
	if !c.Keyword("sector") || !c.Expect(':') {
		t.Fatalf("keyword did not match")
	}
	f := c.Fields(Colon)
	expect := []string{"EDMM_ALB", "0", "24500"}
	if len(f) != len(expect) {
		t.Fatalf("got %q", f)
	}
	for i := range f {
		if f[i] != expect[i] {
			t.Errorf("field %d: got %q, expected %q", i, f[i], expect[i])
		}
	}

	c = NewCursor("SECTORLINE:1", Modern)
	if c.Keyword("SECTOR") {
		t.Errorf("keyword matched a prefix of a longer identifier")
	}

	c = NewCursor("a::b", Modern)
	if f := c.Fields(Colon); len(f) != 3 || f[1] != "" {
		t.Errorf("empty field not kept: %q", f)
	}
}

func TestParseNumber(t *testing.T) {
	if v, err := ParseNumber[int](" 42 "); err != nil || v != 42 {
		t.Errorf("int: %d %v", v, err)
	}
	if v, err := ParseNumber[float64]("1.5"); err != nil || v != 1.5 {
		t.Errorf("float: %f %v", v, err)
	}
	if v, err := ParseNumber[uint8]("200"); err != nil || v != 200 {
		t.Errorf("uint8: %d %v", v, err)
	}
	if _, err := ParseNumber[int]("x"); err == nil {
		t.Errorf("expected an error")
	}
}
