// style/styles.go
// Copyright(c) 2022 Matt Pharr, Apache License

package style

import (
	"fmt"
	"strconv"
	"strings"
)

///////////////////////////////////////////////////////////////////////////
// Line styles

type LineStyleKind int

const (
	Solid LineStyleKind = iota
	Alternate
	Dot
	Dash
	DashDot
	DashDotDot
	Custom // defined by a LINESTYLE entry
)

var lineStyleNames = [...]string{"SOLID", "ALTERNATE", "DOT", "DASH", "DASHDOT", "DASHDOTDOT", "CUSTOM"}

func (k LineStyleKind) String() string {
	if int(k) < len(lineStyleNames) {
		return lineStyleNames[k]
	}
	return "LineStyleKind(" + strconv.Itoa(int(k)) + ")"
}

// LineStyle is the style applied to subsequent lines in a map.
type LineStyle struct {
	Kind  LineStyleKind
	Name  string // for Custom styles
	Width int
}

// DefaultLineStyle is solid with a width of one pixel.
var DefaultLineStyle = LineStyle{Kind: Solid, Width: 1}

func (s LineStyle) String() string {
	if s.Kind == Custom {
		return fmt.Sprintf("%s:%d", s.Name, s.Width)
	}
	return fmt.Sprintf("%s:%d", s.Kind, s.Width)
}

// LineStyleDef is a user-defined dash pattern.
type LineStyleDef struct {
	Name   string
	Brush  string
	Hatch  string
	Dashes []int // alternating dash and gap lengths
	Line   int
}

// DefineLineStyle records a named line style. Names are matched without
// regard to case.
func (t *Table) DefineLineStyle(d LineStyleDef) {
	d.Name = strings.ToUpper(d.Name)
	t.LineStyles = append(t.LineStyles, d)
}

// ParseLineStyleKind matches a built-in line style token.
func ParseLineStyleKind(token string) (LineStyleKind, error) {
	switch strings.ToUpper(strings.TrimSpace(token)) {
	case "SOLID", "DEFAULT":
		return Solid, nil
	case "ALTERNATE":
		return Alternate, nil
	case "DOT":
		return Dot, nil
	case "DASH":
		return Dash, nil
	case "DASHDOT":
		return DashDot, nil
	case "DASHDOTDOT":
		return DashDotDot, nil
	}
	return Solid, fmt.Errorf("%q: %w", token, ErrUnknownStyleToken)
}

// LineStyle resolves a line style token with the given width. Tokens that
// are not built in must name a style defined earlier in the document.
func (t *Table) LineStyle(token string, width int) (LineStyle, error) {
	if k, err := ParseLineStyleKind(token); err == nil {
		return LineStyle{Kind: k, Width: width}, nil
	}
	name := strings.ToUpper(strings.TrimSpace(token))
	for i := len(t.LineStyles) - 1; i >= 0; i-- {
		if t.LineStyles[i].Name == name {
			return LineStyle{Kind: Custom, Name: name, Width: width}, nil
		}
	}
	return LineStyle{Kind: Solid, Width: width}, fmt.Errorf("line style %q: %w", token, ErrUnknownStyleToken)
}

///////////////////////////////////////////////////////////////////////////
// Fonts

type FontSizeOp int

const (
	FontSizeDefault FontSizeOp = iota
	FontSizeExact
	FontSizeAdd
	FontSizeSubtract
	FontSizeMultiply
)

// FontSize modifies the size of subsequent text relative to the default.
type FontSize struct {
	Op   FontSizeOp
	Size float64
}

// ParseFontSize parses the operator and size fields of a FONTSIZE rule;
// "DEFAULT" (or "0") resets to the default size.
func ParseFontSize(op, size string) (FontSize, error) {
	op = strings.TrimSpace(op)
	if strings.EqualFold(op, "DEFAULT") || (op == "0" && size == "") {
		return FontSize{Op: FontSizeDefault}, nil
	}
	var fs FontSize
	switch op {
	case "=":
		fs.Op = FontSizeExact
	case "+":
		fs.Op = FontSizeAdd
	case "-":
		fs.Op = FontSizeSubtract
	case "*":
		fs.Op = FontSizeMultiply
	default:
		return FontSize{}, fmt.Errorf("font size operator %q: %w", op, ErrUnknownStyleToken)
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(size), 64)
	if err != nil {
		return FontSize{}, fmt.Errorf("font size %q: %w", size, ErrUnknownStyleToken)
	}
	fs.Size = v
	return fs, nil
}

func (f FontSize) String() string {
	switch f.Op {
	case FontSizeExact:
		return "=" + strconv.FormatFloat(f.Size, 'f', -1, 64)
	case FontSizeAdd:
		return "+" + strconv.FormatFloat(f.Size, 'f', -1, 64)
	case FontSizeSubtract:
		return "-" + strconv.FormatFloat(f.Size, 'f', -1, 64)
	case FontSizeMultiply:
		return "*" + strconv.FormatFloat(f.Size, 'f', -1, 64)
	default:
		return "DEFAULT"
	}
}

// FontStyle is given either as DEFAULT or as a weight followed by
// italic, underline and strikeout flags.
type FontStyle struct {
	Default   bool
	Weight    int // 0-1000; 400 is normal and 700 bold
	Italic    bool
	Underline bool
	Strikeout bool
}

func ParseFontStyle(fields []string) (FontStyle, error) {
	if len(fields) == 0 || (len(fields) == 1 && strings.EqualFold(fields[0], "DEFAULT")) {
		return FontStyle{Default: true}, nil
	}
	if len(fields) == 1 {
		switch strings.ToUpper(fields[0]) {
		case "NORMAL":
			return FontStyle{Weight: 400}, nil
		case "BOLD":
			return FontStyle{Weight: 700}, nil
		case "ITALIC":
			return FontStyle{Weight: 400, Italic: true}, nil
		case "UNDERLINE":
			return FontStyle{Weight: 400, Underline: true}, nil
		}
	}

	var fs FontStyle
	w, err := strconv.Atoi(fields[0])
	if err != nil || w < 0 || w > 1000 {
		return FontStyle{}, fmt.Errorf("font weight %q: %w", fields[0], ErrUnknownStyleToken)
	}
	fs.Weight = w
	for i, dst := range []*bool{&fs.Italic, &fs.Underline, &fs.Strikeout} {
		if i+1 >= len(fields) {
			break
		}
		switch fields[i+1] {
		case "0":
		case "1":
			*dst = true
		default:
			return FontStyle{}, fmt.Errorf("font flag %q: %w", fields[i+1], ErrUnknownStyleToken)
		}
	}
	if len(fields) > 4 {
		return FontStyle{}, fmt.Errorf("%d font style fields: %w", len(fields), ErrUnknownStyleToken)
	}
	return fs, nil
}

///////////////////////////////////////////////////////////////////////////
// Text alignment

type HorizontalAlignment int

const (
	AlignLeft HorizontalAlignment = iota
	AlignCenter
	AlignRight
)

type VerticalAlignment int

const (
	AlignTop VerticalAlignment = iota
	AlignMiddle
	AlignBottom
)

type Alignment struct {
	Horizontal HorizontalAlignment
	Vertical   VerticalAlignment
}

// DefaultAlignment centres text on its anchor point.
var DefaultAlignment = Alignment{Horizontal: AlignCenter, Vertical: AlignMiddle}

func ParseHorizontalAlignment(s string) (HorizontalAlignment, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "L", "LEFT":
		return AlignLeft, nil
	case "C", "CENTER", "CENTRE":
		return AlignCenter, nil
	case "R", "RIGHT":
		return AlignRight, nil
	}
	return AlignCenter, fmt.Errorf("horizontal alignment %q: %w", s, ErrUnknownStyleToken)
}

func ParseVerticalAlignment(s string) (VerticalAlignment, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "T", "TOP":
		return AlignTop, nil
	case "C", "CENTER", "CENTRE":
		return AlignMiddle, nil
	case "B", "BOTTOM":
		return AlignBottom, nil
	}
	return AlignMiddle, fmt.Errorf("vertical alignment %q: %w", s, ErrUnknownStyleToken)
}

// ParseAlignment parses a pair of alignment tokens such as "L", "T". The
// combined forms "LT", "CB" and so forth are also accepted as a single
// token.
func ParseAlignment(fields []string) (Alignment, error) {
	if len(fields) == 1 && len(fields[0]) == 2 {
		fields = []string{fields[0][:1], fields[0][1:]}
	}
	if len(fields) != 2 {
		return DefaultAlignment, fmt.Errorf("alignment %q: %w", strings.Join(fields, ":"), ErrUnknownStyleToken)
	}
	h, err := ParseHorizontalAlignment(fields[0])
	if err != nil {
		return DefaultAlignment, err
	}
	v, err := ParseVerticalAlignment(fields[1])
	if err != nil {
		return DefaultAlignment, err
	}
	return Alignment{Horizontal: h, Vertical: v}, nil
}

///////////////////////////////////////////////////////////////////////////
// Fills

type FillKind int

const (
	FillNone FillKind = iota
	FillSolid
	FillPercent
)

type Fill struct {
	Kind    FillKind
	Percent int
}

// ParseFill accepts NONE, SOLID or an integer opacity percentage.
func ParseFill(s string) (Fill, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "", "NONE":
		return Fill{Kind: FillNone}, nil
	case "SOLID":
		return Fill{Kind: FillSolid, Percent: 100}, nil
	}
	p, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || p < 0 || p > 100 {
		return Fill{}, fmt.Errorf("fill %q: %w", s, ErrUnknownStyleToken)
	}
	return Fill{Kind: FillPercent, Percent: p}, nil
}
