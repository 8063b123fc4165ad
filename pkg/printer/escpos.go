// Package printer builds ESC/POS jobs and sends them to thermal printers.
package printer

import (
	"bytes"
	"strings"
	"unicode/utf8"
)

// ESC/POS command bytes
const (
	ESC = 0x1B
	GS  = 0x1D
	LF  = 0x0A
)

// Text alignment
const (
	AlignLeft   = 0
	AlignCenter = 1
	AlignRight  = 2
)

// Character sizes
const (
	FontNormal = 0x00
	FontDouble = 0x11 // Double width + double height
)

// Paper widths in characters
const (
	Width58mm = 32
	Width80mm = 48
)

// Document builds an ESC/POS byte stream. Layout helpers measure text in
// runes and never let a line run past the paper width.
type Document struct {
	buf   bytes.Buffer
	width int
}

// NewDocument creates a document for charWidth characters per line and
// writes the printer initialization command.
func NewDocument(charWidth int) *Document {
	if charWidth <= 0 {
		charWidth = Width58mm
	}
	d := &Document{width: charWidth}
	d.buf.Write([]byte{ESC, '@'})
	return d
}

// Width returns the number of characters per line
func (d *Document) Width() int {
	return d.width
}

// FeedLines sends n line feeds.
func (d *Document) FeedLines(n int) *Document {
	for i := 0; i < n; i++ {
		d.buf.WriteByte(LF)
	}
	return d
}

// SetAlign sets text alignment: AlignLeft, AlignCenter, AlignRight.
func (d *Document) SetAlign(align int) *Document {
	d.buf.Write([]byte{ESC, 'a', byte(align)})
	return d
}

// SetBold enables or disables bold text.
func (d *Document) SetBold(on bool) *Document {
	b := byte(0)
	if on {
		b = 1
	}
	d.buf.Write([]byte{ESC, 'E', b})
	return d
}

// SetFontSize sets the character size
func (d *Document) SetFontSize(size byte) *Document {
	d.buf.Write([]byte{GS, '!', size})
	return d
}

// Text writes s wrapped to the paper width. Embedded newlines start new lines.
func (d *Document) Text(s string) *Document {
	for _, line := range strings.Split(s, "\n") {
		for _, part := range wrap(line, d.width) {
			d.buf.WriteString(part)
			d.buf.WriteByte(LF)
		}
	}
	return d
}

// Separator prints a full-width line of char.
func (d *Document) Separator(char byte) *Document {
	d.buf.WriteString(strings.Repeat(string(char), d.width))
	d.buf.WriteByte(LF)
	return d
}

// KeyValue prints key on the left and value on the right of one line. A
// value too long to share the line goes on its own right-aligned line.
func (d *Document) KeyValue(key, value string) *Document {
	gap := d.width - utf8.RuneCountInString(key) - utf8.RuneCountInString(value)
	if gap < 1 {
		d.Text(key)
		return d.rightAligned(value)
	}
	d.buf.WriteString(key)
	d.buf.WriteString(strings.Repeat(" ", gap))
	d.buf.WriteString(value)
	d.buf.WriteByte(LF)
	return d
}

// ItemLine prints "qty x name" and a right-aligned total. Long names are
// wrapped above the total.
// Example: "2 x Widget                 19.98"
func (d *Document) ItemLine(qty, name, total string) *Document {
	return d.KeyValue(qty+" x "+name, total)
}

// Cut feeds the paper and sends a partial cut.
func (d *Document) Cut() *Document {
	d.FeedLines(3)
	d.buf.Write([]byte{GS, 'V', 0x01})
	return d
}

// Bytes returns the accumulated ESC/POS byte stream.
func (d *Document) Bytes() []byte {
	return d.buf.Bytes()
}

func (d *Document) rightAligned(s string) *Document {
	for _, part := range wrap(s, d.width) {
		pad := d.width - utf8.RuneCountInString(part)
		d.buf.WriteString(strings.Repeat(" ", pad))
		d.buf.WriteString(part)
		d.buf.WriteByte(LF)
	}
	return d
}

// wrap splits s into lines of at most width runes, breaking on spaces where
// possible
func wrap(s string, width int) []string {
	s = strings.TrimRight(s, " ")
	if utf8.RuneCountInString(s) <= width {
		return []string{s}
	}

	var lines []string
	runes := []rune(s)
	for len(runes) > width {
		cut := width
		for i := width; i > 0; i-- {
			if runes[i] == ' ' {
				cut = i
				break
			}
		}
		lines = append(lines, strings.TrimRight(string(runes[:cut]), " "))
		runes = runes[cut:]
		for len(runes) > 0 && runes[0] == ' ' {
			runes = runes[1:]
		}
	}
	if len(runes) > 0 {
		lines = append(lines, string(runes))
	}
	return lines
}
