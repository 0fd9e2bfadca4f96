package printer

import (
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/encoding/charmap"
)

const hexBytesPerLine = 16

// HexDump renders raw arena bytes, 16 per line, with an offset column and a
// character gutter. The gutter decodes bytes as Windows-1252 so high bytes
// written by callers on that code page stay readable; anything unprintable
// shows as a dot.
func (p *Printer) HexDump(data []byte) error {
	for base := 0; base < len(data); base += hexBytesPerLine {
		end := base + hexBytesPerLine
		if end > len(data) {
			end = len(data)
		}
		line := data[base:end]

		var hexCol strings.Builder
		var gutter strings.Builder
		for i := 0; i < hexBytesPerLine; i++ {
			if i == hexBytesPerLine/2 {
				hexCol.WriteByte(' ')
			}
			if i >= len(line) {
				hexCol.WriteString("   ")
				continue
			}
			fmt.Fprintf(&hexCol, "%02x ", line[i])
			gutter.WriteRune(printableRune(line[i]))
		}

		if _, err := fmt.Fprintf(p.w, "%08x  %s |%s|\n", base, hexCol.String(), gutter.String()); err != nil {
			return err
		}
	}
	return nil
}

func printableRune(b byte) rune {
	r := charmap.Windows1252.DecodeByte(b)
	if r == unicode.ReplacementChar || !unicode.IsPrint(r) || r == ' ' {
		return '.'
	}
	return r
}
