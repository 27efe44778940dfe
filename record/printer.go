package record

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
)

// Printer renders a decoded Value as an indented tree, for the inspect
// CLI command: a recursive per-level function writing into a
// strings.Builder, using "│  " to mark nesting.
type Printer struct {
	// ShowOffsets includes each record's [start,end) byte range.
	ShowOffsets bool
}

// Sprint renders v as a multi-line tree.
func (p *Printer) Sprint(v *Value) string {
	var b strings.Builder
	p.printValue(&b, v, 0)
	return b.String()
}

func (p *Printer) printValue(b *strings.Builder, v *Value, depth int) {
	indent := strings.Repeat("  ", depth)
	b.WriteString(indent)
	b.WriteString(v.Def.Name)
	if p.ShowOffsets && v.LocationStart >= 0 {
		fmt.Fprintf(b, " @[%d,%d) %s", v.LocationStart, v.LocationEnd, humanize.Bytes(uint64(v.LocationEnd-v.LocationStart)))
	}
	b.WriteString("\n")

	for _, name := range v.Order {
		val := v.Fields[name]
		b.WriteString(indent)
		b.WriteString("│  ")
		b.WriteString(name)
		b.WriteString(": ")
		p.printFieldValue(b, val, depth)
	}
}

func (p *Printer) printFieldValue(b *strings.Builder, val any, depth int) {
	switch t := val.(type) {
	case nil:
		b.WriteString("null\n")
	case *Value:
		if t == nil {
			b.WriteString("null\n")
			return
		}
		b.WriteString("\n")
		p.printValue(b, t, depth+1)
	case []byte:
		fmt.Fprintf(b, "uint8[%d] (%s)\n", len(t), humanize.Bytes(uint64(len(t))))
	case []*Value:
		if len(t) == 0 {
			b.WriteString("[]\n")
			return
		}
		fmt.Fprintf(b, "%s[%d]\n", t[0].Def.Name, len(t))
		for _, child := range t {
			p.printValue(b, child, depth+1)
		}
	case []any:
		if len(t) == 0 {
			b.WriteString("[]\n")
			return
		}
		fmt.Fprintf(b, "%v\n", t)
	case string:
		fmt.Fprintf(b, "%q\n", t)
	default:
		fmt.Fprintf(b, "%v\n", t)
	}
}
