// Package blueprint parses and re-serializes the blueprint text envelope
// format: "BLUEPRINT:<header>"<base64 gzip payload>"<32 hex digest>.
package blueprint

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/dsp-tools/dspsave/dsperr"
)

// IconLayout enumerates the blueprint icon arrangement, carried verbatim
// in the header's second field.
type IconLayout int

const (
	LayoutNone           IconLayout = 0
	LayoutNoIcon         IconLayout = 1
	LayoutOneIcon        IconLayout = 10
	LayoutOneIconSmall   IconLayout = 11
	LayoutTwoIcon46      IconLayout = 20
	LayoutTwoIcon53      IconLayout = 21
	LayoutTwoIcon59      IconLayout = 22
	LayoutTwoIcon57      IconLayout = 23
	LayoutTwoIcon51      IconLayout = 24
	LayoutThreeIcon813   IconLayout = 30
	LayoutThreeIcon279   IconLayout = 31
	LayoutThreeIcon573   IconLayout = 32
	LayoutThreeIcon591   IconLayout = 33
	LayoutFourIcon7913   IconLayout = 40
	LayoutFourIcon8462   IconLayout = 41
	LayoutFiveIcon57913  IconLayout = 50
	LayoutFiveIconPenta  IconLayout = 51
)

const headerMinFields = 12

// Header is the parsed comma-separated header segment between
// "BLUEPRINT:" and the opening quote. Field 0 and field 7 (the "reserved"
// slot) carry no documented meaning upstream; they and anything past
// field 11 are preserved verbatim so re-encoding round-trips byte for
// byte.
type Header struct {
	Tag         string // header_array[0]
	Layout      IconLayout
	Icons       [5]int64
	Reserved    string // header_array[7]
	Tick        int64
	GameVersion string
	ShortDesc   string // percent-decoded
	Desc        string // percent-decoded
	Extra       []string
}

func parseHeader(fields []string) (*Header, error) {
	if len(fields) < headerMinFields {
		return nil, &dsperr.EnvelopeSyntaxError{
			Detail: fmt.Sprintf("header has %d field(s), want at least %d", len(fields), headerMinFields),
		}
	}

	h := &Header{Tag: fields[0]}

	layoutVal, err := strconv.ParseInt(fields[1], 10, 64)
	if err != nil {
		return nil, &dsperr.EnvelopeSyntaxError{Detail: fmt.Sprintf("layout field %q is not an integer", fields[1])}
	}
	h.Layout = IconLayout(layoutVal)

	for i := 0; i < 5; i++ {
		v, err := strconv.ParseInt(fields[2+i], 10, 64)
		if err != nil {
			return nil, &dsperr.EnvelopeSyntaxError{Detail: fmt.Sprintf("icon field %q is not an integer", fields[2+i])}
		}
		h.Icons[i] = v
	}

	h.Reserved = fields[7]

	tick, err := strconv.ParseInt(fields[8], 10, 64)
	if err != nil {
		return nil, &dsperr.EnvelopeSyntaxError{Detail: fmt.Sprintf("tick field %q is not an integer", fields[8])}
	}
	h.Tick = tick

	h.GameVersion = fields[9]

	shortDesc, err := percentDecode(fields[10])
	if err != nil {
		return nil, &dsperr.EnvelopeSyntaxError{Detail: fmt.Sprintf("short description: %s", err)}
	}
	h.ShortDesc = shortDesc

	desc, err := percentDecode(fields[11])
	if err != nil {
		return nil, &dsperr.EnvelopeSyntaxError{Detail: fmt.Sprintf("description: %s", err)}
	}
	h.Desc = desc

	if len(fields) > headerMinFields {
		h.Extra = append([]string(nil), fields[headerMinFields:]...)
	}

	return h, nil
}

// fields reconstructs the comma-joined header segment.
func (h *Header) fields() []string {
	out := make([]string, headerMinFields+len(h.Extra))
	out[0] = h.Tag
	out[1] = strconv.FormatInt(int64(h.Layout), 10)
	for i, icon := range h.Icons {
		out[2+i] = strconv.FormatInt(icon, 10)
	}
	out[7] = h.Reserved
	out[8] = strconv.FormatInt(h.Tick, 10)
	out[9] = h.GameVersion
	out[10] = percentEncode(h.ShortDesc)
	out[11] = percentEncode(h.Desc)
	copy(out[headerMinFields:], h.Extra)
	return out
}

func (h *Header) String() string {
	return strings.Join(h.fields(), ",")
}

// Time returns the header's tick timestamp as a UTC time.Time.
func (h *Header) Time() time.Time { return ticksToTime(h.Tick) }

// SetTime stores t as the header's tick timestamp.
func (h *Header) SetTime(t time.Time) { h.Tick = timeToTicks(t) }
