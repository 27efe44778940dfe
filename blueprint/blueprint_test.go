package blueprint

import (
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/dsp-tools/dspsave/codec"
	"github.com/dsp-tools/dspsave/dsperr"
	"github.com/dsp-tools/dspsave/record"
	"github.com/dsp-tools/dspsave/schema"
)

func sampleHeader() *Header {
	return &Header{
		Tag:         "0",
		Layout:      LayoutOneIcon,
		Icons:       [5]int64{1, 2, 3, 4, 5},
		Reserved:    "0",
		Tick:        621355968000000000,
		GameVersion: "1.0",
		ShortDesc:   "hi",
		Desc:        "there",
	}
}

func TestEnvelopeRoundTrip(t *testing.T) {
	env := &Envelope{Header: sampleHeader(), Payload: []byte("hello, blueprint payload")}
	text, err := env.Encode()
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if !strings.HasPrefix(text, magic) {
		t.Fatalf("encoded text missing %q prefix", magic)
	}

	decoded, err := Decode(text)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if string(decoded.Payload) != "hello, blueprint payload" {
		t.Fatalf("payload = %q, want the original bytes", decoded.Payload)
	}
	if diff := cmp.Diff(sampleHeader(), decoded.Header, cmpopts.EquateEmpty()); diff != "" {
		t.Fatalf("decoded header differs from the original (-want +got):\n%s", diff)
	}
}

func TestPercentEncodingRoundTrip(t *testing.T) {
	h := sampleHeader()
	h.ShortDesc = "hello world"
	env := &Envelope{Header: h, Payload: []byte("x")}
	text, err := env.Encode()
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if !strings.Contains(text, "hello%20world") {
		t.Fatalf("encoded header does not percent-encode the space: %s", text)
	}
	decoded, err := Decode(text)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if decoded.Header.ShortDesc != "hello world" {
		t.Fatalf("ShortDesc = %q, want %q", decoded.Header.ShortDesc, "hello world")
	}
}

func TestSignatureMismatch(t *testing.T) {
	env := &Envelope{Header: sampleHeader(), Payload: []byte("some payload bytes")}
	text, err := env.Encode()
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	// Flip a bit inside the quoted base64 payload.
	openQuote := strings.IndexByte(text, '"')
	mutated := []byte(text)
	mutated[openQuote+1] ^= 0x01
	if mutated[openQuote+1] == text[openQuote+1] {
		t.Fatal("mutation had no effect")
	}

	_, err = Decode(string(mutated))
	if err == nil {
		t.Fatal("expected a signature mismatch after mutating the payload")
	}
	var sigErr *dsperr.SignatureMismatchError
	if !errors.As(err, &sigErr) {
		t.Fatalf("expected a SignatureMismatchError, got %v (%T)", err, err)
	}
	if sigErr.Expected == sigErr.Actual {
		t.Fatal("expected and actual digests should differ in a mismatch")
	}
}

// TestPayloadDecodesAgainstSchema exercises the same path the inspect
// CLI command drives: gunzip a blueprint envelope's payload and decode
// it as RootRecord against a real schema, instead of treating Payload
// as an opaque byte slice.
func TestPayloadDecodesAgainstSchema(t *testing.T) {
	f, err := os.Open("../testdata/sample.schema")
	if err != nil {
		t.Fatalf("opening schema: %v", err)
	}
	defer f.Close()

	doc, err := schema.NewParser().Parse(f)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	reg, err := schema.NewRegistry(doc)
	if err != nil {
		t.Fatalf("NewRegistry: %v", err)
	}

	s := &codec.Sink{}
	s.WriteUint32(1)
	s.WriteString("test blueprint")
	s.WriteUint8(2)
	s.WriteInt32(10)
	s.WriteInt32(20)
	payload := s.Bytes

	env := &Envelope{Header: sampleHeader(), Payload: payload}
	text, err := env.Encode()
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	decodedEnv, err := Decode(text)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if diff := cmp.Diff(payload, decodedEnv.Payload); diff != "" {
		t.Fatalf("payload differs after round-trip (-want +got):\n%s", diff)
	}

	ip := record.NewInterpreter(reg)
	v, err := ip.Decode(RootRecord, codec.NewCursor(decodedEnv.Payload))
	if err != nil {
		t.Fatalf("decoding payload as %s: %v", RootRecord, err)
	}
	shortDesc, ok := v.Get("short_desc")
	if !ok || shortDesc != "test blueprint" {
		t.Fatalf("short_desc = %v, ok=%v, want %q", shortDesc, ok, "test blueprint")
	}
	buildings, ok := v.Get("buildings")
	if !ok {
		t.Fatal("buildings field missing")
	}
	if got, want := buildings.([]any), []any{int32(10), int32(20)}; !cmp.Equal(got, want) {
		t.Fatalf("buildings = %v, want %v", got, want)
	}
}

func TestTicksConversion(t *testing.T) {
	h := &Header{Tick: 621355968000000000}
	got := h.Time()
	if got.Unix() != 0 || got.Nanosecond() != 0 {
		t.Fatalf("Time() = %v, want the Unix epoch", got)
	}
}
