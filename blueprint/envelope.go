package blueprint

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"io"
	"strings"

	"github.com/klauspost/compress/gzip"

	"github.com/dsp-tools/dspsave/digest"
	"github.com/dsp-tools/dspsave/dsperr"
)

const (
	magic             = "BLUEPRINT:"
	minEnvelopeLength = 28
	quoteSearchWindow = 8192
	digestLength      = 32
	tailSearchWindow  = 36
)

// RootRecord is the schema record name every blueprint payload decodes
// from, analogous to save.RootRecord for .dsv files.
const RootRecord = "BlueprintData"

// Envelope is a parsed blueprint text file: its header and the inflated
// record payload (a BlueprintData instance, decoded separately by the
// record interpreter against the blueprint schema).
type Envelope struct {
	Header  *Header
	Payload []byte
}

// Decode parses a blueprint text envelope, verifying its trailing
// signature and inflating its payload.
func Decode(text string) (*Envelope, error) {
	if len(text) < minEnvelopeLength {
		return nil, &dsperr.EnvelopeSyntaxError{
			Detail: fmt.Sprintf("length %d is less than the minimum %d", len(text), minEnvelopeLength),
		}
	}
	if !strings.HasPrefix(text, magic) {
		return nil, &dsperr.EnvelopeSyntaxError{Detail: "missing \"BLUEPRINT:\" prefix"}
	}

	searchEnd := len(text)
	if searchEnd > quoteSearchWindow {
		searchEnd = quoteSearchWindow
	}
	openQuote := strings.IndexByte(text[minEnvelopeLength:searchEnd], '"')
	if openQuote < 0 {
		return nil, &dsperr.EnvelopeSyntaxError{Detail: "no opening quote found near the start of the file"}
	}
	openQuote += minEnvelopeLength

	headerFields := strings.Split(text[len(magic):openQuote], ",")
	header, err := parseHeader(headerFields)
	if err != nil {
		return nil, err
	}

	tailStart := len(text) - tailSearchWindow
	if tailStart < 0 {
		tailStart = 0
	}
	closeQuote := strings.LastIndexByte(text[tailStart:], '"')
	if closeQuote < 0 {
		return nil, &dsperr.EnvelopeSyntaxError{Detail: "no closing quote found near the end of the file"}
	}
	closeQuote += tailStart
	if len(text)-1-closeQuote < digestLength {
		return nil, &dsperr.EnvelopeSyntaxError{Detail: "not enough room for a trailing signature after the closing quote"}
	}

	signed := text[:closeQuote]
	computed := digest.Sum([]byte(signed))
	expected := strings.ToLower(text[closeQuote+1 : closeQuote+1+digestLength])
	if computed != expected {
		return nil, &dsperr.SignatureMismatchError{Expected: expected, Actual: computed}
	}

	payloadText := text[openQuote+1 : closeQuote]
	compressed, err := base64.StdEncoding.DecodeString(payloadText)
	if err != nil {
		return nil, &dsperr.PayloadDecompressError{Detail: fmt.Sprintf("base64: %s", err)}
	}
	payload, err := gunzip(compressed)
	if err != nil {
		return nil, &dsperr.PayloadDecompressError{Detail: err.Error()}
	}

	return &Envelope{Header: header, Payload: payload}, nil
}

func gunzip(compressed []byte) ([]byte, error) {
	zr, err := gzip.NewReader(bytes.NewReader(compressed))
	if err != nil {
		return nil, fmt.Errorf("gzip: %w", err)
	}
	defer zr.Close()
	out, err := io.ReadAll(zr)
	if err != nil {
		return nil, fmt.Errorf("gzip: %w", err)
	}
	return out, nil
}

// Encode re-serializes e into the blueprint text envelope format,
// recompressing the payload and recomputing the trailing signature.
func (e *Envelope) Encode() (string, error) {
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	if _, err := zw.Write(e.Payload); err != nil {
		return "", fmt.Errorf("blueprint: gzip compress: %w", err)
	}
	if err := zw.Close(); err != nil {
		return "", fmt.Errorf("blueprint: gzip compress: %w", err)
	}
	encoded := base64.StdEncoding.EncodeToString(buf.Bytes())

	var b strings.Builder
	b.WriteString(magic)
	b.WriteString(e.Header.String())
	b.WriteByte('"')
	b.WriteString(encoded)
	// The signature covers everything up to but not including the
	// closing quote, mirroring Decode's text[:closeQuote].
	sig := digest.Sum([]byte(b.String()))
	b.WriteByte('"')
	b.WriteString(sig)
	return b.String(), nil
}
