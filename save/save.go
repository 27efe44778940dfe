// Package save wraps the record interpreter for the one concrete root
// record a .dsv save file holds: a single GameSave, decoded from raw
// little-endian bytes with no envelope ("Save file").
package save

import (
	"fmt"
	"io"

	"github.com/dsp-tools/dspsave/codec"
	"github.com/dsp-tools/dspsave/record"
	"github.com/dsp-tools/dspsave/schema"
)

// RootRecord is the schema record name every save file decodes from.
const RootRecord = "GameSave"

// Decode reads r fully and decodes one RootRecord instance against reg.
func Decode(r io.Reader, reg *schema.Registry) (*record.Value, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("save: reading input: %w", err)
	}
	ip := record.NewInterpreter(reg)
	c := codec.NewCursor(raw)
	v, err := ip.Decode(RootRecord, c)
	if err != nil {
		return nil, fmt.Errorf("save: decoding %s: %w", RootRecord, err)
	}
	return v, nil
}

// Encode serializes v and writes it to w. v must have been produced by
// Decode (or built to the same shape) against the same registry used to
// construct v's interpreter.
func Encode(v *record.Value, reg *schema.Registry, w io.Writer) error {
	ip := record.NewInterpreter(reg)
	s := codec.NewSinkFromPool()
	defer s.ReturnToPool()
	if err := ip.Encode(v, s); err != nil {
		return fmt.Errorf("save: encoding %s: %w", RootRecord, err)
	}
	if _, err := w.Write(s.Bytes); err != nil {
		return fmt.Errorf("save: writing output: %w", err)
	}
	return nil
}
