package record_test

import (
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dsp-tools/dspsave/codec"
	"github.com/dsp-tools/dspsave/record"
	"github.com/dsp-tools/dspsave/schema"
)

// buildRegistry parses testdata/sample.schema, which the blueprint
// package's tests also use.
func buildRegistry(t *testing.T) *schema.Registry {
	t.Helper()
	f, err := os.Open("../testdata/sample.schema")
	require.NoError(t, err)
	defer f.Close()

	doc, err := schema.NewParser().Parse(f)
	require.NoError(t, err)

	reg, err := schema.NewRegistry(doc)
	require.NoError(t, err)
	return reg
}

// sampleSave hand-builds one GameSave instance's bytes directly against
// testdata/sample.schema's layout, exercising arrays, conditional fields,
// defaults, injected/props wiring, and generic instantiation in one pass.
func sampleSaveBytes() []byte {
	s := &codec.Sink{}

	// SaveHeader
	s.WriteUint32(1396917828)
	s.WriteFlexibleInt(7)
	s.WriteString("save one")

	// planet_count = 2 (varint)
	s.WriteVarint(2)

	// planet[0]: id, name, star_count=2, resource[2], has_thumbnail=false
	// (thumbnail omitted), legacy_format (unconditional, always present),
	// upgrade_count=1, upgrades[1]
	s.WriteInt32(100)
	s.WriteString("Terra")
	s.WriteUint8(2)
	s.WriteInt32(10)
	s.WriteInt32(20)
	s.WriteBool(false)
	s.WriteBool(false) // legacy_format
	s.WriteUint8(1)    // upgrade_count
	s.WriteUint8(5)    // upgrades[0].tier

	// planet[1]: has_thumbnail=true -> 64-byte thumbnail present
	s.WriteInt32(200)
	s.WriteString("Luna")
	s.WriteUint8(1)
	s.WriteInt32(99)
	s.WriteBool(true)
	s.WriteBytes(make([]byte, 64))
	s.WriteBool(false) // legacy_format
	s.WriteUint8(0)    // upgrade_count=0

	// notes_present = 0 -> notes defaults to ""
	s.WriteUint8(0)

	// history_len = 2 -> one LinkedListNode<int32> chain of two links
	s.WriteInt32(2)
	s.WriteInt32(111) // history.value
	s.WriteUint8(1)   // has_next
	s.WriteInt32(222) // history.next.value
	s.WriteUint8(0)   // has_next = false, chain ends

	return s.Bytes
}

func TestRoundTripBytesAndSize(t *testing.T) {
	reg := buildRegistry(t)
	ip := record.NewInterpreter(reg)

	raw := sampleSaveBytes()
	c := codec.NewCursor(raw)
	v, err := ip.Decode("GameSave", c)
	require.NoError(t, err)
	require.Equal(t, c.Pos(), len(raw), "decode should consume the entire input")

	// Round-trip (bytes): encode(decode(b)) == b.
	out := &codec.Sink{}
	require.NoError(t, ip.Encode(v, out))
	require.Equal(t, raw, out.Bytes)

	// Round-trip (size): size(v) == location_end - location_start.
	size, err := ip.Size(v)
	require.NoError(t, err)
	require.Equal(t, v.LocationEnd-v.LocationStart, size)
	require.Equal(t, len(raw), size)
}

func TestConditionalFieldAndDefault(t *testing.T) {
	reg := buildRegistry(t)
	ip := record.NewInterpreter(reg)

	c := codec.NewCursor(sampleSaveBytes())
	v, err := ip.Decode("GameSave", c)
	require.NoError(t, err)

	planetsAny, ok := v.Get("planets")
	require.True(t, ok)
	planets := planetsAny.([]*record.Value)
	require.Len(t, planets, 2)

	// planet[0] omitted its thumbnail since has_thumbnail is false (the
	// if-guarded field consumes zero bytes); legacy_format has no if
	// clause, so it's unconditional and was read from the stream.
	thumb, ok := planets[0].Get("thumbnail")
	require.True(t, ok)
	require.Nil(t, thumb)
	legacy, ok := planets[0].Get("legacy_format")
	require.True(t, ok)
	require.Equal(t, false, legacy)

	// planet[1] had has_thumbnail true, so its 64-byte buffer is present.
	thumb2, ok := planets[1].Get("thumbnail")
	require.True(t, ok)
	require.Len(t, thumb2, 64)
}

func TestInjectedPropsWiring(t *testing.T) {
	reg := buildRegistry(t)
	ip := record.NewInterpreter(reg)

	c := codec.NewCursor(sampleSaveBytes())
	v, err := ip.Decode("GameSave", c)
	require.NoError(t, err)

	planetsAny, _ := v.Get("planets")
	planets := planetsAny.([]*record.Value)
	upgradesAny, ok := planets[0].Get("upgrades")
	require.True(t, ok)
	upgrades := upgradesAny.([]*record.Value)
	require.Len(t, upgrades, 1)

	ownerID, ok := upgrades[0].Get("owner_id")
	require.True(t, ok)
	require.Equal(t, int32(100), ownerID, "owner_id is injected from the planet's id via props(id, i)")

	slotIdx, ok := upgrades[0].Get("slot_index")
	require.True(t, ok)
	require.Equal(t, int32(0), slotIdx, "slot_index is injected from the array element index via props(id, i)")
}

func TestGenericInstantiationMemoization(t *testing.T) {
	reg := buildRegistry(t)

	a, err := reg.Instantiate("LinkedListNode", []string{"int32"})
	require.NoError(t, err)
	b, err := reg.Instantiate("LinkedListNode", []string{"int32"})
	require.NoError(t, err)
	require.Same(t, a, b, "instantiating the same (name, args) twice must return the same registered type")

	c, err := reg.Instantiate("LinkedListNode", []string{"PlanetData"})
	require.NoError(t, err)
	require.NotSame(t, a, c, "different template arguments must produce distinct registered types")
}

func TestAssertionFailure(t *testing.T) {
	reg := buildRegistry(t)
	ip := record.NewInterpreter(reg)

	raw := sampleSaveBytes()
	raw[0] ^= 0xFF // corrupt SaveHeader.magic, which asserts == 1396917828
	c := codec.NewCursor(raw)
	_, err := ip.Decode("GameSave", c)
	require.Error(t, err)
}

func TestUnknownType(t *testing.T) {
	reg := buildRegistry(t)
	ip := record.NewInterpreter(reg)
	_, err := ip.Decode("NoSuchRecord", codec.NewCursor(nil))
	require.Error(t, err)
}
