package record

import (
	"fmt"

	"github.com/dsp-tools/dspsave/codec"
)

// decodePrimitive reads one value of the named primitive type from c,
// in the Go representation Value stores it as.
func decodePrimitive(typeName string, c *codec.Cursor) (any, error) {
	switch typeName {
	case "int8":
		return c.ReadInt8()
	case "uint8":
		return c.ReadUint8()
	case "boolean":
		return c.ReadBool()
	case "int16":
		return c.ReadInt16()
	case "uint16":
		return c.ReadUint16()
	case "int24":
		return c.ReadInt24()
	case "int32":
		return c.ReadInt32()
	case "uint32":
		return c.ReadUint32()
	case "int64":
		return c.ReadInt64()
	case "uint64":
		return c.ReadUint64()
	case "float32":
		return c.ReadFloat32()
	case "float64":
		return c.ReadFloat64()
	case "varint":
		return c.ReadVarint()
	case "string":
		return c.ReadString()
	case "FlexibleInt":
		return c.ReadFlexibleInt()
	default:
		return nil, fmt.Errorf("record: %q is not a primitive type", typeName)
	}
}

// encodePrimitive writes val, previously produced by decodePrimitive (or
// literalToAny for a defaulted field), for the named primitive type.
func encodePrimitive(typeName string, val any, s *codec.Sink) error {
	switch typeName {
	case "int8":
		v, ok := val.(int8)
		if !ok {
			return typeMismatch(typeName, val)
		}
		s.WriteInt8(v)
	case "uint8":
		v, ok := val.(uint8)
		if !ok {
			return typeMismatch(typeName, val)
		}
		s.WriteUint8(v)
	case "boolean":
		v, ok := val.(bool)
		if !ok {
			return typeMismatch(typeName, val)
		}
		s.WriteBool(v)
	case "int16":
		v, ok := val.(int16)
		if !ok {
			return typeMismatch(typeName, val)
		}
		s.WriteInt16(v)
	case "uint16":
		v, ok := val.(uint16)
		if !ok {
			return typeMismatch(typeName, val)
		}
		s.WriteUint16(v)
	case "int24":
		v, ok := val.(int32)
		if !ok {
			return typeMismatch(typeName, val)
		}
		s.WriteInt24(v)
	case "int32":
		v, ok := val.(int32)
		if !ok {
			return typeMismatch(typeName, val)
		}
		s.WriteInt32(v)
	case "uint32":
		v, ok := val.(uint32)
		if !ok {
			return typeMismatch(typeName, val)
		}
		s.WriteUint32(v)
	case "int64":
		v, ok := val.(int64)
		if !ok {
			return typeMismatch(typeName, val)
		}
		s.WriteInt64(v)
	case "uint64":
		v, ok := val.(uint64)
		if !ok {
			return typeMismatch(typeName, val)
		}
		s.WriteUint64(v)
	case "float32":
		v, ok := val.(float32)
		if !ok {
			return typeMismatch(typeName, val)
		}
		s.WriteFloat32(v)
	case "float64":
		v, ok := val.(float64)
		if !ok {
			return typeMismatch(typeName, val)
		}
		s.WriteFloat64(v)
	case "varint":
		v, ok := val.(uint64)
		if !ok {
			return typeMismatch(typeName, val)
		}
		s.WriteVarint(v)
	case "string":
		v, ok := val.(string)
		if !ok {
			return typeMismatch(typeName, val)
		}
		s.WriteString(v)
	case "FlexibleInt":
		v, ok := val.(int32)
		if !ok {
			return typeMismatch(typeName, val)
		}
		s.WriteFlexibleInt(v)
	default:
		return fmt.Errorf("record: %q is not a primitive type", typeName)
	}
	return nil
}

func sizePrimitive(typeName string, val any) (int, error) {
	switch typeName {
	case "int8", "uint8":
		return codec.SizeUint8, nil
	case "boolean":
		return codec.SizeBool, nil
	case "int16", "uint16":
		return codec.SizeInt16, nil
	case "int24":
		return codec.SizeInt24, nil
	case "int32", "uint32":
		return codec.SizeInt32, nil
	case "int64", "uint64":
		return codec.SizeInt64, nil
	case "float32":
		return codec.SizeFloat32, nil
	case "float64":
		return codec.SizeFloat64, nil
	case "varint":
		v, ok := val.(uint64)
		if !ok {
			return 0, typeMismatch(typeName, val)
		}
		return codec.VarintSize(v), nil
	case "string":
		v, ok := val.(string)
		if !ok {
			return 0, typeMismatch(typeName, val)
		}
		return codec.StringSize(v), nil
	case "FlexibleInt":
		v, ok := val.(int32)
		if !ok {
			return 0, typeMismatch(typeName, val)
		}
		return codec.FlexibleIntSize(v), nil
	default:
		return 0, fmt.Errorf("record: %q is not a primitive type", typeName)
	}
}

func typeMismatch(typeName string, val any) error {
	return fmt.Errorf("record: value %v (%T) does not match declared type %q", val, val, typeName)
}
