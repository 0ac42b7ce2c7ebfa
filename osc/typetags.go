package osc

import (
	"math"

	"github.com/cockroachdb/errors"
)

// TypeTag is a single OSC type tag character.
type TypeTag byte

const (
	TypeInt32   TypeTag = 'i'
	TypeFloat32 TypeTag = 'f'
	TypeString  TypeTag = 's'
	TypeBlob    TypeTag = 'b'
	TypeInvalid TypeTag = 0

	// typeTagMarker starts every type tag string on the wire.
	typeTagMarker = ','
)

// Valid reports whether t is one of the recognized tags.
func (t TypeTag) Valid() bool {
	switch t {
	case TypeInt32, TypeFloat32, TypeString, TypeBlob:
		return true
	}
	return false
}

func (t TypeTag) String() string {
	if t == TypeInvalid {
		return "invalid"
	}
	return string(rune(t))
}

// ToTypeTag returns the OSC TypeTag for the given argument.
// Returns TypeInvalid if the argument type is unsupported.
func ToTypeTag(arg any) TypeTag {
	switch arg.(type) {
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return TypeInt32
	case float32, float64:
		return TypeFloat32
	case string:
		return TypeString
	case Blob, []byte:
		return TypeBlob
	default:
		return TypeInvalid
	}
}

// GetTypeTags returns the type tag string for args, without the leading ','.
func GetTypeTags(args []any) (string, error) {
	tags := make([]byte, 0, len(args))
	for i, arg := range args {
		t := ToTypeTag(arg)
		if t == TypeInvalid {
			return "", errors.Wrapf(ErrUnsupportedType, "argument %d: %T", i, arg)
		}
		tags = append(tags, byte(t))
	}
	return string(tags), nil
}

// toInt32 narrows any supported integer type, failing when the value does not
// fit in 32 bits.
func toInt32(arg any) (int32, error) {
	var v int64
	switch t := arg.(type) {
	case int32:
		return t, nil
	case int:
		v = int64(t)
	case int8:
		v = int64(t)
	case int16:
		v = int64(t)
	case int64:
		v = t
	case uint8:
		v = int64(t)
	case uint16:
		v = int64(t)
	case uint:
		if uint64(t) > math.MaxInt32 {
			return 0, errors.Wrapf(ErrUnsupportedType, "%d overflows int32", t)
		}
		v = int64(t)
	case uint32:
		v = int64(t)
	case uint64:
		if t > math.MaxInt32 {
			return 0, errors.Wrapf(ErrUnsupportedType, "%d overflows int32", t)
		}
		v = int64(t)
	default:
		return 0, errors.Wrapf(ErrUnsupportedType, "%T is not an integer", arg)
	}
	if v < math.MinInt32 || v > math.MaxInt32 {
		return 0, errors.Wrapf(ErrUnsupportedType, "%d overflows int32", v)
	}
	return int32(v), nil
}

// tagOf normalizes the tag forms accepted by ParserFor.
func tagOf(tag any) (TypeTag, bool) {
	switch t := tag.(type) {
	case TypeTag:
		return t, true
	case byte:
		return TypeTag(t), true
	case rune:
		if t < 0 || t > math.MaxUint8 {
			return TypeInvalid, false
		}
		return TypeTag(t), true
	case int:
		if t < 0 || t > math.MaxUint8 {
			return TypeInvalid, false
		}
		return TypeTag(t), true
	case string:
		if len(t) != 1 {
			return TypeInvalid, false
		}
		return TypeTag(t[0]), true
	case []byte:
		if len(t) != 1 {
			return TypeInvalid, false
		}
		return TypeTag(t[0]), true
	}
	return TypeInvalid, false
}
