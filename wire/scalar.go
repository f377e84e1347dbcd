package wire

import (
	"fmt"
	"math"
	"strconv"

	"github.com/Totktonada/protoenc/schema"
)

// ScalarCodec carries the per-kind behavior of one proto3 scalar type:
// host-representation validation, the wire type for tagging, packed
// eligibility and the bare value encoder. The tagged form is derived, so
// the packed repeated path can call EncodeValue directly instead of
// stripping tags off finished fragments.
type ScalarCodec struct {
	Type   schema.ScalarType
	Wire   WireType
	Packed bool
	// Validate checks the host representation, integrality and range of
	// value for a field of this kind.
	Validate func(field *schema.Field, value interface{}) error
	// EncodeValue emits the bare value bytes of an already validated value.
	EncodeValue func(e *Encoder, value interface{})
}

// EncodeTagged emits the field tag followed by the value bytes.
func (c *ScalarCodec) EncodeTagged(e *Encoder, id int32, value interface{}) {
	e.EncodeTag(FieldNumber(id), c.Wire)
	c.EncodeValue(e, value)
}

// ScalarCodecByName returns the codec for a scalar kind name.
func ScalarCodecByName(name string) (*ScalarCodec, bool) {
	c, ok := scalarCodecs[schema.ScalarType(name)]
	return c, ok
}

// ===== HOST REPRESENTATION HELPERS =====
//
// Two disjoint representations carry integers: native numbers (float64,
// with float32 widened) and wide 64-bit integers (int64/uint64, with the
// smaller Go integer types widened). Validators branch on which one the
// caller supplied.

func asNativeNumber(value interface{}) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	}
	return 0, false
}

func asWideInt(value interface{}) (int64, bool) {
	switch v := value.(type) {
	case int64:
		return v, true
	case int:
		return int64(v), true
	case int32:
		return int64(v), true
	case int16:
		return int64(v), true
	case int8:
		return int64(v), true
	}
	return 0, false
}

func asWideUint(value interface{}) (uint64, bool) {
	switch v := value.(type) {
	case uint64:
		return v, true
	case uint:
		return uint64(v), true
	case uint32:
		return uint64(v), true
	case uint16:
		return uint64(v), true
	case uint8:
		return uint64(v), true
	}
	return 0, false
}

func isNumeric(value interface{}) bool {
	if _, ok := asNativeNumber(value); ok {
		return true
	}
	if _, ok := asWideInt(value); ok {
		return true
	}
	_, ok := asWideUint(value)
	return ok
}

// floatToInt64 converts an integral native number into int64. The upper
// bound is exclusive: float64 cannot represent 2^63-1, and anything at or
// above 2^63 would overflow the conversion.
func floatToInt64(f float64) (int64, bool) {
	if !(f >= -9223372036854775808.0 && f < 9223372036854775808.0) {
		return 0, false
	}
	return int64(f), true
}

// floatToUint64 converts an integral native number into uint64. Same
// exclusive upper bound reasoning as floatToInt64, at 2^64.
func floatToUint64(f float64) (uint64, bool) {
	if !(f >= 0 && f < 18446744073709551616.0) {
		return 0, false
	}
	return uint64(f), true
}

// formatNumber renders a native number for error messages without the
// exponent form that %v would pick for large integral values.
func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// ===== ERROR CONSTRUCTORS =====

// ErrTooLong is returned for LEN payloads longer than 2^32 bytes.
var ErrTooLong = fmt.Errorf("Too long string to be encoded")

func typeError(field *schema.Field, typeName string, value interface{}) error {
	return fmt.Errorf("Field %q of %q type gets %T type value. Unsupported or colliding types",
		field.Name, typeName, value)
}

func notIntegerError(field *schema.Field, f float64) error {
	return fmt.Errorf("Input number value %f for %q is not integer", f, field.Name)
}

func rangeError(field *schema.Field, t schema.ScalarType, value string) error {
	return fmt.Errorf("Input data for %q field is %s and do not fit in %q",
		field.Name, value, rangeLabel(t))
}

// rangeLabel spells uint64 the way the error contract spells it.
func rangeLabel(t schema.ScalarType) string {
	if t == schema.TypeUint64 {
		return "uint_64"
	}
	return string(t)
}

// ===== VALIDATORS =====

// validateSignedInt checks a value destined for a signed integer kind with
// the inclusive range [min, max]. An unsigned wide input skips the lower
// bound: the representation cannot be negative.
func validateSignedInt(field *schema.Field, value interface{}, t schema.ScalarType, min, max int64) error {
	if f, ok := asNativeNumber(value); ok {
		if math.Ceil(f) != f {
			return notIntegerError(field, f)
		}
		i, ok := floatToInt64(f)
		if !ok || i < min || i > max {
			return rangeError(field, t, formatNumber(f))
		}
		return nil
	}
	if i, ok := asWideInt(value); ok {
		if i < min || i > max {
			return rangeError(field, t, strconv.FormatInt(i, 10))
		}
		return nil
	}
	if u, ok := asWideUint(value); ok {
		if u > uint64(max) {
			return rangeError(field, t, strconv.FormatUint(u, 10))
		}
		return nil
	}
	return typeError(field, string(t), value)
}

// validateUnsignedInt checks a value destined for an unsigned integer kind
// with the inclusive range [0, max].
func validateUnsignedInt(field *schema.Field, value interface{}, t schema.ScalarType, max uint64) error {
	if f, ok := asNativeNumber(value); ok {
		if math.Ceil(f) != f {
			return notIntegerError(field, f)
		}
		u, ok := floatToUint64(f)
		if !ok || u > max {
			return rangeError(field, t, formatNumber(f))
		}
		return nil
	}
	if u, ok := asWideUint(value); ok {
		if u > max {
			return rangeError(field, t, strconv.FormatUint(u, 10))
		}
		return nil
	}
	if i, ok := asWideInt(value); ok {
		if i < 0 || uint64(i) > max {
			return rangeError(field, t, strconv.FormatInt(i, 10))
		}
		return nil
	}
	return typeError(field, string(t), value)
}

// validateFloat checks a value destined for float or double. Only native
// numbers are accepted; a magnitude above max would overflow to infinity
// when narrowed, which the contract reports as 'inf'.
func validateFloat(field *schema.Field, value interface{}, t schema.ScalarType, max float64) error {
	f, ok := asNativeNumber(value)
	if !ok {
		return typeError(field, string(t), value)
	}
	if f < -max || f > max {
		return rangeError(field, t, "'inf'")
	}
	return nil
}

// ===== VALUE EXTRACTION (post-validation) =====

func signedValue(value interface{}) int64 {
	if f, ok := asNativeNumber(value); ok {
		return int64(f)
	}
	if i, ok := asWideInt(value); ok {
		return i
	}
	u, _ := asWideUint(value)
	return int64(u)
}

func unsignedValue(value interface{}) uint64 {
	if f, ok := asNativeNumber(value); ok {
		return uint64(f)
	}
	if u, ok := asWideUint(value); ok {
		return u
	}
	i, _ := asWideInt(value)
	return uint64(i)
}

func floatValue(value interface{}) float64 {
	f, _ := asNativeNumber(value)
	return f
}

// ===== THE SCALAR TABLE =====

var scalarCodecs = map[schema.ScalarType]*ScalarCodec{
	schema.TypeInt32: {
		Type:   schema.TypeInt32,
		Wire:   WireVarint,
		Packed: true,
		Validate: func(field *schema.Field, value interface{}) error {
			return validateSignedInt(field, value, schema.TypeInt32, math.MinInt32, math.MaxInt32)
		},
		EncodeValue: func(e *Encoder, value interface{}) {
			e.EncodeVarint(uint64(signedValue(value)))
		},
	},
	schema.TypeInt64: {
		Type:   schema.TypeInt64,
		Wire:   WireVarint,
		Packed: true,
		Validate: func(field *schema.Field, value interface{}) error {
			return validateSignedInt(field, value, schema.TypeInt64, math.MinInt64, math.MaxInt64)
		},
		EncodeValue: func(e *Encoder, value interface{}) {
			e.EncodeVarint(uint64(signedValue(value)))
		},
	},
	schema.TypeUint32: {
		Type:   schema.TypeUint32,
		Wire:   WireVarint,
		Packed: true,
		Validate: func(field *schema.Field, value interface{}) error {
			return validateUnsignedInt(field, value, schema.TypeUint32, math.MaxUint32)
		},
		EncodeValue: func(e *Encoder, value interface{}) {
			e.EncodeVarint(unsignedValue(value))
		},
	},
	schema.TypeUint64: {
		Type:   schema.TypeUint64,
		Wire:   WireVarint,
		Packed: true,
		Validate: func(field *schema.Field, value interface{}) error {
			return validateUnsignedInt(field, value, schema.TypeUint64, math.MaxUint64)
		},
		EncodeValue: func(e *Encoder, value interface{}) {
			e.EncodeVarint(unsignedValue(value))
		},
	},
	schema.TypeSint32: {
		Type:   schema.TypeSint32,
		Wire:   WireVarint,
		Packed: true,
		Validate: func(field *schema.Field, value interface{}) error {
			return validateSignedInt(field, value, schema.TypeSint32, math.MinInt32, math.MaxInt32)
		},
		EncodeValue: func(e *Encoder, value interface{}) {
			e.EncodeVarint(EncodeZigZag64(signedValue(value)))
		},
	},
	schema.TypeSint64: {
		Type:   schema.TypeSint64,
		Wire:   WireVarint,
		Packed: true,
		Validate: func(field *schema.Field, value interface{}) error {
			return validateSignedInt(field, value, schema.TypeSint64, math.MinInt64, math.MaxInt64)
		},
		EncodeValue: func(e *Encoder, value interface{}) {
			e.EncodeVarint(EncodeZigZag64(signedValue(value)))
		},
	},
	schema.TypeBool: {
		Type:   schema.TypeBool,
		Wire:   WireVarint,
		Packed: true,
		Validate: func(field *schema.Field, value interface{}) error {
			if _, ok := value.(bool); !ok {
				return typeError(field, string(schema.TypeBool), value)
			}
			return nil
		},
		EncodeValue: func(e *Encoder, value interface{}) {
			ve := NewVarintEncoder(e)
			ve.EncodeBool(value.(bool))
		},
	},
	schema.TypeFixed32: {
		Type:   schema.TypeFixed32,
		Wire:   WireFixed32,
		Packed: true,
		Validate: func(field *schema.Field, value interface{}) error {
			return validateUnsignedInt(field, value, schema.TypeFixed32, math.MaxUint32)
		},
		EncodeValue: func(e *Encoder, value interface{}) {
			e.EncodeFixed32(uint32(unsignedValue(value)))
		},
	},
	schema.TypeSfixed32: {
		Type:   schema.TypeSfixed32,
		Wire:   WireFixed32,
		Packed: true,
		Validate: func(field *schema.Field, value interface{}) error {
			return validateSignedInt(field, value, schema.TypeSfixed32, math.MinInt32, math.MaxInt32)
		},
		EncodeValue: func(e *Encoder, value interface{}) {
			e.EncodeFixed32(uint32(signedValue(value)))
		},
	},
	schema.TypeFixed64: {
		Type:   schema.TypeFixed64,
		Wire:   WireFixed64,
		Packed: true,
		Validate: func(field *schema.Field, value interface{}) error {
			return validateUnsignedInt(field, value, schema.TypeFixed64, math.MaxUint64)
		},
		EncodeValue: func(e *Encoder, value interface{}) {
			e.EncodeFixed64(unsignedValue(value))
		},
	},
	schema.TypeSfixed64: {
		Type:   schema.TypeSfixed64,
		Wire:   WireFixed64,
		Packed: true,
		Validate: func(field *schema.Field, value interface{}) error {
			return validateSignedInt(field, value, schema.TypeSfixed64, math.MinInt64+1, math.MaxInt64-1)
		},
		EncodeValue: func(e *Encoder, value interface{}) {
			e.EncodeFixed64(uint64(signedValue(value)))
		},
	},
	schema.TypeFloat: {
		Type:   schema.TypeFloat,
		Wire:   WireFixed32,
		Packed: true,
		Validate: func(field *schema.Field, value interface{}) error {
			return validateFloat(field, value, schema.TypeFloat, math.MaxFloat32)
		},
		EncodeValue: func(e *Encoder, value interface{}) {
			fe := NewFixedEncoder(e)
			fe.EncodeFloat32(float32(floatValue(value)))
		},
	},
	schema.TypeDouble: {
		Type:   schema.TypeDouble,
		Wire:   WireFixed64,
		Packed: true,
		Validate: func(field *schema.Field, value interface{}) error {
			return validateFloat(field, value, schema.TypeDouble, math.MaxFloat64)
		},
		EncodeValue: func(e *Encoder, value interface{}) {
			fe := NewFixedEncoder(e)
			fe.EncodeFloat64(floatValue(value))
		},
	},
	schema.TypeString: {
		Type:   schema.TypeString,
		Wire:   WireBytes,
		Packed: false,
		Validate: func(field *schema.Field, value interface{}) error {
			s, ok := value.(string)
			if !ok {
				return typeError(field, string(schema.TypeString), value)
			}
			if uint64(len(s)) > MaxLenPayload {
				return ErrTooLong
			}
			return nil
		},
		EncodeValue: func(e *Encoder, value interface{}) {
			e.EncodeString(value.(string))
		},
	},
	schema.TypeBytes: {
		Type:   schema.TypeBytes,
		Wire:   WireBytes,
		Packed: false,
		Validate: func(field *schema.Field, value interface{}) error {
			b, ok := bytesValue(value)
			if !ok {
				return typeError(field, string(schema.TypeBytes), value)
			}
			if uint64(len(b)) > MaxLenPayload {
				return ErrTooLong
			}
			return nil
		},
		EncodeValue: func(e *Encoder, value interface{}) {
			b, _ := bytesValue(value)
			e.EncodeBytes(b)
		},
	},
}

func bytesValue(value interface{}) ([]byte, bool) {
	switch v := value.(type) {
	case []byte:
		return v, true
	case string:
		return []byte(v), true
	}
	return nil, false
}
