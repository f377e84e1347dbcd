package wire

import (
	"encoding/hex"
	"math"
	"strings"
	"testing"

	"github.com/Totktonada/protoenc/schema"
)

func scalarField(t *testing.T, kind string) *schema.Field {
	t.Helper()
	return &schema.Field{Name: "val", Type: kind, ID: 1}
}

func TestScalarCodecByName(t *testing.T) {
	for _, kind := range []string{
		"int32", "int64", "uint32", "uint64", "sint32", "sint64",
		"bool", "fixed32", "fixed64", "sfixed32", "sfixed64",
		"float", "double", "string", "bytes",
	} {
		if _, ok := ScalarCodecByName(kind); !ok {
			t.Errorf("no codec for scalar kind %q", kind)
		}
	}
	if _, ok := ScalarCodecByName("Message"); ok {
		t.Error("non-scalar name resolved to a codec")
	}
}

func TestScalarPackedFlags(t *testing.T) {
	for kind, codec := range scalarCodecs {
		wantPacked := kind != schema.TypeString && kind != schema.TypeBytes
		if codec.Packed != wantPacked {
			t.Errorf("%s: packed = %v, want %v", kind, codec.Packed, wantPacked)
		}
	}
}

func TestScalarValidate(t *testing.T) {
	tests := []struct {
		name    string
		kind    string
		value   interface{}
		wantErr string // empty means the value must validate
	}{
		// int32: native numbers and wide integers, range [-2^31, 2^31-1].
		{"int32_native_zero", "int32", float64(0), ""},
		{"int32_native_max", "int32", float64(math.MaxInt32), ""},
		{"int32_native_min", "int32", float64(math.MinInt32), ""},
		{"int32_native_overflow", "int32", float64(2147483648), `do not fit in "int32"`},
		{"int32_native_underflow", "int32", float64(-2147483649), `do not fit in "int32"`},
		{"int32_native_fractional", "int32", 1.5, `Input number value 1.500000 for "val" is not integer`},
		{"int32_wide_ok", "int32", int64(-2), ""},
		{"int32_wide_overflow", "int32", int64(math.MaxInt32) + 1, `do not fit in "int32"`},
		{"int32_wide_unsigned_ok", "int32", uint64(math.MaxInt32), ""},
		{"int32_wide_unsigned_overflow", "int32", uint64(math.MaxInt32) + 1, `do not fit in "int32"`},
		{"int32_string_rejected", "int32", "12", "Unsupported or colliding types"},
		{"int32_bool_rejected", "int32", true, "Unsupported or colliding types"},

		// int64: the full 64-bit signed range.
		{"int64_wide_min", "int64", int64(math.MinInt64), ""},
		{"int64_wide_max", "int64", int64(math.MaxInt64), ""},
		{"int64_native_two_pow_63", "int64", 9223372036854775808.0, `do not fit in "int64"`},
		{"int64_native_min", "int64", -9223372036854775808.0, ""},
		{"int64_wide_unsigned_overflow", "int64", uint64(math.MaxInt64) + 1, `do not fit in "int64"`},

		// uint32 / uint64: no negatives in any representation.
		{"uint32_native_max", "uint32", float64(math.MaxUint32), ""},
		{"uint32_native_overflow", "uint32", float64(math.MaxUint32) + 1, `do not fit in "uint32"`},
		{"uint32_native_negative", "uint32", float64(-1), `do not fit in "uint32"`},
		{"uint32_wide_signed_negative", "uint32", int64(-1), `do not fit in "uint32"`},
		{"uint64_wide_unsigned_max", "uint64", uint64(math.MaxUint64), ""},
		{"uint64_native_negative", "uint64", float64(-1), `do not fit in "uint_64"`},
		{"uint64_wide_signed_negative", "uint64", int64(-5), `do not fit in "uint_64"`},
		{"uint64_native_two_pow_64", "uint64", 18446744073709551616.0, `do not fit in "uint_64"`},

		// sint32 / sint64: zigzag kinds share the signed ranges.
		{"sint32_native_ok", "sint32", float64(-770), ""},
		{"sint32_native_overflow", "sint32", float64(2147483648), `do not fit in "sint32"`},
		{"sint64_wide_min", "sint64", int64(math.MinInt64), ""},

		// bool: boolean only.
		{"bool_true", "bool", true, ""},
		{"bool_number_rejected", "bool", float64(1), "Unsupported or colliding types"},
		{"bool_string_rejected", "bool", "true", "Unsupported or colliding types"},

		// fixed kinds.
		{"fixed32_native_ok", "fixed32", float64(10), ""},
		{"fixed32_native_negative", "fixed32", float64(-1), `do not fit in "fixed32"`},
		{"fixed64_wide_ok", "fixed64", uint64(10), ""},
		{"sfixed32_native_ok", "sfixed32", float64(-1), ""},
		{"sfixed64_wide_max_rejected", "sfixed64", int64(math.MaxInt64), `do not fit in "sfixed64"`},
		{"sfixed64_wide_min_rejected", "sfixed64", int64(math.MinInt64), `do not fit in "sfixed64"`},
		{"sfixed64_wide_ok", "sfixed64", int64(math.MaxInt64) - 1, ""},

		// float / double: native numbers only.
		{"float_ok", "float", 0.5, ""},
		{"float_fractional_ok", "float", 1.25, ""},
		{"float_overflow_is_inf", "float", 3.5e38, `is 'inf' and do not fit in "float"`},
		{"float_negative_overflow_is_inf", "float", -3.5e38, `is 'inf' and do not fit in "float"`},
		{"float_wide_rejected", "float", int64(1), "Unsupported or colliding types"},
		{"float_string_rejected", "float", "0.5", "Unsupported or colliding types"},
		{"double_ok", "double", 0.5, ""},
		{"double_inf_rejected", "double", math.Inf(1), `is 'inf' and do not fit in "double"`},
		{"double_wide_rejected", "double", uint64(1), "Unsupported or colliding types"},

		// string / bytes.
		{"string_ok", "string", "fuz", ""},
		{"string_number_rejected", "string", float64(1), "Unsupported or colliding types"},
		{"bytes_slice_ok", "bytes", []byte("buz"), ""},
		{"bytes_string_ok", "bytes", "buz", ""},
		{"bytes_number_rejected", "bytes", float64(1), "Unsupported or colliding types"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			codec, ok := ScalarCodecByName(tt.kind)
			if !ok {
				t.Fatalf("no codec for %q", tt.kind)
			}
			err := codec.Validate(scalarField(t, tt.kind), tt.value)
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("Validate(%v) failed: %v", tt.value, err)
				}
				return
			}
			if err == nil {
				t.Fatalf("Validate(%v) succeeded, want error containing %q", tt.value, tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate(%v) error = %q, want substring %q", tt.value, err, tt.wantErr)
			}
		})
	}
}

func TestScalarEncodeValue(t *testing.T) {
	tests := []struct {
		name     string
		kind     string
		value    interface{}
		expected string
	}{
		{"int32_native", "int32", float64(1540), "840c"},
		{"int32_negative", "int32", float64(-2), "feffffffffffffffff01"},
		{"int32_wide", "int32", int64(1540), "840c"},
		{"int64_negative_wide", "int64", int64(-1), "ffffffffffffffffff01"},
		{"uint64_max", "uint64", uint64(math.MaxUint64), "ffffffffffffffffff01"},
		{"sint32_negative", "sint32", float64(-770), "830c"},
		{"sint64_min", "sint64", int64(math.MinInt64), "ffffffffffffffffff01"},
		{"bool_true", "bool", true, "01"},
		{"bool_false", "bool", false, "00"},
		{"fixed32", "fixed32", float64(10), "0a000000"},
		{"sfixed32_negative", "sfixed32", int64(-1), "ffffffff"},
		{"fixed64", "fixed64", float64(10), "0a00000000000000"},
		{"sfixed64_negative", "sfixed64", int64(-2), "feffffffffffffff"},
		{"float_half", "float", 0.5, "0000003f"},
		{"double_half", "double", 0.5, "000000000000e03f"},
		{"string", "string", "fuz", "0366757a"},
		{"bytes", "bytes", []byte("buz"), "0362757a"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			codec, _ := ScalarCodecByName(tt.kind)
			if err := codec.Validate(scalarField(t, tt.kind), tt.value); err != nil {
				t.Fatalf("Validate(%v) failed: %v", tt.value, err)
			}

			encoder := NewEncoder()
			codec.EncodeValue(encoder, tt.value)
			if got := hex.EncodeToString(encoder.Bytes()); got != tt.expected {
				t.Errorf("EncodeValue(%v) = %s, want %s", tt.value, got, tt.expected)
			}
		})
	}
}

func TestScalarEncodeTagged(t *testing.T) {
	codec, _ := ScalarCodecByName("int32")
	encoder := NewEncoder()
	codec.EncodeTagged(encoder, 1, float64(0))
	if got := hex.EncodeToString(encoder.Bytes()); got != "0800" {
		t.Errorf("EncodeTagged(1, 0) = %s, want 0800", got)
	}

	// The tagged form is tag bytes plus the value-only form: the packed
	// path relies on that relation.
	value := float64(1540)
	tagged := NewEncoder()
	codec.EncodeTagged(tagged, 1, value)
	bare := NewEncoder()
	codec.EncodeValue(bare, value)
	if tagged.Len() != bare.Len()+1 {
		t.Errorf("tagged form is %d bytes, value form %d bytes, want 1-byte tag difference",
			tagged.Len(), bare.Len())
	}
}
