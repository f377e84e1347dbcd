package wire

import (
	"fmt"
	"math"
	"sort"

	"github.com/Totktonada/protoenc/schema"
)

// UnknownFieldsKey is the sentinel data key whose value is a sequence of
// pre-encoded byte chunks concatenated into the output verbatim. It lets
// fields a newer schema introduced survive a re-encode.
const UnknownFieldsKey = "_unknown_fields"

// MessageEncoder handles message encoding operations
type MessageEncoder struct {
	encoder *Encoder
}

// NewMessageEncoder creates a new message encoder
func NewMessageEncoder(e *Encoder) *MessageEncoder {
	return &MessageEncoder{encoder: e}
}

// EncodeMessage encodes a message with the given data.
//
// proto3 places no ordering constraint on fields on the wire; fields are
// emitted sorted by field id so the output is deterministic. Unknown-field
// chunks follow the named fields.
func (me *MessageEncoder) EncodeMessage(data map[string]interface{}, msg *schema.Message) error {
	type fieldEntry struct {
		value interface{}
		field *schema.Field
	}
	var entries []fieldEntry
	var unknown interface{}
	hasUnknown := false

	for fieldName, fieldValue := range data {
		if fieldName == UnknownFieldsKey {
			unknown = fieldValue
			hasUnknown = true
			continue
		}
		field, ok := msg.FieldByName[fieldName]
		if !ok {
			return fmt.Errorf("Wrong field name %q for %q message", fieldName, msg.Name)
		}
		entries = append(entries, fieldEntry{value: fieldValue, field: field})
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].field.ID < entries[j].field.ID
	})

	for _, entry := range entries {
		if entry.field.Repeated {
			if err := me.encodeRepeatedField(entry.field, entry.value); err != nil {
				return err
			}
			continue
		}
		if err := me.encodeSingularField(entry.field, entry.value); err != nil {
			return err
		}
	}

	if hasUnknown {
		if err := me.encodeUnknownFields(msg, unknown); err != nil {
			return err
		}
	}

	return nil
}

// encodeSingularField dispatches one value over the scalar, enum and
// nested-message paths. Unpacked repeated fields land here once per
// element.
func (me *MessageEncoder) encodeSingularField(field *schema.Field, value interface{}) error {
	if codec, ok := ScalarCodecByName(field.Type); ok {
		if err := codec.Validate(field, value); err != nil {
			return err
		}
		codec.EncodeTagged(me.encoder, field.ID, value)
		return nil
	}

	reg := me.encoder.registry
	if reg == nil {
		return fmt.Errorf("registry is required to encode %q fields", field.Type)
	}

	if reg.HasEnum(field.Type) {
		enum, err := reg.GetEnum(field.Type)
		if err != nil {
			return err
		}
		return me.encodeEnumField(field, enum, value)
	}

	if reg.HasMessage(field.Type) {
		nested, err := reg.GetMessage(field.Type)
		if err != nil {
			return err
		}
		return me.encodeMessageField(field, nested, value)
	}

	// Unreachable if the registry build succeeded.
	return fmt.Errorf("Type %q is not declared", field.Type)
}

// encodeEnumField encodes an enum field. Open-enum semantics: a numeric
// value only has to fit int32 even when the enum does not declare it; a
// symbolic name must be declared.
func (me *MessageEncoder) encodeEnumField(field *schema.Field, enum *schema.Enum, value interface{}) error {
	if name, ok := value.(string); ok {
		number, ok := enum.NumberByName[name]
		if !ok {
			return fmt.Errorf("%q is not defined in %q enum", name, enum.Name)
		}
		me.encoder.EncodeTag(FieldNumber(field.ID), WireVarint)
		ve := NewVarintEncoder(me.encoder)
		ve.EncodeEnum(number)
		return nil
	}

	if !isNumeric(value) {
		return typeError(field, enum.Name, value)
	}
	if err := validateSignedInt(field, value, schema.TypeInt32, math.MinInt32, math.MaxInt32); err != nil {
		return err
	}
	me.encoder.EncodeTag(FieldNumber(field.ID), WireVarint)
	me.encoder.EncodeVarint(uint64(signedValue(value)))
	return nil
}

// encodeMessageField encodes a nested message field: recurse into a
// temporary encoder, then wrap the body in a LEN frame.
func (me *MessageEncoder) encodeMessageField(field *schema.Field, nested *schema.Message, value interface{}) error {
	data, ok := value.(map[string]interface{})
	if !ok {
		return typeError(field, nested.Name, value)
	}

	nestedEncoder := NewEncoderWithRegistry(me.encoder.registry)
	nestedMessageEncoder := NewMessageEncoder(nestedEncoder)
	if err := nestedMessageEncoder.EncodeMessage(data, nested); err != nil {
		return wrapWithField(err, field.Name)
	}
	if uint64(nestedEncoder.Len()) > MaxLenPayload {
		return ErrTooLong
	}

	me.encoder.EncodeTag(FieldNumber(field.ID), WireBytes)
	me.encoder.EncodeBytes(nestedEncoder.Bytes())
	return nil
}

// encodeRepeatedField encodes a repeated field, packed or unpacked.
func (me *MessageEncoder) encodeRepeatedField(field *schema.Field, value interface{}) error {
	elements, err := repeatedElements(field, value)
	if err != nil {
		return err
	}

	codec, isScalar := ScalarCodecByName(field.Type)
	if isScalar && codec.Packed {
		// All elements share one LEN frame with no per-element tags.
		payload := NewEncoderWithRegistry(me.encoder.registry)
		for _, element := range elements {
			if err := codec.Validate(field, element); err != nil {
				return err
			}
			codec.EncodeValue(payload, element)
		}
		if uint64(payload.Len()) > MaxLenPayload {
			return ErrTooLong
		}
		me.encoder.EncodeTag(FieldNumber(field.ID), WireBytes)
		me.encoder.EncodeBytes(payload.Bytes())
		return nil
	}

	// string/bytes scalars, enums and messages: a fully tagged field per
	// element, the same tag repeating.
	for _, element := range elements {
		if err := me.encodeSingularField(field, element); err != nil {
			return err
		}
	}
	return nil
}

// encodeUnknownFields concatenates pre-encoded byte chunks verbatim.
func (me *MessageEncoder) encodeUnknownFields(msg *schema.Message, value interface{}) error {
	appendChunk := func(chunk interface{}) error {
		b, ok := bytesValue(chunk)
		if !ok {
			return fmt.Errorf("Unknown fields of %q message must be byte chunks, got %T", msg.Name, chunk)
		}
		me.encoder.buf = append(me.encoder.buf, b...)
		return nil
	}

	switch chunks := value.(type) {
	case [][]byte:
		for _, chunk := range chunks {
			me.encoder.buf = append(me.encoder.buf, chunk...)
		}
	case []string:
		for _, chunk := range chunks {
			me.encoder.buf = append(me.encoder.buf, chunk...)
		}
	case []interface{}:
		for _, chunk := range chunks {
			if err := appendChunk(chunk); err != nil {
				return err
			}
		}
	default:
		return fmt.Errorf("Unknown fields of %q message must be a list of byte chunks, got %T", msg.Name, value)
	}
	return nil
}

// repeatedElements normalizes a repeated-field input into an element
// slice. Go slices are trivially dense arrays; map[int]interface{} and
// map[interface{}]interface{} inputs must form a dense 1-based array and
// are checked key by key. Other map types are rejected.
func repeatedElements(field *schema.Field, value interface{}) ([]interface{}, error) {
	switch v := value.(type) {
	case []interface{}:
		return v, nil
	case []map[string]interface{}:
		return genericSlice(len(v), func(i int) interface{} { return v[i] }), nil
	case []string:
		return genericSlice(len(v), func(i int) interface{} { return v[i] }), nil
	case [][]byte:
		return genericSlice(len(v), func(i int) interface{} { return v[i] }), nil
	case []int:
		return genericSlice(len(v), func(i int) interface{} { return v[i] }), nil
	case []int32:
		return genericSlice(len(v), func(i int) interface{} { return v[i] }), nil
	case []int64:
		return genericSlice(len(v), func(i int) interface{} { return v[i] }), nil
	case []uint32:
		return genericSlice(len(v), func(i int) interface{} { return v[i] }), nil
	case []uint64:
		return genericSlice(len(v), func(i int) interface{} { return v[i] }), nil
	case []bool:
		return genericSlice(len(v), func(i int) interface{} { return v[i] }), nil
	case []float32:
		return genericSlice(len(v), func(i int) interface{} { return v[i] }), nil
	case []float64:
		return genericSlice(len(v), func(i int) interface{} { return v[i] }), nil
	case map[interface{}]interface{}:
		return denseArray(field, v)
	case map[int]interface{}:
		converted := make(map[interface{}]interface{}, len(v))
		for k, element := range v {
			converted[k] = element
		}
		return denseArray(field, converted)
	default:
		return nil, fmt.Errorf("For repeated fields table data are needed")
	}
}

func genericSlice(n int, at func(int) interface{}) []interface{} {
	out := make([]interface{}, n)
	for i := range out {
		out[i] = at(i)
	}
	return out
}

// denseArray validates that the keyed collection forms a dense 1-based
// array: every key numeric, every numeric key integral, minimum key 1 and
// maximum key equal to the element count. The first failing key is
// reported.
func denseArray(field *schema.Field, m map[interface{}]interface{}) ([]interface{}, error) {
	indexed := make(map[int]interface{}, len(m))
	for key, element := range m {
		index, err := arrayIndex(field, key)
		if err != nil {
			return nil, err
		}
		indexed[index] = element
	}

	if len(indexed) == 0 {
		return nil, nil
	}

	min, max := 0, 0
	first := true
	for index := range indexed {
		if first {
			min, max = index, index
			first = false
			continue
		}
		if index < min {
			min = index
		}
		if index > max {
			max = index
		}
	}
	if min != 1 {
		return nil, fmt.Errorf("Input array for %q repeated field has minimal index %d, but 1 is expected",
			field.Name, min)
	}
	if max != len(indexed) {
		for i := 1; i <= max; i++ {
			if _, ok := indexed[i]; !ok {
				return nil, fmt.Errorf("Input array for %q repeated field has inconsistent keys: no element with index %d",
					field.Name, i)
			}
		}
	}

	out := make([]interface{}, max)
	for i := 1; i <= max; i++ {
		out[i-1] = indexed[i]
	}
	return out, nil
}

func arrayIndex(field *schema.Field, key interface{}) (int, error) {
	if i, ok := asWideInt(key); ok {
		return int(i), nil
	}
	if u, ok := asWideUint(key); ok {
		return int(u), nil
	}
	if f, ok := asNativeNumber(key); ok {
		if math.Ceil(f) != f {
			return 0, fmt.Errorf("Input array for %q repeated field contains non-integer numeric key: %v",
				field.Name, key)
		}
		return int(f), nil
	}
	return 0, fmt.Errorf("Input array for %q repeated field contains non-numeric key: %v",
		field.Name, key)
}

// Convenience method for direct access (maintains backward compatibility)

// EncodeMessage - convenience method for main encoder
func (e *Encoder) EncodeMessage(data map[string]interface{}, msg *schema.Message) error {
	me := NewMessageEncoder(e)
	return me.EncodeMessage(data, msg)
}
