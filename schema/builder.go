package schema

import (
	"fmt"
	"math"
	"strings"
)

// FieldSpec describes one field passed to NewMessage: the type spec
// (optionally prefixed by the "repeated " token) and the field id.
type FieldSpec struct {
	Type string
	ID   int32
}

const repeatedPrefix = "repeated "

// NewMessage builds a message definition from a field-name keyed spec map.
// Field ids must be unique within the message and fall into the legal
// range. Type names are not resolved here; the registry does that once all
// definitions are known, so forward references stay possible.
func NewMessage(name string, fields map[string]FieldSpec) (*Message, error) {
	msg := &Message{
		Name:        name,
		FieldByName: make(map[string]*Field, len(fields)),
		FieldByID:   make(map[int32]*Field, len(fields)),
	}

	for fieldName, spec := range fields {
		typeName := spec.Type
		repeated := false
		if strings.HasPrefix(typeName, repeatedPrefix) {
			repeated = true
			typeName = strings.TrimPrefix(typeName, repeatedPrefix)
		}

		if spec.ID < MinFieldID || spec.ID > MaxFieldID {
			return nil, fmt.Errorf("Id %d in %q field is out of range [%d; %d]",
				spec.ID, fieldName, MinFieldID, MaxFieldID)
		}
		if spec.ID >= ReservedFieldIDMin && spec.ID <= ReservedFieldIDMax {
			return nil, fmt.Errorf("Id %d in %q field is in reserved id range [%d; %d]",
				spec.ID, fieldName, ReservedFieldIDMin, ReservedFieldIDMax)
		}
		if prev, ok := msg.FieldByID[spec.ID]; ok {
			return nil, fmt.Errorf("Double definition of id %d in %q message: fields %q and %q",
				spec.ID, name, prev.Name, fieldName)
		}

		field := &Field{
			Name:     fieldName,
			Type:     typeName,
			ID:       spec.ID,
			Repeated: repeated,
		}
		msg.FieldByName[fieldName] = field
		msg.FieldByID[spec.ID] = field
	}

	return msg, nil
}

// NewEnum builds an enum definition from a member-name keyed map. Members
// are taken as int64 so out-of-range ids are caught here instead of being
// truncated at the call boundary; every id must fit int32 and be unique,
// and proto3 requires a zero-valued member as the enum default.
func NewEnum(name string, members map[string]int64) (*Enum, error) {
	enum := &Enum{
		Name:         name,
		NumberByName: make(map[string]int32, len(members)),
		NameByNumber: make(map[int32]string, len(members)),
	}

	for memberName, number := range members {
		if number < math.MinInt32 || number > math.MaxInt32 {
			return nil, fmt.Errorf("Input data for %q enum member is %d and do not fit in %q",
				memberName, number, TypeInt32)
		}
		id := int32(number)
		if prev, ok := enum.NameByNumber[id]; ok {
			return nil, fmt.Errorf("Double definition of id %d in %q enum: members %q and %q",
				id, name, prev, memberName)
		}
		enum.NumberByName[memberName] = id
		enum.NameByNumber[id] = memberName
	}

	if _, ok := enum.NameByNumber[0]; !ok {
		return nil, fmt.Errorf("%q definition does not contain a field with id = 0", name)
	}

	return enum, nil
}
