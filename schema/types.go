package schema

// Definition is either a *Message or an *Enum registered into a protocol.
type Definition interface {
	DefinitionName() string
}

// Message represents a protobuf message definition
type Message struct {
	Name        string            `json:"name"`          // "User"
	FieldByName map[string]*Field `json:"field_by_name"` // field name -> field
	FieldByID   map[int32]*Field  `json:"field_by_id"`   // field id -> field
}

// DefinitionName returns the message name.
func (m *Message) DefinitionName() string { return m.Name }

// Field represents a message field
type Field struct {
	Name     string `json:"name"`     // "user_name"
	Type     string `json:"type"`     // scalar kind, enum name or message name
	ID       int32  `json:"id"`       // 1
	Repeated bool   `json:"repeated"` // repeated label
}

// Enum represents an enum definition
type Enum struct {
	Name         string           `json:"name"`           // "Status"
	NumberByName map[string]int32 `json:"number_by_name"` // "ACTIVE" -> 1
	NameByNumber map[int32]string `json:"name_by_number"` // 1 -> "ACTIVE"
}

// DefinitionName returns the enum name.
func (e *Enum) DefinitionName() string { return e.Name }

// Field id boundaries. Ids inside the reserved range belong to the
// protobuf wire format itself and cannot be used by schemas.
const (
	MinFieldID         int32 = 1
	MaxFieldID         int32 = 1<<29 - 1
	ReservedFieldIDMin int32 = 19000
	ReservedFieldIDMax int32 = 19999
)

// ScalarType represents protobuf scalar types
type ScalarType string

const (
	TypeDouble   ScalarType = "double"
	TypeFloat    ScalarType = "float"
	TypeInt64    ScalarType = "int64"
	TypeUint64   ScalarType = "uint64"
	TypeInt32    ScalarType = "int32"
	TypeFixed64  ScalarType = "fixed64"
	TypeFixed32  ScalarType = "fixed32"
	TypeBool     ScalarType = "bool"
	TypeString   ScalarType = "string"
	TypeBytes    ScalarType = "bytes"
	TypeUint32   ScalarType = "uint32"
	TypeSfixed32 ScalarType = "sfixed32"
	TypeSfixed64 ScalarType = "sfixed64"
	TypeSint32   ScalarType = "sint32"
	TypeSint64   ScalarType = "sint64"
)

var scalarTypes = map[ScalarType]struct{}{
	TypeDouble:   {},
	TypeFloat:    {},
	TypeInt64:    {},
	TypeUint64:   {},
	TypeInt32:    {},
	TypeFixed64:  {},
	TypeFixed32:  {},
	TypeBool:     {},
	TypeString:   {},
	TypeBytes:    {},
	TypeUint32:   {},
	TypeSfixed32: {},
	TypeSfixed64: {},
	TypeSint32:   {},
	TypeSint64:   {},
}

// IsScalarType reports whether name is one of the proto3 scalar kinds.
func IsScalarType(name string) bool {
	_, ok := scalarTypes[ScalarType(name)]
	return ok
}

// string and bytes keep per-element LEN frames; every other scalar is
// packed under the repeated label.
var packedEligible = map[ScalarType]struct{}{
	TypeDouble:   {},
	TypeFloat:    {},
	TypeInt64:    {},
	TypeUint64:   {},
	TypeInt32:    {},
	TypeFixed64:  {},
	TypeFixed32:  {},
	TypeBool:     {},
	TypeUint32:   {},
	TypeSfixed32: {},
	TypeSfixed64: {},
	TypeSint32:   {},
	TypeSint64:   {},
}

// IsPackedType checks and returns if the scalar type is packed for repeated label
func IsPackedType(t ScalarType) bool {
	_, ok := packedEligible[t]
	return ok
}
