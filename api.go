// Package protoenc encodes proto3 wire-format messages from plain Go
// values, driven by a schema built at runtime — no generated code, no
// .proto files.
//
// Usage is three calls: Message and Enum build definitions, NewProtocol
// resolves them into an immutable schema handle, and Encode produces the
// wire bytes for a named top-level message:
//
//	msg, _ := protoenc.Message("test", map[string]protoenc.Field{
//		"val": {Type: "int32", ID: 1},
//	})
//	proto, _ := protoenc.NewProtocol(msg)
//	b, _ := proto.Encode("test", map[string]interface{}{"val": 1540})
package protoenc

import (
	"fmt"

	"github.com/Totktonada/protoenc/registry"
	"github.com/Totktonada/protoenc/schema"
	"github.com/Totktonada/protoenc/wire"
)

// Field is the spec of one message field: a type name (a scalar kind, an
// enum name or a message name, optionally prefixed by the "repeated "
// token) and the field id.
type Field = schema.FieldSpec

// Message builds a message definition from a field-name keyed spec map.
func Message(name string, fields map[string]Field) (*schema.Message, error) {
	return schema.NewMessage(name, fields)
}

// Enum builds an enum definition from a member-name keyed map. proto3
// requires a member with id 0, the enum default.
func Enum(name string, members map[string]int64) (*schema.Enum, error) {
	return schema.NewEnum(name, members)
}

// Protocol is a validated, immutable schema handle. It may be shared
// across goroutines; concurrent Encode calls are safe.
type Protocol struct {
	registry *registry.Registry
}

// NewProtocol resolves a list of message and enum definitions into a
// protocol. Definition order is irrelevant: forward references are
// resolved in a second pass.
func NewProtocol(defs ...schema.Definition) (*Protocol, error) {
	r, err := registry.New(defs)
	if err != nil {
		return nil, err
	}
	return &Protocol{registry: r}, nil
}

// Encode produces the proto3 wire-format bytes of a named top-level
// message. The output carries no outer tag and no outer length prefix.
func (p *Protocol) Encode(messageName string, data map[string]interface{}) ([]byte, error) {
	msg, err := p.registry.GetMessage(messageName)
	if err != nil {
		if p.registry.HasEnum(messageName) {
			return nil, fmt.Errorf("Attempt to encode enum %q as a top level message", messageName)
		}
		return nil, fmt.Errorf("There is no message or enum named %q", messageName)
	}
	return wire.EncodeMessage(data, msg, p.registry)
}

// ListMessages returns the names of all messages in the protocol.
func (p *Protocol) ListMessages() []string { return p.registry.ListMessages() }

// ListEnums returns the names of all enums in the protocol.
func (p *Protocol) ListEnums() []string { return p.registry.ListEnums() }
