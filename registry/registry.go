package registry

import (
	"fmt"
	"sort"

	"github.com/Totktonada/protoenc/schema"
)

// Registry stores the schema of the protobuf messages. The encoder looks
// definitions up here when it needs to marshal a message.
type Registry struct {
	messages map[string]*schema.Message // name -> message
	enums    map[string]*schema.Enum    // name -> enum
}

// New builds a registry from a list of message and enum definitions.
//
// The build runs in two passes. Pass 1 registers every definition name and
// rejects duplicates, so the declaration order of the input list never
// matters and forward references are free. Pass 2 walks every field of
// every message and classifies its type as a scalar, a message or an enum;
// a name that is none of those is reported as undeclared, and a field
// whose type is its own containing message is rejected outright — there is
// no deferred resolution at encode time that could break such a cycle.
func New(defs []schema.Definition) (*Registry, error) {
	r := &Registry{
		messages: make(map[string]*schema.Message),
		enums:    make(map[string]*schema.Enum),
	}

	// Pass 1: register all message and enum names.
	for _, def := range defs {
		name := def.DefinitionName()
		if r.contains(name) {
			return nil, fmt.Errorf("Double definition of name %q", name)
		}
		switch d := def.(type) {
		case *schema.Message:
			r.messages[name] = d
		case *schema.Enum:
			r.enums[name] = d
		default:
			return nil, fmt.Errorf("unsupported definition type %T for %q", def, name)
		}
	}

	// Pass 2: resolve every field type.
	for _, msg := range r.sortedMessages() {
		for _, field := range sortedFields(msg) {
			if field.Type == msg.Name {
				return nil, fmt.Errorf("Message %q has a field of %q type, recursive definition is prohibited",
					msg.Name, field.Type)
			}
			if schema.IsScalarType(field.Type) || r.contains(field.Type) {
				continue
			}
			return nil, fmt.Errorf("Type %q is not declared", field.Type)
		}
	}

	return r, nil
}

func (r *Registry) contains(name string) bool {
	if _, ok := r.messages[name]; ok {
		return true
	}
	_, ok := r.enums[name]
	return ok
}

// sortedMessages returns messages ordered by name so that pass 2 reports
// the same error for any permutation of the input definition list.
func (r *Registry) sortedMessages() []*schema.Message {
	msgs := make([]*schema.Message, 0, len(r.messages))
	for _, msg := range r.messages {
		msgs = append(msgs, msg)
	}
	sort.Slice(msgs, func(i, j int) bool { return msgs[i].Name < msgs[j].Name })
	return msgs
}

func sortedFields(msg *schema.Message) []*schema.Field {
	fields := make([]*schema.Field, 0, len(msg.FieldByID))
	for _, field := range msg.FieldByID {
		fields = append(fields, field)
	}
	sort.Slice(fields, func(i, j int) bool { return fields[i].ID < fields[j].ID })
	return fields
}

// GetMessage retrieves a message definition by name
func (r *Registry) GetMessage(name string) (*schema.Message, error) {
	if msg, exists := r.messages[name]; exists {
		return msg, nil
	}
	return nil, fmt.Errorf("message not found: %s", name)
}

// GetEnum retrieves an enum definition by name
func (r *Registry) GetEnum(name string) (*schema.Enum, error) {
	if enum, exists := r.enums[name]; exists {
		return enum, nil
	}
	return nil, fmt.Errorf("enum not found: %s", name)
}

// HasMessage reports whether name is a registered message.
func (r *Registry) HasMessage(name string) bool {
	_, ok := r.messages[name]
	return ok
}

// HasEnum reports whether name is a registered enum.
func (r *Registry) HasEnum(name string) bool {
	_, ok := r.enums[name]
	return ok
}

// ListMessages returns all registered message names
func (r *Registry) ListMessages() []string {
	names := make([]string, 0, len(r.messages))
	for name := range r.messages {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ListEnums returns all registered enum names
func (r *Registry) ListEnums() []string {
	names := make([]string, 0, len(r.enums))
	for name := range r.enums {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
