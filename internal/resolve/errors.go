package resolve

import (
	"fmt"

	"github.com/Alia5/protocpp/internal/schema"
)

// UnresolvedTypeError reports a token that names nothing in the batch.
type UnresolvedTypeError struct {
	File     string
	Message  string // enclosing message or service
	Field    string // field or method
	Token    string
	Position schema.Position
}

func (e *UnresolvedTypeError) Error() string {
	return fmt.Sprintf("%s:%s: %s.%s: unresolved type %q", e.File, e.Position, e.Message, e.Field, e.Token)
}

// MapKeyError reports a map key that is not an integral, bool or string scalar.
type MapKeyError struct {
	File     string
	Message  string
	Field    string
	KeyType  string
	Resolved Binding
	Position schema.Position
}

func (e *MapKeyError) Error() string {
	return fmt.Sprintf("%s:%s: %s.%s: invalid map key type %q (%s); keys must be integral, bool or string",
		e.File, e.Position, e.Message, e.Field, e.KeyType, e.Resolved.Kind)
}

// MethodTypeError reports an RPC whose request or response is not a message.
type MethodTypeError struct {
	File     string
	Service  string
	Method   string
	Token    string
	Resolved Binding
	Position schema.Position
}

func (e *MethodTypeError) Error() string {
	return fmt.Sprintf("%s:%s: %s.%s: %q is a %s, rpc types must be messages",
		e.File, e.Position, e.Service, e.Method, e.Token, e.Resolved.Kind)
}
