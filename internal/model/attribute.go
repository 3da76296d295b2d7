// Package model defines the closed set of vertex and edge types stored in
// the remote graph, their natural primary keys, their merge-annotated
// attribute maps, and their staleness rules.
package model

// OpCode is the server-side merge operator that travels with every
// attribute value in an upsert payload.
type OpCode string

const (
	// OpIgnoreIfExists writes the value only when the attribute is unset.
	OpIgnoreIfExists OpCode = "ignore_if_exists"
	OpAdd            OpCode = "add"
	OpAnd            OpCode = "and"
	OpOr             OpCode = "or"
	// OpMax keeps the larger of stored and incoming value, which makes
	// concurrent updated_at writers converge on the newest timestamp.
	OpMax OpCode = "max"
	OpMin OpCode = "min"
)

// Attribute pairs a JSON-encodable value with its merge operator. A zero
// Op means plain overwrite.
type Attribute struct {
	Value any    `json:"value"`
	Op    OpCode `json:"op,omitempty"`
}

// AttributeMap is one vertex's or edge's attribute set keyed by name.
type AttributeMap map[string]Attribute

func attr(value any) Attribute {
	return Attribute{Value: value}
}

func attrOp(value any, op OpCode) Attribute {
	return Attribute{Value: value, Op: op}
}
