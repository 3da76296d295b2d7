package model

// Store-side vertex type names.
const (
	VertexIdentity         = "Identities"
	VertexContract         = "Contracts"
	VertexDomainCollection = "DomainCollection"
	VertexIdentitiesGraph  = "IdentitiesGraph"
)

// Vertex is anything addressable in the store by (type, primary key).
// PrimaryKey must be reconstructible from natural attributes so refetching
// the same real-world entity always lands on the same vertex.
type Vertex interface {
	PrimaryKey() string
	VertexType() string
	ToAttributesMap() AttributeMap
}

// VertexRecord is the store's read-side shape for one vertex.
type VertexRecord[T any] struct {
	VType      string `json:"v_type"`
	VID        string `json:"v_id"`
	Attributes T      `json:"attributes"`
}
