package model

// Store-side edge type names.
const (
	EdgeProofForward           = "Proof_Forward"
	EdgeProofBackward          = "Proof_Backward"
	EdgeHoldIdentity           = "Hold_Identity"
	EdgeHoldContract           = "Hold_Contract"
	EdgeResolve                = "Resolve"
	EdgeReverseResolve         = "Reverse_Resolve"
	EdgeResolveContract        = "Resolve_Contract"
	EdgeReverseResolveContract = "Reverse_Resolve_Contract"
	EdgePartOfCollection       = "PartOfCollection"
	EdgeRelationUniqueTX       = "Relation_Unique_TX"
	EdgeHyper                  = "PartOfIdentitiesGraph_Reverse"
)

// Edge is a typed relation whose attributes can be rendered for upsert.
type Edge interface {
	ToAttributesMap() AttributeMap
}

// EdgeWrapper captures everything the store needs to address one edge:
// type, direction and both endpoints by (type, primary key).
type EdgeWrapper struct {
	Type       string
	Directed   bool
	FromID     string
	FromType   string
	ToID       string
	ToType     string
	Attributes AttributeMap
}

func wrap(e Edge, edgeType string, from, to Vertex) EdgeWrapper {
	return EdgeWrapper{
		Type:       edgeType,
		Directed:   true,
		FromID:     from.PrimaryKey(),
		FromType:   from.VertexType(),
		ToID:       to.PrimaryKey(),
		ToType:     to.VertexType(),
		Attributes: e.ToAttributesMap(),
	}
}

// EdgeRecord is the store's read-side shape for one edge.
type EdgeRecord[T any] struct {
	EType      string `json:"e_type"`
	Directed   bool   `json:"directed"`
	FromID     string `json:"from_id"`
	FromType   string `json:"from_type"`
	ToID       string `json:"to_id"`
	ToType     string `json:"to_type"`
	Attributes T      `json:"attributes"`
}
