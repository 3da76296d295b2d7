package model

// HyperEdge links every Identity in a connected component to its
// IdentitiesGraph hyper-vertex. Purely structural.
type HyperEdge struct{}

func (HyperEdge) ToAttributesMap() AttributeMap { return AttributeMap{} }

func (h HyperEdge) Wrapper(graph *IdentitiesGraph, member *Identity) EdgeWrapper {
	return wrap(h, EdgeHyper, graph, member)
}
