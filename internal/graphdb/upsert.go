package graphdb

import (
	"github.com/yungbote/relationgraph-backend/internal/model"
)

// VerticesMap is the store's native vertex payload shape:
// type -> primary key -> attribute -> {value, op}.
type VerticesMap map[string]map[string]model.AttributeMap

// EdgesMap nests one level per addressing component:
// src type -> src key -> edge type -> dst type -> dst key -> attributes.
type EdgesMap map[string]map[string]map[string]map[string]map[string]model.AttributeMap

// UpsertPayload is one POST /graph/{name} body.
type UpsertPayload struct {
	Vertices VerticesMap `json:"vertices"`
	Edges    EdgesMap    `json:"edges,omitempty"`
}

type batchEdge struct {
	from    model.Vertex
	to      model.Vertex
	wrapper model.EdgeWrapper
}

// Builder accumulates vertices and edge wrappers into an UpsertPayload.
// Grouping is pure data reshaping; the store applies the merge operators
// on arrival, so last-writer-in-batch wins locally except for the
// Identity fields merged field-wise below.
type Builder struct {
	vertices []model.Vertex
	edges    []batchEdge
}

func NewBuilder() *Builder {
	return &Builder{}
}

func (b *Builder) AddVertex(v model.Vertex) *Builder {
	b.vertices = append(b.vertices, v)
	return b
}

// AddEdge records one edge and both its endpoint vertices, so the batch
// never produces an edge whose vertex was not upserted alongside it.
func (b *Builder) AddEdge(from, to model.Vertex, w model.EdgeWrapper) *Builder {
	b.edges = append(b.edges, batchEdge{from: from, to: to, wrapper: w})
	return b
}

func (b *Builder) Empty() bool {
	return len(b.vertices) == 0 && len(b.edges) == 0
}

func (b *Builder) Build() *UpsertPayload {
	p := &UpsertPayload{Vertices: VerticesMap{}}
	for _, v := range b.vertices {
		mergeVertex(p.Vertices, v)
	}
	if len(b.edges) == 0 {
		return p
	}
	p.Edges = EdgesMap{}
	for _, e := range b.edges {
		mergeVertex(p.Vertices, e.from)
		mergeVertex(p.Vertices, e.to)
		w := e.wrapper
		srcType, ok := p.Edges[w.FromType]
		if !ok {
			srcType = map[string]map[string]map[string]map[string]model.AttributeMap{}
			p.Edges[w.FromType] = srcType
		}
		srcKey, ok := srcType[w.FromID]
		if !ok {
			srcKey = map[string]map[string]map[string]model.AttributeMap{}
			srcType[w.FromID] = srcKey
		}
		edgeType, ok := srcKey[w.Type]
		if !ok {
			edgeType = map[string]map[string]model.AttributeMap{}
			srcKey[w.Type] = edgeType
		}
		dstType, ok := edgeType[w.ToType]
		if !ok {
			dstType = map[string]model.AttributeMap{}
			edgeType[w.ToType] = dstType
		}
		dstType[w.ToID] = w.Attributes
	}
	return p
}

// contractEdges returns the contract-flavored wrappers in insertion
// order, for the post-upsert contract-connection installer.
func (b *Builder) contractEdges() []batchEdge {
	var out []batchEdge
	for _, e := range b.edges {
		switch e.wrapper.Type {
		case model.EdgeHoldContract, model.EdgeResolveContract, model.EdgeReverseResolveContract:
			out = append(out, e)
		}
	}
	return out
}

func mergeVertex(vm VerticesMap, v model.Vertex) {
	byKey, ok := vm[v.VertexType()]
	if !ok {
		byKey = map[string]model.AttributeMap{}
		vm[v.VertexType()] = byKey
	}
	existing, ok := byKey[v.PrimaryKey()]
	if !ok {
		byKey[v.PrimaryKey()] = v.ToAttributesMap()
		return
	}
	if v.VertexType() != model.VertexIdentity {
		byKey[v.PrimaryKey()] = v.ToAttributesMap()
		return
	}
	mergeIdentityAttributes(existing, v.ToAttributesMap())
}

// mergeIdentityAttributes folds incoming attributes into existing ones
// when the same Identity appears more than once in a batch. reverse
// values OR together so one connector's reverse record is not clobbered
// by another's plain record; display_name keeps the first non-empty
// value; everything else is last-writer.
func mergeIdentityAttributes(existing, incoming model.AttributeMap) {
	for key, in := range incoming {
		switch key {
		case "reverse":
			if cur, ok := existing[key]; ok {
				a, aok := cur.Value.(bool)
				b, bok := in.Value.(bool)
				if aok && bok {
					cur.Value = a || b
					existing[key] = cur
					continue
				}
			}
			existing[key] = in
		case "display_name":
			if cur, ok := existing[key]; ok {
				if s, sok := cur.Value.(string); sok && s != "" {
					continue
				}
			}
			existing[key] = in
		default:
			existing[key] = in
		}
	}
}

// ConnectedIdentityIDs lists the Identity primary keys hanging off the
// placeholder hyper-vertex, which is exactly the set the id allocation
// endpoint needs to compute the canonical component id.
func (p *UpsertPayload) ConnectedIdentityIDs() []string {
	srcKeys, ok := p.Edges[model.VertexIdentitiesGraph]
	if !ok {
		return nil
	}
	edgeTypes, ok := srcKeys[model.FakeGraphID]
	if !ok {
		return nil
	}
	dstTypes, ok := edgeTypes[model.EdgeHyper]
	if !ok {
		return nil
	}
	identities, ok := dstTypes[model.VertexIdentity]
	if !ok {
		return nil
	}
	ids := make([]string, 0, len(identities))
	for id := range identities {
		ids = append(ids, id)
	}
	return ids
}

// ReplaceGraphID rewrites the placeholder hyper-vertex id with the
// allocated one, in both the vertex map and the edge map.
func (p *UpsertPayload) ReplaceGraphID(newID string, updatedNanosecond int64) {
	if graphs, ok := p.Vertices[model.VertexIdentitiesGraph]; ok {
		if attrs, ok := graphs[model.FakeGraphID]; ok {
			if idAttr, ok := attrs["id"]; ok {
				idAttr.Value = newID
				attrs["id"] = idAttr
			}
			if nsAttr, ok := attrs["updated_nanosecond"]; ok {
				nsAttr.Value = updatedNanosecond
				attrs["updated_nanosecond"] = nsAttr
			}
			delete(graphs, model.FakeGraphID)
			graphs[newID] = attrs
		}
	}
	if srcKeys, ok := p.Edges[model.VertexIdentitiesGraph]; ok {
		if edgeMap, ok := srcKeys[model.FakeGraphID]; ok {
			delete(srcKeys, model.FakeGraphID)
			srcKeys[newID] = edgeMap
		}
	}
}
