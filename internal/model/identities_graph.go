package model

import (
	"time"

	"github.com/yungbote/relationgraph-backend/internal/utils"
)

// FakeGraphID is the placeholder written by connectors. The store's id
// allocation assigns the canonical connected-component id afterwards.
const FakeGraphID = "fake_uuid_v4"

// IdentitiesGraph is the hyper-vertex anchoring one connected component
// of Identities.
type IdentitiesGraph struct {
	ID        string    `json:"id"`
	UpdatedAt Timestamp `json:"updated_at"`
	// UpdatedNanosecond is the microsecond stamp the id allocation
	// service uses to order competing component writes.
	UpdatedNanosecond int64 `json:"updated_nanosecond"`
}

func NewIdentitiesGraph() *IdentitiesGraph {
	return &IdentitiesGraph{
		ID:                FakeGraphID,
		UpdatedAt:         TimestampNow(),
		UpdatedNanosecond: time.Now().UnixMicro(),
	}
}

func (g *IdentitiesGraph) PrimaryKey() string { return g.ID }

func (g *IdentitiesGraph) VertexType() string { return VertexIdentitiesGraph }

func (g *IdentitiesGraph) ToAttributesMap() AttributeMap {
	return AttributeMap{
		"id":                 attrOp(g.ID, OpIgnoreIfExists),
		"updated_at":         attrOp(utils.FormatTime(g.UpdatedAt.Time), OpMax),
		"updated_nanosecond": attrOp(g.UpdatedNanosecond, OpMax),
	}
}

type IdentitiesGraphRecord = VertexRecord[IdentitiesGraph]
