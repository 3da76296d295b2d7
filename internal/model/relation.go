package model

import (
	"github.com/yungbote/relationgraph-backend/internal/utils"
)

// RelationUniqueTX summarizes on-chain transactions between two
// Identities, used by relation-strength queries.
type RelationUniqueTX struct {
	Count     uint32    `json:"count"`
	Sum       uint32    `json:"sum"`
	Max       uint32    `json:"max"`
	Min       uint32    `json:"min"`
	UpdatedAt Timestamp `json:"updated_at"`
}

func (r *RelationUniqueTX) ToAttributesMap() AttributeMap {
	return AttributeMap{
		"count":      attrOp(r.Count, OpAdd),
		"sum":        attrOp(r.Sum, OpAdd),
		"max":        attrOp(r.Max, OpMax),
		"min":        attrOp(r.Min, OpMin),
		"updated_at": attrOp(utils.FormatTime(r.UpdatedAt.Time), OpMax),
	}
}

func (r *RelationUniqueTX) Wrapper(from, to *Identity) EdgeWrapper {
	return wrap(r, EdgeRelationUniqueTX, from, to)
}

type RelationUniqueTXRecord = EdgeRecord[RelationUniqueTX]
