package model

import (
	"time"

	"github.com/yungbote/relationgraph-backend/internal/utils"
)

const DomainCollectionTTL = 24 * time.Hour

// DomainCollection groups all domain names sharing one label across
// naming systems, so search results stay addressable before an Identity
// vertex for an unregistered name exists.
type DomainCollection struct {
	// ID is the bare label, e.g. "vitalik" for vitalik.eth / vitalik.bit.
	ID        string    `json:"id"`
	UpdatedAt Timestamp `json:"updated_at"`
}

func NewDomainCollection(label string) *DomainCollection {
	return &DomainCollection{ID: label, UpdatedAt: TimestampNow()}
}

func (d *DomainCollection) PrimaryKey() string { return d.ID }

func (d *DomainCollection) VertexType() string { return VertexDomainCollection }

func (d *DomainCollection) ToAttributesMap() AttributeMap {
	return AttributeMap{
		"id":         attrOp(d.ID, OpIgnoreIfExists),
		"updated_at": attrOp(utils.FormatTime(d.UpdatedAt.Time), OpMax),
	}
}

func (d *DomainCollection) IsOutdated() bool {
	return utils.Now().After(d.UpdatedAt.Add(DomainCollectionTTL))
}

type DomainCollectionRecord = VertexRecord[DomainCollection]
