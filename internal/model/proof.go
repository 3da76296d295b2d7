package model

import (
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/relationgraph-backend/internal/utils"
)

const ProofTTL = 24 * time.Hour

// Proof asserts that two Identities belong to the same owner. Written as
// a two-way binding (forward plus backward edge) so traversal works in
// either direction.
type Proof struct {
	UUID   uuid.UUID  `json:"uuid"`
	Source DataSource `json:"source"`
	Level  ProofLevel `json:"level"`
	// RecordID locates this connection on the upstream platform, if any.
	RecordID  string      `json:"record_id,omitempty"`
	CreatedAt Timestamp   `json:"created_at,omitempty"`
	UpdatedAt Timestamp   `json:"updated_at"`
	Fetcher   DataFetcher `json:"fetcher"`
}

func NewProof(source DataSource, level ProofLevel) *Proof {
	return &Proof{
		UUID:      uuid.New(),
		Source:    source,
		Level:     level,
		UpdatedAt: TimestampNow(),
		Fetcher:   FetcherRelationService,
	}
}

func (p *Proof) ToAttributesMap() AttributeMap {
	m := AttributeMap{
		"uuid":       attrOp(p.UUID.String(), OpIgnoreIfExists),
		"source":     attr(p.Source.String()),
		"level":      attr(int(p.Level)),
		"updated_at": attrOp(utils.FormatTime(p.UpdatedAt.Time), OpMax),
		"fetcher":    attr(p.Fetcher.String()),
	}
	if p.RecordID != "" {
		m["record_id"] = attr(p.RecordID)
	}
	if !p.CreatedAt.IsZero() {
		m["created_at"] = attrOp(utils.FormatTime(p.CreatedAt.Time), OpIgnoreIfExists)
	}
	return m
}

// Forward and Backward produce the two halves of the binding.
func (p *Proof) Forward(from, to *Identity) EdgeWrapper {
	return wrap(p, EdgeProofForward, from, to)
}

func (p *Proof) Backward(from, to *Identity) EdgeWrapper {
	return wrap(p, EdgeProofBackward, from, to)
}

func (p *Proof) IsOutdated() bool {
	return utils.Now().After(p.UpdatedAt.Add(ProofTTL))
}

type ProofRecord = EdgeRecord[Proof]
