package model

import (
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/relationgraph-backend/internal/utils"
)

const HoldTTL = 8 * time.Hour

// Hold asserts that an Identity owns a token, domain or contract.
type Hold struct {
	UUID   uuid.UUID  `json:"uuid"`
	Source DataSource `json:"source"`
	// Transaction is the tx in which the object was minted or transferred,
	// when the source reports it.
	Transaction string `json:"transaction,omitempty"`
	// ID uniquely names the held object within the contract: an NFT id,
	// a domain name, a token id.
	ID        string      `json:"id"`
	CreatedAt Timestamp   `json:"created_at,omitempty"`
	UpdatedAt Timestamp   `json:"updated_at"`
	Fetcher   DataFetcher `json:"fetcher"`
	ExpiredAt Timestamp   `json:"expired_at,omitempty"`
}

func NewHold(source DataSource, id string) *Hold {
	return &Hold{
		UUID:      uuid.New(),
		Source:    source,
		ID:        id,
		UpdatedAt: TimestampNow(),
		Fetcher:   FetcherRelationService,
	}
}

func (h *Hold) ToAttributesMap() AttributeMap {
	m := AttributeMap{
		"uuid":       attrOp(h.UUID.String(), OpIgnoreIfExists),
		"source":     attr(h.Source.String()),
		"id":         attr(h.ID),
		"updated_at": attrOp(utils.FormatTime(h.UpdatedAt.Time), OpMax),
		"fetcher":    attr(h.Fetcher.String()),
	}
	if h.Transaction != "" {
		m["transaction"] = attr(h.Transaction)
	}
	if !h.CreatedAt.IsZero() {
		m["created_at"] = attrOp(utils.FormatTime(h.CreatedAt.Time), OpIgnoreIfExists)
	}
	if !h.ExpiredAt.IsZero() {
		m["expired_at"] = attrOp(utils.FormatTime(h.ExpiredAt.Time), OpMax)
	}
	return m
}

// IdentityWrapper links holder to a domain-name Identity.
func (h *Hold) IdentityWrapper(from, to *Identity) EdgeWrapper {
	return wrap(h, EdgeHoldIdentity, from, to)
}

// ContractWrapper links holder to the Contract the object lives in.
func (h *Hold) ContractWrapper(from *Identity, to *Contract) EdgeWrapper {
	return wrap(h, EdgeHoldContract, from, to)
}

func (h *Hold) IsOutdated() bool {
	return utils.Now().After(h.UpdatedAt.Add(HoldTTL))
}

type HoldRecord = EdgeRecord[Hold]
