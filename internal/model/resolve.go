package model

import (
	"github.com/google/uuid"

	"github.com/yungbote/relationgraph-backend/internal/utils"
)

// Resolve maps a name to an address (regular direction) or an address
// back to its canonical display name (reverse direction).
type Resolve struct {
	UUID      uuid.UUID        `json:"uuid"`
	Source    DataSource       `json:"source"`
	System    DomainNameSystem `json:"system"`
	Name      string           `json:"name"`
	Fetcher   DataFetcher      `json:"fetcher"`
	UpdatedAt Timestamp        `json:"updated_at"`
}

func NewResolve(source DataSource, system DomainNameSystem, name string) *Resolve {
	return &Resolve{
		UUID:      uuid.New(),
		Source:    source,
		System:    system,
		Name:      name,
		Fetcher:   FetcherRelationService,
		UpdatedAt: TimestampNow(),
	}
}

func (r *Resolve) ToAttributesMap() AttributeMap {
	return AttributeMap{
		"uuid":       attrOp(r.UUID.String(), OpIgnoreIfExists),
		"source":     attr(r.Source.String()),
		"system":     attr(r.System.String()),
		"name":       attr(r.Name),
		"fetcher":    attr(r.Fetcher.String()),
		"updated_at": attrOp(utils.FormatTime(r.UpdatedAt.Time), OpMax),
	}
}

// Wrapper links a name Identity to the address Identity it resolves to.
func (r *Resolve) Wrapper(from, to *Identity) EdgeWrapper {
	return wrap(r, EdgeResolve, from, to)
}

// ReverseWrapper links an address Identity to its canonical name.
func (r *Resolve) ReverseWrapper(from, to *Identity) EdgeWrapper {
	return wrap(r, EdgeReverseResolve, from, to)
}

// ContractWrapper is the contract-flavored resolve used when the name
// lives inside a registrar Contract rather than a standalone Identity.
func (r *Resolve) ContractWrapper(from *Contract, to *Identity) EdgeWrapper {
	return wrap(r, EdgeResolveContract, from, to)
}

func (r *Resolve) ReverseContractWrapper(from *Identity, to *Contract) EdgeWrapper {
	return wrap(r, EdgeReverseResolveContract, from, to)
}

type ResolveRecord = EdgeRecord[Resolve]
