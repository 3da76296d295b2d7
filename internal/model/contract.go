package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/relationgraph-backend/internal/utils"
)

const ContractTTL = 1 * time.Hour

// Contract is a token contract, an NFT collection or a naming-system
// registrar on one chain.
type Contract struct {
	UUID      uuid.UUID        `json:"uuid"`
	Category  ContractCategory `json:"category"`
	Address   string           `json:"address"`
	Chain     Chain            `json:"chain"`
	Symbol    string           `json:"symbol,omitempty"`
	UpdatedAt Timestamp        `json:"updated_at"`
}

func NewContract(chain Chain, category ContractCategory, address string) *Contract {
	return &Contract{
		UUID:      uuid.New(),
		Category:  category,
		Address:   address,
		Chain:     chain,
		UpdatedAt: TimestampNow(),
	}
}

// PrimaryKey is "{chain},{address}" with the address lower-cased.
func (c *Contract) PrimaryKey() string {
	return fmt.Sprintf("%s,%s", c.Chain, strings.ToLower(c.Address))
}

func (c *Contract) VertexType() string { return VertexContract }

func (c *Contract) ToAttributesMap() AttributeMap {
	m := AttributeMap{
		"id":         attrOp(c.PrimaryKey(), OpIgnoreIfExists),
		"uuid":       attrOp(c.UUID.String(), OpIgnoreIfExists),
		"chain":      attrOp(c.Chain.String(), OpIgnoreIfExists),
		"address":    attrOp(strings.ToLower(c.Address), OpIgnoreIfExists),
		"category":   attr(c.Category.String()),
		"updated_at": attrOp(utils.FormatTime(c.UpdatedAt.Time), OpMax),
	}
	if c.Symbol != "" {
		m["symbol"] = attr(c.Symbol)
	}
	return m
}

func (c *Contract) IsOutdated() bool {
	return utils.Now().After(c.UpdatedAt.Add(ContractTTL))
}

type ContractRecord = VertexRecord[Contract]
