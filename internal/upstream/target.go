// Package upstream drives the fetch side of the system: connectors pull
// identity data from external platforms, and the orchestrator walks the
// targets they discover until the traversal settles or hits its depth
// bound.
package upstream

import (
	"fmt"
	"strings"

	"github.com/yungbote/relationgraph-backend/internal/model"
)

// TargetKind distinguishes the two things a connector can be asked to
// look up.
type TargetKind int

const (
	// KindIdentity is a platform account or wallet address.
	KindIdentity TargetKind = iota
	// KindNFT is a token held by some address.
	KindNFT
)

// Target is one unit of fetch work. Identity targets carry a platform
// and an identity string; NFT targets carry the chain, contract
// category, contract address and token id.
type Target struct {
	Kind TargetKind

	Platform model.Platform
	Identity string

	Chain    model.Chain
	Category model.ContractCategory
	Address  string
	TokenID  string
}

// NewIdentity builds an identity target.
func NewIdentity(platform model.Platform, identity string) Target {
	return Target{Kind: KindIdentity, Platform: platform, Identity: identity}
}

// NewNFT builds an NFT target.
func NewNFT(chain model.Chain, category model.ContractCategory, address, tokenID string) Target {
	return Target{Kind: KindNFT, Chain: chain, Category: category, Address: address, TokenID: tokenID}
}

// String renders the target in its canonical display form, which also
// serves as the in-flight lock key.
func (t Target) String() string {
	if t.Kind == KindNFT {
		return fmt.Sprintf("NFT/%s/%s/%s/%s", t.Chain, t.Category, t.Address, t.TokenID)
	}
	return fmt.Sprintf("Identity/%s/%s", t.Platform, t.Identity)
}

// Key is the deduplication key for a target. Identities on
// case-insensitive platforms compare equal regardless of input casing.
func (t Target) Key() string {
	if t.Kind == KindNFT {
		return fmt.Sprintf("nft/%s/%s/%s/%s", t.Chain, strings.ToLower(t.Address), t.Category, t.TokenID)
	}
	id := t.Identity
	if t.Platform.IsCaseInsensitive() {
		id = strings.ToLower(id)
	}
	return fmt.Sprintf("identity/%s/%s", t.Platform, id)
}

// InPlatforms reports whether the target is an identity on one of the
// given platforms. Connectors use it to implement CanFetch.
func (t Target) InPlatforms(platforms ...model.Platform) bool {
	if t.Kind != KindIdentity {
		return false
	}
	for _, p := range platforms {
		if t.Platform == p {
			return true
		}
	}
	return false
}

// InNFTCategories reports whether the target is an NFT in one of the
// given categories.
func (t Target) InNFTCategories(categories ...model.ContractCategory) bool {
	if t.Kind != KindNFT {
		return false
	}
	for _, c := range categories {
		if t.Category == c {
			return true
		}
	}
	return false
}
