package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/relationgraph-backend/internal/utils"
)

// IdentityTTL bounds how long an Identity vertex stays fresh.
const IdentityTTL = 2 * time.Hour

// Identity is one account on one platform: a handle, an address or a
// domain name.
type Identity struct {
	UUID     uuid.UUID `json:"uuid"`
	Platform Platform  `json:"platform"`
	Identity string    `json:"identity"`
	// UID is the platform's internal numeric or opaque ID, when it has one.
	UID         string `json:"uid,omitempty"`
	DisplayName string `json:"display_name,omitempty"`
	AvatarURL   string `json:"avatar_url,omitempty"`
	ProfileURL  string `json:"profile_url,omitempty"`
	// CreatedAt is the upstream-reported creation time, zero when unknown.
	CreatedAt Timestamp `json:"created_at,omitempty"`
	// AddedAt is when we first saw this identity.
	AddedAt   Timestamp `json:"added_at"`
	UpdatedAt Timestamp `json:"updated_at"`
	ExpiredAt Timestamp `json:"expired_at,omitempty"`
	// Reverse marks this as the owner's canonical identity on its
	// naming system (a reverse record points at it).
	Reverse bool `json:"reverse"`
}

// NewIdentity stamps a fresh record with added_at and updated_at set to now.
func NewIdentity(platform Platform, identity string) *Identity {
	now := TimestampNow()
	return &Identity{
		UUID:      uuid.New(),
		Platform:  platform,
		Identity:  identity,
		AddedAt:   now,
		UpdatedAt: now,
	}
}

// PrimaryKey is "{platform},{identity}", lower-cased on platforms where
// casing does not distinguish identities. Two connectors reporting the
// same EVM address in different casings hit the same vertex.
func (i *Identity) PrimaryKey() string {
	id := i.Identity
	if i.Platform.IsCaseInsensitive() {
		id = strings.ToLower(id)
	}
	return fmt.Sprintf("%s,%s", i.Platform, id)
}

func (i *Identity) VertexType() string { return VertexIdentity }

func (i *Identity) ToAttributesMap() AttributeMap {
	m := AttributeMap{
		"id":         attrOp(i.PrimaryKey(), OpIgnoreIfExists),
		"uuid":       attrOp(i.UUID.String(), OpIgnoreIfExists),
		"platform":   attrOp(i.Platform.String(), OpIgnoreIfExists),
		"identity":   attrOp(i.Identity, OpIgnoreIfExists),
		"added_at":   attrOp(utils.FormatTime(i.AddedAt.Time), OpIgnoreIfExists),
		"updated_at": attrOp(utils.FormatTime(i.UpdatedAt.Time), OpMax),
		"reverse":    attrOp(i.Reverse, OpOr),
	}
	if i.UID != "" {
		m["uid"] = attr(i.UID)
	}
	if i.DisplayName != "" {
		m["display_name"] = attr(i.DisplayName)
	}
	if i.AvatarURL != "" {
		m["avatar_url"] = attr(i.AvatarURL)
	}
	if i.ProfileURL != "" {
		m["profile_url"] = attr(i.ProfileURL)
	}
	if !i.CreatedAt.IsZero() {
		m["created_at"] = attrOp(utils.FormatTime(i.CreatedAt.Time), OpIgnoreIfExists)
	}
	if !i.ExpiredAt.IsZero() {
		m["expired_at"] = attrOp(utils.FormatTime(i.ExpiredAt.Time), OpMax)
	}
	return m
}

func (i *Identity) IsOutdated() bool {
	return utils.Now().After(i.UpdatedAt.Add(IdentityTTL))
}

// IdentityRecord is the store's read shape for an Identity vertex.
type IdentityRecord = VertexRecord[Identity]
