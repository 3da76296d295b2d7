package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yungbote/relationgraph-backend/internal/utils"
)

func TestIdentityPrimaryKeyCaseNormalization(t *testing.T) {
	upper := NewIdentity(PlatformEthereum, "0xD8dA6BF26964aF9D7eEd9e03E53415D37aA96045")
	lower := NewIdentity(PlatformEthereum, "0xd8da6bf26964af9d7eed9e03e53415d37aa96045")
	if upper.PrimaryKey() != lower.PrimaryKey() {
		t.Fatalf("case variants produced different keys: %q vs %q", upper.PrimaryKey(), lower.PrimaryKey())
	}
	if upper.PrimaryKey() != "ethereum,0xd8da6bf26964af9d7eed9e03e53415d37aa96045" {
		t.Fatalf("unexpected key %q", upper.PrimaryKey())
	}
}

func TestIdentityPrimaryKeyKeepsSocialCase(t *testing.T) {
	id := NewIdentity(PlatformTwitter, "VitalikButerin")
	if id.PrimaryKey() != "twitter,VitalikButerin" {
		t.Fatalf("twitter handle case must be preserved, got %q", id.PrimaryKey())
	}
}

func TestContractPrimaryKeyLowerCasesAddress(t *testing.T) {
	c := NewContract(ChainEthereum, CategoryENS, "0x57F1887a8BF19b14fC0dF6Fd9B2acc9Af147eA85")
	if c.PrimaryKey() != "ethereum,0x57f1887a8bf19b14fc0df6fd9b2acc9af147ea85" {
		t.Fatalf("unexpected key %q", c.PrimaryKey())
	}
}

func TestIdentityAttributesMergeOps(t *testing.T) {
	id := NewIdentity(PlatformEthereum, "0xabc")
	id.DisplayName = "vitalik.eth"
	id.Reverse = true
	m := id.ToAttributesMap()

	require.Contains(t, m, "uuid")
	assert.Equal(t, OpIgnoreIfExists, m["uuid"].Op)
	assert.Equal(t, OpIgnoreIfExists, m["id"].Op)
	assert.Equal(t, OpMax, m["updated_at"].Op)
	assert.Equal(t, OpOr, m["reverse"].Op)
	assert.Equal(t, OpCode(""), m["display_name"].Op)
	assert.Equal(t, true, m["reverse"].Value)
}

func TestIdentityAttributesOmitEmptyOptionals(t *testing.T) {
	id := NewIdentity(PlatformLens, "stani.lens")
	m := id.ToAttributesMap()
	for _, k := range []string{"uid", "display_name", "avatar_url", "profile_url", "created_at", "expired_at"} {
		if _, ok := m[k]; ok {
			t.Fatalf("empty optional %q must not be written", k)
		}
	}
}

func TestIdentityAttributesDeterministic(t *testing.T) {
	id := NewIdentity(PlatformEthereum, "0xabc")
	assert.Equal(t, id.ToAttributesMap(), id.ToAttributesMap())
}

func TestStalenessThresholds(t *testing.T) {
	fresh := NewIdentity(PlatformEthereum, "0xabc")
	if fresh.IsOutdated() {
		t.Fatal("freshly stamped identity reported outdated")
	}
	fresh.UpdatedAt = NewTimestamp(utils.Now().Add(-IdentityTTL - time.Minute))
	if !fresh.IsOutdated() {
		t.Fatal("identity past TTL reported fresh")
	}

	c := NewContract(ChainEthereum, CategoryERC721, "0xdef")
	c.UpdatedAt = NewTimestamp(utils.Now().Add(-ContractTTL - time.Minute))
	if !c.IsOutdated() {
		t.Fatal("contract past TTL reported fresh")
	}

	h := NewHold(SourceTheGraph, "vitalik.eth")
	if h.IsOutdated() {
		t.Fatal("fresh hold reported outdated")
	}
	h.UpdatedAt = NewTimestamp(utils.Now().Add(-HoldTTL - time.Minute))
	if !h.IsOutdated() {
		t.Fatal("hold past TTL reported fresh")
	}

	p := NewProof(SourceNextID, LevelVeryConfident)
	p.UpdatedAt = NewTimestamp(utils.Now().Add(-ProofTTL - time.Minute))
	if !p.IsOutdated() {
		t.Fatal("proof past TTL reported fresh")
	}
}

func TestProofTwoWayBinding(t *testing.T) {
	a := NewIdentity(PlatformTwitter, "alice")
	b := NewIdentity(PlatformEthereum, "0xAbC")
	p := NewProof(SourceNextID, LevelVeryConfident)

	fwd := p.Forward(a, b)
	back := p.Backward(b, a)

	assert.Equal(t, EdgeProofForward, fwd.Type)
	assert.Equal(t, EdgeProofBackward, back.Type)
	assert.Equal(t, fwd.FromID, back.ToID)
	assert.Equal(t, fwd.ToID, back.FromID)
	assert.Equal(t, VertexIdentity, fwd.FromType)
	assert.True(t, fwd.Directed)
}

func TestHoldContractWrapperEndpoints(t *testing.T) {
	owner := NewIdentity(PlatformEthereum, "0xABC")
	ens := NewContract(ChainEthereum, CategoryENS, CategoryENS.DefaultContractAddress())
	h := NewHold(SourceTheGraph, "vitalik.eth")

	w := h.ContractWrapper(owner, ens)
	assert.Equal(t, EdgeHoldContract, w.Type)
	assert.Equal(t, "ethereum,0xabc", w.FromID)
	assert.Equal(t, VertexContract, w.ToType)
	assert.Equal(t, ens.PrimaryKey(), w.ToID)
}

func TestParseFallbacks(t *testing.T) {
	assert.Equal(t, PlatformUnknown, ParsePlatform("some-future-platform"))
	assert.Equal(t, PlatformEthereum, ParsePlatform("eth"))
	assert.Equal(t, ChainUnknown, ParseChain("some-future-chain"))
	assert.Equal(t, CategoryUnknown, ParseContractCategory("ERC-9999"))
	assert.Equal(t, SourceUnknown, ParseDataSource("nobody"))
	assert.Equal(t, DNSUnknown, ParseDomainNameSystem("no-such-system"))
}

func TestTimestampAcceptsStoreAndRFC3339Layouts(t *testing.T) {
	ts := NewTimestamp(time.Date(2024, 5, 1, 12, 30, 45, 0, time.UTC))
	b, err := json.Marshal(ts)
	require.NoError(t, err)
	assert.Equal(t, `"2024-05-01T12:30:45"`, string(b))

	var back Timestamp
	require.NoError(t, json.Unmarshal(b, &back))
	assert.Equal(t, ts.Time, back.Time)

	require.NoError(t, json.Unmarshal([]byte(`"2024-05-01T12:30:45Z"`), &back))
	assert.Equal(t, ts.Time, back.Time)
}

func TestPlatformNameSystem(t *testing.T) {
	assert.Equal(t, DNSENS, PlatformENS.NameSystem())
	assert.Equal(t, DNSSNS, PlatformSNS.NameSystem())
	assert.Equal(t, DNSUnknown, PlatformTwitter.NameSystem())
}
