// Package lens fetches Lens protocol profiles through the Lens V2
// GraphQL API. A profile is a Hold plus a Resolve between the owning
// wallet and the handle; the owner's default profile also gets a
// reverse-resolve record.
package lens

import (
	"context"
	"strings"
	"time"

	"github.com/yungbote/relationgraph-backend/internal/logger"
	"github.com/yungbote/relationgraph-backend/internal/model"
	"github.com/yungbote/relationgraph-backend/internal/upstream"
	"github.com/yungbote/relationgraph-backend/internal/upstream/gql"
)

type Config struct {
	URL     string
	Timeout time.Duration
}

type Fetcher struct {
	log *logger.Logger
	gql *gql.Client
}

func New(cfg Config, log *logger.Logger) *Fetcher {
	return &Fetcher{
		log: log.With("component", "lens"),
		gql: gql.New(cfg.URL, cfg.Timeout),
	}
}

func (f *Fetcher) Name() string { return "lens" }

func (f *Fetcher) CanFetch(t upstream.Target) bool {
	return t.InPlatforms(model.PlatformEthereum, model.PlatformLens)
}

type profile struct {
	ID     string `json:"id"`
	Handle *struct {
		LocalName string `json:"localName"`
		Namespace string `json:"namespace"`
	} `json:"handle"`
	CreatedAt string `json:"createdAt"`
	OwnedBy   struct {
		Address string `json:"address"`
	} `json:"ownedBy"`
	Metadata *struct {
		DisplayName string `json:"displayName"`
	} `json:"metadata"`
	TxHash string `json:"txHash"`
}

const profilesQuery = `
	query Profiles($request: ProfilesRequest!) {
		profiles(request: $request) {
			items {
				id
				handle { localName namespace }
				createdAt
				ownedBy { address }
				metadata { displayName }
				txHash
			}
		}
	}`

const defaultProfileQuery = `
	query DefaultProfile($request: DefaultProfileRequest!) {
		defaultProfile(request: $request) {
			id
		}
	}`

func (f *Fetcher) queryProfiles(ctx context.Context, where map[string]any) ([]profile, error) {
	var out struct {
		Profiles struct {
			Items []profile `json:"items"`
		} `json:"profiles"`
	}
	vars := map[string]any{"request": map[string]any{"where": where}}
	if err := f.gql.Query(ctx, profilesQuery, vars, &out); err != nil {
		return nil, err
	}
	return out.Profiles.Items, nil
}

// defaultProfileID returns the owner's default profile id, or empty when
// none is set. Failures degrade to "no default" so profile data still lands.
func (f *Fetcher) defaultProfileID(ctx context.Context, owner string) string {
	var out struct {
		DefaultProfile *struct {
			ID string `json:"id"`
		} `json:"defaultProfile"`
	}
	vars := map[string]any{"request": map[string]any{"for": owner}}
	if err := f.gql.Query(ctx, defaultProfileQuery, vars, &out); err != nil {
		f.log.Warn("default profile lookup failed", "owner", owner, "error", err)
		return ""
	}
	if out.DefaultProfile == nil {
		return ""
	}
	return out.DefaultProfile.ID
}

func (f *Fetcher) BatchFetch(ctx context.Context, t upstream.Target) ([]upstream.Target, upstream.EdgeList, error) {
	switch t.Platform {
	case model.PlatformLens:
		return f.fetchByHandle(ctx, t.Identity)
	case model.PlatformEthereum:
		return f.fetchByWallet(ctx, strings.ToLower(t.Identity))
	}
	return nil, nil, nil
}

func (f *Fetcher) fetchByHandle(ctx context.Context, handle string) ([]upstream.Target, upstream.EdgeList, error) {
	local := strings.TrimSuffix(handle, ".lens")
	profiles, err := f.queryProfiles(ctx, map[string]any{"handles": []string{"lens/" + local}})
	if err != nil {
		return nil, nil, err
	}
	if len(profiles) == 0 || profiles[0].Handle == nil {
		return nil, nil, nil
	}
	p := profiles[0]
	owner := strings.ToLower(p.OwnedBy.Address)
	isDefault := f.defaultProfileID(ctx, owner) == p.ID

	var edges upstream.EdgeList
	f.profileEdges(&edges, p, isDefault)
	return []upstream.Target{upstream.NewIdentity(model.PlatformEthereum, owner)}, edges, nil
}

func (f *Fetcher) fetchByWallet(ctx context.Context, owner string) ([]upstream.Target, upstream.EdgeList, error) {
	profiles, err := f.queryProfiles(ctx, map[string]any{"ownedBy": []string{owner}})
	if err != nil {
		return nil, nil, err
	}
	if len(profiles) == 0 {
		return nil, nil, nil
	}
	defaultID := f.defaultProfileID(ctx, owner)

	var edges upstream.EdgeList
	for _, p := range profiles {
		if p.Handle == nil {
			continue
		}
		f.profileEdges(&edges, p, p.ID == defaultID)
	}
	return nil, edges, nil
}

// profileEdges emits the standard record set for one profile: hyper
// edges for both endpoints, wallet-holds-handle, handle-resolves-wallet,
// and the reverse record when this is the owner's default profile.
func (f *Fetcher) profileEdges(edges *upstream.EdgeList, p profile, isDefault bool) {
	owner := strings.ToLower(p.OwnedBy.Address)
	handle := p.Handle.LocalName + "." + p.Handle.Namespace

	wallet := model.NewIdentity(model.PlatformEthereum, owner)
	wallet.Reverse = isDefault

	account := model.NewIdentity(model.PlatformLens, handle)
	account.UID = p.ID
	account.ProfileURL = "https://hey.xyz/u/" + p.Handle.LocalName
	account.Reverse = isDefault
	if p.Metadata != nil {
		account.DisplayName = p.Metadata.DisplayName
	}
	if created, err := time.Parse(time.RFC3339, p.CreatedAt); err == nil {
		account.CreatedAt = model.NewTimestamp(created)
	}

	hold := model.NewHold(model.SourceLens, p.ID)
	hold.Transaction = p.TxHash
	hold.CreatedAt = account.CreatedAt

	resolve := model.NewResolve(model.SourceLens, model.DNSLens, handle)

	graph := model.NewIdentitiesGraph()
	hyper := model.HyperEdge{}
	edges.Add(graph, wallet, hyper.Wrapper(graph, wallet))
	edges.Add(graph, account, hyper.Wrapper(graph, account))
	edges.Add(wallet, account, hold.IdentityWrapper(wallet, account))
	edges.Add(account, wallet, resolve.Wrapper(account, wallet))
	if isDefault {
		reverse := model.NewResolve(model.SourceLens, model.DNSLens, handle)
		edges.Add(wallet, account, reverse.ReverseWrapper(wallet, account))
	}
}

// DomainSearch reports whether {label}.lens is taken and by whom.
func (f *Fetcher) DomainSearch(ctx context.Context, label string) (upstream.EdgeList, error) {
	if label == "" {
		return nil, nil
	}
	profiles, err := f.queryProfiles(ctx, map[string]any{"handles": []string{"lens/" + label}})
	if err != nil {
		return nil, err
	}
	if len(profiles) == 0 || profiles[0].Handle == nil {
		return nil, nil
	}
	p := profiles[0]
	owner := strings.ToLower(p.OwnedBy.Address)
	handle := p.Handle.LocalName + "." + p.Handle.Namespace

	wallet := model.NewIdentity(model.PlatformEthereum, owner)
	account := model.NewIdentity(model.PlatformLens, handle)
	account.UID = p.ID
	if p.Metadata != nil {
		account.DisplayName = p.Metadata.DisplayName
	}
	hold := model.NewHold(model.SourceLens, p.ID)
	hold.Transaction = p.TxHash
	resolve := model.NewResolve(model.SourceLens, model.DNSLens, handle)

	collection := model.NewDomainCollection(label)
	membership := &model.PartOfCollection{
		Platform: model.PlatformLens,
		Name:     handle,
		TLD:      "lens",
		Status:   model.DomainTaken,
	}

	var edges upstream.EdgeList
	edges.Add(wallet, account, hold.IdentityWrapper(wallet, account))
	edges.Add(account, wallet, resolve.Wrapper(account, wallet))
	edges.Add(collection, account, membership.Wrapper(collection, account))
	return edges, nil
}
