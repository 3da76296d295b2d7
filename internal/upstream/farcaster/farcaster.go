// Package farcaster resolves Farcaster accounts and their connected
// signer wallets through a GraphQL data manager API.
package farcaster

import (
	"context"
	"strconv"
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
		log: log.With("component", "farcaster"),
		gql: gql.New(cfg.URL, cfg.Timeout),
	}
}

func (f *Fetcher) Name() string { return "farcaster" }

func (f *Fetcher) CanFetch(t upstream.Target) bool {
	return t.InPlatforms(model.PlatformFarcaster, model.PlatformEthereum)
}

type profile struct {
	Username      string `json:"username"`
	DisplayName   string `json:"displayName"`
	SignerAddress string `json:"signerAddress"`
	FID           int    `json:"fid"`
}

const queryByName = `
	query FarcasterSignerByName($username: String!) {
		farcasterProfile(username: $username) {
			username
			displayName
			signerAddress
			fid
		}
	}`

const queryBySigner = `
	query FarcasterNameBySigner($signer: String!) {
		farcasterSigner(signer: $signer) {
			username
			displayName
			signerAddress
			fid
		}
	}`

func (f *Fetcher) BatchFetch(ctx context.Context, t upstream.Target) ([]upstream.Target, upstream.EdgeList, error) {
	var (
		profiles     []profile
		nextPlatform model.Platform
	)
	switch t.Platform {
	case model.PlatformFarcaster:
		var out struct {
			Profiles []profile `json:"farcasterProfile"`
		}
		if err := f.gql.Query(ctx, queryByName, map[string]any{"username": t.Identity}, &out); err != nil {
			return nil, nil, err
		}
		profiles = out.Profiles
		nextPlatform = model.PlatformEthereum
	case model.PlatformEthereum:
		var out struct {
			Profiles []profile `json:"farcasterSigner"`
		}
		if err := f.gql.Query(ctx, queryBySigner, map[string]any{"signer": t.Identity}, &out); err != nil {
			return nil, nil, err
		}
		profiles = out.Profiles
		nextPlatform = model.PlatformFarcaster
	default:
		return nil, nil, nil
	}
	if len(profiles) == 0 {
		return nil, nil, nil
	}

	graph := model.NewIdentitiesGraph()
	hyper := model.HyperEdge{}
	var (
		next  []upstream.Target
		edges upstream.EdgeList
	)
	for _, p := range profiles {
		account := model.NewIdentity(model.PlatformFarcaster, p.Username)
		account.UID = strconv.Itoa(p.FID)
		account.DisplayName = p.DisplayName

		signer := strings.ToLower(p.SignerAddress)
		if signer == "" {
			// no verified wallet yet; keep the account findable on its own
			edges.AddVertex(account)
			continue
		}
		wallet := model.NewIdentity(model.PlatformEthereum, signer)

		hold := model.NewHold(model.SourceFarcaster, "")
		hold.Fetcher = model.FetcherDataService

		edges.Add(graph, wallet, hyper.Wrapper(graph, wallet))
		edges.Add(graph, account, hyper.Wrapper(graph, account))
		edges.Add(wallet, account, hold.IdentityWrapper(wallet, account))

		switch nextPlatform {
		case model.PlatformEthereum:
			next = append(next, upstream.NewIdentity(model.PlatformEthereum, signer))
		case model.PlatformFarcaster:
			next = append(next, upstream.NewIdentity(model.PlatformFarcaster, p.Username))
		}
	}
	return next, edges, nil
}
