// Package keybase pulls social proofs from the Keybase lookup API. One
// Keybase account vouches for handles on several platforms; each proof
// becomes a two-way binding.
package keybase

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/yungbote/relationgraph-backend/internal/apperr"
	"github.com/yungbote/relationgraph-backend/internal/httpx"
	"github.com/yungbote/relationgraph-backend/internal/logger"
	"github.com/yungbote/relationgraph-backend/internal/model"
	"github.com/yungbote/relationgraph-backend/internal/upstream"
)

type Config struct {
	// URL is the user/lookup endpoint, e.g. https://keybase.io/_/api/1.0/user/lookup.json
	URL     string
	Timeout time.Duration
}

type Fetcher struct {
	cfg  Config
	log  *logger.Logger
	http *http.Client
}

func New(cfg Config, log *logger.Logger) *Fetcher {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	return &Fetcher{
		cfg:  cfg,
		log:  log.With("component", "keybase"),
		http: &http.Client{Timeout: cfg.Timeout},
	}
}

func (f *Fetcher) Name() string { return "keybase" }

func (f *Fetcher) CanFetch(t upstream.Target) bool {
	return t.InPlatforms(model.PlatformTwitter, model.PlatformGithub, model.PlatformReddit)
}

type lookupResponse struct {
	Status struct {
		Code int    `json:"code"`
		Name string `json:"name"`
	} `json:"status"`
	Them []personInfo `json:"them"`
}

type personInfo struct {
	ID     string `json:"id"`
	Basics struct {
		Username string `json:"username"`
	} `json:"basics"`
	ProofsSummary struct {
		All []proofItem `json:"all"`
	} `json:"proofs_summary"`
}

type proofItem struct {
	ProofType string `json:"proof_type"`
	Nametag   string `json:"nametag"`
	ProofID   string `json:"proof_id"`
	State     int    `json:"state"`
}

func (f *Fetcher) BatchFetch(ctx context.Context, t upstream.Target) ([]upstream.Target, upstream.EdgeList, error) {
	u := fmt.Sprintf("%s?%s=%s&fields=proofs_summary",
		f.cfg.URL, t.Platform, url.QueryEscape(t.Identity))

	var resp lookupResponse
	if err := httpx.GetJSON(ctx, f.http, u, &resp); err != nil {
		return nil, nil, err
	}
	if resp.Status.Code != 0 {
		return nil, nil, apperr.Remote(0, "keybase lookup: code=%d name=%s", resp.Status.Code, resp.Status.Name)
	}
	if len(resp.Them) == 0 {
		return nil, nil, nil
	}
	person := resp.Them[len(resp.Them)-1]

	account := model.NewIdentity(model.PlatformKeybase, person.ID)
	account.DisplayName = person.Basics.Username

	graph := model.NewIdentitiesGraph()
	hyper := model.HyperEdge{}
	var (
		next  []upstream.Target
		edges upstream.EdgeList
	)
	edges.Add(graph, account, hyper.Wrapper(graph, account))

	for _, p := range person.ProofsSummary.All {
		platform := model.ParsePlatform(p.ProofType)
		if platform == model.PlatformUnknown {
			continue
		}
		peer := model.NewIdentity(platform, strings.ToLower(p.Nametag))
		peer.DisplayName = p.Nametag

		proof := model.NewProof(model.SourceKeybase, model.LevelVeryConfident)
		proof.RecordID = p.ProofID

		edges.Add(graph, peer, hyper.Wrapper(graph, peer))
		edges.Add(account, peer, proof.Forward(account, peer))
		edges.Add(peer, account, proof.Backward(peer, account))

		next = append(next, upstream.NewIdentity(platform, p.Nametag))
	}
	return next, edges, nil
}
