// Package nextid queries the Next.ID proof service. Each avatar pubkey
// carries a set of signed proofs binding it to platform handles.
package nextid

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/yungbote/relationgraph-backend/internal/httpx"
	"github.com/yungbote/relationgraph-backend/internal/logger"
	"github.com/yungbote/relationgraph-backend/internal/model"
	"github.com/yungbote/relationgraph-backend/internal/upstream"
	"github.com/yungbote/relationgraph-backend/internal/utils"
)

type Config struct {
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
		log:  log.With("component", "nextid"),
		http: &http.Client{Timeout: cfg.Timeout},
	}
}

func (f *Fetcher) Name() string { return "nextid" }

func (f *Fetcher) CanFetch(t upstream.Target) bool {
	return t.InPlatforms(
		model.PlatformEthereum,
		model.PlatformTwitter,
		model.PlatformNextID,
		model.PlatformGithub,
		model.PlatformDotbit,
	)
}

type proofQueryResponse struct {
	Pagination struct {
		Total int `json:"total"`
	} `json:"pagination"`
	IDs []proofPersona `json:"ids"`
}

type proofPersona struct {
	Avatar string        `json:"avatar"`
	Proofs []proofRecord `json:"proofs"`
}

type proofRecord struct {
	Platform  string `json:"platform"`
	Identity  string `json:"identity"`
	CreatedAt string `json:"created_at"`
	IsValid   bool   `json:"is_valid"`
}

func (f *Fetcher) BatchFetch(ctx context.Context, t upstream.Target) ([]upstream.Target, upstream.EdgeList, error) {
	u := fmt.Sprintf("%s/v1/proof?exact=true&platform=%s&identity=%s",
		f.cfg.URL, t.Platform, url.QueryEscape(t.Identity))

	var resp proofQueryResponse
	if err := httpx.GetJSON(ctx, f.http, u, &resp); err != nil {
		return nil, nil, err
	}
	if resp.Pagination.Total == 0 || len(resp.IDs) == 0 {
		return nil, nil, nil
	}

	graph := model.NewIdentitiesGraph()
	hyper := model.HyperEdge{}
	var (
		next  []upstream.Target
		edges upstream.EdgeList
	)
	for _, persona := range resp.IDs {
		avatar := model.NewIdentity(model.PlatformNextID, persona.Avatar)
		avatar.DisplayName = persona.Avatar
		edges.Add(graph, avatar, hyper.Wrapper(graph, avatar))

		for _, p := range persona.Proofs {
			if !p.IsValid {
				continue
			}
			platform := model.ParsePlatform(p.Platform)
			if platform == model.PlatformUnknown {
				f.log.Warn("proof references unknown platform",
					"platform", p.Platform, "identity", p.Identity)
				continue
			}
			createdAt := parseUnixString(p.CreatedAt)

			peer := model.NewIdentity(platform, strings.ToLower(p.Identity))
			peer.CreatedAt = createdAt
			// wallets get display names from reverse lookups, not from here
			if platform != model.PlatformEthereum {
				peer.DisplayName = p.Identity
			}

			proof := model.NewProof(model.SourceNextID, model.LevelVeryConfident)
			proof.CreatedAt = createdAt

			edges.Add(graph, peer, hyper.Wrapper(graph, peer))
			edges.Add(avatar, peer, proof.Forward(avatar, peer))
			edges.Add(peer, avatar, proof.Backward(peer, avatar))

			next = append(next, upstream.NewIdentity(platform, p.Identity))
		}
	}
	return next, edges, nil
}

func parseUnixString(s string) model.Timestamp {
	sec, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return model.Timestamp{}
	}
	return model.NewTimestamp(utils.TimestampToTime(sec))
}
