// Package ensreverse asks a reverse-lookup service which ENS name an
// Ethereum address points back at. The official ENS subgraph does not
// expose reverse records, so this runs against a dedicated endpoint.
package ensreverse

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/yungbote/relationgraph-backend/internal/httpx"
	"github.com/yungbote/relationgraph-backend/internal/logger"
	"github.com/yungbote/relationgraph-backend/internal/model"
	"github.com/yungbote/relationgraph-backend/internal/upstream"
)

type Config struct {
	// URL prefix; the wallet address is appended directly.
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
		log:  log.With("component", "ensreverse"),
		http: &http.Client{Timeout: cfg.Timeout},
	}
}

func (f *Fetcher) Name() string { return "ensreverse" }

func (f *Fetcher) CanFetch(t upstream.Target) bool {
	return t.InPlatforms(model.PlatformEthereum)
}

type reverseResponse struct {
	ReverseRecord string   `json:"reverseRecord"`
	Domains       []string `json:"domains"`
}

func (f *Fetcher) BatchFetch(ctx context.Context, t upstream.Target) ([]upstream.Target, upstream.EdgeList, error) {
	wallet := strings.ToLower(t.Identity)

	var resp reverseResponse
	if err := httpx.GetJSON(ctx, f.http, f.cfg.URL+wallet, &resp); err != nil {
		return nil, nil, err
	}
	// a cleared reverse record is a valid answer, not an error
	if resp.ReverseRecord == "" {
		return nil, nil, nil
	}
	f.log.Debug("reverse record", "wallet", wallet, "name", resp.ReverseRecord)

	addr := model.NewIdentity(model.PlatformEthereum, wallet)
	addr.DisplayName = resp.ReverseRecord
	addr.Reverse = true

	name := model.NewIdentity(model.PlatformENS, resp.ReverseRecord)
	name.DisplayName = resp.ReverseRecord
	name.Reverse = true

	contract := model.NewContract(model.ChainEthereum, model.CategoryENS, model.CategoryENS.DefaultContractAddress())

	resolve := model.NewResolve(model.SourceTheGraph, model.DNSENS, resp.ReverseRecord)

	graph := model.NewIdentitiesGraph()
	hyper := model.HyperEdge{}
	var edges upstream.EdgeList
	edges.Add(graph, addr, hyper.Wrapper(graph, addr))
	edges.Add(graph, name, hyper.Wrapper(graph, name))
	edges.Add(addr, name, resolve.ReverseWrapper(addr, name))
	edges.Add(addr, contract, resolve.ReverseContractWrapper(addr, contract))
	return nil, edges, nil
}
