// Package solana resolves Solana Name Service (.sol) domains through an
// SNS proxy API: resolve maps a domain to its owner, domains lists a
// wallet's names, favorite-domain returns the wallet's reverse record.
package solana

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
		log:  log.With("component", "solana"),
		http: &http.Client{Timeout: cfg.Timeout},
	}
}

func (f *Fetcher) Name() string { return "solana" }

func (f *Fetcher) CanFetch(t upstream.Target) bool {
	return t.InPlatforms(model.PlatformSolana, model.PlatformSNS)
}

type resolveEnvelope struct {
	Status string `json:"s"`
	Result string `json:"result"`
}

type domainsEnvelope struct {
	Status string `json:"s"`
	Result []struct {
		Key    string `json:"key"`
		Domain string `json:"domain"`
	} `json:"result"`
}

type favoriteEnvelope struct {
	Status string `json:"s"`
	Result *struct {
		Domain  string `json:"domain"`
		Reverse string `json:"reverse"`
	} `json:"result"`
}

func formatDomain(domain string) string {
	if strings.HasSuffix(domain, ".sol") {
		return domain
	}
	return domain + ".sol"
}

func (f *Fetcher) resolveOwner(ctx context.Context, domain string) (string, error) {
	bare := strings.TrimSuffix(domain, ".sol")
	u := fmt.Sprintf("%s/resolve/%s", f.cfg.URL, url.PathEscape(bare))
	var resp resolveEnvelope
	if err := httpx.GetJSON(ctx, f.http, u, &resp); err != nil {
		return "", err
	}
	if resp.Status != "ok" {
		return "", apperr.Remote(0, "sns resolve %s: %s", domain, resp.Result)
	}
	return resp.Result, nil
}

func (f *Fetcher) ownedDomains(ctx context.Context, owner string) ([]string, error) {
	u := fmt.Sprintf("%s/domains/%s", f.cfg.URL, url.PathEscape(owner))
	var resp domainsEnvelope
	if err := httpx.GetJSON(ctx, f.http, u, &resp); err != nil {
		return nil, err
	}
	if resp.Status != "ok" {
		return nil, apperr.Remote(0, "sns domains %s: bad status", owner)
	}
	names := make([]string, 0, len(resp.Result))
	for _, d := range resp.Result {
		if d.Domain != "" {
			names = append(names, formatDomain(d.Domain))
		}
	}
	return names, nil
}

// favoriteDomain returns the wallet's reverse record, or empty when none
// is set. Lookup failures degrade to "no favourite".
func (f *Fetcher) favoriteDomain(ctx context.Context, owner string) string {
	u := fmt.Sprintf("%s/favorite-domain/%s", f.cfg.URL, url.PathEscape(owner))
	var resp favoriteEnvelope
	if err := httpx.GetJSON(ctx, f.http, u, &resp); err != nil {
		f.log.Warn("favourite domain lookup failed", "owner", owner, "error", err)
		return ""
	}
	if resp.Status != "ok" || resp.Result == nil {
		return ""
	}
	return formatDomain(resp.Result.Reverse)
}

func (f *Fetcher) BatchFetch(ctx context.Context, t upstream.Target) ([]upstream.Target, upstream.EdgeList, error) {
	switch t.Platform {
	case model.PlatformSolana:
		return f.fetchByWallet(ctx, t.Identity)
	case model.PlatformSNS:
		return f.fetchByDomain(ctx, t.Identity)
	}
	return nil, nil, nil
}

func (f *Fetcher) fetchByWallet(ctx context.Context, owner string) ([]upstream.Target, upstream.EdgeList, error) {
	names, err := f.ownedDomains(ctx, owner)
	if err != nil {
		return nil, nil, err
	}
	if len(names) == 0 {
		return nil, nil, nil
	}
	favorite := f.favoriteDomain(ctx, owner)

	graph := model.NewIdentitiesGraph()
	hyper := model.HyperEdge{}
	var (
		next  []upstream.Target
		edges upstream.EdgeList
	)
	wallet := model.NewIdentity(model.PlatformSolana, owner)
	wallet.Reverse = favorite != ""
	edges.Add(graph, wallet, hyper.Wrapper(graph, wallet))

	for _, domain := range names {
		name := model.NewIdentity(model.PlatformSNS, domain)
		name.DisplayName = domain
		name.Reverse = domain == favorite

		hold := model.NewHold(model.SourceSolana, domain)
		resolve := model.NewResolve(model.SourceSolana, model.DNSSNS, domain)

		edges.Add(graph, name, hyper.Wrapper(graph, name))
		edges.Add(wallet, name, hold.IdentityWrapper(wallet, name))
		edges.Add(name, wallet, resolve.Wrapper(name, wallet))
		if domain == favorite {
			reverse := model.NewResolve(model.SourceSolana, model.DNSSNS, domain)
			edges.Add(wallet, name, reverse.ReverseWrapper(wallet, name))
		}
		next = append(next, upstream.NewIdentity(model.PlatformSNS, domain))
	}
	return next, edges, nil
}

func (f *Fetcher) fetchByDomain(ctx context.Context, domain string) ([]upstream.Target, upstream.EdgeList, error) {
	domain = formatDomain(domain)
	owner, err := f.resolveOwner(ctx, domain)
	if err != nil {
		return nil, nil, err
	}
	if owner == "" {
		return nil, nil, nil
	}
	favorite := f.favoriteDomain(ctx, owner)

	wallet := model.NewIdentity(model.PlatformSolana, owner)
	wallet.Reverse = favorite == domain
	name := model.NewIdentity(model.PlatformSNS, domain)
	name.DisplayName = domain
	name.Reverse = favorite == domain

	hold := model.NewHold(model.SourceSolana, domain)
	resolve := model.NewResolve(model.SourceSolana, model.DNSSNS, domain)

	graph := model.NewIdentitiesGraph()
	hyper := model.HyperEdge{}
	var edges upstream.EdgeList
	edges.Add(graph, wallet, hyper.Wrapper(graph, wallet))
	edges.Add(graph, name, hyper.Wrapper(graph, name))
	edges.Add(wallet, name, hold.IdentityWrapper(wallet, name))
	edges.Add(name, wallet, resolve.Wrapper(name, wallet))
	if favorite == domain {
		reverse := model.NewResolve(model.SourceSolana, model.DNSSNS, domain)
		edges.Add(wallet, name, reverse.ReverseWrapper(wallet, name))
	}
	return []upstream.Target{upstream.NewIdentity(model.PlatformSolana, owner)}, edges, nil
}
