// Package spaceid resolves SPACE ID (.bnb) names through the SID REST
// API: getAddress maps a domain to its wallet, getName maps a wallet
// back to its primary domain.
package spaceid

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

const unregisteredAddress = "0x0000000000000000000000000000000000000000"

type Config struct {
	URL     string
	TLD     string
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
	if cfg.TLD == "" {
		cfg.TLD = "bnb"
	}
	return &Fetcher{
		cfg:  cfg,
		log:  log.With("component", "spaceid"),
		http: &http.Client{Timeout: cfg.Timeout},
	}
}

func (f *Fetcher) Name() string { return "spaceid" }

func (f *Fetcher) CanFetch(t upstream.Target) bool {
	return t.InPlatforms(model.PlatformSpaceID, model.PlatformEthereum)
}

type resolveResponse struct {
	Code    int    `json:"code"`
	Msg     string `json:"msg"`
	Address string `json:"address"`
	Name    string `json:"name"`
}

func (f *Fetcher) getAddress(ctx context.Context, domain string) (string, error) {
	u := fmt.Sprintf("%s/v1/getAddress?tld=%s&domain=%s", f.cfg.URL, f.cfg.TLD, url.QueryEscape(domain))
	var resp resolveResponse
	if err := httpx.GetJSON(ctx, f.http, u, &resp); err != nil {
		return "", err
	}
	if resp.Code != 0 {
		return "", apperr.Remote(0, "spaceid getAddress: code=%d msg=%s", resp.Code, resp.Msg)
	}
	// valid but unregistered domains resolve to the zero address
	if resp.Address == unregisteredAddress {
		return "", nil
	}
	return resp.Address, nil
}

func (f *Fetcher) getName(ctx context.Context, address string) (string, error) {
	u := fmt.Sprintf("%s/v1/getName?tld=%s&address=%s", f.cfg.URL, f.cfg.TLD, url.QueryEscape(address))
	var resp resolveResponse
	if err := httpx.GetJSON(ctx, f.http, u, &resp); err != nil {
		return "", err
	}
	if resp.Code != 0 {
		return "", apperr.Remote(0, "spaceid getName: code=%d msg=%s", resp.Code, resp.Msg)
	}
	return resp.Name, nil
}

func (f *Fetcher) BatchFetch(ctx context.Context, t upstream.Target) ([]upstream.Target, upstream.EdgeList, error) {
	switch t.Platform {
	case model.PlatformEthereum:
		return f.fetchByAddress(ctx, strings.ToLower(t.Identity))
	case model.PlatformSpaceID:
		return f.fetchByDomain(ctx, t.Identity)
	}
	return nil, nil, nil
}

func (f *Fetcher) fetchByAddress(ctx context.Context, address string) ([]upstream.Target, upstream.EdgeList, error) {
	name, err := f.getName(ctx, address)
	if err != nil {
		return nil, nil, err
	}
	if name == "" {
		// no primary name set for this wallet
		return nil, nil, nil
	}

	var edges upstream.EdgeList
	f.bindingEdges(&edges, address, name, true)
	return []upstream.Target{upstream.NewIdentity(model.PlatformSpaceID, name)}, edges, nil
}

func (f *Fetcher) fetchByDomain(ctx context.Context, domain string) ([]upstream.Target, upstream.EdgeList, error) {
	address, err := f.getAddress(ctx, domain)
	if err != nil {
		return nil, nil, err
	}
	if address == "" {
		return nil, nil, nil
	}
	address = strings.ToLower(address)

	// the domain is only canonical when the wallet's primary name points back
	primary, err := f.getName(ctx, address)
	if err != nil {
		f.log.Warn("primary name lookup failed", "address", address, "error", err)
		primary = ""
	}

	var edges upstream.EdgeList
	f.bindingEdges(&edges, address, domain, primary == domain)
	return []upstream.Target{upstream.NewIdentity(model.PlatformEthereum, address)}, edges, nil
}

func (f *Fetcher) bindingEdges(edges *upstream.EdgeList, address, domain string, isPrimary bool) {
	wallet := model.NewIdentity(model.PlatformEthereum, address)
	wallet.Reverse = isPrimary

	name := model.NewIdentity(model.PlatformSpaceID, domain)
	name.DisplayName = domain
	name.Reverse = isPrimary

	hold := model.NewHold(model.SourceSpaceID, "")
	resolve := model.NewResolve(model.SourceSpaceID, model.DNSSpaceID, domain)

	graph := model.NewIdentitiesGraph()
	hyper := model.HyperEdge{}
	edges.Add(graph, wallet, hyper.Wrapper(graph, wallet))
	edges.Add(graph, name, hyper.Wrapper(graph, name))
	edges.Add(wallet, name, hold.IdentityWrapper(wallet, name))
	edges.Add(name, wallet, resolve.Wrapper(name, wallet))
	if isPrimary {
		reverse := model.NewResolve(model.SourceSpaceID, model.DNSSpaceID, domain)
		edges.Add(wallet, name, reverse.ReverseWrapper(wallet, name))
	}
}

// DomainSearch reports the registration state of {label}.{tld}.
func (f *Fetcher) DomainSearch(ctx context.Context, label string) (upstream.EdgeList, error) {
	if label == "" {
		return nil, nil
	}
	domain := label + "." + f.cfg.TLD
	address, err := f.getAddress(ctx, domain)
	if err != nil {
		return nil, err
	}

	collection := model.NewDomainCollection(label)
	status := model.DomainTaken
	if address == "" {
		status = model.DomainAvailable
	}
	membership := &model.PartOfCollection{
		Platform: model.PlatformSpaceID,
		Name:     domain,
		TLD:      f.cfg.TLD,
		Status:   status,
	}

	name := model.NewIdentity(model.PlatformSpaceID, domain)
	name.DisplayName = domain

	var edges upstream.EdgeList
	if address != "" {
		wallet := model.NewIdentity(model.PlatformEthereum, strings.ToLower(address))
		hold := model.NewHold(model.SourceSpaceID, "")
		resolve := model.NewResolve(model.SourceSpaceID, model.DNSSpaceID, domain)
		edges.Add(wallet, name, hold.IdentityWrapper(wallet, name))
		edges.Add(name, wallet, resolve.Wrapper(name, wallet))
	}
	edges.Add(collection, name, membership.Wrapper(collection, name))
	return edges, nil
}
