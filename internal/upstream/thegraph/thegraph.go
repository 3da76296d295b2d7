// Package thegraph fetches ENS ownership from the ENS subgraph. Wrapped
// domains report the wrapper contract as owner, so their real owner is
// rewritten from the wrappedDomains side of the query before merging.
package thegraph

import (
	"context"
	"math/rand"
	"strings"
	"time"

	"github.com/yungbote/relationgraph-backend/internal/logger"
	"github.com/yungbote/relationgraph-backend/internal/model"
	"github.com/yungbote/relationgraph-backend/internal/upstream"
	"github.com/yungbote/relationgraph-backend/internal/upstream/gql"
	"github.com/yungbote/relationgraph-backend/internal/utils"
)

const zeroAddressPrefix = "0x000000000000000000000000000000000000"

type Config struct {
	// URLs lists interchangeable subgraph endpoints; each query picks one
	// at random to spread rate limits.
	URLs    []string
	Timeout time.Duration
}

type Fetcher struct {
	log     *logger.Logger
	clients []*gql.Client
}

func New(cfg Config, log *logger.Logger) *Fetcher {
	clients := make([]*gql.Client, 0, len(cfg.URLs))
	for _, u := range cfg.URLs {
		clients = append(clients, gql.New(u, cfg.Timeout))
	}
	return &Fetcher{
		log:     log.With("component", "thegraph"),
		clients: clients,
	}
}

func (f *Fetcher) Name() string { return "thegraph" }

func (f *Fetcher) CanFetch(t upstream.Target) bool {
	return t.InPlatforms(model.PlatformEthereum) || t.InNFTCategories(model.CategoryENS)
}

func (f *Fetcher) pick() *gql.Client {
	return f.clients[rand.Intn(len(f.clients))]
}

type account struct {
	ID string `json:"id"`
}

type domain struct {
	Name         string `json:"name"`
	CreatedAt    string `json:"createdAt"`
	Registration *struct {
		ExpiryDate string `json:"expiryDate"`
	} `json:"registration"`
	Events []struct {
		TransactionID string `json:"transactionID"`
	} `json:"events"`
	ResolvedAddress *account `json:"resolvedAddress"`
	Owner           account  `json:"owner"`
}

type queryResponse struct {
	Domains        []domain `json:"domains"`
	WrappedDomains []struct {
		Name   string  `json:"name"`
		Owner  account `json:"owner"`
		Domain domain  `json:"domain"`
	} `json:"wrappedDomains"`
}

const domainFields = `
	name
	createdAt
	registration { expiryDate }
	events(first: 1) { transactionID }
	resolvedAddress { id }
	owner { id }`

const queryByName = `
	query OwnerAddressByENS($target: String!) {
		domains(where: { name: $target }) {` + domainFields + `
		}
		wrappedDomains(where: { name: $target }) {
			name
			owner { id }
			domain {` + domainFields + `
			}
		}
	}`

const queryByOwner = `
	query ENSByOwnerAddress($target: String!) {
		domains(where: { owner: $target }) {` + domainFields + `
		}
		wrappedDomains(where: { owner: $target }) {
			name
			owner { id }
			domain {` + domainFields + `
			}
		}
	}`

// fetchDomains runs one subgraph query and merges wrapped domains over
// plain ones, keeping the wrapper-corrected owner.
func (f *Fetcher) fetchDomains(ctx context.Context, query, target string) ([]domain, error) {
	if len(f.clients) == 0 {
		return nil, nil
	}
	var resp queryResponse
	if err := f.pick().Query(ctx, query, map[string]any{"target": target}, &resp); err != nil {
		return nil, err
	}

	var merged []domain
	for _, wd := range resp.WrappedDomains {
		d := wd.Domain
		d.Owner = wd.Owner
		merged = append(merged, d)
	}
	for _, d := range resp.Domains {
		dup := false
		for _, m := range merged {
			if m.Name == d.Name {
				dup = true
				break
			}
		}
		if !dup {
			merged = append(merged, d)
		}
	}
	return merged, nil
}

func (f *Fetcher) BatchFetch(ctx context.Context, t upstream.Target) ([]upstream.Target, upstream.EdgeList, error) {
	var (
		domains []domain
		err     error
	)
	fromName := t.Kind == upstream.KindNFT
	if fromName {
		domains, err = f.fetchDomains(ctx, queryByName, t.TokenID)
	} else {
		domains, err = f.fetchDomains(ctx, queryByOwner, strings.ToLower(t.Identity))
	}
	if err != nil {
		return nil, nil, err
	}
	if len(domains) == 0 {
		return nil, nil, nil
	}

	graph := model.NewIdentitiesGraph()
	hyper := model.HyperEdge{}
	var (
		next  []upstream.Target
		edges upstream.EdgeList
	)
	for _, d := range domains {
		owner := model.NewIdentity(model.PlatformEthereum, d.Owner.ID)

		name := model.NewIdentity(model.PlatformENS, d.Name)
		name.DisplayName = d.Name
		if createdAt, perr := utils.ParseTimestamp(d.CreatedAt); perr == nil {
			name.CreatedAt = model.NewTimestamp(createdAt)
		}
		if d.Registration != nil {
			if expiredAt, perr := utils.ParseTimestamp(d.Registration.ExpiryDate); perr == nil {
				name.ExpiredAt = model.NewTimestamp(expiredAt)
			}
		}

		contract := model.NewContract(model.ChainEthereum, model.CategoryENS, model.CategoryENS.DefaultContractAddress())

		hold := model.NewHold(model.SourceTheGraph, d.Name)
		hold.CreatedAt = name.CreatedAt
		hold.ExpiredAt = name.ExpiredAt
		if len(d.Events) > 0 {
			hold.Transaction = d.Events[0].TransactionID
		}

		edges.Add(graph, owner, hyper.Wrapper(graph, owner))
		edges.Add(owner, name, hold.IdentityWrapper(owner, name))
		edges.Add(owner, contract, hold.ContractWrapper(owner, contract))

		resolved := ""
		if d.ResolvedAddress != nil {
			resolved = strings.ToLower(d.ResolvedAddress.ID)
		}
		if resolved != "" && !strings.HasPrefix(resolved, zeroAddressPrefix) && resolved == strings.ToLower(d.Owner.ID) {
			// the name joins the identity component only when its resolve
			// record points back at the owner
			resolve := model.NewResolve(model.SourceTheGraph, model.DNSENS, d.Name)
			edges.Add(graph, name, hyper.Wrapper(graph, name))
			edges.Add(name, owner, resolve.Wrapper(name, owner))
			edges.Add(contract, owner, resolve.ContractWrapper(contract, owner))
		}

		if fromName {
			next = append(next, upstream.NewIdentity(model.PlatformEthereum, d.Owner.ID))
		} else {
			next = append(next, upstream.NewNFT(model.ChainEthereum, model.CategoryENS,
				model.CategoryENS.DefaultContractAddress(), d.Name))
		}
	}
	return next, edges, nil
}

// DomainSearch reports who owns {label}.eth and whether the
// registration has lapsed.
func (f *Fetcher) DomainSearch(ctx context.Context, label string) (upstream.EdgeList, error) {
	if label == "" {
		return nil, nil
	}
	ensName := label + ".eth"
	domains, err := f.fetchDomains(ctx, queryByName, ensName)
	if err != nil {
		return nil, err
	}

	collection := model.NewDomainCollection(label)
	var edges upstream.EdgeList

	if len(domains) == 0 {
		membership := &model.PartOfCollection{
			Platform: model.PlatformENS,
			Name:     ensName,
			TLD:      "eth",
			Status:   model.DomainAvailable,
		}
		name := model.NewIdentity(model.PlatformENS, ensName)
		name.DisplayName = ensName
		edges.Add(collection, name, membership.Wrapper(collection, name))
		return edges, nil
	}

	d := domains[0]
	name := model.NewIdentity(model.PlatformENS, d.Name)
	name.DisplayName = d.Name
	status := model.DomainTaken
	if d.Registration != nil {
		if expiredAt, perr := utils.ParseTimestamp(d.Registration.ExpiryDate); perr == nil {
			name.ExpiredAt = model.NewTimestamp(expiredAt)
			if expiredAt.Before(utils.Now()) {
				status = model.DomainAvailable
			}
		}
	}
	if status == model.DomainTaken && !strings.HasPrefix(strings.ToLower(d.Owner.ID), zeroAddressPrefix) {
		owner := model.NewIdentity(model.PlatformEthereum, d.Owner.ID)
		hold := model.NewHold(model.SourceTheGraph, d.Name)
		edges.Add(owner, name, hold.IdentityWrapper(owner, name))
	}
	membership := &model.PartOfCollection{
		Platform: model.PlatformENS,
		Name:     d.Name,
		TLD:      "eth",
		Status:   status,
	}
	edges.Add(collection, name, membership.Wrapper(collection, name))
	return edges, nil
}
