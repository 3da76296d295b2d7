// Package dotbit talks to the .bit (DAS) JSON-RPC indexer. Account
// lookup goes name to owner wallet; reverse records go wallet to name.
package dotbit

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/yungbote/relationgraph-backend/internal/apperr"
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
		log:  log.With("component", "dotbit"),
		http: &http.Client{Timeout: cfg.Timeout},
	}
}

func (f *Fetcher) Name() string { return "dotbit" }

func (f *Fetcher) CanFetch(t upstream.Target) bool {
	return t.InPlatforms(model.PlatformDotbit, model.PlatformEthereum)
}

type rpcRequest struct {
	JSONRPC string `json:"jsonrpc"`
	ID      int    `json:"id"`
	Method  string `json:"method"`
	Params  []any  `json:"params"`
}

type accountInfoResponse struct {
	Result struct {
		Errno  int    `json:"errno"`
		Errmsg string `json:"errmsg"`
		Data   *struct {
			OutPoint *struct {
				TxHash string `json:"tx_hash"`
				Index  int64  `json:"index"`
			} `json:"out_point"`
			AccountInfo *struct {
				Account       string `json:"account"`
				CreateAtUnix  int64  `json:"create_at_unix"`
				ExpiredAtUnix int64  `json:"expired_at_unix"`
				OwnerKey      string `json:"owner_key"`
			} `json:"account_info"`
		} `json:"data"`
	} `json:"result"`
}

type reverseRecordResponse struct {
	Result struct {
		Errno  int    `json:"errno"`
		Errmsg string `json:"errmsg"`
		Data   *struct {
			Account string `json:"account"`
		} `json:"data"`
	} `json:"result"`
}

func (f *Fetcher) BatchFetch(ctx context.Context, t upstream.Target) ([]upstream.Target, upstream.EdgeList, error) {
	switch t.Platform {
	case model.PlatformDotbit:
		return f.fetchByAccount(ctx, t.Identity)
	case model.PlatformEthereum:
		return f.fetchReverseRecord(ctx, t.Identity)
	}
	return nil, nil, nil
}

func (f *Fetcher) fetchByAccount(ctx context.Context, account string) ([]upstream.Target, upstream.EdgeList, error) {
	req := rpcRequest{
		JSONRPC: "2.0",
		ID:      1,
		Method:  "das_accountInfo",
		Params:  []any{map[string]string{"account": account}},
	}
	var resp accountInfoResponse
	if err := httpx.PostJSON(ctx, f.http, f.cfg.URL, req, &resp); err != nil {
		return nil, nil, err
	}
	if resp.Result.Errno != 0 {
		return nil, nil, apperr.Remote(0, "das_accountInfo: errno=%d msg=%s", resp.Result.Errno, resp.Result.Errmsg)
	}
	data := resp.Result.Data
	if data == nil || data.AccountInfo == nil {
		return nil, nil, nil
	}
	createdAt := model.NewTimestamp(utils.TimestampToTime(data.AccountInfo.CreateAtUnix))

	owner := model.NewIdentity(model.PlatformEthereum, data.AccountInfo.OwnerKey)
	owner.CreatedAt = createdAt

	name := model.NewIdentity(model.PlatformDotbit, account)
	name.DisplayName = account
	name.CreatedAt = createdAt
	if data.AccountInfo.ExpiredAtUnix > 0 {
		name.ExpiredAt = model.NewTimestamp(utils.TimestampToTime(data.AccountInfo.ExpiredAtUnix))
	}

	hold := model.NewHold(model.SourceDotbit, "")
	hold.CreatedAt = createdAt
	if data.OutPoint != nil {
		hold.Transaction = data.OutPoint.TxHash
		hold.ID = strconv.FormatInt(data.OutPoint.Index, 10)
	}

	resolve := model.NewResolve(model.SourceDotbit, model.DNSDotbit, account)

	graph := model.NewIdentitiesGraph()
	hyper := model.HyperEdge{}
	var edges upstream.EdgeList
	edges.Add(graph, owner, hyper.Wrapper(graph, owner))
	edges.Add(graph, name, hyper.Wrapper(graph, name))
	edges.Add(owner, name, hold.IdentityWrapper(owner, name))
	edges.Add(name, owner, resolve.Wrapper(name, owner))

	return []upstream.Target{upstream.NewIdentity(model.PlatformEthereum, data.AccountInfo.OwnerKey)}, edges, nil
}

func (f *Fetcher) fetchReverseRecord(ctx context.Context, wallet string) ([]upstream.Target, upstream.EdgeList, error) {
	req := rpcRequest{
		JSONRPC: "2.0",
		ID:      1,
		Method:  "das_reverseRecord",
		Params: []any{map[string]any{
			"type": "blockchain",
			"key_info": map[string]string{
				"coin_type": "60",
				"chain_id":  "1",
				"key":       wallet,
			},
		}},
	}
	var resp reverseRecordResponse
	if err := httpx.PostJSON(ctx, f.http, f.cfg.URL, req, &resp); err != nil {
		return nil, nil, err
	}
	if resp.Result.Errno != 0 {
		return nil, nil, apperr.Remote(0, "das_reverseRecord: errno=%d msg=%s", resp.Result.Errno, resp.Result.Errmsg)
	}
	if resp.Result.Data == nil || resp.Result.Data.Account == "" {
		return nil, nil, nil
	}
	account := resp.Result.Data.Account

	owner := model.NewIdentity(model.PlatformEthereum, wallet)
	owner.Reverse = true
	name := model.NewIdentity(model.PlatformDotbit, account)
	name.DisplayName = account
	name.Reverse = true

	hold := model.NewHold(model.SourceDotbit, "")
	resolve := model.NewResolve(model.SourceDotbit, model.DNSDotbit, account)

	graph := model.NewIdentitiesGraph()
	hyper := model.HyperEdge{}
	var edges upstream.EdgeList
	edges.Add(graph, owner, hyper.Wrapper(graph, owner))
	edges.Add(graph, name, hyper.Wrapper(graph, name))
	edges.Add(owner, name, hold.IdentityWrapper(owner, name))
	edges.Add(owner, name, resolve.ReverseWrapper(owner, name))
	edges.Add(name, owner, resolve.Wrapper(name, owner))
	return nil, edges, nil
}
