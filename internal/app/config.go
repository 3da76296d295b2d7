package app

import (
	"strings"
	"time"

	"github.com/yungbote/relationgraph-backend/internal/graphdb"
	"github.com/yungbote/relationgraph-backend/internal/logger"
	"github.com/yungbote/relationgraph-backend/internal/utils"
)

type Config struct {
	Port        string
	Environment string

	GraphStore graphdb.Config

	// RedisAddr enables the cross-process fetch lock; empty keeps the
	// in-process fallback.
	RedisAddr string

	QueryCatalogPath string

	RefreshWorkers    int
	RefreshQueueSize  int
	RefreshPurgeDelay time.Duration
	FetchDepth        int

	UpstreamTimeout time.Duration

	KeybaseURL    string
	ENSReverseURL string
	NextIDURL     string
	FarcasterURL  string
	LensURL       string
	DotbitURL     string
	SpaceIDURL    string
	SpaceIDTLD    string
	SolanaURL     string
	TheGraphURLs  []string
}

func LoadConfig(log *logger.Logger) Config {
	return Config{
		Port:        utils.GetEnv("PORT", "8080", log),
		Environment: utils.GetEnv("ENVIRONMENT", "development", log),

		GraphStore: graphdb.Config{
			Host:               utils.GetEnv("GRAPH_STORE_HOST", "http://localhost:9000", log),
			AllocationHost:     utils.GetEnv("ID_ALLOCATION_HOST", "", log),
			IdentityGraphToken: utils.GetEnv("IDENTITY_GRAPH_TOKEN", "", log),
			AssetGraphToken:    utils.GetEnv("ASSET_GRAPH_TOKEN", "", log),
			SocialGraphToken:   utils.GetEnv("SOCIAL_GRAPH_TOKEN", "", log),
			Timeout:            utils.GetEnvAsDuration("GRAPH_STORE_TIMEOUT", 30*time.Second, log),
		},

		RedisAddr: utils.GetEnv("REDIS_ADDR", "", log),

		QueryCatalogPath: utils.GetEnv("QUERY_CATALOG_PATH", "", log),

		RefreshWorkers:    utils.GetEnvAsInt("REFRESH_WORKERS", 4, log),
		RefreshQueueSize:  utils.GetEnvAsInt("REFRESH_QUEUE_SIZE", 256, log),
		RefreshPurgeDelay: utils.GetEnvAsDuration("REFRESH_PURGE_DELAY", 10*time.Second, log),
		FetchDepth:        utils.GetEnvAsInt("FETCH_DEPTH", 1, log),

		UpstreamTimeout: utils.GetEnvAsDuration("UPSTREAM_TIMEOUT", 10*time.Second, log),

		KeybaseURL:    utils.GetEnv("KEYBASE_URL", "https://keybase.io/_/api/1.0/user/lookup.json", log),
		ENSReverseURL: utils.GetEnv("ENS_REVERSE_URL", "", log),
		NextIDURL:     utils.GetEnv("NEXTID_URL", "https://proof-service.next.id", log),
		FarcasterURL:  utils.GetEnv("FARCASTER_URL", "", log),
		LensURL:       utils.GetEnv("LENS_URL", "https://api-v2.lens.dev", log),
		DotbitURL:     utils.GetEnv("DOTBIT_URL", "https://indexer-v1.did.id", log),
		SpaceIDURL:    utils.GetEnv("SPACEID_URL", "https://api.prd.space.id", log),
		SpaceIDTLD:    utils.GetEnv("SPACEID_TLD", "bnb", log),
		SolanaURL:     utils.GetEnv("SOLANA_SNS_URL", "https://sns-sdk-proxy.bonfida.workers.dev", log),
		TheGraphURLs:  splitList(utils.GetEnv("THEGRAPH_ENS_URLS", "https://api.thegraph.com/subgraphs/name/ensdomains/ens", log)),
	}
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
