package model

// ContractCategory classifies what kind of contract a token lives in.
type ContractCategory string

const (
	CategoryENS       ContractCategory = "ENS"
	CategoryERC721    ContractCategory = "ERC721"
	CategoryERC1155   ContractCategory = "ERC1155"
	CategoryPOAP      ContractCategory = "POAP"
	CategorySNS       ContractCategory = "SNS"
	CategoryGNS       ContractCategory = "GNS"
	CategoryBasenames ContractCategory = "Basenames"
	CategoryUnknown   ContractCategory = "unknown"
)

var knownCategories = map[string]ContractCategory{
	string(CategoryENS):       CategoryENS,
	string(CategoryERC721):    CategoryERC721,
	"ERC-721":                 CategoryERC721,
	string(CategoryERC1155):   CategoryERC1155,
	"ERC-1155":                CategoryERC1155,
	string(CategoryPOAP):      CategoryPOAP,
	string(CategorySNS):       CategorySNS,
	string(CategoryGNS):       CategoryGNS,
	string(CategoryBasenames): CategoryBasenames,
}

func ParseContractCategory(s string) ContractCategory {
	if c, ok := knownCategories[s]; ok {
		return c
	}
	return CategoryUnknown
}

func (c ContractCategory) String() string { return string(c) }

// DefaultContractAddress returns the canonical registry contract for
// categories that have a single well-known one.
func (c ContractCategory) DefaultContractAddress() string {
	switch c {
	case CategoryENS:
		// ENS base registrar.
		return "0x57f1887a8bf19b14fc0df6fd9b2acc9af147ea85"
	case CategoryBasenames:
		return "0x03c4738ee98ae44591e1a4a4f3cab6641d95dd9a"
	}
	return ""
}

func (c ContractCategory) DefaultChain() Chain {
	switch c {
	case CategoryENS, CategoryERC721, CategoryERC1155, CategoryPOAP:
		return ChainEthereum
	case CategorySNS:
		return ChainSolana
	case CategoryGNS:
		return ChainGnosis
	case CategoryBasenames:
		return ChainBase
	}
	return ChainUnknown
}

// DataSource is the upstream that asserted a fact.
type DataSource string

const (
	SourceSybilList          DataSource = "sybil"
	SourceKeybase            DataSource = "keybase"
	SourceNextID             DataSource = "nextid"
	SourceRSS3               DataSource = "rss3"
	SourceKNN3               DataSource = "knn3"
	SourceCyberConnect       DataSource = "cyberconnect"
	SourceEthLeaderboard     DataSource = "ethLeaderboard"
	SourceTheGraph           DataSource = "the_graph"
	SourceRPCServer          DataSource = "rpc_server"
	SourceDotbit             DataSource = "dotbit"
	SourceUnstoppableDomains DataSource = "unstoppabledomains"
	SourceLens               DataSource = "lens"
	SourceFarcaster          DataSource = "farcaster"
	SourceSpaceID            DataSource = "space_id"
	SourceCrossbell          DataSource = "crossbell"
	SourceSolana             DataSource = "solana"
	SourceClusters           DataSource = "clusters"
	SourceGenome             DataSource = "genome"
	SourceOpenSea            DataSource = "opensea"
	SourceTwitterHexagon     DataSource = "twitter_hexagon"
	SourceUniswap            DataSource = "uniswap"
	SourceUnknown            DataSource = "unknown"
)

var knownSources = map[string]DataSource{
	string(SourceSybilList):          SourceSybilList,
	string(SourceKeybase):            SourceKeybase,
	string(SourceNextID):             SourceNextID,
	string(SourceRSS3):               SourceRSS3,
	string(SourceKNN3):               SourceKNN3,
	string(SourceCyberConnect):       SourceCyberConnect,
	string(SourceEthLeaderboard):     SourceEthLeaderboard,
	string(SourceTheGraph):           SourceTheGraph,
	string(SourceRPCServer):          SourceRPCServer,
	string(SourceDotbit):             SourceDotbit,
	string(SourceUnstoppableDomains): SourceUnstoppableDomains,
	string(SourceLens):               SourceLens,
	string(SourceFarcaster):          SourceFarcaster,
	string(SourceSpaceID):            SourceSpaceID,
	string(SourceCrossbell):          SourceCrossbell,
	string(SourceSolana):             SourceSolana,
	string(SourceClusters):           SourceClusters,
	string(SourceGenome):             SourceGenome,
	string(SourceOpenSea):            SourceOpenSea,
	string(SourceTwitterHexagon):     SourceTwitterHexagon,
	string(SourceUniswap):            SourceUniswap,
}

func ParseDataSource(s string) DataSource {
	if d, ok := knownSources[s]; ok {
		return d
	}
	return SourceUnknown
}

func (d DataSource) String() string { return string(d) }

// DataFetcher names the service that collected a record.
type DataFetcher string

const (
	FetcherRelationService    DataFetcher = "relation_service"
	FetcherAggregationService DataFetcher = "aggregation_service"
	FetcherDataService        DataFetcher = "data_service"
)

func (f DataFetcher) String() string { return string(f) }

// DomainNameSystem identifies which naming system a Resolve edge belongs to.
type DomainNameSystem string

const (
	DNSENS                DomainNameSystem = "ens"
	DNSSNS                DomainNameSystem = "sns"
	DNSDotbit             DomainNameSystem = "dotbit"
	DNSLens               DomainNameSystem = "lens"
	DNSUnstoppableDomains DomainNameSystem = "unstoppabledomains"
	DNSSpaceID            DomainNameSystem = "space_id"
	DNSGenome             DomainNameSystem = "genome"
	DNSClusters           DomainNameSystem = "clusters"
	DNSUnknown            DomainNameSystem = "unknown"
)

var knownNameSystems = map[string]DomainNameSystem{
	string(DNSENS):                DNSENS,
	string(DNSSNS):                DNSSNS,
	string(DNSDotbit):             DNSDotbit,
	string(DNSLens):               DNSLens,
	string(DNSUnstoppableDomains): DNSUnstoppableDomains,
	string(DNSSpaceID):            DNSSpaceID,
	string(DNSGenome):             DNSGenome,
	string(DNSClusters):           DNSClusters,
}

func ParseDomainNameSystem(s string) DomainNameSystem {
	if d, ok := knownNameSystems[s]; ok {
		return d
	}
	return DNSUnknown
}

func (d DomainNameSystem) String() string { return string(d) }

// Platform returns the platform whose identities carry names from this
// system. Every known system maps one to one.
func (d DomainNameSystem) Platform() Platform {
	switch d {
	case DNSENS:
		return PlatformENS
	case DNSSNS:
		return PlatformSNS
	case DNSDotbit:
		return PlatformDotbit
	case DNSLens:
		return PlatformLens
	case DNSUnstoppableDomains:
		return PlatformUnstoppableDomains
	case DNSSpaceID:
		return PlatformSpaceID
	case DNSGenome:
		return PlatformGenome
	case DNSClusters:
		return PlatformClusters
	}
	return PlatformUnknown
}

// ProofLevel grades how much a Proof edge should be trusted.
type ProofLevel int

const (
	LevelInsecure      ProofLevel = 1
	LevelCautious      ProofLevel = 2
	LevelNeutral       ProofLevel = 3
	LevelConfident     ProofLevel = 4
	LevelVeryConfident ProofLevel = 5
)

// DomainStatus is a domain-search registration state.
type DomainStatus string

const (
	DomainTaken     DomainStatus = "taken"
	DomainProtected DomainStatus = "protected"
	DomainAvailable DomainStatus = "available"
)

func ParseDomainStatus(s string) DomainStatus {
	switch s {
	case string(DomainTaken):
		return DomainTaken
	case string(DomainProtected):
		return DomainProtected
	}
	return DomainAvailable
}

func (d DomainStatus) String() string { return string(d) }
