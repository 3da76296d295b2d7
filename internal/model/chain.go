package model

// Chain is a blockchain a Contract can live on.
type Chain string

const (
	ChainEthereum        Chain = "ethereum"
	ChainRinkeby         Chain = "rinkeby"
	ChainRopsten         Chain = "ropsten"
	ChainKovan           Chain = "kovan"
	ChainGoerli          Chain = "goerli"
	ChainSepolia         Chain = "sepolia"
	ChainBNBSmartChain   Chain = "bsc"
	ChainPolygon         Chain = "polygon"
	ChainMumbai          Chain = "mumbai"
	ChainSolana          Chain = "solana"
	ChainConflux         Chain = "conflux"
	ChainConfluxESpace   Chain = "conflux_espace"
	ChainEthereumClassic Chain = "ethereum_classic"
	ChainZKSync          Chain = "zksync"
	ChainXdai            Chain = "xdai"
	ChainGnosis          Chain = "gnosis"
	ChainArweave         Chain = "arweave"
	ChainArbitrum        Chain = "arbitrum"
	ChainOptimism        Chain = "optimism"
	ChainCrossbell       Chain = "crossbell"
	ChainAvalanche       Chain = "avalanche"
	ChainFantom          Chain = "fantom"
	ChainCelo            Chain = "celo"
	ChainCKB             Chain = "ckb"
	ChainBase            Chain = "base"
	ChainUnknown         Chain = "unknown"
)

var knownChains = map[string]Chain{
	string(ChainEthereum):        ChainEthereum,
	string(ChainRinkeby):         ChainRinkeby,
	string(ChainRopsten):         ChainRopsten,
	string(ChainKovan):           ChainKovan,
	string(ChainGoerli):          ChainGoerli,
	string(ChainSepolia):         ChainSepolia,
	string(ChainBNBSmartChain):   ChainBNBSmartChain,
	"binance_smart_chain":        ChainBNBSmartChain,
	string(ChainPolygon):         ChainPolygon,
	string(ChainMumbai):          ChainMumbai,
	string(ChainSolana):          ChainSolana,
	string(ChainConflux):         ChainConflux,
	string(ChainConfluxESpace):   ChainConfluxESpace,
	string(ChainEthereumClassic): ChainEthereumClassic,
	string(ChainZKSync):          ChainZKSync,
	string(ChainXdai):            ChainXdai,
	string(ChainGnosis):          ChainGnosis,
	string(ChainArweave):         ChainArweave,
	string(ChainArbitrum):        ChainArbitrum,
	string(ChainOptimism):        ChainOptimism,
	string(ChainCrossbell):       ChainCrossbell,
	string(ChainAvalanche):       ChainAvalanche,
	string(ChainFantom):          ChainFantom,
	string(ChainCelo):            ChainCelo,
	string(ChainCKB):             ChainCKB,
	string(ChainBase):            ChainBase,
}

// ParseChain is total: unrecognized names map to ChainUnknown.
func ParseChain(s string) Chain {
	if c, ok := knownChains[s]; ok {
		return c
	}
	return ChainUnknown
}

func (c Chain) String() string { return string(c) }

// ChainID returns the EVM chain ID, or 0 for non-EVM chains.
func (c Chain) ChainID() uint64 {
	switch c {
	case ChainEthereum:
		return 1
	case ChainRinkeby:
		return 4
	case ChainRopsten:
		return 3
	case ChainKovan:
		return 42
	case ChainGoerli:
		return 5
	case ChainSepolia:
		return 11155111
	case ChainBNBSmartChain:
		return 56
	case ChainPolygon:
		return 137
	case ChainMumbai:
		return 80001
	case ChainConfluxESpace:
		return 71
	case ChainEthereumClassic:
		return 61
	case ChainXdai, ChainGnosis:
		return 100
	case ChainArbitrum:
		return 42161
	case ChainOptimism:
		return 10
	case ChainCrossbell:
		return 3737
	case ChainAvalanche:
		return 43114
	case ChainFantom:
		return 250
	case ChainCelo:
		return 42220
	case ChainCKB:
		return 71402
	case ChainBase:
		return 8453
	}
	return 0
}

func (c Chain) IsEVM() bool { return c.ChainID() != 0 }
