package model

// Platform is an identity-bearing platform: a social network, a chain
// address space, or a naming system.
type Platform string

const (
	PlatformTwitter            Platform = "twitter"
	PlatformBitcoin            Platform = "bitcoin"
	PlatformEthereum           Platform = "ethereum"
	PlatformSolana             Platform = "solana"
	PlatformNextID             Platform = "nextid"
	PlatformKeybase            Platform = "keybase"
	PlatformGithub             Platform = "github"
	PlatformReddit             Platform = "reddit"
	PlatformFacebook           Platform = "facebook"
	PlatformInstagram          Platform = "instagram"
	PlatformENS                Platform = "ens"
	PlatformSNS                Platform = "sns"
	PlatformLens               Platform = "lens"
	PlatformDotbit             Platform = "dotbit"
	PlatformDNS                Platform = "dns"
	PlatformMinds              Platform = "minds"
	PlatformUnstoppableDomains Platform = "unstoppabledomains"
	PlatformFarcaster          Platform = "farcaster"
	PlatformSpaceID            Platform = "space_id"
	PlatformGenome             Platform = "genome"
	PlatformCrossbell          Platform = "crossbell"
	PlatformClusters           Platform = "clusters"
	PlatformCKB                Platform = "ckb"
	PlatformTron               Platform = "tron"
	PlatformDoge               Platform = "doge"
	PlatformBNBSmartChain      Platform = "bsc"
	PlatformPolygon            Platform = "polygon"
	PlatformAptos              Platform = "aptos"
	PlatformNear               Platform = "near"
	PlatformStacks             Platform = "stacks"
	PlatformCosmos             Platform = "cosmos"
	PlatformUnknown            Platform = "unknown"
)

var knownPlatforms = map[string]Platform{
	string(PlatformTwitter):            PlatformTwitter,
	string(PlatformBitcoin):            PlatformBitcoin,
	string(PlatformEthereum):           PlatformEthereum,
	"eth":                              PlatformEthereum,
	string(PlatformSolana):             PlatformSolana,
	string(PlatformNextID):             PlatformNextID,
	string(PlatformKeybase):            PlatformKeybase,
	string(PlatformGithub):             PlatformGithub,
	string(PlatformReddit):             PlatformReddit,
	string(PlatformFacebook):           PlatformFacebook,
	string(PlatformInstagram):          PlatformInstagram,
	string(PlatformENS):                PlatformENS,
	string(PlatformSNS):                PlatformSNS,
	string(PlatformLens):               PlatformLens,
	"Lens":                             PlatformLens,
	string(PlatformDotbit):             PlatformDotbit,
	string(PlatformDNS):                PlatformDNS,
	string(PlatformMinds):              PlatformMinds,
	string(PlatformUnstoppableDomains): PlatformUnstoppableDomains,
	string(PlatformFarcaster):          PlatformFarcaster,
	string(PlatformSpaceID):            PlatformSpaceID,
	string(PlatformGenome):             PlatformGenome,
	string(PlatformCrossbell):          PlatformCrossbell,
	string(PlatformClusters):           PlatformClusters,
	string(PlatformCKB):                PlatformCKB,
	string(PlatformTron):               PlatformTron,
	string(PlatformDoge):               PlatformDoge,
	string(PlatformBNBSmartChain):      PlatformBNBSmartChain,
	string(PlatformPolygon):            PlatformPolygon,
	string(PlatformAptos):              PlatformAptos,
	string(PlatformNear):               PlatformNear,
	string(PlatformStacks):             PlatformStacks,
	string(PlatformCosmos):             PlatformCosmos,
}

// ParsePlatform is total: unrecognized names map to PlatformUnknown so a
// new upstream platform name never breaks normalization.
func ParsePlatform(s string) Platform {
	if p, ok := knownPlatforms[s]; ok {
		return p
	}
	return PlatformUnknown
}

func (p Platform) String() string { return string(p) }

// IsCaseInsensitive reports whether identities on this platform name the
// same real-world entity regardless of casing. EVM addresses and domain
// names are; social handles keep their reported case.
func (p Platform) IsCaseInsensitive() bool {
	switch p {
	case PlatformEthereum, PlatformBNBSmartChain, PlatformPolygon, PlatformCrossbell,
		PlatformENS, PlatformSNS, PlatformLens, PlatformDotbit, PlatformSpaceID,
		PlatformGenome, PlatformUnstoppableDomains, PlatformDNS:
		return true
	}
	return false
}

// NameSystem maps a domain-bearing platform to its naming system.
func (p Platform) NameSystem() DomainNameSystem {
	switch p {
	case PlatformENS:
		return DNSENS
	case PlatformSNS:
		return DNSSNS
	case PlatformDotbit:
		return DNSDotbit
	case PlatformLens:
		return DNSLens
	case PlatformUnstoppableDomains:
		return DNSUnstoppableDomains
	case PlatformSpaceID, PlatformCrossbell:
		return DNSSpaceID
	case PlatformGenome:
		return DNSGenome
	case PlatformClusters:
		return DNSClusters
	}
	return DNSUnknown
}
