package model

// PartOfCollection links a DomainCollection to one domain-name Identity
// sharing its label, annotated with the name's registration status.
// Always directed DomainCollection -> Identity.
type PartOfCollection struct {
	Platform Platform     `json:"platform"`
	Name     string       `json:"name"`
	TLD      string       `json:"tld"`
	Status   DomainStatus `json:"status"`
}

func (p *PartOfCollection) ToAttributesMap() AttributeMap {
	return AttributeMap{
		"platform": attr(p.Platform.String()),
		"name":     attr(p.Name),
		"tld":      attr(p.TLD),
		"status":   attr(p.Status.String()),
	}
}

func (p *PartOfCollection) Wrapper(from *DomainCollection, to *Identity) EdgeWrapper {
	return wrap(p, EdgePartOfCollection, from, to)
}

type PartOfCollectionRecord = EdgeRecord[PartOfCollection]
