package models

// AssetCategory tells how a photo may be assigned to records
type AssetCategory string

const (
	// AssetProduct is a photo of a single product variant, owned by at most one record
	AssetProduct AssetCategory = "product"
	// AssetShared is a lifestyle photo showing several products, referenced by many records
	AssetShared AssetCategory = "shared"
)

// Asset represents one candidate product photo awaiting assignment to a record
type Asset struct {
	Filename       string        `json:"filename"`
	Payload        []byte        `json:"-"`
	ReferenceCode  string        `json:"referenceCode,omitempty"`
	ReferenceCodes []string      `json:"referenceCodes,omitempty"`
	VariantToken   string        `json:"variantToken,omitempty"`
	Sequence       int           `json:"sequence"`
	Category       AssetCategory `json:"category"`
}

// HasReference reports whether the asset's reference set contains the given code
func (a Asset) HasReference(code string) bool {
	if a.ReferenceCode == code {
		return true
	}
	for _, ref := range a.ReferenceCodes {
		if ref == code {
			return true
		}
	}
	return false
}
