package models

// CatalogEntry is one candidate returned by the catalog service lookup
type CatalogEntry struct {
	ExternalID         int64  `json:"externalId"`
	Name               string `json:"name"`
	VariantLabel       string `json:"variantLabel"`
	HasExistingAssets  bool   `json:"hasExistingAssets"`
	ExistingAssetCount int    `json:"existingAssetCount"`
}

// ExternalState holds what the catalog service reported for a record.
// Checked=false means the lookup failed or has not run yet ("unknown").
type ExternalState struct {
	Checked            bool  `json:"checked"`
	HasExistingAssets  bool  `json:"hasExistingAssets"`
	ExistingAssetCount int   `json:"existingAssetCount"`
	ExternalID         int64 `json:"externalId,omitempty"`
}

// MatchedRecord pairs a catalog record with its ordered photo list.
// The first asset in the list is the primary/cover image.
type MatchedRecord struct {
	Record    CatalogRecord `json:"record"`
	Assets    []Asset       `json:"assets"`
	External  ExternalState `json:"external"`
	Selected  bool          `json:"selected"`
	Committed bool          `json:"committed"`
	LastError string        `json:"lastError,omitempty"`
}

// Key returns the unique key of the underlying catalog record
func (m MatchedRecord) Key() string {
	return m.Record.UniqueKey()
}

// CloneAssets returns a copy of the record with its own asset slice,
// so mutations never alias another snapshot's list
func (m MatchedRecord) CloneAssets() MatchedRecord {
	assets := make([]Asset, len(m.Assets))
	copy(assets, m.Assets)
	m.Assets = assets
	return m
}
