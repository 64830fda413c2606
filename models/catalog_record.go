package models

// CatalogRecord represents one supplier product variant from the price-list import
type CatalogRecord struct {
	ReferenceCode string `json:"referenceCode"`
	VariantCode   string `json:"variantCode"`
	VariantLabel  string `json:"variantLabel"`
	DisplayName   string `json:"displayName"`
	Category      string `json:"category"`
}

// UniqueKey identifies a record within an import session
func (r CatalogRecord) UniqueKey() string {
	return r.ReferenceCode + r.VariantCode
}

// DedupeRecords removes duplicate records by unique key, first occurrence wins
func DedupeRecords(records []CatalogRecord) []CatalogRecord {
	seen := make(map[string]bool, len(records))
	result := make([]CatalogRecord, 0, len(records))
	for _, r := range records {
		key := r.UniqueKey()
		if seen[key] {
			continue
		}
		seen[key] = true
		result = append(result, r)
	}
	return result
}
