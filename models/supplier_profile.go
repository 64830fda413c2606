package models

// SupplierProfile holds the per-supplier matching configuration: the shape of
// reference codes in filenames, color-token aliases for known misspellings,
// and catalog-only qualifiers stripped during normalization.
// Profiles are loaded from YAML files, one per supplier.
type SupplierProfile struct {
	Name string `yaml:"name" json:"name"`

	// RefPattern is the regexp a filename token must match to count as a
	// product reference code (e.g. AD019, AD207B)
	RefPattern string `yaml:"refPattern" json:"refPattern"`

	// Aliases maps misspelled color tokens to their canonical spelling
	Aliases map[string]string `yaml:"aliases" json:"aliases"`

	// Qualifiers are trailing modifiers present in catalog labels but not in
	// filenames (or the other way around), stripped before comparison
	Qualifiers []string `yaml:"qualifiers" json:"qualifiers"`
}

// DefaultSupplierProfile returns the built-in profile used when no YAML
// profile matches the requested supplier
func DefaultSupplierProfile() SupplierProfile {
	return SupplierProfile{
		Name:       "default",
		RefPattern: `^[A-Z]{2}[0-9]{3}[A-Z]?$`,
		Aliases: map[string]string{
			"guariguette": "gariguette",
		},
		Qualifiers: []string{"light", "clair", "rouge"},
	}
}
