package utils

import (
	"strings"

	"github.com/BartJoris/live-babetteconcept-sub001/models"
)

// ColorNormalizer canonicalizes variant/color tokens so that the catalog
// spelling and the photographer's filename spelling compare equal.
type ColorNormalizer struct {
	aliases    map[string]string
	qualifiers []string
}

// NewColorNormalizer builds a normalizer from a supplier profile. The
// profile's alias table and qualifier list are merged over the defaults.
func NewColorNormalizer(profile models.SupplierProfile) *ColorNormalizer {
	defaults := models.DefaultSupplierProfile()

	aliases := make(map[string]string, len(defaults.Aliases)+len(profile.Aliases))
	for k, v := range defaults.Aliases {
		aliases[normalizeBase(k)] = normalizeBase(v)
	}
	for k, v := range profile.Aliases {
		aliases[normalizeBase(k)] = normalizeBase(v)
	}

	qualifiers := profile.Qualifiers
	if len(qualifiers) == 0 {
		qualifiers = defaults.Qualifiers
	}
	normalized := make([]string, 0, len(qualifiers))
	for _, q := range qualifiers {
		normalized = append(normalized, normalizeBase(q))
	}

	return &ColorNormalizer{aliases: aliases, qualifiers: normalized}
}

// normalizeBase lowercases and strips separator characters
func normalizeBase(token string) string {
	var b strings.Builder
	b.Grow(len(token))
	for _, r := range strings.ToLower(token) {
		switch r {
		case ' ', '-', '_', '.', '/':
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Normalize canonicalizes a variant token: lowercase, no separators,
// trailing catalog-only qualifiers stripped, known misspellings aliased.
func (n *ColorNormalizer) Normalize(token string) string {
	result := normalizeBase(token)

	for _, q := range n.qualifiers {
		if strings.HasSuffix(result, q) && len(result) > len(q) {
			result = strings.TrimSuffix(result, q)
			break
		}
	}

	if canonical, ok := n.aliases[result]; ok {
		result = canonical
	}
	return result
}

// Equal reports fuzzy equality between two variant tokens: the normalized
// forms are equal, or one contains the other. Containment tolerates partial
// labels embedded in filenames ("emile ida creme" vs "creme").
func (n *ColorNormalizer) Equal(a, b string) bool {
	na := n.Normalize(a)
	nb := n.Normalize(b)
	if na == "" || nb == "" {
		return na == nb
	}
	if na == nb {
		return true
	}
	return strings.Contains(na, nb) || strings.Contains(nb, na)
}
