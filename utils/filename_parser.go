package utils

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/BartJoris/live-babetteconcept-sub001/models"
)

// extRegex strips the image extension (case-insensitive) before parsing
var extRegex = regexp.MustCompile(`(?i)\.(png|jpe?g|webp)$`)

// parenSeqRegex matches a parenthesized sequence number token, e.g. "(2)"
var parenSeqRegex = regexp.MustCompile(`^\(([0-9]{1,3})\)$`)

// alphaTokenRegex matches a pure color/label word
var alphaTokenRegex = regexp.MustCompile(`^[a-zA-Z]+$`)

// sizeMarker is the baby-size marker that shows up in some filenames.
// It must never be read as a sequence number or reference.
const sizeMarker = "bb"

// parseRule pairs a compiled pattern with an extraction function.
// Rules are tried in order, most specific first; the first rule whose
// pattern matches and whose extraction succeeds wins. No partial credit:
// a rule either yields a complete key or the next rule is tried.
type parseRule struct {
	name    string
	pattern *regexp.Regexp
	extract func(base string, matches []string) (models.Asset, bool)
}

// FilenameParser derives a structured key (reference code, variant token,
// sequence number, category) from a raw photo filename. Parsing is pure:
// the same filename always yields the same key.
type FilenameParser struct {
	refToken *regexp.Regexp
	rules    []parseRule
}

// NewFilenameParser builds a parser for the given supplier profile.
// The profile's RefPattern decides which tokens count as reference codes.
func NewFilenameParser(profile models.SupplierProfile) (*FilenameParser, error) {
	refPattern := profile.RefPattern
	if refPattern == "" {
		refPattern = models.DefaultSupplierProfile().RefPattern
	}

	refToken, err := regexp.Compile(refPattern)
	if err != nil {
		return nil, fmt.Errorf("invalid reference pattern %q: %w", refPattern, err)
	}

	// Unanchored body of the reference pattern, for embedding in rule regexes
	refBody := strings.TrimSuffix(strings.TrimPrefix(refPattern, "^"), "$")

	p := &FilenameParser{refToken: refToken}

	// Hashed export form: "3f2a77c1-AD207B-LIZERON-2-web.jpg"
	hashedForm := regexp.MustCompile(
		`(?i)^[0-9a-f]{6,}-(` + refBody + `)-([a-z]+)-([0-9]{1,3})-[a-z0-9]+$`)

	// Plain product form: "AD207B-lizeron-1.jpg". The variant segment may
	// span several words ("vert-sapin", "vert_sapin"); the trailing numeric
	// sequence disambiguates where the color ends. A BB size marker next to
	// the sequence number is absorbed and stripped afterwards.
	plainForm := regexp.MustCompile(
		`(?i)^(` + refBody + `)-([a-z]+(?:[-_][a-z]+)*)-([0-9]{1,3})(?:-bb)?$`)

	// Tokenized shared form: "EMILE IDA E26 AD019 AD009 creme (1).jpg".
	// The pattern only gates on whitespace; token extraction does the rest.
	tokenizedForm := regexp.MustCompile(`\s`)

	p.rules = []parseRule{
		{"hashed-export", hashedForm, p.extractHyphenated},
		{"ref-color-seq", plainForm, p.extractHyphenated},
		{"tokenized-shared", tokenizedForm, p.extractTokenized},
	}
	return p, nil
}

// Parse derives the structured key for one filename. ok is false when no
// rule fully matches; such files are surfaced for manual review.
func (p *FilenameParser) Parse(filename string) (models.Asset, bool) {
	base := strings.TrimSpace(extRegex.ReplaceAllString(filename, ""))

	for _, rule := range p.rules {
		m := rule.pattern.FindStringSubmatch(base)
		if m == nil {
			continue
		}
		asset, ok := rule.extract(base, m)
		if !ok {
			continue
		}
		asset.Filename = filename
		return asset, true
	}
	return models.Asset{}, false
}

// extractHyphenated handles both hyphen-separated forms: group 1 is the
// reference, group 2 the color token, group 3 the sequence number. A size
// marker the greedy variant group swallowed ("lizeron-BB") is stripped here.
func (p *FilenameParser) extractHyphenated(_ string, matches []string) (models.Asset, bool) {
	seq, err := strconv.Atoi(matches[3])
	if err != nil {
		return models.Asset{}, false
	}
	variant := matches[2]
	lower := strings.ToLower(variant)
	if strings.HasSuffix(lower, "-"+sizeMarker) || strings.HasSuffix(lower, "_"+sizeMarker) {
		variant = variant[:len(variant)-len(sizeMarker)-1]
	}
	return models.Asset{
		ReferenceCode: strings.ToUpper(matches[1]),
		VariantToken:  variant,
		Sequence:      seq,
		Category:      models.AssetProduct,
	}, true
}

// extractTokenized handles whitespace-separated lifestyle filenames carrying
// one or more reference codes. All reference tokens are collected; remaining
// alphabetic tokens form the variant token; a parenthesized numeral is the
// sequence number. Size markers ("BB") and season codes are ignored.
func (p *FilenameParser) extractTokenized(base string, _ []string) (models.Asset, bool) {
	var refs []string
	var words []string
	seq := 0

	for _, token := range strings.Fields(base) {
		if strings.EqualFold(token, sizeMarker) {
			continue
		}
		if m := parenSeqRegex.FindStringSubmatch(token); m != nil {
			seq, _ = strconv.Atoi(m[1])
			continue
		}
		upper := strings.ToUpper(token)
		if p.refToken.MatchString(upper) {
			refs = append(refs, upper)
			continue
		}
		if alphaTokenRegex.MatchString(token) {
			words = append(words, token)
		}
	}

	if len(refs) == 0 {
		return models.Asset{}, false
	}

	return models.Asset{
		ReferenceCodes: refs,
		VariantToken:   strings.Join(words, " "),
		Sequence:       seq,
		Category:       models.AssetShared,
	}, true
}
