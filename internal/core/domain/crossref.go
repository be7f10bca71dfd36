package domain

import (
	"regexp"
	"strings"
)

// MinCrossReferences is the minimum number of related chunks a
// cross-reference lookup returns. When fewer exact label matches exist,
// the resolver supplements with semantic neighbours up to this count.
const MinCrossReferences = 3

// CrossReference relates a section identifier to chunks across all
// volumes. Built once per index snapshot, queried by section label.
type CrossReference struct {
	// SectionLabel is the normalized label that was resolved.
	SectionLabel string

	// Exact holds chunks whose section label equals the normalized
	// input, across all volumes.
	Exact []RetrievalResult

	// Semantic holds supplementary chunks found by similarity search,
	// excluding the exact matches. Populated when exact matches fall
	// short of MinCrossReferences, or exclusively when the label is
	// unknown.
	Semantic []RetrievalResult

	// ExactMatch reports whether any exact label matches were found.
	// When false the result set is semantic neighbours only and the
	// caller should present it as such.
	ExactMatch bool
}

// NormalizeSectionLabel canonicalises a section label for exact-token
// matching: whitespace trimmed and collapsed, upper-cased.
func NormalizeSectionLabel(label string) string {
	return strings.ToUpper(strings.Join(strings.Fields(label), " "))
}

// sectionRefPattern matches regulatory section codes referenced inside
// chunk text, e.g. "CAT.GEN.MPA.210" or "ORO.FC.105".
var sectionRefPattern = regexp.MustCompile(`\b[A-Z]{2,4}(?:\.[A-Z0-9]{1,4}){2,}\b`)

// ExtractSectionRefs scans text for regulatory section codes and returns
// them deduplicated in order of first appearance. Used to seed the
// section catalogue with references between volumes.
func ExtractSectionRefs(text string) []string {
	matches := sectionRefPattern.FindAllString(text, -1)
	if len(matches) == 0 {
		return nil
	}

	seen := make(map[string]bool, len(matches))
	refs := make([]string, 0, len(matches))
	for _, m := range matches {
		ref := NormalizeSectionLabel(m)
		if seen[ref] {
			continue
		}
		seen[ref] = true
		refs = append(refs, ref)
	}
	return refs
}
