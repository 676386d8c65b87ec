// Package preprocess implements the deterministic preprocessing pipeline that
// normalizes merchant identity before any matching happens: tokenization,
// noise removal, text normalization, and merchant canonicalization.
package preprocess

import (
	"crypto/sha256"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v2"
)

// AliasEntry maps a canonical brand name to its known textual variants.
// Entries are ordered; when variants overlap, the first registered entry wins.
type AliasEntry struct {
	Canonical string   `yaml:"canonical"`
	Variants  []string `yaml:"variants"`
}

// DefaultAliases returns the built-in brand alias table.
func DefaultAliases() []AliasEntry {
	return []AliasEntry{
		{Canonical: "STARBUCKS", Variants: []string{"STARBUCKS", "SBX", "SBUX", "STARBUCK"}},
		{Canonical: "MCDONALDS", Variants: []string{"MCDONALDS", "MCD", "MCDONALD"}},
		{Canonical: "WALMART", Variants: []string{"WALMART", "WAL-MART", "WMART"}},
		{Canonical: "TARGET", Variants: []string{"TARGET", "TGT"}},
		{Canonical: "AMAZON", Variants: []string{"AMAZON", "AMZN", "AMZ"}},
		{Canonical: "SHELL", Variants: []string{"SHELL", "SHELL OIL"}},
		{Canonical: "CHEVRON", Variants: []string{"CHEVRON", "CHEV"}},
		{Canonical: "UBER", Variants: []string{"UBER", "UBER TRIP", "UBER EATS"}},
		{Canonical: "LYFT", Variants: []string{"LYFT", "LYFT RIDE"}},
	}
}

// LoadAliases reads an alias table from a YAML file. The file holds a list of
// {canonical, variants} entries in priority order.
func LoadAliases(path string) ([]AliasEntry, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- operator-supplied config path
	if err != nil {
		return nil, fmt.Errorf("failed to read alias file: %w", err)
	}

	var entries []AliasEntry
	if err := yaml.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("failed to parse alias file: %w", err)
	}

	for i, e := range entries {
		if strings.TrimSpace(e.Canonical) == "" {
			return nil, fmt.Errorf("alias entry %d has no canonical name", i)
		}
	}
	return entries, nil
}

// Canonicalizer maps raw merchant text to a canonical brand name and a stable
// identifier derived from it. It is a pure function over a fixed alias table.
type Canonicalizer struct {
	entries []AliasEntry
}

// NewCanonicalizer creates a canonicalizer over the given alias table. A nil
// table uses the built-in defaults.
func NewCanonicalizer(entries []AliasEntry) *Canonicalizer {
	if entries == nil {
		entries = DefaultAliases()
	}
	return &Canonicalizer{entries: entries}
}

// Canonicalize resolves merchant text to a canonical name and its identifier.
// Matching is case-insensitive substring containment against each entry's
// variants, in registration order. Unmatched input canonicalizes to its own
// trimmed form. It never fails; empty input still yields an identifier.
func (c *Canonicalizer) Canonicalize(merchantText string) (string, string) {
	upper := strings.ToUpper(merchantText)

	for _, entry := range c.entries {
		for _, variant := range entry.Variants {
			if variant != "" && strings.Contains(upper, strings.ToUpper(variant)) {
				return entry.Canonical, CanonicalID(entry.Canonical)
			}
		}
	}

	canonical := strings.TrimSpace(merchantText)
	return canonical, CanonicalID(canonical)
}

// CanonicalID derives the stable merchant identifier: the first 16 hex
// characters of the SHA-256 digest of the uppercased name. It is an opaque
// identity token, not a security primitive.
func CanonicalID(canonical string) string {
	sum := sha256.Sum256([]byte(strings.ToUpper(canonical)))
	return fmt.Sprintf("%x", sum)[:16]
}
