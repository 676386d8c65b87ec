package preprocess

import (
	"strings"

	"github.com/Veraticus/saffron/internal/model"
)

// regionCodes is the whitelist of 2-letter region codes recognized when they
// appear as a standalone token in the raw description.
var regionCodes = map[string]bool{
	"CA": true, "NY": true, "TX": true, "FL": true, "IL": true,
	"PA": true, "OH": true, "GA": true, "NC": true, "MI": true,
}

// Preprocessor runs the deterministic preprocessing pipeline. It performs no
// I/O and is fully deterministic for a given alias and stop-word configuration.
type Preprocessor struct {
	tokenizer     *Tokenizer
	canonicalizer *Canonicalizer
}

// New creates a preprocessor from its two pure collaborators. Nil arguments
// select the defaults (regex tokenizer, built-in alias table).
func New(tokenizer *Tokenizer, canonicalizer *Canonicalizer) *Preprocessor {
	if tokenizer == nil {
		tokenizer = NewTokenizer(nil)
	}
	if canonicalizer == nil {
		canonicalizer = NewCanonicalizer(nil)
	}
	return &Preprocessor{tokenizer: tokenizer, canonicalizer: canonicalizer}
}

// Preprocess tokenizes and cleans a raw transaction, resolves the canonical
// merchant, and derives metadata. Malformed input degrades (empty tokens,
// UNKNOWN merchant) rather than failing; transaction text is inherently noisy.
func (p *Preprocessor) Preprocess(txn model.Transaction) model.PreprocessedTransaction {
	tokens := p.tokenizer.Tokenize(txn.Description)
	cleaned := RemoveNoise(txn.Description)
	normalized := p.tokenizer.Normalize(cleaned)

	merchant := p.resolveMerchantName(txn.MerchantName, tokens)
	canonical, canonicalID := p.canonicalizer.Canonicalize(merchant)

	return model.PreprocessedTransaction{
		CanonicalMerchant:   canonical,
		CanonicalMerchantID: canonicalID,
		CleanedDescription:  cleaned,
		NormalizedText:      normalized,
		Tokens:              tokens,
		Location:            detectRegion(txn.Description),
		Type:                detectType(txn.Description),
	}
}

// resolveMerchantName normalizes a caller-supplied merchant name, or
// synthesizes one from the first three tokens longer than two characters.
func (p *Preprocessor) resolveMerchantName(supplied string, tokens []string) string {
	if strings.TrimSpace(supplied) != "" {
		return p.tokenizer.Normalize(supplied)
	}

	var parts []string
	for _, token := range tokens {
		if len(token) > 2 {
			parts = append(parts, token)
			if len(parts) == 3 {
				break
			}
		}
	}
	if len(parts) == 0 {
		return "UNKNOWN"
	}
	return strings.Join(parts, " ")
}

// detectRegion returns the first whitelisted 2-letter code appearing as a
// standalone token in the raw description.
func detectRegion(description string) string {
	for _, field := range strings.Fields(description) {
		if len(field) == 2 && regionCodes[field] {
			return field
		}
	}
	return ""
}

// detectType classifies transaction intent by keyword scan.
func detectType(description string) model.TransactionType {
	upper := strings.ToUpper(description)
	switch {
	case strings.Contains(upper, "REFUND") || strings.Contains(upper, "RETURN"):
		return model.TypeRefund
	case strings.Contains(upper, "SUBSCRIPTION") || strings.Contains(upper, "RECURRING"):
		return model.TypeSubscription
	default:
		return model.TypePurchase
	}
}
