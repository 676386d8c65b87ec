package preprocess

import (
	"regexp"
	"strings"
)

// noisePatterns is the ordered list of substrings stripped from transaction
// descriptions before normalization. Order matters: transaction ids are
// removed before the bare digit-run pattern can eat their prefix.
var noisePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)#\d+`),          // Transaction ids like #12345
	regexp.MustCompile(`(?i)\d{4,}`),        // Long numeric codes
	regexp.MustCompile(`(?i)[A-Z]{2}\d{3,}`), // Location codes like CA123
	regexp.MustCompile(`\*+`),               // Asterisk groups
	regexp.MustCompile(`(?i)REF:\w+`),       // Reference codes
}

// RemoveNoise strips noise patterns from a transaction description and
// collapses the resulting whitespace.
func RemoveNoise(text string) string {
	cleaned := text
	for _, pattern := range noisePatterns {
		cleaned = pattern.ReplaceAllString(cleaned, "")
	}
	return strings.Join(strings.Fields(cleaned), " ")
}
