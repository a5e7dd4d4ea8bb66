package scoring

import (
	"strings"

	"arbiter-hq/arbiter/pkg/policy"
)

// KeywordStrategy approximates semantic similarity by counting how many of a
// dimension's characteristic keywords appear in the text. It is the stand-in
// for a real embedding-based scorer behind the same Strategy interface.
type KeywordStrategy struct {
	keywords map[policy.Dimension][]string
}

// defaultKeywords maps each dimension to its characteristic vocabulary.
var defaultKeywords = map[policy.Dimension][]string{
	policy.DimensionCare:           {"compassion", "empathy", "support", "kindness", "nurture"},
	policy.DimensionDignity:        {"respect", "worth", "autonomy", "honor", "self-determination"},
	policy.DimensionTruth:          {"honesty", "accuracy", "factual", "integrity", "transparency"},
	policy.DimensionSovereignty:    {"independence", "authority", "self-rule", "freedom", "autonomy"},
	policy.DimensionNonHarm:        {"safety", "protection", "non-maleficence", "care", "prevention"},
	policy.DimensionCoherence:      {"consistency", "logic", "rationality", "alignment", "structure"},
	policy.DimensionLifeProtection: {"preservation", "vitality", "survival", "safeguarding", "life"},
}

// NewKeywordStrategy creates the default keyword matcher.
func NewKeywordStrategy() *KeywordStrategy {
	return &KeywordStrategy{keywords: defaultKeywords}
}

// NewKeywordStrategyWithVocabulary creates a keyword matcher with a custom
// vocabulary. Dimensions missing from the map always score 0.
func NewKeywordStrategyWithVocabulary(vocabulary map[policy.Dimension][]string) *KeywordStrategy {
	return &KeywordStrategy{keywords: vocabulary}
}

// Similarity returns the fraction of the dimension's keywords present in the
// text, in [0, 1].
func (s *KeywordStrategy) Similarity(text string, dimension policy.Dimension) float64 {
	keywords := s.keywords[dimension]
	if len(keywords) == 0 || text == "" {
		return 0
	}

	lower := strings.ToLower(text)
	matches := 0
	for _, kw := range keywords {
		if strings.Contains(lower, kw) {
			matches++
		}
	}

	return float64(matches) / float64(len(keywords))
}
