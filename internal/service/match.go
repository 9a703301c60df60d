package service

import (
	"context"
	"sort"
	"strings"

	"github.com/RishabhGithub7348/AI-Voice-Receptionist-System/internal/models"
)

// DefaultMatchThreshold is the minimum confidence for a knowledge entry to be
// accepted as an answer. Cross-component constant, keep in sync with config.
const DefaultMatchThreshold = 0.7

const candidateLimit = 20

// Matcher scores incoming questions against stored knowledge entries.
type Matcher struct {
	Store     KnowledgeStore
	Threshold float64
}

func NewMatcher(store KnowledgeStore, threshold float64) *Matcher {
	if threshold <= 0 {
		threshold = DefaultMatchThreshold
	}
	return &Matcher{Store: store, Threshold: threshold}
}

// FindBestMatch returns the top-scoring entry and its confidence, or nil when
// nothing clears the threshold. A miss is a result, not an error. On a hit the
// entry's usage count is incremented exactly once.
func (m *Matcher) FindBestMatch(ctx context.Context, question string) (*models.KnowledgeEntry, float64, error) {
	tokens := Tokenize(question)
	if len(tokens) == 0 {
		return nil, 0, nil
	}

	candidates, err := m.Store.SearchKnowledge(ctx, tokens, candidateLimit)
	if err != nil {
		return nil, 0, storeErr(err)
	}

	var best *models.KnowledgeEntry
	bestScore := 0.0
	for i := range candidates {
		score := Confidence(question, candidates[i].Question)
		if score > bestScore {
			best = &candidates[i]
			bestScore = score
		}
	}

	if best == nil || bestScore < m.Threshold {
		return nil, 0, nil
	}

	if err := m.Store.IncrementUsage(ctx, best.ID); err != nil {
		return nil, 0, storeErr(err)
	}
	best.UsageCount++
	return best, bestScore, nil
}

// Confidence is the Jaccard similarity of the two questions' word sets,
// boosted by 1.2 when they share at least three words, clamped to 1.0.
// Symmetric, and 1.0 for identical non-empty inputs.
func Confidence(a, b string) float64 {
	setA := wordSet(a)
	setB := wordSet(b)
	if len(setA) == 0 || len(setB) == 0 {
		return 0.0
	}

	intersection := 0
	for w := range setA {
		if _, ok := setB[w]; ok {
			intersection++
		}
	}
	union := len(setA) + len(setB) - intersection

	confidence := float64(intersection) / float64(union)
	if intersection >= 3 {
		confidence *= 1.2
	}
	if confidence > 1.0 {
		confidence = 1.0
	}
	return confidence
}

// Tokenize lower-cases the text and returns its distinct words, longest
// first, so the store pre-filter leads with the most selective tokens.
func Tokenize(text string) []string {
	set := wordSet(text)
	tokens := make([]string, 0, len(set))
	for w := range set {
		tokens = append(tokens, w)
	}
	sort.Slice(tokens, func(i, j int) bool {
		if len(tokens[i]) == len(tokens[j]) {
			return tokens[i] < tokens[j]
		}
		return len(tokens[i]) > len(tokens[j])
	})
	return tokens
}

func wordSet(text string) map[string]struct{} {
	set := map[string]struct{}{}
	for _, w := range strings.Fields(strings.ToLower(text)) {
		set[w] = struct{}{}
	}
	return set
}
