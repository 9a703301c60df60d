package service

import (
	"context"
	"testing"
	"time"

	"github.com/RishabhGithub7348/AI-Voice-Receptionist-System/internal/models"
)

func kbEntry(id, question string) models.KnowledgeEntry {
	now := time.Now().UTC()
	return models.KnowledgeEntry{
		ID:              id,
		Question:        question,
		Answer:          "an answer",
		Category:        "general",
		Source:          models.SourceManual,
		ConfidenceScore: 1.0,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

func TestConfidenceIdentical(t *testing.T) {
	if got := Confidence("what are your hours", "what are your hours"); got != 1.0 {
		t.Fatalf("identical questions: got %v, want 1.0", got)
	}
}

func TestConfidenceSymmetric(t *testing.T) {
	a, b := "how much is a haircut", "what does a haircut cost"
	if Confidence(a, b) != Confidence(b, a) {
		t.Fatalf("confidence not symmetric: %v vs %v", Confidence(a, b), Confidence(b, a))
	}
}

func TestConfidenceRange(t *testing.T) {
	pairs := [][2]string{
		{"", ""},
		{"hello", ""},
		{"do you offer facials", "completely unrelated words here"},
		{"what are your hours today", "what are your hours"},
	}
	for _, p := range pairs {
		got := Confidence(p[0], p[1])
		if got < 0.0 || got > 1.0 {
			t.Fatalf("Confidence(%q, %q) = %v, out of range", p[0], p[1], got)
		}
	}
}

func TestConfidenceBoost(t *testing.T) {
	// Three shared words out of a five-word union: 0.6 raw, boosted to 0.72.
	got := Confidence("what are your hours", "what are your prices")
	want := 0.72
	if diff := got - want; diff > 1e-9 || diff < -1e-9 {
		t.Fatalf("boosted confidence: got %v, want %v", got, want)
	}
}

func TestConfidenceNoBoostBelowThreeShared(t *testing.T) {
	// Two shared words must score plain Jaccard, no boost.
	got := Confidence("your hours", "your hours today")
	want := 2.0 / 3.0
	if diff := got - want; diff > 1e-9 || diff < -1e-9 {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestFindBestMatchEmptyStore(t *testing.T) {
	m := NewMatcher(newMockStore(), 0)

	entry, confidence, err := m.FindBestMatch(context.Background(), "what are your hours")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if entry != nil || confidence != 0 {
		t.Fatalf("empty store must miss, got entry=%v confidence=%v", entry, confidence)
	}
}

func TestFindBestMatchIncrementsUsageOnce(t *testing.T) {
	store := newMockStore()
	seeded := kbEntry("kb-1", "what are your hours")
	store.knowledge[seeded.ID] = &seeded
	m := NewMatcher(store, 0)

	entry, confidence, err := m.FindBestMatch(context.Background(), "what are your hours")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if entry == nil || entry.ID != "kb-1" {
		t.Fatalf("expected kb-1 hit, got %+v", entry)
	}
	if confidence != 1.0 {
		t.Fatalf("confidence: got %v, want 1.0", confidence)
	}
	if store.knowledge["kb-1"].UsageCount != 1 {
		t.Fatalf("usage count: got %d, want 1", store.knowledge["kb-1"].UsageCount)
	}
	if entry.UsageCount != 1 {
		t.Fatalf("returned entry usage count: got %d, want 1", entry.UsageCount)
	}
}

func TestFindBestMatchBelowThreshold(t *testing.T) {
	store := newMockStore()
	seeded := kbEntry("kb-1", "do you sell gift certificates")
	store.knowledge[seeded.ID] = &seeded
	m := NewMatcher(store, 0.7)

	entry, _, err := m.FindBestMatch(context.Background(), "do you have parking nearby")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if entry != nil {
		t.Fatalf("weak overlap must miss, got %+v", entry)
	}
	if store.knowledge["kb-1"].UsageCount != 0 {
		t.Fatalf("miss must not touch usage, got %d", store.knowledge["kb-1"].UsageCount)
	}
}

func TestFindBestMatchPicksHighestScore(t *testing.T) {
	store := newMockStore()
	weak := kbEntry("kb-weak", "what are your hours on holidays and special dates")
	exact := kbEntry("kb-exact", "what are your hours")
	store.knowledge[weak.ID] = &weak
	store.knowledge[exact.ID] = &exact
	m := NewMatcher(store, 0.7)

	entry, _, err := m.FindBestMatch(context.Background(), "what are your hours")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if entry == nil || entry.ID != "kb-exact" {
		t.Fatalf("expected kb-exact, got %+v", entry)
	}
}

func TestFindBestMatchStoreFailure(t *testing.T) {
	store := newMockStore()
	store.failKnowledge = true
	m := NewMatcher(store, 0)

	if _, _, err := m.FindBestMatch(context.Background(), "what are your hours"); err == nil {
		t.Fatal("expected store error")
	}
}

func TestTokenizeLongestFirst(t *testing.T) {
	tokens := Tokenize("Do you offer highlights")
	if len(tokens) != 4 {
		t.Fatalf("token count: got %d, want 4", len(tokens))
	}
	if tokens[0] != "highlights" {
		t.Fatalf("longest token first: got %q", tokens[0])
	}
}
