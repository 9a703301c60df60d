package agent

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/RishabhGithub7348/AI-Voice-Receptionist-System/internal/models"
)

type fakeKnowledge struct {
	entries []models.KnowledgeEntry
	fail    bool
}

func (f *fakeKnowledge) CreateKnowledgeEntry(context.Context, models.KnowledgeEntry) error {
	return nil
}

func (f *fakeKnowledge) SearchKnowledge(context.Context, []string, int) ([]models.KnowledgeEntry, error) {
	return nil, nil
}

func (f *fakeKnowledge) IncrementUsage(context.Context, string) error { return nil }

func (f *fakeKnowledge) ListKnowledge(context.Context, string, int) ([]models.KnowledgeEntry, error) {
	return f.entries, nil
}

func (f *fakeKnowledge) MostUsedKnowledge(context.Context, int) ([]models.KnowledgeEntry, error) {
	if f.fail {
		return nil, errors.New("store down")
	}
	return f.entries, nil
}

func (f *fakeKnowledge) CountKnowledge(context.Context) (int, error) { return len(f.entries), nil }

func (f *fakeKnowledge) CategoryStats(context.Context) ([]models.CategoryStat, error) {
	return nil, nil
}

func TestBuildEmptyKnowledge(t *testing.T) {
	b := &ContextBuilder{Knowledge: &fakeKnowledge{}, Logger: zerolog.Nop()}

	got := b.Build(context.Background())
	if !strings.Contains(got, "Bella's Hair & Beauty Salon") {
		t.Fatal("base business context missing")
	}
	if strings.Contains(got, "KNOWLEDGE BASE ANSWERS") {
		t.Fatal("empty knowledge base must not add an answers section")
	}
}

func TestBuildIncludesConfidentEntries(t *testing.T) {
	kb := &fakeKnowledge{entries: []models.KnowledgeEntry{
		{Question: "do you do balayage", Answer: "Yes, from $120", Category: "services", ConfidenceScore: 1.0},
		{Question: "low confidence entry", Answer: "unsure", Category: "general", ConfidenceScore: 0.3},
	}}
	b := &ContextBuilder{Knowledge: kb, Threshold: 0.7, Logger: zerolog.Nop()}

	got := b.Build(context.Background())
	if !strings.Contains(got, "KNOWLEDGE BASE ANSWERS") {
		t.Fatal("answers section missing")
	}
	if !strings.Contains(got, "Q: do you do balayage") || !strings.Contains(got, "A: Yes, from $120") {
		t.Fatal("confident entry missing from context")
	}
	if strings.Contains(got, "low confidence entry") {
		t.Fatal("entry below threshold leaked into context")
	}
}

func TestBuildDegradesOnStoreFailure(t *testing.T) {
	b := &ContextBuilder{Knowledge: &fakeKnowledge{fail: true}, Logger: zerolog.Nop()}

	got := b.Build(context.Background())
	if !strings.Contains(got, "Bella's Hair & Beauty Salon") {
		t.Fatal("store failure must degrade to the base context")
	}
	if strings.Contains(got, "KNOWLEDGE BASE ANSWERS") {
		t.Fatal("failed fetch must not add an answers section")
	}
}
