package service

import (
	"context"
	"time"

	"github.com/RishabhGithub7348/AI-Voice-Receptionist-System/internal/models"
)

// KnowledgeStore is the engine's read/write contract over knowledge entries.
// Implemented by db.Store.
type KnowledgeStore interface {
	CreateKnowledgeEntry(ctx context.Context, e models.KnowledgeEntry) error
	// SearchKnowledge is a coarse token pre-filter; confidence is always
	// scored on the full question text by the caller.
	SearchKnowledge(ctx context.Context, tokens []string, limit int) ([]models.KnowledgeEntry, error)
	IncrementUsage(ctx context.Context, id string) error
	ListKnowledge(ctx context.Context, category string, limit int) ([]models.KnowledgeEntry, error)
	MostUsedKnowledge(ctx context.Context, limit int) ([]models.KnowledgeEntry, error)
	CountKnowledge(ctx context.Context) (int, error)
	CategoryStats(ctx context.Context) ([]models.CategoryStat, error)
}

// TicketStore is the engine's contract over help requests. GetHelpRequest
// returns nil without error for a missing id; ResolveHelpRequest reports
// whether the conditional pending->resolved transition won.
type TicketStore interface {
	CreateHelpRequest(ctx context.Context, r models.HelpRequest) error
	GetHelpRequest(ctx context.Context, id string) (*models.HelpRequest, error)
	ResolveHelpRequest(ctx context.Context, id, response, supervisorID string, resolvedAt time.Time) (bool, error)
	SweepTimeouts(ctx context.Context, now time.Time) (int, error)
	ListPendingRequests(ctx context.Context) ([]models.PendingRequest, error)
	ListRequestsByPhone(ctx context.Context, phone string, limit int) ([]models.HelpRequest, error)
	CountRequests(ctx context.Context, status string) (int, error)
	ResolutionDurations(ctx context.Context) ([]time.Duration, error)
}

// CustomerStore resolves customers by phone. Lookups return nil without
// error when no customer exists.
type CustomerStore interface {
	CreateCustomer(ctx context.Context, c models.Customer) error
	GetCustomerByPhone(ctx context.Context, phone string) (*models.Customer, error)
	UpdateCustomerInfo(ctx context.Context, id string, name, email, notes *string) (*models.Customer, error)
}

// SessionStore persists call sessions for the voice pipeline. Updates return
// nil without error when the session id is unknown.
type SessionStore interface {
	CreateCallSession(ctx context.Context, cs models.CallSession) error
	EndCallSession(ctx context.Context, id string, endedAt time.Time, transcript *string) (*models.CallSession, error)
	UpdateTranscript(ctx context.Context, id string, transcript string) (*models.CallSession, error)
	ListActiveSessions(ctx context.Context) ([]models.CallSession, error)
}
