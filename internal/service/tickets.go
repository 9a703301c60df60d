package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/RishabhGithub7348/AI-Voice-Receptionist-System/internal/models"
	"github.com/RishabhGithub7348/AI-Voice-Receptionist-System/internal/notify"
)

// Deadline rule: urgent requests get one hour, everything else four.
// Fixed at creation, never recomputed.
const (
	DefaultUrgentTimeout  = 1 * time.Hour
	DefaultPendingTimeout = 4 * time.Hour
)

// TicketService owns the help request state machine: create, resolve,
// timeout-sweep, and the learning loop that folds resolutions back into the
// knowledge base.
type TicketService struct {
	Tickets   TicketStore
	Knowledge KnowledgeStore
	Notifier  notify.Notifier
	Logger    zerolog.Logger

	UrgentTimeout  time.Duration
	PendingTimeout time.Duration
	Now            func() time.Time
}

type CreateTicketParams struct {
	Question      string
	CustomerPhone string
	Context       *string
	Priority      string
	CallSessionID *string
}

func (s *TicketService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now().UTC()
}

func (s *TicketService) timeoutFor(priority string) time.Duration {
	urgent := s.UrgentTimeout
	if urgent <= 0 {
		urgent = DefaultUrgentTimeout
	}
	pending := s.PendingTimeout
	if pending <= 0 {
		pending = DefaultPendingTimeout
	}
	if priority == models.PriorityUrgent {
		return urgent
	}
	return pending
}

// Create stamps a new pending help request with its deadline. A store failure
// surfaces as ErrStoreUnavailable; creation is never reported as successful
// when the write failed.
func (s *TicketService) Create(ctx context.Context, p CreateTicketParams) (*models.HelpRequest, error) {
	if strings.TrimSpace(p.Question) == "" || strings.TrimSpace(p.CustomerPhone) == "" {
		return nil, ErrValidation
	}
	if p.Priority == "" {
		p.Priority = models.PriorityNormal
	}

	now := s.now()
	r := models.HelpRequest{
		ID:            uuid.NewString(),
		CallSessionID: p.CallSessionID,
		CustomerPhone: p.CustomerPhone,
		Question:      p.Question,
		Context:       p.Context,
		Status:        models.StatusPending,
		Priority:      p.Priority,
		TimeoutAt:     now.Add(s.timeoutFor(p.Priority)),
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.Tickets.CreateHelpRequest(ctx, r); err != nil {
		return nil, storeErr(err)
	}
	return &r, nil
}

// Resolve transitions a pending request to resolved at most once. A second
// resolve on the same request, or a resolve racing the timeout sweep, fails
// with ErrInvalidState. When learn is true the resolution is folded into the
// knowledge base; the customer follow-up hook fires either way, and neither
// may unwind the already-final transition.
func (s *TicketService) Resolve(ctx context.Context, id, response, supervisorID string, learn bool) (*models.HelpRequest, error) {
	if strings.TrimSpace(response) == "" {
		return nil, ErrValidation
	}

	current, err := s.Tickets.GetHelpRequest(ctx, id)
	if err != nil {
		return nil, storeErr(err)
	}
	if current == nil {
		return nil, ErrNotFound
	}
	if current.Status != models.StatusPending {
		return nil, ErrInvalidState
	}

	resolvedAt := s.now()
	won, err := s.Tickets.ResolveHelpRequest(ctx, id, response, supervisorID, resolvedAt)
	if err != nil {
		return nil, storeErr(err)
	}
	if !won {
		// Lost the race against another resolver or the timeout sweep.
		return nil, ErrInvalidState
	}

	resolved, err := s.Tickets.GetHelpRequest(ctx, id)
	if err != nil {
		return nil, storeErr(err)
	}
	if resolved == nil {
		return nil, ErrNotFound
	}

	if learn {
		if err := s.Learn(ctx, resolved); err != nil {
			s.Logger.Error().Err(err).Str("request_id", id).Msg("failed to add resolution to knowledge base")
		}
	}

	if s.Notifier != nil {
		if err := s.Notifier.NotifyFollowUp(ctx, notify.FollowUp{
			CustomerPhone: resolved.CustomerPhone,
			Response:      response,
		}); err != nil {
			s.Logger.Error().Err(err).Str("request_id", id).Msg("customer follow-up failed")
		}
	}

	return resolved, nil
}

// Learn derives a knowledge entry from a resolved request. Additive only:
// near-duplicate questions accumulate separate entries.
func (s *TicketService) Learn(ctx context.Context, r *models.HelpRequest) error {
	if r.Status != models.StatusResolved || r.SupervisorResponse == nil {
		return ErrInvalidState
	}

	now := s.now()
	entry := models.KnowledgeEntry{
		ID:              uuid.NewString(),
		Question:        r.Question,
		Answer:          *r.SupervisorResponse,
		Category:        ClassifyCategory(r.Question),
		Source:          models.SourceSupervisor,
		ConfidenceScore: 1.0,
		UsageCount:      0,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := s.Knowledge.CreateKnowledgeEntry(ctx, entry); err != nil {
		return storeErr(err)
	}

	s.Logger.Info().Str("request_id", r.ID).Str("category", entry.Category).Msg("learned from resolution")
	return nil
}

// SweepTimeouts expires pending requests whose deadline has passed. Idempotent
// per invocation; terminal requests are never touched.
func (s *TicketService) SweepTimeouts(ctx context.Context) (int, error) {
	count, err := s.Tickets.SweepTimeouts(ctx, s.now())
	if err != nil {
		return 0, storeErr(err)
	}
	return count, nil
}

// Dashboard returns pending requests joined with customer names, oldest first.
func (s *TicketService) Dashboard(ctx context.Context) ([]models.PendingRequest, error) {
	items, err := s.Tickets.ListPendingRequests(ctx)
	if err != nil {
		return nil, storeErr(err)
	}
	return items, nil
}

// History returns a customer's help requests, newest first.
func (s *TicketService) History(ctx context.Context, phone string, limit int) ([]models.HelpRequest, error) {
	items, err := s.Tickets.ListRequestsByPhone(ctx, phone, limit)
	if err != nil {
		return nil, storeErr(err)
	}
	return items, nil
}
