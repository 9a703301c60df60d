package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/RishabhGithub7348/AI-Voice-Receptionist-System/internal/notify"
)

// EscalationAnswer is the message read back to the caller while their
// question waits on a supervisor.
const EscalationAnswer = "Let me check with my supervisor and get back to you shortly."

// EscalationService is the per-question entry point: it records the customer,
// classifies priority, opens a help request and alerts the supervisor channel.
// The voice agent already carries the knowledge base in its prompt, so by the
// time a question lands here it needs a human.
type EscalationService struct {
	Tickets   *TicketService
	Customers *CustomerService
	Notifier  notify.Notifier
	Logger    zerolog.Logger
}

type QuestionParams struct {
	Question      string
	CustomerPhone string
	CustomerName  *string
	Context       *string
	CallSessionID *string
}

type EscalationResult struct {
	Answered   bool    `json:"has_answer"`
	Answer     string  `json:"answer"`
	Confidence float64 `json:"confidence"`
	RequestID  *string `json:"help_request_id,omitempty"`
	Escalated  bool    `json:"escalated"`
}

// HandleQuestion escalates an unanswered question. The help request is the
// source of truth: its creation succeeds or fails on the store alone, and a
// failing notification hook is logged without rolling anything back.
func (s *EscalationService) HandleQuestion(ctx context.Context, p QuestionParams) (EscalationResult, error) {
	if _, err := s.Customers.GetOrCreate(ctx, p.CustomerPhone, p.CustomerName); err != nil {
		// The ticket keys on phone, not on the customer row; a failed
		// get-or-create must not block the escalation.
		s.Logger.Warn().Err(err).Str("customer_phone", p.CustomerPhone).Msg("customer lookup failed")
	}

	questionContext := ""
	if p.Context != nil {
		questionContext = *p.Context
	}
	priority := ClassifyPriority(p.Question, questionContext)

	ticket, err := s.Tickets.Create(ctx, CreateTicketParams{
		Question:      p.Question,
		CustomerPhone: p.CustomerPhone,
		Context:       p.Context,
		Priority:      priority,
		CallSessionID: p.CallSessionID,
	})
	if err != nil {
		return EscalationResult{}, err
	}

	if s.Notifier != nil {
		if err := s.Notifier.NotifyEscalation(ctx, notify.Escalation{
			RequestID:     ticket.ID,
			CustomerPhone: ticket.CustomerPhone,
			Priority:      ticket.Priority,
			Question:      ticket.Question,
			Context:       ticket.Context,
		}); err != nil {
			s.Logger.Error().Err(err).Str("request_id", ticket.ID).Msg("supervisor notification failed")
		}
	}

	return EscalationResult{
		Answered:   false,
		Answer:     EscalationAnswer,
		Confidence: 0.0,
		RequestID:  &ticket.ID,
		Escalated:  true,
	}, nil
}
