package notify

import "context"

// Escalation is the payload handed to the supervisor channel when a new help
// request is created.
type Escalation struct {
	RequestID     string  `json:"request_id"`
	CustomerPhone string  `json:"customer_phone"`
	Priority      string  `json:"priority"`
	Question      string  `json:"question"`
	Context       *string `json:"context,omitempty"`
}

// FollowUp is the payload for telling a customer their question was answered.
type FollowUp struct {
	CustomerPhone string `json:"customer_phone"`
	Response      string `json:"response"`
}

// Notifier delivers escalation and follow-up messages over whatever transport
// the deployment wires in (SMS gateway, webhook, console). Delivery failure is
// the caller's to log; it must never fail the operation that triggered it.
type Notifier interface {
	NotifyEscalation(ctx context.Context, e Escalation) error
	NotifyFollowUp(ctx context.Context, f FollowUp) error
}
