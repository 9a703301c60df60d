package notify

import (
	"context"

	"github.com/rs/zerolog"
)

// LogNotifier writes notifications to the process log. Used when no
// notification transport is configured.
type LogNotifier struct {
	Logger zerolog.Logger
}

func (l LogNotifier) NotifyEscalation(ctx context.Context, e Escalation) error {
	l.Logger.Info().
		Str("request_id", e.RequestID).
		Str("customer_phone", e.CustomerPhone).
		Str("priority", e.Priority).
		Str("question", e.Question).
		Msg("supervisor notification")
	return nil
}

func (l LogNotifier) NotifyFollowUp(ctx context.Context, f FollowUp) error {
	l.Logger.Info().
		Str("customer_phone", f.CustomerPhone).
		Str("response", f.Response).
		Msg("customer follow-up")
	return nil
}
