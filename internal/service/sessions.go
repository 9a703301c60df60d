package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/RishabhGithub7348/AI-Voice-Receptionist-System/internal/models"
)

// SessionService tracks real-time call sessions on behalf of the voice
// pipeline. The engine itself only ever reads the session id off tickets.
type SessionService struct {
	Store     SessionStore
	Customers *CustomerService
}

// Start opens an active session, binding it to the (possibly new) customer.
func (s *SessionService) Start(ctx context.Context, phone string, name *string) (*models.CallSession, error) {
	if strings.TrimSpace(phone) == "" {
		return nil, ErrValidation
	}

	customer, err := s.Customers.GetOrCreate(ctx, phone, name)
	if err != nil {
		return nil, err
	}

	cs := models.CallSession{
		ID:           uuid.NewString(),
		CustomerID:   &customer.ID,
		PhoneNumber:  phone,
		SessionStart: time.Now().UTC(),
		Status:       models.SessionActive,
	}
	if err := s.Store.CreateCallSession(ctx, cs); err != nil {
		return nil, storeErr(err)
	}
	return &cs, nil
}

// End completes a session, optionally attaching the final transcript.
func (s *SessionService) End(ctx context.Context, id string, transcript *string) (*models.CallSession, error) {
	cs, err := s.Store.EndCallSession(ctx, id, time.Now().UTC(), transcript)
	if err != nil {
		return nil, storeErr(err)
	}
	if cs == nil {
		return nil, ErrNotFound
	}
	return cs, nil
}

func (s *SessionService) UpdateTranscript(ctx context.Context, id, transcript string) (*models.CallSession, error) {
	cs, err := s.Store.UpdateTranscript(ctx, id, transcript)
	if err != nil {
		return nil, storeErr(err)
	}
	if cs == nil {
		return nil, ErrNotFound
	}
	return cs, nil
}

func (s *SessionService) Active(ctx context.Context) ([]models.CallSession, error) {
	sessions, err := s.Store.ListActiveSessions(ctx)
	if err != nil {
		return nil, storeErr(err)
	}
	return sessions, nil
}
