package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/RishabhGithub7348/AI-Voice-Receptionist-System/internal/models"
)

// CustomerService manages customer identity, keyed by phone number.
type CustomerService struct {
	Store CustomerStore
}

// GetOrCreate returns the customer for phone, creating one on first contact.
func (s *CustomerService) GetOrCreate(ctx context.Context, phone string, name *string) (*models.Customer, error) {
	existing, err := s.Store.GetCustomerByPhone(ctx, phone)
	if err != nil {
		return nil, storeErr(err)
	}
	if existing != nil {
		return existing, nil
	}

	now := time.Now().UTC()
	c := models.Customer{
		ID:          uuid.NewString(),
		PhoneNumber: phone,
		Name:        name,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.Store.CreateCustomer(ctx, c); err != nil {
		return nil, storeErr(err)
	}
	return &c, nil
}

func (s *CustomerService) GetByPhone(ctx context.Context, phone string) (*models.Customer, error) {
	c, err := s.Store.GetCustomerByPhone(ctx, phone)
	if err != nil {
		return nil, storeErr(err)
	}
	if c == nil {
		return nil, ErrNotFound
	}
	return c, nil
}

// Update patches name/email/notes; nil fields are left untouched.
func (s *CustomerService) Update(ctx context.Context, id string, name, email, notes *string) (*models.Customer, error) {
	c, err := s.Store.UpdateCustomerInfo(ctx, id, name, email, notes)
	if err != nil {
		return nil, storeErr(err)
	}
	if c == nil {
		return nil, ErrNotFound
	}
	return c, nil
}
