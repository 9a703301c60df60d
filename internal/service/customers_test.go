package service

import (
	"context"
	"errors"
	"testing"
)

func TestGetOrCreateReusesCustomer(t *testing.T) {
	store := newMockStore()
	svc := &CustomerService{Store: store}

	name := "Dana"
	first, err := svc.GetOrCreate(context.Background(), "+15551234567", &name)
	if err != nil {
		t.Fatalf("first get-or-create: %v", err)
	}
	second, err := svc.GetOrCreate(context.Background(), "+15551234567", nil)
	if err != nil {
		t.Fatalf("second get-or-create: %v", err)
	}
	if first.ID != second.ID {
		t.Fatalf("expected same customer, got %s and %s", first.ID, second.ID)
	}
	if len(store.customers) != 1 {
		t.Fatalf("customer rows: got %d, want 1", len(store.customers))
	}
}

func TestGetByPhoneMissing(t *testing.T) {
	svc := &CustomerService{Store: newMockStore()}

	if _, err := svc.GetByPhone(context.Background(), "+15550000000"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("got %v, want ErrNotFound", err)
	}
}

func TestUpdateCustomerPatchesFields(t *testing.T) {
	store := newMockStore()
	svc := &CustomerService{Store: store}

	created, err := svc.GetOrCreate(context.Background(), "+15551234567", nil)
	if err != nil {
		t.Fatalf("get-or-create: %v", err)
	}

	name := "Dana"
	updated, err := svc.Update(context.Background(), created.ID, &name, nil, nil)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Name == nil || *updated.Name != "Dana" {
		t.Fatalf("name not patched: %+v", updated.Name)
	}
	if updated.Email != nil {
		t.Fatalf("email must stay untouched, got %v", *updated.Email)
	}

	if _, err := svc.Update(context.Background(), "missing", &name, nil, nil); !errors.Is(err, ErrNotFound) {
		t.Fatalf("unknown id: got %v, want ErrNotFound", err)
	}
}
