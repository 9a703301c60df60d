package service

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/RishabhGithub7348/AI-Voice-Receptionist-System/internal/models"
	"github.com/RishabhGithub7348/AI-Voice-Receptionist-System/internal/notify"
)

var errStoreDown = errors.New("store down")

// mockStore is a map-backed stand-in for db.Store covering every store
// contract the services consume.
type mockStore struct {
	knowledge map[string]*models.KnowledgeEntry
	requests  map[string]*models.HelpRequest
	customers map[string]*models.Customer
	sessions  map[string]*models.CallSession

	failKnowledge bool
	failTickets   bool
	failCustomers bool
}

func newMockStore() *mockStore {
	return &mockStore{
		knowledge: map[string]*models.KnowledgeEntry{},
		requests:  map[string]*models.HelpRequest{},
		customers: map[string]*models.Customer{},
		sessions:  map[string]*models.CallSession{},
	}
}

func (m *mockStore) CreateKnowledgeEntry(_ context.Context, e models.KnowledgeEntry) error {
	if m.failKnowledge {
		return errStoreDown
	}
	cp := e
	m.knowledge[e.ID] = &cp
	return nil
}

func (m *mockStore) SearchKnowledge(_ context.Context, tokens []string, limit int) ([]models.KnowledgeEntry, error) {
	if m.failKnowledge {
		return nil, errStoreDown
	}
	var out []models.KnowledgeEntry
	for _, e := range m.knowledge {
		q := strings.ToLower(e.Question)
		for _, tok := range tokens {
			if strings.Contains(q, tok) {
				out = append(out, *e)
				break
			}
		}
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (m *mockStore) IncrementUsage(_ context.Context, id string) error {
	if m.failKnowledge {
		return errStoreDown
	}
	e, ok := m.knowledge[id]
	if !ok {
		return errors.New("no such entry")
	}
	e.UsageCount++
	return nil
}

func (m *mockStore) ListKnowledge(_ context.Context, category string, limit int) ([]models.KnowledgeEntry, error) {
	if m.failKnowledge {
		return nil, errStoreDown
	}
	var out []models.KnowledgeEntry
	for _, e := range m.knowledge {
		if category != "" && e.Category != category {
			continue
		}
		out = append(out, *e)
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (m *mockStore) MostUsedKnowledge(_ context.Context, limit int) ([]models.KnowledgeEntry, error) {
	if m.failKnowledge {
		return nil, errStoreDown
	}
	var out []models.KnowledgeEntry
	for _, e := range m.knowledge {
		out = append(out, *e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UsageCount > out[j].UsageCount })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *mockStore) CountKnowledge(_ context.Context) (int, error) {
	if m.failKnowledge {
		return 0, errStoreDown
	}
	return len(m.knowledge), nil
}

func (m *mockStore) CategoryStats(_ context.Context) ([]models.CategoryStat, error) {
	if m.failKnowledge {
		return nil, errStoreDown
	}
	byCat := map[string]*models.CategoryStat{}
	for _, e := range m.knowledge {
		s, ok := byCat[e.Category]
		if !ok {
			s = &models.CategoryStat{Category: e.Category}
			byCat[e.Category] = s
		}
		s.Count++
		s.TotalUsage += e.UsageCount
	}
	var out []models.CategoryStat
	for _, s := range byCat {
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	return out, nil
}

func (m *mockStore) CreateHelpRequest(_ context.Context, r models.HelpRequest) error {
	if m.failTickets {
		return errStoreDown
	}
	cp := r
	m.requests[r.ID] = &cp
	return nil
}

func (m *mockStore) GetHelpRequest(_ context.Context, id string) (*models.HelpRequest, error) {
	if m.failTickets {
		return nil, errStoreDown
	}
	r, ok := m.requests[id]
	if !ok {
		return nil, nil
	}
	cp := *r
	return &cp, nil
}

func (m *mockStore) ResolveHelpRequest(_ context.Context, id, response, supervisorID string, resolvedAt time.Time) (bool, error) {
	if m.failTickets {
		return false, errStoreDown
	}
	r, ok := m.requests[id]
	if !ok || r.Status != models.StatusPending {
		return false, nil
	}
	r.Status = models.StatusResolved
	r.SupervisorResponse = &response
	r.SupervisorID = &supervisorID
	r.ResolvedAt = &resolvedAt
	r.UpdatedAt = resolvedAt
	return true, nil
}

func (m *mockStore) SweepTimeouts(_ context.Context, now time.Time) (int, error) {
	if m.failTickets {
		return 0, errStoreDown
	}
	count := 0
	for _, r := range m.requests {
		if r.Status == models.StatusPending && r.TimeoutAt.Before(now) {
			r.Status = models.StatusTimeout
			r.UpdatedAt = now
			count++
		}
	}
	return count, nil
}

func (m *mockStore) ListPendingRequests(_ context.Context) ([]models.PendingRequest, error) {
	if m.failTickets {
		return nil, errStoreDown
	}
	var out []models.PendingRequest
	for _, r := range m.requests {
		if r.Status != models.StatusPending {
			continue
		}
		row := models.PendingRequest{
			ID:            r.ID,
			Question:      r.Question,
			Context:       r.Context,
			Status:        r.Status,
			Priority:      r.Priority,
			CustomerPhone: r.CustomerPhone,
			CreatedAt:     r.CreatedAt,
			TimeoutAt:     r.TimeoutAt,
			HoursWaiting:  time.Since(r.CreatedAt).Hours(),
		}
		if c, ok := m.customers[r.CustomerPhone]; ok {
			row.CustomerName = c.Name
		}
		out = append(out, row)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (m *mockStore) ListRequestsByPhone(_ context.Context, phone string, limit int) ([]models.HelpRequest, error) {
	if m.failTickets {
		return nil, errStoreDown
	}
	var out []models.HelpRequest
	for _, r := range m.requests {
		if r.CustomerPhone == phone {
			out = append(out, *r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *mockStore) CountRequests(_ context.Context, status string) (int, error) {
	if m.failTickets {
		return 0, errStoreDown
	}
	count := 0
	for _, r := range m.requests {
		if status == "" || r.Status == status {
			count++
		}
	}
	return count, nil
}

func (m *mockStore) ResolutionDurations(_ context.Context) ([]time.Duration, error) {
	if m.failTickets {
		return nil, errStoreDown
	}
	var out []time.Duration
	for _, r := range m.requests {
		if r.Status == models.StatusResolved && r.ResolvedAt != nil {
			out = append(out, r.ResolvedAt.Sub(r.CreatedAt))
		}
	}
	return out, nil
}

func (m *mockStore) CreateCustomer(_ context.Context, c models.Customer) error {
	if m.failCustomers {
		return errStoreDown
	}
	cp := c
	m.customers[c.PhoneNumber] = &cp
	return nil
}

func (m *mockStore) GetCustomerByPhone(_ context.Context, phone string) (*models.Customer, error) {
	if m.failCustomers {
		return nil, errStoreDown
	}
	c, ok := m.customers[phone]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (m *mockStore) UpdateCustomerInfo(_ context.Context, id string, name, email, notes *string) (*models.Customer, error) {
	if m.failCustomers {
		return nil, errStoreDown
	}
	for _, c := range m.customers {
		if c.ID != id {
			continue
		}
		if name != nil {
			c.Name = name
		}
		if email != nil {
			c.Email = email
		}
		if notes != nil {
			c.Notes = notes
		}
		c.UpdatedAt = time.Now().UTC()
		cp := *c
		return &cp, nil
	}
	return nil, nil
}

func (m *mockStore) CreateCallSession(_ context.Context, cs models.CallSession) error {
	cp := cs
	m.sessions[cs.ID] = &cp
	return nil
}

func (m *mockStore) EndCallSession(_ context.Context, id string, endedAt time.Time, transcript *string) (*models.CallSession, error) {
	cs, ok := m.sessions[id]
	if !ok {
		return nil, nil
	}
	cs.SessionEnd = &endedAt
	cs.Status = models.SessionCompleted
	if transcript != nil {
		cs.Transcript = transcript
	}
	cp := *cs
	return &cp, nil
}

func (m *mockStore) UpdateTranscript(_ context.Context, id string, transcript string) (*models.CallSession, error) {
	cs, ok := m.sessions[id]
	if !ok {
		return nil, nil
	}
	cs.Transcript = &transcript
	cp := *cs
	return &cp, nil
}

func (m *mockStore) ListActiveSessions(_ context.Context) ([]models.CallSession, error) {
	var out []models.CallSession
	for _, cs := range m.sessions {
		if cs.Status == models.SessionActive {
			out = append(out, *cs)
		}
	}
	return out, nil
}

// mockNotifier records deliveries and can be told to fail.
type mockNotifier struct {
	fail        bool
	escalations []notify.Escalation
	followUps   []notify.FollowUp
}

func (m *mockNotifier) NotifyEscalation(_ context.Context, e notify.Escalation) error {
	if m.fail {
		return errors.New("notify down")
	}
	m.escalations = append(m.escalations, e)
	return nil
}

func (m *mockNotifier) NotifyFollowUp(_ context.Context, f notify.FollowUp) error {
	if m.fail {
		return errors.New("notify down")
	}
	m.followUps = append(m.followUps, f)
	return nil
}
