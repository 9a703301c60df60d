package db

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/RishabhGithub7348/AI-Voice-Receptionist-System/internal/models"
)

type Store struct {
	Pool *pgxpool.Pool
}

func New(ctx context.Context, databaseURL string) (*Store, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, err
	}
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return &Store{Pool: pool}, nil
}

func (s *Store) Close() {
	s.Pool.Close()
}

func (s *Store) Ping(ctx context.Context) error {
	return s.Pool.Ping(ctx)
}

func (s *Store) WithTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := s.Pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()
	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// ---- customers ----

func (s *Store) CreateCustomer(ctx context.Context, c models.Customer) error {
	_, err := s.Pool.Exec(ctx, `
		INSERT INTO customers (id, phone_number, name, email, notes, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
	`, c.ID, c.PhoneNumber, c.Name, c.Email, c.Notes, c.CreatedAt, c.UpdatedAt)
	return err
}

// GetCustomerByPhone returns nil without error when no customer exists for the phone.
func (s *Store) GetCustomerByPhone(ctx context.Context, phone string) (*models.Customer, error) {
	row := s.Pool.QueryRow(ctx, `
		SELECT id, phone_number, name, email, notes, created_at, updated_at
		FROM customers WHERE phone_number = $1
	`, phone)

	var c models.Customer
	if err := row.Scan(&c.ID, &c.PhoneNumber, &c.Name, &c.Email, &c.Notes, &c.CreatedAt, &c.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}

func (s *Store) UpdateCustomerInfo(ctx context.Context, id string, name, email, notes *string) (*models.Customer, error) {
	row := s.Pool.QueryRow(ctx, `
		UPDATE customers SET
			name = COALESCE($1, name),
			email = COALESCE($2, email),
			notes = COALESCE($3, notes),
			updated_at = NOW()
		WHERE id = $4
		RETURNING id, phone_number, name, email, notes, created_at, updated_at
	`, name, email, notes, id)

	var c models.Customer
	if err := row.Scan(&c.ID, &c.PhoneNumber, &c.Name, &c.Email, &c.Notes, &c.CreatedAt, &c.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}

// ---- call sessions ----

func (s *Store) CreateCallSession(ctx context.Context, cs models.CallSession) error {
	_, err := s.Pool.Exec(ctx, `
		INSERT INTO call_sessions (id, customer_id, phone_number, session_start, status, transcript)
		VALUES ($1,$2,$3,$4,$5,$6)
	`, cs.ID, cs.CustomerID, cs.PhoneNumber, cs.SessionStart, cs.Status, cs.Transcript)
	return err
}

func (s *Store) EndCallSession(ctx context.Context, id string, endedAt time.Time, transcript *string) (*models.CallSession, error) {
	row := s.Pool.QueryRow(ctx, `
		UPDATE call_sessions SET
			status = $1,
			session_end = $2,
			transcript = COALESCE($3, transcript)
		WHERE id = $4
		RETURNING id, customer_id, phone_number, session_start, session_end, status, transcript
	`, models.SessionCompleted, endedAt, transcript, id)
	return scanCallSession(row)
}

func (s *Store) UpdateTranscript(ctx context.Context, id string, transcript string) (*models.CallSession, error) {
	row := s.Pool.QueryRow(ctx, `
		UPDATE call_sessions SET transcript = $1
		WHERE id = $2
		RETURNING id, customer_id, phone_number, session_start, session_end, status, transcript
	`, transcript, id)
	return scanCallSession(row)
}

func (s *Store) ListActiveSessions(ctx context.Context) ([]models.CallSession, error) {
	rows, err := s.Pool.Query(ctx, `
		SELECT id, customer_id, phone_number, session_start, session_end, status, transcript
		FROM call_sessions WHERE status = $1 ORDER BY session_start DESC
	`, models.SessionActive)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.CallSession
	for rows.Next() {
		var cs models.CallSession
		if err := rows.Scan(&cs.ID, &cs.CustomerID, &cs.PhoneNumber, &cs.SessionStart, &cs.SessionEnd, &cs.Status, &cs.Transcript); err != nil {
			return nil, err
		}
		out = append(out, cs)
	}
	return out, rows.Err()
}

func scanCallSession(row pgx.Row) (*models.CallSession, error) {
	var cs models.CallSession
	if err := row.Scan(&cs.ID, &cs.CustomerID, &cs.PhoneNumber, &cs.SessionStart, &cs.SessionEnd, &cs.Status, &cs.Transcript); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &cs, nil
}

// ---- knowledge base ----

func (s *Store) CreateKnowledgeEntry(ctx context.Context, e models.KnowledgeEntry) error {
	_, err := s.Pool.Exec(ctx, `
		INSERT INTO knowledge_base (id, question, answer, category, source, confidence_score, usage_count, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
	`, e.ID, e.Question, e.Answer, e.Category, e.Source, e.ConfidenceScore, e.UsageCount, e.CreatedAt, e.UpdatedAt)
	return err
}

// SearchKnowledge returns candidate entries whose stored question contains any
// of the tokens (case-insensitive). This is only a coarse pre-filter; callers
// score the full question text themselves.
func (s *Store) SearchKnowledge(ctx context.Context, tokens []string, limit int) ([]models.KnowledgeEntry, error) {
	if limit <= 0 || limit > 50 {
		limit = 20
	}
	if len(tokens) == 0 {
		return nil, nil
	}

	var args []any
	var likes []string
	for _, tok := range tokens {
		args = append(args, "%"+tok+"%")
		likes = append(likes, fmt.Sprintf("question ILIKE $%d", len(args)))
	}
	args = append(args, limit)

	query := `
		SELECT id, question, answer, category, source, confidence_score, usage_count, created_at, updated_at
		FROM knowledge_base
		WHERE ` + strings.Join(likes, " OR ") + `
		ORDER BY usage_count DESC
		LIMIT $` + fmt.Sprint(len(args))

	rows, err := s.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanKnowledgeRows(rows)
}

// IncrementUsage bumps usage_count in a single statement so concurrent matches
// on the same entry never lose an increment.
func (s *Store) IncrementUsage(ctx context.Context, id string) error {
	_, err := s.Pool.Exec(ctx, `
		UPDATE knowledge_base SET usage_count = usage_count + 1, updated_at = NOW() WHERE id = $1
	`, id)
	return err
}

func (s *Store) ListKnowledge(ctx context.Context, category string, limit int) ([]models.KnowledgeEntry, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}

	query := `
		SELECT id, question, answer, category, source, confidence_score, usage_count, created_at, updated_at
		FROM knowledge_base`
	var args []any
	if category != "" {
		args = append(args, category)
		query += " WHERE category = $1"
	}
	args = append(args, limit)
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d", len(args))

	rows, err := s.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanKnowledgeRows(rows)
}

func (s *Store) MostUsedKnowledge(ctx context.Context, limit int) ([]models.KnowledgeEntry, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	rows, err := s.Pool.Query(ctx, `
		SELECT id, question, answer, category, source, confidence_score, usage_count, created_at, updated_at
		FROM knowledge_base ORDER BY usage_count DESC LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanKnowledgeRows(rows)
}

func (s *Store) CountKnowledge(ctx context.Context) (int, error) {
	var count int
	err := s.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM knowledge_base`).Scan(&count)
	return count, err
}

func (s *Store) CategoryStats(ctx context.Context) ([]models.CategoryStat, error) {
	rows, err := s.Pool.Query(ctx, `
		SELECT category, COUNT(*), COALESCE(SUM(usage_count), 0)
		FROM knowledge_base
		GROUP BY category
		ORDER BY COUNT(*) DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.CategoryStat
	for rows.Next() {
		var cs models.CategoryStat
		if err := rows.Scan(&cs.Category, &cs.Count, &cs.TotalUsage); err != nil {
			return nil, err
		}
		out = append(out, cs)
	}
	return out, rows.Err()
}

func scanKnowledgeRows(rows pgx.Rows) ([]models.KnowledgeEntry, error) {
	var out []models.KnowledgeEntry
	for rows.Next() {
		var e models.KnowledgeEntry
		if err := rows.Scan(&e.ID, &e.Question, &e.Answer, &e.Category, &e.Source, &e.ConfidenceScore, &e.UsageCount, &e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// ---- help requests ----

func (s *Store) CreateHelpRequest(ctx context.Context, r models.HelpRequest) error {
	_, err := s.Pool.Exec(ctx, `
		INSERT INTO help_requests (id, call_session_id, customer_phone, question, context, status, priority, timeout_at, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
	`, r.ID, r.CallSessionID, r.CustomerPhone, r.Question, r.Context, r.Status, r.Priority, r.TimeoutAt, r.CreatedAt, r.UpdatedAt)
	return err
}

// GetHelpRequest returns nil without error when no request exists for the id.
func (s *Store) GetHelpRequest(ctx context.Context, id string) (*models.HelpRequest, error) {
	row := s.Pool.QueryRow(ctx, `
		SELECT id, call_session_id, customer_phone, question, context, status, priority,
			supervisor_response, supervisor_id, resolved_at, timeout_at, created_at, updated_at
		FROM help_requests WHERE id = $1
	`, id)

	var r models.HelpRequest
	err := row.Scan(&r.ID, &r.CallSessionID, &r.CustomerPhone, &r.Question, &r.Context, &r.Status, &r.Priority,
		&r.SupervisorResponse, &r.SupervisorID, &r.ResolvedAt, &r.TimeoutAt, &r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &r, nil
}

// ResolveHelpRequest transitions pending -> resolved, conditional on the
// current status still being pending. Returns false when the row exists but
// lost the race (or was already terminal); the write never tears.
func (s *Store) ResolveHelpRequest(ctx context.Context, id, response, supervisorID string, resolvedAt time.Time) (bool, error) {
	tag, err := s.Pool.Exec(ctx, `
		UPDATE help_requests SET
			status = $1,
			supervisor_response = $2,
			supervisor_id = $3,
			resolved_at = $4,
			updated_at = NOW()
		WHERE id = $5 AND status = $6
	`, models.StatusResolved, response, supervisorID, resolvedAt, id, models.StatusPending)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// SweepTimeouts expires every pending request whose deadline has passed.
// The status guard makes the sweep idempotent and keeps it off terminal rows.
func (s *Store) SweepTimeouts(ctx context.Context, now time.Time) (int, error) {
	tag, err := s.Pool.Exec(ctx, `
		UPDATE help_requests SET status = $1, updated_at = NOW()
		WHERE status = $2 AND timeout_at < $3
	`, models.StatusTimeout, models.StatusPending, now)
	if err != nil {
		return 0, err
	}
	return int(tag.RowsAffected()), nil
}

// ListPendingRequests is the supervisor dashboard query: pending requests
// joined with the customer name, oldest first, with computed hours waiting.
func (s *Store) ListPendingRequests(ctx context.Context) ([]models.PendingRequest, error) {
	rows, err := s.Pool.Query(ctx, `
		SELECT r.id, r.question, r.context, r.status, r.priority, r.customer_phone, c.name,
			r.created_at, r.timeout_at,
			EXTRACT(EPOCH FROM (NOW() - r.created_at)) / 3600 AS hours_waiting
		FROM help_requests r
		LEFT JOIN customers c ON c.phone_number = r.customer_phone
		WHERE r.status = $1
		ORDER BY r.created_at ASC
	`, models.StatusPending)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.PendingRequest
	for rows.Next() {
		var p models.PendingRequest
		if err := rows.Scan(&p.ID, &p.Question, &p.Context, &p.Status, &p.Priority, &p.CustomerPhone, &p.CustomerName,
			&p.CreatedAt, &p.TimeoutAt, &p.HoursWaiting); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (s *Store) ListRequestsByPhone(ctx context.Context, phone string, limit int) ([]models.HelpRequest, error) {
	if limit <= 0 || limit > 100 {
		limit = 10
	}
	rows, err := s.Pool.Query(ctx, `
		SELECT id, call_session_id, customer_phone, question, context, status, priority,
			supervisor_response, supervisor_id, resolved_at, timeout_at, created_at, updated_at
		FROM help_requests WHERE customer_phone = $1
		ORDER BY created_at DESC LIMIT $2
	`, phone, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.HelpRequest
	for rows.Next() {
		var r models.HelpRequest
		if err := rows.Scan(&r.ID, &r.CallSessionID, &r.CustomerPhone, &r.Question, &r.Context, &r.Status, &r.Priority,
			&r.SupervisorResponse, &r.SupervisorID, &r.ResolvedAt, &r.TimeoutAt, &r.CreatedAt, &r.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// CountRequests counts help requests, all of them when status is empty.
func (s *Store) CountRequests(ctx context.Context, status string) (int, error) {
	query := `SELECT COUNT(*) FROM help_requests`
	var args []any
	if status != "" {
		query += ` WHERE status = $1`
		args = append(args, status)
	}
	var count int
	err := s.Pool.QueryRow(ctx, query, args...).Scan(&count)
	return count, err
}

// ResolutionDurations returns created-to-resolved spans for resolved requests.
func (s *Store) ResolutionDurations(ctx context.Context) ([]time.Duration, error) {
	rows, err := s.Pool.Query(ctx, `
		SELECT created_at, resolved_at FROM help_requests
		WHERE status = $1 AND resolved_at IS NOT NULL
	`, models.StatusResolved)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []time.Duration
	for rows.Next() {
		var created, resolved time.Time
		if err := rows.Scan(&created, &resolved); err != nil {
			return nil, err
		}
		out = append(out, resolved.Sub(created))
	}
	return out, rows.Err()
}
