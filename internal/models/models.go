package models

import "time"

const (
	StatusPending    = "pending"
	StatusResolved   = "resolved"
	StatusUnresolved = "unresolved"
	StatusTimeout    = "timeout"
)

const (
	PriorityLow    = "low"
	PriorityNormal = "normal"
	PriorityHigh   = "high"
	PriorityUrgent = "urgent"
)

const (
	SourceManual     = "manual"
	SourceSupervisor = "supervisor"
)

const (
	SessionActive    = "active"
	SessionCompleted = "completed"
)

type Customer struct {
	ID          string    `json:"id"`
	PhoneNumber string    `json:"phone_number"`
	Name        *string   `json:"name"`
	Email       *string   `json:"email"`
	Notes       *string   `json:"notes"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type CallSession struct {
	ID           string     `json:"id"`
	CustomerID   *string    `json:"customer_id"`
	PhoneNumber  string     `json:"phone_number"`
	SessionStart time.Time  `json:"session_start"`
	SessionEnd   *time.Time `json:"session_end"`
	Status       string     `json:"status"`
	Transcript   *string    `json:"transcript"`
}

type KnowledgeEntry struct {
	ID              string    `json:"id"`
	Question        string    `json:"question"`
	Answer          string    `json:"answer"`
	Category        string    `json:"category"`
	Source          string    `json:"source"`
	ConfidenceScore float64   `json:"confidence_score"`
	UsageCount      int       `json:"usage_count"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// HelpRequest is the escalation ticket tracking an unanswered question
// until a supervisor resolves it or the deadline sweep times it out.
// Status pending is the only non-terminal state.
type HelpRequest struct {
	ID                 string     `json:"id"`
	CallSessionID      *string    `json:"call_session_id"`
	CustomerPhone      string     `json:"customer_phone"`
	Question           string     `json:"question"`
	Context            *string    `json:"context"`
	Status             string     `json:"status"`
	Priority           string     `json:"priority"`
	SupervisorResponse *string    `json:"supervisor_response"`
	SupervisorID       *string    `json:"supervisor_id"`
	ResolvedAt         *time.Time `json:"resolved_at"`
	TimeoutAt          time.Time  `json:"timeout_at"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
}

// PendingRequest is a dashboard row: a pending help request joined with the
// customer name and how long it has been waiting, in hours.
type PendingRequest struct {
	ID            string    `json:"id"`
	Question      string    `json:"question"`
	Context       *string   `json:"context"`
	Status        string    `json:"status"`
	Priority      string    `json:"priority"`
	CustomerPhone string    `json:"customer_phone"`
	CustomerName  *string   `json:"customer_name"`
	CreatedAt     time.Time `json:"created_at"`
	TimeoutAt     time.Time `json:"timeout_at"`
	HoursWaiting  float64   `json:"hours_waiting"`
}

type CategoryStat struct {
	Category   string `json:"category"`
	Count      int    `json:"count"`
	TotalUsage int    `json:"total_usage"`
}
