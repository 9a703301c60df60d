package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/RishabhGithub7348/AI-Voice-Receptionist-System/internal/agent"
	"github.com/RishabhGithub7348/AI-Voice-Receptionist-System/internal/db"
	"github.com/RishabhGithub7348/AI-Voice-Receptionist-System/internal/models"
	"github.com/RishabhGithub7348/AI-Voice-Receptionist-System/internal/service"
)

type Handler struct {
	Store      *db.Store
	Knowledge  service.KnowledgeStore
	Escalation *service.EscalationService
	Tickets    *service.TicketService
	Analytics  *service.AnalyticsService
	Customers  *service.CustomerService
	Sessions   *service.SessionService
	Matcher    *service.Matcher
	Agent      *agent.ContextBuilder
	Validator  *validator.Validate
	Logger     zerolog.Logger
}

func (h *Handler) Healthz(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()
	if err := h.Store.Ping(ctx); err != nil {
		writeError(c, http.StatusServiceUnavailable, "DB_UNAVAILABLE", "Database unavailable", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

type QueryRequest struct {
	Question      string  `json:"question" validate:"required,min=1,max=1000"`
	CustomerPhone string  `json:"customer_phone" validate:"required,e164"`
	CustomerName  *string `json:"customer_name"`
	Context       *string `json:"context" validate:"omitempty,max=5000"`
	CallSessionID *string `json:"call_session_id" validate:"omitempty,uuid"`
}

// @Summary Process a customer question
// @Description Escalates an unanswered question to a supervisor help request
// @Tags ai
// @Accept json
// @Produce json
// @Success 200 {object} service.EscalationResult
// @Failure 400 {object} map[string]any
// @Router /api/ai/query [post]
func (h *Handler) AIQuery(c *gin.Context) {
	var req QueryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid payload", err.Error())
		return
	}
	if err := h.Validator.Struct(req); err != nil {
		writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Validation failed", err.Error())
		return
	}

	result, err := h.Escalation.HandleQuestion(c.Request.Context(), service.QuestionParams{
		Question:      req.Question,
		CustomerPhone: req.CustomerPhone,
		CustomerName:  req.CustomerName,
		Context:       req.Context,
		CallSessionID: req.CallSessionID,
	})
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// AIMatch scores a question against the knowledge base without escalating.
// A miss is a normal result, not an error.
func (h *Handler) AIMatch(c *gin.Context) {
	question := c.Query("question")
	if question == "" {
		writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", "question is required", nil)
		return
	}

	entry, confidence, err := h.Matcher.FindBestMatch(c.Request.Context(), question)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	if entry == nil {
		c.JSON(http.StatusOK, gin.H{"matched": false, "confidence": 0.0})
		return
	}
	c.JSON(http.StatusOK, gin.H{"matched": true, "entry": entry, "confidence": confidence})
}

func (h *Handler) AgentContext(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"context": h.Agent.Build(c.Request.Context())})
}

// @Summary Supervisor dashboard
// @Description Pending help requests joined with customer names, oldest first
// @Tags supervisor
// @Produce json
// @Success 200 {object} map[string]any
// @Router /api/supervisor/dashboard [get]
func (h *Handler) Dashboard(c *gin.Context) {
	items, err := h.Tickets.Dashboard(c.Request.Context())
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

type ResolveRequest struct {
	SupervisorResponse string `json:"supervisor_response" validate:"required,min=1,max=2000"`
}

// @Summary Resolve a help request
// @Tags supervisor
// @Accept json
// @Produce json
// @Param id path string true "Help request ID"
// @Param supervisor_id query string true "Resolving supervisor"
// @Param add_to_kb query bool false "Also add the Q&A to the knowledge base"
// @Success 200 {object} models.HelpRequest
// @Failure 404 {object} map[string]any
// @Failure 409 {object} map[string]any
// @Router /api/supervisor/requests/{id}/resolve [patch]
func (h *Handler) ResolveRequest(c *gin.Context) {
	id := c.Param("id")
	supervisorID := c.Query("supervisor_id")
	if supervisorID == "" {
		writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", "supervisor_id is required", nil)
		return
	}
	learn := true
	if raw := c.Query("add_to_kb"); raw != "" {
		learn, _ = strconv.ParseBool(raw)
	}

	var req ResolveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid payload", err.Error())
		return
	}
	if err := h.Validator.Struct(req); err != nil {
		writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Validation failed", err.Error())
		return
	}

	resolved, err := h.Tickets.Resolve(c.Request.Context(), id, req.SupervisorResponse, supervisorID, learn)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resolved)
}

func (h *Handler) RequestHistory(c *gin.Context) {
	phone := c.Query("phone")
	if phone == "" {
		writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", "phone is required", nil)
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	items, err := h.Tickets.History(c.Request.Context(), phone, limit)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

type KnowledgeCreateRequest struct {
	Question string  `json:"question" validate:"required,min=10,max=500"`
	Answer   string  `json:"answer" validate:"required,min=10,max=2000"`
	Category *string `json:"category" validate:"omitempty,max=50"`
}

func (h *Handler) KnowledgeList(c *gin.Context) {
	category := c.Query("category")
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))

	items, err := h.Knowledge.ListKnowledge(c.Request.Context(), category, limit)
	if err != nil {
		writeError(c, http.StatusServiceUnavailable, "STORE_UNAVAILABLE", "Failed to list knowledge base", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

// @Summary Add a knowledge base entry
// @Tags supervisor
// @Accept json
// @Produce json
// @Success 200 {object} models.KnowledgeEntry
// @Failure 400 {object} map[string]any
// @Router /api/supervisor/knowledge-base [post]
func (h *Handler) KnowledgeAdd(c *gin.Context) {
	var req KnowledgeCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid payload", err.Error())
		return
	}
	if err := h.Validator.Struct(req); err != nil {
		writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Validation failed", err.Error())
		return
	}

	category := service.ClassifyCategory(req.Question)
	if req.Category != nil && *req.Category != "" {
		category = *req.Category
	}

	now := time.Now().UTC()
	entry := models.KnowledgeEntry{
		ID:              uuid.NewString(),
		Question:        req.Question,
		Answer:          req.Answer,
		Category:        category,
		Source:          models.SourceManual,
		ConfidenceScore: 1.0,
		UsageCount:      0,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := h.Knowledge.CreateKnowledgeEntry(c.Request.Context(), entry); err != nil {
		writeError(c, http.StatusServiceUnavailable, "STORE_UNAVAILABLE", "Failed to create knowledge entry", err.Error())
		return
	}
	c.JSON(http.StatusOK, entry)
}

// @Summary Analytics summary
// @Tags supervisor
// @Produce json
// @Success 200 {object} service.AnalyticsSummary
// @Router /api/supervisor/analytics [get]
func (h *Handler) AnalyticsSummary(c *gin.Context) {
	summary, err := h.Analytics.Summary(c.Request.Context())
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

// @Summary Sweep timed-out requests
// @Tags supervisor
// @Produce json
// @Success 200 {object} map[string]any
// @Router /api/supervisor/cleanup-timeouts [post]
func (h *Handler) CleanupTimeouts(c *gin.Context) {
	count, err := h.Tickets.SweepTimeouts(c.Request.Context())
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"timeout_count": count})
}

type SessionStartRequest struct {
	CustomerPhone string  `json:"customer_phone" validate:"required,e164"`
	CustomerName  *string `json:"customer_name"`
}

func (h *Handler) SessionStart(c *gin.Context) {
	var req SessionStartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid payload", err.Error())
		return
	}
	if err := h.Validator.Struct(req); err != nil {
		writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Validation failed", err.Error())
		return
	}

	session, err := h.Sessions.Start(c.Request.Context(), req.CustomerPhone, req.CustomerName)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, session)
}

type SessionEndRequest struct {
	Transcript *string `json:"transcript"`
}

func (h *Handler) SessionEnd(c *gin.Context) {
	var req SessionEndRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid payload", err.Error())
		return
	}

	session, err := h.Sessions.End(c.Request.Context(), c.Param("id"), req.Transcript)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, session)
}

type TranscriptRequest struct {
	Transcript string `json:"transcript" validate:"required"`
}

func (h *Handler) SessionTranscript(c *gin.Context) {
	var req TranscriptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid payload", err.Error())
		return
	}
	if err := h.Validator.Struct(req); err != nil {
		writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Validation failed", err.Error())
		return
	}

	session, err := h.Sessions.UpdateTranscript(c.Request.Context(), c.Param("id"), req.Transcript)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, session)
}

func (h *Handler) SessionsActive(c *gin.Context) {
	sessions, err := h.Sessions.Active(c.Request.Context())
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": sessions})
}

func (h *Handler) CustomerGet(c *gin.Context) {
	phone := c.Query("phone")
	if phone == "" {
		writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", "phone is required", nil)
		return
	}

	customer, err := h.Customers.GetByPhone(c.Request.Context(), phone)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, customer)
}

type CustomerUpdateRequest struct {
	Name  *string `json:"name" validate:"omitempty,max=100"`
	Email *string `json:"email" validate:"omitempty,email"`
	Notes *string `json:"notes"`
}

func (h *Handler) CustomerUpdate(c *gin.Context) {
	var req CustomerUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid payload", err.Error())
		return
	}
	if err := h.Validator.Struct(req); err != nil {
		writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Validation failed", err.Error())
		return
	}

	customer, err := h.Customers.Update(c.Request.Context(), c.Param("id"), req.Name, req.Email, req.Notes)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, customer)
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		writeError(c, http.StatusNotFound, "NOT_FOUND", "Resource not found", nil)
	case errors.Is(err, service.ErrInvalidState):
		writeError(c, http.StatusConflict, "INVALID_STATE", "Request is not pending", nil)
	case errors.Is(err, service.ErrValidation):
		writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Validation failed", nil)
	case errors.Is(err, service.ErrStoreUnavailable):
		h.Logger.Error().Err(err).Msg("store unavailable")
		writeError(c, http.StatusServiceUnavailable, "STORE_UNAVAILABLE", "Backend store unavailable", nil)
	default:
		h.Logger.Error().Err(err).Msg("unhandled error")
		writeError(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal error", nil)
	}
}

func writeError(c *gin.Context, status int, code string, message string, details any) {
	c.JSON(status, gin.H{
		"error": gin.H{
			"code":    code,
			"message": message,
			"details": details,
		},
	})
}
