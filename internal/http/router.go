package httpapi

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/RishabhGithub7348/AI-Voice-Receptionist-System/internal/agent"
	"github.com/RishabhGithub7348/AI-Voice-Receptionist-System/internal/config"
	"github.com/RishabhGithub7348/AI-Voice-Receptionist-System/internal/db"
	"github.com/RishabhGithub7348/AI-Voice-Receptionist-System/internal/http/handlers"
	"github.com/RishabhGithub7348/AI-Voice-Receptionist-System/internal/http/middleware"
	"github.com/RishabhGithub7348/AI-Voice-Receptionist-System/internal/service"

	_ "github.com/RishabhGithub7348/AI-Voice-Receptionist-System/docs"
)

type Services struct {
	Escalation *service.EscalationService
	Tickets    *service.TicketService
	Analytics  *service.AnalyticsService
	Customers  *service.CustomerService
	Sessions   *service.SessionService
	Matcher    *service.Matcher
	Agent      *agent.ContextBuilder
}

func Router(cfg config.Config, store *db.Store, svcs Services, logger zerolog.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))

	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Admin-Key", "X-Request-Id"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if cfg.CORSAllowed == "*" {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = []string{cfg.CORSAllowed}
	}
	r.Use(cors.New(corsCfg))

	h := &handlers.Handler{
		Store:      store,
		Knowledge:  store,
		Escalation: svcs.Escalation,
		Tickets:    svcs.Tickets,
		Analytics:  svcs.Analytics,
		Customers:  svcs.Customers,
		Sessions:   svcs.Sessions,
		Matcher:    svcs.Matcher,
		Agent:      svcs.Agent,
		Validator:  validator.New(),
		Logger:     logger,
	}

	r.GET("/healthz", h.Healthz)

	api := r.Group("/api")
	{
		api.POST("/ai/query", h.AIQuery)
		api.GET("/ai/match", h.AIMatch)
		api.GET("/agent/context", h.AgentContext)
		api.GET("/requests", h.RequestHistory)
		api.POST("/sessions", h.SessionStart)
		api.PATCH("/sessions/:id/end", h.SessionEnd)
		api.PATCH("/sessions/:id/transcript", h.SessionTranscript)
		api.GET("/sessions/active", h.SessionsActive)
		api.GET("/customers", h.CustomerGet)
		api.PATCH("/customers/:id", h.CustomerUpdate)
	}

	supervisor := api.Group("/supervisor")
	supervisor.Use(middleware.AdminKey(cfg.AdminKey))
	{
		supervisor.GET("/dashboard", h.Dashboard)
		supervisor.PATCH("/requests/:id/resolve", h.ResolveRequest)
		supervisor.GET("/knowledge-base", h.KnowledgeList)
		supervisor.POST("/knowledge-base", h.KnowledgeAdd)
		supervisor.GET("/analytics", h.AnalyticsSummary)
		supervisor.POST("/cleanup-timeouts", h.CleanupTimeouts)
	}

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return r
}
