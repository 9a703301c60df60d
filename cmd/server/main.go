package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/RishabhGithub7348/AI-Voice-Receptionist-System/internal/agent"
	"github.com/RishabhGithub7348/AI-Voice-Receptionist-System/internal/config"
	"github.com/RishabhGithub7348/AI-Voice-Receptionist-System/internal/db"
	httpapi "github.com/RishabhGithub7348/AI-Voice-Receptionist-System/internal/http"
	"github.com/RishabhGithub7348/AI-Voice-Receptionist-System/internal/notify"
	"github.com/RishabhGithub7348/AI-Voice-Receptionist-System/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	zerolog.TimeFieldFormat = time.RFC3339
	level, _ := zerolog.ParseLevel(cfg.LogLevel)
	logger := log.Level(level).With().Str("service", "receptionist-backend").Logger()

	ctx := context.Background()
	store, err := db.New(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect db")
	}
	defer store.Close()

	var notifier notify.Notifier
	if cfg.NotifyURL == "" {
		notifier = notify.LogNotifier{Logger: logger}
		logger.Info().Msg("using log notifier")
	} else {
		notifier = notify.WebhookNotifier{BaseURL: cfg.NotifyURL}
	}

	tickets := &service.TicketService{
		Tickets:        store,
		Knowledge:      store,
		Notifier:       notifier,
		Logger:         logger,
		UrgentTimeout:  cfg.UrgentTimeout,
		PendingTimeout: cfg.DefaultTimeout,
	}
	customers := &service.CustomerService{Store: store}
	svcs := httpapi.Services{
		Escalation: &service.EscalationService{
			Tickets:   tickets,
			Customers: customers,
			Notifier:  notifier,
			Logger:    logger,
		},
		Tickets:   tickets,
		Analytics: &service.AnalyticsService{Tickets: store, Knowledge: store},
		Customers: customers,
		Sessions:  &service.SessionService{Store: store, Customers: customers},
		Matcher:   service.NewMatcher(store, cfg.MatchThreshold),
		Agent: &agent.ContextBuilder{
			Knowledge: store,
			Threshold: cfg.MatchThreshold,
			Logger:    logger,
		},
	}

	router := httpapi.Router(cfg, store, svcs, logger)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	sweepCtx, stopSweep := context.WithCancel(ctx)
	defer stopSweep()
	go func() {
		ticker := time.NewTicker(cfg.SweepInterval)
		defer ticker.Stop()
		for {
			select {
			case <-sweepCtx.Done():
				return
			case <-ticker.C:
				count, err := tickets.SweepTimeouts(sweepCtx)
				if err != nil {
					logger.Error().Err(err).Msg("timeout sweep failed")
					continue
				}
				if count > 0 {
					logger.Info().Int("count", count).Msg("expired overdue requests")
				}
			}
		}
	}()

	go func() {
		logger.Info().Str("port", cfg.Port).Msg("server started")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	stopSweep()
	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(ctxShutdown)
	logger.Info().Msg("server stopped")
}
