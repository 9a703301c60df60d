package service

import (
	"context"
	"math"

	"github.com/RishabhGithub7348/AI-Voice-Receptionist-System/internal/models"
)

// AnalyticsService derives dashboard summary statistics. Read-only.
type AnalyticsService struct {
	Tickets   TicketStore
	Knowledge KnowledgeStore
}

type AnalyticsSummary struct {
	TotalRequests          int                   `json:"total_requests"`
	PendingRequests        int                   `json:"pending_requests"`
	ResolvedRequests       int                   `json:"resolved_requests"`
	TimeoutRequests        int                   `json:"timeout_requests"`
	AvgResolutionTimeHours float64               `json:"avg_resolution_time_hours"`
	KnowledgeBaseEntries   int                   `json:"knowledge_base_entries"`
	TopCategories          []models.CategoryStat `json:"top_categories"`
}

func (s *AnalyticsService) Summary(ctx context.Context) (AnalyticsSummary, error) {
	total, err := s.Tickets.CountRequests(ctx, "")
	if err != nil {
		return AnalyticsSummary{}, storeErr(err)
	}
	pending, err := s.Tickets.CountRequests(ctx, models.StatusPending)
	if err != nil {
		return AnalyticsSummary{}, storeErr(err)
	}
	resolved, err := s.Tickets.CountRequests(ctx, models.StatusResolved)
	if err != nil {
		return AnalyticsSummary{}, storeErr(err)
	}
	timeout, err := s.Tickets.CountRequests(ctx, models.StatusTimeout)
	if err != nil {
		return AnalyticsSummary{}, storeErr(err)
	}

	durations, err := s.Tickets.ResolutionDurations(ctx)
	if err != nil {
		return AnalyticsSummary{}, storeErr(err)
	}
	avgHours := 0.0
	if len(durations) > 0 {
		totalHours := 0.0
		for _, d := range durations {
			totalHours += d.Hours()
		}
		avgHours = math.Round(totalHours/float64(len(durations))*100) / 100
	}

	kbCount, err := s.Knowledge.CountKnowledge(ctx)
	if err != nil {
		return AnalyticsSummary{}, storeErr(err)
	}
	stats, err := s.Knowledge.CategoryStats(ctx)
	if err != nil {
		return AnalyticsSummary{}, storeErr(err)
	}

	return AnalyticsSummary{
		TotalRequests:          total,
		PendingRequests:        pending,
		ResolvedRequests:       resolved,
		TimeoutRequests:        timeout,
		AvgResolutionTimeHours: avgHours,
		KnowledgeBaseEntries:   kbCount,
		TopCategories:          stats,
	}, nil
}
