// Package agent builds the prompt context served to the voice receptionist.
package agent

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/RishabhGithub7348/AI-Voice-Receptionist-System/internal/service"
)

const baseContext = `You are an AI receptionist for Bella's Hair & Beauty Salon, a premium salon in downtown.

BUSINESS INFORMATION:
- Hours: Monday-Friday 9 AM to 7 PM, Saturday 9 AM to 5 PM, Closed Sundays
- Services: Haircuts, Hair Coloring, Highlights, Blowouts, Hair Styling, Manicures, Pedicures, Facials, Eyebrow Services
- Pricing: Basic haircuts start at $45, Cut and style packages start at $65
- Location: 123 Main Street, Downtown
- Phone: (555) 123-4567
- Appointments: Preferred but walk-ins accepted when possible
- Cancellation: 24-hour notice required, same-day cancellations may incur fees
- Gift Certificates: Available for any amount or specific services
- Parking: Street parking and paid lot behind building

IMPORTANT INSTRUCTIONS:
- Always be friendly, professional, and helpful
- Answer questions about our basic services, hours, location, and general pricing confidently
- For specific availability, detailed pricing, or special requests, offer to check or schedule an appointment
- ONLY escalate to supervisor for: complex complaints, special accommodations, pricing disputes, or truly unknown questions
- Never make up specific information you don't have
- Always offer to schedule appointments when appropriate`

const knowledgeLimit = 50

// ContextBuilder composes the agent system prompt from the static business
// context plus the most-used knowledge entries.
type ContextBuilder struct {
	Knowledge service.KnowledgeStore
	Threshold float64
	Logger    zerolog.Logger
}

// Build returns the prompt context. A store failure degrades to the base
// context rather than breaking the call flow.
func (b *ContextBuilder) Build(ctx context.Context) string {
	entries, err := b.Knowledge.MostUsedKnowledge(ctx, knowledgeLimit)
	if err != nil {
		b.Logger.Error().Err(err).Msg("failed to fetch knowledge base for agent context")
		return baseContext
	}
	if len(entries) == 0 {
		return baseContext
	}

	threshold := b.Threshold
	if threshold <= 0 {
		threshold = service.DefaultMatchThreshold
	}

	var sb strings.Builder
	sb.WriteString(baseContext)
	sb.WriteString("\n\nKNOWLEDGE BASE ANSWERS:\n")
	sb.WriteString("Use these pre-approved answers when customers ask related questions:\n\n")
	included := 0
	for _, e := range entries {
		if e.ConfidenceScore < threshold {
			continue
		}
		fmt.Fprintf(&sb, "Q: %s\nA: %s\nCategory: %s\n\n", e.Question, e.Answer, e.Category)
		included++
	}
	if included == 0 {
		return baseContext
	}
	return sb.String()
}
