package service

import (
	"strings"

	"github.com/RishabhGithub7348/AI-Voice-Receptionist-System/internal/models"
)

// Classification rules are ordered tables scanned top to bottom, first match
// wins. Precedence lives in the data, not in branching: urgent keywords beat
// high keywords, and the services bucket is checked before appointments
// because "available" and "do you" appear in both.

type priorityRule struct {
	keywords []string
	priority string
}

var priorityRules = []priorityRule{
	{[]string{"emergency", "urgent", "complaint", "angry", "cancel all", "refund"}, models.PriorityUrgent},
	{[]string{"manager", "supervisor", "problem", "issue", "wrong", "mistake"}, models.PriorityHigh},
}

type categoryRule struct {
	keywords []string
	category string
}

var categoryRules = []categoryRule{
	{[]string{"hour", "time", "open", "close"}, "hours"},
	{[]string{"price", "cost", "how much", "fee"}, "pricing"},
	{[]string{"service", "offer", "do you", "available"}, "services"},
	{[]string{"appointment", "book", "schedule", "available"}, "appointments"},
	{[]string{"cancel", "policy", "refund"}, "policies"},
	{[]string{"location", "address", "where", "parking"}, "location"},
}

// ClassifyPriority maps a question plus optional context to a priority tier.
// low is only reachable by manual override, never by classification.
func ClassifyPriority(question, context string) string {
	combined := strings.ToLower(question) + " " + strings.ToLower(context)
	for _, rule := range priorityRules {
		for _, kw := range rule.keywords {
			if strings.Contains(combined, kw) {
				return rule.priority
			}
		}
	}
	return models.PriorityNormal
}

// ClassifyCategory maps a question to its knowledge-base category.
func ClassifyCategory(question string) string {
	q := strings.ToLower(question)
	for _, rule := range categoryRules {
		for _, kw := range rule.keywords {
			if strings.Contains(q, kw) {
				return rule.category
			}
		}
	}
	return "general"
}
