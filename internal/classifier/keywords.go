package classifier

import "github.com/spec-kit/support-tickets/internal/domain"

type categoryKeywords struct {
	category domain.TicketCategory
	keywords []string
}

type priorityKeywords struct {
	priority domain.TicketPriority
	keywords []string
}

// Slice order is the tie-break order.
var categoryTable = []categoryKeywords{
	{domain.CategoryAccountAccess, []string{
		"login", "password", "2fa", "two factor", "sign in", "locked out",
		"authentication", "cant access", "can't access", "forgot password",
		"reset password", "account locked", "verify account",
	}},
	{domain.CategoryTechnicalIssue, []string{
		"error", "crash", "bug", "not working", "broken", "slow", "freeze",
		"loading", "timeout", "connection", "failed", "issue", "problem",
	}},
	{domain.CategoryBillingQuestion, []string{
		"payment", "invoice", "refund", "charge", "subscription", "billing",
		"credit card", "receipt", "transaction", "price", "cost", "fee",
	}},
	{domain.CategoryFeatureRequest, []string{
		"feature", "suggest", "enhance", "wish", "would be nice", "add support",
		"improvement", "request", "could you", "please add", "new feature",
	}},
	{domain.CategoryBugReport, []string{
		"reproduce", "steps to reproduce", "defect", "regression", "expected",
		"actual", "consistently", "always happens", "every time",
	}},
}

var priorityTable = []priorityKeywords{
	{domain.PriorityUrgent, []string{
		"can't access", "cant access", "cannot access", "critical", "production down", "security",
		"data loss", "outage", "emergency", "immediately", "urgent",
		"down", "not working at all", "completely broken",
	}},
	{domain.PriorityHigh, []string{
		"important", "blocking", "asap", "soon", "priority", "need help",
		"affecting multiple", "business critical",
	}},
	{domain.PriorityLow, []string{
		"minor", "cosmetic", "suggestion", "nice to have", "eventually",
		"when you can", "not urgent", "low priority",
	}},
}
