package domain

import (
	"bytes"
	"encoding/json"
	"time"
)

// TicketCategory enumerates the support areas a ticket can belong to.
type TicketCategory string

const (
	CategoryAccountAccess   TicketCategory = "account_access"
	CategoryTechnicalIssue  TicketCategory = "technical_issue"
	CategoryBillingQuestion TicketCategory = "billing_question"
	CategoryFeatureRequest  TicketCategory = "feature_request"
	CategoryBugReport       TicketCategory = "bug_report"
	CategoryOther           TicketCategory = "other"
)

// TicketPriority enumerates SLA urgency.
type TicketPriority string

const (
	PriorityUrgent TicketPriority = "urgent"
	PriorityHigh   TicketPriority = "high"
	PriorityMedium TicketPriority = "medium"
	PriorityLow    TicketPriority = "low"
)

// TicketStatus enumerates lifecycle states for tickets.
type TicketStatus string

const (
	StatusNew             TicketStatus = "new"
	StatusInProgress      TicketStatus = "in_progress"
	StatusWaitingCustomer TicketStatus = "waiting_customer"
	StatusResolved        TicketStatus = "resolved"
	StatusClosed          TicketStatus = "closed"
)

// IsTerminal reports whether the status counts as resolution.
func (s TicketStatus) IsTerminal() bool {
	return s == StatusResolved || s == StatusClosed
}

// TicketSource is the channel a ticket arrived through.
type TicketSource string

const (
	SourceWebForm TicketSource = "web_form"
	SourceEmail   TicketSource = "email"
	SourceAPI     TicketSource = "api"
	SourceChat    TicketSource = "chat"
	SourcePhone   TicketSource = "phone"
)

// DeviceType is the customer's device class.
type DeviceType string

const (
	DeviceDesktop DeviceType = "desktop"
	DeviceMobile  DeviceType = "mobile"
	DeviceTablet  DeviceType = "tablet"
)

// Enumerations in declaration order, shared by the validator and the classifier.
var (
	TicketCategories = []TicketCategory{CategoryAccountAccess, CategoryTechnicalIssue, CategoryBillingQuestion, CategoryFeatureRequest, CategoryBugReport, CategoryOther}
	TicketPriorities = []TicketPriority{PriorityUrgent, PriorityHigh, PriorityMedium, PriorityLow}
	TicketStatuses   = []TicketStatus{StatusNew, StatusInProgress, StatusWaitingCustomer, StatusResolved, StatusClosed}
	TicketSources    = []TicketSource{SourceWebForm, SourceEmail, SourceAPI, SourceChat, SourcePhone}
	DeviceTypes      = []DeviceType{DeviceDesktop, DeviceMobile, DeviceTablet}
)

// TicketMetadata describes where a ticket came from.
type TicketMetadata struct {
	Source     TicketSource `json:"source"`
	Browser    *string      `json:"browser,omitempty"`
	DeviceType *DeviceType  `json:"device_type,omitempty"`
}

// Ticket is the aggregate for support requests.
type Ticket struct {
	ID            string
	CustomerID    string
	CustomerEmail string
	CustomerName  string
	Subject       string
	Description   string
	Category      TicketCategory
	Priority      TicketPriority
	Status        TicketStatus
	AssignedTo    *string
	Tags          []string
	Metadata      TicketMetadata
	CreatedAt     time.Time
	UpdatedAt     time.Time
	ResolvedAt    *time.Time
}

// Clone returns a deep copy so callers never alias stored state.
func (t *Ticket) Clone() *Ticket {
	if t == nil {
		return nil
	}
	out := *t
	out.AssignedTo = cloneString(t.AssignedTo)
	out.Tags = append([]string{}, t.Tags...)
	out.Metadata = t.Metadata.clone()
	if t.ResolvedAt != nil {
		resolved := *t.ResolvedAt
		out.ResolvedAt = &resolved
	}
	return &out
}

func (m TicketMetadata) clone() TicketMetadata {
	out := m
	out.Browser = cloneString(m.Browser)
	if m.DeviceType != nil {
		device := *m.DeviceType
		out.DeviceType = &device
	}
	return out
}

// CreateTicketInput is a validated ticket payload before defaults are applied.
type CreateTicketInput struct {
	CustomerID    string          `json:"customer_id"`
	CustomerEmail string          `json:"customer_email"`
	CustomerName  string          `json:"customer_name"`
	Subject       string          `json:"subject"`
	Description   string          `json:"description"`
	Category      *TicketCategory `json:"category,omitempty"`
	Priority      *TicketPriority `json:"priority,omitempty"`
	Status        *TicketStatus   `json:"status,omitempty"`
	AssignedTo    *string         `json:"assigned_to,omitempty"`
	Tags          []string        `json:"tags,omitempty"`
	Metadata      TicketMetadata  `json:"metadata"`
	AutoClassify  *bool           `json:"auto_classify,omitempty"`
}

// NeedsClassification reports whether category or priority is still open.
func (in CreateTicketInput) NeedsClassification() bool {
	return in.Category == nil || in.Priority == nil
}

// MetadataUpdate is a partial metadata payload merged into stored metadata.
type MetadataUpdate struct {
	Source     *TicketSource `json:"source,omitempty"`
	Browser    *string       `json:"browser,omitempty"`
	DeviceType *DeviceType   `json:"device_type,omitempty"`
}

// TicketUpdate carries the fields a caller wants to change. Nil means untouched.
type TicketUpdate struct {
	CustomerID    *string         `json:"customer_id,omitempty"`
	CustomerEmail *string         `json:"customer_email,omitempty"`
	CustomerName  *string         `json:"customer_name,omitempty"`
	Subject       *string         `json:"subject,omitempty"`
	Description   *string         `json:"description,omitempty"`
	Category      *TicketCategory `json:"category,omitempty"`
	Priority      *TicketPriority `json:"priority,omitempty"`
	Status        *TicketStatus   `json:"status,omitempty"`
	AssignedTo    NullableString  `json:"assigned_to"`
	Tags          []string        `json:"tags,omitempty"`
	Metadata      *MetadataUpdate `json:"metadata,omitempty"`
}

// NullableString separates "absent" from an explicit JSON null.
type NullableString struct {
	Set   bool
	Value *string
}

// UnmarshalJSON marks the value as set, including for null.
func (n *NullableString) UnmarshalJSON(data []byte) error {
	n.Set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		n.Value = nil
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	n.Value = &s
	return nil
}

// MarshalJSON renders null when unset or cleared.
func (n NullableString) MarshalJSON() ([]byte, error) {
	if n.Value == nil {
		return []byte("null"), nil
	}
	return json.Marshal(*n.Value)
}

// TicketFilter narrows listings. Nil fields do not constrain.
type TicketFilter struct {
	Category   *TicketCategory
	Priority   *TicketPriority
	Status     *TicketStatus
	AssignedTo *string
	CustomerID *string
}

// Matches reports whether the ticket satisfies every set filter.
func (f TicketFilter) Matches(t *Ticket) bool {
	if f.Category != nil && t.Category != *f.Category {
		return false
	}
	if f.Priority != nil && t.Priority != *f.Priority {
		return false
	}
	if f.Status != nil && t.Status != *f.Status {
		return false
	}
	if f.AssignedTo != nil && (t.AssignedTo == nil || *t.AssignedTo != *f.AssignedTo) {
		return false
	}
	if f.CustomerID != nil && t.CustomerID != *f.CustomerID {
		return false
	}
	return true
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
