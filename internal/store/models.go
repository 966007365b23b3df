package store

import (
	"time"

	"github.com/google/uuid"
)

// User is a business account holder. Twilio credential fields are empty
// until the user connects their own messaging account.
type User struct {
	ID                uuid.UUID `json:"id"`
	Auth0ID           string    `json:"auth0Id"`
	Email             string    `json:"email"`
	Name              string    `json:"name"`
	Avatar            string    `json:"avatar,omitempty"`
	Plan              string    `json:"plan"`
	TwilioAccountSID  string    `json:"twilioAccountSid,omitempty"`
	TwilioAuthToken   string    `json:"-"`
	TwilioPhoneNumber string    `json:"twilioPhoneNumber,omitempty"`
	IsActive          bool      `json:"isActive"`
	TwilioVerified    bool      `json:"twilioVerified"`
	MessagesUsed      int       `json:"messagesUsed"`
	MessagesLimit     int       `json:"messagesLimit"`
	CreatedAt         time.Time `json:"createdAt"`
	UpdatedAt         time.Time `json:"updatedAt"`
}

// NewUser carries the caller-supplied fields for user creation.
type NewUser struct {
	Auth0ID string `json:"auth0Id"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	Avatar  string `json:"avatar"`
	Plan    string `json:"plan"`
}

// UserUpdate carries optional profile changes; empty fields are left as-is.
type UserUpdate struct {
	Email  string `json:"email"`
	Name   string `json:"name"`
	Avatar string `json:"avatar"`
	Plan   string `json:"plan"`
}

// TwilioCredentials is the per-user provider credential set.
type TwilioCredentials struct {
	AccountSID  string
	AuthToken   string
	PhoneNumber string
}

// Contact is an inbound lead captured from the marketing site.
type Contact struct {
	ID        uuid.UUID `json:"id"`
	UserID    string    `json:"userId"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"createdAt"`
}

// Campaign tracks one bulk-messaging campaign.
type Campaign struct {
	ID           uuid.UUID `json:"id"`
	UserID       string    `json:"userId"`
	Name         string    `json:"name"`
	Status       string    `json:"status"`
	MessagesSent int       `json:"messagesSent"`
	ResponseRate string    `json:"responseRate"`
	CreatedAt    time.Time `json:"createdAt"`
}

// TemplateRecord is a user-editable free-form template.
type TemplateRecord struct {
	ID        uuid.UUID `json:"id"`
	UserID    string    `json:"userId"`
	Name      string    `json:"name"`
	Content   string    `json:"content"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
}

// WhatsAppTemplate is a user-submitted template moving through the
// provider approval workflow.
type WhatsAppTemplate struct {
	ID              uuid.UUID  `json:"id"`
	UserID          string     `json:"userId"`
	Name            string     `json:"name"`
	Category        string     `json:"category"`
	Language        string     `json:"language"`
	Body            string     `json:"body"`
	Variables       []string   `json:"variables"`
	Status          string     `json:"status"`
	RejectionReason string     `json:"rejectionReason,omitempty"`
	MetaTemplateID  string     `json:"metaTemplateId,omitempty"`
	CreatedAt       time.Time  `json:"createdAt"`
	ApprovedAt      *time.Time `json:"approvedAt,omitempty"`
	LastStatusCheck *time.Time `json:"lastStatusCheck,omitempty"`
}

// DashboardStats summarizes account activity for the dashboard.
type DashboardStats struct {
	MessagesSent   int    `json:"messagesSent"`
	ResponseRate   string `json:"responseRate"`
	ActiveContacts int    `json:"activeContacts"`
	ConversionRate string `json:"conversionRate"`
}
