// Package store persists users, contacts, campaigns and templates in
// Postgres. The dispatch engine itself never touches the database; it only
// receives the credential fields handlers read from here.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// PgxPool is the pool surface the store needs; pgxmock satisfies it too.
type PgxPool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Store wraps all relational persistence.
type Store struct {
	pool PgxPool
}

func NewStore(pool PgxPool) *Store {
	if pool == nil {
		panic("store: pgx pool required")
	}
	return &Store{pool: pool}
}

const userColumns = `id, auth0_id, email, name, COALESCE(avatar, ''), plan,
	COALESCE(twilio_account_sid, ''), COALESCE(twilio_auth_token, ''), COALESCE(twilio_phone_number, ''),
	is_active, twilio_verified, messages_used, messages_limit, created_at, updated_at`

func scanUser(row pgx.Row) (*User, error) {
	var u User
	err := row.Scan(&u.ID, &u.Auth0ID, &u.Email, &u.Name, &u.Avatar, &u.Plan,
		&u.TwilioAccountSID, &u.TwilioAuthToken, &u.TwilioPhoneNumber,
		&u.IsActive, &u.TwilioVerified, &u.MessagesUsed, &u.MessagesLimit,
		&u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("store: scan user: %w", err)
	}
	return &u, nil
}

// GetUser returns a user by id, or nil when absent.
func (s *Store) GetUser(ctx context.Context, id string) (*User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return scanUser(s.pool.QueryRow(ctx, query, id))
}

// GetUserByAuth0ID returns a user by their identity-provider id.
func (s *Store) GetUserByAuth0ID(ctx context.Context, auth0ID string) (*User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE auth0_id = $1`
	return scanUser(s.pool.QueryRow(ctx, query, auth0ID))
}

// CreateUser inserts a user and returns the stored record.
func (s *Store) CreateUser(ctx context.Context, nu NewUser) (*User, error) {
	plan := nu.Plan
	if plan == "" {
		plan = "starter"
	}
	query := `
		INSERT INTO users (auth0_id, email, name, avatar, plan)
		VALUES ($1, $2, $3, NULLIF($4, ''), $5)
		RETURNING ` + userColumns
	return scanUser(s.pool.QueryRow(ctx, query, nu.Auth0ID, nu.Email, nu.Name, nu.Avatar, plan))
}

// UpdateUser applies the non-empty profile fields and returns the stored
// record, or nil when the user is absent.
func (s *Store) UpdateUser(ctx context.Context, id string, upd UserUpdate) (*User, error) {
	query := `
		UPDATE users
		SET email = COALESCE(NULLIF($2, ''), email),
		    name = COALESCE(NULLIF($3, ''), name),
		    avatar = COALESCE(NULLIF($4, ''), avatar),
		    plan = COALESCE(NULLIF($5, ''), plan),
		    updated_at = NOW()
		WHERE id = $1
		RETURNING ` + userColumns
	return scanUser(s.pool.QueryRow(ctx, query, id, upd.Email, upd.Name, upd.Avatar, upd.Plan))
}

// SaveTwilioCredentials stores a verified credential set on the user.
func (s *Store) SaveTwilioCredentials(ctx context.Context, id string, creds TwilioCredentials) (*User, error) {
	query := `
		UPDATE users
		SET twilio_account_sid = $2, twilio_auth_token = $3, twilio_phone_number = $4,
		    twilio_verified = TRUE, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + userColumns
	return scanUser(s.pool.QueryRow(ctx, query, id, creds.AccountSID, creds.AuthToken, creds.PhoneNumber))
}

// IncrementMessagesUsed bumps the usage counter after completed sends.
func (s *Store) IncrementMessagesUsed(ctx context.Context, id string, count int) error {
	query := `UPDATE users SET messages_used = messages_used + $2, updated_at = NOW() WHERE id = $1`
	if _, err := s.pool.Exec(ctx, query, id, count); err != nil {
		return fmt.Errorf("store: increment messages used: %w", err)
	}
	return nil
}

// CreateContact inserts a contact-form submission.
func (s *Store) CreateContact(ctx context.Context, c Contact) (*Contact, error) {
	query := `
		INSERT INTO contacts (user_id, name, email, message)
		VALUES ($1, $2, $3, $4)
		RETURNING id, user_id, name, email, message, created_at`
	var out Contact
	err := s.pool.QueryRow(ctx, query, c.UserID, c.Name, c.Email, c.Message).
		Scan(&out.ID, &out.UserID, &out.Name, &out.Email, &out.Message, &out.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("store: create contact: %w", err)
	}
	return &out, nil
}

// ListContacts returns all contacts, newest first.
func (s *Store) ListContacts(ctx context.Context) ([]Contact, error) {
	query := `SELECT id, user_id, name, email, message, created_at FROM contacts ORDER BY created_at DESC`
	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("store: list contacts: %w", err)
	}
	defer rows.Close()
	var contacts []Contact
	for rows.Next() {
		var c Contact
		if err := rows.Scan(&c.ID, &c.UserID, &c.Name, &c.Email, &c.Message, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("store: scan contact: %w", err)
		}
		contacts = append(contacts, c)
	}
	return contacts, rows.Err()
}

// CampaignsByUser lists a user's campaigns.
func (s *Store) CampaignsByUser(ctx context.Context, userID string) ([]Campaign, error) {
	query := `
		SELECT id, user_id, name, status, messages_sent, response_rate, created_at
		FROM campaigns WHERE user_id = $1 ORDER BY created_at DESC`
	rows, err := s.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("store: list campaigns: %w", err)
	}
	defer rows.Close()
	var campaigns []Campaign
	for rows.Next() {
		var c Campaign
		if err := rows.Scan(&c.ID, &c.UserID, &c.Name, &c.Status, &c.MessagesSent, &c.ResponseRate, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("store: scan campaign: %w", err)
		}
		campaigns = append(campaigns, c)
	}
	return campaigns, rows.Err()
}

// CreateCampaign inserts a campaign in draft status.
func (s *Store) CreateCampaign(ctx context.Context, c Campaign) (*Campaign, error) {
	status := c.Status
	if status == "" {
		status = "draft"
	}
	query := `
		INSERT INTO campaigns (user_id, name, status)
		VALUES ($1, $2, $3)
		RETURNING id, user_id, name, status, messages_sent, response_rate, created_at`
	var out Campaign
	err := s.pool.QueryRow(ctx, query, c.UserID, c.Name, status).
		Scan(&out.ID, &out.UserID, &out.Name, &out.Status, &out.MessagesSent, &out.ResponseRate, &out.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("store: create campaign: %w", err)
	}
	return &out, nil
}

// TemplatesByUser lists a user's free-form templates.
func (s *Store) TemplatesByUser(ctx context.Context, userID string) ([]TemplateRecord, error) {
	query := `SELECT id, user_id, name, content, status, created_at FROM templates WHERE user_id = $1 ORDER BY created_at DESC`
	rows, err := s.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("store: list templates: %w", err)
	}
	defer rows.Close()
	var templates []TemplateRecord
	for rows.Next() {
		var t TemplateRecord
		if err := rows.Scan(&t.ID, &t.UserID, &t.Name, &t.Content, &t.Status, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("store: scan template: %w", err)
		}
		templates = append(templates, t)
	}
	return templates, rows.Err()
}

// CreateTemplate inserts a free-form template.
func (s *Store) CreateTemplate(ctx context.Context, t TemplateRecord) (*TemplateRecord, error) {
	status := t.Status
	if status == "" {
		status = "pending"
	}
	query := `
		INSERT INTO templates (user_id, name, content, status)
		VALUES ($1, $2, $3, $4)
		RETURNING id, user_id, name, content, status, created_at`
	var out TemplateRecord
	err := s.pool.QueryRow(ctx, query, t.UserID, t.Name, t.Content, status).
		Scan(&out.ID, &out.UserID, &out.Name, &out.Content, &out.Status, &out.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("store: create template: %w", err)
	}
	return &out, nil
}

const whatsappTemplateColumns = `id, user_id, name, category, language, body,
	COALESCE(variables, '[]'), status, COALESCE(rejection_reason, ''), COALESCE(meta_template_id, ''),
	created_at, approved_at, last_status_check`

func scanWhatsAppTemplate(row pgx.Row) (*WhatsAppTemplate, error) {
	var t WhatsAppTemplate
	var variablesJSON string
	err := row.Scan(&t.ID, &t.UserID, &t.Name, &t.Category, &t.Language, &t.Body,
		&variablesJSON, &t.Status, &t.RejectionReason, &t.MetaTemplateID,
		&t.CreatedAt, &t.ApprovedAt, &t.LastStatusCheck)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("store: scan whatsapp template: %w", err)
	}
	if err := json.Unmarshal([]byte(variablesJSON), &t.Variables); err != nil {
		return nil, fmt.Errorf("store: decode template variables: %w", err)
	}
	return &t, nil
}

// WhatsAppTemplatesByUser lists a user's submitted templates.
func (s *Store) WhatsAppTemplatesByUser(ctx context.Context, userID string) ([]WhatsAppTemplate, error) {
	query := `SELECT ` + whatsappTemplateColumns + ` FROM whatsapp_templates WHERE user_id = $1 ORDER BY created_at DESC`
	rows, err := s.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("store: list whatsapp templates: %w", err)
	}
	defer rows.Close()
	var templates []WhatsAppTemplate
	for rows.Next() {
		t, err := scanWhatsAppTemplate(rows)
		if err != nil {
			return nil, err
		}
		templates = append(templates, *t)
	}
	return templates, rows.Err()
}

// GetWhatsAppTemplate returns one submitted template, or nil when absent.
func (s *Store) GetWhatsAppTemplate(ctx context.Context, id string) (*WhatsAppTemplate, error) {
	query := `SELECT ` + whatsappTemplateColumns + ` FROM whatsapp_templates WHERE id = $1`
	return scanWhatsAppTemplate(s.pool.QueryRow(ctx, query, id))
}

// CreateWhatsAppTemplate inserts a submitted template in PENDING status.
func (s *Store) CreateWhatsAppTemplate(ctx context.Context, t WhatsAppTemplate) (*WhatsAppTemplate, error) {
	variables, err := json.Marshal(t.Variables)
	if err != nil {
		return nil, fmt.Errorf("store: encode template variables: %w", err)
	}
	category := t.Category
	if category == "" {
		category = "MARKETING"
	}
	language := t.Language
	if language == "" {
		language = "en"
	}
	status := t.Status
	if status == "" {
		status = "PENDING"
	}
	query := `
		INSERT INTO whatsapp_templates (user_id, name, category, language, body, variables, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + whatsappTemplateColumns
	return scanWhatsAppTemplate(s.pool.QueryRow(ctx, query, t.UserID, t.Name, category, language, t.Body, string(variables), status))
}

// UpdateWhatsAppTemplateStatus moves a template through the approval
// lifecycle and stamps the status check time.
func (s *Store) UpdateWhatsAppTemplateStatus(ctx context.Context, id, status, rejectionReason, metaTemplateID string) (*WhatsAppTemplate, error) {
	query := `
		UPDATE whatsapp_templates
		SET status = $2,
		    rejection_reason = NULLIF($3, ''),
		    meta_template_id = COALESCE(NULLIF($4, ''), meta_template_id),
		    approved_at = CASE WHEN $2 = 'APPROVED' THEN NOW() ELSE approved_at END,
		    last_status_check = NOW()
		WHERE id = $1
		RETURNING ` + whatsappTemplateColumns
	return scanWhatsAppTemplate(s.pool.QueryRow(ctx, query, id, status, rejectionReason, metaTemplateID))
}

// GetDashboardStats aggregates account activity.
func (s *Store) GetDashboardStats(ctx context.Context, userID string) (*DashboardStats, error) {
	query := `
		SELECT
			COALESCE((SELECT messages_used FROM users WHERE id = $1), 0),
			(SELECT COUNT(*) FROM contacts)`
	var stats DashboardStats
	if err := s.pool.QueryRow(ctx, query, userID).Scan(&stats.MessagesSent, &stats.ActiveContacts); err != nil {
		return nil, fmt.Errorf("store: dashboard stats: %w", err)
	}
	// Response/conversion tracking needs inbound attribution that is not
	// persisted yet; report zero rather than invent numbers.
	stats.ResponseRate = "0%"
	stats.ConversionRate = "0%"
	return &stats, nil
}
