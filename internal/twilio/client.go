// Package twilio wraps the Twilio REST endpoints the platform needs:
// account lookup, incoming phone number listing and message creation.
package twilio

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	defaultBaseURL   = "https://api.twilio.com"
	apiVersion       = "2010-04-01"
	defaultUserAgent = "aaraconnect-whatsapp/0.1"
)

// Config controls how the client behaves.
type Config struct {
	AccountSID string
	AuthToken  string
	BaseURL    string
	Timeout    time.Duration
	HTTPClient *http.Client
	Logger     *slog.Logger
	UserAgent  string
}

// Client talks to the Twilio REST API for a single account.
type Client struct {
	accountSID string
	authToken  string
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
	userAgent  string
}

// New creates a configured Client with sane defaults.
func New(cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.AccountSID) == "" {
		return nil, errors.New("twilio: account SID is required")
	}
	if strings.TrimSpace(cfg.AuthToken) == "" {
		return nil, errors.New("twilio: auth token is required")
	}
	baseURL := strings.TrimSpace(cfg.BaseURL)
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	baseURL = strings.TrimRight(baseURL, "/")
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	userAgent := strings.TrimSpace(cfg.UserAgent)
	if userAgent == "" {
		userAgent = defaultUserAgent
	}
	return &Client{
		accountSID: cfg.AccountSID,
		authToken:  cfg.AuthToken,
		baseURL:    baseURL,
		httpClient: httpClient,
		logger:     logger,
		userAgent:  userAgent,
	}, nil
}

// FetchAccount retrieves metadata for the client's account.
func (c *Client) FetchAccount(ctx context.Context) (*Account, error) {
	endpoint := fmt.Sprintf("%s/%s/Accounts/%s.json", c.baseURL, apiVersion, c.accountSID)
	var payload accountPayload
	if err := c.getJSON(ctx, endpoint, &payload); err != nil {
		return nil, err
	}
	return &Account{
		SID:          payload.SID,
		FriendlyName: payload.FriendlyName,
		Status:       payload.Status,
		Type:         payload.Type,
	}, nil
}

// ListIncomingPhoneNumbers lists the account's numbers, optionally filtered
// by an exact phone number.
func (c *Client) ListIncomingPhoneNumbers(ctx context.Context, phoneNumber string) ([]IncomingPhoneNumber, error) {
	endpoint := fmt.Sprintf("%s/%s/Accounts/%s/IncomingPhoneNumbers.json", c.baseURL, apiVersion, c.accountSID)
	if phoneNumber != "" {
		endpoint += "?PhoneNumber=" + url.QueryEscape(phoneNumber)
	}
	var payload incomingPhoneNumbersPayload
	if err := c.getJSON(ctx, endpoint, &payload); err != nil {
		return nil, err
	}
	numbers := make([]IncomingPhoneNumber, 0, len(payload.IncomingPhoneNumbers))
	for _, n := range payload.IncomingPhoneNumbers {
		numbers = append(numbers, IncomingPhoneNumber{
			SID:          n.SID,
			PhoneNumber:  n.PhoneNumber,
			FriendlyName: n.FriendlyName,
		})
	}
	return numbers, nil
}

// SendMessage submits one outbound message and returns the created resource.
func (c *Client) SendMessage(ctx context.Context, req SendMessageRequest) (*Message, error) {
	if req.To == "" {
		return nil, errors.New("twilio: to is required")
	}
	if req.From == "" {
		return nil, errors.New("twilio: from is required")
	}

	form := url.Values{}
	form.Set("To", req.To)
	form.Set("From", req.From)
	form.Set("Body", req.Body)
	if req.MediaURL != "" {
		form.Set("MediaUrl", req.MediaURL)
	}

	endpoint := fmt.Sprintf("%s/%s/Accounts/%s/Messages.json", c.baseURL, apiVersion, c.accountSID)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("twilio: build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	c.prepare(httpReq)

	body, err := c.do(httpReq)
	if err != nil {
		return nil, err
	}
	var payload messagePayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("twilio: decode message response: %w", err)
	}
	c.logger.Debug("twilio message created", "sid", payload.SID, "status", payload.Status)
	return &Message{
		SID:    payload.SID,
		Status: payload.Status,
		From:   payload.From,
		To:     payload.To,
	}, nil
}

func (c *Client) getJSON(ctx context.Context, endpoint string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("twilio: build request: %w", err)
	}
	c.prepare(req)
	body, err := c.do(req)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("twilio: decode response: %w", err)
	}
	return nil
}

func (c *Client) prepare(req *http.Request) {
	req.SetBasicAuth(c.accountSID, c.authToken)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
}

func (c *Client) do(req *http.Request) ([]byte, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("twilio: %s %s: %w", req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, parseAPIError(resp.StatusCode, body)
	}
	return body, nil
}

// APIError is a structured Twilio error response.
type APIError struct {
	StatusCode int
	Code       int
	Message    string
	MoreInfo   string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("twilio: status %d", e.StatusCode)
	}
	if e.Code != 0 {
		return fmt.Sprintf("twilio: status %d code %d: %s", e.StatusCode, e.Code, e.Message)
	}
	return fmt.Sprintf("twilio: status %d: %s", e.StatusCode, e.Message)
}

func parseAPIError(status int, body []byte) error {
	apiErr := &APIError{StatusCode: status}
	var parsed struct {
		Code     int    `json:"code"`
		Message  string `json:"message"`
		MoreInfo string `json:"more_info"`
	}
	if err := json.Unmarshal(body, &parsed); err == nil && parsed.Message != "" {
		apiErr.Code = parsed.Code
		apiErr.Message = parsed.Message
		apiErr.MoreInfo = parsed.MoreInfo
		return apiErr
	}
	apiErr.Message = strings.TrimSpace(string(body))
	return apiErr
}
