// Package provider implements the REST client for the remote
// professional-network messaging API. Every list endpoint is paginated with
// a {items, cursor} envelope; responses that do not match the expected
// schema are rejected instead of guessed at.
package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/time/rate"
)

// TokenUpdateFunc is invoked when the per-account OAuth token is refreshed
// so the caller can persist the new token.
type TokenUpdateFunc func(token *oauth2.Token) error

// Auth carries the per-account credentials for one request
type Auth struct {
	AccessToken    string
	RefreshToken   string
	OnTokenRefresh TokenUpdateFunc
}

type Client struct {
	baseURL      string
	apiKey       string
	clientID     string
	clientSecret string
	limiter      *rate.Limiter
	httpClient   *http.Client
}

func NewClient(baseURL, apiKey, clientID, clientSecret string) *Client {
	return &Client{
		baseURL:      baseURL,
		apiKey:       apiKey,
		clientID:     clientID,
		clientSecret: clientSecret,
		// Provider tolerates ~5 req/s per application key
		limiter:    rate.NewLimiter(rate.Limit(5), 5),
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

type notifyTokenSource struct {
	src      oauth2.TokenSource
	current  *oauth2.Token
	callback TokenUpdateFunc
}

func (s *notifyTokenSource) Token() (*oauth2.Token, error) {
	t, err := s.src.Token()
	if err != nil {
		return nil, err
	}
	if s.callback != nil && s.current.AccessToken != t.AccessToken {
		s.current = t
		if err := s.callback(t); err != nil {
			log.Printf("[Provider] Failed to persist refreshed token: %v", err)
		}
	}
	return t, nil
}

// clientFor builds an HTTP client that refreshes the account token as needed
func (c *Client) clientFor(ctx context.Context, auth Auth) *http.Client {
	if auth.AccessToken == "" {
		return c.httpClient
	}

	token := &oauth2.Token{
		AccessToken:  auth.AccessToken,
		RefreshToken: auth.RefreshToken,
		TokenType:    "Bearer",
	}
	// Only force refresh if we have a refresh token
	if auth.RefreshToken != "" {
		token.Expiry = time.Now()
	}

	conf := &oauth2.Config{
		ClientID:     c.clientID,
		ClientSecret: c.clientSecret,
		Endpoint: oauth2.Endpoint{
			TokenURL: c.baseURL + "/oauth/v2/token",
		},
	}

	wrapped := &notifyTokenSource{
		src:      conf.TokenSource(ctx, token),
		current:  token,
		callback: auth.OnTokenRefresh,
	}

	ctx = context.WithValue(ctx, oauth2.HTTPClient, c.httpClient)
	return oauth2.NewClient(ctx, wrapped)
}

func (c *Client) do(ctx context.Context, auth Auth, method, path string, query url.Values, body interface{}) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reqBody)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.apiKey != "" {
		req.Header.Set("X-Api-Key", c.apiKey)
	}

	resp, err := c.clientFor(ctx, auth).Do(req)
	if err != nil {
		return nil, fmt.Errorf("provider request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read provider response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		if err := json.Unmarshal(data, apiErr); err != nil {
			apiErr.Message = string(data)
		}
		return nil, apiErr
	}

	return data, nil
}

// pageEnvelope rejects responses that do not carry an items array. The old
// scripts fell through data.items || data.connections || data.elements and
// silently produced empty pages on schema drift.
type pageEnvelope struct {
	Items  *[]json.RawMessage `json:"items"`
	Cursor string             `json:"cursor"`
}

func parsePage[T any](data []byte, validate func(*T) error) (*Page[T], error) {
	var env pageEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("unexpected response shape: %w", err)
	}
	if env.Items == nil {
		return nil, fmt.Errorf("unexpected response shape: missing items array")
	}

	page := &Page[T]{Cursor: env.Cursor}
	for _, raw := range *env.Items {
		var item T
		if err := json.Unmarshal(raw, &item); err != nil {
			page.Skipped++
			continue
		}
		if err := validate(&item); err != nil {
			page.Skipped++
			continue
		}
		page.Items = append(page.Items, item)
	}
	return page, nil
}

// ListConversations retrieves one page of an account's conversations
func (c *Client) ListConversations(ctx context.Context, auth Auth, accountID string, limit int, cursor string) (*Page[Conversation], error) {
	query := url.Values{}
	query.Set("account_id", accountID)
	query.Set("limit", strconv.Itoa(limit))
	if cursor != "" {
		query.Set("cursor", cursor)
	}

	data, err := c.do(ctx, auth, http.MethodGet, "/api/v1/chats", query, nil)
	if err != nil {
		return nil, err
	}

	return parsePage(data, func(conv *Conversation) error {
		if conv.ID == "" {
			return fmt.Errorf("conversation missing id")
		}
		return nil
	})
}

// ListMessages retrieves one page of a conversation's messages, newest first
func (c *Client) ListMessages(ctx context.Context, auth Auth, chatID string, limit int, cursor string) (*Page[Message], error) {
	query := url.Values{}
	query.Set("limit", strconv.Itoa(limit))
	if cursor != "" {
		query.Set("cursor", cursor)
	}

	data, err := c.do(ctx, auth, http.MethodGet, "/api/v1/chats/"+url.PathEscape(chatID)+"/messages", query, nil)
	if err != nil {
		return nil, err
	}

	return parsePage(data, func(msg *Message) error {
		if msg.ID == "" {
			return fmt.Errorf("message missing id")
		}
		if msg.ConversationID == "" {
			msg.ConversationID = chatID
		}
		return nil
	})
}

// ListAttendees retrieves one page of a conversation's participants
func (c *Client) ListAttendees(ctx context.Context, auth Auth, chatID string, limit int, cursor string) (*Page[Attendee], error) {
	query := url.Values{}
	query.Set("limit", strconv.Itoa(limit))
	if cursor != "" {
		query.Set("cursor", cursor)
	}

	data, err := c.do(ctx, auth, http.MethodGet, "/api/v1/chats/"+url.PathEscape(chatID)+"/attendees", query, nil)
	if err != nil {
		return nil, err
	}

	return parsePage(data, func(att *Attendee) error {
		if att.ID == "" && att.Name == "" {
			return fmt.Errorf("attendee missing identity")
		}
		return nil
	})
}

// SendMessage posts an outbound message into a conversation
func (c *Client) SendMessage(ctx context.Context, auth Auth, chatID, text string) (*Message, error) {
	payload := map[string]string{"text": text}

	data, err := c.do(ctx, auth, http.MethodPost, "/api/v1/chats/"+url.PathEscape(chatID)+"/messages", nil, payload)
	if err != nil {
		return nil, err
	}

	var msg Message
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, fmt.Errorf("unexpected send response shape: %w", err)
	}
	if msg.ID == "" {
		return nil, fmt.Errorf("unexpected send response shape: missing message id")
	}
	if msg.ConversationID == "" {
		msg.ConversationID = chatID
	}
	return &msg, nil
}
