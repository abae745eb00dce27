package slack

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"

	"github.com/nvoss/slack-archive-backend/internal/domain"
)

// DefaultBaseURL is the Slack Web API root.
const DefaultBaseURL = "https://slack.com/api"

// infoField maps single-object API methods to the envelope field holding
// their payload.
var infoField = map[string]string{
	"users.info":          "user",
	"conversations.info":  "channel",
	"users.lookupByEmail": "user",
}

// Client is a bearer-token GET client for the Slack Web API. All requests
// pass through a shared rate limiter because the remote API throttles
// aggressively; hitting the limiter blocks, it never drops.
//
// The client owns the per-process user and channel lookup caches, so two
// clients (or two test runs) never observe each other's state.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	limiter    *rate.Limiter

	users    *Cache[domain.Member]
	channels *Cache[domain.Conversation]
}

// Option customizes a Client.
type Option func(*Client)

// WithBaseURL overrides the API root (tests point it at a fake server).
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = u }
}

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.httpClient = h }
}

// WithRateLimit sets the outbound request budget (requests per second and
// burst). Zero or negative rps disables throttling.
func WithRateLimit(rps float64, burst int) Option {
	return func(c *Client) {
		if rps <= 0 {
			c.limiter = rate.NewLimiter(rate.Inf, 1)
			return
		}
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

// New constructs a Client. The token is required: failing here keeps a
// misconfigured process from ever issuing a remote call.
func New(token string, opts ...Option) (*Client, error) {
	if token == "" {
		return nil, errors.New("slack: access token is required")
	}
	c := &Client{
		baseURL:    DefaultBaseURL,
		token:      token,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		limiter:    rate.NewLimiter(rate.Limit(1), 3),
		users:      NewCache[domain.Member](),
		channels:   NewCache[domain.Conversation](),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// envelope is the outer shape shared by every Web API response. Payload
// fields (channels, members, messages, user, ...) are kept raw and decoded
// by the caller that knows which field to expect.
type envelope struct {
	OK               bool   `json:"ok"`
	Err              string `json:"error"`
	ResponseMetadata struct {
		NextCursor string `json:"next_cursor"`
	} `json:"response_metadata"`

	fields map[string]json.RawMessage
}

// field returns the named raw payload field, or nil when absent.
func (e *envelope) field(name string) json.RawMessage {
	return e.fields[name]
}

// call issues one GET against entry with the given parameters and decodes
// the response envelope. An ok:false body becomes an *APIError.
func (c *Client) call(ctx context.Context, entry string, params url.Values) (*envelope, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	u := fmt.Sprintf("%s/%s", c.baseURL, entry)
	if enc := params.Encode(); enc != "" {
		u += "?" + enc
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("slack: %s: %w", entry, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("slack: %s: read body: %w", entry, err)
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("slack: %s: decode: %w", entry, err)
	}
	if !env.OK {
		return nil, &APIError{Entry: entry, Reason: env.Err}
	}
	if err := json.Unmarshal(body, &env.fields); err != nil {
		return nil, fmt.Errorf("slack: %s: decode payload: %w", entry, err)
	}
	return &env, nil
}

// fetchInfo performs a single-object lookup (users.info, conversations.info,
// users.lookupByEmail) and decodes the payload field registered for entry.
func fetchInfo[T any](ctx context.Context, c *Client, entry string, params url.Values) (T, error) {
	var out T
	field, ok := infoField[entry]
	if !ok {
		return out, fmt.Errorf("slack: %s: not an info entry", entry)
	}
	env, err := c.call(ctx, entry, params)
	if err != nil {
		return out, err
	}
	raw := env.field(field)
	if raw == nil {
		return out, fmt.Errorf("slack: %s: response missing %q", entry, field)
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return out, fmt.Errorf("slack: %s: decode %q: %w", entry, field, err)
	}
	return out, nil
}

// UserInfo resolves a member by id, memoized for the client's lifetime.
func (c *Client) UserInfo(ctx context.Context, id string) (domain.Member, error) {
	return c.users.Get(id, func(id string) (domain.Member, error) {
		return fetchInfo[domain.Member](ctx, c, "users.info", url.Values{"user": {id}})
	})
}

// ConversationInfo resolves a channel by id, memoized for the client's
// lifetime.
func (c *Client) ConversationInfo(ctx context.Context, id string) (domain.Conversation, error) {
	return c.channels.Get(id, func(id string) (domain.Conversation, error) {
		return fetchInfo[domain.Conversation](ctx, c, "conversations.info", url.Values{"channel": {id}})
	})
}

// UserByEmail resolves a member by email address. Not cached: email lookups
// are rare and id-keyed caching would not help them.
func (c *Client) UserByEmail(ctx context.Context, email string) (domain.Member, error) {
	return fetchInfo[domain.Member](ctx, c, "users.lookupByEmail", url.Values{"email": {email}})
}
