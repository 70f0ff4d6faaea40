// Package chat fetches candidate submissions from workspace chat channels.
// A submission is a channel message containing a candidate profile link; its
// reactions and thread replies carry the recruiter's status annotations.
package chat

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/candidatelabs/talentsync/pkg/candidates"
	"github.com/candidatelabs/talentsync/pkg/errors"
	"github.com/candidatelabs/talentsync/pkg/identity"
	"github.com/candidatelabs/talentsync/pkg/logging"
	"github.com/candidatelabs/talentsync/pkg/sources"
)

// DefaultBaseURL is the chat workspace API endpoint.
const DefaultBaseURL = "https://slack.com/api"

// The API tier for history endpoints allows roughly 50 requests per minute.
const defaultRequestsPerMinute = 50

// Client reads submission messages over the chat workspace Web API.
// Implements sources.Client.
type Client struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	baseURL    string
	token      string

	prefix   string
	channels []string
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the HTTP client, for tests.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithBaseURL overrides the API endpoint, for tests.
func WithBaseURL(u string) Option {
	return func(c *Client) {
		if u != "" {
			c.baseURL = strings.TrimRight(u, "/")
		}
	}
}

// WithChannelPrefix limits scanning to channels whose name carries the
// prefix. Client channels follow a naming convention like "recruit-acme".
func WithChannelPrefix(prefix string) Option {
	return func(c *Client) {
		c.prefix = prefix
	}
}

// WithChannels pins scanning to an explicit channel list instead of
// prefix discovery.
func WithChannels(channels []string) Option {
	return func(c *Client) {
		c.channels = channels
	}
}

// WithRateLimit overrides the request rate limit.
func WithRateLimit(perMinute int) Option {
	return func(c *Client) {
		if perMinute > 0 {
			c.limiter = rate.NewLimiter(rate.Limit(float64(perMinute)/60.0), 1)
		}
	}
}

// New creates a chat client authenticated with token.
func New(token string, opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		limiter:    rate.NewLimiter(rate.Limit(float64(defaultRequestsPerMinute)/60.0), 1),
		baseURL:    DefaultBaseURL,
		token:      token,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Source returns candidates.SourceChat.
func (c *Client) Source() candidates.Source {
	return candidates.SourceChat
}

// FetchRecords scans the configured channels for submission messages inside
// the window and returns one record per submission, thread included.
func (c *Client) FetchRecords(ctx context.Context, window sources.Window, scope *sources.Scope) ([]sources.Record, error) {
	log := logging.FromContext(ctx)
	oldest := window.Since(time.Now().UTC())

	channels, err := c.listChannels(ctx)
	if err != nil {
		return nil, err
	}

	var records []sources.Record
	for _, ch := range channels {
		if scope != nil && len(scope.Clients) > 0 {
			if !matchesClient(ch.Name, c.prefix, scope.Clients) {
				continue
			}
		}

		messages, err := c.history(ctx, ch.ID, oldest)
		if err != nil {
			return nil, err
		}

		for _, msg := range messages {
			profileURL, name := extractSubmission(msg.Text)
			if profileURL == "" {
				continue
			}

			payload := &sources.ChatPayload{
				ParentText:      msg.Text,
				ParentReactions: reactionNames(msg.Reactions),
				SubmittedAt:     tsToTime(msg.TS),
			}

			if msg.ReplyCount > 0 {
				thread, err := c.replies(ctx, ch.ID, msg.TS)
				if err != nil {
					return nil, err
				}
				payload.Thread = thread
			}

			records = append(records, sources.Record{
				Source: candidates.SourceChat,
				Identity: identity.Identity{
					ProfileURL: profileURL,
					Name:       name,
					Context:    ch.Name,
				},
				Channel:    ch.Name,
				ObservedAt: payload.SubmittedAt,
				Chat:       payload,
			})
		}
	}

	log.Debug().
		Int("channels", len(channels)).
		Int("submissions", len(records)).
		Msg("Chat scan complete")
	return records, nil
}

// channel is the subset of the conversations.list response we use.
type channel struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func (c *Client) listChannels(ctx context.Context) ([]channel, error) {
	var out []channel
	cursor := ""
	for {
		params := url.Values{
			"types":            {"public_channel,private_channel"},
			"exclude_archived": {"true"},
			"limit":            {"200"},
		}
		if cursor != "" {
			params.Set("cursor", cursor)
		}

		var resp struct {
			apiEnvelope
			Channels []channel `json:"channels"`
			Meta     struct {
				NextCursor string `json:"next_cursor"`
			} `json:"response_metadata"`
		}
		if err := c.call(ctx, "conversations.list", params, &resp); err != nil {
			return nil, err
		}

		for _, ch := range resp.Channels {
			if c.included(ch.Name) {
				out = append(out, ch)
			}
		}

		cursor = resp.Meta.NextCursor
		if cursor == "" {
			return out, nil
		}
	}
}

func (c *Client) included(name string) bool {
	if len(c.channels) > 0 {
		for _, want := range c.channels {
			if name == want {
				return true
			}
		}
		return false
	}
	if c.prefix != "" {
		return strings.HasPrefix(name, c.prefix)
	}
	return false
}

// message is the subset of a chat message we use.
type message struct {
	TS         string     `json:"ts"`
	ThreadTS   string     `json:"thread_ts"`
	User       string     `json:"user"`
	Text       string     `json:"text"`
	ReplyCount int        `json:"reply_count"`
	Reactions  []reaction `json:"reactions"`
}

type reaction struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func (c *Client) history(ctx context.Context, channelID string, oldest time.Time) ([]message, error) {
	var out []message
	cursor := ""
	for {
		params := url.Values{
			"channel": {channelID},
			"oldest":  {timeToTS(oldest)},
			"limit":   {"200"},
		}
		if cursor != "" {
			params.Set("cursor", cursor)
		}

		var resp struct {
			apiEnvelope
			Messages []message `json:"messages"`
			HasMore  bool      `json:"has_more"`
			Meta     struct {
				NextCursor string `json:"next_cursor"`
			} `json:"response_metadata"`
		}
		if err := c.call(ctx, "conversations.history", params, &resp); err != nil {
			return nil, err
		}

		for _, msg := range resp.Messages {
			// Thread replies surface in history too; only parents count
			// as submissions.
			if msg.ThreadTS != "" && msg.ThreadTS != msg.TS {
				continue
			}
			out = append(out, msg)
		}

		if !resp.HasMore || resp.Meta.NextCursor == "" {
			return out, nil
		}
		cursor = resp.Meta.NextCursor
	}
}

func (c *Client) replies(ctx context.Context, channelID, threadTS string) ([]sources.ChatMessage, error) {
	params := url.Values{
		"channel": {channelID},
		"ts":      {threadTS},
		"limit":   {"200"},
	}

	var resp struct {
		apiEnvelope
		Messages []message `json:"messages"`
	}
	if err := c.call(ctx, "conversations.replies", params, &resp); err != nil {
		return nil, err
	}

	var out []sources.ChatMessage
	for _, msg := range resp.Messages {
		if msg.TS == threadTS {
			// First entry is the parent itself.
			continue
		}
		out = append(out, sources.ChatMessage{
			Author:    msg.User,
			Text:      msg.Text,
			Reactions: reactionNames(msg.Reactions),
			Timestamp: tsToTime(msg.TS),
		})
	}
	return out, nil
}

// apiEnvelope is the common ok/error wrapper on every API response.
type apiEnvelope struct {
	OK    bool   `json:"ok"`
	Error string `json:"error"`
}

func (c *Client) call(ctx context.Context, method string, params url.Values, out interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return errors.WrapSource("chat", err)
	}

	endpoint := fmt.Sprintf("%s/%s?%s", c.baseURL, method, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return errors.WrapSource("chat", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errors.WrapSource("chat", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return errors.NewAuthExpiredError("chat", "refresh the workspace token", nil)
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return errors.NewSourceUnavailableError("chat", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.WrapSource("chat", err)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return errors.WrapParse("json", method, err)
	}

	// The API reports failures inside a 200 response.
	var env apiEnvelope
	if err := json.Unmarshal(body, &env); err == nil && !env.OK {
		switch env.Error {
		case "invalid_auth", "token_revoked", "token_expired", "account_inactive":
			return errors.NewAuthExpiredError("chat", env.Error, nil)
		default:
			return errors.NewSourceUnavailableError("chat", resp.StatusCode, env.Error)
		}
	}
	return nil
}

func reactionNames(reactions []reaction) []string {
	if len(reactions) == 0 {
		return nil
	}
	out := make([]string, 0, len(reactions))
	for _, r := range reactions {
		out = append(out, r.Name)
	}
	return out
}

func matchesClient(channelName, prefix string, clients []string) bool {
	derived := ClientName(channelName, prefix)
	for _, want := range clients {
		if strings.EqualFold(derived, want) {
			return true
		}
	}
	return false
}
