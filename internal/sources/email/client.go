// Package email searches the recruiter's mailbox for traffic mentioning
// each candidate. It is a scoped source: it needs the candidate list from
// the roster and cannot discover candidates on its own.
package email

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"github.com/candidatelabs/talentsync/pkg/candidates"
	"github.com/candidatelabs/talentsync/pkg/errors"
	"github.com/candidatelabs/talentsync/pkg/logging"
	"github.com/candidatelabs/talentsync/pkg/sources"
)

const maxMessagesPerCandidate = 25

// Client reads candidate-related mail over the Gmail API.
// Implements sources.Client.
type Client struct {
	svc *gmail.Service
}

// New creates an email client from an authenticated HTTP client.
func New(ctx context.Context, httpClient *http.Client) (*Client, error) {
	svc, err := gmail.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, errors.WrapSource("email", err)
	}
	return &Client{svc: svc}, nil
}

// Source returns candidates.SourceEmail.
func (c *Client) Source() candidates.Source {
	return candidates.SourceEmail
}

// FetchRecords searches the mailbox once per scoped candidate. Candidates
// without a name cannot be searched and are skipped.
func (c *Client) FetchRecords(ctx context.Context, window sources.Window, scope *sources.Scope) ([]sources.Record, error) {
	if scope == nil || len(scope.Candidates) == 0 {
		return nil, nil
	}

	log := logging.FromContext(ctx)
	var records []sources.Record

	for _, id := range scope.Candidates {
		if err := ctx.Err(); err != nil {
			return nil, errors.WrapSource("email", err)
		}
		if id.Name == "" {
			continue
		}

		payload, err := c.search(ctx, id.Name, window)
		if err != nil {
			return nil, err
		}
		if payload == nil {
			continue
		}

		observed := time.Now().UTC()
		for _, msg := range payload.Messages {
			if msg.Date.After(observed) {
				observed = msg.Date
			}
		}

		records = append(records, sources.Record{
			Source:     candidates.SourceEmail,
			Identity:   id,
			ObservedAt: observed,
			Email:      payload,
		})
	}

	log.Debug().
		Int("candidates", len(scope.Candidates)).
		Int("with_mail", len(records)).
		Msg("Mailbox scan complete")
	return records, nil
}

func (c *Client) search(ctx context.Context, name string, window sources.Window) (*sources.EmailPayload, error) {
	query := fmt.Sprintf("%q after:%s", name, window.Since(time.Now().UTC()).Format("2006/01/02"))

	list, err := c.svc.Users.Messages.List("me").
		Q(query).
		MaxResults(maxMessagesPerCandidate).
		Context(ctx).
		Do()
	if err != nil {
		return nil, mapError(err)
	}
	if len(list.Messages) == 0 {
		return nil, nil
	}

	payload := &sources.EmailPayload{}
	for _, ref := range list.Messages {
		msg, err := c.svc.Users.Messages.Get("me", ref.Id).
			Format("metadata").
			MetadataHeaders("Subject", "From", "Date").
			Context(ctx).
			Do()
		if err != nil {
			return nil, mapError(err)
		}

		em := sources.EmailMessage{
			Snippet: msg.Snippet,
			Date:    time.UnixMilli(msg.InternalDate).UTC(),
		}
		for _, h := range msg.Payload.Headers {
			switch h.Name {
			case "Subject":
				em.Subject = h.Value
			case "From":
				em.Sender = h.Value
			}
		}
		payload.Messages = append(payload.Messages, em)
	}
	return payload, nil
}

func mapError(err error) error {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		switch apiErr.Code {
		case 401, 403:
			return errors.NewAuthExpiredError("email", "refresh the Google OAuth token", err)
		default:
			return errors.NewSourceUnavailableError("email", apiErr.Code, apiErr.Message)
		}
	}
	return errors.WrapSource("email", err)
}
