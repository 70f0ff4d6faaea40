// Package google holds the shared OAuth plumbing for the Gmail and Calendar
// sources. Both read the same operator-provisioned credentials and token
// files; the interactive consent flow happens out of band.
package google

import (
	"context"
	"encoding/json"
	"net/http"
	"os"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/candidatelabs/talentsync/pkg/errors"
)

// Scopes requested for the mail and calendar sources. Read-only on purpose.
var Scopes = []string{
	"https://www.googleapis.com/auth/gmail.readonly",
	"https://www.googleapis.com/auth/calendar.readonly",
}

// NewHTTPClient builds an authenticated HTTP client from an OAuth client
// credentials file and a stored token file. The oauth2 transport refreshes
// the access token transparently; a dead refresh token surfaces later as an
// auth error on the first API call.
func NewHTTPClient(ctx context.Context, credentialsFile, tokenFile string) (*http.Client, error) {
	creds, err := os.ReadFile(credentialsFile)
	if err != nil {
		return nil, errors.WrapIO("read", credentialsFile, err)
	}

	cfg, err := google.ConfigFromJSON(creds, Scopes...)
	if err != nil {
		return nil, errors.NewConfigError("google", "invalid OAuth credentials file", err)
	}

	token, err := loadToken(tokenFile)
	if err != nil {
		return nil, err
	}

	return cfg.Client(ctx, token), nil
}

func loadToken(path string) (*oauth2.Token, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewAuthExpiredError("google", "run the OAuth consent flow to create "+path, err)
		}
		return nil, errors.WrapIO("read", path, err)
	}

	var token oauth2.Token
	if err := json.Unmarshal(data, &token); err != nil {
		return nil, errors.WrapParse("json", path, err)
	}
	if token.RefreshToken == "" && !token.Valid() {
		return nil, errors.NewAuthExpiredError("google", "stored token expired with no refresh token", nil)
	}
	return &token, nil
}
