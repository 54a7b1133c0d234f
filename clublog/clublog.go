/*
 * Copyright 2025 QSPy contributors
 * SPDX-License-Identifier: MPL-2.0
 */

// Package clublog fetches a user's complete log from ClubLog. The
// service returns the whole ADIF document in one shot with no
// service-level success marker; only the HTTP status is checked.
package clublog

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/JayToTheAy/QSPy/logbook"
	"github.com/JayToTheAy/QSPy/logging"
	"github.com/JayToTheAy/QSPy/version"
)

const (
	defaultBaseURL = "https://clublog.org/getadif.php"
	defaultTimeout = 15 * time.Second
)

var logger = logging.Logger(logging.SourceClubLog)

// Client holds a ClubLog account's credentials. It is a single-owner
// resource: one in-flight call at a time.
type Client struct {
	// BaseURL may be overridden for testing; it defaults to the
	// production getadif endpoint.
	BaseURL string

	email      string
	callsign   string
	password   string
	userAgent  string
	httpClient *http.Client
}

// NewClient returns a ClubLog client for the given account.
func NewClient(email, callsign, password string) *Client {
	return &Client{
		BaseURL:    defaultBaseURL,
		email:      email,
		callsign:   callsign,
		password:   password,
		userAgent:  version.UserAgent(),
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
}

// SetTimeout changes the transport timeout for subsequent calls.
func (c *Client) SetTimeout(timeout time.Duration) {
	c.httpClient.Timeout = timeout
}

// SetUserAgent overrides the User-Agent header sent with every request.
func (c *Client) SetUserAgent(agent string) {
	c.userAgent = agent
}

// FetchLogbook downloads the account's complete log.
func (c *Client) FetchLogbook(ctx context.Context) (*logbook.Logbook, error) {
	form := url.Values{}
	form.Set("email", c.email)
	form.Set("password", c.password)
	form.Set("call", c.callsign)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to create clublog request: %w", err)
	}

	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call clublog: %w", err)
	}

	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			logger.Warn("Failed to close ClubLog response body", "error", closeErr)
		}
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read clublog response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %d", ErrUnexpectedStatus, resp.StatusCode)
	}

	return logbook.New(c.callsign, string(body))
}
