/*
 * Copyright 2025 QSPy contributors
 * SPDX-License-Identifier: MPL-2.0
 */

// Package qrz talks to QRZ.com's two interfaces: the key-based logbook
// API and the session-based XML data API.
package qrz

import (
	"context"
	"fmt"
	"html"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/JayToTheAy/QSPy/adif"
	"github.com/JayToTheAy/QSPy/logbook"
	"github.com/JayToTheAy/QSPy/logging"
	"github.com/JayToTheAy/QSPy/version"
)

const (
	defaultLogbookURL = "https://logbook.qrz.com/api"
	defaultTimeout    = 15 * time.Second
)

var logger = logging.Logger(logging.SourceQRZ)

// LogbookClient accesses one QRZ logbook through its API key. No
// session is involved; the key rides along on every action.
type LogbookClient struct {
	// BaseURL may be overridden for testing; it defaults to the
	// production logbook API endpoint.
	BaseURL string

	key        string
	userAgent  string
	httpClient *http.Client
}

// NewLogbookClient returns a client for the logbook behind the given
// API key.
func NewLogbookClient(key string) *LogbookClient {
	return &LogbookClient{
		BaseURL:    defaultLogbookURL,
		key:        key,
		userAgent:  version.UserAgent(),
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
}

// SetTimeout changes the transport timeout for subsequent calls.
func (c *LogbookClient) SetTimeout(timeout time.Duration) {
	c.httpClient.Timeout = timeout
}

// SetUserAgent overrides the User-Agent header sent with every request.
func (c *LogbookClient) SetUserAgent(agent string) {
	c.userAgent = agent
}

// FetchLogbook fetches the logbook's records. The optional OPTION value
// is a comma-separated filter string as specified by QRZ, like
// "MODE:SSB,CALL:W1AW". The ADIF payload QRZ returns has no header, so
// a synthetic end-of-header marker is prepended before parsing. The
// resulting Logbook is named after the API key; the logbook API never
// reveals the owner callsign.
func (c *LogbookClient) FetchLogbook(ctx context.Context, option string) (*logbook.Logbook, error) {
	form := url.Values{}
	form.Set("KEY", c.key)
	form.Set("ACTION", "FETCH")

	if option != "" {
		form.Set("OPTION", option)
	}

	fields, err := c.post(ctx, form)
	if err != nil {
		return nil, err
	}

	payload, ok := fields["ADIF"]
	if !ok || len(payload) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrFetchFailed, fetchFailureDetail(fields))
	}

	return logbook.New(c.key, adif.EndOfHeader+payload[0])
}

// InsertRecord inserts a single QSO into the logbook.
//
// TODO: build the ADIF serialization of a QSO so the INSERT action can
// carry it.
func (c *LogbookClient) InsertRecord(_ context.Context, _ logbook.QSO, _ string) error {
	return ErrNotImplemented
}

// DeleteRecords permanently deletes log records by logid. The returned
// mapping carries QRZ's raw response fields: RESULT, the COUNT of
// records deleted, and any LOGIDS that were not found.
func (c *LogbookClient) DeleteRecords(ctx context.Context, logIDs []string) (map[string][]string, error) {
	form := url.Values{}
	form.Set("KEY", c.key)
	form.Set("ACTION", "DELETE")
	form.Set("LOGIDS", strings.Join(logIDs, ","))

	return c.post(ctx, form)
}

// CheckStatus queries logbook status: owner, logbook name, DXCC count,
// confirmed QSOs and so on, keyed by QRZ's own field names.
func (c *LogbookClient) CheckStatus(ctx context.Context, logIDs []string) (map[string][]string, error) {
	form := url.Values{}
	form.Set("KEY", c.key)
	form.Set("ACTION", "STATUS")

	if len(logIDs) > 0 {
		form.Set("LOGIDS", strings.Join(logIDs, ","))
	}

	return c.post(ctx, form)
}

func (c *LogbookClient) post(ctx context.Context, form url.Values) (map[string][]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to create qrz logbook request: %w", err)
	}

	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call qrz logbook api: %w", err)
	}

	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			logger.Warn("Failed to close QRZ logbook response body", "error", closeErr)
		}
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read qrz logbook response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %d", ErrUnexpectedStatus, resp.StatusCode)
	}

	return decodeResponseBody(string(body)), nil
}

// decodeResponseBody decodes QRZ's logbook response framing: an
// &-joined, =-split key/value body, HTML-escaped as a whole and
// percent-escaped per value. Repeated keys accumulate, which the
// DELETE and STATUS actions rely on. Keys are uppercased.
func decodeResponseBody(raw string) map[string][]string {
	fields := make(map[string][]string)

	for _, part := range strings.Split(strings.TrimSpace(html.UnescapeString(raw)), "&") {
		if part == "" {
			continue
		}

		key, rawValue, _ := strings.Cut(part, "=")

		key = strings.ToUpper(strings.TrimSpace(key))
		if key == "" {
			continue
		}

		value, err := url.QueryUnescape(rawValue)
		if err != nil {
			value = rawValue
		}

		fields[key] = append(fields[key], value)
	}

	return fields
}

func fetchFailureDetail(fields map[string][]string) string {
	result := "response has no ADIF payload"

	if values := fields["RESULT"]; len(values) > 0 {
		result = "result " + values[0]
	} else if values := fields["STATUS"]; len(values) > 0 {
		result = "status " + values[0]
	}

	if reasons := fields["REASON"]; len(reasons) > 0 {
		result += ": " + reasons[0]
	}

	return result
}
