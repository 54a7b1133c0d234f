/*
 * Copyright 2025 QSPy contributors
 * SPDX-License-Identifier: MPL-2.0
 */

// Package eqsl talks to eQSL.cc: QSL verification, inbox/outbox log
// downloads, and the public member lists.
package eqsl

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
	defaultBaseURL = "https://www.eqsl.cc/qslcard/"
	defaultTimeout = 15 * time.Second

	inboxPath      = "DownloadInBox.cfm"
	outboxPath     = "DownloadADIF.cfm"
	lastUploadPath = "DisplayLastUploadDate.cfm"

	// Markers eQSL embeds in its HTML responses. The ADIF download
	// link sits between the two anchors, relative to the base URL.
	adifReadyMarker    = "Your ADIF log file has been built"
	adifLinkLeft       = `<LI><A HREF="..`
	adifLinkRight      = `">.ADI file</A>`
	lastUploadMarker   = "Your last ADIF upload was"
	verifiedMarker     = "Result - QSO on file"
	paramMissingMarker = "Parameter missing"
)

var verifyURL = "https://www.eqsl.cc/qslcard/VerifyQSO.cfm"

var logger = logging.Logger(logging.SourceEQSL)

// VerifyOptions identify the QSL to verify. CallsignFrom, CallsignTo
// and Band are required by eQSL; Mode and Date narrow the match and are
// omitted from the request when unset.
type VerifyOptions struct {
	CallsignFrom string
	CallsignTo   string
	Band         string
	Mode         string
	Date         string // MM/DD/YYYY
}

// VerifyQSO asks eQSL whether a QSL is on file. It returns the
// confirmation verdict and the raw response body, which carries extra
// detail such as Authenticity Guaranteed status. A response reporting a
// missing required parameter is a hard failure; any other body without
// the on-file marker is simply an unconfirmed QSO.
func VerifyQSO(ctx context.Context, opts VerifyOptions) (bool, string, error) {
	params := url.Values{}
	params.Set("CallsignFrom", opts.CallsignFrom)
	params.Set("CallsignTo", opts.CallsignTo)
	params.Set("QSOBand", opts.Band)

	if opts.Mode != "" {
		params.Set("QSOMode", opts.Mode)
	}

	if opts.Date != "" {
		params.Set("QSODate", opts.Date)
	}

	body, err := getText(ctx, &http.Client{Timeout: defaultTimeout}, verifyURL+"?"+params.Encode(), version.UserAgent())
	if err != nil {
		return false, "", err
	}

	switch {
	case strings.Contains(body, verifiedMarker):
		return true, body, nil
	case strings.Contains(body, paramMissingMarker):
		return false, "", fmt.Errorf("%w: %s", ErrParameterMissing, body)
	default:
		return false, body, nil
	}
}

// Client performs the eQSL actions that require an account. It is a
// single-owner resource: one in-flight call at a time.
type Client struct {
	// BaseURL may be overridden for testing; it defaults to the
	// production qslcard endpoint.
	BaseURL string

	username    string
	password    string
	qthNickname string
	userAgent   string
	httpClient  *http.Client
}

// NewClient returns an eQSL client for the given account. The QTH
// nickname selects one of the account's locations and may be empty.
func NewClient(username, password, qthNickname string) *Client {
	return &Client{
		BaseURL:     defaultBaseURL,
		username:    username,
		password:    password,
		qthNickname: qthNickname,
		userAgent:   version.UserAgent(),
		httpClient:  &http.Client{Timeout: defaultTimeout},
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

// InboxOptions filter which incoming QSOs are downloaded. All fields
// are strings in eQSL's own formats and omitted when unset.
type InboxOptions struct {
	LimitDateLo     string // earliest QSO date, MM/DD/YYYY
	LimitDateHi     string // latest QSO date, MM/DD/YYYY
	RcvdSince       string // YYYYMMDDHHMM
	ConfirmedOnly   string // any value: only confirmed inbox items
	UnconfirmedOnly string // any value: only unconfirmed inbox items
	Archive         string // "1" archived only, "0" inbox only
	HamOnly         string // any value: filter out SWL contacts
}

func (o InboxOptions) values() url.Values {
	params := url.Values{}

	optional := map[string]string{
		"LimitDateLo":     o.LimitDateLo,
		"LimitDateHi":     o.LimitDateHi,
		"RcvdSince":       o.RcvdSince,
		"ConfirmedOnly":   o.ConfirmedOnly,
		"UnconfirmedOnly": o.UnconfirmedOnly,
		"Archive":         o.Archive,
		"HamOnly":         o.HamOnly,
	}
	for key, value := range optional {
		if value != "" {
			params.Set(key, value)
		}
	}

	return params
}

// FetchInbox downloads incoming QSOs from the user's eQSL inbox. eQSL
// builds the ADIF file on demand, so this is two round-trips: trigger
// the build, then download the linked file.
func (c *Client) FetchInbox(ctx context.Context, opts InboxOptions) (*logbook.Logbook, error) {
	return c.fetchBuiltADIF(ctx, inboxPath, opts.values())
}

// FetchOutbox downloads outgoing QSOs from the user's eQSL outbox.
func (c *Client) FetchOutbox(ctx context.Context) (*logbook.Logbook, error) {
	return c.fetchBuiltADIF(ctx, outboxPath, url.Values{})
}

func (c *Client) fetchBuiltADIF(ctx context.Context, path string, params url.Values) (*logbook.Logbook, error) {
	body, err := c.get(ctx, path, params)
	if err != nil {
		return nil, err
	}

	if !strings.Contains(body, adifReadyMarker) {
		return nil, fmt.Errorf("%w: %s", ErrADIFNotReady, firstLine(body))
	}

	relative, ok := textBetween(body, adifLinkLeft, adifLinkRight)
	if !ok {
		return nil, ErrADIFLinkMissing
	}

	adifBody, err := getText(ctx, c.httpClient, c.BaseURL+relative, c.userAgent)
	if err != nil {
		return nil, err
	}

	return logbook.New(c.username, adifBody)
}

// LastUploadDate reports when the user last uploaded an ADIF file,
// formatted by eQSL as "DD-MMM-YYYY at HH:mm UTC".
func (c *Client) LastUploadDate(ctx context.Context) (string, error) {
	body, err := c.get(ctx, lastUploadPath, url.Values{})
	if err != nil {
		return "", err
	}

	if !strings.Contains(body, lastUploadMarker) {
		return "", fmt.Errorf("%w: %s", ErrLastUploadUnavailable, firstLine(body))
	}

	date, ok := textBetween(body, "(", ")")
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrLastUploadUnavailable, firstLine(body))
	}

	return date, nil
}

// GraphicOptions identify the QSL card image to fetch.
type GraphicOptions struct {
	CallsignFrom string
	Year         string
	Month        string
	Day          string
	Hour         string
	Minute       string
	Band         string
	Mode         string
}

// RetrieveGraphic fetches the QSL card image for a QSO.
//
// TODO: implement the eGraphic endpoint; it needs an HTML scrape of the
// card URL that has not been pinned down yet.
func (c *Client) RetrieveGraphic(_ context.Context, _ GraphicOptions) ([]byte, error) {
	return nil, ErrNotImplemented
}

func (c *Client) get(ctx context.Context, path string, params url.Values) (string, error) {
	params.Set("username", c.username)
	params.Set("password", c.password)

	if c.qthNickname != "" {
		params.Set("QTHNickname", c.qthNickname)
	}

	return getText(ctx, c.httpClient, c.BaseURL+path+"?"+params.Encode(), c.userAgent)
}

func getText(ctx context.Context, client *http.Client, endpoint, userAgent string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create eqsl request: %w", err)
	}

	req.Header.Set("User-Agent", userAgent)

	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to call eqsl: %w", err)
	}

	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			logger.Warn("Failed to close eQSL response body", "error", closeErr)
		}
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read eqsl response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: %d", ErrUnexpectedStatus, resp.StatusCode)
	}

	return string(body), nil
}

func textBetween(body, left, right string) (string, bool) {
	start := strings.Index(body, left)
	if start < 0 {
		return "", false
	}

	start += len(left)

	end := strings.Index(body[start:], right)
	if end < 0 {
		return "", false
	}

	return body[start : start+end], true
}

func firstLine(body string) string {
	if idx := strings.IndexAny(body, "\r\n"); idx >= 0 {
		return body[:idx]
	}

	return body
}
