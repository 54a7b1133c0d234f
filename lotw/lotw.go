/*
 * Copyright 2025 QSPy contributors
 * SPDX-License-Identifier: MPL-2.0
 */

// Package lotw talks to ARRL's Logbook of the World: QSL report
// fetches, DXCC credit reports, the public last-upload activity feed,
// and signed-log uploads.
package lotw

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/JayToTheAy/QSPy/logbook"
	"github.com/JayToTheAy/QSPy/logging"
	"github.com/JayToTheAy/QSPy/version"
)

const (
	defaultBaseURL = "https://lotw.arrl.org/lotwuser/"
	defaultTimeout = 15 * time.Second
	uploadTimeout  = 120 * time.Second

	reportPath = "lotwreport.adi"
	dxccPath   = "logbook/qslcards.php"

	// LoTW omits the end-of-header marker when it rejects a report
	// query, but not reliably on the DXCC endpoint, so that one is
	// validated by its literal report banner instead.
	dxccReportBanner = "ARRL Logbook of the World DXCC QSL Card Report"
)

var (
	activityFeedURL = "https://lotw.arrl.org/lotw-user-activity.csv"
	uploadURL       = "https://lotw.arrl.org/lotw/upload"
)

var logger = logging.Logger(logging.SourceLoTW)

// Client queries LoTW endpoints that require a logged-in user. It is a
// single-owner resource: one in-flight call at a time.
type Client struct {
	// BaseURL may be overridden for testing; it defaults to the
	// production lotwuser endpoint.
	BaseURL string

	username   string
	password   string
	userAgent  string
	httpClient *http.Client
}

// NewClient returns a LoTW client for the given account. The username
// is the station callsign.
func NewClient(username, password string) *Client {
	return &Client{
		BaseURL:    defaultBaseURL,
		username:   username,
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

// FetchOptions are the optional query filters for FetchLogbook. All are
// strings in LoTW's own formats; unset fields are omitted from the
// request entirely. QSOQuery defaults to "1" and QSLOnly to "yes".
type FetchOptions struct {
	QSOQuery   string // if absent the report contains no QSO records
	QSLOnly    string // "yes" returns only QSL records
	QSLSince   string // QSLs since datetime, needs QSLOnly "yes"
	QSORxSince string // QSOs received since datetime, needs QSLOnly "no"
	OwnCall    string
	Callsign   string
	Mode       string
	Band       string
	DXCC       string
	StartDate  string
	StartTime  string
	EndDate    string
	EndTime    string
	MyDetail   string
	QSLDetail  string
	WithOwn    string
}

func (o FetchOptions) values() url.Values {
	params := url.Values{}

	qsoQuery := o.QSOQuery
	if qsoQuery == "" {
		qsoQuery = "1"
	}

	qslOnly := o.QSLOnly
	if qslOnly == "" {
		qslOnly = "yes"
	}

	params.Set("qso_query", qsoQuery)
	params.Set("qso_qsl", qslOnly)

	optional := map[string]string{
		"qso_qslsince":   o.QSLSince,
		"qso_qsorxsince": o.QSORxSince,
		"qso_owncall":    o.OwnCall,
		"qso_callsign":   o.Callsign,
		"qso_mode":       o.Mode,
		"qso_band":       o.Band,
		"qso_dxcc":       o.DXCC,
		"qso_startdate":  o.StartDate,
		"qso_starttime":  o.StartTime,
		"qso_enddate":    o.EndDate,
		"qso_endtime":    o.EndTime,
		"qso_mydetail":   o.MyDetail,
		"qso_qsldetail":  o.QSLDetail,
		"qsl_withown":    o.WithOwn,
	}
	for key, value := range optional {
		if value != "" {
			params.Set(key, value)
		}
	}

	return params
}

// FetchLogbook downloads a QSL report and builds a Logbook from it. A
// body without the end-of-header marker means LoTW rejected the query,
// usually bad credentials or malformed filters.
func (c *Client) FetchLogbook(ctx context.Context, opts FetchOptions) (*logbook.Logbook, error) {
	body, err := c.get(ctx, reportPath, opts.values())
	if err != nil {
		return nil, err
	}

	if !strings.Contains(strings.ToLower(body), "<eoh>") {
		return nil, fmt.Errorf("%w: response has no end-of-header marker", ErrRetrievalFailed)
	}

	return logbook.New(c.username, body)
}

// DXCCCredit fetches granted DXCC award credit as a Logbook, optionally
// narrowed to one entity code and one award account. Success is judged
// by the report banner, since LoTW emits the end-of-header marker even
// on this failure path.
func (c *Client) DXCCCredit(ctx context.Context, entity, awardAccount string) (*logbook.Logbook, error) {
	params := url.Values{}
	if entity != "" {
		params.Set("entity", entity)
	}

	if awardAccount != "" {
		params.Set("ac_acct", awardAccount)
	}

	body, err := c.get(ctx, dxccPath, params)
	if err != nil {
		return nil, err
	}

	if !strings.HasPrefix(body, dxccReportBanner) {
		return nil, fmt.Errorf("%w: %s", ErrRetrievalFailed, body)
	}

	return logbook.New(c.username, body)
}

func (c *Client) get(ctx context.Context, path string, params url.Values) (string, error) {
	params.Set("login", c.username)
	params.Set("password", c.password)

	endpoint := c.BaseURL + path + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create lotw request: %w", err)
	}

	req.Header.Set("User-Agent", c.userAgent)

	return doRequest(c.httpClient, req)
}

// UserActivity is one row of the public last-upload feed.
type UserActivity struct {
	Callsign string
	Date     string // YYYY-MM-DD
	Time     string // HH:MM:SS
}

// LastUploads queries LoTW's public activity feed: every user callsign
// with the date it last uploaded. No authentication is required.
func LastUploads(ctx context.Context) ([]UserActivity, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, activityFeedURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create lotw activity request: %w", err)
	}

	req.Header.Set("User-Agent", version.UserAgent())

	body, err := doRequest(&http.Client{Timeout: defaultTimeout}, req)
	if err != nil {
		return nil, err
	}

	reader := csv.NewReader(strings.NewReader(body))
	reader.FieldsPerRecord = -1

	activity := []UserActivity{}

	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}

		if err != nil {
			return nil, fmt.Errorf("failed to parse lotw activity csv: %w", err)
		}

		entry := UserActivity{Callsign: row[0]}
		if len(row) > 1 {
			entry.Date = row[1]
		}

		if len(row) > 2 {
			entry.Time = row[2]
		}

		activity = append(activity, entry)
	}

	return activity, nil
}

// UploadLogbook uploads a signed .tq5/.tq8 log and returns LoTW's
// result message. A rejected file surfaces as ErrUploadRejected with
// the service-supplied reason.
func UploadLogbook(ctx context.Context, filename string, contents []byte) (string, error) {
	var buf bytes.Buffer

	writer := multipart.NewWriter(&buf)

	part, err := writer.CreateFormFile("upfile", filename)
	if err != nil {
		return "", fmt.Errorf("failed to build lotw upload form: %w", err)
	}

	if _, err := part.Write(contents); err != nil {
		return "", fmt.Errorf("failed to build lotw upload form: %w", err)
	}

	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("failed to build lotw upload form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, uploadURL, &buf)
	if err != nil {
		return "", fmt.Errorf("failed to create lotw upload request: %w", err)
	}

	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("User-Agent", version.UserAgent())

	body, err := doRequest(&http.Client{Timeout: uploadTimeout}, req)
	if err != nil {
		return "", err
	}

	result, ok := textBetween(body, "<!-- .UPL. ", " -->")
	if !ok {
		return "", fmt.Errorf("%w: no upload result marker", ErrUploadMalformed)
	}

	message, ok := textBetween(body, "<!-- .UPLMESSAGE. ", " -->")
	if !ok {
		message = result
	}

	if strings.Contains(result, "rejected") {
		return "", fmt.Errorf("%w: %s", ErrUploadRejected, message)
	}

	return message, nil
}

func doRequest(client *http.Client, req *http.Request) (string, error) {
	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to call lotw: %w", err)
	}

	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			logger.Warn("Failed to close LoTW response body", "error", closeErr)
		}
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read lotw response: %w", err)
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
