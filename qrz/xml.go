/*
 * Copyright 2025 QSPy contributors
 * SPDX-License-Identifier: MPL-2.0
 */
package qrz

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/JayToTheAy/QSPy/version"
)

const defaultXMLURL = "https://xmldata.qrz.com/xml/1.34/"

// A lookup whose response carries no session key re-authenticates and
// retries exactly once; a second consecutive failure is fatal.
const maxSessionRetries = 1

type xmlField struct {
	XMLName xml.Name
	Value   string `xml:",chardata"`
}

type xmlNode struct {
	Fields []xmlField `xml:",any"`
}

type xmlEnvelope struct {
	XMLName  xml.Name `xml:"QRZDatabase"`
	Version  string   `xml:"version,attr"`
	Session  xmlNode  `xml:"Session"`
	Callsign xmlNode  `xml:"Callsign"`
	DXCC     xmlNode  `xml:"DXCC"`
}

// XMLResponse is a decoded QRZ XML envelope. Session always carries the
// session bookkeeping; Callsign or DXCC carries the lookup payload,
// keyed by QRZ's own field names.
type XMLResponse struct {
	Version  string
	Session  map[string]string
	Callsign map[string]string
	DXCC     map[string]string
}

// SessionField returns a session field value, case-insensitively.
func (r *XMLResponse) SessionField(key string) string {
	return fieldValue(r.Session, key)
}

// XMLClient wraps the QRZ XML data interface. It owns the session key
// and is a single-owner resource: one in-flight call at a time.
type XMLClient struct {
	// BaseURL may be overridden for testing; it defaults to the
	// production XML endpoint.
	BaseURL string

	username   string
	password   string
	agent      string
	httpClient *http.Client
	sessionKey string
}

// NewXMLClient returns an XML client for the given QRZ account. No
// request is made until Login or the first lookup.
func NewXMLClient(username, password string) *XMLClient {
	return &XMLClient{
		BaseURL:    defaultXMLURL,
		username:   username,
		password:   password,
		agent:      version.UserAgent(),
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
}

// SetTimeout changes the transport timeout for subsequent calls.
func (c *XMLClient) SetTimeout(timeout time.Duration) {
	c.httpClient.Timeout = timeout
}

// SetUserAgent overrides the agent identifier sent both as the agent
// parameter and the User-Agent header.
func (c *XMLClient) SetUserAgent(agent string) {
	c.agent = agent
}

// Login establishes a session, trading the account credentials for a
// session key so later lookups do not carry the password.
func (c *XMLClient) Login(ctx context.Context) error {
	params := url.Values{}
	params.Set("username", c.username)
	params.Set("password", c.password)
	params.Set("agent", c.agent)

	response, err := c.request(ctx, params)
	if err != nil {
		return err
	}

	key := fieldValue(response.Session, "Key")
	if key == "" {
		return invalidSessionError(fieldValue(response.Session, "Error"))
	}

	c.sessionKey = key

	return nil
}

// LookupCallsign looks up a callsign's profile data.
func (c *XMLClient) LookupCallsign(ctx context.Context, callsign string) (*XMLResponse, error) {
	params := url.Values{}
	params.Set("callsign", callsign)

	return c.lookup(ctx, params)
}

// LookupDXCC looks up a DXCC entity by number or prefix. The payload
// includes the entity's country code, name, continent, zones, timezone
// and coordinates.
func (c *XMLClient) LookupDXCC(ctx context.Context, dxcc string) (*XMLResponse, error) {
	params := url.Values{}
	params.Set("dxcc", dxcc)

	return c.lookup(ctx, params)
}

// lookup sends a query under the current session key. A response
// without a session key means the key expired: re-authenticate once and
// retry the identical lookup, then fail. The retry budget is per
// logical call, never cumulative across chained lookups.
func (c *XMLClient) lookup(ctx context.Context, params url.Values) (*XMLResponse, error) {
	if c.sessionKey == "" {
		if err := c.Login(ctx); err != nil {
			return nil, err
		}
	}

	var response *XMLResponse

	attempts := 0

	backoff := retry.WithMaxRetries(maxSessionRetries, retry.NewConstant(time.Millisecond))

	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		attempts++

		query := url.Values{}
		for key, values := range params {
			query[key] = values
		}

		query.Set("s", c.sessionKey)
		query.Set("agent", c.agent)

		resp, err := c.request(ctx, query)
		if err != nil {
			return err
		}

		if fieldValue(resp.Session, "Key") == "" {
			sessionErr := invalidSessionError(fieldValue(resp.Session, "Error"))
			if attempts > maxSessionRetries {
				return sessionErr
			}

			logger.Warn("QRZ session key rejected, re-authenticating", "attempt", attempts)

			if loginErr := c.Login(ctx); loginErr != nil {
				return loginErr
			}

			return retry.RetryableError(sessionErr)
		}

		response = resp

		return nil
	})
	if err != nil {
		return nil, err
	}

	return response, nil
}

func (c *XMLClient) request(ctx context.Context, params url.Values) (*XMLResponse, error) {
	endpoint, err := url.Parse(c.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid qrz xml endpoint: %w", err)
	}

	query := endpoint.Query()
	for key, values := range params {
		for _, value := range values {
			query.Set(key, value)
		}
	}

	endpoint.RawQuery = query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create qrz xml request: %w", err)
	}

	req.Header.Set("User-Agent", c.agent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call qrz xml api: %w", err)
	}

	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			logger.Warn("Failed to close QRZ XML response body", "error", closeErr)
		}
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read qrz xml response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %d", ErrUnexpectedStatus, resp.StatusCode)
	}

	return parseXMLResponse(body)
}

func parseXMLResponse(raw []byte) (*XMLResponse, error) {
	var envelope xmlEnvelope

	if err := xml.Unmarshal(raw, &envelope); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrResponseMalformed, err)
	}

	return &XMLResponse{
		Version:  strings.TrimSpace(envelope.Version),
		Session:  fieldsToMap(envelope.Session.Fields),
		Callsign: fieldsToMap(envelope.Callsign.Fields),
		DXCC:     fieldsToMap(envelope.DXCC.Fields),
	}, nil
}

func fieldsToMap(fields []xmlField) map[string]string {
	result := make(map[string]string, len(fields))

	for _, field := range fields {
		key := strings.TrimSpace(field.XMLName.Local)
		if key == "" {
			continue
		}

		result[key] = strings.TrimSpace(field.Value)
	}

	return result
}

func fieldValue(values map[string]string, key string) string {
	for candidate, value := range values {
		if strings.EqualFold(candidate, key) {
			return strings.TrimSpace(value)
		}
	}

	return ""
}

func invalidSessionError(detail string) error {
	if detail == "" {
		return ErrInvalidSession
	}

	return fmt.Errorf("%w: %s", ErrInvalidSession, detail)
}
