/*
 * Copyright 2025 QSPy contributors
 * SPDX-License-Identifier: MPL-2.0
 */

// Package adif parses ADIF (Amateur Data Interchange Format) documents
// into raw field records. An ADIF document is free header text, an
// end-of-header tag, then zero or more records of <NAME:LEN>VALUE
// fields, each closed by an end-of-record tag.
package adif

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Record maps an uppercase ADIF field name to its raw string value.
type Record map[string]string

// Get returns the value for an ADIF field name, case-insensitively.
func (r Record) Get(name string) string {
	return r[strings.ToUpper(name)]
}

// EndOfHeader is the marker that separates header text from records.
// Callers holding a header-less fragment (the QRZ logbook API strips
// the header) must prepend it before parsing.
const EndOfHeader = "<EOH>"

var (
	eohRegex      = regexp.MustCompile(`(?i)<eoh>`)
	fieldTagRegex = regexp.MustCompile(`(?i)<[a-z0-9_]+:\d`)
)

// Parse splits an ADIF document into its raw records and header text.
// The header is everything before the end-of-header marker, verbatim.
// A document containing field tags but no end-of-header marker is
// malformed.
func Parse(document string) ([]Record, string, error) {
	loc := eohRegex.FindStringIndex(document)
	if loc == nil {
		if fieldTagRegex.MatchString(document) {
			return nil, "", ErrMissingHeader
		}

		return []Record{}, document, nil
	}

	header := document[:loc[0]]

	records, err := parseRecords(document[loc[1]:])
	if err != nil {
		return nil, "", err
	}

	return records, header, nil
}

func parseRecords(body string) ([]Record, error) {
	records := []Record{}
	current := Record{}

	pos := 0
	for {
		open := strings.IndexByte(body[pos:], '<')
		if open < 0 {
			break
		}

		pos += open

		close := strings.IndexByte(body[pos:], '>')
		if close < 0 {
			break
		}

		tag := body[pos+1 : pos+close]
		pos += close + 1

		name, length, hasLength, err := splitTag(tag)
		if err != nil {
			return nil, err
		}

		if !hasLength {
			if strings.EqualFold(name, "eor") {
				if len(current) > 0 {
					records = append(records, current)
					current = Record{}
				}
			}

			// Tags without a length that are not record markers
			// carry no value and are skipped.
			continue
		}

		if pos+length > len(body) {
			return nil, fmt.Errorf("%w: field %s wants %d chars, %d remain",
				ErrValueOverrun, strings.ToUpper(name), length, len(body)-pos)
		}

		current[strings.ToUpper(name)] = body[pos : pos+length]
		pos += length
	}

	// A trailing record missing its end-of-record tag is kept.
	if len(current) > 0 {
		records = append(records, current)
	}

	return records, nil
}

// splitTag breaks "NAME:LEN[:TYPE]" into its parts. Tags without a
// colon (eoh, eor) have no length.
func splitTag(tag string) (name string, length int, hasLength bool, err error) {
	parts := strings.SplitN(tag, ":", 3)

	name = strings.TrimSpace(parts[0])
	if name == "" {
		return "", 0, false, fmt.Errorf("%w: empty tag name", ErrMalformedTag)
	}

	if len(parts) == 1 {
		return name, 0, false, nil
	}

	length, convErr := strconv.Atoi(strings.TrimSpace(parts[1]))
	if convErr != nil || length < 0 {
		return "", 0, false, fmt.Errorf("%w: bad length in tag <%s>", ErrMalformedTag, tag)
	}

	return name, length, true, nil
}
