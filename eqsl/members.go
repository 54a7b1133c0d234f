/*
 * Copyright 2025 QSPy contributors
 * SPDX-License-Identifier: MPL-2.0
 */
package eqsl

import (
	"context"
	"encoding/csv"
	"fmt"
	"net/http"
	"strings"

	"github.com/pd0mz/go-maidenhead"

	"github.com/JayToTheAy/QSPy/version"
)

// Member list downloads. All three files share the same framing: a
// generation-stamp header line, \r\n-joined body lines, and a trailing
// empty line.
var (
	agListURL      = "https://www.eqsl.cc/qslcard/DownloadedFiles/AGMemberList.txt"
	agListDatedURL = "https://www.eqsl.cc/qslcard/DownloadedFiles/AGMemberListDated.txt"
	memberListURL  = "https://www.eqsl.cc/DownloadedFiles/eQSLMemberList.csv"
)

// MemberRecord holds the positional attributes of one full-member-list
// row: grid square, Authenticity Guaranteed flag, and last upload date.
type MemberRecord struct {
	GridSquare             string
	AuthenticityGuaranteed string // "Y" or "N"
	LastUpload             string
}

// GridValid reports whether the record's grid square parses as a
// Maidenhead locator.
func (m MemberRecord) GridValid() bool {
	if m.GridSquare == "" {
		return false
	}

	_, err := maidenhead.ParseLocator(m.GridSquare)

	return err == nil
}

// AGMemberList fetches the set of Authenticity Guaranteed member
// callsigns, plus the header line stamping when the list was generated.
func AGMemberList(ctx context.Context) (map[string]struct{}, string, error) {
	header, lines, err := fetchMemberLines(ctx, agListURL)
	if err != nil {
		return nil, "", err
	}

	callsigns := make(map[string]struct{}, len(lines))

	for _, line := range lines {
		if line == "" {
			continue
		}

		callsigns[line] = struct{}{}
	}

	return callsigns, header, nil
}

// AGMemberListDated fetches Authenticity Guaranteed members with the
// date of their last upload, keyed by callsign.
func AGMemberListDated(ctx context.Context) (map[string]string, string, error) {
	header, lines, err := fetchMemberLines(ctx, agListDatedURL)
	if err != nil {
		return nil, "", err
	}

	dated := make(map[string]string, len(lines))

	for _, line := range lines {
		if line == "" {
			continue
		}

		callsign, date, found := strings.Cut(line, ", ")
		if !found {
			return nil, "", fmt.Errorf("%w: %q", ErrMemberListMalformed, line)
		}

		dated[callsign] = date
	}

	return dated, header, nil
}

// FullMemberList fetches every eQSL member keyed by callsign.
func FullMemberList(ctx context.Context) (map[string]MemberRecord, error) {
	_, lines, err := fetchMemberLines(ctx, memberListURL)
	if err != nil {
		return nil, err
	}

	reader := csv.NewReader(strings.NewReader(strings.Join(lines, "\n")))
	reader.FieldsPerRecord = -1

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMemberListMalformed, err)
	}

	members := make(map[string]MemberRecord, len(rows))

	for _, row := range rows {
		record := MemberRecord{}
		if len(row) > 1 {
			record.GridSquare = row[1]
		}

		if len(row) > 2 {
			record.AuthenticityGuaranteed = row[2]
		}

		if len(row) > 3 {
			record.LastUpload = row[3]
		}

		members[row[0]] = record
	}

	return members, nil
}

// MemberData looks up one callsign in the full member list. The second
// return reports whether the callsign is a member at all. This pulls
// the entire list every call; cache the FullMemberList result when
// checking more than one callsign.
func MemberData(ctx context.Context, callsign string) (MemberRecord, bool, error) {
	members, err := FullMemberList(ctx)
	if err != nil {
		return MemberRecord{}, false, err
	}

	record, ok := members[callsign]

	return record, ok, nil
}

// fetchMemberLines downloads a member list and strips the framing:
// the first line is the generation stamp, the last line is empty.
func fetchMemberLines(ctx context.Context, endpoint string) (string, []string, error) {
	body, err := getText(ctx, &http.Client{Timeout: defaultTimeout}, endpoint, version.UserAgent())
	if err != nil {
		return "", nil, err
	}

	lines := strings.Split(body, "\r\n")
	if len(lines) < 2 {
		return "", nil, fmt.Errorf("%w: missing header or trailing line", ErrMemberListMalformed)
	}

	return lines[0], lines[1 : len(lines)-1], nil
}
