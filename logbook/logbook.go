/*
 * Copyright 2025 QSPy contributors
 * SPDX-License-Identifier: MPL-2.0
 */

// Package logbook holds the unified log data model: the QSO entity and
// the Logbook aggregate every service client produces.
package logbook

import (
	"fmt"
	"sort"
	"strings"

	"github.com/JayToTheAy/QSPy/adif"
)

// Confirmation flag values for a QSO.
const (
	ConfirmationYes = "Y"
	ConfirmationNo  = "N"
)

// QSO is a single logged contact. Identity is the five fields
// TheirCall, Band, Mode, QSODate and TimeOn; the confirmation flag is
// excluded from identity on purpose, so a re-fetched contact with a new
// confirmation state collapses onto the same entry.
type QSO struct {
	TheirCall string
	Band      string
	Mode      string
	QSODate   string // ADIF date, YYYYMMDD
	TimeOn    string // ADIF time, HHMM or HHMMSS
	QSLRcvd   string // ConfirmationYes or ConfirmationNo
}

// identity is the comparable five-field key of a QSO.
type identity struct {
	theirCall, band, mode, qsoDate, timeOn string
}

func (q QSO) key() identity {
	return identity{q.TheirCall, q.Band, q.Mode, q.QSODate, q.TimeOn}
}

// Equal reports whether two QSOs identify the same contact. The
// confirmation flag does not participate.
func (q QSO) Equal(other QSO) bool {
	return q.key() == other.key()
}

func (q QSO) String() string {
	return fmt.Sprintf("CALL: %s BAND: %s MODE: %s DATE: %s TIME: %s QSL: %s",
		q.TheirCall, q.Band, q.Mode, q.QSODate, q.TimeOn, q.QSLRcvd)
}

// Required ADIF fields for normalizing a record into a QSO.
var requiredFields = []string{"CALL", "BAND", "MODE", "QSO_DATE", "TIME_ON"}

// FromRecord normalizes a raw ADIF record into a QSO, deriving the
// confirmation flag from whichever service-specific field is present:
// LoTW and ClubLog set QSL_RCVD, QRZ supplies a QSL date, and eQSL uses
// its own received flag. The rule runs uniformly regardless of source,
// since a Logbook may aggregate records from any of them.
func FromRecord(record adif.Record) (QSO, error) {
	for _, field := range requiredFields {
		if record[field] == "" {
			return QSO{}, fmt.Errorf("%w: %s", ErrMissingField, field)
		}
	}

	confirmed := ConfirmationNo
	if record["QSL_RCVD"] == "Y" || record["APP_QRZLOG_QSLDATE"] != "" || record["EQSL_QSL_RCVD"] == "Y" {
		confirmed = ConfirmationYes
	}

	return QSO{
		TheirCall: record["CALL"],
		Band:      record["BAND"],
		Mode:      record["MODE"],
		QSODate:   record["QSO_DATE"],
		TimeOn:    record["TIME_ON"],
		QSLRcvd:   confirmed,
	}, nil
}

// Logbook aggregates the QSOs of one callsign: the raw parsed records
// as they came off the wire, the source header text, and a
// de-duplicated set of normalized QSOs.
type Logbook struct {
	Callsign string
	Records  []adif.Record
	Header   string

	entries map[identity]QSO
}

// New builds a Logbook from an unparsed ADIF document. Every record
// must normalize; a record missing a required field fails construction.
func New(callsign, unparsedLog string) (*Logbook, error) {
	records, header, err := adif.Parse(unparsedLog)
	if err != nil {
		return nil, err
	}

	book := &Logbook{
		Callsign: callsign,
		Records:  records,
		Header:   header,
		entries:  make(map[identity]QSO, len(records)),
	}

	for _, record := range records {
		qso, err := FromRecord(record)
		if err != nil {
			return nil, err
		}

		book.entries[qso.key()] = qso
	}

	return book, nil
}

// WriteQSO appends a QSO to the normalized set. The raw record sequence
// is left alone; normalized entries and raw records may diverge after
// mutation.
func (l *Logbook) WriteQSO(contact QSO) {
	if l.entries == nil {
		l.entries = make(map[identity]QSO)
	}

	l.entries[contact.key()] = contact
}

// DiscardQSO removes the matching QSO from the normalized set, if one
// exists. The raw record sequence is left alone.
func (l *Logbook) DiscardQSO(contact QSO) {
	delete(l.entries, contact.key())
}

// Contains reports whether a QSO with the same identity is in the
// normalized set.
func (l *Logbook) Contains(contact QSO) bool {
	_, ok := l.entries[contact.key()]
	return ok
}

// Count returns the number of normalized QSOs. It never exceeds the
// raw record count at construction time.
func (l *Logbook) Count() int {
	return len(l.entries)
}

// QSOs returns the normalized set ordered by date, time and callsign.
func (l *Logbook) QSOs() []QSO {
	qsos := make([]QSO, 0, len(l.entries))
	for _, qso := range l.entries {
		qsos = append(qsos, qso)
	}

	sort.Slice(qsos, func(i, j int) bool {
		if qsos[i].QSODate != qsos[j].QSODate {
			return qsos[i].QSODate < qsos[j].QSODate
		}

		if qsos[i].TimeOn != qsos[j].TimeOn {
			return qsos[i].TimeOn < qsos[j].TimeOn
		}

		return qsos[i].TheirCall < qsos[j].TheirCall
	})

	return qsos
}

func (l *Logbook) String() string {
	lines := make([]string, 0, len(l.entries))
	for _, qso := range l.QSOs() {
		lines = append(lines, qso.String())
	}

	return strings.Join(lines, "\n")
}
