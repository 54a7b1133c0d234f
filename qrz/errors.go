/*
 * Copyright 2025 QSPy contributors
 * SPDX-License-Identifier: MPL-2.0
 */
package qrz

import "errors"

var (
	// ErrUnexpectedStatus marks a non-2xx transport response.
	ErrUnexpectedStatus = errors.New("qrz returned unexpected status")
	// ErrFetchFailed marks a logbook fetch whose response carried no
	// ADIF payload; the wrapped detail holds QRZ's RESULT and REASON.
	ErrFetchFailed = errors.New("qrz logbook fetch failed")
	// ErrInvalidSession marks a missing or expired session key after
	// the bounded re-authentication retry is exhausted.
	ErrInvalidSession = errors.New("qrz session is invalid: got no session key back")
	// ErrResponseMalformed marks an XML envelope that does not parse.
	ErrResponseMalformed = errors.New("qrz xml response is malformed")
	// ErrNotImplemented marks operations that are deliberately
	// unfinished and fail loudly.
	ErrNotImplemented = errors.New("qrz operation not implemented")
)
