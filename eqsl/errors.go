/*
 * Copyright 2025 QSPy contributors
 * SPDX-License-Identifier: MPL-2.0
 */
package eqsl

import "errors"

var (
	// ErrUnexpectedStatus marks a non-2xx transport response.
	ErrUnexpectedStatus = errors.New("eqsl returned unexpected status")
	// ErrParameterMissing marks a verification query that eQSL
	// rejected for lacking a required parameter.
	ErrParameterMissing = errors.New("eqsl verification query missing required parameter")
	// ErrADIFNotReady marks an inbox/outbox response without the
	// log-file-built marker; eQSL failed to generate the ADIF file.
	ErrADIFNotReady = errors.New("eqsl did not build an adif file")
	// ErrADIFLinkMissing marks a built-file response whose download
	// link could not be located between the expected anchors.
	ErrADIFLinkMissing = errors.New("eqsl response has no adif download link")
	// ErrLastUploadUnavailable marks a last-upload-date response
	// without the expected marker.
	ErrLastUploadUnavailable = errors.New("eqsl last upload date unavailable")
	// ErrMemberListMalformed marks a member list that does not follow
	// the header/body/trailing-line framing.
	ErrMemberListMalformed = errors.New("eqsl member list is malformed")
	// ErrNotImplemented marks operations that are deliberately
	// unfinished and fail loudly.
	ErrNotImplemented = errors.New("eqsl operation not implemented")
)
