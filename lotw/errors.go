/*
 * Copyright 2025 QSPy contributors
 * SPDX-License-Identifier: MPL-2.0
 */
package lotw

import "errors"

var (
	// ErrUnexpectedStatus marks a non-2xx transport response.
	ErrUnexpectedStatus = errors.New("lotw returned unexpected status")
	// ErrRetrievalFailed marks a service-level rejection; confirm the
	// log-in credentials and filter parameters are correct.
	ErrRetrievalFailed = errors.New("failed to retrieve information from lotw")
	// ErrUploadRejected carries LoTW's reason for rejecting a file.
	ErrUploadRejected = errors.New("lotw rejected the uploaded file")
	// ErrUploadMalformed marks an upload response without the
	// expected result markers.
	ErrUploadMalformed = errors.New("lotw upload response is malformed")
)
