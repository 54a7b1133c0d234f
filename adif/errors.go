/*
 * Copyright 2025 QSPy contributors
 * SPDX-License-Identifier: MPL-2.0
 */
package adif

import "errors"

var (
	// ErrMissingHeader marks a document with field tags but no
	// end-of-header tag.
	ErrMissingHeader = errors.New("adif document has field tags but no end-of-header tag")
	// ErrValueOverrun marks a length-prefixed value that would run
	// past the end of the input.
	ErrValueOverrun = errors.New("adif field value overruns input")
	// ErrMalformedTag marks a tag whose name or length cannot be read.
	ErrMalformedTag = errors.New("malformed adif tag")
)
