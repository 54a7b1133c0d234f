/*
 * Copyright 2025 QSPy contributors
 * SPDX-License-Identifier: MPL-2.0
 */
package logbook

import "errors"

// ErrMissingField marks a raw record lacking one of the five fields a
// QSO requires; the wrapped message names the field.
var ErrMissingField = errors.New("adif record missing required field")
