/*
 * Copyright 2025 QSPy contributors
 * SPDX-License-Identifier: MPL-2.0
 */
package clublog

import "errors"

// ErrUnexpectedStatus marks a non-2xx transport response.
var ErrUnexpectedStatus = errors.New("clublog returned unexpected status")
