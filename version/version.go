/*
 * Copyright 2025 QSPy contributors
 * SPDX-License-Identifier: MPL-2.0
 */

// Package version carries the library version used in User-Agent headers.
package version

// Version is the library version string.
const Version = "2.0.0"

// UserAgent returns the default User-Agent header value. Clients accept
// an override at construction time; this is only the default.
func UserAgent() string {
	return "QSPy/" + Version
}
