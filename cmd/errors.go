/*
 * Copyright 2025 QSPy contributors
 * SPDX-License-Identifier: MPL-2.0
 */
package cmd

import "errors"

var (
	errLoTWCredentialsRequired    = errors.New("lotw username and password are required (flags, LOTW_USERNAME/LOTW_PASSWORD, or config file)")
	errEQSLCredentialsRequired    = errors.New("eqsl username and password are required (flags, EQSL_USERNAME/EQSL_PASSWORD, or config file)")
	errQRZKeyRequired             = errors.New("qrz logbook api key is required (flag, QRZ_API_KEY, or config file)")
	errQRZCredentialsRequired     = errors.New("qrz username and password are required (flags, QRZ_USERNAME/QRZ_PASSWORD, or config file)")
	errClubLogCredentialsRequired = errors.New("clublog email, callsign and password are required (flags, CLUBLOG_* env vars, or config file)")
	errLookupTargetRequired       = errors.New("either --callsign or --dxcc is required")
	errLogIDsRequired             = errors.New("at least one --logid is required")
)
