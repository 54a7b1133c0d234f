/*
 * Copyright 2025 QSPy contributors
 * SPDX-License-Identifier: MPL-2.0
 */
package cmd

import "github.com/JayToTheAy/QSPy/logging"

var appLogger = logging.Logger(logging.SourceApp)
