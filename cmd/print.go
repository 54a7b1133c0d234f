/*
 * Copyright 2025 QSPy contributors
 * SPDX-License-Identifier: MPL-2.0
 */
package cmd

import (
	"fmt"

	"github.com/JayToTheAy/QSPy/logbook"
)

func printLogbook(book *logbook.Logbook) {
	fmt.Printf("Logbook for %s: %d records, %d unique QSOs\n",
		book.Callsign, len(book.Records), book.Count())

	for _, qso := range book.QSOs() {
		fmt.Println(qso.String())
	}
}

func printFields(fields map[string][]string) {
	for key, values := range fields {
		for _, value := range values {
			fmt.Printf("%s=%s\n", key, value)
		}
	}
}
