/*
 * Copyright 2025 QSPy contributors
 * SPDX-License-Identifier: MPL-2.0
 */
package main

import (
	"context"
	"log"
	"os"

	charmlog "github.com/charmbracelet/log"
	"github.com/urfave/cli/v3"

	"github.com/JayToTheAy/QSPy/cmd"
	"github.com/JayToTheAy/QSPy/logging"
	"github.com/JayToTheAy/QSPy/version"
)

func main() {
	app := &cli.Command{
		Name:    "qspy",
		Usage:   "QSPy - fetch and normalize logbooks from LoTW, QRZ, eQSL and ClubLog",
		Version: version.Version,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "verbose",
				Usage: "enable debug logging",
				Action: func(_ context.Context, _ *cli.Command, verbose bool) error {
					if verbose {
						logging.SetLevel(charmlog.DebugLevel)
					}

					return nil
				},
			},
		},
		Commands: []*cli.Command{
			cmd.CmdLoTW,
			cmd.CmdQRZ,
			cmd.CmdEQSL,
			cmd.CmdClubLog,
		},
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}
