/*
 * Copyright 2025 QSPy contributors
 * SPDX-License-Identifier: MPL-2.0
 */
package cmd

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/JayToTheAy/QSPy/clublog"
)

var CmdClubLog = &cli.Command{
	Name:  "clublog",
	Usage: "Query ClubLog",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:    "email",
			Sources: cli.EnvVars("CLUBLOG_EMAIL"),
			Usage:   "account email address",
		},
		&cli.StringFlag{
			Name:    "callsign",
			Sources: cli.EnvVars("CLUBLOG_CALLSIGN"),
			Usage:   "account callsign",
		},
		&cli.StringFlag{
			Name:    "password",
			Sources: cli.EnvVars("CLUBLOG_PASSWORD"),
			Usage:   "account password",
		},
		&cli.StringFlag{
			Name:  "config",
			Usage: "path to the credentials file",
			Value: defaultConfigPath,
		},
	},
	Commands: []*cli.Command{
		{
			Name:   "fetch",
			Usage:  "Fetch the complete log as a logbook",
			Action: clublogFetch,
		},
	},
}

func clublogFetch(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd.String("config"))
	if err != nil {
		return err
	}

	email := firstNonEmpty(cmd.String("email"), cfg.ClubLog.Email)
	callsign := firstNonEmpty(cmd.String("callsign"), cfg.ClubLog.Callsign)
	password := firstNonEmpty(cmd.String("password"), cfg.ClubLog.Password)

	if email == "" || callsign == "" || password == "" {
		return errClubLogCredentialsRequired
	}

	client := clublog.NewClient(email, callsign, password)

	book, err := client.FetchLogbook(ctx)
	if err != nil {
		return err
	}

	printLogbook(book)

	return nil
}
