/*
 * Copyright 2025 QSPy contributors
 * SPDX-License-Identifier: MPL-2.0
 */
package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v3"

	"github.com/JayToTheAy/QSPy/lotw"
)

var CmdLoTW = &cli.Command{
	Name:  "lotw",
	Usage: "Query ARRL's Logbook of the World",
	Flags: credentialFlags("LOTW"),
	Commands: []*cli.Command{
		{
			Name:  "fetch",
			Usage: "Fetch the QSL report as a logbook",
			Flags: []cli.Flag{
				&cli.StringFlag{Name: "qsl-since", Usage: "QSLs since datetime (YYYY-MM-DD HH:MM:SS)"},
				&cli.StringFlag{Name: "own-call", Usage: "restrict to one of your own callsigns"},
				&cli.StringFlag{Name: "callsign", Usage: "restrict to a worked callsign"},
				&cli.StringFlag{Name: "band", Usage: "restrict to a band"},
				&cli.StringFlag{Name: "mode", Usage: "restrict to a mode"},
				&cli.StringFlag{Name: "start-date", Usage: "earliest QSO date"},
				&cli.StringFlag{Name: "end-date", Usage: "latest QSO date"},
				&cli.BoolFlag{Name: "all", Usage: "include unconfirmed QSOs, not just QSLs"},
			},
			Action: lotwFetch,
		},
		{
			Name:  "dxcc",
			Usage: "Fetch granted DXCC award credit",
			Flags: []cli.Flag{
				&cli.StringFlag{Name: "entity", Usage: "DXCC entity code"},
				&cli.StringFlag{Name: "award-account", Usage: "award account, if several exist"},
			},
			Action: lotwDXCC,
		},
		{
			Name:   "activity",
			Usage:  "Fetch the public last-upload activity feed",
			Flags:  []cli.Flag{&cli.StringFlag{Name: "callsign", Usage: "show one callsign only"}},
			Action: lotwActivity,
		},
		{
			Name:  "upload",
			Usage: "Upload a signed .tq5/.tq8 log file",
			Flags: []cli.Flag{
				&cli.StringFlag{Name: "file", Usage: "path to the signed log", Required: true},
			},
			Action: lotwUpload,
		},
	},
}

func lotwClient(cmd *cli.Command) (*lotw.Client, error) {
	cfg, err := loadConfig(cmd.String("config"))
	if err != nil {
		return nil, err
	}

	username := firstNonEmpty(cmd.String("username"), cfg.LoTW.Username)
	password := firstNonEmpty(cmd.String("password"), cfg.LoTW.Password)

	if username == "" || password == "" {
		return nil, errLoTWCredentialsRequired
	}

	return lotw.NewClient(username, password), nil
}

func lotwFetch(ctx context.Context, cmd *cli.Command) error {
	client, err := lotwClient(cmd)
	if err != nil {
		return err
	}

	opts := lotw.FetchOptions{
		QSLSince:  cmd.String("qsl-since"),
		OwnCall:   cmd.String("own-call"),
		Callsign:  cmd.String("callsign"),
		Band:      cmd.String("band"),
		Mode:      cmd.String("mode"),
		StartDate: cmd.String("start-date"),
		EndDate:   cmd.String("end-date"),
	}
	if cmd.Bool("all") {
		opts.QSLOnly = "no"
	}

	book, err := client.FetchLogbook(ctx, opts)
	if err != nil {
		return err
	}

	printLogbook(book)

	return nil
}

func lotwDXCC(ctx context.Context, cmd *cli.Command) error {
	client, err := lotwClient(cmd)
	if err != nil {
		return err
	}

	book, err := client.DXCCCredit(ctx, cmd.String("entity"), cmd.String("award-account"))
	if err != nil {
		return err
	}

	printLogbook(book)

	return nil
}

func lotwActivity(ctx context.Context, cmd *cli.Command) error {
	activity, err := lotw.LastUploads(ctx)
	if err != nil {
		return err
	}

	only := cmd.String("callsign")

	for _, entry := range activity {
		if only != "" && entry.Callsign != only {
			continue
		}

		fmt.Printf("%s %s %s\n", entry.Callsign, entry.Date, entry.Time)
	}

	return nil
}

func lotwUpload(ctx context.Context, cmd *cli.Command) error {
	path := cmd.String("file")

	contents, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read signed log: %w", err)
	}

	message, err := lotw.UploadLogbook(ctx, filepath.Base(path), contents)
	if err != nil {
		return err
	}

	fmt.Println(message)

	return nil
}

// credentialFlags builds the username/password flags shared by the
// account-bound services; prefix selects the env var namespace.
func credentialFlags(prefix string) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "username",
			Sources: cli.EnvVars(prefix + "_USERNAME"),
			Usage:   "account username (callsign)",
		},
		&cli.StringFlag{
			Name:    "password",
			Sources: cli.EnvVars(prefix + "_PASSWORD"),
			Usage:   "account password",
		},
		&cli.StringFlag{
			Name:  "config",
			Usage: "path to the credentials file",
			Value: defaultConfigPath,
		},
	}
}
