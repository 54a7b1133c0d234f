/*
 * Copyright 2025 QSPy contributors
 * SPDX-License-Identifier: MPL-2.0
 */
package cmd

import (
	"context"
	"fmt"
	"sort"

	"github.com/urfave/cli/v3"

	"github.com/JayToTheAy/QSPy/eqsl"
)

var CmdEQSL = &cli.Command{
	Name:  "eqsl",
	Usage: "Query eQSL.cc",
	Flags: append(credentialFlags("EQSL"),
		&cli.StringFlag{
			Name:    "qth-nickname",
			Sources: cli.EnvVars("EQSL_QTH_NICKNAME"),
			Usage:   "QTH nickname selecting one of the account's locations",
		},
	),
	Commands: []*cli.Command{
		{
			Name:  "verify",
			Usage: "Verify that a QSL is on file",
			Flags: []cli.Flag{
				&cli.StringFlag{Name: "from", Usage: "callsign originating the QSO", Required: true},
				&cli.StringFlag{Name: "to", Usage: "callsign receiving the QSO", Required: true},
				&cli.StringFlag{Name: "band", Usage: "band of the QSO, like 20m", Required: true},
				&cli.StringFlag{Name: "mode", Usage: "mode of the QSO, like SSB"},
				&cli.StringFlag{Name: "date", Usage: "date of the QSO, MM/DD/YYYY"},
			},
			Action: eqslVerify,
		},
		{
			Name:  "inbox",
			Usage: "Fetch incoming QSOs from the inbox",
			Flags: []cli.Flag{
				&cli.StringFlag{Name: "rcvd-since", Usage: "entries received since YYYYMMDDHHMM"},
				&cli.BoolFlag{Name: "confirmed-only", Usage: "only items you have confirmed"},
				&cli.BoolFlag{Name: "unconfirmed-only", Usage: "only items you have not confirmed"},
			},
			Action: eqslInbox,
		},
		{
			Name:   "outbox",
			Usage:  "Fetch outgoing QSOs from the outbox",
			Action: eqslOutbox,
		},
		{
			Name:   "last-upload",
			Usage:  "Show when the account last uploaded a log",
			Action: eqslLastUpload,
		},
		{
			Name:  "members",
			Usage: "Fetch the Authenticity Guaranteed member list",
			Flags: []cli.Flag{
				&cli.BoolFlag{Name: "dated", Usage: "include each member's last upload date"},
			},
			Action: eqslMembers,
		},
	},
}

func eqslClient(cmd *cli.Command) (*eqsl.Client, error) {
	cfg, err := loadConfig(cmd.String("config"))
	if err != nil {
		return nil, err
	}

	username := firstNonEmpty(cmd.String("username"), cfg.EQSL.Username)
	password := firstNonEmpty(cmd.String("password"), cfg.EQSL.Password)
	nickname := firstNonEmpty(cmd.String("qth-nickname"), cfg.EQSL.QTHNickname)

	if username == "" || password == "" {
		return nil, errEQSLCredentialsRequired
	}

	return eqsl.NewClient(username, password, nickname), nil
}

func eqslVerify(ctx context.Context, cmd *cli.Command) error {
	confirmed, detail, err := eqsl.VerifyQSO(ctx, eqsl.VerifyOptions{
		CallsignFrom: cmd.String("from"),
		CallsignTo:   cmd.String("to"),
		Band:         cmd.String("band"),
		Mode:         cmd.String("mode"),
		Date:         cmd.String("date"),
	})
	if err != nil {
		return err
	}

	if confirmed {
		fmt.Println("QSO on file")
	} else {
		fmt.Println("QSO not on file")
	}

	appLogger.Debug("eQSL verification detail", "body", detail)

	return nil
}

func eqslInbox(ctx context.Context, cmd *cli.Command) error {
	client, err := eqslClient(cmd)
	if err != nil {
		return err
	}

	opts := eqsl.InboxOptions{RcvdSince: cmd.String("rcvd-since")}
	if cmd.Bool("confirmed-only") {
		opts.ConfirmedOnly = "1"
	}

	if cmd.Bool("unconfirmed-only") {
		opts.UnconfirmedOnly = "1"
	}

	book, err := client.FetchInbox(ctx, opts)
	if err != nil {
		return err
	}

	printLogbook(book)

	return nil
}

func eqslOutbox(ctx context.Context, cmd *cli.Command) error {
	client, err := eqslClient(cmd)
	if err != nil {
		return err
	}

	book, err := client.FetchOutbox(ctx)
	if err != nil {
		return err
	}

	printLogbook(book)

	return nil
}

func eqslLastUpload(ctx context.Context, cmd *cli.Command) error {
	client, err := eqslClient(cmd)
	if err != nil {
		return err
	}

	date, err := client.LastUploadDate(ctx)
	if err != nil {
		return err
	}

	fmt.Println(date)

	return nil
}

func eqslMembers(ctx context.Context, cmd *cli.Command) error {
	if cmd.Bool("dated") {
		dated, header, err := eqsl.AGMemberListDated(ctx)
		if err != nil {
			return err
		}

		fmt.Println(header)

		callsigns := make([]string, 0, len(dated))
		for callsign := range dated {
			callsigns = append(callsigns, callsign)
		}

		sort.Strings(callsigns)

		for _, callsign := range callsigns {
			fmt.Printf("%s %s\n", callsign, dated[callsign])
		}

		return nil
	}

	members, header, err := eqsl.AGMemberList(ctx)
	if err != nil {
		return err
	}

	fmt.Println(header)

	callsigns := make([]string, 0, len(members))
	for callsign := range members {
		callsigns = append(callsigns, callsign)
	}

	sort.Strings(callsigns)

	for _, callsign := range callsigns {
		fmt.Println(callsign)
	}

	return nil
}
