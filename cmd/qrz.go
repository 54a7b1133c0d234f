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

	"github.com/JayToTheAy/QSPy/qrz"
)

var CmdQRZ = &cli.Command{
	Name:  "qrz",
	Usage: "Query QRZ.com's logbook and XML interfaces",
	Flags: append(credentialFlags("QRZ"),
		&cli.StringFlag{
			Name:    "key",
			Sources: cli.EnvVars("QRZ_API_KEY"),
			Usage:   "logbook API key",
		},
	),
	Commands: []*cli.Command{
		{
			Name:  "fetch",
			Usage: "Fetch the logbook behind the API key",
			Flags: []cli.Flag{
				&cli.StringFlag{Name: "option", Usage: "comma-separated filter string, like MODE:SSB,CALL:W1AW"},
			},
			Action: qrzFetch,
		},
		{
			Name:  "status",
			Usage: "Show logbook status",
			Flags: []cli.Flag{
				&cli.StringSliceFlag{Name: "logid", Usage: "logid to query; repeatable"},
			},
			Action: qrzStatus,
		},
		{
			Name:  "delete",
			Usage: "Permanently delete log records by logid",
			Flags: []cli.Flag{
				&cli.StringSliceFlag{Name: "logid", Usage: "logid to delete; repeatable"},
			},
			Action: qrzDelete,
		},
		{
			Name:  "lookup",
			Usage: "Look up a callsign or DXCC entity via the XML interface",
			Flags: []cli.Flag{
				&cli.StringFlag{Name: "callsign", Usage: "callsign to look up"},
				&cli.StringFlag{Name: "dxcc", Usage: "DXCC number or prefix to look up"},
			},
			Action: qrzLookup,
		},
	},
}

func qrzLogbookClient(cmd *cli.Command) (*qrz.LogbookClient, error) {
	cfg, err := loadConfig(cmd.String("config"))
	if err != nil {
		return nil, err
	}

	key := firstNonEmpty(cmd.String("key"), cfg.QRZ.APIKey)
	if key == "" {
		return nil, errQRZKeyRequired
	}

	return qrz.NewLogbookClient(key), nil
}

func qrzFetch(ctx context.Context, cmd *cli.Command) error {
	client, err := qrzLogbookClient(cmd)
	if err != nil {
		return err
	}

	book, err := client.FetchLogbook(ctx, cmd.String("option"))
	if err != nil {
		return err
	}

	printLogbook(book)

	return nil
}

func qrzStatus(ctx context.Context, cmd *cli.Command) error {
	client, err := qrzLogbookClient(cmd)
	if err != nil {
		return err
	}

	fields, err := client.CheckStatus(ctx, cmd.StringSlice("logid"))
	if err != nil {
		return err
	}

	printFields(fields)

	return nil
}

func qrzDelete(ctx context.Context, cmd *cli.Command) error {
	logIDs := cmd.StringSlice("logid")
	if len(logIDs) == 0 {
		return errLogIDsRequired
	}

	client, err := qrzLogbookClient(cmd)
	if err != nil {
		return err
	}

	fields, err := client.DeleteRecords(ctx, logIDs)
	if err != nil {
		return err
	}

	printFields(fields)

	return nil
}

func qrzLookup(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd.String("config"))
	if err != nil {
		return err
	}

	username := firstNonEmpty(cmd.String("username"), cfg.QRZ.Username)
	password := firstNonEmpty(cmd.String("password"), cfg.QRZ.Password)

	if username == "" || password == "" {
		return errQRZCredentialsRequired
	}

	client := qrz.NewXMLClient(username, password)

	var (
		response *qrz.XMLResponse
		payload  map[string]string
	)

	switch {
	case cmd.String("callsign") != "":
		response, err = client.LookupCallsign(ctx, cmd.String("callsign"))
		if err != nil {
			return err
		}

		payload = response.Callsign
	case cmd.String("dxcc") != "":
		response, err = client.LookupDXCC(ctx, cmd.String("dxcc"))
		if err != nil {
			return err
		}

		payload = response.DXCC
	default:
		return errLookupTargetRequired
	}

	keys := make([]string, 0, len(payload))
	for key := range payload {
		keys = append(keys, key)
	}

	sort.Strings(keys)

	for _, key := range keys {
		fmt.Printf("%s: %s\n", key, payload[key])
	}

	return nil
}
