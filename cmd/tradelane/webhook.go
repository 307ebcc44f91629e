package main

import (
	"errors"
	"net/http"

	"github.com/urfave/cli/v2"
)

var addwebhook = cli.Command{
	Name:  "addwebhook",
	Usage: "register a webhook invoked on trade events",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:     "endpoint",
			Usage:    "url of the webhook to call",
			Required: true,
		},
		&cli.StringFlag{
			Name:  "secret",
			Usage: "secret used to sign webhook requests, generated if omitted",
		},
		&cli.StringFlag{
			Name:  "topic",
			Usage: "event topic to subscribe to: TRADE_TRANSITION, TRADE_BLOCKED or *",
			Value: "*",
		},
	},
	Action: addWebhookAction,
}

var removewebhook = cli.Command{
	Name:  "removewebhook",
	Usage: "remove a registered webhook",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:  "topic",
			Usage: "topic of the webhook to remove",
			Value: "*",
		},
	},
	Action: removeWebhookAction,
}

func addWebhookAction(ctx *cli.Context) error {
	payload := map[string]interface{}{
		"topic":    ctx.String("topic"),
		"endpoint": ctx.String("endpoint"),
		"secret":   ctx.String("secret"),
	}

	resp, err := doRequest(http.MethodPost, "/v1/webhooks", payload)
	if err != nil {
		return err
	}

	printJSON(resp)
	return nil
}

func removeWebhookAction(ctx *cli.Context) error {
	if ctx.NArg() < 1 {
		return errors.New("webhook id is missing")
	}
	id := ctx.Args().First()

	resp, err := doRequest(
		http.MethodDelete, "/v1/webhooks/"+id+"?topic="+ctx.String("topic"), nil,
	)
	if err != nil {
		return err
	}

	if len(resp) == 0 {
		resp = []byte(`{"success": true}`)
	}
	printJSON(resp)
	return nil
}
