package main

import (
	"errors"
	"net/http"

	"github.com/urfave/cli/v2"
)

var createtrade = cli.Command{
	Name:  "createtrade",
	Usage: "create a new trade between a buyer and a seller",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:     "buyer",
			Usage:    "identifier of the buying party",
			Required: true,
		},
		&cli.StringFlag{
			Name:     "seller",
			Usage:    "identifier of the selling party",
			Required: true,
		},
		&cli.StringFlag{
			Name:  "type",
			Usage: "trade type, either rfq or direct-order",
			Value: "rfq",
		},
		&cli.StringFlag{
			Name:  "product",
			Usage: "product reference",
		},
		&cli.Uint64Flag{
			Name:  "quantity",
			Usage: "requested quantity",
		},
		&cli.StringFlag{
			Name:  "unit_price",
			Usage: "target unit price for rfq trades, agreed unit price otherwise",
		},
		&cli.StringFlag{
			Name:  "total_amount",
			Usage: "agreed total amount for direct-order trades",
		},
		&cli.StringFlag{
			Name:  "currency",
			Usage: "settlement currency",
			Value: "EUR",
		},
		&cli.StringFlag{
			Name:  "actor",
			Usage: "party creating the trade",
		},
	},
	Action: createTradeAction,
}

var listtrades = cli.Command{
	Name:  "listtrades",
	Usage: "list trades, optionally filtered by party",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:  "party",
			Usage: "only list trades involving this party",
		},
	},
	Action: listTradesAction,
}

var tradestate = cli.Command{
	Name:   "tradestate",
	Usage:  "fetch the current state of a trade with its escrow, audit tail and next action",
	Action: tradeStateAction,
}

var transition = cli.Command{
	Name:  "transition",
	Usage: "request a stage transition for a trade",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:     "to",
			Usage:    "target stage, ie. contracted, in_transit, settled...",
			Required: true,
		},
		&cli.StringFlag{
			Name:  "quote_id",
			Usage: "accepted quote backing the transition",
		},
		&cli.StringFlag{
			Name:  "actor",
			Usage: "party requesting the transition",
		},
	},
	Action: transitionAction,
}

var audittail = cli.Command{
	Name:  "audittail",
	Usage: "print the most recent transition events of a trade",
	Flags: []cli.Flag{
		&cli.IntFlag{
			Name:  "limit",
			Usage: "max number of events to print",
			Value: 20,
		},
	},
	Action: auditTailAction,
}

func createTradeAction(ctx *cli.Context) error {
	payload := map[string]interface{}{
		"type":         ctx.String("type"),
		"buyer_id":     ctx.String("buyer"),
		"seller_id":    ctx.String("seller"),
		"product_ref":  ctx.String("product"),
		"quantity":     ctx.Uint64("quantity"),
		"unit_price":   ctx.String("unit_price"),
		"total_amount": ctx.String("total_amount"),
		"currency":     ctx.String("currency"),
		"actor":        ctx.String("actor"),
	}

	resp, err := doRequest(http.MethodPost, "/v1/trades", payload)
	if err != nil {
		return err
	}

	printJSON(resp)
	return nil
}

func listTradesAction(ctx *cli.Context) error {
	path := "/v1/trades"
	if party := ctx.String("party"); party != "" {
		path += "?party=" + party
	}

	resp, err := doRequest(http.MethodGet, path, nil)
	if err != nil {
		return err
	}

	printJSON(resp)
	return nil
}

func tradeStateAction(ctx *cli.Context) error {
	tradeId, err := tradeIdArg(ctx)
	if err != nil {
		return err
	}

	resp, err := doRequest(http.MethodGet, "/v1/trades/"+tradeId, nil)
	if err != nil {
		return err
	}

	printJSON(resp)
	return nil
}

func transitionAction(ctx *cli.Context) error {
	tradeId, err := tradeIdArg(ctx)
	if err != nil {
		return err
	}

	payload := map[string]interface{}{
		"target_status": ctx.String("to"),
	}
	if quoteId := ctx.String("quote_id"); quoteId != "" {
		payload["quote_id"] = quoteId
	}
	if actor := ctx.String("actor"); actor != "" {
		payload["actor"] = actor
	}

	resp, err := doRequest(http.MethodPost, "/v1/trades/"+tradeId+"/transition", payload)
	if err != nil {
		return err
	}

	printJSON(resp)
	return nil
}

func auditTailAction(ctx *cli.Context) error {
	tradeId, err := tradeIdArg(ctx)
	if err != nil {
		return err
	}

	path := "/v1/trades/" + tradeId + "/events?limit=" + ctx.String("limit")
	resp, err := doRequest(http.MethodGet, path, nil)
	if err != nil {
		return err
	}

	printJSON(resp)
	return nil
}

func tradeIdArg(ctx *cli.Context) (string, error) {
	if ctx.NArg() < 1 {
		return "", errors.New("trade id is missing")
	}
	return ctx.Args().First(), nil
}
