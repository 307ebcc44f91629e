package main

import (
	"errors"
	"net/http"

	"github.com/urfave/cli/v2"
)

var submitquote = cli.Command{
	Name:  "submitquote",
	Usage: "submit a supplier quote against an open rfq trade",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:     "supplier",
			Usage:    "identifier of the quoting supplier",
			Required: true,
		},
		&cli.StringFlag{
			Name:     "unit_price",
			Usage:    "quoted unit price",
			Required: true,
		},
		&cli.StringFlag{
			Name:     "total_price",
			Usage:    "quoted total price",
			Required: true,
		},
		&cli.UintFlag{
			Name:  "lead_time_days",
			Usage: "quoted lead time in days",
		},
		&cli.StringFlag{
			Name:  "incoterms",
			Usage: "quoted incoterms, ie. FOB, CIF...",
		},
	},
	Action: submitQuoteAction,
}

var listquotes = cli.Command{
	Name:   "listquotes",
	Usage:  "list the quotes submitted against a trade",
	Action: listQuotesAction,
}

var acceptquote = cli.Command{
	Name:   "acceptquote",
	Usage:  "accept a submitted quote and move the trade to contracted",
	Action: acceptQuoteAction,
}

func submitQuoteAction(ctx *cli.Context) error {
	tradeId, err := tradeIdArg(ctx)
	if err != nil {
		return err
	}

	payload := map[string]interface{}{
		"supplier_id":    ctx.String("supplier"),
		"unit_price":     ctx.String("unit_price"),
		"total_price":    ctx.String("total_price"),
		"lead_time_days": ctx.Uint("lead_time_days"),
		"incoterms":      ctx.String("incoterms"),
	}

	resp, err := doRequest(http.MethodPost, "/v1/trades/"+tradeId+"/quotes", payload)
	if err != nil {
		return err
	}

	printJSON(resp)
	return nil
}

func listQuotesAction(ctx *cli.Context) error {
	tradeId, err := tradeIdArg(ctx)
	if err != nil {
		return err
	}

	resp, err := doRequest(http.MethodGet, "/v1/trades/"+tradeId+"/quotes", nil)
	if err != nil {
		return err
	}

	printJSON(resp)
	return nil
}

func acceptQuoteAction(ctx *cli.Context) error {
	if ctx.NArg() < 2 {
		return errors.New("trade id and quote id are missing")
	}
	tradeId := ctx.Args().Get(0)
	quoteId := ctx.Args().Get(1)

	resp, err := doRequest(
		http.MethodPost, "/v1/trades/"+tradeId+"/quotes/"+quoteId+"/accept", nil,
	)
	if err != nil {
		return err
	}

	printJSON(resp)
	return nil
}
