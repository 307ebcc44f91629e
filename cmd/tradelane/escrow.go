package main

import (
	"net/http"

	"github.com/urfave/cli/v2"
)

var fundescrow = cli.Command{
	Name:   "fundescrow",
	Usage:  "hold the full contract amount in escrow for a trade",
	Action: fundEscrowAction,
}

func fundEscrowAction(ctx *cli.Context) error {
	tradeId, err := tradeIdArg(ctx)
	if err != nil {
		return err
	}

	resp, err := doRequest(http.MethodPost, "/v1/trades/"+tradeId+"/escrow/fund", nil)
	if err != nil {
		return err
	}

	printJSON(resp)
	return nil
}
