package main

import (
	"errors"
	"fmt"

	"github.com/urfave/cli/v2"
)

var daemonUrlFlag = cli.StringFlag{
	Name:  "daemon_url",
	Usage: "tradelaned daemon base url, ie. http://localhost:9945",
	Value: "http://localhost:9945",
}

var cliConfig = cli.Command{
	Name:   "config",
	Usage:  "Print local configuration of the tradelane CLI",
	Action: configAction,
	Subcommands: []*cli.Command{
		{
			Name:   "set",
			Usage:  "set a <key> <value> in the local state",
			Action: configSetAction,
		},
		{
			Name:   "init",
			Usage:  "initialize the local state with flags",
			Action: configInitAction,
			Flags: []cli.Flag{
				&daemonUrlFlag,
			},
		},
	},
}

func configAction(ctx *cli.Context) error {
	state, err := getState()
	if err != nil {
		return err
	}

	for key, value := range state {
		fmt.Println(key + ": " + value)
	}

	return nil
}

func configInitAction(c *cli.Context) error {
	return setState(map[string]string{
		"daemon_url": c.String("daemon_url"),
	})
}

func configSetAction(c *cli.Context) error {
	if c.NArg() < 2 {
		return errors.New("key and value are missing")
	}

	key := c.Args().Get(0)
	value := c.Args().Get(1)

	return setState(map[string]string{key: value})
}
