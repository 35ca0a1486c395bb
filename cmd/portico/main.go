package main

import (
	"fmt"
	"os"

	logging "github.com/ipfs/go-log/v2"
	"github.com/urfave/cli/v2"

	"github.com/portico-labs/portico/types"
)

var log = logging.Logger("portico")

func main() {
	app := &cli.App{
		Name:    "portico",
		Usage:   "inspect and simulate the smart account's call routing",
		Version: "0.1.0",
		Commands: []*cli.Command{
			slotCmd,
			selectorCmd,
			appendCallerCmd,
			simCmd,
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Errorf("%+v", err)
		os.Exit(1)
	}
}

var slotCmd = &cli.Command{
	Name:  "slot",
	Usage: "print the storage slot derived from a namespace string",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:  "key",
			Value: "fallback_manager.handler.address",
			Usage: "namespace string to derive the slot from",
		},
	},
	Action: func(cctx *cli.Context) error {
		key := cctx.String("key")
		fmt.Printf("%s\n", types.Keccak256([]byte(key)))
		return nil
	},
}

var selectorCmd = &cli.Command{
	Name:      "selector",
	Usage:     "print the 4-byte selector of a canonical method signature",
	ArgsUsage: "<signature>",
	Action: func(cctx *cli.Context) error {
		if cctx.NArg() != 1 {
			return cli.Exit("expected exactly one signature argument", 1)
		}
		fmt.Printf("%s\n", types.SelectorOf(cctx.Args().First()))
		return nil
	},
}

var appendCallerCmd = &cli.Command{
	Name:      "append-caller",
	Usage:     "print a payload with a caller address appended, as the fallback path forwards it",
	ArgsUsage: "<payload-hex> <caller-address>",
	Action: func(cctx *cli.Context) error {
		if cctx.NArg() != 2 {
			return cli.Exit("expected a payload and a caller address", 1)
		}
		payload, err := types.DecodeHexString(cctx.Args().Get(0))
		if err != nil {
			return err
		}
		caller, err := types.ParseAddress(cctx.Args().Get(1))
		if err != nil {
			return err
		}
		fmt.Printf("%s\n", types.Bytes(types.AppendCallerWord(payload, caller)))
		return nil
	},
}
