package main

import (
	"encoding/json"
	"fmt"

	"github.com/BurntSushi/toml"
	"github.com/urfave/cli/v2"
	"golang.org/x/xerrors"

	"github.com/portico-labs/portico/actors/account"
	"github.com/portico-labs/portico/actors/tokencb"
	"github.com/portico-labs/portico/types"
	"github.com/portico-labs/portico/vm"
)

// scenario is the TOML description of one simulation: the actors to install
// and the messages to apply, in order.
type scenario struct {
	Actors   []scenarioActor   `toml:"actors"`
	Messages []scenarioMessage `toml:"messages"`
}

type scenarioActor struct {
	Address string `toml:"address"`
	Kind    string `toml:"kind"`
	// Owner applies to account actors only; it is the single address the
	// execution policy authorizes.
	Owner string `toml:"owner"`
}

type scenarioMessage struct {
	From  string `toml:"from"`
	To    string `toml:"to"`
	Input string `toml:"input"`
}

var simCmd = &cli.Command{
	Name:      "sim",
	Usage:     "run a scenario file against an in-memory machine and print the receipts",
	ArgsUsage: "<scenario.toml>",
	Flags: []cli.Flag{
		&cli.BoolFlag{
			Name:  "json",
			Usage: "print receipts as JSON instead of text",
		},
	},
	Action: func(cctx *cli.Context) error {
		if cctx.NArg() != 1 {
			return cli.Exit("expected exactly one scenario file argument", 1)
		}

		var sc scenario
		if _, err := toml.DecodeFile(cctx.Args().First(), &sc); err != nil {
			return xerrors.Errorf("decoding scenario: %w", err)
		}

		m := vm.NewMachine(cctx.Context)
		if err := installActors(m, sc.Actors); err != nil {
			return err
		}

		for i, sm := range sc.Messages {
			msg, err := parseMessage(sm)
			if err != nil {
				return xerrors.Errorf("message %d: %w", i, err)
			}

			ret, err := m.Apply(msg)
			if err != nil {
				return xerrors.Errorf("applying message %d: %w", i, err)
			}

			if cctx.Bool("json") {
				enc, err := json.Marshal(ret)
				if err != nil {
					return err
				}
				fmt.Printf("%s\n", enc)
				continue
			}

			fmt.Printf("message %d: %s -> %s\n", i, msg.From, msg.To)
			fmt.Printf("  exit:   %s\n", ret.ExitCode)
			fmt.Printf("  return: %s\n", ret.Return)
			for _, ev := range ret.Events {
				fmt.Printf("  event from %s:\n", ev.Emitter)
				for _, entry := range ev.Entries {
					fmt.Printf("    %s = %s\n", entry.Key, types.Bytes(entry.Value))
				}
			}
		}
		return nil
	},
}

func installActors(m *vm.Machine, actors []scenarioActor) error {
	for _, sa := range actors {
		addr, err := types.ParseAddress(sa.Address)
		if err != nil {
			return xerrors.Errorf("actor %q: %w", sa.Address, err)
		}

		var code vm.Invokee
		var state interface{}
		switch sa.Kind {
		case "account":
			owner, err := types.ParseAddress(sa.Owner)
			if err != nil {
				return xerrors.Errorf("account %s owner: %w", addr, err)
			}
			code, state = account.New(soloPolicy{owner: owner}), &account.State{}
		case "tokencb":
			code = &tokencb.Actor{}
		case "echo":
			code = echoActor{}
		default:
			return xerrors.Errorf("actor %s has unknown kind %q", addr, sa.Kind)
		}

		if err := m.CreateActor(addr, code, state); err != nil {
			return err
		}
		log.Debugw("installed actor", "address", addr, "kind", sa.Kind)
	}
	return nil
}

func parseMessage(sm scenarioMessage) (*types.Message, error) {
	from, err := types.ParseAddress(sm.From)
	if err != nil {
		return nil, xerrors.Errorf("from: %w", err)
	}
	to, err := types.ParseAddress(sm.To)
	if err != nil {
		return nil, xerrors.Errorf("to: %w", err)
	}
	input, err := types.DecodeHexString(sm.Input)
	if err != nil {
		return nil, xerrors.Errorf("input: %w", err)
	}
	return &types.Message{From: from, To: to, Input: input}, nil
}

// soloPolicy authorizes a single owner address.
type soloPolicy struct {
	owner types.Address
}

func (p soloPolicy) Authorize(caller, to types.Address, payload []byte) error {
	if caller != p.owner {
		return xerrors.Errorf("caller %s is not the owner %s", caller, p.owner)
	}
	return nil
}

// echoActor returns its input unchanged, handy for probing the forwarding
// path from scenario files.
type echoActor struct{}

func (echoActor) Invoke(rt vm.Runtime, input []byte) []byte {
	return input
}
