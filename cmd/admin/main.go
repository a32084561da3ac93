// admin manages users and groups of a yatube deployment and issues session
// tokens. It reads the same configuration as the server.
//
//	admin create-user --username leo
//	admin create-group --title "Cats" --slug cats --description "..."
//	admin token --username leo --ttl 24h
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/pflag"

	"yatube/internal/app"
	"yatube/internal/config"
	"yatube/internal/logging"
)

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, out io.Writer) error {
	if len(args) == 0 || args[0] == "help" || args[0] == "-h" || args[0] == "--help" {
		printUsage(out)
		return nil
	}
	cmd, ok := commands[args[0]]
	if !ok {
		printUsage(out)
		return fmt.Errorf("unknown command %q", args[0])
	}

	flagSet := pflag.NewFlagSet(args[0], pflag.ContinueOnError)
	flagSet.SetOutput(out)
	act := cmd.flags(flagSet)
	if err := flagSet.Parse(args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	ctx := context.Background()
	a, err := app.Open(ctx, cfg, logging.New(cfg.LogLevel))
	if err != nil {
		return err
	}
	defer a.Close()
	return act(ctx, a, out)
}

func printUsage(out io.Writer) {
	fmt.Fprintln(out, "usage: admin <command> [flags]")
	fmt.Fprintln(out)
	fmt.Fprintln(out, "commands:")
	for _, name := range commandOrder {
		fmt.Fprintf(out, "  %-14s %s\n", name, commands[name].summary)
	}
}
