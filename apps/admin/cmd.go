package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/jmoiron/sqlx"

	"github.com/fsnd-projects/fsnd/core/trivia"
)

var errHelp = errors.New("help provided")

type commandLine struct {
	db        *sqlx.DB
	engine    string
	triviaSvc trivia.ServiceInterface
	out       io.Writer
}

func (cli *commandLine) printf(format string, args ...interface{}) {
	out := cli.out
	if out == nil {
		out = os.Stdout
	}
	_, _ = fmt.Fprintf(out, format, args...)
}

func (cli *commandLine) printUsage() {
	cli.printf("Usage:\n")
	cli.printf("  migrate COMMAND [ARGS] - run a goose migration command (up, down, status, ...)\n")
	cli.printf("  seed - add the default trivia categories\n")
	cli.printf("  addcategory -type TYPE - add a trivia category\n")
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	addCategoryCmd := flag.NewFlagSet("addcategory", flag.ContinueOnError)
	addCategoryType := addCategoryCmd.String("type", "", "The category type, e.g. Science.")

	switch args[1] {
	case "migrate":
		if len(args) < 3 {
			cli.printf("Usage:\n  migrate COMMAND [ARGS]\n")
			return errHelp
		}
		return cli.migrate(args[2:])
	case "seed":
		return cli.seed()
	case "addcategory":
		if err := addCategoryCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *addCategoryType == "" {
			addCategoryCmd.Usage()
			return errHelp
		}
		return cli.addCategory(*addCategoryType)
	default:
		cli.printUsage()
		return errHelp
	}
}
