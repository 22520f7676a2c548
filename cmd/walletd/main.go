package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"
)

var version = "dev"

func main() {
	app := cli.NewApp()

	app.Version = version
	app.Name = "wallet CLI"
	app.Usage = "Command line interface for the Scroll wallet"
	app.Commands = append(
		app.Commands,
		&create,
		&importwallet,
		&balance,
		&send,
		&sendtoken,
		&history,
		&networks,
		&status,
		&forget,
	)

	if err := app.Run(os.Args); err != nil {
		fatal(err)
	}
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}
