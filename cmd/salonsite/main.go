package main

import (
	"os"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/salonsite/cmd/salonsite/commands"
	"git.home.luguber.info/inful/salonsite/internal/foundation/errors"
	"git.home.luguber.info/inful/salonsite/internal/version"
)

func main() {
	var cli commands.CLI
	g := &commands.Global{Out: os.Stdout, LogOutput: os.Stderr}
	ctx := kong.Parse(&cli,
		kong.Name("salonsite"),
		kong.Description("Salon Premium site server and content editor"),
		kong.UsageOnError(),
		kong.Vars{"version": version.String()},
		kong.Bind(g),
	)

	err := ctx.Run(g, &cli)
	os.Exit(errors.NewCLIErrorAdapter(cli.Verbose, g.Logger).Report(os.Stderr, err))
}
