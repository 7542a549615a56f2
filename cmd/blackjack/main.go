package main

import (
	"github.com/alecthomas/kong"
)

// version is set by ldflags during build
var version = "dev"

type CLI struct {
	Version  kong.VersionFlag `short:"v" help:"Show version"`
	Bankroll string           `arg:"" optional:"" help:"Starting bankroll in whole dollars (default 500)"`
	Config   string           `short:"c" default:"blackjack.hcl" help:"HCL configuration file (ignored if missing)"`
	Seed     int64            `help:"Seed for shuffling; 0 picks one from the clock"`
	TUI      bool             `name:"tui" help:"Play in the full-screen terminal UI"`
	NoColor  bool             `help:"Disable colored output"`
	LogFile  string           `help:"Write the session log to this file (default blackjack.log)"`
	History  string           `help:"Save a TOML record of every round to this file"`
	Debug    bool             `short:"d" help:"Enable debug logging"`
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("blackjack"),
		kong.Description("Single-player blackjack against the dealer"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Vars{
			"version": version,
		},
	)
	err := ctx.Run()
	ctx.FatalIfErrorf(err)
}
