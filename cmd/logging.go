package cmd

import (
	"github.com/achilleasa/gridtrace/log"
	"github.com/urfave/cli"
)

var logger = log.New("gridtrace")

// Apply the global verbosity flags. A level from a config file is applied
// first so that -v and -vv can still raise verbosity.
func setupLogging(ctx *cli.Context, configLevel string) error {
	if configLevel != "" {
		level, err := log.ParseLevel(configLevel)
		if err != nil {
			return err
		}
		log.SetLevel(level)
	}

	if ctx.GlobalBool("v") {
		log.SetLevel(log.Info)
	}

	if ctx.GlobalBool("vv") {
		log.SetLevel(log.Debug)
	}
	return nil
}
